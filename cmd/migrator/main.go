package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/linemk/switch-merchant/internal/app"
	"github.com/linemk/switch-merchant/internal/config"
)

const migrationTableName = "migrations"

func main() {
	// флаг объявляется до config.MustLoad, который сам вызывает flag.Parse
	var migrationsPathFlag string
	var down bool
	flag.StringVar(&migrationsPathFlag, "migrations-path", "", "path to migration files")
	flag.BoolVar(&down, "down", false, "roll back all migrations")

	cfg := config.MustLoad()

	migrationsPath := cfg.Migrations.Path
	if migrationsPathFlag != "" {
		migrationsPath = migrationsPathFlag
	}

	if cfg.Database.Password == "" {
		log.Fatal("DB_PASSWORD environment variable is required")
	}

	dsnForQuery := app.PostgresDSN(cfg.Database)
	dsnForMigrate := dsnForQuery + "&x-migrations-table=" + migrationTableName
	log.Printf("Using database %s on %s:%d", cfg.Database.Name, cfg.Database.Host, cfg.Database.Port)

	// Создаем объект мигратора
	m, err := migrate.New(
		"file://"+migrationsPath,
		dsnForMigrate,
	)
	if err != nil {
		log.Fatalf("failed to create migrate instance: %v", err)
	}

	apply := m.Up
	if down {
		apply = m.Down
	}
	if err := apply(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("No migrations to apply")
		} else {
			log.Fatalf("migration failed: %v", err)
		}
	} else {
		log.Println("Migrations applied successfully")
	}

	db, err := sql.Open("postgres", dsnForQuery)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	var products, orders int
	if err := db.QueryRow(`SELECT
		(SELECT count(*) FROM products),
		(SELECT count(*) FROM orders)`).Scan(&products, &orders); err != nil {
		// после -down таблиц нет
		log.Printf("tables are not available: %v", err)
		return
	}
	fmt.Printf("products: %d, orders: %d\n", products, orders)
}
