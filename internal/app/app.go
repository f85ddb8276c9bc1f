package app

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	"github.com/linemk/switch-merchant/internal/config"
	"github.com/linemk/switch-merchant/internal/gateway"
	"github.com/linemk/switch-merchant/internal/storage"
)

type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	DB      *sql.DB // nil для хранилища в памяти
	Storage storage.Storage
	Gateway *gateway.Client
}

// NewApp создаёт новый экземпляр App: хранилище по настройке storage.driver и клиента шлюза
func NewApp(log *slog.Logger, cfg *config.Config) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: log,
	}

	switch cfg.Storage.Driver {
	case config.StorageMemory, "":
		app.Storage = storage.NewMemoryStorage(storage.DefaultProducts(), storage.DemoOrders())
	case config.StoragePostgres:
		db, err := openPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		app.DB = db
		app.Storage = storage.NewPostgresStorage(db)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	log.Info("storage initialized", slog.String("driver", cfg.Storage.Driver))

	gw, err := gateway.NewClient(log, gateway.Config{
		BaseURL:          cfg.Gateway.BaseURL,
		AccountID:        cfg.Gateway.AccountID,
		PrivateKey:       cfg.Gateway.PrivateKey,
		PublicKey:        cfg.Gateway.PublicKey,
		Timeout:          cfg.Gateway.Timeout,
		FailureThreshold: cfg.Gateway.FailureThreshold,
		OpenTimeout:      cfg.Gateway.OpenTimeout,
	}, nil)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to create gateway client: %w", err)
	}
	app.Gateway = gw

	return app, nil
}

// Close закрывает подключение к БД, если оно есть
func (a *App) Close() {
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Error("failed to close database", slog.Any("error", err))
		}
	}
}

// PostgresDSN строка подключения для обычных SQL запросов
func PostgresDSN(dbCfg config.DatabaseConfig) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.Name,
	)
}

func openPostgres(dbCfg config.DatabaseConfig) (*sql.DB, error) {
	if dbCfg.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD environment variable is not set")
	}

	db, err := sql.Open("postgres", PostgresDSN(dbCfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
