package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/linemk/switch-merchant/internal/domain/models"
)

// productRepository - каталог товаров в таблице products.
type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт новый репозиторий товаров.
func NewProductRepository(db *sql.DB) ProductStorage {
	return &productRepository{db: db}
}

// GetProduct ищет товар по артикулу.
func (r *productRepository) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product := &models.Product{}
	row := r.db.QueryRowContext(ctx, "SELECT id, name, price, currency FROM products WHERE id = $1", id)
	if err := row.Scan(&product.ID, &product.Name, &product.Price, &product.Currency); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// postgresStorage склеивает репозитории в Storage.
type postgresStorage struct {
	ProductStorage
	OrderStorage
}

// NewPostgresStorage возвращает Storage поверх открытого подключения к PostgreSQL.
func NewPostgresStorage(db *sql.DB) Storage {
	return &postgresStorage{
		ProductStorage: NewProductRepository(db),
		OrderStorage:   NewOrderRepository(db),
	}
}
