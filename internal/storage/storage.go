package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/linemk/switch-merchant/internal/domain/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
)

// ProductStorage описывает доступ к каталогу товаров.
type ProductStorage interface {
	// GetProduct ищет товар по артикулу.
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

// OrderStorage описывает методы для работы с заказами.
type OrderStorage interface {
	// CreateOrder сохраняет новый заказ и возвращает его идентификатор.
	// Если у заказа нет ID, он генерируется.
	CreateOrder(ctx context.Context, order *models.Order) (uuid.UUID, error)
	// GetOrder возвращает копию заказа.
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// UpdateOrder применяет mutate к заказу под эксклюзивной блокировкой и сохраняет результат.
	UpdateOrder(ctx context.Context, id uuid.UUID, mutate func(order *models.Order) error) (*models.Order, error)
	// ListOrders возвращает все заказы в порядке создания.
	ListOrders(ctx context.Context) ([]*models.Order, error)
}

// Storage объединяет каталог и заказы.
type Storage interface {
	ProductStorage
	OrderStorage
}
