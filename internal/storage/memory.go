package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/linemk/switch-merchant/internal/domain/models"
)

// MemoryStorage хранит каталог и заказы в памяти процесса, без сохранения между перезапусками.
type MemoryStorage struct {
	mu       sync.RWMutex
	products map[string]models.Product
	orders   map[uuid.UUID]*models.Order
	sequence []uuid.UUID // порядок создания заказов
	now      func() time.Time
}

var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage создаёт хранилище с заданным каталогом и начальными заказами.
func NewMemoryStorage(products []models.Product, orders []models.Order) *MemoryStorage {
	s := &MemoryStorage{
		products: make(map[string]models.Product, len(products)),
		orders:   make(map[uuid.UUID]*models.Order, len(orders)),
		now:      time.Now,
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	for i := range orders {
		o := orders[i]
		s.orders[o.ID] = &o
		s.sequence = append(s.sequence, o.ID)
	}
	return s
}

func (s *MemoryStorage) GetProduct(_ context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

func (s *MemoryStorage) CreateOrder(_ context.Context, order *models.Order) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := *order
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if _, exists := s.orders[o.ID]; exists {
		return uuid.Nil, fmt.Errorf("order %s already exists", o.ID)
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.now().UTC()
	}
	s.orders[o.ID] = &o
	s.sequence = append(s.sequence, o.ID)

	order.ID = o.ID
	order.CreatedAt = o.CreatedAt
	return o.ID, nil
}

func (s *MemoryStorage) GetOrder(_ context.Context, id uuid.UUID) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

// UpdateOrder меняет копию заказа и записывает её обратно только если mutate не вернул ошибку.
func (s *MemoryStorage) UpdateOrder(_ context.Context, id uuid.UUID, mutate func(order *models.Order) error) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	cp := *o
	if err := mutate(&cp); err != nil {
		return nil, err
	}
	cp.ID = id
	s.orders[id] = &cp

	result := cp
	return &result, nil
}

func (s *MemoryStorage) ListOrders(_ context.Context) ([]*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]*models.Order, 0, len(s.sequence))
	for _, id := range s.sequence {
		cp := *s.orders[id]
		orders = append(orders, &cp)
	}
	return orders, nil
}
