package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/switch-merchant/internal/domain/models"
	"github.com/linemk/switch-merchant/internal/storage"
)

// OrderService отдаёт список заказов.
type OrderService interface {
	ListOrders(ctx context.Context) ([]*models.Order, error)
}

type orderService struct {
	log    *slog.Logger
	orders storage.OrderStorage
}

func NewOrderService(log *slog.Logger, orders storage.OrderStorage) OrderService {
	return &orderService{log: log, orders: orders}
}

func (s *orderService) ListOrders(ctx context.Context) ([]*models.Order, error) {
	const op = "service.OrderService.ListOrders"

	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		s.log.Error("failed to list orders", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}
