package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/linemk/switch-merchant/internal/domain/models"
	"github.com/linemk/switch-merchant/internal/gateway"
	"github.com/linemk/switch-merchant/internal/storage"
	"golang.org/x/sync/singleflight"
)

var ErrEventWithoutOrder = errors.New("event carries no order id")

// PaymentService обрабатывает вебхуки шлюза и проверяет статус оплаты.
type PaymentService interface {
	// HandleEvent обрабатывает событие; ok=false, если тип события не поддерживается.
	HandleEvent(ctx context.Context, eventType, eventID string) (ok bool, err error)
	// InstrumentAuthorized сообщает, авторизован ли платёжный инструмент.
	InstrumentAuthorized(ctx context.Context, instrumentID string) (bool, error)
}

type paymentService struct {
	log     *slog.Logger
	orders  storage.OrderStorage
	gateway PaymentGateway
	group   singleflight.Group
}

func NewPaymentService(log *slog.Logger, orders storage.OrderStorage, gw PaymentGateway) PaymentService {
	return &paymentService{
		log:     log,
		orders:  orders,
		gateway: gw,
	}
}

// HandleEvent - для instrument.authorized находит заказ из метаданных платежа и авторизует его.
// Одновременные доставки одного и того же события схлопываются в один запрос к шлюзу.
func (s *paymentService) HandleEvent(ctx context.Context, eventType, eventID string) (bool, error) {
	const op = "service.PaymentService.HandleEvent"
	logger := s.log.With(slog.String("op", op), slog.String("eventType", eventType), slog.String("event", eventID))

	if eventType != gateway.EventInstrumentAuthorized {
		logger.Debug("event ignored")
		return false, nil
	}

	// общий вызов не должен обрываться вместе с запросом первого получателя
	sharedCtx := context.WithoutCancel(ctx)
	_, err, shared := s.group.Do(eventID, func() (any, error) {
		return nil, s.authorizeFromEvent(sharedCtx, logger, eventID)
	})
	if shared {
		logger.Debug("duplicate delivery collapsed")
	}
	if err != nil {
		return true, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

func (s *paymentService) authorizeFromEvent(ctx context.Context, logger *slog.Logger, eventID string) error {
	event, err := s.gateway.GetEvent(ctx, eventID)
	if err != nil {
		logger.Error("failed to fetch event", slog.Any("error", err))
		return fmt.Errorf("failed to fetch event: %w", err)
	}

	rawOrderID, ok := event.Charge.Metadata.String(gateway.MetadataOrderID)
	if !ok {
		logger.Error("event has no order id", slog.String("chargeID", event.Charge.ID))
		return ErrEventWithoutOrder
	}
	orderID, err := uuid.Parse(rawOrderID)
	if err != nil {
		logger.Error("event has malformed order id", slog.String("orderID", rawOrderID))
		return fmt.Errorf("malformed order id %q: %w", rawOrderID, err)
	}

	instrumentID := event.Instrument.ID
	order, err := s.orders.UpdateOrder(ctx, orderID, func(o *models.Order) error {
		o.Authorize(instrumentID)
		return nil
	})
	if err != nil {
		logger.Error("failed to authorize order", slog.String("orderID", rawOrderID), slog.Any("error", err))
		return fmt.Errorf("failed to authorize order %s: %w", rawOrderID, err)
	}

	logger.Info("order authorized", slog.String("orderID", order.ID.String()), slog.String("instrumentID", instrumentID))
	return nil
}

func (s *paymentService) InstrumentAuthorized(ctx context.Context, instrumentID string) (bool, error) {
	const op = "service.PaymentService.InstrumentAuthorized"

	instrument, err := s.gateway.GetInstrument(ctx, instrumentID)
	if err != nil {
		s.log.Error("failed to fetch instrument", slog.String("op", op), slog.String("instrumentID", instrumentID), slog.Any("error", err))
		return false, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("instrument status",
		slog.String("op", op),
		slog.String("instrumentID", instrumentID),
		slog.String("status", instrument.Status),
	)
	return instrument.Authorized(), nil
}
