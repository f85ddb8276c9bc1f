package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/linemk/switch-merchant/internal/domain/models"
	"github.com/linemk/switch-merchant/internal/gateway"
	"github.com/linemk/switch-merchant/internal/storage"
)

var (
	ErrUnknownItem     = errors.New("unknown item")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// CheckoutService определяет интерфейс витрины и оформления заказа.
type CheckoutService interface {
	GetProduct(ctx context.Context, itemID string) (*models.Product, error)
	PlaceOrder(ctx context.Context, itemID string, quantity int) (*Checkout, error)
}

// Checkout - всё, что нужно странице оплаты: заказ, платёж и данные для запроса из браузера.
type Checkout struct {
	Order               *models.Order
	Product             *models.Product
	ChargeID            string
	InstrumentsURL      string
	PublicAuthorization string
}

type checkoutService struct {
	log     *slog.Logger
	storage storage.Storage
	gateway PaymentGateway
	baseURL string
}

// NewCheckoutService создаёт сервис. baseURL - публичный адрес сервера для events_url и redirect_url.
func NewCheckoutService(log *slog.Logger, store storage.Storage, gw PaymentGateway, baseURL string) CheckoutService {
	return &checkoutService{
		log:     log,
		storage: store,
		gateway: gw,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *checkoutService) GetProduct(ctx context.Context, itemID string) (*models.Product, error) {
	const op = "service.CheckoutService.GetProduct"

	product, err := s.storage.GetProduct(ctx, itemID)
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			return nil, fmt.Errorf("%s: %w: %s", op, ErrUnknownItem, itemID)
		}
		return nil, fmt.Errorf("%s: failed to get product: %w", op, err)
	}
	return product, nil
}

// PlaceOrder создаёт неоплаченный заказ и платёж в шлюзе.
// Если шлюз отказал, заказ остаётся неавторизованным, а ошибка шлюза возвращается как есть.
func (s *checkoutService) PlaceOrder(ctx context.Context, itemID string, quantity int) (*Checkout, error) {
	const op = "service.CheckoutService.PlaceOrder"
	logger := s.log.With(slog.String("op", op), slog.String("item", itemID), slog.Int("quantity", quantity))

	if quantity <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidQuantity)
	}

	product, err := s.GetProduct(ctx, itemID)
	if err != nil {
		logger.Warn("product lookup failed", slog.Any("error", err))
		return nil, err
	}

	order := &models.Order{
		ItemID:     product.ID,
		Quantity:   quantity,
		Amount:     product.AmountFor(quantity),
		Currency:   product.Currency,
		Authorized: false,
	}
	orderID, err := s.storage.CreateOrder(ctx, order)
	if err != nil {
		logger.Error("failed to create order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create order: %w", op, err)
	}
	logger = logger.With(slog.String("orderID", orderID.String()))
	logger.Info("order created", slog.String("amount", order.Amount.StringFixed(2)))

	charge, err := s.gateway.CreateCharge(ctx, gateway.ChargeRequest{
		ChargeType:  gateway.ChargeTypeCardOnetime,
		Amount:      order.Amount,
		Currency:    order.Currency,
		EventsURL:   s.baseURL + "/events",
		Metadata:    map[string]string{gateway.MetadataOrderID: orderID.String()},
		RedirectURL: s.baseURL + "/redirect",
	})
	if err != nil {
		logger.Error("failed to create charge", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create charge: %w", op, err)
	}

	logger.Info("charge created", slog.String("chargeID", charge.ID))
	return &Checkout{
		Order:               order,
		Product:             product,
		ChargeID:            charge.ID,
		InstrumentsURL:      s.gateway.InstrumentsURL(),
		PublicAuthorization: s.gateway.PublicAuthorization(),
	}, nil
}
