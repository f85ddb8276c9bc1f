package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/linemk/switch-merchant/internal/service"
)

// OrderRequest поля формы покупки (или JSON с теми же ключами)
type OrderRequest struct {
	Item     string `json:"item" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

var validate = validator.New()

// OrderHandler обрабатывает POST /order: создаёт заказ и платёж, отдаёт страницу оплаты.
func OrderHandler(log *slog.Logger, checkoutService service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.OrderHandler"
		logger := log.With(slog.String("op", op))

		req, err := decodeOrderRequest(r)
		if err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "validation error", http.StatusBadRequest)
			return
		}

		checkout, err := checkoutService.PlaceOrder(r.Context(), req.Item, req.Quantity)
		if err != nil {
			logger.Error("failed to place order", slog.Any("error", err))
			switch {
			case errors.Is(err, service.ErrUnknownItem):
				http.Error(w, "unknown item", http.StatusBadRequest)
			case errors.Is(err, service.ErrInvalidQuantity):
				http.Error(w, "validation error", http.StatusBadRequest)
			default:
				writeGatewayError(w, logger, err)
			}
			return
		}

		renderPage(w, logger, "payment.html", paymentPage{
			OrderID:        checkout.Order.ID.String(),
			Amount:         checkout.Order.Amount.StringFixed(2),
			Currency:       checkout.Order.Currency,
			ChargeID:       checkout.ChargeID,
			InstrumentsURL: checkout.InstrumentsURL,
			Authorization:  checkout.PublicAuthorization,
		})
	}
}

func decodeOrderRequest(r *http.Request) (OrderRequest, error) {
	var req OrderRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		err := json.NewDecoder(r.Body).Decode(&req)
		return req, err
	}

	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.Item = strings.TrimSpace(r.PostFormValue("item"))

	if raw := strings.TrimSpace(r.PostFormValue("quantity")); raw != "" {
		quantity, err := strconv.Atoi(raw)
		if err != nil {
			return req, err
		}
		req.Quantity = quantity
	}
	return req, nil
}
