package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/linemk/switch-merchant/internal/service"
)

// StoreHandler обрабатывает GET / - страница витрины с формой выбора количества.
func StoreHandler(log *slog.Logger, checkoutService service.CheckoutService, featuredItem string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.StoreHandler"
		logger := log.With(slog.String("op", op))

		product, err := checkoutService.GetProduct(r.Context(), featuredItem)
		if err != nil {
			logger.Error("failed to get featured product", slog.String("item", featuredItem), slog.Any("error", err))
			if errors.Is(err, service.ErrUnknownItem) {
				http.Error(w, "product not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		renderPage(w, logger, "store.html", storePage{
			ID:       product.ID,
			Name:     product.Name,
			Price:    product.Price.StringFixed(2),
			Currency: product.Currency,
		})
	}
}
