package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/switch-merchant/internal/service"
)

// RedirectHandler обрабатывает GET /redirect?instrumentId=... - итог оплаты для браузера.
func RedirectHandler(log *slog.Logger, paymentService service.PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RedirectHandler"
		logger := log.With(slog.String("op", op))

		instrumentID := r.URL.Query().Get("instrumentId")
		if instrumentID == "" {
			logger.Error("instrumentId parameter is missing")
			http.Error(w, "instrumentId parameter is required", http.StatusBadRequest)
			return
		}

		authorized, err := paymentService.InstrumentAuthorized(r.Context(), instrumentID)
		if err != nil {
			logger.Error("failed to check instrument", slog.String("instrumentID", instrumentID), slog.Any("error", err))
			writeGatewayError(w, logger, err)
			return
		}

		renderPage(w, logger, "result.html", resultPage{Success: authorized})
	}
}
