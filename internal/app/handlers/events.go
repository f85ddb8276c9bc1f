package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/switch-merchant/internal/service"
)

// EventsHandler обрабатывает POST /events - вебхук шлюза.
// Шлюзу всегда отвечаем пустым 200, ошибки обработки только логируются.
func EventsHandler(log *slog.Logger, paymentService service.PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.EventsHandler"

		query := r.URL.Query()
		eventType := query.Get("event_type")
		eventID := query.Get("event")
		logger := log.With(slog.String("op", op), slog.String("eventType", eventType), slog.String("event", eventID))

		handled, err := paymentService.HandleEvent(r.Context(), eventType, eventID)
		switch {
		case err != nil:
			logger.Error("failed to handle event", slog.Any("error", err))
		case handled:
			logger.Info("event handled")
		}

		w.WriteHeader(http.StatusOK)
	}
}
