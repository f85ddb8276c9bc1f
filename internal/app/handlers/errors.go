package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/linemk/switch-merchant/internal/gateway"
)

// writeGatewayError отдаёт ответ шлюза клиенту как есть; прочие ошибки шлюза - 502/503.
func writeGatewayError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if apiErr, ok := gateway.AsAPIError(err); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(apiErr.StatusCode)
		if _, werr := w.Write(apiErr.Body); werr != nil {
			logger.Error("failed to write gateway error", slog.Any("error", werr))
		}
		return
	}
	if errors.Is(err, gateway.ErrUnavailable) {
		http.Error(w, "payment gateway unavailable", http.StatusServiceUnavailable)
		return
	}
	http.Error(w, "payment gateway error", http.StatusBadGateway)
}
