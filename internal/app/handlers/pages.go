package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type storePage struct {
	ID       string
	Name     string
	Price    string
	Currency string
}

type paymentPage struct {
	OrderID        string
	Amount         string
	Currency       string
	ChargeID       string
	InstrumentsURL string
	Authorization  string
}

type resultPage struct {
	Success bool
}

// renderPage рендерит шаблон целиком в буфер, чтобы при ошибке не отдать клиенту половину страницы.
func renderPage(w http.ResponseWriter, logger *slog.Logger, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		logger.Error("failed to render page", slog.String("page", name), slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		logger.Error("failed to write page", slog.String("page", name), slog.Any("error", err))
	}
}
