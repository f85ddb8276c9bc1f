package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linemk/switch-merchant/internal/app/handlers"
	"github.com/linemk/switch-merchant/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/switch-merchant/internal/lib/logger/handlers/urllog"
	"github.com/linemk/switch-merchant/internal/service"
)

// Router собирает сервисы и маршруты. baseURL - публичный адрес сервера,
// его шлюз использует для вебхуков и редиректа после оплаты.
func (a *App) Router(baseURL string) http.Handler {
	checkoutService := service.NewCheckoutService(a.Logger, a.Storage, a.Gateway, baseURL)
	paymentService := service.NewPaymentService(a.Logger, a.Storage, a.Gateway)
	orderService := service.NewOrderService(a.Logger, a.Storage)

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(a.Logger))
	router.Use(middleware.Recoverer)
	router.Use(handlers.CORS)

	// витрина и оформление заказа
	router.Get("/", handlers.StoreHandler(a.Logger, checkoutService, a.Config.Store.FeaturedItem))
	router.Post("/order", handlers.OrderHandler(a.Logger, checkoutService))

	// вебхук шлюза и возврат браузера после оплаты
	router.Post("/events", handlers.EventsHandler(a.Logger, paymentService))
	router.Get("/redirect", handlers.RedirectHandler(a.Logger, paymentService))

	router.Group(func(r chi.Router) {
		r.Use(jwtmiddleware.NewJWTMiddleware(a.Config.Admin.JWTSecret))
		r.Get("/orders", handlers.OrdersHandler(a.Logger, orderService))
	})

	return router
}
