package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/linemk/switch-merchant/internal/app"
	"github.com/linemk/switch-merchant/internal/config"
	"github.com/linemk/switch-merchant/internal/lib/logger"
	"github.com/linemk/switch-merchant/internal/tunnel"
	"github.com/pkg/errors"
)

func main() {
	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	// объект приложения: хранилище и клиент шлюза
	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.Close()

	// публичный адрес нужен шлюзу до первого заказа
	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	bootstrap := tunnel.Start(startCtx, log, tunnel.Config{
		Enabled:   cfg.Tunnel.Enabled(),
		AgentAPI:  cfg.Tunnel.AgentAPI,
		Name:      cfg.Tunnel.Name,
		PublicURL: cfg.Tunnel.PublicURL,
	}, cfg.HTTPServer.Port, nil)
	cancelStart()

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address(),
		Handler:      application.Router(bootstrap.BaseURL(cfg.HTTPServer.Port)),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	publicURL := "UNAVAILABLE"
	if bootstrap.Available() {
		publicURL = bootstrap.PublicURL
	}

	go func() {
		log.Info(fmt.Sprintf("Server running on %s local on port %d", publicURL, cfg.HTTPServer.Port),
			slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	if err := bootstrap.Close(ctx); err != nil {
		log.Error("failed to close tunnel", slog.Any("error", errors.Wrap(err, "tunnel close")))
	}
	log.Info("server gracefully stopped")
}
