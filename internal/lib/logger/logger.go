package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/linemk/switch-merchant/internal/lib/logger/handlers/slogpretty"
)

// switching logger
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// SetupLogger инициализирует логгер в stdout в зависимости от окружения
func SetupLogger(env string) *slog.Logger {
	return New(env, os.Stdout)
}

// New для local - цветной вывод (pretty), для dev - JSON с debug, для prod и прочих - JSON с info.
func New(env string, out io.Writer) *slog.Logger {
	var handler slog.Handler

	switch env {
	case EnvLocal:
		handler = newPrettyHandler(out)
	case EnvDev:
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})
	default:
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	return slog.New(handler).With(slog.String("env", env))
}

func newPrettyHandler(out io.Writer) slog.Handler {
	color.NoColor = false

	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}
	return opts.NewPrettyHandler(out)
}
