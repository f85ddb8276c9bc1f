package slogpretty_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/linemk/switch-merchant/internal/lib/logger/handlers/slogpretty"
	"github.com/stretchr/testify/assert"
)

func TestPrettyHandler_WritesMessageAndAttrs(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	opts := slogpretty.PrettyHandlerOptions{SlogOpts: &slog.HandlerOptions{Level: slog.LevelDebug}}
	log := slog.New(opts.NewPrettyHandler(&buf)).With(slog.String("op", "test"))

	log.Info("order created", slog.String("orderID", "42"))

	out := buf.String()
	assert.Contains(t, out, "INFO:")
	assert.Contains(t, out, "order created")
	assert.Contains(t, out, `"orderID": "42"`)
	assert.Contains(t, out, `"op": "test"`)
}
