package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogger(buf *bytes.Buffer) *slog.Logger {
	handler := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}).
		WithAttrs([]slog.Attr{slog.String("service", serviceName)})
	return slog.New(&ctxHandler{handler})
}

func TestCtxHandler_AddsRequestScopedFields(t *testing.T) {
	var buf bytes.Buffer
	logger := captureLogger(&buf)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-123")
	ctx = context.WithValue(ctx, UserIDKey, uint(7))
	ctx = context.WithValue(ctx, TraceIDKey, "trace-abc")
	logger.InfoContext(ctx, "something happened")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "roamly-api", record["service"])
	assert.Equal(t, "req-123", record["request_id"])
	assert.Equal(t, float64(7), record["user_id"])
	assert.Equal(t, "trace-abc", record["trace_id"])
}

func TestStructuredLogger_LevelsByOutcome(t *testing.T) {
	var buf bytes.Buffer
	orig := Logger
	Logger = captureLogger(&buf)
	t.Cleanup(func() { Logger = orig })

	app := fiber.New()
	app.Use(ContextMiddleware())
	app.Use(StructuredLogger())
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/missing", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var ok, missing map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &ok))
	require.NoError(t, json.Unmarshal(lines[1], &missing))

	assert.Equal(t, "INFO", ok["level"])
	assert.Equal(t, "request completed", ok["msg"])
	assert.Equal(t, "/ok", ok["path"])

	assert.Equal(t, "WARN", missing["level"])
	assert.Equal(t, "request rejected", missing["msg"])
	assert.Equal(t, float64(http.StatusNotFound), missing["status"])
}
