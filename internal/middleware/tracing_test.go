package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"usergraph/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracingMiddleware_NamesSpanByRoute(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := observability.Tracer
	observability.Tracer = tp.Tracer("test")
	t.Cleanup(func() { observability.Tracer = prev })

	app := fiber.New(fiber.Config{Immutable: true})
	app.Use(TracingMiddleware(), ContextMiddleware())

	var traceID any
	app.Get("/api/users/:id", func(c *fiber.Ctx) error {
		traceID = c.Locals("traceID")
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/users/abc-123", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "GET /api/users/:id", span.Name())

	header := resp.Header.Get("X-Trace-ID")
	assert.Equal(t, span.SpanContext().TraceID().String(), header)
	assert.Equal(t, header, traceID)

	attrs := make(map[attribute.Key]attribute.Value, len(span.Attributes()))
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, int64(http.StatusNoContent), attrs["http.status_code"].AsInt64())
	assert.Equal(t, "/api/users/:id", attrs["http.route"].AsString())
	assert.Equal(t, "/api/users/abc-123", attrs["http.path"].AsString())
}
