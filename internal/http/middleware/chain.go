package middleware

import (
	"io"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
)

// Chain returns the global middleware in registration order. Tracing comes first so that
// RequestID can tag the server span. metrics may be nil.
func Chain(w io.Writer, loc *time.Location, metrics *PrometheusMiddleware, opts ...otelfiber.Option) []fiber.Handler {
	handlers := []fiber.Handler{
		otelfiber.Middleware(opts...),
		RequestID(),
		LoggerWithWriter(w, loc),
	}
	if metrics != nil {
		handlers = append(handlers, metrics.Handler())
	}
	return handlers
}
