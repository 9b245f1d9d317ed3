// Package fiber mounts the Stellate GraphQL handler and httpserver
// middleware on a Fiber app.
//
// Fiber runs on fasthttp; requests are bridged to net/http with
// gofiber/adaptor, so incoming headers still reach ExecuteWithLogging as an
// http.Header.
//
//	app := fiber.New()
//	app.Use(fiberstellate.RequestID())
//
//	fiberstellate.Register(app, "/graphql", httpserver.NewGraphQLHandler(client, execute))
//	fiberstellate.RegisterHealth(app, health)
package fiber

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog"

	"github.com/kroma-labs/stellate-go/httpserver"
)

// WrapMiddleware adapts httpserver middleware to Fiber middleware.
func WrapMiddleware(m httpserver.Middleware) fiber.Handler {
	return adaptor.HTTPMiddleware(func(next http.Handler) http.Handler {
		return m(next)
	})
}

// Recovery recovers panics raised on the net/http side of the bridge. For
// the GraphQL executor pass httpserver.Recovery to Register instead.
func Recovery(logger zerolog.Logger) fiber.Handler {
	return WrapMiddleware(httpserver.Recovery(logger))
}

// RequestID forwards or generates X-Request-ID.
func RequestID() fiber.Handler {
	return WrapMiddleware(httpserver.RequestID())
}

// Logger logs one line per request.
func Logger(cfg httpserver.LoggerConfig) fiber.Handler {
	return WrapMiddleware(httpserver.Logger(cfg))
}

// Tracing starts a server span per request.
func Tracing(cfg httpserver.TracingConfig) fiber.Handler {
	return WrapMiddleware(httpserver.Tracing(cfg))
}

// Register mounts the GraphQL handler for GET and POST on path. ms run on
// the net/http side of the bridge, so Recovery passed here catches panics
// from the executor; Fiber's adaptor does not carry panics from a
// downstream Fiber handler back into net/http middleware.
//
//	fiberstellate.Register(app, "/graphql", h, httpserver.Recovery(logger))
func Register(r fiber.Router, path string, h *httpserver.GraphQLHandler, ms ...httpserver.Middleware) {
	handler := adaptor.HTTPHandler(httpserver.Chain(ms...)(h))
	r.Get(path, handler)
	r.Post(path, handler)
}

// RegisterHealth mounts GET /livez and GET /readyz.
func RegisterHealth(r fiber.Router, h *httpserver.HealthHandler) {
	r.Get("/livez", adaptor.HTTPHandler(h.LiveHandler()))
	r.Get("/readyz", adaptor.HTTPHandler(h.ReadyHandler()))
}

// RegisterPrometheus mounts the default Prometheus registry on path.
// An empty path means "/metrics".
func RegisterPrometheus(r fiber.Router, path string) {
	if path == "" {
		path = "/metrics"
	}
	r.Get(path, adaptor.HTTPHandler(httpserver.PrometheusHandler()))
}
