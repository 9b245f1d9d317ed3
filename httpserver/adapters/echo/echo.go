// Package echo mounts the Stellate GraphQL handler and httpserver
// middleware on an Echo instance.
//
//	e := echo.New()
//	e.Use(echostellate.RequestID())
//	e.Use(echostellate.Recovery(logger))
//
//	echostellate.Register(e, "/graphql", httpserver.NewGraphQLHandler(client, execute))
//	echostellate.RegisterHealth(e, health)
package echo

import (
	"net/http"

	echolib "github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kroma-labs/stellate-go/httpserver"
)

// WrapMiddleware adapts httpserver middleware to Echo middleware.
func WrapMiddleware(m httpserver.Middleware) echolib.MiddlewareFunc {
	return func(next echolib.HandlerFunc) echolib.HandlerFunc {
		return func(c echolib.Context) error {
			var err error
			handler := m(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				c.SetRequest(r)
				err = next(c)
			}))
			handler.ServeHTTP(c.Response(), c.Request())
			return err
		}
	}
}

// Recovery recovers panics and answers with a GraphQL 500 error.
func Recovery(logger zerolog.Logger) echolib.MiddlewareFunc {
	return WrapMiddleware(httpserver.Recovery(logger))
}

// RequestID forwards or generates X-Request-ID.
func RequestID() echolib.MiddlewareFunc {
	return WrapMiddleware(httpserver.RequestID())
}

// Logger logs one line per request.
func Logger(cfg httpserver.LoggerConfig) echolib.MiddlewareFunc {
	return WrapMiddleware(httpserver.Logger(cfg))
}

// Tracing starts a server span per request.
func Tracing(cfg httpserver.TracingConfig) echolib.MiddlewareFunc {
	return WrapMiddleware(httpserver.Tracing(cfg))
}

// Register mounts the GraphQL handler for GET and POST on path.
func Register(e *echolib.Echo, path string, h *httpserver.GraphQLHandler) {
	e.GET(path, echolib.WrapHandler(h))
	e.POST(path, echolib.WrapHandler(h))
}

// RegisterHealth mounts GET /livez and GET /readyz.
func RegisterHealth(e *echolib.Echo, h *httpserver.HealthHandler) {
	e.GET("/livez", echolib.WrapHandler(h.LiveHandler()))
	e.GET("/readyz", echolib.WrapHandler(h.ReadyHandler()))
}

// RegisterPrometheus mounts the default Prometheus registry on path.
// An empty path means "/metrics".
func RegisterPrometheus(e *echolib.Echo, path string) {
	if path == "" {
		path = "/metrics"
	}
	e.GET(path, echolib.WrapHandler(httpserver.PrometheusHandler()))
}
