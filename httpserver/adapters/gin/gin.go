// Package gin mounts the Stellate GraphQL handler and httpserver middleware
// on a Gin engine.
//
//	r := gin.New()
//	r.Use(ginstellate.RequestID())
//	r.Use(ginstellate.Recovery(logger))
//	r.Use(ginstellate.Tracing(httpserver.TracingConfig{}))
//
//	ginstellate.Register(r, "/graphql", httpserver.NewGraphQLHandler(client, execute))
//	ginstellate.RegisterHealth(r, health)
//	ginstellate.RegisterPrometheus(r, "/metrics")
package gin

import (
	"net/http"

	ginlib "github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kroma-labs/stellate-go/httpserver"
)

// WrapMiddleware adapts httpserver middleware to Gin middleware.
//
//	r.Use(ginstellate.WrapMiddleware(myCustomMiddleware))
func WrapMiddleware(m httpserver.Middleware) ginlib.HandlerFunc {
	return func(c *ginlib.Context) {
		var aborted bool
		handler := m(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
			aborted = c.IsAborted()
		}))
		handler.ServeHTTP(c.Writer, c.Request)
		if aborted {
			c.Abort()
		}
	}
}

// Recovery recovers panics and answers with a GraphQL 500 error.
func Recovery(logger zerolog.Logger) ginlib.HandlerFunc {
	return WrapMiddleware(httpserver.Recovery(logger))
}

// RequestID forwards or generates X-Request-ID.
func RequestID() ginlib.HandlerFunc {
	return WrapMiddleware(httpserver.RequestID())
}

// Logger logs one line per request.
//
//	r.Use(ginstellate.Logger(httpserver.LoggerConfig{
//	    Logger:    logger,
//	    SkipPaths: []string{"/livez", "/readyz", "/metrics"},
//	}))
func Logger(cfg httpserver.LoggerConfig) ginlib.HandlerFunc {
	return WrapMiddleware(httpserver.Logger(cfg))
}

// Tracing starts a server span per request.
func Tracing(cfg httpserver.TracingConfig) ginlib.HandlerFunc {
	return WrapMiddleware(httpserver.Tracing(cfg))
}

// WrapHandler wraps an http.Handler as a Gin handler.
func WrapHandler(h http.Handler) ginlib.HandlerFunc {
	return func(c *ginlib.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// Register mounts the GraphQL handler for GET and POST on path.
func Register(r ginlib.IRoutes, path string, h *httpserver.GraphQLHandler) {
	r.GET(path, WrapHandler(h))
	r.POST(path, WrapHandler(h))
}

// RegisterHealth mounts GET /livez and GET /readyz.
func RegisterHealth(r ginlib.IRoutes, h *httpserver.HealthHandler) {
	r.GET("/livez", WrapHandler(h.LiveHandler()))
	r.GET("/readyz", WrapHandler(h.ReadyHandler()))
}

// RegisterPrometheus mounts the default Prometheus registry on path.
// An empty path means "/metrics".
func RegisterPrometheus(r ginlib.IRoutes, path string) {
	if path == "" {
		path = "/metrics"
	}
	r.GET(path, WrapHandler(httpserver.PrometheusHandler()))
}
