// Package chi mounts the Stellate GraphQL handler on a chi router.
//
// chi middleware is plain func(http.Handler) http.Handler, so httpserver
// middleware can be passed to Use directly:
//
//	r := chi.NewRouter()
//	r.Use(httpserver.RequestID(), httpserver.Recovery(logger))
//
//	chistellate.Register(r, "/graphql", httpserver.NewGraphQLHandler(client, execute))
//	chistellate.RegisterHealth(r, health)
package chi

import (
	"net/http"

	chilib "github.com/go-chi/chi/v5"

	"github.com/kroma-labs/stellate-go/httpserver"
)

// Middlewares converts httpserver middleware for chi's Use.
func Middlewares(ms ...httpserver.Middleware) chilib.Middlewares {
	out := make(chilib.Middlewares, 0, len(ms))
	for _, m := range ms {
		out = append(out, m)
	}
	return out
}

// Register mounts the GraphQL handler for GET and POST on path.
func Register(r chilib.Router, path string, h *httpserver.GraphQLHandler) {
	r.Method(http.MethodGet, path, h)
	r.Method(http.MethodPost, path, h)
}

// RegisterHealth mounts GET /livez and GET /readyz.
func RegisterHealth(r chilib.Router, h *httpserver.HealthHandler) {
	r.Method(http.MethodGet, "/livez", h.LiveHandler())
	r.Method(http.MethodGet, "/readyz", h.ReadyHandler())
}

// RegisterPrometheus mounts the default Prometheus registry on path.
// An empty path means "/metrics".
func RegisterPrometheus(r chilib.Router, path string) {
	if path == "" {
		path = "/metrics"
	}
	r.Method(http.MethodGet, path, httpserver.PrometheusHandler())
}
