package httpserver

import "net/http"

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain composes middleware. The first middleware is the outermost.
//
//	handler := httpserver.Chain(
//	    httpserver.Tracing(httpserver.TracingConfig{}),
//	    httpserver.Recovery(logger),
//	    httpserver.RequestID(),
//	)(graphqlHandler)
//
// Request flow:
//
//	Tracing -> Recovery -> RequestID -> handler -> RequestID -> Recovery -> Tracing
func Chain(middlewares ...Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// DefaultMiddleware returns Recovery, RequestID and, when a logger is
// configured, Logger, in that order.
//
//	handler := httpserver.DefaultMiddleware(
//	    httpserver.WithDefaultLogger(httpserver.LoggerConfig{Logger: logger}),
//	)(graphqlHandler)
func DefaultMiddleware(opts ...MiddlewareOption) Middleware {
	cfg := &middlewareConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		return Chain(RequestID())
	}

	return Chain(
		Recovery(cfg.logger.Logger),
		RequestID(),
		Logger(*cfg.logger),
	)
}

type middlewareConfig struct {
	logger *LoggerConfig
}

// MiddlewareOption configures DefaultMiddleware.
type MiddlewareOption func(*middlewareConfig)

// WithDefaultLogger adds recovery and request logging to DefaultMiddleware.
func WithDefaultLogger(cfg LoggerConfig) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.logger = &cfg
	}
}
