package httpserver

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Config holds the HTTP server configuration.
//
//	cfg := httpserver.DefaultConfig()
//	cfg.Addr = ":9090"
type Config struct {
	// Addr is the TCP address to listen on.
	// Default: ":8080"
	Addr string

	// ServiceName labels request logs and spans.
	// Default: "stellate"
	ServiceName string

	// ReadTimeout bounds reading the whole request.
	// Default: 15s
	ReadTimeout time.Duration

	// ReadHeaderTimeout bounds reading request headers.
	// Default: 10s
	ReadHeaderTimeout time.Duration

	// WriteTimeout bounds writing the response. It includes a synchronous
	// collector request made during execution.
	// Default: 15s
	WriteTimeout time.Duration

	// IdleTimeout bounds keep-alive idle time.
	// Default: 60s
	IdleTimeout time.Duration

	// MaxHeaderBytes caps request header size.
	// Default: 1MB
	MaxHeaderBytes int

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration

	// Logger receives lifecycle events.
	Logger zerolog.Logger

	// Handler serves requests. Required.
	Handler http.Handler

	// Middleware wraps Handler, first outermost, after tracing and logging.
	Middleware []Middleware

	// TracingConfig enables tracing when set.
	TracingConfig *TracingConfig

	// LoggerConfig enables request logging when set.
	LoggerConfig *LoggerConfig
}

// DefaultConfig returns balanced timeouts for a GraphQL endpoint.
func DefaultConfig() Config {
	return Config{
		Addr:              ":8080",
		ServiceName:       "stellate",
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ShutdownTimeout:   10 * time.Second,
	}
}

// ProductionConfig returns tighter timeouts that fit inside a 30s
// Kubernetes termination grace period.
func ProductionConfig() Config {
	return Config{
		Addr:              ":8080",
		ServiceName:       "stellate",
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ShutdownTimeout:   25 * time.Second,
	}
}
