package delivery

import (
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// scope is the instrumentation scope name for OpenTelemetry.
const scope = "github.com/kroma-labs/stellate-go/delivery"

// Option configures a Dispatcher.
type Option func(*config)

type config struct {
	logger         zerolog.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	maxLoggedBody  int
}

const defaultMaxLoggedBody = 1024

func newConfig(opts ...Option) *config {
	cfg := &config{
		logger:         zerolog.Nop(),
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
		maxLoggedBody:  defaultMaxLoggedBody,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithLogger sets the diagnostic sink for delivery failures.
//
// Default: zerolog.Nop().
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithTracerProvider sets the tracer provider for dispatch spans.
// If nil, the global provider is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) {
		if tp != nil {
			c.tracerProvider = tp
		}
	}
}

// WithMeterProvider sets the meter provider for delivery metrics.
// If nil, the global provider is used.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *config) {
		if mp != nil {
			c.meterProvider = mp
		}
	}
}

// WithMaxLoggedBody caps how many bytes of a rejected response body are
// written to the log. Default: 1KB.
func WithMaxLoggedBody(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxLoggedBody = n
		}
	}
}
