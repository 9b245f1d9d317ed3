package stellate

import (
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kroma-labs/stellate-go/delivery"
	"github.com/kroma-labs/stellate-go/httpclient"
)

// Option configures a Client.
type Option func(*config)

type config struct {
	logger         zerolog.Logger
	baseDomain     string
	sender         delivery.Sender
	httpOptions    []httpclient.Option
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		logger:         zerolog.Nop(),
		baseDomain:     DefaultBaseDomain,
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// defaultSender builds the HTTP sender used when WithSender is not given.
func (c *config) defaultSender() delivery.Sender {
	opts := []httpclient.Option{
		httpclient.WithServiceName("stellate"),
		httpclient.WithUserAgent(UserAgent),
		httpclient.WithTracerProvider(c.tracerProvider),
		httpclient.WithMeterProvider(c.meterProvider),
		httpclient.WithLogger(c.logger),
	}
	return httpclient.New(append(opts, c.httpOptions...)...)
}

// WithLogger sets the sink for diagnostics and delivery failures.
//
// Default: zerolog.Nop().
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithBaseDomain replaces "stellate.sh" in collector URLs. Useful for
// self-hosted collectors and tests.
func WithBaseDomain(domain string) Option {
	return func(c *config) {
		if domain != "" {
			c.baseDomain = domain
		}
	}
}

// WithSender replaces the HTTP sender used for synchronous delivery.
func WithSender(s delivery.Sender) Option {
	return func(c *config) {
		c.sender = s
	}
}

// WithHTTPOptions configures the default HTTP sender, e.g. to add a
// circuit breaker. Ignored when WithSender is set.
//
// Example:
//
//	stellate.New(identity, stellate.WithHTTPOptions(
//	    httpclient.WithConfig(httpclient.InlineConfig()),
//	    httpclient.WithBreaker(httpclient.DefaultBreakerConfig()),
//	))
func WithHTTPOptions(opts ...httpclient.Option) Option {
	return func(c *config) {
		c.httpOptions = append(c.httpOptions, opts...)
	}
}

// WithTracerProvider sets the tracer provider. If nil, the global provider
// is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) {
		if tp != nil {
			c.tracerProvider = tp
		}
	}
}

// WithMeterProvider sets the meter provider. If nil, the global provider
// is used.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *config) {
		if mp != nil {
			c.meterProvider = mp
		}
	}
}
