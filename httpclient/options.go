package httpclient

import (
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	// scope is the instrumentation scope name for OpenTelemetry.
	scope = "github.com/kroma-labs/stellate-go/httpclient"
)

// =============================================================================
// Config - HTTP Transport Configuration
// =============================================================================

// Config holds the HTTP transport configuration for collector requests.
// Use DefaultConfig() or InlineConfig() and modify fields as needed.
//
// Example:
//
//	cfg := httpclient.DefaultConfig()
//	cfg.Timeout = 3 * time.Second
//
//	client := httpclient.New(httpclient.WithConfig(cfg))
type Config struct {
	// Timeout bounds the whole exchange: connect, TLS, write, read.
	// A Timeout of zero means no timeout.
	//
	// Synchronous delivery runs on the caller's request path, so this is
	// the worst-case latency telemetry can add to a GraphQL response.
	//
	// Default: 10s
	Timeout time.Duration

	// DialTimeout is the maximum time to establish the TCP connection.
	//
	// Default: 5s
	DialTimeout time.Duration

	// KeepAlive is the TCP keep-alive probe interval.
	//
	// Default: 30s
	KeepAlive time.Duration

	// MaxIdleConns caps idle connections across all hosts.
	//
	// Default: 20
	MaxIdleConns int

	// MaxIdleConnsPerHost caps idle connections to the collector. Every
	// request goes to {service}.stellate.sh, so this is the setting that
	// matters for connection reuse.
	//
	// Default: 10
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection stays pooled.
	//
	// Default: 90s
	IdleConnTimeout time.Duration

	// TLSHandshakeTimeout bounds the TLS handshake.
	//
	// Default: 5s
	TLSHandshakeTimeout time.Duration

	// ResponseHeaderTimeout bounds the wait for response headers after the
	// body is written. Zero means only Timeout applies.
	//
	// Default: 0
	ResponseHeaderTimeout time.Duration

	// DisableKeepAlives forces a new connection per request.
	//
	// Default: false
	DisableKeepAlives bool
}

// DefaultConfig returns balanced settings for background delivery, e.g.
// from a queue drainer.
func DefaultConfig() Config {
	return Config{
		Timeout:             10 * time.Second,
		DialTimeout:         5 * time.Second,
		KeepAlive:           30 * time.Second,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
}

// InlineConfig returns tight timeouts for synchronous delivery on the
// request path, where a slow collector delays the GraphQL response.
//
//   - Timeout: 2s
//   - DialTimeout: 500ms
//   - TLSHandshakeTimeout: 1s
//   - ResponseHeaderTimeout: 1s
func InlineConfig() Config {
	cfg := DefaultConfig()
	cfg.Timeout = 2 * time.Second
	cfg.DialTimeout = 500 * time.Millisecond
	cfg.TLSHandshakeTimeout = 1 * time.Second
	cfg.ResponseHeaderTimeout = 1 * time.Second
	return cfg
}

// =============================================================================
// Internal Configuration
// =============================================================================

// internalConfig holds the transport settings plus OTel and resilience options.
type internalConfig struct {
	httpConfig Config

	// === OpenTelemetry ===

	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Metrics        *metrics
	Propagators    propagation.TextMapPropagator

	// ServiceName identifies this client on spans and metrics
	// ("http.client.name").
	ServiceName string

	// UserAgent is sent when the descriptor does not carry one.
	UserAgent string

	// === Transport ===

	TLSConfig            *tls.Config
	ProxyURL             *url.URL
	ProxyFromEnvironment bool
	MockTransport        *MockTransport

	// === Resilience ===

	BreakerConfig   *BreakerConfig
	RateLimitConfig *RateLimitConfig

	// === Debug ===

	Logger       zerolog.Logger
	Debug        bool
	GenerateCurl bool
}

// newConfig creates a new internal config with defaults and applies options.
func newConfig(opts ...Option) *internalConfig {
	cfg := &internalConfig{
		httpConfig:           DefaultConfig(),
		TracerProvider:       otel.GetTracerProvider(),
		MeterProvider:        otel.GetMeterProvider(),
		Propagators:          otel.GetTextMapPropagator(),
		ProxyFromEnvironment: true,
		Logger:               zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	cfg.Tracer = cfg.TracerProvider.Tracer(scope)
	cfg.Meter = cfg.MeterProvider.Meter(scope)

	// Initialize metrics (ignore errors, will just be nil if fails)
	cfg.Metrics, _ = newMetrics(cfg.Meter)

	return cfg
}

// buildTransport creates an http.Transport from the configuration.
func (cfg *internalConfig) buildTransport() *http.Transport {
	hc := cfg.httpConfig

	dialer := &net.Dialer{
		Timeout:   hc.DialTimeout,
		KeepAlive: hc.KeepAlive,
	}

	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          hc.MaxIdleConns,
		MaxIdleConnsPerHost:   hc.MaxIdleConnsPerHost,
		IdleConnTimeout:       hc.IdleConnTimeout,
		TLSHandshakeTimeout:   hc.TLSHandshakeTimeout,
		ResponseHeaderTimeout: hc.ResponseHeaderTimeout,
		DisableKeepAlives:     hc.DisableKeepAlives,
		TLSClientConfig:       cfg.TLSConfig,
		ForceAttemptHTTP2:     true,
	}

	if cfg.ProxyURL != nil {
		transport.Proxy = http.ProxyURL(cfg.ProxyURL)
	} else if cfg.ProxyFromEnvironment {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return transport
}

// baseAttributes returns common attributes for all spans and metrics.
func (cfg *internalConfig) baseAttributes() []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 1)
	if cfg.ServiceName != "" {
		attrs = append(attrs, attribute.String("http.client.name", cfg.ServiceName))
	}
	return attrs
}

// =============================================================================
// Options
// =============================================================================

// Option configures the client.
type Option func(*internalConfig)

// WithConfig replaces the transport configuration.
//
// Example:
//
//	client := httpclient.New(httpclient.WithConfig(httpclient.InlineConfig()))
func WithConfig(c Config) Option {
	return func(cfg *internalConfig) {
		cfg.httpConfig = c
	}
}

// WithServiceName labels spans and metrics with "http.client.name".
func WithServiceName(name string) Option {
	return func(cfg *internalConfig) {
		cfg.ServiceName = name
	}
}

// WithUserAgent sets the User-Agent sent to the collector.
func WithUserAgent(ua string) Option {
	return func(cfg *internalConfig) {
		cfg.UserAgent = ua
	}
}

// WithTracerProvider sets the tracer provider. If nil, the global one is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *internalConfig) {
		if tp != nil {
			cfg.TracerProvider = tp
		}
	}
}

// WithMeterProvider sets the meter provider. If nil, the global one is used.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(cfg *internalConfig) {
		if mp != nil {
			cfg.MeterProvider = mp
		}
	}
}

// WithPropagators sets the propagators used to inject trace context into
// collector requests. Default: the global propagator.
func WithPropagators(p propagation.TextMapPropagator) Option {
	return func(cfg *internalConfig) {
		if p != nil {
			cfg.Propagators = p
		}
	}
}

// WithTLSConfig sets a custom TLS configuration, e.g. for a self-hosted
// collector with a private CA.
func WithTLSConfig(tlsCfg *tls.Config) Option {
	return func(cfg *internalConfig) {
		cfg.TLSConfig = tlsCfg
	}
}

// WithProxyURL routes collector requests through a proxy.
func WithProxyURL(proxyURL *url.URL) Option {
	return func(cfg *internalConfig) {
		cfg.ProxyURL = proxyURL
	}
}

// WithProxyFromEnvironment toggles HTTP_PROXY/HTTPS_PROXY support.
// Default: true.
func WithProxyFromEnvironment(enabled bool) Option {
	return func(cfg *internalConfig) {
		cfg.ProxyFromEnvironment = enabled
	}
}

// WithBreaker enables the circuit breaker. While open, Send fails fast
// with gobreaker.ErrOpenState instead of waiting on a dead collector.
//
// Example:
//
//	client := httpclient.New(
//	    httpclient.WithBreaker(httpclient.DefaultBreakerConfig()),
//	)
func WithBreaker(c BreakerConfig) Option {
	return func(cfg *internalConfig) {
		cfg.BreakerConfig = &c
	}
}

// WithRateLimit caps the rate of collector requests.
func WithRateLimit(c RateLimitConfig) Option {
	return func(cfg *internalConfig) {
		cfg.RateLimitConfig = &c
	}
}

// WithLogger sets the logger used by WithDebug.
func WithLogger(l zerolog.Logger) Option {
	return func(cfg *internalConfig) {
		cfg.Logger = l
	}
}

// WithDebug logs every request and response at debug level. Auth tokens
// are redacted.
func WithDebug(enabled bool) Option {
	return func(cfg *internalConfig) {
		cfg.Debug = enabled
	}
}

// WithGenerateCurl adds an equivalent cURL command to debug logs.
func WithGenerateCurl(enabled bool) Option {
	return func(cfg *internalConfig) {
		cfg.GenerateCurl = enabled
	}
}

// WithMockTransport replaces the network transport, for tests.
func WithMockTransport(mock *MockTransport) Option {
	return func(cfg *internalConfig) {
		cfg.MockTransport = mock
	}
}
