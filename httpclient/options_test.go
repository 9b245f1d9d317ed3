package httpclient

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg := newConfig()

	assert.Equal(t, DefaultConfig(), cfg.httpConfig)
	assert.NotNil(t, cfg.Tracer)
	assert.NotNil(t, cfg.Meter)
	assert.NotNil(t, cfg.Propagators)
	assert.True(t, cfg.ProxyFromEnvironment)
	assert.Nil(t, cfg.BreakerConfig)
	assert.Nil(t, cfg.RateLimitConfig)
	assert.Empty(t, cfg.baseAttributes())
}

func TestOptions(t *testing.T) {
	t.Parallel()

	proxy, err := url.Parse("http://proxy.internal:3128")
	require.NoError(t, err)

	cfg := newConfig(
		WithConfig(InlineConfig()),
		WithServiceName("graphql-api"),
		WithUserAgent("stellate-go/test"),
		WithProxyURL(proxy),
		WithBreaker(DefaultBreakerConfig()),
		WithRateLimit(DefaultRateLimitConfig()),
		WithDebug(true),
		WithGenerateCurl(true),
	)

	assert.Equal(t, 2*time.Second, cfg.httpConfig.Timeout)
	assert.Equal(t, "graphql-api", cfg.ServiceName)
	assert.Equal(t, "stellate-go/test", cfg.UserAgent)
	assert.Equal(t, proxy, cfg.ProxyURL)
	require.NotNil(t, cfg.BreakerConfig)
	require.NotNil(t, cfg.RateLimitConfig)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.GenerateCurl)
	require.Len(t, cfg.baseAttributes(), 1)
	assert.Equal(t, "graphql-api", cfg.baseAttributes()[0].Value.AsString())
}

func TestBuildTransport(t *testing.T) {
	t.Parallel()

	proxy, err := url.Parse("http://proxy.internal:3128")
	require.NoError(t, err)

	transport := newConfig(WithProxyURL(proxy)).buildTransport()

	assert.Equal(t, DefaultConfig().MaxIdleConns, transport.MaxIdleConns)
	require.NotNil(t, transport.Proxy)
	got, err := transport.Proxy(&http.Request{URL: &url.URL{Scheme: "https", Host: "svc.stellate.sh"}})
	require.NoError(t, err)
	assert.Equal(t, proxy, got)
}
