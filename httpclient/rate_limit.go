package httpclient

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures client-level rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the maximum sustained request rate.
	RequestsPerSecond float64

	// Burst is the maximum number of requests allowed in a burst.
	Burst int

	// WaitOnLimit makes requests wait for a token (bounded by the request
	// context). When false, excess requests fail with ErrRateLimited, which
	// for telemetry means the record is dropped.
	WaitOnLimit bool
}

// DefaultRateLimitConfig returns 100 requests per second with a burst of
// 20, dropping excess requests.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		Burst:             20,
	}
}

// ErrRateLimited is returned when a request is rejected due to rate limiting.
var ErrRateLimited = errors.New("rate limit exceeded")

// rateLimitTransport implements http.RoundTripper with rate limiting.
type rateLimitTransport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
	wait    bool
	cfg     *internalConfig
}

// newRateLimitTransport wraps next when a positive rate is configured.
func newRateLimitTransport(next http.RoundTripper, cfg *internalConfig) http.RoundTripper {
	rl := cfg.RateLimitConfig
	if rl == nil || rl.RequestsPerSecond <= 0 {
		return next
	}

	burst := rl.Burst
	if burst <= 0 {
		burst = 1
	}

	return &rateLimitTransport{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rl.RequestsPerSecond), burst),
		wait:    rl.WaitOnLimit,
		cfg:     cfg,
	}
}

// RoundTrip implements http.RoundTripper.
func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	if t.wait {
		if err := t.limiter.Wait(ctx); err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return nil, err
			}
			t.cfg.Metrics.recordRateLimited(ctx, t.cfg.baseAttributes())
			return nil, ErrRateLimited
		}
	} else if !t.limiter.Allow() {
		t.cfg.Metrics.recordRateLimited(ctx, t.cfg.baseAttributes())
		return nil, ErrRateLimited
	}

	return t.next.RoundTrip(req)
}
