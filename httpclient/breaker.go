package httpclient

import (
	"errors"
	"net"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"
	gobreakerredis "github.com/sony/gobreaker/v2/redis"
)

// NewRedisStore creates a SharedDataStore backed by Redis so every replica
// of a service shares one breaker for the collector.
//
//	rdb := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{"localhost:6379"}})
//	store := httpclient.NewRedisStore(rdb)
func NewRedisStore(client redis.UniversalClient) gobreaker.SharedDataStore {
	return gobreakerredis.NewStoreFromClient(client)
}

// BreakerClassifier reports whether an exchange counts as a collector failure.
// statusCode is 0 when err is non-nil.
type BreakerClassifier func(statusCode int, err error) bool

// BreakerConfig holds the configuration for the circuit breaker.
//
// States:
//   - Closed: requests flow to the collector.
//   - Open: requests fail immediately with gobreaker.ErrOpenState.
//   - Half-Open: MaxRequests probes are let through to test recovery.
type BreakerConfig struct {
	// MaxRequests is the number of probes allowed while half-open.
	// If 0, one probe is allowed.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state after which counts
	// are cleared. If 0, counts are never cleared while closed.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing.
	// Default: 30s.
	Timeout time.Duration

	// FailureThreshold is the minimum number of requests in an interval
	// before FailureRatio is considered.
	FailureThreshold uint32

	// FailureRatio trips the breaker when failures/requests reaches it.
	FailureRatio float64

	// ConsecutiveFailures trips the breaker after this many failures in a
	// row. If 0, the rule is disabled.
	ConsecutiveFailures uint32

	// Store enables a distributed breaker. If nil, the breaker is local.
	Store gobreaker.SharedDataStore

	// Classifier decides which exchanges count as failures.
	// Default: DefaultBreakerClassifier.
	Classifier BreakerClassifier

	// OnStateChange is invoked on every state transition.
	OnStateChange func(name string, from, to gobreaker.State)
}

// DefaultBreakerConfig returns a local breaker tuned for a telemetry
// collector: trip after 5 consecutive failures or a 50% failure rate over
// 20 requests, stay open for 30s.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:         1,
		Interval:            30 * time.Second,
		Timeout:             30 * time.Second,
		FailureThreshold:    20,
		FailureRatio:        0.5,
		ConsecutiveFailures: 5,
		Classifier:          DefaultBreakerClassifier,
	}
}

// DistributedBreakerConfig returns DefaultBreakerConfig backed by store.
func DistributedBreakerConfig(store gobreaker.SharedDataStore) BreakerConfig {
	cfg := DefaultBreakerConfig()
	cfg.Store = store
	return cfg
}

// DefaultBreakerClassifier counts network errors and 5xx answers as
// failures. 4xx answers (e.g. a bad token) do not trip the breaker since
// the collector itself is healthy.
func DefaultBreakerClassifier(statusCode int, err error) bool {
	if err != nil {
		return isNetworkError(err)
	}
	return statusCode >= 500
}

// isNetworkError checks for common network errors.
func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT)
}
