package queue

import (
	"time"

	"github.com/rs/zerolog"
)

// DefaultKey is the Redis list holding queued descriptors.
const DefaultKey = "stellate:deliveries"

// Option configures Async, Redis and Drainer. Options that do not apply
// to a type are ignored by it.
type Option func(*options)

type options struct {
	logger  zerolog.Logger
	metrics *Metrics
	async   AsyncConfig

	// Redis and Drainer.
	key          string
	maxLen       int64
	workers      int
	pollTimeout  time.Duration
	sendTimeout  time.Duration
	maxPollDelay time.Duration
}

func newOptions(opts ...Option) *options {
	o := &options{
		logger:       zerolog.Nop(),
		async:        DefaultAsyncConfig(),
		key:          DefaultKey,
		workers:      2,
		pollTimeout:  time.Second,
		sendTimeout:  10 * time.Second,
		maxPollDelay: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger for failed sends and Redis errors.
//
// Default: zerolog.Nop().
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics records queue activity in m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithAsyncConfig replaces the Async pool configuration.
func WithAsyncConfig(c AsyncConfig) Option {
	return func(o *options) {
		o.async = c
	}
}

// WithWorkers sets the number of concurrent senders of Async and Drainer.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
			o.async.Workers = n
		}
	}
}

// WithKey sets the Redis list key.
//
// Default: "stellate:deliveries".
func WithKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.key = key
		}
	}
}

// WithMaxLen caps the Redis list. Older entries are trimmed when the list
// grows past n. Zero means unbounded.
func WithMaxLen(n int64) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxLen = n
		}
	}
}

// WithPollTimeout sets how long a Drainer worker blocks on BRPOP. Redis
// counts in whole seconds, so anything below 1s becomes 1s.
//
// Default: 1s.
func WithPollTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollTimeout = d
		}
	}
}

// WithSendTimeout bounds each send made by Async and Drainer.
//
// Default: 10s.
func WithSendTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.sendTimeout = d
			o.async.SendTimeout = d
		}
	}
}

// WithMaxPollDelay caps the back-off between failed Redis polls.
//
// Default: 30s.
func WithMaxPollDelay(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.maxPollDelay = d
		}
	}
}
