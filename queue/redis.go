package queue

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/kroma-labs/stellate-go/delivery"
)

// Envelope is the Redis list entry for one descriptor.
type Envelope struct {
	ID         string              `json:"id"`
	EnqueuedAt time.Time           `json:"enqueuedAt"`
	Descriptor delivery.Descriptor `json:"descriptor"`
}

// Redis pushes descriptors onto a Redis list for a Drainer to send.
type Redis struct {
	client  redis.UniversalClient
	key     string
	maxLen  int64
	logger  zerolog.Logger
	metrics *Metrics
}

// NewRedis creates a Redis queue on client.
func NewRedis(client redis.UniversalClient, opts ...Option) *Redis {
	o := newOptions(opts...)
	return &Redis{
		client:  client,
		key:     o.key,
		maxLen:  o.maxLen,
		logger:  o.logger,
		metrics: o.metrics,
	}
}

// Key returns the list key.
func (r *Redis) Key() string {
	return r.key
}

// Deliver pushes d onto the list. It matches delivery.DeliverFunc.
func (r *Redis) Deliver(ctx context.Context, d delivery.Descriptor) error {
	env := Envelope{
		ID:         uuid.NewString(),
		EnqueuedAt: time.Now().UTC(),
		Descriptor: d,
	}

	b, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, r.key, b)
	if r.maxLen > 0 {
		pipe.LTrim(ctx, r.key, 0, r.maxLen-1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push %s: %w", r.key, err)
	}

	r.metrics.enqueued()
	r.logger.Debug().Str("id", env.ID).Str("key", r.key).Msg("descriptor queued")

	return nil
}

// Len returns the number of queued descriptors.
func (r *Redis) Len(ctx context.Context) (int64, error) {
	return r.client.LLen(ctx, r.key).Result()
}

func decodeEnvelope(raw string) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}
