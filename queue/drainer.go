package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/kroma-labs/stellate-go/delivery"
)

// Drainer pops descriptors queued by Redis and sends them. Each
// descriptor is sent at most once; failures are logged and dropped.
type Drainer struct {
	client       redis.UniversalClient
	sender       delivery.Sender
	key          string
	workers      int
	pollTimeout  time.Duration
	sendTimeout  time.Duration
	maxPollDelay time.Duration
	logger       zerolog.Logger
	metrics      *Metrics
}

// NewDrainer creates a Drainer reading the list written by NewRedis with
// the same key.
func NewDrainer(client redis.UniversalClient, sender delivery.Sender, opts ...Option) *Drainer {
	o := newOptions(opts...)
	return &Drainer{
		client:       client,
		sender:       sender,
		key:          o.key,
		workers:      o.workers,
		pollTimeout:  o.pollTimeout,
		sendTimeout:  o.sendTimeout,
		maxPollDelay: o.maxPollDelay,
		logger:       o.logger,
		metrics:      o.metrics,
	}
}

// Run drains the queue until ctx is done. It returns nil on cancellation.
//
// Redis errors do not stop Run; the failing worker backs off
// exponentially, up to the max poll delay, and polls again.
func (d *Drainer) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < d.workers; i++ {
		g.Go(func() error {
			return d.loop(ctx)
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func (d *Drainer) loop(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.MaxInterval = d.maxPollDelay
	b.Reset()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := d.client.BRPop(ctx, d.pollTimeout, d.key).Result()
		switch {
		case errors.Is(err, redis.Nil):
			b.Reset()
			continue
		case err != nil:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			wait := b.NextBackOff()
			d.logger.Warn().Err(err).Str("key", d.key).Dur("retry_in", wait).Msg("queue poll failed")
			if err := sleep(ctx, wait); err != nil {
				return err
			}
			continue
		}

		b.Reset()
		// BRPOP answers [key, value].
		d.handle(ctx, raw[1])
	}
}

// DrainOnce pops and sends one descriptor without blocking. It reports
// whether the queue had an entry.
func (d *Drainer) DrainOnce(ctx context.Context) (bool, error) {
	raw, err := d.client.RPop(ctx, d.key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("pop %s: %w", d.key, err)
	}

	d.handle(ctx, raw)
	return true, nil
}

func (d *Drainer) handle(ctx context.Context, raw string) {
	env, err := decodeEnvelope(raw)
	if err != nil {
		d.logger.Error().Err(err).Str("key", d.key).Msg("dropping malformed queue entry")
		d.metrics.sent(outcomeFailed)
		return
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.sendTimeout)
	defer cancel()

	send(sendCtx, d.sender, env.Descriptor,
		d.logger.With().Str("id", env.ID).Logger(), d.metrics)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
