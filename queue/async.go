package queue

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/kroma-labs/stellate-go/delivery"
)

// AsyncConfig configures an Async pool.
type AsyncConfig struct {
	// Workers is the number of concurrent senders.
	// Default: 2
	Workers int

	// Buffer is the number of descriptors that may wait for a worker.
	// Default: 256
	Buffer int

	// SendTimeout bounds each send.
	// Default: 10s
	SendTimeout time.Duration
}

// DefaultAsyncConfig returns the default pool configuration.
func DefaultAsyncConfig() AsyncConfig {
	return AsyncConfig{
		Workers:     2,
		Buffer:      256,
		SendTimeout: 10 * time.Second,
	}
}

// Async delivers descriptors from a bounded in-process buffer with a fixed
// set of workers. Deliver never blocks.
type Async struct {
	sender  delivery.Sender
	cfg     AsyncConfig
	logger  zerolog.Logger
	metrics *Metrics

	mu     sync.RWMutex
	closed bool
	jobs   chan job
	group  *errgroup.Group
}

type job struct {
	ctx  context.Context
	desc delivery.Descriptor
}

// NewAsync starts a worker pool sending through sender.
func NewAsync(sender delivery.Sender, opts ...Option) *Async {
	o := newOptions(opts...)
	cfg := o.async
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Buffer < 0 {
		cfg.Buffer = 0
	}

	a := &Async{
		sender:  sender,
		cfg:     cfg,
		logger:  o.logger,
		metrics: o.metrics,
		jobs:    make(chan job, cfg.Buffer),
		group:   &errgroup.Group{},
	}

	for i := 0; i < cfg.Workers; i++ {
		a.group.Go(a.work)
	}

	return a
}

// Deliver enqueues d. It matches delivery.DeliverFunc, so a.Deliver can be
// passed wherever one is expected.
//
// The send runs detached from ctx's cancellation but keeps its values.
func (a *Async) Deliver(ctx context.Context, d delivery.Descriptor) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return ErrClosed
	}

	select {
	case a.jobs <- job{ctx: context.WithoutCancel(ctx), desc: d.Clone()}:
		a.metrics.enqueued()
		return nil
	default:
		a.metrics.dropped()
		return ErrQueueFull
	}
}

// Pending returns the number of descriptors waiting for a worker.
func (a *Async) Pending() int {
	return len(a.jobs)
}

// Close stops accepting descriptors and waits for the buffered ones to be
// sent, or for ctx to end.
func (a *Async) Close(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.jobs)
	}
	a.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- a.group.Wait() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Async) work() error {
	for j := range a.jobs {
		ctx, cancel := context.WithTimeout(j.ctx, a.cfg.SendTimeout)
		send(ctx, a.sender, j.desc, a.logger, a.metrics)
		cancel()
	}
	return nil
}

// send delivers one descriptor and logs the outcome. Failures are dropped.
func send(ctx context.Context, sender delivery.Sender, d delivery.Descriptor, logger zerolog.Logger, m *Metrics) {
	resp, err := sender.Send(ctx, d)
	if err == nil && resp == nil {
		err = errNoResponse
	}

	switch {
	case err != nil:
		logger.Error().Err(err).Str("url", d.URL).Msg("queued delivery failed")
		m.sent(outcomeFailed)
	case !resp.IsSuccess():
		logger.Error().
			Int("status", resp.StatusCode).
			Str("url", d.URL).
			Str("body", string(resp.Body)).
			Msg("queued delivery rejected")
		m.sent(outcomeRejected)
	default:
		m.sent(outcomeDelivered)
	}
}
