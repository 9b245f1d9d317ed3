package queue

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/kroma-labs/stellate-go/delivery"
)

type fakeSender struct {
	mu     sync.Mutex
	status int
	err    error
	block  chan struct{}
	sent   []delivery.Descriptor
}

func (s *fakeSender) Send(ctx context.Context, d delivery.Descriptor) (*delivery.Response, error) {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, d)
	if s.err != nil {
		return nil, s.err
	}
	return &delivery.Response{StatusCode: s.status}, nil
}

func (s *fakeSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func (s *fakeSender) urls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.sent))
	for _, d := range s.sent {
		out = append(out, d.URL)
	}
	return out
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func descriptor(url string) delivery.Descriptor {
	return delivery.Descriptor{
		URL: url,
		Headers: map[string]string{
			"Content-Type":           "application/json",
			"Stellate-Logging-Token": "tok",
		},
		Body: `{"operation":"{ foo }"}`,
	}
}
