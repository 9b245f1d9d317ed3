package stellate

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kroma-labs/stellate-go/delivery"
)

// fakeSender records descriptors and answers with a fixed status.
type fakeSender struct {
	mu     sync.Mutex
	status int
	body   string
	err    error
	sent   []delivery.Descriptor
}

func (s *fakeSender) Send(_ context.Context, d delivery.Descriptor) (*delivery.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, d)
	if s.err != nil {
		return nil, s.err
	}
	return &delivery.Response{StatusCode: s.status, Body: []byte(s.body)}, nil
}

func (s *fakeSender) calls() []delivery.Descriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]delivery.Descriptor{}, s.sent...)
}

func newTestClient(t *testing.T, identity ServiceIdentity, sender delivery.Sender) (*Client, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	c := New(identity, WithSender(sender), WithLogger(zerolog.New(&logs)))
	return c, &logs
}

func fullIdentity() ServiceIdentity {
	return ServiceIdentity{ServiceName: "svc", LoggingToken: "tok", SchemaToken: "schema-tok"}
}

func staticResult(result any) ExecuteFunc {
	return func(context.Context, Operation) (any, error) {
		return result, nil
	}
}
