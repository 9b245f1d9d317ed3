package httpclient

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestDefaultBreakerClassifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		err    error
		want   bool
	}{
		{name: "given 200, then not a failure", status: http.StatusOK, want: false},
		{name: "given 401, then not a failure", status: http.StatusUnauthorized, want: false},
		{name: "given 503, then failure", status: http.StatusServiceUnavailable, want: true},
		{name: "given net timeout, then failure", err: timeoutError{}, want: true},
		{name: "given context cancelled, then not a failure", err: context.Canceled, want: false},
		{name: "given plain error, then not a failure", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DefaultBreakerClassifier(tt.status, tt.err))
		})
	}
}

func TestBreakerConfigs(t *testing.T) {
	t.Run("DefaultBreakerConfig", func(t *testing.T) {
		cfg := DefaultBreakerConfig()
		assert.Equal(t, uint32(5), cfg.ConsecutiveFailures)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
		assert.Nil(t, cfg.Store)
		assert.NotNil(t, cfg.Classifier)
	})

	t.Run("DistributedBreakerConfig", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		defer mr.Close()

		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer rdb.Close()
		store := NewRedisStore(rdb)

		cfg := DistributedBreakerConfig(store)
		assert.Equal(t, store, cfg.Store)
		assert.Equal(t, DefaultBreakerConfig().Timeout, cfg.Timeout)
	})
}

func TestCircuitBreaker_TripsOnConsecutiveFailures(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport().StubResponse(http.StatusServiceUnavailable, "down")

	var transitions []gobreaker.State
	cfg := DefaultBreakerConfig()
	cfg.ConsecutiveFailures = 3
	cfg.OnStateChange = func(_ string, _, to gobreaker.State) {
		transitions = append(transitions, to)
	}

	client := New(WithMockTransport(mock), WithBreaker(cfg))
	desc := testDescriptor("https://svc.stellate.sh/log")

	for i := 0; i < 3; i++ {
		resp, err := client.Send(context.Background(), desc)
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	}

	_, err := client.Send(context.Background(), desc)
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, mock.RequestCount(), "open breaker must not reach the collector")
	assert.Equal(t, []gobreaker.State{gobreaker.StateOpen}, transitions)
}

func TestCircuitBreaker_ClientErrorsDoNotTrip(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport().StubResponse(http.StatusUnauthorized, "bad token")

	cfg := DefaultBreakerConfig()
	cfg.ConsecutiveFailures = 2
	client := New(WithMockTransport(mock), WithBreaker(cfg))

	for i := 0; i < 5; i++ {
		resp, err := client.Send(context.Background(), testDescriptor("https://svc.stellate.sh/log"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	assert.Equal(t, 5, mock.RequestCount())
}

func TestCircuitBreaker_Distributed(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	cfg := DistributedBreakerConfig(NewRedisStore(rdb))
	cfg.ConsecutiveFailures = 2

	mock := NewMockTransport().StubResponse(http.StatusBadGateway, "")
	client := New(WithMockTransport(mock), WithBreaker(cfg), WithServiceName("breaker-test"))

	desc := testDescriptor("https://svc.stellate.sh/log")
	for i := 0; i < 2; i++ {
		_, err := client.Send(context.Background(), desc)
		require.NoError(t, err)
	}

	_, err = client.Send(context.Background(), desc)
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
}
