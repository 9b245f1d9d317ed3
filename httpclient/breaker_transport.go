package httpclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/sony/gobreaker/v2"
)

// circuitBreakerTransport is a RoundTripper that wraps requests in a circuit breaker.
type circuitBreakerTransport struct {
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	dbreaker   *gobreaker.DistributedCircuitBreaker[*http.Response]
	next       http.RoundTripper
	classifier BreakerClassifier
	cfg        *internalConfig
	name       string
}

// errSyntheticFailure tells the breaker that a request failed (e.g. 503)
// although RoundTrip returned no error. It never escapes the transport.
var errSyntheticFailure = errors.New("synthetic failure")

// RoundTrip implements http.RoundTripper.
func (t *circuitBreakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	call := func() (*http.Response, error) {
		resp, err := t.next.RoundTrip(req) //nolint:bodyclose

		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		if t.classifier(status, err) && err == nil {
			return resp, errSyntheticFailure
		}
		return resp, err
	}

	var (
		resp *http.Response
		err  error
	)
	if t.dbreaker != nil {
		resp, err = t.dbreaker.Execute(call)
	} else {
		resp, err = t.breaker.Execute(call)
	}

	switch {
	case err == nil:
		t.cfg.Metrics.recordBreakerRequest(ctx, t.name, "success")
		return resp, nil
	case errors.Is(err, errSyntheticFailure):
		t.cfg.Metrics.recordBreakerRequest(ctx, t.name, "failure")
		return resp, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		t.cfg.Metrics.recordBreakerRequest(ctx, t.name, "rejected")
		return nil, err
	default:
		t.cfg.Metrics.recordBreakerRequest(ctx, t.name, "failure")
		return nil, err
	}
}

// newCircuitBreakerTransport wraps next with a breaker when one is configured.
func newCircuitBreakerTransport(next http.RoundTripper, cfg *internalConfig) http.RoundTripper {
	if cfg.BreakerConfig == nil {
		return next
	}
	bc := cfg.BreakerConfig

	name := cfg.ServiceName
	if name == "" {
		name = "stellate-collector"
	}

	classifier := bc.Classifier
	if classifier == nil {
		classifier = DefaultBreakerClassifier
	}

	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if bc.ConsecutiveFailures > 0 && counts.ConsecutiveFailures >= bc.ConsecutiveFailures {
				return true
			}
			if bc.FailureThreshold > 0 && counts.Requests < bc.FailureThreshold {
				return false
			}
			if bc.FailureRatio > 0 && counts.Requests > 0 {
				ratio := float64(counts.TotalFailures) / float64(counts.Requests)
				return ratio >= bc.FailureRatio
			}
			return false
		},
		// Errors the classifier does not blame on the collector, such as a
		// cancelled caller context, neither trip nor heal the breaker.
		IsExcluded: func(err error) bool {
			return err != nil && !errors.Is(err, errSyntheticFailure) && !classifier(0, err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			cfg.Metrics.recordBreakerState(context.Background(), name, int64(to))
			if bc.OnStateChange != nil {
				bc.OnStateChange(name, from, to)
			}
		},
	}

	t := &circuitBreakerTransport{
		next:       next,
		classifier: classifier,
		cfg:        cfg,
		name:       name,
	}

	if bc.Store != nil {
		dcb, err := gobreaker.NewDistributedCircuitBreaker[*http.Response](bc.Store, st)
		if err == nil {
			t.dbreaker = dcb
			return t
		}
		// Fall back to a process-local breaker.
		cfg.Logger.Warn().Err(err).Str("breaker", name).Msg("distributed breaker unavailable, using local")
	}

	t.breaker = gobreaker.NewCircuitBreaker[*http.Response](st)
	return t
}
