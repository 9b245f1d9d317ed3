package delivery

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// metrics holds the instruments recorded per dispatch.
type metrics struct {
	// dispatched counts dispatches by target, mode and outcome.
	dispatched metric.Int64Counter

	// duration measures time spent inside Dispatch in seconds. For deferred
	// delivery this is the hand-off cost only.
	duration metric.Float64Histogram
}

func newMetrics(meter metric.Meter) (*metrics, error) {
	m := &metrics{}
	var err error

	m.dispatched, err = meter.Int64Counter(
		"stellate.delivery.dispatched",
		metric.WithDescription("Number of telemetry descriptors dispatched"),
		metric.WithUnit("{dispatch}"),
	)
	if err != nil {
		return nil, err
	}

	m.duration, err = meter.Float64Histogram(
		"stellate.delivery.duration",
		metric.WithDescription("Time spent dispatching telemetry in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
		),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *metrics) record(ctx context.Context, target string, res Result, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("stellate.target", target),
		attribute.String("stellate.delivery.mode", string(res.Mode)),
		attribute.String("stellate.delivery.outcome", string(res.Outcome)),
	)
	m.dispatched.Add(ctx, 1, attrs)
	m.duration.Record(ctx, d.Seconds(), attrs)
}
