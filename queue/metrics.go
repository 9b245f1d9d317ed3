package queue

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeDelivered = "delivered"
	outcomeRejected  = "rejected"
	outcomeFailed    = "failed"
)

// Metrics holds Prometheus instruments for the queues. A nil *Metrics
// records nothing.
type Metrics struct {
	enqueuedTotal prometheus.Counter
	droppedTotal  prometheus.Counter
	sentTotal     *prometheus.CounterVec
}

// NewMetrics creates queue metrics and registers them with reg. A nil reg
// uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		enqueuedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stellate",
			Subsystem: "queue",
			Name:      "enqueued_total",
			Help:      "Descriptors accepted by a queue.",
		}),
		droppedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stellate",
			Subsystem: "queue",
			Name:      "dropped_total",
			Help:      "Descriptors refused because the queue was full.",
		}),
		sentTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stellate",
			Subsystem: "queue",
			Name:      "sent_total",
			Help:      "Queued descriptors sent to the collector, by outcome.",
		}, []string{"outcome"}),
	}

	for _, c := range []prometheus.Collector{m.enqueuedTotal, m.droppedTotal, m.sentTotal} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) enqueued() {
	if m == nil {
		return
	}
	m.enqueuedTotal.Inc()
}

func (m *Metrics) dropped() {
	if m == nil {
		return
	}
	m.droppedTotal.Inc()
}

func (m *Metrics) sent(outcome string) {
	if m == nil {
		return
	}
	m.sentTotal.WithLabelValues(outcome).Inc()
}

// DepthCollector reports the length of a Redis queue as the gauge
// stellate_queue_depth, read with LLEN at scrape time.
type DepthCollector struct {
	queue   *Redis
	timeout time.Duration
	desc    *prometheus.Desc
}

var _ prometheus.Collector = (*DepthCollector)(nil)

// NewDepthCollector creates a collector for q.
func NewDepthCollector(q *Redis) *DepthCollector {
	return &DepthCollector{
		queue:   q,
		timeout: 2 * time.Second,
		desc: prometheus.NewDesc(
			"stellate_queue_depth",
			"Descriptors waiting in the Redis queue.",
			nil,
			prometheus.Labels{"key": q.Key()},
		),
	}
}

// Describe implements prometheus.Collector.
func (c *DepthCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector. A failed LLEN reports an
// invalid metric so the scrape shows the error.
func (c *DepthCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	n, err := c.queue.Len(ctx)
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.desc, err)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(n))
}
