package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Dispatcher builds descriptors and delivers them. It is safe for
// concurrent use if its Sender is.
type Dispatcher struct {
	sender  Sender
	logger  zerolog.Logger
	tracer  trace.Tracer
	metrics *metrics
	maxBody int
}

// NewDispatcher creates a Dispatcher that uses sender for synchronous
// delivery. sender may be nil when every call supplies a DeliverFunc.
func NewDispatcher(sender Sender, opts ...Option) *Dispatcher {
	cfg := newConfig(opts...)

	// Metrics are best-effort; a nil *metrics records nothing.
	m, _ := newMetrics(cfg.meterProvider.Meter(scope))

	return &Dispatcher{
		sender:  sender,
		logger:  cfg.logger,
		tracer:  cfg.tracerProvider.Tracer(scope),
		metrics: m,
		maxBody: cfg.maxLoggedBody,
	}
}

// BuildDescriptor serializes payload and addresses it to target.
func BuildDescriptor(target Target, payload any) (Descriptor, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: %w", ErrEncodeBody, err)
	}

	headers := map[string]string{
		HeaderContentType: ContentTypeJSON,
	}
	if target.AuthHeader != "" {
		headers[target.AuthHeader] = target.AuthToken
	}

	return Descriptor{
		URL:     target.URL,
		Headers: headers,
		Body:    string(body),
	}, nil
}

// Dispatch delivers payload to target.
//
// If deliver is non-nil it is invoked once with the descriptor and Dispatch
// returns as soon as it does. Otherwise the Sender POSTs the descriptor and
// Dispatch blocks until the exchange finishes.
//
// Delivery failures are logged and reported in Result only. The returned
// error is non-nil only when payload cannot be serialized (ErrEncodeBody).
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	target Target,
	payload any,
	deliver DeliverFunc,
) (Result, error) {
	desc, err := BuildDescriptor(target, payload)
	if err != nil {
		return Result{}, err
	}
	return d.DispatchDescriptor(ctx, target, desc, deliver), nil
}

// DispatchDescriptor delivers an already built descriptor. It never fails;
// the outcome is logged and returned.
func (d *Dispatcher) DispatchDescriptor(
	ctx context.Context,
	target Target,
	desc Descriptor,
	deliver DeliverFunc,
) Result {
	start := time.Now()

	ctx, span := d.tracer.Start(ctx, "stellate.dispatch",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("stellate.target", target.Name),
			attribute.String("url.full", desc.URL),
			attribute.Int("http.request.body.size", len(desc.Body)),
		),
	)
	defer span.End()

	var res Result
	if deliver != nil {
		res = d.deferred(ctx, desc, deliver)
	} else {
		res = d.send(ctx, desc)
	}
	res.Descriptor = desc

	span.SetAttributes(
		attribute.String("stellate.delivery.mode", string(res.Mode)),
		attribute.String("stellate.delivery.outcome", string(res.Outcome)),
	)
	if res.StatusCode != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", res.StatusCode))
	}
	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())
		d.logFailure(target, res)
	}

	d.metrics.record(ctx, target.Name, res, time.Since(start))

	return res
}

func (d *Dispatcher) deferred(ctx context.Context, desc Descriptor, deliver DeliverFunc) Result {
	if err := deliver(ctx, desc); err != nil {
		return Result{
			Mode:    ModeDeferred,
			Outcome: OutcomeFailed,
			Err:     fmt.Errorf("%w: %w", ErrDeferred, err),
		}
	}
	return Result{Mode: ModeDeferred, Outcome: OutcomeHandedOff}
}

func (d *Dispatcher) send(ctx context.Context, desc Descriptor) Result {
	if d.sender == nil {
		return Result{Mode: ModeSync, Outcome: OutcomeFailed, Err: ErrNoSender}
	}

	resp, err := d.sender.Send(ctx, desc)
	if err == nil && resp == nil {
		err = errors.New("sender returned no response")
	}
	if err != nil {
		return Result{
			Mode:    ModeSync,
			Outcome: OutcomeFailed,
			Err:     fmt.Errorf("%w: %w", ErrTransport, err),
		}
	}

	if resp.StatusCode >= 300 {
		return Result{
			Mode:       ModeSync,
			Outcome:    OutcomeRejected,
			StatusCode: resp.StatusCode,
			Err: fmt.Errorf("%w: %d: %s",
				ErrUnexpectedStatus, resp.StatusCode, truncate(resp.Body, d.maxBody)),
		}
	}

	return Result{Mode: ModeSync, Outcome: OutcomeDelivered, StatusCode: resp.StatusCode}
}

func (d *Dispatcher) logFailure(target Target, res Result) {
	msg := target.FailureMessage
	if msg == "" {
		msg = "delivery failed"
	}

	event := d.logger.Error().
		Err(res.Err).
		Str("target", target.Name).
		Str("url", res.Descriptor.URL).
		Str("mode", string(res.Mode))
	if res.StatusCode != 0 {
		event.Int("status", res.StatusCode)
	}
	event.Msg(msg)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
