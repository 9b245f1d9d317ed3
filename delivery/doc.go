// Package delivery turns a telemetry payload into an outbound request
// descriptor and routes it either to a synchronous Sender or to a
// caller-supplied DeliverFunc.
//
// # Synchronous delivery
//
// With no DeliverFunc the Dispatcher POSTs the descriptor through its
// Sender and blocks until the exchange completes. Failures (status >= 300,
// transport errors) are logged and swallowed:
//
//	d := delivery.NewDispatcher(httpclient.New(),
//	    delivery.WithLogger(logger),
//	)
//	res, err := d.Dispatch(ctx, target, payload, nil)
//	// err is non-nil only when payload cannot be encoded.
//
// # Deferred delivery
//
// A non-nil DeliverFunc takes ownership of the descriptor. The Dispatcher
// invokes it exactly once and returns:
//
//	res, err := d.Dispatch(ctx, target, payload, func(ctx context.Context, desc delivery.Descriptor) error {
//	    return jobs.Enqueue(ctx, desc)
//	})
//
// The descriptor is plain data and round-trips through JSON, so it can be
// queued and sent later by another process (see package queue).
//
// # Observability
//
// Every dispatch records a span ("stellate.dispatch") and the metrics:
//   - stellate.delivery.dispatched (counter, by target, mode, outcome)
//   - stellate.delivery.duration (histogram, seconds)
package delivery
