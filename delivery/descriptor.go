package delivery

import (
	"context"
	"errors"
)

// Header names set on every descriptor.
const (
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"
)

var (
	// ErrEncodeBody is returned by Dispatch when the payload cannot be
	// serialized. It is the only error Dispatch returns.
	ErrEncodeBody = errors.New("delivery: encode body")

	// ErrUnexpectedStatus marks a collector response with status >= 300.
	ErrUnexpectedStatus = errors.New("delivery: unexpected status")

	// ErrTransport marks a failed HTTP exchange (DNS, connect, timeout, ...).
	ErrTransport = errors.New("delivery: transport")

	// ErrDeferred marks an error returned by a DeliverFunc.
	ErrDeferred = errors.New("delivery: deferred")

	// ErrNoSender is recorded when synchronous delivery is needed but the
	// Dispatcher was built without a Sender.
	ErrNoSender = errors.New("delivery: no sender configured")
)

// Descriptor is one pending outbound HTTP POST. It carries data only, so it
// can be handed across a queue or process boundary and sent later.
type Descriptor struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
}

// Clone returns a deep copy of d.
func (d Descriptor) Clone() Descriptor {
	headers := make(map[string]string, len(d.Headers))
	for k, v := range d.Headers {
		headers[k] = v
	}
	d.Headers = headers
	return d
}

// DeliverFunc takes ownership of delivering a descriptor. It may send it
// inline, enqueue it, or drop it; the Dispatcher imposes nothing further.
//
// A nil DeliverFunc means "send synchronously".
type DeliverFunc func(ctx context.Context, d Descriptor) error

// Response is what a Sender observed from the collector.
type Response struct {
	StatusCode int
	Body       []byte
}

// IsSuccess reports whether the collector accepted the request.
func (r *Response) IsSuccess() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Sender performs one blocking HTTP POST described by a Descriptor.
//
// Implementations return an error only for transport failures; non-2xx
// responses are reported through Response.
type Sender interface {
	Send(ctx context.Context, d Descriptor) (*Response, error)
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, d Descriptor) (*Response, error)

// Send implements Sender.
func (f SenderFunc) Send(ctx context.Context, d Descriptor) (*Response, error) {
	return f(ctx, d)
}

// Target names the collector endpoint a payload is dispatched to.
type Target struct {
	// Name labels spans and metrics, e.g. "log" or "schema".
	Name string

	// URL is the collector endpoint.
	URL string

	// AuthHeader is the header carrying the token, e.g. "Stellate-Logging-Token".
	AuthHeader string

	// AuthToken is the value sent in AuthHeader.
	AuthToken string

	// FailureMessage is logged when delivery fails.
	// Default: "delivery failed".
	FailureMessage string
}
