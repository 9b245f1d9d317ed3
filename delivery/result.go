package delivery

// Mode is how a descriptor left the Dispatcher.
type Mode string

const (
	// ModeSync means the Dispatcher sent the request itself.
	ModeSync Mode = "sync"

	// ModeDeferred means a DeliverFunc took ownership.
	ModeDeferred Mode = "deferred"
)

// Outcome summarizes a dispatch.
type Outcome string

const (
	// OutcomeDelivered: the collector answered 2xx.
	OutcomeDelivered Outcome = "delivered"

	// OutcomeHandedOff: a DeliverFunc accepted the descriptor.
	OutcomeHandedOff Outcome = "handed_off"

	// OutcomeRejected: the collector answered with status >= 300.
	OutcomeRejected Outcome = "rejected"

	// OutcomeFailed: transport error, or the DeliverFunc returned an error.
	OutcomeFailed Outcome = "failed"
)

// Result reports what happened to one dispatch. It exists for logging,
// metrics and tests; callers on the request path should not act on it.
type Result struct {
	Mode       Mode
	Outcome    Outcome
	StatusCode int
	Descriptor Descriptor

	// Err is set when Outcome is OutcomeRejected or OutcomeFailed. It wraps
	// ErrUnexpectedStatus, ErrTransport, ErrDeferred or ErrNoSender.
	Err error
}

// OK reports whether the descriptor was delivered or handed off.
func (r Result) OK() bool {
	return r.Outcome == OutcomeDelivered || r.Outcome == OutcomeHandedOff
}
