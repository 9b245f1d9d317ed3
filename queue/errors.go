package queue

import "errors"

var (
	// ErrQueueFull is returned by Async.Deliver when every buffer slot is
	// taken.
	ErrQueueFull = errors.New("queue: full")

	// ErrClosed is returned by Deliver after Close.
	ErrClosed = errors.New("queue: closed")
)

var errNoResponse = errors.New("sender returned no response")
