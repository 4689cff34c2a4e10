package refetch

import "time"

// Snapshot is the observable state of a [Controller] at a point in time.
//
// Snapshot is an immutable value; the controller publishes a new one on
// every state transition. Data and Err are independent: after a failed
// cycle Data is nil and Err is set, and while a new request is in flight
// the previous Data remains visible alongside Loading.
type Snapshot[T any] struct {
	// Data points to the last successfully fetched value, or nil if no
	// request has succeeded yet (or the most recent settled request failed).
	Data *T

	// Loading is true while a request that has not been superseded or
	// settled is outstanding.
	Loading bool

	// Err is the failure from the last settled request, or nil. Cancelled
	// requests never surface here.
	Err error

	// CheckedAt is the timestamp of the last settled request. Zero until
	// a request settles.
	CheckedAt time.Time

	// RequestID is the correlation ID of the last settled request, useful
	// for matching observer state against controller logs.
	RequestID string
}

// Value returns the fetched data and whether any data is present.
func (s Snapshot[T]) Value() (T, bool) {
	if s.Data == nil {
		var zero T
		return zero, false
	}
	return *s.Data, true
}
