package refetch

import (
	"errors"
	"fmt"
)

// ErrNilFetch is returned by [New] when no fetch function is provided.
// The fetch function is mandatory; a controller cannot poll without one.
var ErrNilFetch = errors.New("refetch: fetch function is nil")

// errFetchPanic marks a recovered panic from a fetch function. It never
// reaches observers: a panicking fetch clears Loading without setting Err.
var errFetchPanic = errors.New("refetch: panic in fetch function")

// StatusError is the failure reported by [JSONFetchFunc] and
// [BytesFetchFunc] when a request completes with a non-2xx status code.
//
// It carries the status code and the (size-limited) response body so
// observers can distinguish, say, a 404 from a 503.
type StatusError struct {
	// Code is the HTTP status code of the response.
	Code int

	// Body is the response body, limited to 1MB.
	Body []byte
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}
