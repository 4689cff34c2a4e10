package refetch

import (
	"errors"
	"log/slog"
	"time"
)

// defaultInterval is the polling interval used when [WithInterval] is not
// specified.
const defaultInterval = 5 * time.Second

// settings holds mutable state during controller construction.
type settings[T any] struct {
	interval  time.Duration
	immediate bool
	logger    *slog.Logger
	onUpdate  []func(Snapshot[T])
}

// Option is a function that configures a [Controller] during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
//
// Built-in options: [WithInterval], [WithImmediate], [WithLogger],
// [WithOnUpdate].
type Option[T any] func(*settings[T]) error

// WithInterval sets the time between automatic fetch cycles.
//
// Each elapsed interval issues a new request, superseding any request
// still in flight. Defaults to 5 seconds if not specified.
//
// Example:
//
//	c, err := refetch.New(fn, refetch.WithInterval[Payload](30*time.Second))
//
// Returns an error if the duration is zero or negative.
func WithInterval[T any](d time.Duration) Option[T] {
	return func(s *settings[T]) error {
		if d <= 0 {
			return errors.New("interval must be positive")
		}
		s.interval = d
		return nil
	}
}

// WithImmediate controls whether the controller fetches once as soon as it
// starts, before the first interval elapses.
//
// Defaults to true. Pass false to wait a full interval before the first
// request.
func WithImmediate[T any](immediate bool) Option[T] {
	return func(s *settings[T]) error {
		s.immediate = immediate
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the controller.
//
// This allows SDK consumers to control where logs are written and in what
// format. If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(s *settings[T]) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		s.logger = logger
		return nil
	}
}

// WithOnUpdate registers a function to be called on every observable state
// change.
//
// The callback receives the new [Snapshot]. Multiple callbacks may be
// registered by calling WithOnUpdate multiple times; they execute in
// registration order.
//
// Callbacks are invoked sequentially from a single goroutine owned by the
// controller. They must be non-blocking: long-running work should be
// dispatched to a separate goroutine, and a callback must not call
// [Controller.Stop], which waits for the callback goroutine to exit.
// Panics within callbacks are recovered and logged; they do not crash
// the controller.
//
// Nil callbacks are silently ignored.
func WithOnUpdate[T any](fn func(Snapshot[T])) Option[T] {
	return func(s *settings[T]) error {
		if fn == nil {
			return nil // no-op for nil callback (safe to call)
		}
		s.onUpdate = append(s.onUpdate, fn)
		return nil
	}
}
