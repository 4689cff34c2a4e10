package refetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/refetchio/refetch/internal/state"
)

// FetchFunc produces one value of type T, or fails.
//
// The controller invokes it once per polling cycle with a context that is
// cancelled when the request is superseded by a newer one or the controller
// is stopped. Implementations must honour the context by aborting their
// underlying work and returning an error wrapping [context.Canceled];
// cancellation is cooperative, the controller never forcibly terminates an
// in-flight call.
//
// Transport, serialization, and any retry policy are entirely the fetch
// function's concern. [JSONFetchFunc] and [BytesFetchFunc] provide HTTP
// implementations.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Controller coordinates periodic invocation of a fetch function, enforces
// single-flight semantics, and exposes the latest outcome.
//
// A controller owns exactly one in-flight request slot and one repeating
// timer. Issuing a new request, whether from the timer, [Controller.Refetch],
// or the immediate fetch on start, cancels the context of any prior request
// still in flight; a superseded request's eventual resolution never mutates
// observable state, regardless of when it arrives.
//
// The typical lifecycle is:
//
//	c, err := refetch.New(fn, refetch.WithInterval[Payload](10*time.Second))
//	if err != nil {
//	    slog.Error("failed to create controller", "error", err)
//	    os.Exit(1)
//	}
//
//	c.Start(ctx)
//	defer c.Stop()
//
//	snap := c.Snapshot() // or range over c.Updates()
//
// All methods are safe for concurrent use.
type Controller[T any] struct {
	fetch     FetchFunc[T]
	interval  time.Duration
	immediate bool
	logger    *slog.Logger
	onUpdate  []func(Snapshot[T])
	state     *state.Store[Snapshot[T]]
	kick      chan struct{}

	mu        sync.Mutex
	started   bool
	stopped   bool
	gen       uint64 // identity of the active request; 0 means none issued yet
	cancel    context.CancelFunc
	runCtx    context.Context
	runCancel context.CancelFunc
	updateCh  <-chan Snapshot[T]
	wg        sync.WaitGroup
}

// New creates a [Controller] that polls fn.
//
// Defaults: 5 second interval, immediate first fetch, [slog.Default] for
// logging. The controller does nothing until [Controller.Start] is called.
//
// Returns [ErrNilFetch] if fn is nil, or an error if any option is invalid.
func New[T any](fn FetchFunc[T], opts ...Option[T]) (*Controller[T], error) {
	if fn == nil {
		return nil, ErrNilFetch
	}

	cfg := &settings[T]{
		interval:  defaultInterval,
		immediate: true,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Controller[T]{
		fetch:     fn,
		interval:  cfg.interval,
		immediate: cfg.immediate,
		logger:    logger,
		onUpdate:  cfg.onUpdate,
		state:     state.New(Snapshot[T]{}),
		kick:      make(chan struct{}, 1),
	}, nil
}

// Start begins polling in a background goroutine.
//
// Start is non-blocking and returns immediately. The controller will:
//  1. Fetch once immediately (unless disabled via [WithImmediate])
//  2. Issue a new request every interval, superseding any still in flight
//  3. Continue until [Controller.Stop] is called or ctx is cancelled
//
// If ctx is nil, context.Background() is used as the parent context.
// Start is idempotent; subsequent calls after the first are no-ops.
// If Stop was called before Start, Start is a no-op.
func (c *Controller[T]) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started || c.stopped {
		return
	}
	c.started = true

	if ctx == nil {
		ctx = context.Background()
	}
	c.runCtx, c.runCancel = context.WithCancel(ctx)
	runCtx := c.runCtx // capture under lock to avoid race

	if len(c.onUpdate) > 0 {
		c.updateCh = c.state.Subscribe()
		c.wg.Add(1)
		go c.consumeUpdates(c.updateCh)
	}

	c.wg.Add(1)
	go c.run(runCtx)
}

// Refetch issues an immediate fetch, superseding any request in flight,
// and restarts the interval so the next automatic fetch is one full
// interval from now.
//
// Callable any number of times; each call supersedes the previous in-flight
// request, and only the newest request's resolution is observable. Refetch
// before Start or after Stop is a safe no-op.
func (c *Controller[T]) Refetch() {
	c.mu.Lock()
	if !c.started || c.stopped {
		c.mu.Unlock()
		return
	}
	runCtx := c.runCtx
	c.mu.Unlock()

	c.issue(runCtx)

	// wake the run loop to restart its period; coalescing is fine since
	// back-to-back refetches all want the same rearm
	select {
	case c.kick <- struct{}{}:
	default:
	}
}

// Stop disarms the timer and cancels the in-flight request's context.
//
// No further requests fire after Stop, and a request still in flight when
// Stop is called can no longer mutate observable state whenever it
// eventually resolves. Cancellation of the in-flight fetch is cooperative:
// Stop signals it and waits for the controller's own goroutines, but does
// not wait for a fetch function that ignores its context.
//
// Stop is idempotent and safe to call multiple times. Calling Stop before
// Start is a safe no-op.
func (c *Controller[T]) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		c.wg.Wait()
		return
	}
	c.stopped = true
	if c.runCancel != nil {
		c.runCancel() // cancels the run loop and the in-flight request
	}
	updateCh := c.updateCh
	c.updateCh = nil
	c.mu.Unlock()

	if updateCh != nil {
		c.state.Unsubscribe(updateCh)
	}
	c.wg.Wait()
}

// Snapshot returns the current observable state.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	return c.state.Get()
}

// Updates returns a channel that receives a [Snapshot] on every observable
// state change.
//
// The channel is buffered; slow consumers may miss intermediate snapshots
// but the latest state is always available via [Controller.Snapshot].
// Caller must call [Controller.Unsubscribe] when done to prevent resource
// leaks.
func (c *Controller[T]) Updates() <-chan Snapshot[T] {
	return c.state.Subscribe()
}

// Unsubscribe removes a subscription created by [Controller.Updates] and
// closes its channel. Safe to call with a channel that was already
// unsubscribed.
func (c *Controller[T]) Unsubscribe(ch <-chan Snapshot[T]) {
	c.state.Unsubscribe(ch)
}

// run is the polling loop. Each elapsed interval issues a request
// unconditionally; overlap with a slow fetch is resolved by supersession,
// not by skipping cycles. A kick from Refetch restarts the period.
func (c *Controller[T]) run(ctx context.Context) {
	defer c.wg.Done()

	if c.immediate {
		c.issue(ctx)
	}

	t := time.NewTimer(c.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.issue(ctx)
			t.Reset(c.interval)
		case <-c.kick:
			// Refetch already issued the request; only the period restarts
			stopAndDrainTimer(t)
			t.Reset(c.interval)
		}
	}
}

// issue starts a new request, superseding any in flight. It cancels the
// prior request's context before the new request begins, so "new request
// starts" strictly happens after "old request's cancellation is signalled".
func (c *Controller[T]) issue(parent context.Context) {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}

	if c.cancel != nil {
		c.cancel() // supersede: the prior request's resolution is ignored
	}
	c.gen++
	gen := c.gen
	reqCtx, cancel := context.WithCancel(parent)
	c.cancel = cancel
	id := uuid.NewString()

	c.state.Update(func(s Snapshot[T]) Snapshot[T] {
		s.Loading = true
		s.Err = nil
		return s
	})
	c.mu.Unlock()

	c.logger.Debug("fetch issued", "request_id", id, "generation", gen)

	go func() {
		defer cancel()
		value, err := c.invoke(reqCtx, id)
		c.settle(gen, id, value, err)
	}()
}

// invoke calls the fetch function with panic recovery.
//
// A panicking fetch is logged with a correlation ID and full stack trace,
// then reported as errFetchPanic so settle can clear Loading without
// surfacing an error to observers.
func (c *Controller[T]) invoke(ctx context.Context, id string) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("fetch function panic",
				"request_id", id,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			err = errFetchPanic
		}
	}()
	return c.fetch(ctx)
}

// settle applies a resolved request's outcome to observable state, but only
// if the request is still the active one. Resolutions from superseded
// requests and resolutions arriving after Stop are discarded entirely, so
// an older request can never overwrite a newer result.
func (c *Controller[T]) settle(gen uint64, id string, value T, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped || gen != c.gen {
		c.logger.Debug("fetch superseded", "request_id", id, "generation", gen)
		return
	}

	now := time.Now()
	switch {
	case errors.Is(err, errFetchPanic):
		// panic already logged by invoke; not reportable as an error
		c.state.Update(func(s Snapshot[T]) Snapshot[T] {
			s.Loading = false
			return s
		})
	case errors.Is(err, context.Canceled):
		// expected teardown or parent cancellation, never a user-facing error
		c.logger.Debug("fetch cancelled", "request_id", id)
		c.state.Update(func(s Snapshot[T]) Snapshot[T] {
			s.Loading = false
			return s
		})
	case err != nil:
		c.logger.Warn("fetch failed", "request_id", id, "error", err.Error())
		c.state.Update(func(s Snapshot[T]) Snapshot[T] {
			s.Data = nil
			s.Err = err
			s.Loading = false
			s.CheckedAt = now
			s.RequestID = id
			return s
		})
	default:
		c.logger.Debug("fetch completed", "request_id", id)
		c.state.Update(func(s Snapshot[T]) Snapshot[T] {
			s.Data = &value
			s.Err = nil
			s.Loading = false
			s.CheckedAt = now
			s.RequestID = id
			return s
		})
	}
}

// consumeUpdates feeds registered callbacks from a store subscription.
// It exits when the subscription channel is closed by Stop.
func (c *Controller[T]) consumeUpdates(ch <-chan Snapshot[T]) {
	defer c.wg.Done()
	for snap := range ch {
		for _, cb := range c.onUpdate {
			c.invokeCallbackSafe(cb, snap)
		}
	}
}

// invokeCallbackSafe calls an update callback with panic recovery.
// Panics are logged but do not propagate.
func (c *Controller[T]) invokeCallbackSafe(cb func(Snapshot[T]), snap Snapshot[T]) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("update callback panicked", "panic", r)
		}
	}()
	cb(snap)
}
