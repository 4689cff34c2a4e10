package state

import "sync"

// subscriberBuffer is the channel buffer size for each subscription.
// Slow consumers that fall more than this far behind miss updates.
const subscriberBuffer = 16

// Store is a thread-safe observable slot holding a single value of type S.
//
// Store combines a mutex-guarded current value with a publish-subscribe
// mechanism: every update is fanned out to all subscribers via buffered
// channels. Sends are non-blocking; if a subscriber's buffer is full the
// update is dropped for that subscriber rather than blocking the writer.
//
// The controller serialises its calls to [Store.Update], so subscribers
// observe state transitions in the order they were applied.
type Store[S any] struct {
	mu    sync.RWMutex
	value S

	subMu       sync.RWMutex
	subscribers map[chan S]struct{}
}

// New creates a [Store] holding the given initial value.
//
// The store is immediately ready for use. No cleanup is required when done,
// though subscribers should be unsubscribed to release their channels.
func New[S any](initial S) *Store[S] {
	return &Store[S]{
		value:       initial,
		subscribers: make(map[chan S]struct{}),
	}
}

// Get returns the current value.
func (s *Store[S]) Get() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Update applies fn to the current value, stores the result, and notifies
// all subscribers of the new value. It returns the new value.
//
// fn runs while the store's lock is held and must not call back into the
// store.
func (s *Store[S]) Update(fn func(S) S) S {
	s.mu.Lock()
	s.value = fn(s.value)
	next := s.value
	s.mu.Unlock()

	s.notifySubscribers(next)
	return next
}

// Subscribe creates a new subscription and returns a channel that receives
// every subsequent value stored by [Store.Update].
//
// The returned channel is buffered; if the buffer fills (slow consumer),
// updates are dropped for this subscriber.
//
// Caller must call [Store.Unsubscribe] when done to prevent resource leaks.
func (s *Store[S]) Subscribe() <-chan S {
	ch := make(chan S, subscriberBuffer)

	s.subMu.Lock()
	s.subscribers[ch] = struct{}{}
	s.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
//
// After calling Unsubscribe, the channel will be closed and no further
// values will be sent. Safe to call multiple times or with an unknown channel.
func (s *Store[S]) Unsubscribe(ch <-chan S) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for subCh := range s.subscribers {
		if subCh == ch {
			delete(s.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// notifySubscribers sends the value to all active subscribers.
//
// This is non-blocking: if a subscriber's channel buffer is full, the value
// is dropped for that subscriber rather than blocking the update path.
func (s *Store[S]) notifySubscribers(value S) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()

	for ch := range s.subscribers {
		select {
		case ch <- value:
		default:
			// subscriber is slow, drop the value
		}
	}
}
