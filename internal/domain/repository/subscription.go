package repository

import (
	"context"
	"sync"
)

// Subscription delivers full snapshots of a query result. Only the newest
// snapshot is buffered: a consumer that falls behind skips straight to the
// current state. The channel is closed when the listener stops.
type Subscription[T any] struct {
	updates chan []T
	done    chan struct{}
	cancel  context.CancelFunc
	once    sync.Once

	mu  sync.Mutex
	err error
}

// Listener runs until ctx is cancelled or the source fails, calling emit
// with every snapshot. emit returns false once the subscription is closed.
type Listener[T any] func(ctx context.Context, emit func([]T) bool) error

// NewSubscription starts the listener in its own goroutine.
func NewSubscription[T any](ctx context.Context, listen Listener[T]) *Subscription[T] {
	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription[T]{
		updates: make(chan []T, 1),
		done:    make(chan struct{}),
		cancel:  cancel,
	}

	go func() {
		defer close(s.done)
		defer close(s.updates)
		defer cancel()

		if err := listen(ctx, func(snapshot []T) bool { return s.emit(ctx, snapshot) }); err != nil && ctx.Err() == nil {
			s.mu.Lock()
			s.err = err
			s.mu.Unlock()
		}
	}()

	return s
}

func (s *Subscription[T]) emit(ctx context.Context, snapshot []T) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case s.updates <- snapshot:
			return true
		default:
		}
		// Replace the pending snapshot with the newer one.
		select {
		case <-s.updates:
		default:
		}
	}
}

// Updates is closed when the subscription ends.
func (s *Subscription[T]) Updates() <-chan []T {
	return s.updates
}

// Done is closed once the listener has returned.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// Err returns the error that stopped the listener, if it was not
// unsubscribed.
func (s *Subscription[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Unsubscribe stops the listener and waits for it to return. Safe to call
// any number of times.
func (s *Subscription[T]) Unsubscribe() {
	s.once.Do(s.cancel)
	<-s.done
}
