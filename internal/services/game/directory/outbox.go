package directory

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrOutboxClosed is returned when sending to a closed outbox.
	ErrOutboxClosed = errors.New("outbox closed")
	// ErrSendTimeout is returned when a full outbox does not drain in time.
	ErrSendTimeout = errors.New("outbox send timed out")
)

// Outbox is a bounded push channel to one stream consumer. The channel is
// never closed; consumers select on Updates and Done.
type Outbox[T any] struct {
	ch   chan T
	done chan struct{}
	once sync.Once
}

// NewOutbox returns an outbox buffering up to size values.
func NewOutbox[T any](size int) *Outbox[T] {
	if size < 1 {
		size = 1
	}
	return &Outbox[T]{
		ch:   make(chan T, size),
		done: make(chan struct{}),
	}
}

// Updates returns the receive side.
func (o *Outbox[T]) Updates() <-chan T { return o.ch }

// Done is closed once the outbox is closed.
func (o *Outbox[T]) Done() <-chan struct{} { return o.done }

// Close marks the consumer gone. It is safe to call more than once.
func (o *Outbox[T]) Close() {
	o.once.Do(func() { close(o.done) })
}

// Closed reports whether Close has been called.
func (o *Outbox[T]) Closed() bool {
	select {
	case <-o.done:
		return true
	default:
		return false
	}
}

// Send delivers v, waiting at most timeout for buffer space. A timeout of
// zero waits until ctx ends.
func (o *Outbox[T]) Send(ctx context.Context, v T, timeout time.Duration) error {
	if o.Closed() {
		return ErrOutboxClosed
	}
	select {
	case o.ch <- v:
		return nil
	default:
	}

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}
	select {
	case o.ch <- v:
		return nil
	case <-o.done:
		return ErrOutboxClosed
	case <-ctx.Done():
		return ctx.Err()
	case <-expired:
		return ErrSendTimeout
	}
}
