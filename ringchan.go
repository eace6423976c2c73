// Package ringchan implements a bounded, lock-free, single-producer
// multi-consumer channel on top of a ring buffer.
//
// A channel has one Sender and any number of Receivers obtained with
// Receiver.Clone. Receivers compete for items through a compare-and-swap on a
// shared read cursor, so every sent value is received exactly once. Blocking
// operations never park in the kernel: they poll, pausing between attempts
// according to the configured WaitStrategy.
//
// There is no close operation. A Recv with no live Sender, or a Send with no
// live Receiver on a full ring, waits forever; use the Context variants to
// bound the wait.
package ringchan

import (
	"context"
	"fmt"
)

// Bounded creates a channel backed by capacity slots. One slot is always kept
// free, so at most capacity-1 values are buffered at a time.
func Bounded[T any](capacity int, opts ...Option) (*Sender[T], *Receiver[T], error) {
	if capacity < 2 {
		return nil, nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, nil, err
	}

	r := newRing[T](uint64(capacity), cfg)
	return &Sender[T]{r: r}, &Receiver[T]{r: r}, nil
}

// MustBounded is like Bounded but panics on error.
func MustBounded[T any](capacity int, opts ...Option) (*Sender[T], *Receiver[T]) {
	s, r, err := Bounded[T](capacity, opts...)
	if err != nil {
		panic(err)
	}
	return s, r
}

// Sender is the producing end of a channel.
// IMPORTANT: a Sender must be used by a single goroutine at a time.
type Sender[T any] struct {
	r *ring[T]
}

// TrySend stores v and returns true, or returns false without side effects
// if the channel is full. On false the caller still owns v and may retry.
func (s *Sender[T]) TrySend(v T) bool {
	return s.r.push(v)
}

// Send stores v, waiting for a free slot if the channel is full.
func (s *Sender[T]) Send(v T) {
	_ = s.SendContext(context.Background(), v)
}

// SendContext is like Send but gives up once ctx is done, returning ctx.Err().
// The value was not sent if an error is returned.
func (s *Sender[T]) SendContext(ctx context.Context, v T) error {
	w := newWaiter(s.r.cfg, s.r.stats)
	for !s.r.push(v) {
		if err := w.pause(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of buffered values at the time of the call.
func (s *Sender[T]) Len() int { return s.r.len() }

// Cap returns the maximum number of values the channel can buffer.
func (s *Sender[T]) Cap() int { return int(s.r.capacity - 1) }

// Stats returns the channel counters, see WithStats.
func (s *Sender[T]) Stats() Stats { return s.r.stats.snapshot() }

// Receiver is a consuming end of a channel. Receivers may be used from any
// number of goroutines, and Clone creates additional handles on the same
// channel.
type Receiver[T any] struct {
	r *ring[T]
}

// Clone returns a new Receiver competing for values of the same channel.
func (c *Receiver[T]) Clone() *Receiver[T] {
	return &Receiver[T]{r: c.r}
}

// TryRecv claims the oldest buffered value. It returns (zero, false) if the
// channel is empty.
func (c *Receiver[T]) TryRecv() (T, bool) {
	return c.r.pop()
}

// Recv returns the oldest buffered value, waiting until one is available.
func (c *Receiver[T]) Recv() T {
	v, _ := c.RecvContext(context.Background())
	return v
}

// RecvContext is like Recv but gives up once ctx is done, returning the zero
// value and ctx.Err().
func (c *Receiver[T]) RecvContext(ctx context.Context) (T, error) {
	w := newWaiter(c.r.cfg, c.r.stats)
	for {
		if v, ok := c.r.pop(); ok {
			return v, nil
		}
		if err := w.pause(ctx); err != nil {
			var zero T
			return zero, err
		}
	}
}

// Len returns the number of buffered values at the time of the call.
func (c *Receiver[T]) Len() int { return c.r.len() }

// Cap returns the maximum number of values the channel can buffer.
func (c *Receiver[T]) Cap() int { return int(c.r.capacity - 1) }

// Stats returns the channel counters, see WithStats.
func (c *Receiver[T]) Stats() Stats { return c.r.stats.snapshot() }
