package ringchan

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// slot is one storage cell. dataReady is set by the producer after data is
// written and cleared by the consumer that claimed the slot once data has
// been taken.
type slot[T any] struct {
	dataReady atomic.Bool
	data      T
}

// ring is the storage and cursor pair shared by the Sender and every
// Receiver of one channel.
//
// write and read are monotonic positions; the slot index is pos % capacity.
// Invariants: read <= write and write-read <= capacity-1, so one slot is
// always left empty and "full" never looks like "empty".
type ring[T any] struct {
	_        cpu.CacheLinePad
	capacity uint64
	slots    []slot[T]
	cfg      *options
	stats    *counters
	_        cpu.CacheLinePad
	write    atomic.Uint64 // stored only by the producer
	_        cpu.CacheLinePad
	read     atomic.Uint64 // advanced only by CompareAndSwap
	_        cpu.CacheLinePad
}

func newRing[T any](capacity uint64, cfg *options) *ring[T] {
	r := &ring[T]{
		capacity: capacity,
		slots:    make([]slot[T], capacity),
		cfg:      cfg,
	}
	if cfg.stats {
		r.stats = new(counters)
	}
	return r
}

func (r *ring[T]) push(v T) bool {
	r.stats.add(sendAttempts)

	pos := r.write.Load()
	if pos-r.read.Load() >= r.capacity-1 {
		r.stats.add(sendFull)
		return false
	}

	s := &r.slots[pos%r.capacity]
	if s.dataReady.Load() {
		// claimed a lap ago, the consumer has not taken the value out yet
		r.stats.add(sendFull)
		return false
	}

	s.data = v
	s.dataReady.Store(true)
	// publish: a consumer that observes pos+1 also observes data
	r.write.Store(pos + 1)
	return true
}

func (r *ring[T]) pop() (T, bool) {
	r.stats.add(recvAttempts)

	var zero T
	for {
		pos := r.read.Load()
		if pos == r.write.Load() {
			r.stats.add(recvEmpty)
			return zero, false
		}

		if !r.read.CompareAndSwap(pos, pos+1) {
			// another consumer claimed pos
			r.stats.add(recvContended)
			continue
		}

		s := &r.slots[pos%r.capacity]
		v := s.data
		s.data = zero
		s.dataReady.Store(false)
		return v, true
	}
}

func (r *ring[T]) len() int {
	// read is loaded before write; both only grow, so the difference cannot underflow
	read := r.read.Load()
	n := r.write.Load() - read
	if n > r.capacity-1 {
		n = r.capacity - 1
	}
	return int(n)
}
