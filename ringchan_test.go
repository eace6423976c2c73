package ringchan

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

// Basic sanity: sequential send/receive with ints (single P, single C).
func TestSPMCSequential(t *testing.T) {
	const (
		capacity = 1024
		N        = 100_000
	)

	tx, rx := MustBounded[int](capacity)

	// Send N items, only capacity-1 fit
	for i := 0; i < N; i++ {
		ok := tx.TrySend(i)
		if i < capacity-1 {
			if !ok {
				t.Fatalf("send failed at %d (channel unexpectedly full)", i)
			}
		} else if ok {
			t.Fatalf("send succeeded at %d (channel unexpectedly not full)", i)
		}
	}

	// Receive N items
	for i := 0; i < N; i++ {
		v, ok := rx.TryRecv()
		if i < capacity-1 {
			if !ok {
				t.Fatalf("receive failed at %d (channel unexpectedly empty)", i)
			}
			if v != i {
				t.Fatalf("expected %d, got %d (FIFO violated)", i, v)
			}
		} else if ok {
			t.Fatalf("receive succeeded at %d (channel unexpectedly not empty)", i)
		}
	}

	if v, ok := rx.TryRecv(); ok {
		t.Fatalf("expected empty channel at the end, got value=%v", v)
	}
}

// Cursors wrap many times over a small ring.
func TestSPMCWrapAround(t *testing.T) {
	const (
		capacity = 3
		N        = 10_000
	)

	tx, rx := MustBounded[int](capacity)

	sent, next := 0, 0
	for next < N {
		for sent < N && tx.TrySend(sent) {
			sent++
		}
		if n := sent - next; n > capacity-1 {
			t.Fatalf("%d values buffered, capacity allows %d", n, capacity-1)
		}
		for {
			v, ok := rx.TryRecv()
			if !ok {
				break
			}
			if v != next {
				t.Fatalf("expected %d, got %d (FIFO violated)", next, v)
			}
			next++
		}
	}
	if next != N {
		t.Fatalf("received %d values, expected %d", next, N)
	}
}

// Concurrent test: single producer, many cloned consumers.
// Checks that all values [0..N) are received exactly once.
func TestSPMCConcurrentConsumers(t *testing.T) {
	const (
		capacity  = 1 << 10
		N         = 200_000
		consumers = 8
	)

	tx, rx := MustBounded[int](capacity)

	// seen[i] == how many times we saw value i
	seen := make([]int32, N)
	var received atomic.Int64

	var wg sync.WaitGroup
	wg.Add(consumers)
	for c := 0; c < consumers; c++ {
		go func(rx *Receiver[int]) {
			defer wg.Done()
			for received.Load() < N {
				v, ok := rx.TryRecv()
				if !ok {
					runtime.Gosched()
					continue
				}
				if v < 0 || v >= N {
					t.Errorf("consumer: out-of-range value %d", v)
					continue
				}
				atomic.AddInt32(&seen[v], 1)
				received.Add(1)
			}
		}(rx.Clone())
	}

	for i := 0; i < N; i++ {
		tx.Send(i)
	}

	wg.Wait()

	for i := 0; i < N; i++ {
		if seen[i] != 1 {
			t.Fatalf("value %d seen %d times (expected 1)", i, seen[i])
		}
	}
	if tx.Len() != 0 {
		t.Fatalf("expected drained channel, len=%d", tx.Len())
	}
}

// A consumer that has claimed a slot but not yet taken its value must keep
// the producer off that slot, even after other consumers moved past it.
func TestSPMCStalledConsumerBlocksSlotReuse(t *testing.T) {
	tx, rx := MustBounded[string](3)
	r := tx.r

	if !tx.TrySend("a") || !tx.TrySend("b") {
		t.Fatalf("initial sends failed")
	}

	// claim position 0 without taking the value
	if !r.read.CompareAndSwap(0, 1) {
		t.Fatalf("claim of position 0 failed")
	}

	if v, ok := rx.TryRecv(); !ok || v != "b" {
		t.Fatalf("expected b, got %q (ok=%v)", v, ok)
	}

	if !tx.TrySend("c") {
		t.Fatalf("send into free slot 2 failed")
	}
	// position 3 maps to slot 0, still held by the stalled claim
	if tx.TrySend("d") {
		t.Fatalf("producer overwrote a claimed slot")
	}

	s := &r.slots[0]
	if s.data != "a" {
		t.Fatalf("claimed slot lost its value: %q", s.data)
	}
	s.data = ""
	s.dataReady.Store(false)

	if !tx.TrySend("d") {
		t.Fatalf("send failed after the stalled claim completed")
	}
	for _, want := range []string{"c", "d"} {
		if v, ok := rx.TryRecv(); !ok || v != want {
			t.Fatalf("expected %q, got %q (ok=%v)", want, v, ok)
		}
	}
}

// Benchmark: single producer, single consumer.
func BenchmarkSPMC_1P1C(b *testing.B) {
	const capacity = 1 << 16
	tx, rx := MustBounded[int](capacity)

	done := make(chan struct{})

	go func() {
		for i := 0; i < b.N; i++ {
			rx.Recv()
		}
		close(done)
	}()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tx.Send(i)
	}
	<-done
	b.StopTimer()
}

// Benchmark: single producer, many consumers.
func BenchmarkSPMC_1PMC(b *testing.B) {
	const (
		capacity  = 1 << 16
		consumers = 8
	)

	tx, rx := MustBounded[int](capacity)
	perConsumer := b.N / consumers

	var wg sync.WaitGroup
	wg.Add(consumers)
	for c := 0; c < consumers; c++ {
		go func(rx *Receiver[int]) {
			defer wg.Done()
			for i := 0; i < perConsumer; i++ {
				rx.Recv()
			}
		}(rx.Clone())
	}

	b.ResetTimer()
	for i := 0; i < perConsumer*consumers; i++ {
		tx.Send(i)
	}
	wg.Wait()
	b.StopTimer()
}
