package ringchan

import (
	"context"
	"math"
	"runtime"
	"time"

	"github.com/valyala/fastrand"
)

// waiter carries the pause state of one blocking call.
type waiter struct {
	cfg    *options
	stats  *counters
	misses uint64
	delay  time.Duration
}

func newWaiter(cfg *options, stats *counters) waiter {
	return waiter{cfg: cfg, stats: stats}
}

// pause waits before the next attempt. It returns ctx.Err() if ctx is done
// before or during the pause.
func (w *waiter) pause(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.stats.add(waits)

	switch w.cfg.strategy {
	case WaitSpin:
		w.misses++
		if w.misses%w.cfg.spinBudget == 0 {
			runtime.Gosched()
		}
		return nil

	case WaitBackoff:
		return w.sleep(ctx, w.nextDelay())

	default:
		runtime.Gosched()
		return nil
	}
}

// nextDelay doubles the backoff up to backoffMax and returns a value in
// [delay/2, delay] to keep competing consumers from waking in lockstep.
func (w *waiter) nextDelay() time.Duration {
	switch {
	case w.delay == 0:
		w.delay = w.cfg.backoffMin
	case w.delay > w.cfg.backoffMax/2:
		w.delay = w.cfg.backoffMax
	default:
		w.delay *= 2
	}

	half := w.delay / 2
	jitter := int64(w.delay - half)
	if jitter > math.MaxUint32 {
		jitter = math.MaxUint32
	}
	if jitter > 0 {
		half += time.Duration(fastrand.Uint32n(uint32(jitter)))
	}
	return half
}

func (w *waiter) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		runtime.Gosched()
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
