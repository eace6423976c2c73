package ringchan

import (
	"fmt"
	"time"
)

// WaitStrategy selects how Send and Recv pause between failed attempts.
type WaitStrategy int

const (
	// WaitYield calls runtime.Gosched after every failed attempt.
	WaitYield WaitStrategy = iota

	// WaitSpin retries immediately and only yields every spin budget misses.
	// Lowest latency, highest CPU use.
	WaitSpin

	// WaitBackoff sleeps between attempts, doubling a jittered delay from the
	// configured minimum up to the maximum. Trades latency for idle CPU.
	WaitBackoff
)

func (s WaitStrategy) String() string {
	switch s {
	case WaitYield:
		return "yield"
	case WaitSpin:
		return "spin"
	case WaitBackoff:
		return "backoff"
	default:
		return fmt.Sprintf("WaitStrategy(%d)", int(s))
	}
}

const (
	defaultSpinBudget = 64 // misses between runtime.Gosched calls for WaitSpin
	defaultBackoffMin = time.Microsecond
	defaultBackoffMax = time.Millisecond
)

// options holds the configuration shared by every handle of one channel.
type options struct {
	strategy   WaitStrategy
	spinBudget uint64
	backoffMin time.Duration
	backoffMax time.Duration
	stats      bool
}

// Option configures a channel created by Bounded.
type Option interface {
	apply(*options) error
}

type optionFunc func(*options) error

func (f optionFunc) apply(opts *options) error {
	return f(opts)
}

// WithWaitStrategy sets the pause used by the blocking operations.
// The default is WaitYield.
func WithWaitStrategy(strategy WaitStrategy) Option {
	return optionFunc(func(opts *options) error {
		switch strategy {
		case WaitYield, WaitSpin, WaitBackoff:
			opts.strategy = strategy
			return nil
		default:
			return fmt.Errorf("%w: unknown wait strategy %v", ErrInvalidOption, strategy)
		}
	})
}

// WithSpinBudget sets how many consecutive misses WaitSpin tolerates before
// yielding the processor.
func WithSpinBudget(n int) Option {
	return optionFunc(func(opts *options) error {
		if n < 1 {
			return fmt.Errorf("%w: spin budget %d must be positive", ErrInvalidOption, n)
		}
		opts.spinBudget = uint64(n)
		return nil
	})
}

// WithBackoff sets the sleep bounds for WaitBackoff.
func WithBackoff(minDelay, maxDelay time.Duration) Option {
	return optionFunc(func(opts *options) error {
		if minDelay <= 0 || maxDelay < minDelay {
			return fmt.Errorf("%w: backoff bounds [%v, %v]", ErrInvalidOption, minDelay, maxDelay)
		}
		opts.backoffMin = minDelay
		opts.backoffMax = maxDelay
		return nil
	})
}

// WithStats enables the counters returned by Stats. Disabled channels pay
// nothing for them.
func WithStats(enabled bool) Option {
	return optionFunc(func(opts *options) error {
		opts.stats = enabled
		return nil
	})
}

func resolveOptions(opts []Option) (*options, error) {
	cfg := &options{
		strategy:   WaitYield,
		spinBudget: defaultSpinBudget,
		backoffMin: defaultBackoffMin,
		backoffMax: defaultBackoffMax,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
