package govern

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultReadmitBuffer is added to computed waits so that a caller waking
// exactly at a purge boundary does not re-check before the oldest entry
// has actually left the window.
const DefaultReadmitBuffer = 50 * time.Millisecond

// LimiterConfig bounds admissions to Capacity calls in any trailing
// Window. One config per distinct rate-limited endpoint.
type LimiterConfig struct {
	Capacity int
	Window   time.Duration

	// ReadmitBuffer pads the computed wait before re-checking admission.
	// Zero selects DefaultReadmitBuffer.
	ReadmitBuffer time.Duration
}

// Validate reports whether the config describes a usable limiter.
func (c LimiterConfig) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("limiter capacity must be positive, got %d", c.Capacity)
	}
	if c.Window <= 0 {
		return fmt.Errorf("limiter window must be positive, got %s", c.Window)
	}
	if c.ReadmitBuffer < 0 {
		return fmt.Errorf("readmit buffer must not be negative, got %s", c.ReadmitBuffer)
	}
	return nil
}

// SlidingWindowLimiter admits or delays calls so that no more than
// Capacity calls occur in any trailing Window. It is safe for concurrent
// use; a single instance is shared by every caller targeting the same
// endpoint.
type SlidingWindowLimiter struct {
	capacity int
	window   time.Duration
	buffer   time.Duration
	clock    Clock

	mu    sync.Mutex
	calls []time.Time // admitted-call timestamps, oldest first
}

// LimiterOption customizes limiter construction.
type LimiterOption func(*SlidingWindowLimiter)

// WithClock substitutes the wall clock, for tests.
func WithClock(clock Clock) LimiterOption {
	return func(l *SlidingWindowLimiter) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// NewSlidingWindowLimiter builds a limiter from cfg.
func NewSlidingWindowLimiter(cfg LimiterConfig, opts ...LimiterOption) (*SlidingWindowLimiter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	buffer := cfg.ReadmitBuffer
	if buffer == 0 {
		buffer = DefaultReadmitBuffer
	}

	l := &SlidingWindowLimiter{
		capacity: cfg.Capacity,
		window:   cfg.Window,
		buffer:   buffer,
		clock:    SystemClock(),
		calls:    make([]time.Time, 0, cfg.Capacity),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// Admit blocks until one more call fits inside the trailing window, then
// records the admission and returns. It fails only when ctx is cancelled,
// in which case no admission is recorded.
func (l *SlidingWindowLimiter) Admit(ctx context.Context) error {
	if l == nil {
		return errors.New("limiter is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		wait, admitted := l.tryAdmit()
		if admitted {
			return nil
		}

		if err := l.clock.Sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// tryAdmit purges stale entries and either records an admission or
// returns how long to wait before the oldest entry leaves the window.
// The lock is never held across a sleep.
func (l *SlidingWindowLimiter) tryAdmit() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	l.purge(now)

	if len(l.calls) < l.capacity {
		l.calls = append(l.calls, now)
		return 0, true
	}

	wait := l.window - now.Sub(l.calls[0]) + l.buffer
	return wait, false
}

// purge drops entries older than the trailing window. Caller holds mu.
func (l *SlidingWindowLimiter) purge(now time.Time) {
	cutoff := now.Add(-l.window)
	idx := 0
	for idx < len(l.calls) && !l.calls[idx].After(cutoff) {
		idx++
	}
	if idx > 0 {
		l.calls = append(l.calls[:0], l.calls[idx:]...)
	}
}

// Usage reports how many admissions currently sit inside the trailing
// window, and the configured capacity.
func (l *SlidingWindowLimiter) Usage() (used, capacity int) {
	if l == nil {
		return 0, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.purge(l.clock.Now())
	return len(l.calls), l.capacity
}

// Window returns the configured trailing window duration.
func (l *SlidingWindowLimiter) Window() time.Duration {
	if l == nil {
		return 0
	}
	return l.window
}
