package govern

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RetryPolicy bounds the retrier. MaxAttempts counts additional tries
// beyond the first, so total tries = MaxAttempts+1.
type RetryPolicy struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	BackoffFactor float64

	// Retryable classifies failures worth retrying. Nil treats every
	// failure as fatal.
	Retryable func(error) bool
}

// Validate reports whether the policy is usable.
func (p RetryPolicy) Validate() error {
	if p.MaxAttempts < 0 {
		return fmt.Errorf("max attempts must not be negative, got %d", p.MaxAttempts)
	}
	if p.InitialDelay <= 0 {
		return fmt.Errorf("initial delay must be positive, got %s", p.InitialDelay)
	}
	if p.BackoffFactor < 1 {
		return fmt.Errorf("backoff factor must be at least 1, got %g", p.BackoffFactor)
	}
	return nil
}

// ExhaustedError reports that the retry bound was reached. It wraps the
// last transient failure so callers can distinguish "gave up" from
// "never worked".
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// BackoffRetrier re-attempts a unit of work on classified-retryable
// failure with geometrically increasing delay.
type BackoffRetrier struct {
	policy RetryPolicy
	clock  Clock
}

// RetrierOption customizes retrier construction.
type RetrierOption func(*BackoffRetrier)

// WithRetrierClock substitutes the wall clock, for tests.
func WithRetrierClock(clock Clock) RetrierOption {
	return func(r *BackoffRetrier) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// NewBackoffRetrier builds a retrier from policy.
func NewBackoffRetrier(policy RetryPolicy, opts ...RetrierOption) (*BackoffRetrier, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	r := &BackoffRetrier{
		policy: policy,
		clock:  SystemClock(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Run executes op, retrying on retryable failure up to the policy bound.
// Success at any attempt returns immediately. A non-retryable failure
// propagates with no delay consumed; exhausting the bound returns an
// *ExhaustedError wrapping the last failure.
func (r *BackoffRetrier) Run(ctx context.Context, op func(context.Context) error) error {
	if r == nil {
		return errors.New("retrier is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	delay := r.policy.InitialDelay

	for attempt := 0; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}

		// Cancellation is terminal regardless of classification.
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		if r.policy.Retryable == nil || !r.policy.Retryable(err) {
			return err
		}

		if attempt >= r.policy.MaxAttempts {
			return &ExhaustedError{Attempts: attempt + 1, Last: err}
		}

		if sleepErr := r.clock.Sleep(ctx, delay); sleepErr != nil {
			return sleepErr
		}
		delay = time.Duration(float64(delay) * r.policy.BackoffFactor)
	}
}
