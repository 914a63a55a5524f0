package govern

import (
	"context"
	"errors"
)

// Governor composes a limiter and a retrier around a unit of work. The
// limiter sits inside the retry loop: every attempt, including retries,
// must separately pass admission, so a retry storm cannot exceed the
// endpoint quota. A Governor holds no state of its own and is safe for
// concurrent use.
type Governor struct {
	limiter *SlidingWindowLimiter
	retrier *BackoffRetrier
}

// NewGovernor builds a governor for one endpoint.
func NewGovernor(limiterCfg LimiterConfig, policy RetryPolicy) (*Governor, error) {
	limiter, err := NewSlidingWindowLimiter(limiterCfg)
	if err != nil {
		return nil, err
	}

	retrier, err := NewBackoffRetrier(policy)
	if err != nil {
		return nil, err
	}

	return &Governor{limiter: limiter, retrier: retrier}, nil
}

// Compose wires an already-constructed limiter and retrier, letting
// callers inject clocks or share components.
func Compose(limiter *SlidingWindowLimiter, retrier *BackoffRetrier) *Governor {
	return &Governor{limiter: limiter, retrier: retrier}
}

// Do invokes op under admission control and retry.
func (g *Governor) Do(ctx context.Context, op func(context.Context) error) error {
	if g == nil {
		return errors.New("governor is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	return g.retrier.Run(ctx, func(ctx context.Context) error {
		if err := g.limiter.Admit(ctx); err != nil {
			return err
		}
		return op(ctx)
	})
}

// Limiter exposes the owned limiter for usage reporting.
func (g *Governor) Limiter() *SlidingWindowLimiter {
	if g == nil {
		return nil
	}
	return g.limiter
}

// Call invokes a value-returning operation through g. On terminal failure
// the zero value is returned alongside the propagated error.
func Call[T any](ctx context.Context, g *Governor, op func(context.Context) (T, error)) (T, error) {
	var result T

	err := g.Do(ctx, func(ctx context.Context) error {
		value, opErr := op(ctx)
		if opErr != nil {
			return opErr
		}
		result = value
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}
