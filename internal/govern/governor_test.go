package govern

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestGovernor(t *testing.T, clock Clock, limiterCfg LimiterConfig, policy RetryPolicy) *Governor {
	t.Helper()

	limiter, err := NewSlidingWindowLimiter(limiterCfg, WithClock(clock))
	require.NoError(t, err)

	retrier, err := NewBackoffRetrier(policy, WithRetrierClock(clock))
	require.NoError(t, err)

	return Compose(limiter, retrier)
}

func TestNewGovernorValidatesComponents(t *testing.T) {
	_, err := NewGovernor(
		LimiterConfig{Capacity: 0, Window: time.Minute},
		RetryPolicy{MaxAttempts: 1, InitialDelay: time.Second, BackoffFactor: 2},
	)
	require.Error(t, err)

	_, err = NewGovernor(
		LimiterConfig{Capacity: 1, Window: time.Minute},
		RetryPolicy{MaxAttempts: 1, InitialDelay: 0, BackoffFactor: 2},
	)
	require.Error(t, err)

	g, err := NewGovernor(
		LimiterConfig{Capacity: 1, Window: time.Minute},
		RetryPolicy{MaxAttempts: 1, InitialDelay: time.Second, BackoffFactor: 2},
	)
	require.NoError(t, err)
	require.NotNil(t, g.Limiter())
}

func TestGovernorEveryAttemptPassesTheLimiter(t *testing.T) {
	clock := newFakeClock()
	window := 10 * time.Second
	g := newTestGovernor(t, clock,
		LimiterConfig{Capacity: 1, Window: window, ReadmitBuffer: time.Millisecond},
		RetryPolicy{MaxAttempts: 5, InitialDelay: time.Second, BackoffFactor: 2, Retryable: retryEverything},
	)

	var attemptTimes []time.Time
	err := g.Do(context.Background(), func(context.Context) error {
		attemptTimes = append(attemptTimes, clock.Now())
		if len(attemptTimes) < 3 {
			return errTransient
		}
		return nil
	})
	require.NoError(t, err)
	require.Len(t, attemptTimes, 3)

	// Capacity 1 forces consecutive attempts at least a window apart,
	// retries included.
	for i := 1; i < len(attemptTimes); i++ {
		require.GreaterOrEqual(t, attemptTimes[i].Sub(attemptTimes[i-1]), window)
	}
}

func TestGovernorPropagatesExhaustion(t *testing.T) {
	clock := newFakeClock()
	g := newTestGovernor(t, clock,
		LimiterConfig{Capacity: 10, Window: time.Minute},
		RetryPolicy{MaxAttempts: 2, InitialDelay: time.Second, BackoffFactor: 2, Retryable: retryEverything},
	)

	attempts := 0
	err := g.Do(context.Background(), func(context.Context) error {
		attempts++
		return errTransient
	})

	require.Equal(t, 3, attempts)

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	require.Equal(t, 3, exhausted.Attempts)
}

func TestGovernorCancelledAdmissionIsNotRetried(t *testing.T) {
	g, err := NewGovernor(
		LimiterConfig{Capacity: 1, Window: time.Hour},
		RetryPolicy{MaxAttempts: 5, InitialDelay: time.Second, BackoffFactor: 2, Retryable: retryEverything},
	)
	require.NoError(t, err)

	// Fill the window, then invoke with an expiring context: admission
	// blocks and the cancellation propagates without consuming retries.
	require.NoError(t, g.Limiter().Admit(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	attempts := 0
	err = g.Do(ctx, func(context.Context) error {
		attempts++
		return nil
	})

	require.Equal(t, 0, attempts)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCallReturnsValueOnEventualSuccess(t *testing.T) {
	clock := newFakeClock()
	g := newTestGovernor(t, clock,
		LimiterConfig{Capacity: 10, Window: time.Minute},
		RetryPolicy{MaxAttempts: 3, InitialDelay: time.Second, BackoffFactor: 2, Retryable: retryEverything},
	)

	attempts := 0
	value, err := Call(context.Background(), g, func(context.Context) (string, error) {
		attempts++
		if attempts < 2 {
			return "", errTransient
		}
		return "appraised", nil
	})

	require.NoError(t, err)
	require.Equal(t, "appraised", value)
	require.Equal(t, 2, attempts)
}

func TestCallReturnsZeroValueOnFailure(t *testing.T) {
	clock := newFakeClock()
	fatal := errors.New("unsupported tld")
	g := newTestGovernor(t, clock,
		LimiterConfig{Capacity: 10, Window: time.Minute},
		RetryPolicy{MaxAttempts: 3, InitialDelay: time.Second, BackoffFactor: 2,
			Retryable: func(err error) bool { return errors.Is(err, errTransient) }},
	)

	value, err := Call(context.Background(), g, func(context.Context) (int, error) {
		return 42, fatal
	})

	require.ErrorIs(t, err, fatal)
	require.Zero(t, value)
}
