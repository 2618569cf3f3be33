package retry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Goden-Gun/diary-client/pkg/apierr"
)

type fakeSleeper struct {
	sleeps []time.Duration
}

func (s *fakeSleeper) option() Option {
	return func(p *Policy) {
		p.sleep = func(ctx context.Context, d time.Duration) error {
			s.sleeps = append(s.sleeps, d)
			return ctx.Err()
		}
	}
}

func networkErr(n int) error {
	return &apierr.TransportError{Method: http.MethodGet, URL: "http://localhost:8000/api/diaries/", Err: fmt.Errorf("attempt %d: %w", n, syscall.ECONNREFUSED)}
}

func validationErr() error {
	return &apierr.ResponseError{Method: http.MethodPost, URL: "u", StatusCode: 400,
		Body: []byte(`{"success": false, "error": "title required", "code": "VALIDATION_ERROR"}`)}
}

func TestDoSuccessFirstAttempt(t *testing.T) {
	sleeper := &fakeSleeper{}
	calls := 0
	got, err := Do(context.Background(), func(context.Context) (string, error) {
		calls++
		return "diaries", nil
	}, sleeper.option())

	require.NoError(t, err)
	require.Equal(t, "diaries", got)
	require.Equal(t, 1, calls)
	require.Empty(t, sleeper.sleeps)
}

func TestDoExhaustsAttempts(t *testing.T) {
	sleeper := &fakeSleeper{}
	calls := 0
	var last error
	_, err := Do(context.Background(), func(context.Context) (int, error) {
		calls++
		last = networkErr(calls)
		return 0, last
	}, WithMaxAttempts(3), WithBaseDelay(10*time.Millisecond), sleeper.option())

	require.Error(t, err)
	require.Equal(t, 3, calls)
	require.Same(t, last, err)
	require.Contains(t, err.Error(), "attempt 3")
	require.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, sleeper.sleeps)
}

func TestDoExhaustsWithRealTimers(t *testing.T) {
	calls := 0
	start := time.Now()
	err := DoErr(context.Background(), func(context.Context) error {
		calls++
		return networkErr(calls)
	}, WithMaxAttempts(3), WithBaseDelay(10*time.Millisecond))

	require.Error(t, err)
	require.Equal(t, 3, calls)
	require.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestDoNonRetryableShortCircuits(t *testing.T) {
	sleeper := &fakeSleeper{}
	calls := 0
	want := validationErr()
	start := time.Now()
	err := DoErr(context.Background(), func(context.Context) error {
		calls++
		return want
	}, WithMaxAttempts(5), sleeper.option())

	require.Same(t, want, err)
	require.Equal(t, 1, calls)
	require.Less(t, time.Since(start), 500*time.Millisecond)
	require.Empty(t, sleeper.sleeps)
}

func TestDoExponentialGrowth(t *testing.T) {
	sleeper := &fakeSleeper{}
	_ = DoErr(context.Background(), func(context.Context) error {
		return networkErr(0)
	}, WithMaxAttempts(4), WithBaseDelay(100*time.Millisecond), WithExponentialBackoff(true), sleeper.option())

	require.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond}, sleeper.sleeps)
}

func TestDoConstantBackoff(t *testing.T) {
	sleeper := &fakeSleeper{}
	_ = DoErr(context.Background(), func(context.Context) error {
		return networkErr(0)
	}, WithMaxAttempts(3), WithBaseDelay(50*time.Millisecond), WithExponentialBackoff(false), sleeper.option())

	require.Equal(t, []time.Duration{50 * time.Millisecond, 50 * time.Millisecond}, sleeper.sleeps)
}

func TestDoSingleAttempt(t *testing.T) {
	calls := 0
	err := DoErr(context.Background(), func(context.Context) error {
		calls++
		return networkErr(calls)
	}, WithMaxAttempts(1), WithShouldRetry(func(error, int) bool { return true }))

	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestDoNonPositiveAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_ = DoErr(context.Background(), func(context.Context) error {
		calls++
		return networkErr(calls)
	}, WithMaxAttempts(0))
	require.Equal(t, 1, calls)
}

func TestDoHooksReceiveAttempt(t *testing.T) {
	sleeper := &fakeSleeper{}
	var predicateAttempts, retryAttempts []int
	calls := 0
	got, err := Do(context.Background(), func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("flaky")
		}
		return 42, nil
	},
		WithShouldRetry(func(_ error, attempt int) bool {
			predicateAttempts = append(predicateAttempts, attempt)
			return true
		}),
		WithOnRetry(func(_ error, attempt int) {
			retryAttempts = append(retryAttempts, attempt)
		}),
		WithBaseDelay(0),
		sleeper.option(),
	)

	require.NoError(t, err)
	require.Equal(t, 42, got)
	require.Equal(t, []int{1, 2}, predicateAttempts)
	require.Equal(t, []int{1, 2}, retryAttempts)
	require.Equal(t, []time.Duration{0, 0}, sleeper.sleeps)
}

func TestDoHookPanicsPropagate(t *testing.T) {
	require.PanicsWithValue(t, "bad hook", func() {
		_ = DoErr(context.Background(), func(context.Context) error {
			return networkErr(1)
		}, WithOnRetry(func(error, int) { panic("bad hook") }))
	})
	require.PanicsWithValue(t, "bad predicate", func() {
		_ = DoErr(context.Background(), func(context.Context) error {
			return networkErr(1)
		}, WithShouldRetry(func(error, int) bool { panic("bad predicate") }))
	})
}

func TestDoStopsWhenContextEndsDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := DoErr(ctx, func(context.Context) error {
		calls++
		return networkErr(calls)
	}, WithMaxAttempts(5), WithBaseDelay(time.Hour), WithOnRetry(func(error, int) { cancel() }))

	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}

type countingObserver struct {
	delays []time.Duration
}

func (o *countingObserver) ObserveRetry(_ int, delay time.Duration, _ error) {
	o.delays = append(o.delays, delay)
}

func TestDoObserver(t *testing.T) {
	obs := &countingObserver{}
	sleeper := &fakeSleeper{}
	_ = DoErr(context.Background(), func(context.Context) error {
		return networkErr(0)
	}, WithMaxAttempts(3), WithBaseDelay(time.Millisecond), WithObserver(obs), sleeper.option())
	require.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, obs.delays)
}

func TestDelaySaturates(t *testing.T) {
	p := DefaultPolicy()
	require.Equal(t, time.Second, p.Delay(1))
	require.Equal(t, 2*time.Second, p.Delay(2))
	require.Equal(t, maxDuration, p.Delay(40))
	require.Equal(t, maxDuration, p.Delay(1000))

	p.MaxDelay = 30 * time.Second
	require.Equal(t, 30*time.Second, p.Delay(40))
	require.Equal(t, 4*time.Second, p.Delay(3))

	p.BaseDelay = 0
	require.Zero(t, p.Delay(10))
}

func TestWithPolicy(t *testing.T) {
	sleeper := &fakeSleeper{}
	calls := 0
	_ = DoErr(context.Background(), func(context.Context) error {
		calls++
		return networkErr(calls)
	}, WithPolicy(Policy{MaxAttempts: 2, BaseDelay: 5 * time.Millisecond}), sleeper.option())
	require.Equal(t, 2, calls)
	require.Equal(t, []time.Duration{5 * time.Millisecond}, sleeper.sleeps)
}
