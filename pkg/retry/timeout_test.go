package retry

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Goden-Gun/diary-client/pkg/apierr"
	"github.com/Goden-Gun/diary-client/pkg/codes"
)

func TestWithTimeoutFires(t *testing.T) {
	start := time.Now()
	_, err := WithTimeout(context.Background(), 50*time.Millisecond, func(ctx context.Context) (string, error) {
		select {
		case <-time.After(500 * time.Millisecond):
			return "late", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}, "")

	elapsed := time.Since(start)
	require.Error(t, err)
	require.Equal(t, "Timeout after 50ms", err.Error())
	require.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	require.Less(t, elapsed, 400*time.Millisecond)

	var te *TimeoutError
	require.ErrorAs(t, err, &te)
	require.Equal(t, 50*time.Millisecond, te.After)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, codes.Timeout, apierr.Classify(err).Kind)
	require.True(t, apierr.IsRetryableError(err))
}

func TestWithTimeoutCustomMessage(t *testing.T) {
	_, err := WithTimeout(context.Background(), 10*time.Millisecond, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	}, "음성 인식 시간이 초과되었습니다.")
	require.EqualError(t, err, "음성 인식 시간이 초과되었습니다.")
}

func TestWithTimeoutPassesResultThrough(t *testing.T) {
	got, err := WithTimeout(context.Background(), time.Second, func(context.Context) (int, error) {
		return 7, nil
	}, "")
	require.NoError(t, err)
	require.Equal(t, 7, got)

	want := errors.New("boom")
	_, err = WithTimeout(context.Background(), time.Second, func(context.Context) (int, error) {
		return 0, want
	}, "")
	require.Same(t, want, err)
}

func TestWithTimeoutIgnoresLateResult(t *testing.T) {
	var finished atomic.Bool
	release := make(chan struct{})
	_, err := WithTimeout(context.Background(), 10*time.Millisecond, func(context.Context) (int, error) {
		<-release
		finished.Store(true)
		return 1, nil
	}, "")
	var te *TimeoutError
	require.ErrorAs(t, err, &te)

	close(release)
	require.Eventually(t, finished.Load, time.Second, 5*time.Millisecond)
}

func TestWithTimeoutCancelsOperationContext(t *testing.T) {
	cancelled := make(chan struct{})
	_, err := WithTimeout(context.Background(), 10*time.Millisecond, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		close(cancelled)
		return 0, ctx.Err()
	}, "")
	require.Error(t, err)

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("operation context was not cancelled")
	}
}

func TestWithTimeoutParentContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := WithTimeout(ctx, time.Hour, func(opCtx context.Context) (int, error) {
		<-opCtx.Done()
		return 0, opCtx.Err()
	}, "")
	require.ErrorIs(t, err, context.Canceled)
}

func TestWithTimeoutRepanics(t *testing.T) {
	require.PanicsWithValue(t, "op failed", func() {
		_, _ = WithTimeout(context.Background(), time.Second, func(context.Context) (int, error) {
			panic("op failed")
		}, "")
	})
}

func TestWithTimeoutInsideRetry(t *testing.T) {
	sleeper := &fakeSleeper{}
	calls := 0
	got, err := Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return WithTimeout(ctx, 10*time.Millisecond, func(ctx context.Context) (string, error) {
			if calls == 1 {
				<-ctx.Done()
				return "", ctx.Err()
			}
			return "ok", nil
		}, "")
	}, sleeper.option())

	require.NoError(t, err)
	require.Equal(t, "ok", got)
	require.Equal(t, 2, calls)
	require.Len(t, sleeper.sleeps, 1)
}
