package retry

import (
	"context"
	"fmt"
	"time"
)

// TimeoutError is returned by WithTimeout when the deadline wins the race.
// apierr.Classify maps it to codes.Timeout.
type TimeoutError struct {
	After   time.Duration
	Message string
}

func (e *TimeoutError) Error() string {
	return e.Message
}

func (e *TimeoutError) Timeout() bool {
	return true
}

func (e *TimeoutError) Is(target error) bool {
	return target == context.DeadlineExceeded
}

// WithTimeout races op against a timer of d. If the timer fires first a
// *TimeoutError carrying message (or "Timeout after {ms}ms") is returned;
// otherwise op's result passes through unchanged.
//
// op receives a context that is cancelled once WithTimeout returns. An op that
// ignores it keeps running in the background and its late result is dropped.
func WithTimeout[T any](ctx context.Context, d time.Duration, op func(context.Context) (T, error), message string) (T, error) {
	if message == "" {
		message = fmt.Sprintf("Timeout after %dms", d.Milliseconds())
	}

	opCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		value    T
		err      error
		panicked any
	}
	// buffered so the losing goroutine never blocks
	done := make(chan outcome, 1)
	go func() {
		var o outcome
		defer func() {
			if r := recover(); r != nil {
				o.panicked = r
			}
			done <- o
		}()
		o.value, o.err = op(opCtx)
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	var zero T
	select {
	case o := <-done:
		if o.panicked != nil {
			panic(o.panicked)
		}
		return o.value, o.err
	case <-timer.C:
		return zero, &TimeoutError{After: d, Message: message}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
