// Package retry executes calls to the diary backend with bounded retries and
// exponential backoff, races calls against deadlines, and debounces bursts of
// user input.
//
// Every invocation owns its counters and timers; nothing is shared between
// concurrent callers.
package retry

import (
	"context"
	"math"
	"time"

	"github.com/Goden-Gun/diary-client/pkg/apierr"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
)

const maxDuration = time.Duration(math.MaxInt64)

// Backoff selects how the delay grows between attempts.
type Backoff int

const (
	// BackoffExponential doubles the delay after every failed attempt.
	BackoffExponential Backoff = iota
	// BackoffConstant waits BaseDelay between every attempt.
	BackoffConstant
)

// Observer is an optional hook to observe retries. It is metrics-backend agnostic
// so each application can map it to its own metrics and labels.
type Observer interface {
	ObserveRetry(attempt int, delay time.Duration, err error)
}

// Policy governs a single Do invocation.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// MaxDelay caps the computed delay; zero leaves it uncapped.
	MaxDelay time.Duration
	Backoff  Backoff
	// ShouldRetry decides whether a failed attempt is retried. Defaults to
	// apierr.IsRetryableError.
	ShouldRetry func(err error, attempt int) bool
	// OnRetry runs before each backoff sleep.
	OnRetry  func(err error, attempt int)
	Observer Observer

	sleep func(ctx context.Context, d time.Duration) error
}

// DefaultPolicy returns 3 attempts, 1s base delay, exponential backoff, retrying
// network, timeout and server errors.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		Backoff:     BackoffExponential,
		ShouldRetry: defaultShouldRetry,
	}
}

func defaultShouldRetry(err error, _ int) bool {
	return apierr.IsRetryableError(err)
}

// Delay returns the wait before the attempt following attempt. It saturates
// instead of overflowing.
func (p Policy) Delay(attempt int) time.Duration {
	if p.BaseDelay <= 0 {
		return 0
	}
	d := p.BaseDelay
	if p.Backoff == BackoffExponential && attempt > 1 {
		shift := attempt - 1
		if shift >= 63 || d > maxDuration>>uint(shift) {
			d = maxDuration
		} else {
			d <<= uint(shift)
		}
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

func (p *Policy) normalize() {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.BaseDelay < 0 {
		p.BaseDelay = 0
	}
	if p.ShouldRetry == nil {
		p.ShouldRetry = defaultShouldRetry
	}
	if p.sleep == nil {
		p.sleep = sleepContext
	}
}

// Do runs op until it succeeds, the policy declines to retry, or MaxAttempts is
// reached. The error of the last attempt is returned unchanged. If ctx ends
// during a backoff sleep, ctx.Err() is returned.
//
// Panics raised by ShouldRetry or OnRetry are not recovered.
func Do[T any](ctx context.Context, op func(context.Context) (T, error), opts ...Option) (T, error) {
	p := DefaultPolicy()
	for _, opt := range opts {
		opt(&p)
	}
	p.normalize()

	var zero T
	for attempt := 1; ; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if attempt >= p.MaxAttempts || !p.ShouldRetry(err, attempt) {
			return zero, err
		}

		delay := p.Delay(attempt)
		if p.OnRetry != nil {
			p.OnRetry(err, attempt)
		}
		if p.Observer != nil {
			p.Observer.ObserveRetry(attempt, delay, err)
		}
		if sleepErr := p.sleep(ctx, delay); sleepErr != nil {
			return zero, sleepErr
		}
	}
}

// DoErr is Do for operations without a result.
func DoErr(ctx context.Context, op func(context.Context) error, opts ...Option) error {
	_, err := Do(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	}, opts...)
	return err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
