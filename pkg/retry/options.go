package retry

import "time"

// Option customises the Policy of a single Do invocation.
type Option func(*Policy)

// WithPolicy replaces the whole policy. Later options still apply on top.
func WithPolicy(p Policy) Option {
	return func(dst *Policy) {
		*dst = p
	}
}

// WithMaxAttempts sets the total number of attempts, including the first.
func WithMaxAttempts(n int) Option {
	return func(p *Policy) {
		p.MaxAttempts = n
	}
}

// WithBaseDelay sets the first backoff delay. Zero disables waiting.
func WithBaseDelay(d time.Duration) Option {
	return func(p *Policy) {
		p.BaseDelay = d
	}
}

// WithMaxDelay caps each backoff delay.
func WithMaxDelay(d time.Duration) Option {
	return func(p *Policy) {
		p.MaxDelay = d
	}
}

// WithExponentialBackoff toggles doubling; false waits BaseDelay every time.
func WithExponentialBackoff(enabled bool) Option {
	return func(p *Policy) {
		if enabled {
			p.Backoff = BackoffExponential
		} else {
			p.Backoff = BackoffConstant
		}
	}
}

// WithShouldRetry overrides the retry predicate.
func WithShouldRetry(fn func(err error, attempt int) bool) Option {
	return func(p *Policy) {
		p.ShouldRetry = fn
	}
}

// WithOnRetry installs a callback invoked before every backoff sleep.
func WithOnRetry(fn func(err error, attempt int)) Option {
	return func(p *Policy) {
		p.OnRetry = fn
	}
}

// WithObserver installs a metrics observer.
func WithObserver(o Observer) Option {
	return func(p *Policy) {
		p.Observer = o
	}
}
