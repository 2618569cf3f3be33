package retry

import (
	"sync"
	"time"
)

// Debouncer delays fn until delay has passed without another Call. Only the
// argument of the last Call reaches fn. Invocations never overlap, and one
// that was taken before a newer invocation ran is dropped.
type Debouncer[A any] struct {
	fn    func(A)
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	arg     A
	pending bool
	running sync.WaitGroup

	// seq numbers taken invocations; runMu serializes fn and guards ran
	seq   uint64
	runMu sync.Mutex
	ran   uint64
}

// NewDebouncer creates a debouncer for fn.
func NewDebouncer[A any](fn func(A), delay time.Duration) *Debouncer[A] {
	return &Debouncer[A]{fn: fn, delay: delay}
}

// Debounce returns a fire-and-forget function that coalesces bursts of calls.
func Debounce[A any](fn func(A), delay time.Duration) func(A) {
	return NewDebouncer(fn, delay).Call
}

// Call cancels any pending invocation and schedules a new one with arg.
func (d *Debouncer[A]) Call(arg A) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.arg = arg
	d.pending = true
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(gen)
	})
}

// Cancel drops the pending invocation, if any.
func (d *Debouncer[A]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

// Flush runs the pending invocation now instead of waiting for the timer. It
// waits for an invocation that is still running.
func (d *Debouncer[A]) Flush() {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return
	}
	d.takeLocked()
}

// Wait blocks until invocations that have already started return.
func (d *Debouncer[A]) Wait() {
	d.running.Wait()
}

// fire ignores timers that were superseded after they had already started.
func (d *Debouncer[A]) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.pending {
		d.mu.Unlock()
		return
	}
	d.takeLocked()
}

// takeLocked consumes the pending argument, releases d.mu and runs fn.
func (d *Debouncer[A]) takeLocked() {
	arg := d.arg
	d.stopLocked()
	d.seq++
	ticket := d.seq
	d.running.Add(1)
	d.mu.Unlock()

	defer d.running.Done()
	d.run(ticket, arg)
}

func (d *Debouncer[A]) run(ticket uint64, arg A) {
	d.runMu.Lock()
	defer d.runMu.Unlock()
	if ticket < d.ran {
		return
	}
	d.ran = ticket
	d.fn(arg)
}

func (d *Debouncer[A]) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	var zero A
	d.arg = zero
	d.pending = false
	d.gen++
}
