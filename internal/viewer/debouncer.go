package viewer

import (
	"sync"
	"time"
)

// Timer is the cancellable handle of a deferred task.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it via RealAfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

// RealAfterFunc wraps time.AfterFunc.
func RealAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer is a single-slot deferred task scheduler: arming replaces any
// pending task, so at most one task is ever waiting.
type Debouncer struct {
	mu    sync.Mutex
	after AfterFunc
	timer Timer
	gen   uint64
}

func NewDebouncer(after AfterFunc) *Debouncer {
	if after == nil {
		after = RealAfterFunc
	}
	return &Debouncer{after: after}
}

// Arm cancels the pending task, if any, and schedules fn after d.
func (d *Debouncer) Arm(delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.after(delay, func() {
		d.mu.Lock()
		// A timer whose Stop lost the race with expiry must not run.
		live := gen == d.gen
		if live {
			d.timer = nil
		}
		d.mu.Unlock()
		if live {
			fn()
		}
	})
}

// Stop cancels the pending task. Safe to call when nothing is armed.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// Pending reports whether a task is armed and has not fired.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
