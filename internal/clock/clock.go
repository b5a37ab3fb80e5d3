// Package clock is the host-environment Timer contract spec.md §6 asks the
// operator engine to consume rather than implement: "A Timer that invokes a
// callback after a duration and supports cancel." Rate-limit operators
// (throttle, audit, debounce, ...) depend on this interface instead of
// calling time.AfterFunc directly, so tests can swap in a manually-advanced
// fake clock and assert the exact state transitions spec.md §4.3 describes
// without sleeping real wall-clock time.
package clock

import "time"

// Clock creates one-shot Timers. The zero value of Real is a valid Clock.
type Clock interface {
	// AfterFunc schedules fn to run once after d and returns a Timer that
	// can cancel the pending call. Mirrors time.AfterFunc's contract.
	AfterFunc(d time.Duration, fn func()) Timer
	// Now returns the clock's current time.
	Now() time.Time
}

// Timer is a single pending callback. Stop is idempotent and safe to call
// after the timer has already fired.
type Timer interface {
	// Stop prevents the Timer from firing, if it has not fired yet. It
	// returns true if the call stops the timer, false if the timer has
	// already expired or been stopped.
	Stop() bool
}

// Real is a Clock backed by the standard library's wall clock.
type Real struct{}

var _ Clock = Real{}

func (Real) AfterFunc(d time.Duration, fn func()) Timer {
	return realTimer{t: time.AfterFunc(d, fn)}
}

func (Real) Now() time.Time { return time.Now() }

type realTimer struct {
	t *time.Timer
}

func (r realTimer) Stop() bool { return r.t.Stop() }
