// Package scheduler provides the single-threaded event loop every transition
// callback runs on.
//
// The choreography engine never blocks and never takes locks. All of its work
// is driven by timers whose callbacks are executed one at a time by a
// [Scheduler]. Two implementations are provided:
//
//   - [Loop]: a real-time loop that runs callbacks on one goroutine. Timers are
//     backed by [time.AfterFunc] and posted onto the loop when they fire.
//
//   - [Manual]: a virtual-time scheduler advanced explicitly with
//     [Manual.Advance]. Timers due at the same instant fire in the order they
//     were scheduled, which makes staggered sequences fully deterministic.
//
// Code holding a Scheduler must only touch engine types from inside scheduler
// callbacks (or from the goroutine driving a Manual scheduler).
package scheduler

import "time"

// Scheduler runs callbacks serially and provides the time source for them.
type Scheduler interface {
	// Now returns the scheduler's current time.
	Now() time.Time
	// AfterFunc arranges for fn to run on the scheduler after d elapses.
	// A non-positive d schedules fn for the next turn of the loop.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Poster is implemented by schedulers that accept work from other goroutines.
type Poster interface {
	// Post queues fn to run on the scheduler. It reports false when the
	// scheduler no longer accepts work.
	Post(fn func()) bool
}

// Timer is a pending callback returned by [Scheduler.AfterFunc].
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer; false means the callback already ran or was stopped.
	Stop() bool
}

// Since returns the time elapsed on s since t.
func Since(s Scheduler, t time.Time) time.Duration {
	return s.Now().Sub(t)
}
