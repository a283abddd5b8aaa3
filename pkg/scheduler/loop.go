package scheduler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/atomic"
)

// ErrLoopClosed is returned when work is submitted to a loop that has stopped.
var ErrLoopClosed = errors.New("scheduler: loop closed")

// DefaultQueueSize is the callback buffer used by [NewLoop] when size <= 0.
const DefaultQueueSize = 256

// Loop is a real-time [Scheduler] that executes callbacks on the goroutine
// calling [Loop.Run].
type Loop struct {
	queue   chan func()
	done    chan struct{}
	running atomic.Bool
	closed  atomic.Bool
}

// NewLoop creates a loop with the given queue size.
func NewLoop(size int) *Loop {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Loop{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Now returns wall-clock time.
func (l *Loop) Now() time.Time { return time.Now() }

// Post queues fn to run on the loop. Safe for concurrent use.
func (l *Loop) Post(fn func()) bool {
	if fn == nil || l.closed.Load() {
		return false
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// AfterFunc schedules fn to run on the loop after d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	if d < 0 {
		d = 0
	}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			// Stop may have raced with the post; the flag is only read here.
			if !t.fired.CompareAndSwap(false, true) {
				return
			}
			fn()
		})
	})
	return t
}

// Do runs fn on the loop and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrLoopClosed
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Running reports whether Run is executing.
func (l *Loop) Running() bool { return l.running.Load() }

// Run executes queued callbacks until ctx is cancelled. A loop can be run
// once; after Run returns it rejects new work.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return errors.New("scheduler: loop already running")
	}
	if l.closed.Load() {
		l.running.Store(false)
		return ErrLoopClosed
	}
	defer func() {
		l.closed.Store(true)
		close(l.done)
		l.running.Store(false)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}

type loopTimer struct {
	timer *time.Timer
	fired atomic.Bool
}

func (t *loopTimer) Stop() bool {
	if !t.fired.CompareAndSwap(false, true) {
		return false
	}
	t.timer.Stop()
	return true
}
