// Package animation provides the frame-level primitives leaf views use to
// animate themselves while a transition is in flight.
//
// # Core Components
//
//   - [Ticker]: calls a callback once per frame on a [scheduler.Scheduler]
//     with the time elapsed since it started.
//
//   - [Controller]: drives a value from 0.0 to 1.0 (or back) over a duration,
//     shaping progress with an easing curve and reporting completion.
//
//   - [Tween]: maps the controller's value onto any range or type.
//
//   - Curves: easing functions such as [EaseOut] and [CubicBezier].
//
// Everything runs on the scheduler that created it, so a controller never
// needs a lock and a Manual scheduler can step it deterministically.
package animation

import (
	"time"

	"github.com/nextcore/choreo/pkg/scheduler"
)

// FrameInterval is the spacing between ticker callbacks (60 frames per second).
const FrameInterval = time.Second / 60

// Ticker calls a callback on each frame while active.
//
// Ticker is the low-level timing primitive used by [Controller].
// Most code should use Controller directly rather than Ticker.
type Ticker struct {
	sched    scheduler.Scheduler
	callback func(elapsed time.Duration)
	interval time.Duration
	start    time.Time
	frame    scheduler.Timer
	isActive bool
}

// NewTicker creates a ticker that runs callback every [FrameInterval] on sched.
func NewTicker(sched scheduler.Scheduler, callback func(elapsed time.Duration)) *Ticker {
	return &Ticker{
		sched:    sched,
		callback: callback,
		interval: FrameInterval,
	}
}

// Start activates the ticker. The first frame is delivered on the next turn
// of the scheduler with zero elapsed time.
func (t *Ticker) Start() {
	if t.isActive {
		return
	}
	t.isActive = true
	t.start = t.sched.Now()
	t.schedule(0)
}

// Stop deactivates the ticker. Pending frames are discarded.
func (t *Ticker) Stop() {
	if !t.isActive {
		return
	}
	t.isActive = false
	if t.frame != nil {
		t.frame.Stop()
		t.frame = nil
	}
}

// IsActive returns whether the ticker is currently running.
func (t *Ticker) IsActive() bool {
	return t.isActive
}

// Elapsed returns the time since the ticker started.
func (t *Ticker) Elapsed() time.Duration {
	if !t.isActive {
		return 0
	}
	return scheduler.Since(t.sched, t.start)
}

func (t *Ticker) schedule(d time.Duration) {
	t.frame = t.sched.AfterFunc(d, func() {
		if !t.isActive {
			return
		}
		t.frame = nil
		if t.callback != nil {
			t.callback(t.Elapsed())
		}
		if t.isActive && t.frame == nil {
			t.schedule(t.interval)
		}
	})
}
