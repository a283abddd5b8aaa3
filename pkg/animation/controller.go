package animation

import (
	"fmt"
	"time"

	"github.com/nextcore/choreo/pkg/scheduler"
)

// Status represents the current state of a [Controller].
//
//	                Forward()
//	Dismissed ──────────────────► Completed
//	    ▲                              │
//	    │         Reverse()            │
//	    └──────────────────────────────┘
//
// While animating, status is Forward or Reverse.
type Status int

const (
	// Dismissed means the controller is stopped at 0.
	Dismissed Status = iota
	// Forward means the controller is moving toward 1.
	Forward
	// Reverse means the controller is moving toward 0.
	Reverse
	// Completed means the controller is stopped at 1.
	Completed
)

func (s Status) String() string {
	switch s {
	case Dismissed:
		return "dismissed"
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Controller drives a value between 0 and 1 over Duration on a scheduler.
//
// Forward and Reverse accept an optional completion callback. A run that is
// interrupted by another Forward, Reverse or Stop never calls its callback,
// so leaf views can hand their transition completion straight to it.
type Controller struct {
	// Value is the current animation value, ranging from 0.0 to 1.0.
	Value float64

	// Duration is the time a full 0 to 1 run takes.
	Duration time.Duration

	// Curve transforms linear progress (optional).
	Curve func(float64) float64

	sched      scheduler.Scheduler
	status     Status
	ticker     *Ticker
	target     float64
	startValue float64
	onDone     func()
	listeners  map[int]func()
	nextID     int
}

// NewController creates a controller with the given duration.
func NewController(sched scheduler.Scheduler, duration time.Duration) *Controller {
	return &Controller{
		Duration:  duration,
		Curve:     LinearCurve,
		sched:     sched,
		status:    Dismissed,
		listeners: make(map[int]func()),
	}
}

// Forward animates to 1 and calls done when it gets there.
func (c *Controller) Forward(done func()) {
	c.animateTo(1, Forward, done)
}

// Reverse animates to 0 and calls done when it gets there.
func (c *Controller) Reverse(done func()) {
	c.animateTo(0, Reverse, done)
}

func (c *Controller) animateTo(target float64, direction Status, done func()) {
	c.Stop()

	c.target = target
	c.startValue = c.Value
	c.status = direction
	c.onDone = done

	c.ticker = NewTicker(c.sched, c.tick)
	c.ticker.Start()
}

func (c *Controller) tick(elapsed time.Duration) {
	// Partial runs take a proportional share of the full duration.
	span := float64(c.Duration) * abs(c.target-c.startValue)
	progress := 1.0
	if span > 0 {
		progress = float64(elapsed) / span
	}
	if progress > 1 {
		progress = 1
	}

	eased := progress
	if c.Curve != nil {
		eased = c.Curve(progress)
	}
	c.Value = c.startValue + (c.target-c.startValue)*eased
	c.notifyListeners()

	if progress >= 1 {
		c.finish()
	}
}

func (c *Controller) finish() {
	c.ticker.Stop()
	c.ticker = nil
	c.Value = c.target
	if c.target >= 1 {
		c.status = Completed
	} else {
		c.status = Dismissed
	}
	done := c.onDone
	c.onDone = nil
	if done != nil {
		done()
	}
}

// Stop halts the animation at its current value without calling the pending
// completion callback.
func (c *Controller) Stop() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
	c.onDone = nil
	if c.status == Forward || c.status == Reverse {
		c.status = Dismissed
		if c.Value >= 1 {
			c.status = Completed
		}
	}
}

// Status returns the controller status.
func (c *Controller) Status() Status {
	return c.status
}

// IsAnimating reports whether a run is in progress.
func (c *Controller) IsAnimating() bool {
	return c.status == Forward || c.status == Reverse
}

// AddListener registers fn to run on every value change. Returns an
// unsubscribe function.
func (c *Controller) AddListener(fn func()) func() {
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		delete(c.listeners, id)
	}
}

func (c *Controller) notifyListeners() {
	for _, listener := range c.listeners {
		listener()
	}
}

// Dispose stops the controller and drops its listeners.
func (c *Controller) Dispose() {
	c.Stop()
	c.listeners = map[int]func(){}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
