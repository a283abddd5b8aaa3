package transition

import (
	"time"

	"go.uber.org/zap"

	"github.com/nextcore/choreo/pkg/errors"
	"github.com/nextcore/choreo/pkg/scheduler"
)

// DefaultExitFallback bounds how long a Coordinator waits for children to
// finish exiting.
const DefaultExitFallback = 2 * time.Second

// AnimationOptions tunes how a Coordinator runs its children.
type AnimationOptions struct {
	// Show enters the coordinator as soon as it is mounted.
	Show bool
	// Independent starts every child at once regardless of Stagger.
	Independent bool
}

// StaggerOptions configures a [Coordinator].
type StaggerOptions struct {
	// Name identifies the coordinator in logs and diagnostics.
	Name string
	// Stagger delays child i by i times the scope's stagger duration.
	Stagger bool
	// Animation holds the show/independent switches.
	Animation AnimationOptions
	// ExitFallback bounds the aggregate exit. Zero means DefaultExitFallback.
	ExitFallback time.Duration
	Logger       *zap.Logger
}

// Coordinator orchestrates an ordered sequence of sibling handles.
//
// In stagger mode child i is told to enter i*stagger after child 0; otherwise
// all children start together, in index order. Exit tells every child to
// exit, front to back, and completes once all of them report back or the
// exit fallback elapses.
//
// Coordinator implements [Handle], so coordinators nest and a page can expose
// its root coordinator as the handle a navigator exits.
type Coordinator struct {
	sched    scheduler.Scheduler
	scope    *Scope
	opts     StaggerOptions
	log      *zap.Logger
	children []*staggerChild

	status     Status
	generation uint64
	enterStart time.Time
	remaining  int
	waiters    []func()
	fallback   scheduler.Timer
	changes    notifier
	unfollow   func()
}

type staggerChild struct {
	handle  Handle
	timer   scheduler.Timer
	gen     uint64
	started bool
	settled bool
}

// NewCoordinator creates a coordinator reading its stagger interval from
// scope. A nil scope uses DefaultDurations.
func NewCoordinator(sched scheduler.Scheduler, scope *Scope, opts StaggerOptions, children ...Handle) *Coordinator {
	if opts.ExitFallback <= 0 {
		opts.ExitFallback = DefaultExitFallback
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	c := &Coordinator{
		sched: sched,
		scope: scope,
		opts:  opts,
		log:   log.With(zap.String("coordinator", opts.Name)),
	}
	for _, h := range children {
		c.children = append(c.children, &staggerChild{handle: h})
	}
	return c
}

// Status returns the coordinator's aggregate status.
func (c *Coordinator) Status() Status { return c.status }

// Len returns the number of children.
func (c *Coordinator) Len() int { return len(c.children) }

// AddStatusListener registers fn to run after every aggregate status change.
func (c *Coordinator) AddStatusListener(fn func(from, to Status)) func() {
	return c.changes.add(fn)
}

// Mount enters the coordinator if Animation.Show is set.
func (c *Coordinator) Mount() {
	if c.opts.Animation.Show {
		c.Enter(nil)
	}
}

// Follow ties the coordinator to its scope: the scope entering enters the
// coordinator, the scope exiting exits it. If the scope is already active the
// coordinator enters immediately. Follow returns a function that unties it.
func (c *Coordinator) Follow() func() {
	if c.scope == nil || c.unfollow != nil {
		return func() {}
	}
	remove := c.scope.AddStatusListener(func(_, to Status) {
		switch to {
		case Entering:
			c.Enter(nil)
		case Exiting:
			c.Exit(nil)
		}
	})
	c.unfollow = func() {
		remove()
		c.unfollow = nil
	}
	if c.scope.Status().Active() {
		c.Enter(nil)
	}
	return c.unfollow
}

func (c *Coordinator) durations() Durations {
	if c.scope == nil {
		return DefaultDurations
	}
	return c.scope.Durations()
}

func (c *Coordinator) delay(i int) time.Duration {
	if !c.opts.Stagger || c.opts.Animation.Independent {
		return 0
	}
	return time.Duration(i) * c.durations().Stagger
}

func (c *Coordinator) setStatus(to Status) {
	from := c.status
	if from == to {
		return
	}
	c.status = to
	c.changes.notify(from, to)
}

// Enter starts the staggered entrance. done runs once every child has
// entered. Calling Enter while entering or entered is idempotent; calling it
// while exiting pre-empts the exit.
func (c *Coordinator) Enter(done func()) {
	switch c.status {
	case Entered:
		call(done)
		return
	case Entering:
		if done != nil {
			c.waiters = append(c.waiters, done)
		}
		return
	}

	gen := c.restart(done)
	c.enterStart = c.sched.Now()
	c.remaining = len(c.children)
	// Children added by status listeners are scheduled by Add.
	children := append([]*staggerChild(nil), c.children...)
	c.log.Debug("entering", zap.Int("children", len(c.children)), zap.Uint64("generation", gen))
	c.setStatus(Entering)
	if c.generation != gen {
		return
	}
	if c.remaining == 0 {
		c.settle(gen, Entered)
		return
	}
	for i, child := range children {
		if c.generation != gen {
			return
		}
		c.scheduleEnter(child, c.delay(i), gen)
	}
}

// Exit asks every child to exit. done runs once all have reported back, or
// after the exit fallback. With no children it runs immediately.
func (c *Coordinator) Exit(done func()) {
	switch c.status {
	case Exited:
		call(done)
		return
	case Exiting:
		if done != nil {
			c.waiters = append(c.waiters, done)
		}
		return
	}

	gen := c.restart(done)
	c.remaining = len(c.children)
	children := append([]*staggerChild(nil), c.children...)
	c.log.Debug("exiting", zap.Int("children", len(c.children)), zap.Uint64("generation", gen))
	c.setStatus(Exiting)
	if c.generation != gen {
		return
	}
	if c.remaining == 0 {
		c.settle(gen, Exited)
		return
	}

	bound := c.opts.ExitFallback
	c.fallback = c.sched.AfterFunc(bound, func() { c.forceExit(gen, bound) })

	for _, child := range children {
		if c.generation != gen {
			return
		}
		child.gen = gen
		child.settled = false
		child.handle.Exit(c.childDone(child, gen, Exited))
	}
}

// restart invalidates everything scheduled under the previous generation.
func (c *Coordinator) restart(done func()) uint64 {
	for _, child := range c.children {
		if child.timer != nil {
			child.timer.Stop()
			child.timer = nil
		}
		child.started = false
		child.settled = false
	}
	if c.fallback != nil {
		c.fallback.Stop()
		c.fallback = nil
	}
	c.generation++
	c.waiters = nil
	if done != nil {
		c.waiters = append(c.waiters, done)
	}
	return c.generation
}

func (c *Coordinator) scheduleEnter(child *staggerChild, d time.Duration, gen uint64) {
	child.gen = gen
	if d <= 0 {
		c.startEnter(child, gen)
		return
	}
	child.timer = c.sched.AfterFunc(d, func() {
		child.timer = nil
		if child.gen != gen || c.generation != gen {
			return
		}
		c.startEnter(child, gen)
	})
}

func (c *Coordinator) startEnter(child *staggerChild, gen uint64) {
	child.started = true
	child.handle.Enter(c.childDone(child, gen, Entered))
}

func (c *Coordinator) childDone(child *staggerChild, gen uint64, want Status) func() {
	return func() {
		if c.generation != gen || child.gen != gen || child.settled {
			return
		}
		child.settled = true
		if c.status != want-1 {
			// Added after the aggregate already settled; nothing to count.
			return
		}
		c.remaining--
		if c.remaining <= 0 {
			c.settle(gen, want)
		}
	}
}

func (c *Coordinator) settle(gen uint64, final Status) {
	if c.generation != gen {
		return
	}
	if c.fallback != nil {
		c.fallback.Stop()
		c.fallback = nil
	}
	waiters := c.waiters
	c.waiters = nil
	c.log.Debug("settled", zap.Stringer("status", final), zap.Uint64("generation", gen))
	c.setStatus(final)
	callAll(waiters)
}

func (c *Coordinator) forceExit(gen uint64, bound time.Duration) {
	c.fallback = nil
	if c.generation != gen || c.status != Exiting {
		return
	}
	var pending []int
	for i, child := range c.children {
		if child.gen == gen && !child.settled {
			pending = append(pending, i)
		}
	}
	hang := &errors.HangingExitError{Pending: pending, Total: len(c.children), Bound: bound}
	c.log.Warn("exit fallback elapsed", zap.Ints("pending", pending), zap.Duration("bound", bound))
	errors.Report(&errors.Error{
		Op:    "transition.Coordinator.Exit",
		Kind:  errors.KindHangingExit,
		Scope: c.opts.Name,
		Err:   hang,
	})
	c.settle(gen, Exited)
}

// Add appends a child. While the coordinator is entering or entered the
// child is scheduled by its position, measured from the start of the current
// entrance; if that moment has passed it starts at once. Children that have
// already settled are left alone.
func (c *Coordinator) Add(h Handle) {
	child := &staggerChild{handle: h}
	c.children = append(c.children, child)
	pos := len(c.children) - 1

	switch c.status {
	case Entering:
		c.remaining++
	case Entered:
	default:
		return
	}
	d := c.delay(pos) - scheduler.Since(c.sched, c.enterStart)
	c.scheduleEnter(child, d, c.generation)
}

// Remove drops a child. A child the current transition is still waiting on
// stops counting toward it.
func (c *Coordinator) Remove(h Handle) bool {
	for i, child := range c.children {
		if child.handle != h {
			continue
		}
		if child.timer != nil {
			child.timer.Stop()
			child.timer = nil
		}
		c.children = append(c.children[:i:i], c.children[i+1:]...)

		waiting := child.gen == c.generation && !child.settled && !c.status.Settled()
		child.gen = 0
		if waiting {
			c.remaining--
			if c.remaining <= 0 {
				c.settle(c.generation, c.status+1)
			}
		}
		return true
	}
	return false
}
