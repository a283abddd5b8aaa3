package transition

import (
	"time"

	"go.uber.org/zap"

	"github.com/nextcore/choreo/pkg/scheduler"
)

// ProviderOptions configures a [Provider].
type ProviderOptions struct {
	// Name identifies the scope in logs and timelines.
	Name string

	// Parent is the ancestor scope. A provider with a parent inherits its
	// durations and, unless Independent is set, follows its status: it enters
	// once the parent has entered and exits when the parent exits.
	Parent *Scope

	// Independent detaches the provider from its parent's status. It is then
	// driven only by explicit Enter/Exit calls, typically from a Coordinator.
	Independent bool

	// Durations overrides the inherited timing.
	Durations DurationPatch

	// Initial is the status the scope starts in. Entered marks a scope that
	// is already live (for example a header that survived a client-side
	// navigation); Exited keeps it hidden until Enter is called. Any other
	// value starts at Idle.
	Initial Status

	// OnEnter runs once each time the scope reaches Entered.
	OnEnter func()
	// OnExit runs once each time the scope reaches Exited.
	OnExit func()
	// OnDestroy runs when the provider is destroyed.
	OnDestroy func()

	Logger *zap.Logger
}

// Provider owns a [Scope] and moves it through its lifecycle.
//
//	        Enter()                timer             Exit()               timer
//	Idle ───────────► Entering ───────────► Entered ────────► Exiting ───────────► Exited
//	                     ▲  │                                   ▲  │
//	                     │  └──────────── Exit() ───────────────┘  │
//	                     └──────────────── Enter() ────────────────┘
//
// Each status-initiating call increments the scope's generation. A timer
// captures the generation it was started under and does nothing if the
// generation has moved on, which is how pending transitions are cancelled.
type Provider struct {
	sched   scheduler.Scheduler
	scope   *Scope
	opts    ProviderOptions
	log     *zap.Logger
	timer   scheduler.Timer
	waiters []func()
	mounted bool
	detach  []func()
}

// NewProvider creates a provider and its scope. Nothing transitions until
// Mount, Enter or Exit is called.
func NewProvider(sched scheduler.Scheduler, opts ProviderOptions) *Provider {
	base := DefaultDurations
	if opts.Parent != nil {
		base = opts.Parent.Durations()
	}
	initial := Idle
	if opts.Initial == Entered || opts.Initial == Exited {
		initial = opts.Initial
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{
		sched: sched,
		scope: newScope(opts.Name, opts.Parent, base.Merge(opts.Durations), initial),
		opts:  opts,
		log:   log.With(zap.String("scope", opts.Name)),
	}
}

// Scope returns the provider's scope for handing to descendants.
func (p *Provider) Scope() *Scope { return p.scope }

// Status is shorthand for p.Scope().Status().
func (p *Provider) Status() Status { return p.scope.status }

// Mount attaches the provider to its tree.
//
// A root provider starts entering right away. A provider under a parent that
// has already entered also starts right away; under a parent that is still on
// its way in, it waits for the parent. Mounting a scope that is already live
// is a no-op, so a persistent region that is mounted again does not replay
// its entrance.
func (p *Provider) Mount() {
	if p.scope.destroyed {
		return
	}
	if p.mounted {
		p.log.Debug("mount skipped, already mounted", zap.Stringer("status", p.scope.status))
		return
	}
	p.mounted = true

	parent := p.opts.Parent
	if parent != nil && !p.opts.Independent {
		p.detach = append(p.detach,
			parent.AddStatusListener(p.followParent),
			parent.AddDestroyListener(p.Destroy),
		)
	}

	switch {
	case p.scope.status != Idle:
		// Live (or deliberately hidden) from the start.
	case p.opts.Independent:
	case parent == nil || parent.Status() == Entered:
		p.Enter(nil)
	}
}

func (p *Provider) followParent(_, to Status) {
	switch to {
	case Entered:
		p.Enter(nil)
	case Exiting, Exited:
		p.Exit(nil)
	}
}

// Enter requests the entering transition. done runs when the scope reaches
// Entered under this request; it is dropped if the request is superseded.
// Calling Enter while entering or entered is idempotent.
func (p *Provider) Enter(done func()) {
	if p.scope.destroyed {
		return
	}
	switch p.scope.status {
	case Entered:
		call(done)
	case Entering:
		p.addWaiter(done)
	default:
		p.begin(Entering, p.scope.durations.Enter, done)
	}
}

// Exit requests the exiting transition. It is permitted before the scope has
// ever entered; the scope then goes straight through Exiting to Exited and
// OnEnter is never called. Calling Exit while exiting or exited is idempotent.
func (p *Provider) Exit(done func()) {
	if p.scope.destroyed {
		return
	}
	switch p.scope.status {
	case Exited:
		call(done)
	case Exiting:
		p.addWaiter(done)
	default:
		p.begin(Exiting, p.scope.durations.Exit, done)
	}
}

func (p *Provider) addWaiter(done func()) {
	if done != nil {
		p.waiters = append(p.waiters, done)
	}
}

func (p *Provider) begin(status Status, d time.Duration, done func()) {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
		p.log.Debug("pending transition pre-empted",
			zap.Stringer("from", p.scope.status),
			zap.Stringer("to", status))
	}
	p.scope.generation++
	gen := p.scope.generation
	p.waiters = nil
	p.addWaiter(done)
	p.timer = p.sched.AfterFunc(d, func() { p.settle(gen) })

	p.log.Debug("transition started",
		zap.Stringer("status", status),
		zap.Uint64("generation", gen),
		zap.Duration("duration", d))
	p.scope.setStatus(status)
}

func (p *Provider) settle(gen uint64) {
	if gen != p.scope.generation || p.scope.destroyed {
		return
	}
	p.timer = nil

	final, hook := Entered, p.opts.OnEnter
	if p.scope.status == Exiting {
		final, hook = Exited, p.opts.OnExit
	}
	waiters := p.waiters
	p.waiters = nil

	p.log.Debug("transition settled", zap.Stringer("status", final), zap.Uint64("generation", gen))
	p.scope.setStatus(final)
	call(hook)
	callAll(waiters)
}

// Destroy tears the provider down. Pending timers are invalidated, the
// parent subscription is dropped and destroy listeners run. Later calls on
// the provider are ignored.
func (p *Provider) Destroy() {
	if p.scope.destroyed {
		return
	}
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.scope.generation++
	p.waiters = nil
	for _, fn := range p.detach {
		fn()
	}
	p.detach = nil
	p.scope.destroy()
	call(p.opts.OnDestroy)
	p.log.Debug("scope destroyed")
}
