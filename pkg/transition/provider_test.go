package transition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextcore/choreo/pkg/scheduler"
)

func newCountingProvider(sched scheduler.Scheduler, opts ProviderOptions) (*Provider, *int, *int) {
	enters, exits := 0, 0
	opts.OnEnter = func() { enters++ }
	opts.OnExit = func() { exits++ }
	return NewProvider(sched, opts), &enters, &exits
}

func TestProvider_MountEntersAfterDuration(t *testing.T) {
	sched := scheduler.NewManual()
	p, enters, _ := newCountingProvider(sched, ProviderOptions{Name: "root"})

	p.Mount()
	assert.Equal(t, Entering, p.Status())
	assert.Equal(t, uint64(1), p.Scope().Generation())

	sched.Advance(DefaultDurations.Enter - time.Millisecond)
	assert.Equal(t, Entering, p.Status())
	assert.Zero(t, *enters)

	sched.Advance(time.Millisecond)
	assert.Equal(t, Entered, p.Status())
	assert.Equal(t, 1, *enters)
}

func TestProvider_FullCycleFiresEachCallbackOnce(t *testing.T) {
	sched := scheduler.NewManual()
	p, enters, exits := newCountingProvider(sched, ProviderOptions{})
	log := &statusLog{}
	p.Scope().AddStatusListener(log.record)

	p.Enter(nil)
	require.NoError(t, sched.Settle(time.Second))
	p.Exit(nil)
	require.NoError(t, sched.Settle(time.Second))
	p.Enter(nil)
	require.NoError(t, sched.Settle(time.Second))

	assert.Equal(t, 2, *enters)
	assert.Equal(t, 1, *exits)
	assert.Equal(t, []string{
		"idle>entering", "entering>entered",
		"entered>exiting", "exiting>exited",
		"exited>entering", "entering>entered",
	}, log.changes)
}

func TestProvider_ExitWhileEnteringCancelsOnEnter(t *testing.T) {
	sched := scheduler.NewManual()
	p, enters, exits := newCountingProvider(sched, ProviderOptions{})

	enterDone := false
	p.Enter(func() { enterDone = true })
	sched.Advance(100 * time.Millisecond)
	p.Exit(nil)
	assert.Equal(t, Exiting, p.Status())
	assert.Equal(t, uint64(2), p.Scope().Generation())

	require.NoError(t, sched.Settle(time.Second))
	assert.Equal(t, Exited, p.Status())
	assert.Zero(t, *enters)
	assert.False(t, enterDone)
	assert.Equal(t, 1, *exits)
}

func TestProvider_EnterWhileExitingRestarts(t *testing.T) {
	sched := scheduler.NewManual()
	p, enters, exits := newCountingProvider(sched, ProviderOptions{
		Durations: DurationPatch{Enter: Ptr(300 * time.Millisecond), Exit: Ptr(300 * time.Millisecond)},
	})
	p.Enter(nil)
	require.NoError(t, sched.Settle(time.Second))

	p.Exit(nil)
	sched.Advance(200 * time.Millisecond)
	p.Enter(nil)
	assert.Equal(t, Entering, p.Status())

	// The old exit timer would have fired here.
	sched.Advance(150 * time.Millisecond)
	assert.Equal(t, Entering, p.Status())
	assert.Zero(t, *exits)

	sched.Advance(150 * time.Millisecond)
	assert.Equal(t, Entered, p.Status())
	assert.Equal(t, 2, *enters)
}

func TestProvider_DoubleExitFiresOnExitOnce(t *testing.T) {
	sched := scheduler.NewManual()
	p, _, exits := newCountingProvider(sched, ProviderOptions{})
	p.Enter(nil)
	require.NoError(t, sched.Settle(time.Second))

	var dones int
	p.Exit(func() { dones++ })
	sched.Advance(10 * time.Millisecond)
	gen := p.Scope().Generation()
	p.Exit(func() { dones++ })
	assert.Equal(t, gen, p.Scope().Generation(), "second exit must not restart")

	require.NoError(t, sched.Settle(time.Second))
	assert.Equal(t, 1, *exits)
	assert.Equal(t, 2, dones)

	p.Exit(func() { dones++ })
	assert.Equal(t, 3, dones, "exit on an exited scope completes immediately")
	assert.Equal(t, 1, *exits)
}

func TestProvider_DoubleEnterDoesNotRestartTimer(t *testing.T) {
	sched := scheduler.NewManual()
	p, enters, _ := newCountingProvider(sched, ProviderOptions{})
	p.Enter(nil)
	sched.Advance(300 * time.Millisecond)
	p.Enter(nil)
	sched.Advance(100 * time.Millisecond)

	assert.Equal(t, Entered, p.Status())
	assert.Equal(t, 1, *enters)
	assert.Equal(t, uint64(1), p.Scope().Generation())
}

func TestProvider_ExitBeforeEverEntering(t *testing.T) {
	sched := scheduler.NewManual()
	p, enters, exits := newCountingProvider(sched, ProviderOptions{})
	log := &statusLog{}
	p.Scope().AddStatusListener(log.record)

	done := false
	p.Exit(func() { done = true })
	require.NoError(t, sched.Settle(time.Second))

	assert.True(t, done)
	assert.Equal(t, Exited, p.Status())
	assert.Zero(t, *enters)
	assert.Equal(t, 1, *exits)
	assert.Equal(t, []string{"idle>exiting", "exiting>exited"}, log.changes)
}

func TestProvider_ChildWaitsForParent(t *testing.T) {
	sched := scheduler.NewManual()
	parent := NewProvider(sched, ProviderOptions{Name: "page"})
	child := NewProvider(sched, ProviderOptions{Name: "section", Parent: parent.Scope()})

	parent.Mount()
	child.Mount()
	assert.Equal(t, Idle, child.Status())

	sched.Advance(DefaultDurations.Enter)
	assert.Equal(t, Entered, parent.Status())
	assert.Equal(t, Entering, child.Status())

	parent.Exit(nil)
	assert.Equal(t, Exiting, child.Status())
	require.NoError(t, sched.Settle(time.Second))
	assert.Equal(t, Exited, child.Status())
}

func TestProvider_MountUnderEnteredParentSkipsWait(t *testing.T) {
	sched := scheduler.NewManual()
	parent := NewProvider(sched, ProviderOptions{Initial: Entered})
	parent.Mount()
	assert.Equal(t, Entered, parent.Status())
	assert.Zero(t, parent.Scope().Generation())

	child := NewProvider(sched, ProviderOptions{Parent: parent.Scope()})
	child.Mount()
	assert.Equal(t, Entering, child.Status())
}

func TestProvider_InheritsAndOverridesDurations(t *testing.T) {
	sched := scheduler.NewManual()
	parent := NewProvider(sched, ProviderOptions{
		Durations: DurationPatch{Stagger: Ptr(50 * time.Millisecond)},
	})
	child := NewProvider(sched, ProviderOptions{
		Parent:    parent.Scope(),
		Durations: DurationPatch{Enter: Ptr(820 * time.Millisecond)},
	})

	got := child.Scope().Durations()
	assert.Equal(t, 820*time.Millisecond, got.Enter)
	assert.Equal(t, DefaultDurations.Exit, got.Exit)
	assert.Equal(t, 50*time.Millisecond, got.Stagger)
}

func TestProvider_RemountOfLiveScopeIsNoop(t *testing.T) {
	sched := scheduler.NewManual()
	p, enters, _ := newCountingProvider(sched, ProviderOptions{Name: "header"})
	p.Mount()
	require.NoError(t, sched.Settle(time.Second))

	gen := p.Scope().Generation()
	p.Mount()
	require.NoError(t, sched.Settle(time.Second))
	assert.Equal(t, gen, p.Scope().Generation())
	assert.Equal(t, 1, *enters)
}

func TestProvider_IndependentIgnoresParent(t *testing.T) {
	sched := scheduler.NewManual()
	parent := NewProvider(sched, ProviderOptions{})
	child := NewProvider(sched, ProviderOptions{Parent: parent.Scope(), Independent: true})
	parent.Mount()
	child.Mount()
	require.NoError(t, sched.Settle(time.Second))

	assert.Equal(t, Entered, parent.Status())
	assert.Equal(t, Idle, child.Status())
}

func TestProvider_InitialExitedStaysHidden(t *testing.T) {
	sched := scheduler.NewManual()
	p := NewProvider(sched, ProviderOptions{Initial: Exited})
	p.Mount()
	assert.Zero(t, sched.Pending())
	assert.Equal(t, Exited, p.Status())
}

func TestProvider_DestroyInvalidatesTimersAndCascades(t *testing.T) {
	sched := scheduler.NewManual()
	parent, parentEnters, _ := newCountingProvider(sched, ProviderOptions{})
	destroyed := 0
	child := NewProvider(sched, ProviderOptions{Parent: parent.Scope(), OnDestroy: func() { destroyed++ }})
	parent.Mount()
	child.Mount()
	sched.Advance(100 * time.Millisecond)

	parent.Destroy()
	parent.Destroy()
	require.NoError(t, sched.Settle(time.Second))

	assert.Zero(t, *parentEnters)
	assert.True(t, parent.Scope().Destroyed())
	assert.True(t, child.Scope().Destroyed())
	assert.Equal(t, 1, destroyed)

	parent.Enter(nil)
	assert.Zero(t, sched.Pending())
}

func TestProvider_ListenerPreemptionKeepsEdgeOrder(t *testing.T) {
	sched := scheduler.NewManual()
	p := NewProvider(sched, ProviderOptions{})
	first, second := &statusLog{}, &statusLog{}

	p.Scope().AddStatusListener(func(from, to Status) {
		first.record(from, to)
		if to == Entering {
			p.Exit(nil)
		}
	})
	p.Scope().AddStatusListener(second.record)

	p.Enter(nil)
	assert.Equal(t, []string{"idle>entering", "entering>exiting"}, first.changes)
	assert.Equal(t, first.changes, second.changes)
	assert.Equal(t, Exiting, p.Status())
}
