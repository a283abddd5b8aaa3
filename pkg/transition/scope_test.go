package transition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusText(t *testing.T) {
	for s := Idle; s <= Exited; s++ {
		text, err := s.MarshalText()
		require.NoError(t, err)
		var back Status
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, s, back)
	}

	var s Status
	require.NoError(t, s.UnmarshalText([]byte(" Entered ")))
	assert.Equal(t, Entered, s)
	assert.Error(t, s.UnmarshalText([]byte("visible")))
	assert.Equal(t, "Status(7)", Status(7).String())
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, Entering.Active())
	assert.True(t, Entered.Active())
	assert.False(t, Exiting.Active())
	assert.True(t, Idle.Settled())
	assert.False(t, Exiting.Settled())
}

func TestDurationsMerge(t *testing.T) {
	d := DefaultDurations.Merge(DurationPatch{Enter: Ptr(820 * time.Millisecond)})
	assert.Equal(t, 820*time.Millisecond, d.Enter)
	assert.Equal(t, DefaultDurations.Exit, d.Exit)
	assert.Equal(t, DefaultDurations.Stagger, d.Stagger)

	d = d.Merge(DurationPatch{Exit: Ptr(-time.Second)})
	assert.Zero(t, d.Exit)
	assert.True(t, DurationPatch{}.IsZero())
}

func TestScopeListeners(t *testing.T) {
	s := newScope("s", nil, DefaultDurations, Idle)
	var got []Status
	remove := s.AddStatusListener(func(_, to Status) { got = append(got, to) })
	destroyed := 0
	s.AddDestroyListener(func() { destroyed++ })
	removed := s.AddDestroyListener(func() { destroyed += 10 })
	removed()

	s.setStatus(Entering)
	s.setStatus(Entering)
	remove()
	s.setStatus(Entered)
	assert.Equal(t, []Status{Entering}, got)

	s.destroy()
	s.destroy()
	assert.Equal(t, 1, destroyed)
	assert.True(t, s.Destroyed())
}

func TestHandleFuncs(t *testing.T) {
	calls := 0
	h := HandleFuncs{EnterFunc: func(done func()) { calls++; done() }}
	done := 0
	h.Enter(func() { done++ })
	h.Exit(func() { done++ })
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, done)
}
