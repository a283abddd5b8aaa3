// Package views implements the leaf views of the festival site: the brand
// mark, the navigation menu, typed text and decorative frames.
//
// Each view animates itself with an [animation.Controller], plays its sound
// cue and reports completion through the done callback of the
// [transition.Handle] contract. Views read their timing from the scope they
// were built for.
package views

import (
	"time"

	"github.com/nextcore/choreo/pkg/animation"
	"github.com/nextcore/choreo/pkg/scheduler"
	"github.com/nextcore/choreo/pkg/sound"
	"github.com/nextcore/choreo/pkg/transition"
)

// View is a leaf that can be wired into a lifecycle bridge and rendered.
type View interface {
	transition.Handle
	Name() string
	// Progress is the visual progress, 0 hidden and 1 fully shown.
	Progress() float64
	// Render draws the view's current state as text.
	Render() string
}

// Env carries what every view needs.
type Env struct {
	Sched  scheduler.Scheduler
	Sounds *sound.Sounds
}

type leaf struct {
	name      string
	env       Env
	scope     *transition.Scope
	ctrl      *animation.Controller
	enterCue  string
	exitCue   string
	enterEase func(float64) float64
}

func newLeaf(env Env, scope *transition.Scope, name string) leaf {
	if env.Sounds == nil {
		env.Sounds = sound.New(nil)
	}
	return leaf{
		name:      name,
		env:       env,
		scope:     scope,
		ctrl:      animation.NewController(env.Sched, 0),
		enterEase: animation.EaseOut,
	}
}

func (l *leaf) Name() string { return l.name }

func (l *leaf) Progress() float64 { return l.ctrl.Value }

func (l *leaf) durations() transition.Durations {
	if l.scope == nil {
		return transition.DefaultDurations
	}
	return l.scope.Durations()
}

// Enter plays the enter cue and animates to fully shown.
func (l *leaf) Enter(done func()) {
	if l.enterCue != "" {
		l.env.Sounds.Play(l.enterCue)
	}
	l.run(l.durations().Enter, l.enterEase, true, done)
}

// Exit plays the exit cue and animates to hidden.
func (l *leaf) Exit(done func()) {
	if l.exitCue != "" {
		l.env.Sounds.Play(l.exitCue)
	}
	l.run(l.durations().Exit, animation.EaseIn, false, done)
}

func (l *leaf) run(d time.Duration, curve func(float64) float64, forward bool, done func()) {
	l.ctrl.Duration = d
	l.ctrl.Curve = curve
	if forward {
		l.ctrl.Forward(done)
	} else {
		l.ctrl.Reverse(done)
	}
}
