package views

import (
	"strings"

	"github.com/nextcore/choreo/pkg/animation"
	"github.com/nextcore/choreo/pkg/sound"
	"github.com/nextcore/choreo/pkg/transition"
)

// NavMenu is the site navigation. Items appear one after another while it
// enters and vanish in reverse while it exits.
type NavMenu struct {
	leaf
	Items []string
}

// NewNavMenu creates the menu leaf for scope.
func NewNavMenu(env Env, scope *transition.Scope, items ...string) *NavMenu {
	m := &NavMenu{leaf: newLeaf(env, scope, "menu"), Items: items}
	m.enterCue = sound.Deploy
	m.exitCue = sound.Click
	return m
}

// Visible returns the items currently shown.
func (m *NavMenu) Visible() []string {
	n := animation.TweenInt(0, len(m.Items)).Transform(m.ctrl)
	return m.Items[:n]
}

// Render joins the visible items.
func (m *NavMenu) Render() string {
	return strings.Join(m.Visible(), " | ")
}
