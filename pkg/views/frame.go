package views

import (
	"strings"

	"github.com/nextcore/choreo/pkg/sound"
	"github.com/nextcore/choreo/pkg/transition"
)

// Frame is the decorative border around a content block.
type Frame struct {
	leaf
	Width int
}

// NewFrame creates a frame leaf for scope.
func NewFrame(env Env, scope *transition.Scope, name string, width int) *Frame {
	if width <= 0 {
		width = 24
	}
	f := &Frame{leaf: newLeaf(env, scope, name), Width: width}
	f.enterCue = sound.Information
	return f
}

// Render draws the top border growing from both corners.
func (f *Frame) Render() string {
	n := int(f.Progress()*float64(f.Width) + 0.5)
	if n == 0 {
		return ""
	}
	return "+" + strings.Repeat("=", n) + "+"
}
