package views

import (
	"time"

	"github.com/nextcore/choreo/pkg/animation"
	"github.com/nextcore/choreo/pkg/sound"
	"github.com/nextcore/choreo/pkg/transition"
)

// Typing speed bounds for Text.
const (
	DefaultCharDuration = 20 * time.Millisecond
	MinTextDuration     = 200 * time.Millisecond
	MaxTextDuration     = 2 * time.Second
)

// Text types its content out rune by rune with a typing cue.
type Text struct {
	leaf
	content      []rune
	CharDuration time.Duration
}

// NewText creates a text leaf for scope.
func NewText(env Env, scope *transition.Scope, name, content string) *Text {
	t := &Text{leaf: newLeaf(env, scope, name), content: []rune(content), CharDuration: DefaultCharDuration}
	t.enterCue = sound.Typing
	t.enterEase = animation.Steps(len(t.content))
	return t
}

// TypingDuration is the entrance length for the content, clamped to
// [MinTextDuration, MaxTextDuration].
func (t *Text) TypingDuration() time.Duration {
	d := time.Duration(len(t.content)) * t.CharDuration
	return min(max(d, MinTextDuration), MaxTextDuration)
}

// ConfigureScope sizes the scope's entrance to the text length.
func (t *Text) ConfigureScope(scope *transition.Scope) {
	scope.UpdateDuration(transition.DurationPatch{Enter: transition.Ptr(t.TypingDuration())})
}

// Render returns the revealed prefix.
func (t *Text) Render() string {
	n := animation.TweenInt(0, len(t.content)).Transform(t.ctrl)
	return string(t.content[:n])
}
