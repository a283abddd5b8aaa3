package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/nextcore/choreo/pkg/sound"
	"github.com/nextcore/choreo/pkg/transition"
)

// BrandEnterDuration is how long the brand mark takes to draw its outline.
const BrandEnterDuration = 820 * time.Millisecond

// BrandMark is the festival logo. Its outline is stroked in on enter.
type BrandMark struct {
	leaf
	Title string
}

// NewBrandMark creates the logo leaf for scope.
func NewBrandMark(env Env, scope *transition.Scope, title string) *BrandMark {
	b := &BrandMark{leaf: newLeaf(env, scope, "brand"), Title: title}
	b.enterCue = sound.Deploy
	return b
}

// ConfigureScope lengthens the scope's entrance to fit the stroke animation.
func (b *BrandMark) ConfigureScope(scope *transition.Scope) {
	scope.UpdateDuration(transition.DurationPatch{Enter: transition.Ptr(BrandEnterDuration)})
}

// Render draws the stroke progress bar and, once fully drawn, the title.
func (b *BrandMark) Render() string {
	const width = 10
	filled := int(b.Progress()*width + 0.5)
	bar := strings.Repeat("#", filled) + strings.Repeat("-", width-filled)
	if filled < width {
		return fmt.Sprintf("[%s]", bar)
	}
	return fmt.Sprintf("[%s] %s", bar, b.Title)
}
