package transition

import "time"

// Durations holds the timing configuration of a scope.
type Durations struct {
	// Enter is how long the entering status lasts.
	Enter time.Duration
	// Exit is how long the exiting status lasts.
	Exit time.Duration
	// Stagger is the per-index delay a Coordinator applies between siblings.
	Stagger time.Duration
}

// DefaultDurations are used by scopes without a parent or explicit timing.
var DefaultDurations = Durations{
	Enter:   400 * time.Millisecond,
	Exit:    400 * time.Millisecond,
	Stagger: 100 * time.Millisecond,
}

// DurationPatch is a partial Durations update. Nil fields are left alone.
type DurationPatch struct {
	Enter   *time.Duration
	Exit    *time.Duration
	Stagger *time.Duration
}

// Merge returns d with the non-nil fields of p applied. Negative values are
// clamped to zero.
func (d Durations) Merge(p DurationPatch) Durations {
	if p.Enter != nil {
		d.Enter = max(*p.Enter, 0)
	}
	if p.Exit != nil {
		d.Exit = max(*p.Exit, 0)
	}
	if p.Stagger != nil {
		d.Stagger = max(*p.Stagger, 0)
	}
	return d
}

// IsZero reports whether p changes nothing.
func (p DurationPatch) IsZero() bool {
	return p.Enter == nil && p.Exit == nil && p.Stagger == nil
}

// Ptr returns a pointer to v. Handy for building a DurationPatch.
func Ptr[T any](v T) *T {
	return &v
}
