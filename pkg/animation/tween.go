package animation

import "math"

// Tween interpolates between Begin and End based on animation progress.
type Tween[T any] struct {
	Begin T
	End   T
	// Lerp interpolates between a and b at t in [0, 1].
	Lerp func(a, b T, t float64) T
}

// Evaluate returns the interpolated value at t.
func (tw *Tween[T]) Evaluate(t float64) T {
	if tw.Lerp == nil {
		return tw.End
	}
	return tw.Lerp(tw.Begin, tw.End, t)
}

// Transform returns the interpolated value at the controller's current value.
func (tw *Tween[T]) Transform(c *Controller) T {
	return tw.Evaluate(c.Value)
}

// LerpFloat64 linearly interpolates between two float64 values.
func LerpFloat64(a, b float64, t float64) float64 {
	return a + (b-a)*t
}

// LerpInt interpolates between two ints, rounding to the nearest value.
func LerpInt(a, b int, t float64) int {
	return int(math.Round(LerpFloat64(float64(a), float64(b), t)))
}

// TweenFloat64 creates a float64 tween.
func TweenFloat64(begin, end float64) *Tween[float64] {
	return &Tween[float64]{Begin: begin, End: end, Lerp: LerpFloat64}
}

// TweenInt creates an int tween. Typed text uses it to count revealed runes.
func TweenInt(begin, end int) *Tween[int] {
	return &Tween[int]{Begin: begin, End: end, Lerp: LerpInt}
}
