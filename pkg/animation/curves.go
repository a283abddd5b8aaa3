package animation

import "math"

// LinearCurve returns linear progress (no easing).
func LinearCurve(t float64) float64 {
	return t
}

// EaseIn starts slowly and accelerates. Used for elements leaving the page.
var EaseIn = CubicBezier(0.4, 0.0, 1.0, 1.0)

// EaseOut starts quickly and decelerates. Used for elements arriving on the page.
var EaseOut = CubicBezier(0.0, 0.0, 0.2, 1.0)

// EaseInOut starts and ends slowly.
var EaseInOut = CubicBezier(0.4, 0.0, 0.2, 1.0)

// Steps quantizes progress into n discrete jumps, like CSS steps(n, end).
// Text decipher effects use it to reveal whole characters.
func Steps(n int) func(float64) float64 {
	if n <= 0 {
		return LinearCurve
	}
	return func(t float64) float64 {
		if t >= 1 {
			return 1
		}
		return math.Floor(t*float64(n)) / float64(n)
	}
}

// CubicBezier returns a cubic-bezier easing function matching CSS cubic-bezier().
// The curve starts at (0,0) and ends at (1,1).
func CubicBezier(x1, y1, x2, y2 float64) func(float64) float64 {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}

		u := t
		for range 8 {
			x := bezier(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				return bezier(y1, y2, clampUnit(u))
			}
			dx := bezierSlope(x1, x2, u)
			if math.Abs(dx) < 1e-7 {
				break
			}
			u -= x / dx
		}

		// Newton-Raphson did not converge; bisect.
		lo, hi := 0.0, 1.0
		u = clampUnit(u)
		for range 12 {
			x := bezier(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				break
			}
			if x > 0 {
				hi = u
			} else {
				lo = u
			}
			u = (lo + hi) * 0.5
		}
		return bezier(y1, y2, u)
	}
}

func bezier(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*t*a + 3*inv*t*t*b + t*t*t
}

func bezierSlope(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*a + 6*inv*t*(b-a) + 3*t*t*(1-b)
}

func clampUnit(value float64) float64 {
	return math.Max(0, math.Min(1, value))
}
