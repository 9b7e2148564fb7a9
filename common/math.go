package common

import "math"

// Clamp bounds v to [lo, hi]. When hi < lo the result is lo.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// Frac returns the fractional part of v in [0, 1).
func Frac(v float64) float64 {
	return v - math.Floor(v)
}
