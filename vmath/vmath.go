// Package vmath provides float64 vector, quaternion and rigid transform math
// for the pose solver. All rotations are unit quaternions; all transforms are
// rotation + translation only (no scale, no shear).
package vmath

import "math"

// Epsilon guards divisions by near-zero denominators (separation lengths,
// weight sums). Values below it are treated as degenerate.
const Epsilon = 1e-9

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// ApproxEq reports whether a and b differ by less than tol
func ApproxEq(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}
