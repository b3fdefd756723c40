package vmath

import "math"

// Vec3 is a float64 3D vector
type Vec3 struct {
	X, Y, Z float64
}

var (
	// UnitX is the +X basis vector
	UnitX = Vec3{X: 1}
	// UnitY is the +Y basis vector (world up)
	UnitY = Vec3{Y: 1}
	// UnitZ is the +Z basis vector
	UnitZ = Vec3{Z: 1}
)

func V3Add(a, b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func V3Sub(a, b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func V3Scale(v Vec3, s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// V3Mul multiplies component-wise
func V3Mul(a, b Vec3) Vec3 {
	return Vec3{a.X * b.X, a.Y * b.Y, a.Z * b.Z}
}

// V3Div divides component-wise, caller guarantees non-zero b
func V3Div(a, b Vec3) Vec3 {
	return Vec3{a.X / b.X, a.Y / b.Y, a.Z / b.Z}
}

func V3Neg(v Vec3) Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

func V3Dot(a, b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func V3Cross(a, b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func V3MagSq(v Vec3) float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func V3Mag(v Vec3) float64 {
	return math.Sqrt(V3MagSq(v))
}

// V3Normalize returns the unit vector, or the zero vector when the magnitude
// is below Epsilon
func V3Normalize(v Vec3) Vec3 {
	mag := V3Mag(v)
	if mag < Epsilon {
		return Vec3{}
	}
	inv := 1.0 / mag
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

func V3Lerp(a, b Vec3, t float64) Vec3 {
	return Vec3{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// V3ApproxEq reports whether all components of a and b differ by less than tol
func V3ApproxEq(a, b Vec3, tol float64) bool {
	return ApproxEq(a.X, b.X, tol) && ApproxEq(a.Y, b.Y, tol) && ApproxEq(a.Z, b.Z, tol)
}
