package vmath

import "math"

// Quat is a rotation quaternion (X, Y, Z imaginary, W real).
// All functions assume and preserve unit norm unless noted.
type Quat struct {
	X, Y, Z, W float64
}

// QIdentity returns the identity rotation
func QIdentity() Quat {
	return Quat{W: 1}
}

// QMul returns the Hamilton product a⊗b (apply b first, then a)
func QMul(a, b Quat) Quat {
	return Quat{
		X: a.W*b.X + a.X*b.W + a.Y*b.Z - a.Z*b.Y,
		Y: a.W*b.Y - a.X*b.Z + a.Y*b.W + a.Z*b.X,
		Z: a.W*b.Z + a.X*b.Y - a.Y*b.X + a.Z*b.W,
		W: a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z,
	}
}

// QConjugate returns the inverse rotation for unit quaternions
func QConjugate(q Quat) Quat {
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

func QNorm(q Quat) float64 {
	return math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// QNormalize rescales to unit norm, returning identity for degenerate input
func QNormalize(q Quat) Quat {
	norm := QNorm(q)
	if norm < Epsilon {
		return QIdentity()
	}
	inv := 1.0 / norm
	return Quat{q.X * inv, q.Y * inv, q.Z * inv, q.W * inv}
}

// QRotate rotates v by q: q ⊗ v ⊗ q*
func QRotate(q Quat, v Vec3) Vec3 {
	qv := Vec3{q.X, q.Y, q.Z}
	t := V3Scale(V3Cross(qv, v), 2)
	return V3Add(V3Add(v, V3Scale(t, q.W)), V3Cross(qv, t))
}

// QFromAxisAngle builds a rotation of angle radians around a unit axis
func QFromAxisAngle(axis Vec3, angle float64) Quat {
	half := angle * 0.5
	s := math.Sin(half)
	return Quat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: math.Cos(half),
	}
}

// QFromYRotation builds a yaw rotation around the world up axis
func QFromYRotation(angle float64) Quat {
	return QFromAxisAngle(UnitY, angle)
}

// QAngularStep applies a small angular displacement omega to q using the
// first-order exponential map update q ← normalize(q + 0.5·(ω,0)⊗q).
// Negating omega yields the opposite-signed update.
func QAngularStep(q Quat, omega Vec3) Quat {
	d := QMul(Quat{X: omega.X, Y: omega.Y, Z: omega.Z}, q)
	return QNormalize(Quat{
		X: q.X + 0.5*d.X,
		Y: q.Y + 0.5*d.Y,
		Z: q.Z + 0.5*d.Z,
		W: q.W + 0.5*d.W,
	})
}

// QDot returns the 4D dot product
func QDot(a, b Quat) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
}

// QApproxEq reports whether a and b represent nearly the same rotation,
// treating q and -q as equal
func QApproxEq(a, b Quat, tol float64) bool {
	return math.Abs(QDot(a, b)) > 1-tol
}
