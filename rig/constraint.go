package rig

import "github.com/lixenwraith/marionette/vmath"

// SphericalConstraint is a ball joint: the world-space images of the two
// local attachment points must coincide. Immutable once built; constraints
// encode anatomy, not runtime state.
type SphericalConstraint struct {
	NodeA    NodeID
	NodeB    NodeID
	PointInA vmath.Vec3
	PointInB vmath.Vec3
}

// DistanceConstraint keeps the two attachment points separated by exactly
// Distance. Same immutability as SphericalConstraint.
type DistanceConstraint struct {
	NodeA    NodeID
	NodeB    NodeID
	PointInA vmath.Vec3
	PointInB vmath.Vec3
	Distance float64
}
