package rig

import (
	"math"

	"github.com/lixenwraith/marionette/status"
	"github.com/lixenwraith/marionette/vmath"
)

// Solver projects the skeleton's constraints with fixed-count Gauss-Seidel
// iterations. Strictly sequential: each constraint's correction is applied
// immediately and is visible to the next constraint in the same pass. The
// update order must not be parallelized without re-deriving convergence.
type Solver struct {
	skeleton   *Skeleton
	iterations int
	metrics    *status.Registry
}

// NewSolver creates a solver over a fixed skeleton. metrics may be nil.
func NewSolver(skeleton *Skeleton, iterations int, metrics *status.Registry) *Solver {
	return &Solver{
		skeleton:   skeleton,
		iterations: iterations,
		metrics:    metrics,
	}
}

// SetIterations adjusts the fixed pass count (hot-reloadable knob)
func (s *Solver) SetIterations(n int) {
	s.iterations = n
}

// Solve relaxes the warm-started pose onto the constraint set. Driven nodes
// are re-seeded at the start of every iteration and once more after the last
// pass, so they end exactly on their seeded transforms while acting as soft
// infinite-weight boundaries during relaxation. Every rotation written here
// is renormalized; accumulated float error never leaves the unit manifold.
func (s *Solver) Solve(pose *Pose, drivers *DriverFrame) {
	for iter := 0; iter < s.iterations; iter++ {
		drivers.Seed(pose)
		for i := range s.skeleton.Spherical {
			projectSpherical(pose, &s.skeleton.Spherical[i])
		}
		for i := range s.skeleton.Distance {
			projectDistance(pose, &s.skeleton.Distance[i])
		}
	}
	drivers.Seed(pose)

	if s.metrics != nil {
		s.metrics.Int(status.KeyIterations).Store(int64(s.iterations))
		s.metrics.Float(status.KeySphericalResidual).Set(s.sphericalResidual(pose))
		s.metrics.Float(status.KeyDistanceResidual).Set(s.distanceResidual(pose))
	}
}

// leverWeight approximates a unit-mass, unit-inertia body's resistance to a
// correction applied at lever arm r: w = inv_mass + r×n · inv_inertia · r×n,
// evaluated per axis pair
func leverWeight(r vmath.Vec3) vmath.Vec3 {
	sq := vmath.V3Mul(r, r)
	return vmath.Vec3{
		X: 1 + sq.Y + sq.Z,
		Y: 1 + sq.Z + sq.X,
		Z: 1 + sq.X + sq.Y,
	}
}

// applyCorrection moves both bodies symmetrically and rotates them with the
// first-order quaternion update, opposite signs for A and B
func applyCorrection(pose *Pose, a, b NodeID, r1, r2, correction vmath.Vec3) {
	pose.Positions[a] = vmath.V3Add(pose.Positions[a], correction)
	pose.Positions[b] = vmath.V3Sub(pose.Positions[b], correction)
	pose.Rotations[a] = vmath.QAngularStep(pose.Rotations[a], vmath.V3Cross(r1, correction))
	pose.Rotations[b] = vmath.QAngularStep(pose.Rotations[b], vmath.V3Neg(vmath.V3Cross(r2, correction)))
}

func projectSpherical(pose *Pose, c *SphericalConstraint) {
	r1 := vmath.QRotate(pose.Rotations[c.NodeA], c.PointInA)
	r2 := vmath.QRotate(pose.Rotations[c.NodeB], c.PointInB)
	w1 := leverWeight(r1)
	w2 := leverWeight(r2)

	p1 := vmath.V3Add(pose.Positions[c.NodeA], r1)
	p2 := vmath.V3Add(pose.Positions[c.NodeB], r2)
	err := vmath.V3Sub(p1, p2)

	// Weight components are >= 2 by construction, the division is safe
	correction := vmath.V3Neg(vmath.V3Div(err, vmath.V3Add(w1, w2)))
	applyCorrection(pose, c.NodeA, c.NodeB, r1, r2, correction)
}

func projectDistance(pose *Pose, c *DistanceConstraint) {
	r1 := vmath.QRotate(pose.Rotations[c.NodeA], c.PointInA)
	r2 := vmath.QRotate(pose.Rotations[c.NodeB], c.PointInB)
	w1 := leverWeight(r1)
	w2 := leverWeight(r2)

	p1 := vmath.V3Add(pose.Positions[c.NodeA], r1)
	p2 := vmath.V3Add(pose.Positions[c.NodeB], r2)
	v := vmath.V3Sub(p1, p2)
	length := vmath.V3Mag(v)
	if length < vmath.Epsilon {
		// Coincident attachment points leave no correction direction; skip
		// this pass rather than divide toward NaN
		return
	}

	errScalar := length - c.Distance
	w := vmath.V3Add(w1, w2)
	correction := vmath.Vec3{
		X: -errScalar * v.X / (w.X * length),
		Y: -errScalar * v.Y / (w.Y * length),
		Z: -errScalar * v.Z / (w.Z * length),
	}
	applyCorrection(pose, c.NodeA, c.NodeB, r1, r2, correction)
}

// sphericalResidual is the largest world-space attachment error in the pose
func (s *Solver) sphericalResidual(pose *Pose) float64 {
	max := 0.0
	for i := range s.skeleton.Spherical {
		c := &s.skeleton.Spherical[i]
		p1 := vmath.V3Add(pose.Positions[c.NodeA], vmath.QRotate(pose.Rotations[c.NodeA], c.PointInA))
		p2 := vmath.V3Add(pose.Positions[c.NodeB], vmath.QRotate(pose.Rotations[c.NodeB], c.PointInB))
		if d := vmath.V3Mag(vmath.V3Sub(p1, p2)); d > max {
			max = d
		}
	}
	return max
}

// distanceResidual is the largest separation error against rest distance
func (s *Solver) distanceResidual(pose *Pose) float64 {
	max := 0.0
	for i := range s.skeleton.Distance {
		c := &s.skeleton.Distance[i]
		p1 := vmath.V3Add(pose.Positions[c.NodeA], vmath.QRotate(pose.Rotations[c.NodeA], c.PointInA))
		p2 := vmath.V3Add(pose.Positions[c.NodeB], vmath.QRotate(pose.Rotations[c.NodeB], c.PointInB))
		if d := math.Abs(vmath.V3Mag(vmath.V3Sub(p1, p2)) - c.Distance); d > max {
			max = d
		}
	}
	return max
}
