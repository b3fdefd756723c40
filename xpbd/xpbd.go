// Package xpbd advances a particle system with position-based dynamics:
// predict positions from integrated velocity, let external resolvers correct
// the predictions, then derive velocity from the realized displacement.
// Velocity is never trusted from force integration alone.
package xpbd

import (
	"github.com/lixenwraith/marionette/vmath"
)

// ShapeConstraintSet is the opaque constraint collection owned by the shape
// matching collaborator; the pipeline only carries it through.
type ShapeConstraintSet any

// ShapeMatcher corrects predicted positions toward matched rigid shapes.
// Compliance is the inverse stiffness; invMass and dt convert it to an
// effective per-substep stiffness. Corrections are applied in place.
type ShapeMatcher interface {
	Resolve(next []vmath.Vec3, shapes ShapeConstraintSet, compliance, invMass, dt float64)

	// Damp pulls velocities a fraction per second toward the rigid body
	// motion implied by the shape matching targets
	Damp(next []vmath.Vec3, velocities []vmath.Vec3, shapes ShapeConstraintSet, damping, dt float64)
}

// CollisionResolver corrects predicted positions against the scene in place.
// stictionFactor bounds tangential correction relative to the correction
// along the contact normal.
type CollisionResolver interface {
	Resolve(next []vmath.Vec3, stictionFactor float64)
}

// SimulationParams are the tunable substep knobs
type SimulationParams struct {
	Dt              float64
	Acc             vmath.Vec3
	ParticleMass    float64
	ShapeCompliance float64
	ShapeDamping    float64
	StictionFactor  float64
}

// State owns the particle system's positional truth: parallel, index-aligned
// position and velocity arrays plus the opaque shape constraint set.
type State struct {
	PositionsCurr []vmath.Vec3
	Velocities    []vmath.Vec3
	Shapes        ShapeConstraintSet

	// scratch holds the predicted positions between pipeline stages,
	// reused across substeps to keep the tick allocation-free
	scratch []vmath.Vec3
}

// NewState creates a particle state with n particles at rest
func NewState(n int) *State {
	return &State{
		PositionsCurr: make([]vmath.Vec3, n),
		Velocities:    make([]vmath.Vec3, n),
		scratch:       make([]vmath.Vec3, n),
	}
}

// Substep advances the particle system by one fixed step. Stage order is
// fixed and strictly sequential. Nil collaborators are skipped; a resolver
// boundary failure is the collaborator's to contain and must never leave the
// arrays inconsistent.
func (s *State) Substep(shapes ShapeMatcher, collisions CollisionResolver, params *SimulationParams) {
	dt := params.Dt

	// Apply external forces
	for i := range s.Velocities {
		s.Velocities[i] = vmath.V3Add(s.Velocities[i], vmath.V3Scale(params.Acc, dt))
	}

	// Predict new positions
	if cap(s.scratch) < len(s.PositionsCurr) {
		s.scratch = make([]vmath.Vec3, len(s.PositionsCurr))
	}
	next := s.scratch[:len(s.PositionsCurr)]
	for i, curr := range s.PositionsCurr {
		next[i] = vmath.V3Add(curr, vmath.V3Scale(s.Velocities[i], dt))
	}

	// Resolve shape matching constraints
	if shapes != nil {
		shapes.Resolve(next, s.Shapes, params.ShapeCompliance, 1.0/params.ParticleMass, dt)
	}

	// Resolve collisions
	if collisions != nil {
		collisions.Resolve(next, params.StictionFactor)
	}

	// Update velocities from realized displacement
	invDt := 1.0 / dt
	for i := range s.Velocities {
		s.Velocities[i] = vmath.V3Scale(vmath.V3Sub(next[i], s.PositionsCurr[i]), invDt)
	}

	// Damp toward rigid body motion
	if shapes != nil {
		shapes.Damp(next, s.Velocities, s.Shapes, params.ShapeDamping, dt)
	}

	// Commit: the predicted buffer becomes current, the old current becomes
	// next substep's scratch
	s.PositionsCurr, s.scratch = next, s.PositionsCurr
}
