package xpbd

import (
	"testing"

	"github.com/lixenwraith/marionette/parameter"
	"github.com/lixenwraith/marionette/vmath"
)

func testParams() *SimulationParams {
	return &SimulationParams{
		Dt:              parameter.SubstepDt,
		ParticleMass:    parameter.ParticleMass,
		ShapeCompliance: parameter.ShapeCompliance,
		ShapeDamping:    parameter.ShapeDamping,
		StictionFactor:  parameter.StictionFactor,
	}
}

// shiftMatcher displaces every predicted position by a fixed delta and
// records the damping call
type shiftMatcher struct {
	delta      vmath.Vec3
	dampCalled bool
}

func (m *shiftMatcher) Resolve(next []vmath.Vec3, _ ShapeConstraintSet, _, _, _ float64) {
	for i := range next {
		next[i] = vmath.V3Add(next[i], m.delta)
	}
}

func (m *shiftMatcher) Damp(_ []vmath.Vec3, _ []vmath.Vec3, _ ShapeConstraintSet, _, _ float64) {
	m.dampCalled = true
}

// floorResolver clamps predicted positions to y >= 0
type floorResolver struct{}

func (floorResolver) Resolve(next []vmath.Vec3, _ float64) {
	for i := range next {
		if next[i].Y < 0 {
			next[i].Y = 0
		}
	}
}

func TestSubstepBallistic(t *testing.T) {
	// No acceleration and no collaborators: velocity constant, positions
	// advance linearly
	s := NewState(3)
	s.PositionsCurr[1] = vmath.Vec3{X: 1}
	for i := range s.Velocities {
		s.Velocities[i] = vmath.Vec3{X: 2, Y: 1}
	}
	params := testParams()

	start := make([]vmath.Vec3, len(s.PositionsCurr))
	copy(start, s.PositionsCurr)

	const steps = 4
	for i := 0; i < steps; i++ {
		s.Substep(nil, nil, params)
	}

	for i := range s.PositionsCurr {
		want := vmath.V3Add(start[i], vmath.V3Scale(vmath.Vec3{X: 2, Y: 1}, steps*params.Dt))
		if !vmath.V3ApproxEq(s.PositionsCurr[i], want, 1e-12) {
			t.Errorf("particle %d at %+v, want %+v", i, s.PositionsCurr[i], want)
		}
		if !vmath.V3ApproxEq(s.Velocities[i], vmath.Vec3{X: 2, Y: 1}, 1e-12) {
			t.Errorf("particle %d velocity drifted to %+v", i, s.Velocities[i])
		}
	}
}

func TestSubstepGravityIntegration(t *testing.T) {
	s := NewState(1)
	params := testParams()
	params.Acc = vmath.Vec3{Y: parameter.GravityY}

	s.Substep(nil, nil, params)

	wantVel := parameter.GravityY * params.Dt
	if !vmath.ApproxEq(s.Velocities[0].Y, wantVel, 1e-12) {
		t.Errorf("velocity = %v, want %v", s.Velocities[0].Y, wantVel)
	}
	// Semi-implicit: the new velocity moves the position this substep
	if !vmath.ApproxEq(s.PositionsCurr[0].Y, wantVel*params.Dt, 1e-12) {
		t.Errorf("position = %v, want %v", s.PositionsCurr[0].Y, wantVel*params.Dt)
	}
}

func TestSubstepVelocityReconciliation(t *testing.T) {
	// Shape matching moves the prediction by a known delta; the recomputed
	// velocity must be displacement/dt, not the integrated velocity
	s := NewState(2)
	for i := range s.Velocities {
		s.Velocities[i] = vmath.Vec3{X: 1}
	}
	params := testParams()
	m := &shiftMatcher{delta: vmath.Vec3{Y: 0.05}}

	s.Substep(m, nil, params)

	for i := range s.Velocities {
		want := vmath.Vec3{X: 1, Y: 0.05 / params.Dt}
		if !vmath.V3ApproxEq(s.Velocities[i], want, 1e-9) {
			t.Errorf("particle %d velocity = %+v, want %+v", i, s.Velocities[i], want)
		}
	}
	if !m.dampCalled {
		t.Error("damping pass must run after velocity update")
	}
}

func TestSubstepCollisionOrder(t *testing.T) {
	// A particle predicted below the floor gets clamped; velocity reflects
	// the clamped displacement
	s := NewState(1)
	s.PositionsCurr[0] = vmath.Vec3{Y: 0.001}
	s.Velocities[0] = vmath.Vec3{Y: -10}
	params := testParams()

	s.Substep(nil, floorResolver{}, params)

	if s.PositionsCurr[0].Y != 0 {
		t.Errorf("position = %v, want clamped to floor", s.PositionsCurr[0].Y)
	}
	wantVel := (0.0 - 0.001) / params.Dt
	if !vmath.ApproxEq(s.Velocities[0].Y, wantVel, 1e-9) {
		t.Errorf("velocity = %v, want %v", s.Velocities[0].Y, wantVel)
	}
}

func TestSubstepNoAllocSteadyState(t *testing.T) {
	s := NewState(64)
	params := testParams()
	s.Substep(nil, nil, params)

	allocs := testing.AllocsPerRun(100, func() {
		s.Substep(nil, nil, params)
	})
	if allocs != 0 {
		t.Errorf("substep allocates %v times per run", allocs)
	}
}
