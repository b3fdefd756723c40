package rig

import (
	"math"
	"testing"

	"github.com/lixenwraith/marionette/status"
	"github.com/lixenwraith/marionette/vmath"
)

// chainSolver builds a solver over a single constraint with Torso driven at
// the origin and Pelvis free
func chainDrivers() *DriverFrame {
	var d DriverFrame
	d.Set(Torso, vmath.TIdentity())
	return &d
}

func attachmentError(pose *Pose, c *SphericalConstraint) float64 {
	p1 := vmath.V3Add(pose.Positions[c.NodeA], vmath.QRotate(pose.Rotations[c.NodeA], c.PointInA))
	p2 := vmath.V3Add(pose.Positions[c.NodeB], vmath.QRotate(pose.Rotations[c.NodeB], c.PointInB))
	return vmath.V3Mag(vmath.V3Sub(p1, p2))
}

func separation(pose *Pose, c *DistanceConstraint) float64 {
	p1 := vmath.V3Add(pose.Positions[c.NodeA], vmath.QRotate(pose.Rotations[c.NodeA], c.PointInA))
	p2 := vmath.V3Add(pose.Positions[c.NodeB], vmath.QRotate(pose.Rotations[c.NodeB], c.PointInB))
	return vmath.V3Mag(vmath.V3Sub(p1, p2))
}

func TestSphericalChainConverges(t *testing.T) {
	sk := &Skeleton{
		Spherical: []SphericalConstraint{{
			NodeA:    Torso,
			NodeB:    Pelvis,
			PointInA: vmath.Vec3{Y: -0.2},
			PointInB: vmath.Vec3{Y: 0.1},
		}},
	}
	pose := NewPose()
	pose.Positions[Pelvis] = vmath.Vec3{X: 0.4, Y: 0.3}

	NewSolver(sk, 50, nil).Solve(pose, chainDrivers())

	if err := attachmentError(pose, &sk.Spherical[0]); err > 1e-3 {
		t.Errorf("attachment error = %v, want < 1e-3", err)
	}
}

func TestDistanceChainConverges(t *testing.T) {
	sk := &Skeleton{
		Distance: []DistanceConstraint{{
			NodeA:    Torso,
			NodeB:    LeftUpperArm,
			PointInA: vmath.Vec3{X: -0.03, Y: 0.2},
			PointInB: vmath.Vec3{Z: 0.14},
			Distance: 0.17,
		}},
	}
	pose := NewPose()
	pose.Positions[LeftUpperArm] = vmath.Vec3{X: -0.6, Y: 0.1}

	NewSolver(sk, 50, nil).Solve(pose, chainDrivers())

	got := separation(pose, &sk.Distance[0])
	if math.Abs(got-0.17) > 1e-3 {
		t.Errorf("separation = %v, want 0.17", got)
	}
}

func TestDistanceDegenerateCoincidentPoints(t *testing.T) {
	// Coincident attachment points have no correction direction; the solver
	// must skip the pass instead of producing NaN
	sk := &Skeleton{
		Distance: []DistanceConstraint{{
			NodeA:    Torso,
			NodeB:    Pelvis,
			Distance: 0.3,
		}},
	}
	pose := NewPose()

	NewSolver(sk, 10, nil).Solve(pose, chainDrivers())

	for node := NodeID(0); node < NodeCount; node++ {
		p := pose.Positions[node]
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Z) {
			t.Fatalf("node %v position is NaN", node)
		}
		if math.IsNaN(vmath.QNorm(pose.Rotations[node])) {
			t.Fatalf("node %v rotation is NaN", node)
		}
	}
}

// fullRigSetup runs driver resolution, locomotion and balance seeding the
// way a tick does, returning everything needed to solve
func fullRigSetup(t *testing.T) (*Solver, *Pose, *DriverFrame) {
	t.Helper()
	p := defaultRig()
	in := standingFrame()
	loco := &LocomotionState{}

	d := ResolveDrivers(in, loco, p)
	res := loco.Step(d.Base(), d.Transforms[LeftFoot], d.Transforms[RightFoot], p)
	d.Set(BalancePoint, vmath.TMul(d.Base(), vmath.TFromTranslation(res.BalanceInBase)))

	solver := NewSolver(BuildSkeleton(p), p.SolverIterations, nil)
	return solver, NewPose(), &d
}

func TestFullRigRotationsStayUnit(t *testing.T) {
	solver, pose, d := fullRigSetup(t)

	// Warm-started ticks accumulate convergence the way the runtime does
	for tick := 0; tick < 30; tick++ {
		solver.Solve(pose, d)
	}

	for node := NodeID(0); node < NodeCount; node++ {
		if norm := vmath.QNorm(pose.Rotations[node]); math.Abs(norm-1) > 1e-5 {
			t.Errorf("node %v rotation norm = %v", node, norm)
		}
	}
}

func TestFullRigConverges(t *testing.T) {
	solver, pose, d := fullRigSetup(t)
	sk := BuildSkeleton(defaultRig())

	for tick := 0; tick < 60; tick++ {
		solver.Solve(pose, d)
	}

	for i := range sk.Spherical {
		if err := attachmentError(pose, &sk.Spherical[i]); err > 1e-2 {
			t.Errorf("spherical %d error = %v, want < 1e-2", i, err)
		}
	}
	for i := range sk.Distance {
		got := separation(pose, &sk.Distance[i])
		if math.Abs(got-sk.Distance[i].Distance) > 1e-2 {
			t.Errorf("distance %d separation = %v, want %v", i, got, sk.Distance[i].Distance)
		}
	}
}

func TestDrivenNodesEndOnSeeds(t *testing.T) {
	solver, pose, d := fullRigSetup(t)
	solver.Solve(pose, d)

	for node := NodeID(0); node < NodeCount; node++ {
		if !d.Driven[node] {
			continue
		}
		if pose.Positions[node] != d.Transforms[node].Translation {
			t.Errorf("driven node %v drifted to %+v", node, pose.Positions[node])
		}
		if pose.Rotations[node] != d.Transforms[node].Rotation {
			t.Errorf("driven node %v rotation drifted", node)
		}
	}
}

func TestSolverIdempotentAtFixedPoint(t *testing.T) {
	solver, pose, d := fullRigSetup(t)

	// Converge hard, then one more solve must be a near no-op
	converged := NewSolver(BuildSkeleton(defaultRig()), 300, nil)
	converged.Solve(pose, d)

	before := *pose
	solver.Solve(pose, d)

	for node := NodeID(0); node < NodeCount; node++ {
		if !vmath.V3ApproxEq(pose.Positions[node], before.Positions[node], 1e-6) {
			t.Errorf("node %v moved %v at fixed point", node,
				vmath.V3Mag(vmath.V3Sub(pose.Positions[node], before.Positions[node])))
		}
	}
}

func TestSolverDeterministic(t *testing.T) {
	s1, p1, d1 := fullRigSetup(t)
	s2, p2, d2 := fullRigSetup(t)

	for tick := 0; tick < 5; tick++ {
		s1.Solve(p1, d1)
		s2.Solve(p2, d2)
	}
	if *p1 != *p2 {
		t.Error("identical inputs must produce identical poses")
	}
}

func TestSolverWritesResiduals(t *testing.T) {
	reg := status.NewRegistry()
	p := defaultRig()
	solver := NewSolver(BuildSkeleton(p), p.SolverIterations, reg)

	_, pose, d := fullRigSetup(t)
	solver.Solve(pose, d)

	if got := reg.Int(status.KeyIterations).Load(); got != int64(p.SolverIterations) {
		t.Errorf("iterations metric = %d, want %d", got, p.SolverIterations)
	}
	if reg.Float(status.KeySphericalResidual).Get() <= 0 {
		t.Error("cold-start solve should leave a positive spherical residual")
	}
}
