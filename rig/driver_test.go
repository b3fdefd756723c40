package rig

import (
	"math"
	"testing"

	"github.com/lixenwraith/marionette/vmath"
)

// standingFrame is a neutral upright tracking input. The HMD height leaves a
// little slack in the leg chain so the full constraint set is satisfiable.
func standingFrame() *TrackingFrame {
	return &TrackingFrame{
		HmdInStage:       vmath.TFromTranslation(vmath.Vec3{Y: 1.55}),
		LeftGripInStage:  vmath.TFromTranslation(vmath.Vec3{X: -0.3, Y: 1.0, Z: -0.2}),
		LeftAimInStage:   vmath.TFromTranslation(vmath.Vec3{X: -0.3, Y: 1.0, Z: -0.25}),
		RightGripInStage: vmath.TFromTranslation(vmath.Vec3{X: 0.3, Y: 1.0, Z: -0.2}),
		RightAimInStage:  vmath.TFromTranslation(vmath.Vec3{X: 0.3, Y: 1.0, Z: -0.25}),
	}
}

func TestResolveDriversHeadChain(t *testing.T) {
	p := defaultRig()
	d := ResolveDrivers(standingFrame(), &LocomotionState{}, p)

	wantHead := vmath.Vec3{Y: 1.55 + p.HeadCenterYInHmd, Z: p.HeadCenterZInHmd}
	if !vmath.V3ApproxEq(d.Transforms[HeadCenter].Translation, wantHead, 1e-12) {
		t.Errorf("head center = %+v, want %+v", d.Transforms[HeadCenter].Translation, wantHead)
	}

	wantNeck := vmath.V3Add(wantHead, vmath.Vec3{Y: p.NeckRootYInHeadCenter})
	if !vmath.V3ApproxEq(d.Transforms[NeckRoot].Translation, wantNeck, 1e-12) {
		t.Errorf("neck root = %+v, want %+v", d.Transforms[NeckRoot].Translation, wantNeck)
	}
}

func TestResolveDriversBaseIsYawOnly(t *testing.T) {
	p := defaultRig()
	in := standingFrame()
	// Pitch and roll the head; the base frame must stay flat
	in.HmdInStage.Rotation = vmath.QMul(
		vmath.QFromYRotation(0.8),
		vmath.QMul(
			vmath.QFromAxisAngle(vmath.UnitX, 0.5),
			vmath.QFromAxisAngle(vmath.UnitZ, -0.3),
		),
	)

	d := ResolveDrivers(in, &LocomotionState{}, p)
	base := d.Base()

	if base.Translation.Y != 0 {
		t.Errorf("base not on the floor: Y = %v", base.Translation.Y)
	}
	up := vmath.QRotate(base.Rotation, vmath.UnitY)
	if !vmath.V3ApproxEq(up, vmath.UnitY, 1e-9) {
		t.Errorf("base up axis = %+v, want exactly vertical", up)
	}
	x := vmath.QRotate(base.Rotation, vmath.UnitX)
	if math.Abs(x.Y) > 1e-9 {
		t.Errorf("base forward axis not horizontal: %+v", x)
	}
	if !vmath.ApproxEq(vmath.V3Mag(x), 1, 1e-9) {
		t.Errorf("base forward axis not unit: %v", vmath.V3Mag(x))
	}
}

func TestResolveDriversVerticalLookFallback(t *testing.T) {
	p := defaultRig()
	in := standingFrame()
	// Roll 90° about Z leaves the head X axis pointing straight up: no
	// horizontal heading to project
	in.HmdInStage.Rotation = vmath.QFromAxisAngle(vmath.UnitZ, math.Pi/2)

	d := ResolveDrivers(in, &LocomotionState{}, p)
	x := vmath.QRotate(d.Base().Rotation, vmath.UnitX)
	if !vmath.V3ApproxEq(x, vmath.UnitX, 1e-9) {
		t.Errorf("degenerate heading should fall back to +X, got %+v", x)
	}
}

func TestResolveDriversPalms(t *testing.T) {
	p := defaultRig()
	in := standingFrame()
	in.LeftAimInStage.Rotation = vmath.QFromYRotation(1.2)

	d := ResolveDrivers(in, &LocomotionState{}, p)

	// Palm keeps the grip position and takes the aim rotation
	if !vmath.V3ApproxEq(d.Transforms[LeftPalm].Translation, in.LeftGripInStage.Translation, 1e-12) {
		t.Errorf("palm position = %+v, want grip %+v",
			d.Transforms[LeftPalm].Translation, in.LeftGripInStage.Translation)
	}
	if !vmath.QApproxEq(d.Transforms[LeftPalm].Rotation, in.LeftAimInStage.Rotation, 1e-12) {
		t.Error("palm rotation should match aim rotation")
	}

	// Wrists mirror the palm offset in X
	leftOff := vmath.V3Sub(d.Transforms[LeftWrist].Translation, d.Transforms[LeftPalm].Translation)
	rightOff := vmath.V3Sub(d.Transforms[RightWrist].Translation, d.Transforms[RightPalm].Translation)
	if !vmath.ApproxEq(vmath.V3Mag(leftOff), vmath.V3Mag(rightOff), 1e-12) {
		t.Errorf("wrist offsets differ in magnitude: %v vs %v",
			vmath.V3Mag(leftOff), vmath.V3Mag(rightOff))
	}
}

func TestResolveDriversFeet(t *testing.T) {
	p := defaultRig()
	in := standingFrame()

	// First tick: default stance beside the base
	d := ResolveDrivers(in, &LocomotionState{}, p)
	base := d.Base()
	wantLeft := vmath.TApply(base, vmath.Vec3{X: -p.StanceHalfWidth})
	if !vmath.V3ApproxEq(d.Transforms[LeftFoot].Translation, wantLeft, 1e-12) {
		t.Errorf("default left foot = %+v, want %+v", d.Transforms[LeftFoot].Translation, wantLeft)
	}

	// Later ticks: locomotion targets take over
	loco := &LocomotionState{
		LeftFootInStage:  footAt(-0.4, 0.1),
		RightFootInStage: footAt(0.4, 0.1),
		HasFootTargets:   true,
	}
	d = ResolveDrivers(in, loco, p)
	if !vmath.V3ApproxEq(d.Transforms[LeftFoot].Translation, loco.LeftFootInStage.Translation, 1e-12) {
		t.Errorf("left foot = %+v, want locomotion target", d.Transforms[LeftFoot].Translation)
	}
}

func TestResolveDriversPure(t *testing.T) {
	p := defaultRig()
	in := standingFrame()
	loco := &LocomotionState{}
	before := *loco

	ResolveDrivers(in, loco, p)
	if *loco != before {
		t.Error("ResolveDrivers must not mutate locomotion state")
	}
}

func TestDriverFrameSeed(t *testing.T) {
	var d DriverFrame
	tr := vmath.Transform{
		Translation: vmath.Vec3{X: 1, Y: 2, Z: 3},
		Rotation:    vmath.QFromYRotation(0.5),
	}
	d.Set(Torso, tr)

	pose := NewPose()
	pose.Positions[Pelvis] = vmath.Vec3{X: 9}
	d.Seed(pose)

	if pose.Positions[Torso] != tr.Translation {
		t.Errorf("seeded position = %+v", pose.Positions[Torso])
	}
	if pose.Rotations[Torso] != tr.Rotation {
		t.Errorf("seeded rotation = %+v", pose.Rotations[Torso])
	}
	// Non-driven nodes untouched
	if pose.Positions[Pelvis] != (vmath.Vec3{X: 9}) {
		t.Error("seed touched a non-driven node")
	}
}
