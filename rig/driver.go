package rig

import (
	"math"

	"github.com/lixenwraith/marionette/parameter"
	"github.com/lixenwraith/marionette/vmath"
)

// TrackingFrame carries the upstream tracked transforms for one tick, all in
// the shared stage frame. The provider is opaque; headset and controller
// poses arrive as plain rigid transforms.
type TrackingFrame struct {
	HmdInStage       vmath.Transform
	LeftGripInStage  vmath.Transform
	LeftAimInStage   vmath.Transform
	RightGripInStage vmath.Transform
	RightAimInStage  vmath.Transform

	// MenuPressed is the menu button edge signal (pressed this tick)
	MenuPressed bool
}

// DriverFrame holds this tick's transforms for every driven node. The solver
// re-seeds these at the start of every iteration so the driven nodes act as
// fixed boundary conditions while the relaxation propagates through the free
// nodes.
type DriverFrame struct {
	Transforms [NodeCount]vmath.Transform
	Driven     [NodeCount]bool
}

// Set marks a node as driven with the given transform
func (d *DriverFrame) Set(node NodeID, t vmath.Transform) {
	d.Transforms[node] = t
	d.Driven[node] = true
}

// Base returns the horizontal base frame computed by ResolveDrivers
func (d *DriverFrame) Base() vmath.Transform {
	return d.Transforms[Base]
}

// Seed overwrites every driven node's position and rotation in the pose
func (d *DriverFrame) Seed(pose *Pose) {
	for node := NodeID(0); node < NodeCount; node++ {
		if !d.Driven[node] {
			continue
		}
		pose.Positions[node] = d.Transforms[node].Translation
		pose.Rotations[node] = d.Transforms[node].Rotation
	}
}

// ResolveDrivers computes the driven node transforms from tracking input and
// the locomotion state carried over from the previous tick. Pure function:
// it never mutates its inputs. The BalancePoint node is driven too but is
// seeded by the locomotion step, which owns the balance computation.
func ResolveDrivers(in *TrackingFrame, loco *LocomotionState, p *parameter.Rig) DriverFrame {
	headCenterInHmd := vmath.TFromTranslation(vmath.Vec3{Y: p.HeadCenterYInHmd, Z: p.HeadCenterZInHmd})
	neckRootInHeadCenter := vmath.TFromTranslation(vmath.Vec3{Y: p.NeckRootYInHeadCenter})
	leftWristInPalm := vmath.TFromTranslation(vmath.Vec3{X: p.WristXInPalm, Y: p.WristYInPalm, Z: p.WristZInPalm})
	rightWristInPalm := vmath.TFromTranslation(vmath.Vec3{X: -p.WristXInPalm, Y: p.WristYInPalm, Z: p.WristZInPalm})

	headCenterInStage := vmath.TMul(in.HmdInStage, headCenterInHmd)
	neckRootInStage := vmath.TMul(headCenterInStage, neckRootInHeadCenter)
	baseInStage := flattenToBase(neckRootInStage)

	// Palms take the grip position with the aim rotation: aiming direction
	// decoupled from grip ergonomics
	leftPalmInStage := vmath.Transform{
		Translation: in.LeftGripInStage.Translation,
		Rotation:    in.LeftAimInStage.Rotation,
	}
	rightPalmInStage := vmath.Transform{
		Translation: in.RightGripInStage.Translation,
		Rotation:    in.RightAimInStage.Rotation,
	}
	leftWristInStage := vmath.TMul(leftPalmInStage, leftWristInPalm)
	rightWristInStage := vmath.TMul(rightPalmInStage, rightWristInPalm)

	// Feet come from the locomotion targets when present, otherwise the
	// default stance beside the base frame
	leftFootInStage := vmath.TMul(baseInStage, vmath.TFromTranslation(vmath.Vec3{X: -p.StanceHalfWidth}))
	rightFootInStage := vmath.TMul(baseInStage, vmath.TFromTranslation(vmath.Vec3{X: p.StanceHalfWidth}))
	if loco.HasFootTargets {
		leftFootInStage = loco.LeftFootInStage
		rightFootInStage = loco.RightFootInStage
	}

	var d DriverFrame
	d.Set(Hmd, in.HmdInStage)
	d.Set(HeadCenter, headCenterInStage)
	d.Set(NeckRoot, neckRootInStage)
	d.Set(Base, baseInStage)
	d.Set(LeftGrip, in.LeftGripInStage)
	d.Set(LeftAim, in.LeftAimInStage)
	d.Set(LeftPalm, leftPalmInStage)
	d.Set(LeftWrist, leftWristInStage)
	d.Set(RightGrip, in.RightGripInStage)
	d.Set(RightAim, in.RightAimInStage)
	d.Set(RightPalm, rightPalmInStage)
	d.Set(RightWrist, rightWristInStage)
	d.Set(LeftFoot, leftFootInStage)
	d.Set(RightFoot, rightFootInStage)
	return d
}

// flattenToBase projects a transform into a yaw-only frame on the floor:
// translation Y zeroed, up axis exactly vertical, forward axis the
// normalized horizontal component of the input's X axis.
func flattenToBase(t vmath.Transform) vmath.Transform {
	xAxis := vmath.QRotate(t.Rotation, vmath.UnitX)
	horiz := vmath.Vec3{X: xAxis.X, Z: xAxis.Z}
	if vmath.V3MagSq(horiz) < vmath.Epsilon {
		// Looking straight up or down leaves no horizontal heading
		horiz = vmath.UnitX
	}
	horiz = vmath.V3Normalize(horiz)
	yaw := math.Atan2(-horiz.Z, horiz.X)
	return vmath.Transform{
		Translation: vmath.Vec3{X: t.Translation.X, Z: t.Translation.Z},
		Rotation:    vmath.QFromYRotation(yaw),
	}
}
