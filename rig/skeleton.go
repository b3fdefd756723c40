package rig

import (
	"github.com/lixenwraith/marionette/parameter"
	"github.com/lixenwraith/marionette/vmath"
)

// Skeleton is the fixed constraint anatomy of the humanoid rig.
// Slice order is the Gauss-Seidel solve order and must stay stable: it
// shapes the convergence path and makes results deterministic.
type Skeleton struct {
	Spherical []SphericalConstraint
	Distance  []DistanceConstraint
}

// BuildSkeleton materializes the joint tables from the geometry knobs.
// Limb attachment points sit at the half-length midpoints of each segment;
// side offsets mirror in X.
func BuildSkeleton(p *parameter.Rig) *Skeleton {
	leftWristInPalm := vmath.Vec3{X: p.WristXInPalm, Y: p.WristYInPalm, Z: p.WristZInPalm}
	rightWristInPalm := vmath.Vec3{X: -p.WristXInPalm, Y: p.WristYInPalm, Z: p.WristZInPalm}
	wristInLowerArm := vmath.Vec3{Z: -p.LowerArmLength / 2}
	elbowInLowerArm := vmath.Vec3{Z: p.LowerArmLength / 2}
	elbowInUpperArm := vmath.Vec3{Z: -p.UpperArmLength / 2}
	shoulderInUpperArm := vmath.Vec3{Z: p.UpperArmLength / 2}

	neckRootInHeadCenter := vmath.Vec3{Y: p.NeckRootYInHeadCenter}
	neckRootInTorso := vmath.Vec3{Y: p.NeckRootHeightInTorso}
	leftScJointInTorso := vmath.Vec3{X: -p.SternumWidth / 2, Y: p.SternumHeightInTorso}
	rightScJointInTorso := vmath.Vec3{X: p.SternumWidth / 2, Y: p.SternumHeightInTorso}
	lowerBackInTorso := vmath.Vec3{Y: p.LowerBackHeightInTorso}
	lowerBackInPelvis := vmath.Vec3{Y: p.LowerBackHeightInPelvis}

	leftHipInPelvis := vmath.Vec3{X: -p.HipWidth / 2, Y: p.HipHeightInPelvis}
	rightHipInPelvis := vmath.Vec3{X: p.HipWidth / 2, Y: p.HipHeightInPelvis}
	hipInUpperLeg := vmath.Vec3{Y: p.UpperLegLength / 2}
	kneeInUpperLeg := vmath.Vec3{Y: -p.UpperLegLength / 2}
	kneeInLowerLeg := vmath.Vec3{Y: p.LowerLegLength / 2}
	ankleInLowerLeg := vmath.Vec3{Y: -p.LowerLegLength / 2}
	ankleInFoot := vmath.Vec3{Y: p.AnkleHeight}

	return &Skeleton{
		Spherical: []SphericalConstraint{
			// Left wrist
			{NodeA: LeftPalm, NodeB: LeftLowerArm, PointInA: leftWristInPalm, PointInB: wristInLowerArm},
			// Right wrist
			{NodeA: RightPalm, NodeB: RightLowerArm, PointInA: rightWristInPalm, PointInB: wristInLowerArm},
			// Left elbow
			{NodeA: LeftLowerArm, NodeB: LeftUpperArm, PointInA: elbowInLowerArm, PointInB: elbowInUpperArm},
			// Right elbow
			{NodeA: RightLowerArm, NodeB: RightUpperArm, PointInA: elbowInLowerArm, PointInB: elbowInUpperArm},
			// Neck
			{NodeA: HeadCenter, NodeB: Torso, PointInA: neckRootInHeadCenter, PointInB: neckRootInTorso},
			// Lower back
			{NodeA: Torso, NodeB: Pelvis, PointInA: lowerBackInTorso, PointInB: lowerBackInPelvis},
			// Left hip
			{NodeA: Pelvis, NodeB: LeftUpperLeg, PointInA: leftHipInPelvis, PointInB: hipInUpperLeg},
			// Right hip
			{NodeA: Pelvis, NodeB: RightUpperLeg, PointInA: rightHipInPelvis, PointInB: hipInUpperLeg},
			// Left knee
			{NodeA: LeftUpperLeg, NodeB: LeftLowerLeg, PointInA: kneeInUpperLeg, PointInB: kneeInLowerLeg},
			// Right knee
			{NodeA: RightUpperLeg, NodeB: RightLowerLeg, PointInA: kneeInUpperLeg, PointInB: kneeInLowerLeg},
			// Left ankle
			{NodeA: LeftLowerLeg, NodeB: LeftFoot, PointInA: ankleInLowerLeg, PointInB: ankleInFoot},
			// Right ankle
			{NodeA: RightLowerLeg, NodeB: RightFoot, PointInA: ankleInLowerLeg, PointInB: ankleInFoot},
		},
		Distance: []DistanceConstraint{
			// Left collarbone
			{NodeA: LeftUpperArm, NodeB: Torso, PointInA: shoulderInUpperArm, PointInB: leftScJointInTorso, Distance: p.CollarboneLength},
			// Right collarbone
			{NodeA: RightUpperArm, NodeB: Torso, PointInA: shoulderInUpperArm, PointInB: rightScJointInTorso, Distance: p.CollarboneLength},
		},
	}
}
