// Package rig implements the skeleton pose core: the closed node set, the
// constraint anatomy, the driver resolver, the locomotion state machine and
// the Gauss-Seidel position solver. State lives in fixed arrays indexed by
// NodeID; the node set is known at compile time and never grows.
package rig

// NodeID identifies a skeletal landmark. Declaration order is load-bearing:
// it is the pose array index and the constraint solve order follows the
// anatomy tables built in BuildSkeleton.
type NodeID uint8

const (
	Hmd NodeID = iota
	HeadCenter
	NeckRoot
	Torso
	Pelvis
	Base
	BalancePoint
	LeftAim
	LeftGrip
	LeftPalm
	LeftWrist
	LeftLowerArm
	LeftUpperArm
	LeftUpperLeg
	LeftLowerLeg
	LeftFoot
	RightAim
	RightGrip
	RightPalm
	RightWrist
	RightLowerArm
	RightUpperArm
	RightUpperLeg
	RightLowerLeg
	RightFoot

	// NodeCount is the cardinality of the node set
	NodeCount
)

var nodeNames = [NodeCount]string{
	"Hmd", "HeadCenter", "NeckRoot", "Torso", "Pelvis", "Base", "BalancePoint",
	"LeftAim", "LeftGrip", "LeftPalm", "LeftWrist", "LeftLowerArm",
	"LeftUpperArm", "LeftUpperLeg", "LeftLowerLeg", "LeftFoot",
	"RightAim", "RightGrip", "RightPalm", "RightWrist", "RightLowerArm",
	"RightUpperArm", "RightUpperLeg", "RightLowerLeg", "RightFoot",
}

func (n NodeID) String() string {
	if n >= NodeCount {
		return "Unknown"
	}
	return nodeNames[n]
}
