package rig

import "github.com/lixenwraith/marionette/vmath"

// Pose is the single owner of positional truth for one skeleton: a world
// position and unit rotation per node. One persistent instance per skeleton,
// mutated in place every tick as the solver's warm start, never reset after
// initialization.
type Pose struct {
	Positions [NodeCount]vmath.Vec3
	Rotations [NodeCount]vmath.Quat
}

// NewPose creates a pose at the origin with identity rotations
func NewPose() *Pose {
	p := &Pose{}
	for i := range p.Rotations {
		p.Rotations[i] = vmath.QIdentity()
	}
	return p
}

// Transform returns a node's pose as a rigid transform
func (p *Pose) Transform(node NodeID) vmath.Transform {
	return vmath.Transform{
		Translation: p.Positions[node],
		Rotation:    p.Rotations[node],
	}
}
