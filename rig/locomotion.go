package rig

import (
	"github.com/lixenwraith/marionette/parameter"
	"github.com/lixenwraith/marionette/vmath"
)

// WeightDistribution classifies which foot carries the body weight.
// The zero value is SharedWeight.
type WeightDistribution uint8

const (
	SharedWeight WeightDistribution = iota
	LeftPlanted
	RightPlanted
)

func (w WeightDistribution) String() string {
	switch w {
	case LeftPlanted:
		return "LeftPlanted"
	case RightPlanted:
		return "RightPlanted"
	default:
		return "SharedWeight"
	}
}

// LocomotionState persists the balance decision across ticks: the current
// weight distribution and the two foot targets. Foot targets are absent
// until the first Step. The solver never mutates this state.
type LocomotionState struct {
	Weight           WeightDistribution
	LeftFootInStage  vmath.Transform
	RightFootInStage vmath.Transform
	HasFootTargets   bool
}

// StepResult reports the outcome of one locomotion decision
type StepResult struct {
	// BalanceInBase is the balance point in the base frame: the closest
	// point to the base origin on the segment between the feet
	BalanceInBase vmath.Vec3
	// Replanted is true when a swing or stagger target moved this tick
	Replanted bool
}

// replantEpsilon is the target displacement below which a replant is not
// reported (meters)
const replantEpsilon = 1e-3

// Step runs the once-per-tick balance decision. leftFoot and rightFoot are
// this tick's driven foot transforms (previous targets, or the default
// stance on the first tick); the new targets persisted here seed the next
// tick's drivers.
func (s *LocomotionState) Step(base, leftFoot, rightFoot vmath.Transform, p *parameter.Rig) StepResult {
	baseFromStage := vmath.TInverse(base)
	leftInBase := vmath.TApply(baseFromStage, leftFoot.Translation)
	rightInBase := vmath.TApply(baseFromStage, rightFoot.Translation)

	// Classify. Both feet near the base origin keeps the previous
	// distribution: hysteresis against flicker while standing still.
	leftNear := vmath.V3Mag(leftInBase) < p.FootRadius
	rightNear := vmath.V3Mag(rightInBase) < p.FootRadius
	switch {
	case leftNear && rightNear:
		// keep s.Weight
	case leftNear:
		s.Weight = LeftPlanted
	case rightNear:
		s.Weight = RightPlanted
	default:
		s.Weight = SharedWeight
	}

	balance := closestPointOnSegment(leftInBase, rightInBase)

	prevLeft := s.LeftFootInStage
	prevRight := s.RightFootInStage
	hadTargets := s.HasFootTargets

	switch s.Weight {
	case RightPlanted:
		// Swing the left foot through the base origin, proportional to how
		// far the planted foot has drifted
		s.LeftFootInStage = vmath.TMul(base,
			vmath.TFromTranslation(vmath.V3Scale(rightInBase, -p.StepMultiplier)))
		s.RightFootInStage = rightFoot
	case LeftPlanted:
		s.LeftFootInStage = leftFoot
		s.RightFootInStage = vmath.TMul(base,
			vmath.TFromTranslation(vmath.V3Scale(leftInBase, -p.StepMultiplier)))
	case SharedWeight:
		if vmath.V3Mag(balance) > p.StaggerThreshold() {
			// Stagger step: lift the foot that is loaded the least, the one
			// farther from the balance point
			v1 := vmath.V3Sub(balance, leftInBase)
			v2 := vmath.V3Sub(balance, rightInBase)
			if vmath.V3MagSq(v1) < vmath.V3MagSq(v2) {
				dir := vmath.V3Neg(vmath.V3Normalize(leftInBase))
				s.LeftFootInStage = leftFoot
				s.RightFootInStage = vmath.TMul(base, vmath.TFromTranslation(
					vmath.V3Add(leftInBase, vmath.V3Scale(dir, p.StepSize()))))
			} else {
				dir := vmath.V3Neg(vmath.V3Normalize(rightInBase))
				s.LeftFootInStage = vmath.TMul(base, vmath.TFromTranslation(
					vmath.V3Add(rightInBase, vmath.V3Scale(dir, p.StepSize()))))
				s.RightFootInStage = rightFoot
			}
		} else {
			// Stable double stance, both feet hold
			s.LeftFootInStage = leftFoot
			s.RightFootInStage = rightFoot
		}
	}
	s.HasFootTargets = true

	replanted := false
	if hadTargets {
		movedLeft := vmath.V3Mag(vmath.V3Sub(s.LeftFootInStage.Translation, prevLeft.Translation))
		movedRight := vmath.V3Mag(vmath.V3Sub(s.RightFootInStage.Translation, prevRight.Translation))
		replanted = movedLeft > replantEpsilon || movedRight > replantEpsilon
	}

	return StepResult{BalanceInBase: balance, Replanted: replanted}
}

// closestPointOnSegment returns the point on segment a-b closest to the
// origin, clamped to the segment. Coincident endpoints return a.
func closestPointOnSegment(a, b vmath.Vec3) vmath.Vec3 {
	v := vmath.V3Sub(b, a)
	vv := vmath.V3Dot(v, v)
	if vv < vmath.Epsilon {
		return a
	}
	t := vmath.V3Dot(vmath.V3Neg(a), v) / vv
	return vmath.V3Add(a, vmath.V3Scale(v, vmath.Clamp(t, 0, 1)))
}
