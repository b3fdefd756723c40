// Package parameter holds the flat scalar tuning surface of the solver.
// Constants are the baked-in defaults; Store overlays runtime values and
// supports hot reload from a knobs file. Everything is a named float64 knob,
// not structural configuration.
package parameter

// Skeleton geometry defaults, stage units (meters)
const (
	// HeadCenterZInHmd is the head center offset behind the HMD anchor
	HeadCenterZInHmd = 0.10
	// HeadCenterYInHmd is the vertical head center offset from the HMD anchor
	HeadCenterYInHmd = 0.0
	// NeckRootYInHeadCenter is the neck pivot offset below the head center
	NeckRootYInHeadCenter = -0.10

	// WristXInPalm/WristYInPalm/WristZInPalm place the left wrist in the palm
	// frame; the right side mirrors X
	WristXInPalm = -0.015
	WristYInPalm = -0.01
	WristZInPalm = 0.065

	LowerArmLength   = 0.28
	UpperArmLength   = 0.28
	CollarboneLength = 0.17
	ShoulderWidth    = 0.40
	SternumWidth     = 0.06
	HipWidth         = 0.26

	SternumHeightInTorso    = 0.20
	NeckRootHeightInTorso   = 0.22
	LowerBackHeightInTorso  = -0.20
	LowerBackHeightInPelvis = 0.10
	HipHeightInPelvis       = -0.07

	UpperLegLength = 0.40
	LowerLegLength = 0.40
	AnkleHeight    = 0.10
)

// Locomotion and solver tuning defaults
const (
	// FootRadius is the base-relative distance under which a foot counts as
	// planted (meters)
	FootRadius = 0.1

	// StepMultiplier scales the swing foot's catch-up step relative to the
	// planted foot's drift from the base origin
	StepMultiplier = 3.0

	// StaggerThresholdFactor times FootRadius gives the balance point
	// distance that triggers a stagger step in shared stance
	StaggerThresholdFactor = 2.0

	// StanceHalfWidth is the default lateral foot offset from the base frame
	// before the first locomotion decision (meters)
	StanceHalfWidth = 0.2

	// SolverIterations is the fixed Gauss-Seidel pass count per tick; there
	// is no convergence check, cost is deterministic
	SolverIterations = 10
)
