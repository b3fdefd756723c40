package parameter

import (
	"sort"

	"github.com/lixenwraith/marionette/status"
)

// Rig is a coherent snapshot of the skeleton and locomotion knobs.
// The solver reads one snapshot per tick so a concurrent reload can never
// split values within a tick.
type Rig struct {
	HeadCenterZInHmd      float64
	HeadCenterYInHmd      float64
	NeckRootYInHeadCenter float64

	WristXInPalm float64
	WristYInPalm float64
	WristZInPalm float64

	LowerArmLength   float64
	UpperArmLength   float64
	CollarboneLength float64
	ShoulderWidth    float64
	SternumWidth     float64
	HipWidth         float64

	SternumHeightInTorso    float64
	NeckRootHeightInTorso   float64
	LowerBackHeightInTorso  float64
	LowerBackHeightInPelvis float64
	HipHeightInPelvis       float64

	UpperLegLength float64
	LowerLegLength float64
	AnkleHeight    float64

	FootRadius             float64
	StepMultiplier         float64
	StaggerThresholdFactor float64
	StanceHalfWidth        float64

	SolverIterations int
}

// StepSize is the stagger step distance derived from the foot radius
func (r *Rig) StepSize() float64 {
	return r.FootRadius * (r.StepMultiplier + 1.0)
}

// StaggerThreshold is the balance point distance that triggers a stagger step
func (r *Rig) StaggerThreshold() float64 {
	return r.FootRadius * r.StaggerThresholdFactor
}

// Xpbd is a coherent snapshot of the particle substep knobs
type Xpbd struct {
	Dt              float64
	GravityY        float64
	ParticleMass    float64
	ShapeCompliance float64
	ShapeDamping    float64
	StictionFactor  float64
}

// defaults is the closed knob set; Store never grows beyond it
var defaults = map[string]float64{
	"rig.head_center_z_in_hmd":        HeadCenterZInHmd,
	"rig.head_center_y_in_hmd":        HeadCenterYInHmd,
	"rig.neck_root_y_in_head_center":  NeckRootYInHeadCenter,
	"rig.wrist_x_in_palm":             WristXInPalm,
	"rig.wrist_y_in_palm":             WristYInPalm,
	"rig.wrist_z_in_palm":             WristZInPalm,
	"rig.lower_arm_length":            LowerArmLength,
	"rig.upper_arm_length":            UpperArmLength,
	"rig.collarbone_length":           CollarboneLength,
	"rig.shoulder_width":              ShoulderWidth,
	"rig.sternum_width":               SternumWidth,
	"rig.hip_width":                   HipWidth,
	"rig.sternum_height_in_torso":     SternumHeightInTorso,
	"rig.neck_root_height_in_torso":   NeckRootHeightInTorso,
	"rig.lower_back_height_in_torso":  LowerBackHeightInTorso,
	"rig.lower_back_height_in_pelvis": LowerBackHeightInPelvis,
	"rig.hip_height_in_pelvis":        HipHeightInPelvis,
	"rig.upper_leg_length":            UpperLegLength,
	"rig.lower_leg_length":            LowerLegLength,
	"rig.ankle_height":                AnkleHeight,
	"rig.foot_radius":                 FootRadius,
	"rig.step_multiplier":             StepMultiplier,
	"rig.stagger_threshold_factor":    StaggerThresholdFactor,
	"rig.stance_half_width":           StanceHalfWidth,
	"rig.solver_iterations":           SolverIterations,

	"xpbd.dt":               SubstepDt,
	"xpbd.gravity_y":        GravityY,
	"xpbd.particle_mass":    ParticleMass,
	"xpbd.shape_compliance": ShapeCompliance,
	"xpbd.shape_damping":    ShapeDamping,
	"xpbd.stiction_factor":  StictionFactor,
}

// Store holds the runtime values of every knob. The knob set is fixed at
// construction; cells are atomic so reloads never block the tick.
type Store struct {
	knobs map[string]*status.AtomicFloat
}

// NewStore creates a Store seeded with the baked-in defaults
func NewStore() *Store {
	s := &Store{knobs: make(map[string]*status.AtomicFloat, len(defaults))}
	for name, def := range defaults {
		cell := new(status.AtomicFloat)
		cell.Set(def)
		s.knobs[name] = cell
	}
	return s
}

// Get returns the current value of a knob
func (s *Store) Get(name string) (float64, bool) {
	cell, ok := s.knobs[name]
	if !ok {
		return 0, false
	}
	return cell.Get(), true
}

// Set updates a knob, returning false for names outside the closed set
func (s *Store) Set(name string, val float64) bool {
	cell, ok := s.knobs[name]
	if !ok {
		return false
	}
	cell.Set(val)
	return true
}

// Names returns all knob names in sorted order
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.knobs))
	for name := range s.knobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) val(name string) float64 {
	return s.knobs[name].Get()
}

// Rig materializes the skeleton/locomotion knob snapshot
func (s *Store) Rig() Rig {
	return Rig{
		HeadCenterZInHmd:      s.val("rig.head_center_z_in_hmd"),
		HeadCenterYInHmd:      s.val("rig.head_center_y_in_hmd"),
		NeckRootYInHeadCenter: s.val("rig.neck_root_y_in_head_center"),

		WristXInPalm: s.val("rig.wrist_x_in_palm"),
		WristYInPalm: s.val("rig.wrist_y_in_palm"),
		WristZInPalm: s.val("rig.wrist_z_in_palm"),

		LowerArmLength:   s.val("rig.lower_arm_length"),
		UpperArmLength:   s.val("rig.upper_arm_length"),
		CollarboneLength: s.val("rig.collarbone_length"),
		ShoulderWidth:    s.val("rig.shoulder_width"),
		SternumWidth:     s.val("rig.sternum_width"),
		HipWidth:         s.val("rig.hip_width"),

		SternumHeightInTorso:    s.val("rig.sternum_height_in_torso"),
		NeckRootHeightInTorso:   s.val("rig.neck_root_height_in_torso"),
		LowerBackHeightInTorso:  s.val("rig.lower_back_height_in_torso"),
		LowerBackHeightInPelvis: s.val("rig.lower_back_height_in_pelvis"),
		HipHeightInPelvis:       s.val("rig.hip_height_in_pelvis"),

		UpperLegLength: s.val("rig.upper_leg_length"),
		LowerLegLength: s.val("rig.lower_leg_length"),
		AnkleHeight:    s.val("rig.ankle_height"),

		FootRadius:             s.val("rig.foot_radius"),
		StepMultiplier:         s.val("rig.step_multiplier"),
		StaggerThresholdFactor: s.val("rig.stagger_threshold_factor"),
		StanceHalfWidth:        s.val("rig.stance_half_width"),

		SolverIterations: int(s.val("rig.solver_iterations")),
	}
}

// Xpbd materializes the particle substep knob snapshot
func (s *Store) Xpbd() Xpbd {
	return Xpbd{
		Dt:              s.val("xpbd.dt"),
		GravityY:        s.val("xpbd.gravity_y"),
		ParticleMass:    s.val("xpbd.particle_mass"),
		ShapeCompliance: s.val("xpbd.shape_compliance"),
		ShapeDamping:    s.val("xpbd.shape_damping"),
		StictionFactor:  s.val("xpbd.stiction_factor"),
	}
}
