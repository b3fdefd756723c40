// Package engine threads the per-tick pipeline: driver resolution, the
// locomotion decision, the fixed-iteration solve, scene write-back and the
// optional snapshot export. The whole tick runs synchronously on the calling
// goroutine; every piece of mutable state is owned by the Rig and touched
// only for the duration of Tick.
package engine

import (
	"time"

	"github.com/lixenwraith/marionette/parameter"
	"github.com/lixenwraith/marionette/rig"
	"github.com/lixenwraith/marionette/status"
	"github.com/lixenwraith/marionette/vmath"
)

// SceneSink receives the solved world transform of every node each tick.
// Sinks contain their own failures; a broken renderer must never stall or
// corrupt the solve.
type SceneSink interface {
	Apply(node rig.NodeID, position vmath.Vec3, rotation vmath.Quat)
}

// TickReport summarizes one tick for callers that react to locomotion events
type TickReport struct {
	Weight        rig.WeightDistribution
	BalanceInBase vmath.Vec3
	Replanted     bool
}

// Rig owns one skeleton's persistent solver state and its collaborators
type Rig struct {
	store   *parameter.Store
	metrics *status.Registry
	sink    SceneSink

	pose *rig.Pose
	loco rig.LocomotionState

	skeleton   *rig.Skeleton
	solver     *rig.Solver
	lastKnob   parameter.Rig
	lastWeight rig.WeightDistribution

	// SnapshotDir receives menu-button pose snapshots; empty means the
	// working directory
	SnapshotDir string

	// ErrorHook receives boundary failures (snapshot writes). May be nil;
	// failures never abort the tick.
	ErrorHook func(error)
}

// New creates a rig bound to a knob store, a scene sink and a metrics
// registry. sink and metrics may be nil.
func New(store *parameter.Store, sink SceneSink, metrics *status.Registry) *Rig {
	r := &Rig{
		store:   store,
		metrics: metrics,
		sink:    sink,
		pose:    rig.NewPose(),
	}
	r.rebuild(store.Rig())
	return r
}

// Pose exposes the persistent pose for overlays and tests; callers must not
// mutate it
func (r *Rig) Pose() *rig.Pose {
	return r.pose
}

// rebuild materializes the skeleton and solver from a knob snapshot
func (r *Rig) rebuild(p parameter.Rig) {
	r.skeleton = rig.BuildSkeleton(&p)
	r.solver = rig.NewSolver(r.skeleton, p.SolverIterations, r.metrics)
	r.lastKnob = p
}

// Tick advances the skeleton by one frame
func (r *Rig) Tick(frame *rig.TrackingFrame) TickReport {
	start := time.Now()

	// One coherent knob snapshot per tick; a hot reload mid-tick waits for
	// the next frame. Geometry changes rebuild the constraint tables.
	p := r.store.Rig()
	if p != r.lastKnob {
		r.rebuild(p)
	}

	drivers := rig.ResolveDrivers(frame, &r.loco, &p)
	res := r.loco.Step(
		drivers.Base(),
		drivers.Transforms[rig.LeftFoot],
		drivers.Transforms[rig.RightFoot],
		&p,
	)
	drivers.Set(rig.BalancePoint,
		vmath.TMul(drivers.Base(), vmath.TFromTranslation(res.BalanceInBase)))

	r.solver.Solve(r.pose, &drivers)

	if r.sink != nil {
		for node := rig.NodeID(0); node < rig.NodeCount; node++ {
			r.sink.Apply(node, r.pose.Positions[node], r.pose.Rotations[node])
		}
	}

	if frame.MenuPressed {
		if _, err := WriteSnapshot(r.pose, r.SnapshotDir); err != nil && r.ErrorHook != nil {
			r.ErrorHook(err)
		}
	}

	if r.metrics != nil {
		if res.Replanted {
			r.metrics.Int(status.KeySteps).Add(1)
		}
		if r.loco.Weight != r.lastWeight {
			r.metrics.Int(status.KeyWeightShift).Add(1)
		}
		r.metrics.Float(status.KeyTickNanos).Set(float64(time.Since(start).Nanoseconds()))
	}
	r.lastWeight = r.loco.Weight

	return TickReport{
		Weight:        r.loco.Weight,
		BalanceInBase: res.BalanceInBase,
		Replanted:     res.Replanted,
	}
}
