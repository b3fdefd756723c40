// Headless timing runs for the constraint solver and the particle substep.
// Drives the full tick pipeline along a synthetic path, then hammers the
// substep loop with a floor-bounded particle cloud, and prints per-operation
// cost plus the final residuals.
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/lixenwraith/marionette/engine"
	"github.com/lixenwraith/marionette/parameter"
	"github.com/lixenwraith/marionette/rig"
	"github.com/lixenwraith/marionette/status"
	"github.com/lixenwraith/marionette/vmath"
	"github.com/lixenwraith/marionette/xpbd"
)

var (
	ticks     = flag.Int("ticks", 10_000, "Rig ticks to run")
	particles = flag.Int("particles", 1_000, "Particles in the substep run")
	substeps  = flag.Int("substeps", 10_000, "Particle substeps to run")
)

func main() {
	flag.Parse()

	fmt.Println("Solver Benchmark")
	fmt.Println("══════════════════════════════════════════════════════════════")
	fmt.Printf("%-28s %14s %14s\n", "Operation", "Total", "Per call")
	fmt.Println("──────────────────────────────────────────────────────────────")

	benchRigTick()
	benchSubstep()

	fmt.Println("══════════════════════════════════════════════════════════════")
}

func benchRigTick() {
	store := parameter.NewStore()
	metrics := status.NewRegistry()
	r := engine.New(store, nil, metrics)

	start := time.Now()
	for i := 0; i < *ticks; i++ {
		phase := float64(i) * 0.01
		frame := &rig.TrackingFrame{
			HmdInStage: vmath.TFromTranslation(
				vmath.Vec3{X: 0.6 * math.Sin(phase), Y: 1.55, Z: 0.3 * math.Sin(2*phase)}),
			LeftGripInStage:  vmath.TFromTranslation(vmath.Vec3{X: -0.3, Y: 1.0, Z: -0.2}),
			LeftAimInStage:   vmath.TFromTranslation(vmath.Vec3{X: -0.3, Y: 1.0, Z: -0.25}),
			RightGripInStage: vmath.TFromTranslation(vmath.Vec3{X: 0.3, Y: 1.0, Z: -0.2}),
			RightAimInStage:  vmath.TFromTranslation(vmath.Vec3{X: 0.3, Y: 1.0, Z: -0.25}),
		}
		r.Tick(frame)
	}
	elapsed := time.Since(start)

	printResult("RigTick", elapsed, *ticks)
	fmt.Printf("%-28s %14.6f\n", "  spherical residual",
		metrics.Float(status.KeySphericalResidual).Get())
	fmt.Printf("%-28s %14.6f\n", "  distance residual",
		metrics.Float(status.KeyDistanceResidual).Get())
	fmt.Printf("%-28s %14d\n", "  steps taken",
		metrics.Int(status.KeySteps).Load())
}

// floorResolver clamps particles above y=0, with stiction-bounded tangential
// hold at the contact
type floorResolver struct {
	prev []vmath.Vec3
}

func (f *floorResolver) Resolve(next []vmath.Vec3, stictionFactor float64) {
	for i := range next {
		if next[i].Y >= 0 {
			continue
		}
		lift := -next[i].Y
		next[i].Y = 0

		// Hold tangential slide up to stiction * normal correction
		dx := next[i].X - f.prev[i].X
		dz := next[i].Z - f.prev[i].Z
		bound := stictionFactor * lift
		next[i].X -= vmath.Clamp(dx, -bound, bound)
		next[i].Z -= vmath.Clamp(dz, -bound, bound)
	}
	copy(f.prev, next)
}

func benchSubstep() {
	state := xpbd.NewState(*particles)
	rng := rand.New(rand.NewSource(42))
	for i := range state.PositionsCurr {
		state.PositionsCurr[i] = vmath.Vec3{
			X: rng.Float64() - 0.5,
			Y: rng.Float64() * 2,
			Z: rng.Float64() - 0.5,
		}
	}

	knobs := parameter.NewStore().Xpbd()
	params := &xpbd.SimulationParams{
		Dt:              knobs.Dt,
		Acc:             vmath.Vec3{Y: knobs.GravityY},
		ParticleMass:    knobs.ParticleMass,
		ShapeCompliance: knobs.ShapeCompliance,
		ShapeDamping:    knobs.ShapeDamping,
		StictionFactor:  knobs.StictionFactor,
	}
	floor := &floorResolver{prev: make([]vmath.Vec3, *particles)}
	copy(floor.prev, state.PositionsCurr)

	metrics := status.NewRegistry()
	start := time.Now()
	for i := 0; i < *substeps; i++ {
		state.Substep(nil, floor, params)
	}
	elapsed := time.Since(start)
	metrics.Float(status.KeySubstepNanos).Set(float64(elapsed.Nanoseconds()) / float64(*substeps))

	printResult(fmt.Sprintf("Substep (%d particles)", *particles), elapsed, *substeps)
	fmt.Printf("%-28s %14.0f\n", "  ns/substep", metrics.Float(status.KeySubstepNanos).Get())
}

func printResult(name string, total time.Duration, calls int) {
	per := total / time.Duration(calls)
	fmt.Printf("%-28s %14s %14s\n", name, total.Round(time.Microsecond), per)
}
