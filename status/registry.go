// Package status is a lock-light metrics registry for solver diagnostics.
// Hot paths cache metric pointers during setup and write to atomics directly;
// overlays and benchmarks read through Range without pausing the tick.
package status

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Canonical metric keys written by the solver core
const (
	KeySphericalResidual = "solver.spherical_residual_max"
	KeyDistanceResidual  = "solver.distance_residual_max"
	KeyIterations        = "solver.iterations"
	KeySteps             = "locomotion.steps_total"
	KeyWeightShift       = "locomotion.weight_shifts_total"
	KeyTickNanos         = "engine.tick_nanos"
	KeySubstepNanos      = "xpbd.substep_nanos"
)

// Registry maps metric keys to atomic cells
// Registration takes a mutex; cached pointer access is lock-free
type Registry struct {
	mu     sync.RWMutex
	floats map[string]*AtomicFloat
	ints   map[string]*atomic.Int64
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		floats: make(map[string]*AtomicFloat),
		ints:   make(map[string]*atomic.Int64),
	}
}

// Float returns the float metric for key, creating it if absent
func (r *Registry) Float(key string) *AtomicFloat {
	r.mu.RLock()
	if ptr, ok := r.floats[key]; ok {
		r.mu.RUnlock()
		return ptr
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if ptr, ok := r.floats[key]; ok {
		return ptr
	}
	ptr := new(AtomicFloat)
	r.floats[key] = ptr
	return ptr
}

// Int returns the integer metric for key, creating it if absent
func (r *Registry) Int(key string) *atomic.Int64 {
	r.mu.RLock()
	if ptr, ok := r.ints[key]; ok {
		r.mu.RUnlock()
		return ptr
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if ptr, ok := r.ints[key]; ok {
		return ptr
	}
	ptr := new(atomic.Int64)
	r.ints[key] = ptr
	return ptr
}

// RangeFloats iterates float metrics in sorted key order
func (r *Registry) RangeFloats(fn func(key string, val float64)) {
	r.mu.RLock()
	keys := make([]string, 0, len(r.floats))
	for k := range r.floats {
		keys = append(keys, k)
	}
	r.mu.RUnlock()

	sort.Strings(keys)
	for _, k := range keys {
		fn(k, r.Float(k).Get())
	}
}

// RangeInts iterates integer metrics in sorted key order
func (r *Registry) RangeInts(fn func(key string, val int64)) {
	r.mu.RLock()
	keys := make([]string, 0, len(r.ints))
	for k := range r.ints {
		keys = append(keys, k)
	}
	r.mu.RUnlock()

	sort.Strings(keys)
	for _, k := range keys {
		fn(k, r.Int(k).Load())
	}
}
