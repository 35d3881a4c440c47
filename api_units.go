package orrery

import (
	"time"

	"github.com/edwinsyarief/orrery/gesture"
	"github.com/edwinsyarief/orrery/orbit"
	"github.com/edwinsyarief/orrery/scene"
	"github.com/edwinsyarief/orrery/stability"
)

// --- stability ---

// See [System.Stability]().
type AccessorStability struct{ sys *System }

// Provides access to the marker stability filter in a structured
// manner. Use through method chaining, e.g.:
//
//	if sys.Stability().IsStable() { ... }
func (self *System) Stability() AccessorStability { return AccessorStability{self} }

// Returns whether the current visibility run reached the threshold.
func (self AccessorStability) IsStable() bool { return self.sys.filter.IsStable() }

// Returns a snapshot of the filter state.
func (self AccessorStability) State() stability.State { return self.sys.filter.State() }

func (self AccessorStability) Config() stability.Config { return self.sys.filter.Config() }

// Forces a reset of the current run. The marker lost handler already
// does this; hosts only need it when they switch markers themselves.
func (self AccessorStability) Reset() { self.sys.filter.Reset() }

// --- orbit ---

// See [System.Orbit]().
type AccessorOrbit struct{ sys *System }

// Provides access to the orbit animator in a structured manner.
// Use through method chaining, e.g.:
//
//	angle, _ := sys.Orbit().Angle(scene.NameEarthOrbit)
func (self *System) Orbit() AccessorOrbit { return AccessorOrbit{self} }

func (self AccessorOrbit) State() orbit.State { return self.sys.animator.State() }

// Returns whether the animator is advancing rotations.
func (self AccessorOrbit) IsActive() bool { return self.sys.animator.State() == orbit.Active }

// Returns the accumulated angle of the given body, in radians.
func (self AccessorOrbit) Angle(name string) (float64, bool) {
	return self.sys.animator.Angle(name)
}

// Returns the frame time of the last activation.
func (self AccessorOrbit) ActiveSince() time.Duration { return self.sys.animator.ActiveSince() }

// Returns the optional bodies that weren't found in the scene.
func (self AccessorOrbit) Skipped() []string { return self.sys.animator.Skipped() }

// Returns whether the entrance animation has been played.
func (self AccessorOrbit) EntrancePlayed() bool { return self.sys.animator.EntrancePlayed() }

func (self AccessorOrbit) Config() orbit.Config { return self.sys.animator.Config() }

// --- gesture ---

// See [System.Gesture]().
type AccessorGesture struct{ sys *System }

// Provides access to the gesture controller in a structured manner.
// Use through method chaining, e.g.:
//
//	sys.Gesture().Step(+1)
func (self *System) Gesture() AccessorGesture { return AccessorGesture{self} }

// Returns the current uniform scale of the solar system root.
func (self AccessorGesture) Scale() float64 { return self.sys.gesture.Scale() }

// Returns the scale captured at the last gesture start.
func (self AccessorGesture) Baseline() scene.Vec3 { return self.sys.gesture.Baseline() }

// Applies a discrete zoom of the given number of [Config].ScaleStep
// steps. Meant for hosts translating mouse wheel or keyboard input,
// which don't have a pinch ratio.
func (self AccessorGesture) Step(steps float64) float64 {
	self.sys.animator.InterruptEntrance()
	scale := self.sys.gesture.Step(steps)
	self.sys.observeScale(scale)
	self.sys.countGesture("step")
	return scale
}

func (self AccessorGesture) Config() gesture.Config { return self.sys.gesture.Config() }
