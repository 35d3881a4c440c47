// This package defines the [Scheduler] interface that the orbit
// animator uses to delegate one-shot scale animations to the host's
// animation-interpolation subsystem, and provides a [Runner] that
// implements it for hosts without one.
//
// The only animation the orrery schedules at the moment is the
// entrance animation: the whole solar system scaling up from zero
// the first time the marker stabilizes after being found.
package tween

import (
	"time"

	"github.com/edwinsyarief/orrery/scene"
)

// The interface for animation schedulers.
//
// Schedule() requests that the node's scale transitions from the
// given start value to the given end value over d. Scheduling a
// new animation for a node that's already animating replaces the
// previous one.
//
// Cancel() drops the node's pending animation, if any. With finish
// set the node jumps to the end value first, otherwise it keeps its
// current value. Nothing is written to the node afterwards.
type Scheduler interface {
	Schedule(node scene.Node, from, to scene.Vec3, d time.Duration)
	Cancel(node scene.Node, finish bool)
}

// Easing maps linear progress in [0, 1] to eased progress.
type Easing func(t float64) float64

// Linear easing.
func Linear(t float64) float64 { return t }

// Cubic smoothstep easing.
func Smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}
