// This package defines the [Smoother] interface used by the orbit
// animator to decide how a freshly computed rotation angle is written
// to a scene node, and provides a couple stateless implementations.
//
// Smoothing only affects the written angle: the animator keeps
// accumulating the exact target angle on its own, so a smoother can
// never make bodies drift from their nominal phase in the long run.
package smoother

import ebimath "github.com/edwinsyarief/ebi-math"

// The interface for angle smoothers.
//
// Given the currently written angle and the exact target angle,
// Update() returns the new angle to write.
type Smoother interface {
	Update(current, target float64) float64
}

type smoother = Smoother

// A few stateless built-in smoothers.
var (
	// Update(...) always returns the target. Deterministic
	// regardless of the frame rate.
	Instant smoother = instantSmoother{}

	// Applies a lerp between the current and target angles
	// with the default 0.1 blend factor per tick.
	Linear smoother = Lerp(DefaultBlend)
)

// Default blend factor for [Linear].
const DefaultBlend = 0.1

type instantSmoother struct{}

func (instantSmoother) Update(current, target float64) float64 {
	return target
}

// Returns a linear interpolation smoother that moves the given
// fraction of the remaining distance on each update. Panics if
// blend is outside (0, 1].
func Lerp(blend float64) Smoother {
	if blend <= 0 || blend > 1 {
		panic("smoother: blend factor must be in (0, 1]")
	}
	return linearSmoother{blend: blend}
}

// A simple linear interpolation smoother.
type linearSmoother struct {
	blend float64
}

func (self linearSmoother) Update(current, target float64) float64 {
	// stabilization
	if ebimath.Abs(target-current) < 1e-6 {
		return target
	}
	return current + (target-current)*self.blend
}
