// Package gesture translates pinch and double-tap gestures into a
// uniform scale on a target scene node.
package gesture

import (
	"fmt"
	"math"

	"github.com/edwinsyarief/orrery/scene"
)

// Defaults for [Config].
const (
	DefaultMinScale   = 0.1
	DefaultMaxScale   = 20.0
	DefaultScaleStep  = 0.05
	DefaultResetScale = 0.15
)

// Config holds the scale bounds.
type Config struct {
	MinScale float64
	MaxScale float64
	// Ratio step used by hosts for discrete inputs (mouse wheel,
	// keyboard). The controller itself doesn't use it.
	ScaleStep float64
	// Scale applied on double tap.
	ResetScale float64
}

// DefaultConfig returns bounds [0.1, 20] and a 0.15 reset scale.
func DefaultConfig() Config {
	return Config{
		MinScale:   DefaultMinScale,
		MaxScale:   DefaultMaxScale,
		ScaleStep:  DefaultScaleStep,
		ResetScale: DefaultResetScale,
	}
}

// Validate requires 0 < MinScale <= MaxScale, a non-negative step and
// a reset scale within the bounds.
func (c Config) Validate() error {
	if !(c.MinScale > 0) || math.IsInf(c.MinScale, 0) {
		return fmt.Errorf("min scale must be > 0, got %v", c.MinScale)
	}
	if !(c.MaxScale >= c.MinScale) || math.IsInf(c.MaxScale, 0) {
		return fmt.Errorf("max scale must be finite and >= min scale (%v), got %v", c.MinScale, c.MaxScale)
	}
	if !(c.ScaleStep >= 0) {
		return fmt.Errorf("scale step must be >= 0, got %v", c.ScaleStep)
	}
	if !(c.ResetScale >= c.MinScale && c.ResetScale <= c.MaxScale) {
		return fmt.Errorf("reset scale must be within [%v, %v], got %v", c.MinScale, c.MaxScale, c.ResetScale)
	}
	return nil
}

// Clamp limits the given scale to the configured bounds.
func (c Config) Clamp(scale float64) float64 {
	return math.Min(math.Max(scale, c.MinScale), c.MaxScale)
}

// Controller applies gestures to its target. The only state kept
// across events is the baseline captured at gesture start.
type Controller struct {
	cfg      Config
	target   scene.Node
	baseline scene.Vec3
	pinching bool
}

// New creates a controller for the given target node.
func New(cfg Config, target scene.Node) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("gesture: nil target node")
	}
	return &Controller{cfg: cfg, target: target, baseline: target.Scale()}, nil
}

// PinchStart snapshots the target's current scale as the baseline for
// the rest of the gesture.
func (self *Controller) PinchStart() {
	self.baseline = self.target.Scale()
	self.pinching = true
}

// Pinch applies the ratio (relative to the distance at gesture start)
// to the baseline, clamped to the configured bounds, and returns the
// applied scale. A pinch without a preceding start takes the current
// scale as its baseline. Non-positive or non-finite ratios are ignored.
func (self *Controller) Pinch(ratio float64) float64 {
	if !self.pinching {
		self.PinchStart()
	}
	if !(ratio > 0) || math.IsInf(ratio, 0) {
		return self.target.Scale().X
	}
	scale := self.cfg.Clamp(self.baseline.X * ratio)
	self.target.SetScale(scene.Uniform(scale))
	return scale
}

// PinchEnd closes the current gesture.
func (self *Controller) PinchEnd() {
	self.pinching = false
}

// DoubleTap resets the target to the configured reset scale.
func (self *Controller) DoubleTap() {
	self.pinching = false
	self.target.SetScale(scene.Uniform(self.cfg.ResetScale))
}

// Step applies a discrete zoom of the given number of steps (negative
// to shrink), as a one-shot gesture. Used for wheel and keyboard input.
func (self *Controller) Step(steps float64) float64 {
	self.PinchStart()
	scale := self.Pinch(math.Pow(1+self.cfg.ScaleStep, steps))
	self.PinchEnd()
	return scale
}

// Scale returns the target's current uniform scale.
func (self *Controller) Scale() float64 { return self.target.Scale().X }

// Baseline returns the scale captured at the last gesture start.
func (self *Controller) Baseline() scene.Vec3 { return self.baseline }

// Config returns the controller configuration.
func (self *Controller) Config() Config { return self.cfg }
