// Package clock provides the frame clock abstraction that orrery
// controllers depend on, so they can be driven by a host render loop
// in production and by a manual clock in tests.
package clock

import (
	"time"
)

// Clock reports monotonically increasing frame time, measured from an
// arbitrary host-defined origin.
type Clock interface {
	Now() time.Duration
}

// Manual is a clock that only moves when told to. The zero value
// starts at time zero.
type Manual struct {
	now time.Duration
}

// NewManual constructs a manual clock starting at the given time.
func NewManual(start time.Duration) *Manual {
	return &Manual{now: start}
}

// Now implements Clock.
func (c *Manual) Now() time.Duration { return c.now }

// Set moves the clock to t. Moving backwards is allowed; consumers
// treat negative deltas as zero.
func (c *Manual) Set(t time.Duration) { c.now = t }

// Advance moves the clock forward by d and returns the new time.
func (c *Manual) Advance(d time.Duration) time.Duration {
	c.now += d
	return c.now
}

// Frame is a clock advanced once per host tick. Hosts with a fixed
// tick rate (like Ebitengine's TPS) step it by 1/TPS on every update,
// optionally scaled to run the simulation faster or slower.
type Frame struct {
	tps   int
	scale float64
	now   time.Duration
	ticks uint64
}

// NewFrame constructs a frame clock for the given ticks per second.
func NewFrame(tps int) *Frame {
	if tps <= 0 {
		panic("clock: tps must be positive")
	}
	return &Frame{tps: tps, scale: 1}
}

// Now implements Clock.
func (c *Frame) Now() time.Duration { return c.now }

// Ticks returns the number of steps taken so far.
func (c *Frame) Ticks() uint64 { return c.ticks }

// SetScale changes the rate at which frame time advances per tick.
func (c *Frame) SetScale(scale float64) {
	if scale < 0 {
		panic("clock: negative scale")
	}
	c.scale = scale
}

// Step advances the clock by one tick and returns the new time.
func (c *Frame) Step() time.Duration {
	step := float64(time.Second) / float64(c.tps) * c.scale
	c.now += time.Duration(step)
	c.ticks += 1
	return c.now
}

// Wall reports real elapsed time since its creation.
type Wall struct {
	start time.Time
}

// NewWall starts a wall clock at zero.
func NewWall() *Wall {
	return &Wall{start: time.Now()}
}

// Now implements Clock.
func (c *Wall) Now() time.Duration { return time.Since(c.start) }

// Millis converts a duration to fractional milliseconds, the unit
// angular rates are expressed in.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
