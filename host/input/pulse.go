package input

import (
	"math"
	"time"
)

// Pulse is a looping host animation (the sun's corona glow) that
// follows the marker state through the orbit animator's pausables.
// It starts paused and doesn't replay time spent paused.
type Pulse struct {
	period  time.Duration
	phase   float64 // in [0, 1)
	paused  bool
	started bool
	last    time.Duration
}

// Creates a paused pulse with the given period.
func NewPulse(period time.Duration) *Pulse {
	if period <= 0 {
		panic("input: pulse period must be > 0")
	}
	return &Pulse{period: period, paused: true}
}

func (self *Pulse) Pause() { self.paused = true }

func (self *Pulse) Resume() {
	if self.paused {
		self.paused = false
		self.started = false
	}
}

// Returns whether the pulse is paused.
func (self *Pulse) Paused() bool { return self.paused }

// Advances the phase by the time elapsed since the previous update.
func (self *Pulse) Update(now time.Duration) {
	if self.paused {
		return
	}
	if !self.started {
		self.started = true
		self.last = now
		return
	}
	elapsed := now - self.last
	self.last = now
	if elapsed <= 0 {
		return
	}
	self.phase = math.Mod(self.phase+float64(elapsed)/float64(self.period), 1.0)
}

// Returns the current phase, in [0, 1).
func (self *Pulse) Phase() float64 { return self.phase }

// Returns the glow level in [0, 1], following a sine over the period.
func (self *Pulse) Level() float64 {
	return 0.5 - 0.5*math.Cos(2*math.Pi*self.phase)
}
