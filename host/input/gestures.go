// Package input turns raw pointer samples and key presses into orrery
// signals. It has no dependency on a windowing backend: hosts sample
// their own input once per frame and feed it here.
package input

import (
	"math"
	"time"

	"github.com/edwinsyarief/orrery/signal"
)

// Emitter publishes signals. Implemented by [*signal.Bus].
type Emitter interface {
	Emit(name signal.Name, payload signal.Payload)
}

// A touch point or mouse cursor, in screen pixels.
type Pointer struct {
	ID   int
	X, Y float64
}

// Defaults for the double tap detection.
const (
	DefaultDoubleTapWindow = 300 * time.Millisecond
	DefaultTapSlop         = 40.0
)

// Recognizer detects two-pointer pinches and double taps.
//
// A pinch starts when exactly two pointers are down and lasts until
// that stops being true, which emits [signal.PinchEnd]. The ratio
// reported on each [signal.Pinch] is the current distance between the
// pointers over the distance at pinch start. Two presses close in
// time and space produce a [signal.DoubleTap].
type Recognizer struct {
	emitter Emitter

	DoubleTapWindow time.Duration
	TapSlop         float64 // max distance between the two taps, in pixels

	pinching    bool
	initialDist float64

	hasTap   bool
	lastTap  time.Duration
	lastTapX float64
	lastTapY float64
}

// Creates a recognizer publishing to the given emitter.
func NewRecognizer(emitter Emitter) *Recognizer {
	if emitter == nil {
		panic("input: nil emitter")
	}
	return &Recognizer{
		emitter:         emitter,
		DoubleTapWindow: DefaultDoubleTapWindow,
		TapSlop:         DefaultTapSlop,
	}
}

// Update consumes one frame of input: the pointers currently down and
// the subset that went down on this frame.
func (self *Recognizer) Update(now time.Duration, down []Pointer, pressed []Pointer) {
	if len(down) == 2 {
		dx := down[1].X - down[0].X
		dy := down[1].Y - down[0].Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if !self.pinching {
			self.pinching = true
			self.initialDist = dist
			self.hasTap = false // a pinch cancels a pending tap
			self.emitter.Emit(signal.PinchStart, signal.Payload{Time: now})
		} else if self.initialDist > 0 {
			self.emitter.Emit(signal.Pinch, signal.Payload{Time: now, Scale: dist / self.initialDist})
		}
		return
	}
	if self.pinching {
		self.pinching = false
		self.emitter.Emit(signal.PinchEnd, signal.Payload{Time: now})
	}

	if len(down) > 2 {
		return
	}
	for _, p := range pressed {
		self.tap(now, p)
	}
}

func (self *Recognizer) tap(now time.Duration, p Pointer) {
	if self.hasTap && now-self.lastTap <= self.DoubleTapWindow &&
		math.Hypot(p.X-self.lastTapX, p.Y-self.lastTapY) <= self.TapSlop {
		self.hasTap = false
		self.emitter.Emit(signal.DoubleTap, signal.Payload{Time: now})
		return
	}
	self.hasTap = true
	self.lastTap = now
	self.lastTapX, self.lastTapY = p.X, p.Y
}

// Returns whether a pinch is in progress.
func (self *Recognizer) Pinching() bool { return self.pinching }
