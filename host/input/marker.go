package input

import (
	"time"

	"github.com/edwinsyarief/orrery/scene"
	"github.com/edwinsyarief/orrery/signal"
)

// MarkerSim stands in for an AR tracking engine on hosts without a
// camera: a key press toggles the marker between found and lost, and
// Glitch() flips the raw visibility flag without any found/lost
// event, which is the kind of flicker the stability filter absorbs.
type MarkerSim struct {
	emitter Emitter
	node    scene.Node
	found   bool
}

// Creates a simulator driving the given marker node.
func NewMarkerSim(emitter Emitter, node scene.Node) *MarkerSim {
	if emitter == nil || node == nil {
		panic("input: nil emitter or marker node")
	}
	return &MarkerSim{emitter: emitter, node: node}
}

// Reports the marker as found. Does nothing if already found.
func (self *MarkerSim) Find(now time.Duration) {
	if self.found {
		return
	}
	self.found = true
	self.node.SetVisible(true)
	self.emitter.Emit(signal.MarkerFound, signal.Payload{Time: now})
}

// Reports the marker as lost. Does nothing if already lost.
func (self *MarkerSim) Lose(now time.Duration) {
	if !self.found {
		return
	}
	self.found = false
	self.node.SetVisible(false)
	self.emitter.Emit(signal.MarkerLost, signal.Payload{Time: now})
}

// Toggles between found and lost and returns the new state.
func (self *MarkerSim) Toggle(now time.Duration) bool {
	if self.found {
		self.Lose(now)
	} else {
		self.Find(now)
	}
	return self.found
}

// Flips the raw visibility flag.
func (self *MarkerSim) Glitch() {
	self.node.SetVisible(!self.node.Visible())
}

// Returns whether the marker is currently reported as found.
func (self *MarkerSim) Found() bool { return self.found }
