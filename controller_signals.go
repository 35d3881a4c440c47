package orrery

import (
	"github.com/edwinsyarief/orrery/internal/logging"
	"github.com/edwinsyarief/orrery/orbit"
	"github.com/edwinsyarief/orrery/scene"
	"github.com/edwinsyarief/orrery/signal"
)

func (self *System) subscribe() {
	self.on(signal.MarkerFound, UnitMarker, self.markerFound)
	self.on(signal.MarkerLost, UnitMarker, self.markerLost)
	self.on(signal.MarkerStabilized, UnitOrbit, self.markerStabilized)
	self.on(signal.PinchStart, UnitGesture, self.pinchStart)
	self.on(signal.Pinch, UnitGesture, self.pinch)
	self.on(signal.PinchEnd, UnitGesture, self.pinchEnd)
	self.on(signal.DoubleTap, UnitGesture, self.doubleTap)
}

// Handlers run under the same guard as tick units, so a failing
// handler never propagates into the host's event dispatch.
func (self *System) on(name signal.Name, unit string, handler signal.Handler) {
	self.subs.Add(self.bus.Subscribe(name, func(payload signal.Payload) {
		_ = self.guard(unit, payload.Time, func() error {
			handler(payload)
			return nil
		})
	}))
}

// ---- marker ----

func (self *System) markerFound(payload signal.Payload) {
	self.handles.MustGet(scene.NameMarker).SetVisible(true)
	if self.animator.Activate(payload.Time) {
		self.observeTransition(orbit.Active)
		self.logger.Info("marker found, solar system active", logging.Duration("time", payload.Time))
	}
}

func (self *System) markerLost(payload signal.Payload) {
	self.handles.MustGet(scene.NameMarker).SetVisible(false)
	self.filter.Reset()
	if self.animator.Deactivate(payload.Time) {
		self.observeTransition(orbit.Inactive)
		self.logger.Info("marker lost, solar system frozen", logging.Duration("time", payload.Time))
	}
}

func (self *System) markerStabilized(payload signal.Payload) {
	if self.animator.Stabilized(payload.Time) {
		if self.metrics != nil {
			self.metrics.Entrances.Inc()
		}
		self.logger.Debug("entrance animation scheduled",
			logging.Duration("duration", self.animator.Config().EntranceDuration))
	}
}

// ---- gestures ----

// Gestures own the root scale from their first event on, so a running
// entrance is interrupted before any of them writes.

func (self *System) pinchStart(signal.Payload) {
	self.animator.InterruptEntrance()
	self.gesture.PinchStart()
	self.countGesture("pinchstart")
}

func (self *System) pinch(payload signal.Payload) {
	self.animator.InterruptEntrance()
	self.observeScale(self.gesture.Pinch(payload.Scale))
	self.countGesture("pinch")
}

func (self *System) pinchEnd(signal.Payload) {
	self.gesture.PinchEnd()
	self.countGesture("pinchend")
}

func (self *System) doubleTap(signal.Payload) {
	self.animator.InterruptEntrance()
	self.gesture.DoubleTap()
	self.observeScale(self.gesture.Scale())
	self.countGesture("doubletap")
}

func (self *System) countGesture(kind string) {
	if self.metrics != nil {
		self.metrics.Gestures.WithLabelValues(kind).Inc()
	}
}
