package orrery

import "time"

// Unit names, used in [TransientTickError] and as metric labels.
const (
	UnitStability = "stability"
	UnitOrbit     = "orbit"
	UnitTween     = "tween"
	UnitGesture   = "gesture"
	UnitMarker    = "marker"
)

// internal usage
type ticker interface {
	Update(now time.Duration)
}

// --- errors ---
const doubleStart = "orrery: System.Start() called twice without Stop()"
const nilGraph = "orrery: nil scene graph"
const nilBus = "orrery: nil signal bus"
