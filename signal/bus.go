// This package implements the synchronous publisher/subscriber bus that
// replaces host DOM events: the host publishes marker, gesture and
// lifecycle signals, and the orrery controllers subscribe to them.
//
// Dispatch is single-threaded and synchronous: [Bus.Emit]() invokes
// every handler registered for the signal, in registration order,
// before returning. Handlers can safely subscribe or unsubscribe while
// a dispatch is in progress; changes apply from the next emission.
package signal

import "time"

// Name identifies a signal.
type Name string

// Inbound signals, produced by the host runtime.
const (
	MarkerFound Name = "markerFound"
	MarkerLost  Name = "markerLost"
	PinchStart  Name = "pinchstart"
	Pinch       Name = "pinch"
	PinchEnd    Name = "pinchend"
	DoubleTap   Name = "doubletap"
)

// Outbound signals, produced by the orrery controllers.
const (
	MarkerStabilized   Name = "marker-stabilized"
	SolarSystemVisible Name = "solar-system-visible"
	SolarSystemHidden  Name = "solar-system-hidden"
	SolarSystemError   Name = "solar-system-error"
)

// Payload carried by a signal. Most signals only use a subset
// of the fields, or none at all.
type Payload struct {
	Time    time.Duration // frame time when the signal was produced
	Scale   float64       // pinch ratio relative to gesture start
	Message string        // error message for SolarSystemError
}

// Handler receives a signal payload.
type Handler func(Payload)

type subscriber struct {
	id uint32
	fn Handler
}

// Bus dispatches signals to subscribers. The zero value is ready to use.
type Bus struct {
	handlers map[Name][]subscriber
	nextID   uint32
}

// Creates a new bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Name][]subscriber)}
}

// Registers a handler for the given signal. The returned subscription
// must be removed on teardown to avoid dangling callbacks.
func (self *Bus) Subscribe(name Name, fn Handler) Subscription {
	if fn == nil {
		panic("signal: nil handler")
	}
	if self.handlers == nil {
		self.handlers = make(map[Name][]subscriber)
	}
	self.nextID += 1
	id := self.nextID
	// copy on write, so dispatches in progress keep their snapshot
	current := self.handlers[name]
	updated := make([]subscriber, len(current), len(current)+1)
	copy(updated, current)
	self.handlers[name] = append(updated, subscriber{id: id, fn: fn})
	return Subscription{id: id, bus: self, name: name}
}

// Emits a signal to every current subscriber.
func (self *Bus) Emit(name Name, payload Payload) {
	for _, sub := range self.handlers[name] {
		sub.fn(payload)
	}
}

// Returns the number of handlers registered for the given signal.
// Mostly useful to assert that teardowns don't leak listeners.
func (self *Bus) Count(name Name) int {
	return len(self.handlers[name])
}

func (self *Bus) remove(name Name, id uint32) {
	current := self.handlers[name]
	for i := range current {
		if current[i].id == id {
			updated := make([]subscriber, 0, len(current)-1)
			updated = append(updated, current[:i]...)
			updated = append(updated, current[i+1:]...)
			if len(updated) == 0 {
				delete(self.handlers, name)
			} else {
				self.handlers[name] = updated
			}
			return
		}
	}
}

// Subscription allows removing a registered handler.
type Subscription struct {
	id   uint32
	bus  *Bus
	name Name
}

// Unregisters the handler so it no longer fires. Calling Remove
// multiple times, or on a zero Subscription, is safe.
func (self Subscription) Remove() {
	if self.bus == nil {
		return
	}
	self.bus.remove(self.name, self.id)
}

// Group collects subscriptions so they can be removed together.
type Group struct {
	subs []Subscription
}

// Adds a subscription to the group.
func (self *Group) Add(sub Subscription) {
	self.subs = append(self.subs, sub)
}

// Removes every subscription in the group and empties it.
func (self *Group) RemoveAll() {
	for _, sub := range self.subs {
		sub.Remove()
	}
	self.subs = self.subs[:0]
}

// Returns the number of subscriptions held by the group.
func (self *Group) Len() int { return len(self.subs) }
