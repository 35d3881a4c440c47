// Package orbit implements the orbit animator: a two-state machine that,
// while active, advances the rotation of every body of the solar system
// proportionally to the scaled time elapsed since the previous tick.
//
// Angles accumulate incrementally (angle += rate * dt) for all bodies.
// Activation resets the tick reference, so time spent inactive is never
// replayed and each body keeps its phase across pauses.
package orbit

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/edwinsyarief/orrery/clock"
	"github.com/edwinsyarief/orrery/scene"
	"github.com/edwinsyarief/orrery/signal"
	"github.com/edwinsyarief/orrery/smoother"
	"github.com/edwinsyarief/orrery/tween"
)

// State of the animator.
type State uint8

const (
	Inactive State = iota
	Active
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// ErrNonFinite is returned by [Animator.Update] when a tick would
// write a NaN or infinite angle. The tick is skipped entirely.
var ErrNonFinite = errors.New("orbit: non-finite rotation angle")

// Default duration of the entrance animation.
const DefaultEntranceDuration = 1200 * time.Millisecond

// Config holds the animator parameters.
type Config struct {
	// Multiplier applied to elapsed frame time. Must be finite and >= 0.
	TimeScale float64
	// Use radii proportional to real astronomical distances.
	RealScale bool
	// Blend written angles towards their target instead of
	// assigning them directly.
	SmoothTransitions bool
	// Scale the solar system up from zero the first time the
	// marker stabilizes.
	Entrance bool
	// Duration of the entrance animation.
	EntranceDuration time.Duration
}

// DefaultConfig returns a real-time, unsmoothed configuration with
// the entrance animation enabled.
func DefaultConfig() Config {
	return Config{
		TimeScale:        1.0,
		Entrance:         true,
		EntranceDuration: DefaultEntranceDuration,
	}
}

// Validate rejects negative or non-finite time scales and negative
// entrance durations.
func (c Config) Validate() error {
	if math.IsNaN(c.TimeScale) || math.IsInf(c.TimeScale, 0) || c.TimeScale < 0 {
		return fmt.Errorf("time scale must be finite and >= 0, got %v", c.TimeScale)
	}
	if c.EntranceDuration < 0 {
		return fmt.Errorf("entrance duration must be >= 0, got %v", c.EntranceDuration)
	}
	return nil
}

// Table returns the body table matching the configured distance mode.
func (c Config) Table() Table {
	if c.RealScale {
		return RealScaleTable()
	}
	return DisplayTable()
}

// Pausable is a host-owned continuous animation (e.g. a looping
// self-rotation) that must follow the marker state.
type Pausable interface {
	Pause()
	Resume()
}

// Emitter publishes outbound signals. Implemented by [*signal.Bus].
type Emitter interface {
	Emit(name signal.Name, payload signal.Payload)
}

// NodeSource resolves body names to nodes. Implemented by [*scene.Handles].
type NodeSource interface {
	Get(name string) (scene.Node, bool)
}

type bodyState struct {
	Body
	node   scene.Node
	target float64
}

// Animator drives the body rotations. It's not safe for concurrent
// use: all methods must be called from the host update thread.
type Animator struct {
	cfg       Config
	bodies    []bodyState
	skipped   []string
	state     State
	lastTick  time.Duration
	smoother  smoother.Smoother
	emitter   Emitter
	pausables []Pausable

	scheduler      tween.Scheduler
	entranceNode   scene.Node
	entrancePlayed bool
	activatedAt    time.Duration
}

// Option customizes an [Animator].
type Option func(*Animator)

// WithSmoother overrides the smoother chosen from the config.
func WithSmoother(s smoother.Smoother) Option {
	return func(a *Animator) { a.smoother = s }
}

// WithScheduler sets the scheduler for the entrance animation of the
// given node (usually the solar system root). Without a scheduler the
// entrance is never played.
func WithScheduler(s tween.Scheduler, node scene.Node) Option {
	return func(a *Animator) {
		a.scheduler = s
		a.entranceNode = node
	}
}

// WithPausables registers host continuous animations.
func WithPausables(p ...Pausable) Option {
	return func(a *Animator) { a.pausables = append(a.pausables, p...) }
}

// New creates an inactive animator for the given body table. Nodes
// for required bodies must be resolvable through the source; absent
// optional bodies are skipped and reported by [Animator.Skipped].
func New(cfg Config, table Table, nodes NodeSource, emitter Emitter, opts ...Option) (*Animator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Animator{cfg: cfg, emitter: emitter}
	for _, body := range table {
		node, found := nodes.Get(body.Name)
		if !found {
			if body.Optional {
				a.skipped = append(a.skipped, body.Name)
				continue
			}
			return nil, &scene.MissingNodeError{Names: []string{body.Name}}
		}
		a.bodies = append(a.bodies, bodyState{Body: body, node: node, target: node.RotationY()})
	}
	a.smoother = smoother.Instant
	if cfg.SmoothTransitions {
		a.smoother = smoother.Linear
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Layout places every body at its radius under its parent pivot
// and applies its display scale.
func (self *Animator) Layout() {
	for i := range self.bodies {
		body := &self.bodies[i]
		if body.Radius > 0 {
			body.node.SetPosition(scene.Vec3{X: body.Radius})
		}
		if body.Scale > 0 {
			body.node.SetScale(scene.Uniform(body.Scale))
		}
	}
}

// Activate moves the animator to the active state, resuming host
// animations and emitting [signal.SolarSystemVisible]. The tick
// reference is reset to now. Activating an active animator does
// nothing and returns false.
func (self *Animator) Activate(now time.Duration) bool {
	if self.state == Active {
		return false
	}
	self.state = Active
	self.lastTick = now
	self.activatedAt = now
	for _, p := range self.pausables {
		p.Resume()
	}
	self.emit(signal.SolarSystemVisible, now)
	return true
}

// Deactivate freezes all rotations at their last values, completes a
// running entrance at once, pauses host animations and emits
// [signal.SolarSystemHidden]. Deactivating an
// inactive animator does nothing and returns false.
func (self *Animator) Deactivate(now time.Duration) bool {
	if self.state == Inactive {
		return false
	}
	self.state = Inactive
	self.cancelEntrance(true)
	for _, p := range self.pausables {
		p.Pause()
	}
	self.emit(signal.SolarSystemHidden, now)
	return true
}

// Update advances all rotations while active and does nothing while
// inactive. A clock going backwards counts as zero elapsed time.
func (self *Animator) Update(now time.Duration) error {
	if self.state != Active {
		return nil
	}
	dt := clock.Millis(now-self.lastTick) * self.cfg.TimeScale
	self.lastTick = now
	if dt < 0 {
		dt = 0
	}

	// validate everything first, so a bad tick writes nothing
	for i := range self.bodies {
		next := self.bodies[i].target + self.bodies[i].Rate*dt
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return fmt.Errorf("%w: body '%s'", ErrNonFinite, self.bodies[i].Name)
		}
	}
	for i := range self.bodies {
		body := &self.bodies[i]
		body.target += body.Rate * dt
		body.node.SetRotationY(self.smoother.Update(body.node.RotationY(), body.target))
	}
	return nil
}

// Stabilized plays the entrance animation the first time it's called
// while active. Later calls do nothing. Returns whether the entrance
// was scheduled.
func (self *Animator) Stabilized(now time.Duration) bool {
	if !self.cfg.Entrance || self.entrancePlayed || self.state != Active {
		return false
	}
	if self.scheduler == nil || self.entranceNode == nil {
		return false
	}
	self.entrancePlayed = true
	to := self.entranceNode.Scale()
	self.scheduler.Schedule(self.entranceNode, scene.Uniform(0), to, self.cfg.EntranceDuration)
	return true
}

// InterruptEntrance stops a running entrance animation, leaving the
// root at its current scale. Gestures call it before taking over
// the root scale.
func (self *Animator) InterruptEntrance() {
	self.cancelEntrance(false)
}

func (self *Animator) cancelEntrance(finish bool) {
	if self.scheduler != nil && self.entranceNode != nil {
		self.scheduler.Cancel(self.entranceNode, finish)
	}
}

func (self *Animator) emit(name signal.Name, now time.Duration) {
	if self.emitter != nil {
		self.emitter.Emit(name, signal.Payload{Time: now})
	}
}

// State returns the current animator state.
func (self *Animator) State() State { return self.state }

// Returns the accumulated target angle of the given body.
func (self *Animator) Angle(name string) (float64, bool) {
	for i := range self.bodies {
		if self.bodies[i].Name == name {
			return self.bodies[i].target, true
		}
	}
	return 0, false
}

// ActiveSince returns the frame time of the last activation.
func (self *Animator) ActiveSince() time.Duration { return self.activatedAt }

// Skipped returns the optional bodies that couldn't be resolved.
func (self *Animator) Skipped() []string { return self.skipped }

// EntrancePlayed reports whether the entrance animation was scheduled.
func (self *Animator) EntrancePlayed() bool { return self.entrancePlayed }

// Config returns the animator configuration.
func (self *Animator) Config() Config { return self.cfg }
