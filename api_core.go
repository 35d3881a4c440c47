// Package orrery is the logic layer of an augmented reality solar
// system: a marker stability filter, an orbit animator and a gesture
// controller, wired to a host runtime through a [signal.Bus] and a
// [scene.Graph].
//
// The host owns the render loop, the marker tracking and the raw
// input. It publishes marker and gesture signals on the bus and calls
// [System.Update]() once per frame with its frame clock:
//
//	sys, err := orrery.New(cfg, tree, bus, orrery.WithLogger(logger))
//	if err != nil { ... }
//	sys.Start()
//	defer sys.Stop()
//	for { sys.Update(clock.Step()) }
//
// Everything runs on the host update thread. Nothing here is safe
// for concurrent use.
package orrery

import (
	"errors"
	"time"

	"github.com/edwinsyarief/orrery/gesture"
	"github.com/edwinsyarief/orrery/internal/logging"
	"github.com/edwinsyarief/orrery/metrics"
	"github.com/edwinsyarief/orrery/orbit"
	"github.com/edwinsyarief/orrery/scene"
	"github.com/edwinsyarief/orrery/signal"
	"github.com/edwinsyarief/orrery/smoother"
	"github.com/edwinsyarief/orrery/stability"
	"github.com/edwinsyarief/orrery/tween"
)

// System owns the three controllers and their bus subscriptions.
type System struct {
	cfg     Config
	bus     *signal.Bus
	handles *scene.Handles
	logger  logging.Logger
	metrics *metrics.Collector

	filter   *stability.Filter
	animator *orbit.Animator
	gesture  *gesture.Controller

	scheduler tween.Scheduler
	smoother  smoother.Smoother
	pausables []orbit.Pausable

	subs    signal.Group
	started bool
	ticks   uint64
	lastNow time.Duration
}

// New validates the config, resolves the scene nodes and builds the
// controllers. It doesn't subscribe to anything until [System.Start]().
//
// Missing required nodes fail initialization: a [signal.SolarSystemError]
// is emitted on the bus and a [*MissingDependencyError] returned.
func New(cfg Config, graph scene.Graph, bus *signal.Bus, opts ...Option) (*System, error) {
	if graph == nil {
		panic(nilGraph)
	}
	if bus == nil {
		panic(nilBus)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	self := &System{cfg: cfg, bus: bus, logger: logging.Noop()}
	for _, opt := range opts {
		opt(self)
	}
	if self.scheduler == nil {
		self.scheduler = defaultScheduler()
	}

	table := cfg.Orbit().Table()
	bindings := append(table.Bindings(),
		scene.Binding{Name: scene.NameMarker},
		scene.Binding{Name: scene.NameSolarSystem},
	)
	handles, err := scene.Resolve(graph, bindings)
	if err != nil {
		return nil, self.initFailure(err)
	}
	self.handles = handles
	for _, name := range handles.Missing() {
		self.logger.Warn("optional scene node not found, skipping", logging.String("node", name))
	}

	marker := handles.MustGet(scene.NameMarker)
	root := handles.MustGet(scene.NameSolarSystem)

	self.filter, err = stability.New(cfg.Stability(), marker, self.onStable)
	if err != nil {
		return nil, self.initFailure(err)
	}

	animOpts := []orbit.Option{orbit.WithScheduler(self.scheduler, root)}
	if self.smoother != nil {
		animOpts = append(animOpts, orbit.WithSmoother(self.smoother))
	}
	if len(self.pausables) > 0 {
		animOpts = append(animOpts, orbit.WithPausables(self.pausables...))
	}
	self.animator, err = orbit.New(cfg.Orbit(), table, handles, bus, animOpts...)
	if err != nil {
		return nil, self.initFailure(err)
	}

	self.gesture, err = gesture.New(cfg.Gesture(), root)
	if err != nil {
		return nil, self.initFailure(err)
	}

	self.logger.Debug("orrery initialized",
		logging.Int("bodies", len(table)),
		logging.Bool("real_scale", cfg.RealScale),
		logging.Float("time_scale", cfg.TimeScale))
	return self, nil
}

// Subscribes the controllers to the inbound signals, hides the marker
// node until the tracking engine reports it and lays out the bodies.
// Calling Start() twice without a [System.Stop]() in between
// panics.
func (self *System) Start() {
	if self.started {
		panic(doubleStart)
	}
	self.started = true
	self.subscribe()
	self.handles.MustGet(scene.NameMarker).SetVisible(false) // until found
	self.animator.Layout()
	if self.metrics != nil {
		self.metrics.Scale.Set(self.gesture.Scale())
	}
	self.logger.Info("orrery started", logging.Int("subscriptions", self.subs.Len()))
}

// Advances the controllers by one host frame: the stability filter
// samples the marker (if due), the orbit animator advances the
// rotations (if active) and pending tweens are applied.
//
// Does nothing while the system isn't started. A failing or
// panicking unit doesn't stop the others. Failures are
// logged, counted, and returned joined as [*TransientTickError] values;
// hosts should keep ticking.
func (self *System) Update(now time.Duration) error {
	return self.update(now)
}

// Deactivates the animator and removes every subscription. The
// system can be started again afterwards. Stopping a system that
// isn't started does nothing.
func (self *System) Stop() {
	if !self.started {
		return
	}
	self.started = false
	if self.animator.Deactivate(self.lastNow) {
		self.observeTransition(orbit.Inactive)
	}
	self.subs.RemoveAll()
	self.logger.Info("orrery stopped", logging.Int("ticks", int(self.ticks)))
}

// Returns whether the system is started.
func (self *System) Started() bool { return self.started }

// Returns the configuration the system was created with.
func (self *System) Config() Config { return self.cfg }

// Returns the bus the system is wired to.
func (self *System) Bus() *signal.Bus { return self.bus }

// Returns the resolved scene handles.
func (self *System) Handles() *scene.Handles { return self.handles }

// Returns the number of ticks processed so far.
func (self *System) Ticks() uint64 { return self.ticks }

// IsTransient reports whether err (or any error it wraps) is a
// [*TransientTickError].
func IsTransient(err error) bool {
	var transient *TransientTickError
	return errors.As(err, &transient)
}
