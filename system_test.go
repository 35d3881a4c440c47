package orrery

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/edwinsyarief/orrery/internal/logging"
	"github.com/edwinsyarief/orrery/metrics"
	"github.com/edwinsyarief/orrery/orbit"
	"github.com/edwinsyarief/orrery/scene"
	"github.com/edwinsyarief/orrery/signal"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

const ms = time.Millisecond

type fixture struct {
	sys     *System
	tree    *scene.Tree
	bus     *signal.Bus
	metrics *metrics.Collector
}

func newFixture(t *testing.T, cfg Config, opts ...Option) *fixture {
	t.Helper()
	collector, err := metrics.NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	tree := cfg.Orbit().Table().BuildTree()
	bus := signal.NewBus()
	opts = append([]Option{WithMetrics(collector)}, opts...)
	sys, err := New(cfg, tree, bus, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &fixture{sys: sys, tree: tree, bus: bus, metrics: collector}
}

func (self *fixture) node(t *testing.T, name string) *scene.TreeNode {
	t.Helper()
	node, found := self.tree.Node(name)
	if !found {
		t.Fatalf("node %q not in tree", name)
	}
	return node
}

func (self *fixture) tick(t *testing.T, from, to, step time.Duration) {
	t.Helper()
	for now := from; now <= to; now += step {
		if err := self.sys.Update(now); err != nil {
			t.Fatalf("Update(%v): %v", now, err)
		}
	}
}

func TestSystemLifecycle(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.sys.Start()

	marker := f.node(t, scene.NameMarker)
	if marker.Visible() {
		t.Fatalf("marker visible before being found")
	}

	// the filter also stabilizes on a consistently hidden marker, but
	// the entrance only plays while active
	f.tick(t, 0, 400*ms, 100*ms)
	if !f.sys.Stability().IsStable() {
		t.Fatalf("filter not stable after five hidden samples")
	}
	if f.sys.Orbit().EntrancePlayed() {
		t.Fatalf("entrance played while inactive")
	}
	if angle, _ := f.sys.Orbit().Angle(scene.NameEarthOrbit); angle != 0 {
		t.Fatalf("earthOrbit angle = %v before activation, want 0", angle)
	}

	f.bus.Emit(signal.MarkerFound, signal.Payload{Time: 500 * ms})
	if !marker.Visible() {
		t.Fatalf("marker hidden after markerFound")
	}
	if !f.sys.Orbit().IsActive() {
		t.Fatalf("animator state = %v, want active", f.sys.Orbit().State())
	}

	f.tick(t, 500*ms, 1000*ms, 100*ms)
	if got := testutil.ToFloat64(f.metrics.Stabilizations); got != 2 {
		t.Fatalf("stabilizations = %v, want 2", got)
	}
	if !f.sys.Orbit().EntrancePlayed() {
		t.Fatalf("entrance not played after stabilizing while active")
	}
	angle, _ := f.sys.Orbit().Angle(scene.NameEarthOrbit)
	if want := orbit.EarthOrbitRate * 500; math.Abs(angle-want) > 1e-9 {
		t.Fatalf("earthOrbit angle = %v, want %v", angle, want)
	}

	root := f.node(t, scene.NameSolarSystem)
	if got := root.Scale(); got != scene.Uniform(0) {
		t.Fatalf("root scale at entrance start = %v, want 0", got)
	}
	if err := f.sys.Update(1600 * ms); err != nil {
		t.Fatal(err)
	}
	if got := root.Scale(); got != scene.Uniform(0.5) {
		t.Fatalf("root scale halfway through entrance = %v, want 0.5", got)
	}
	if err := f.sys.Update(2200 * ms); err != nil {
		t.Fatal(err)
	}
	if got := root.Scale(); got != scene.Uniform(1) {
		t.Fatalf("root scale after entrance = %v, want 1", got)
	}

	f.bus.Emit(signal.MarkerLost, signal.Payload{Time: 2300 * ms})
	if marker.Visible() {
		t.Fatalf("marker visible after markerLost")
	}
	if state := f.sys.Stability().State(); state.Count != 0 || state.Stable || state.Seeded {
		t.Fatalf("filter state after markerLost = %+v, want reset", state)
	}
	frozen, _ := f.sys.Orbit().Angle(scene.NameMoon)
	f.tick(t, 2400*ms, 5000*ms, 100*ms)
	if angle, _ := f.sys.Orbit().Angle(scene.NameMoon); angle != frozen {
		t.Fatalf("moon angle moved while inactive: %v -> %v", frozen, angle)
	}

	if got := testutil.ToFloat64(f.metrics.Transitions.WithLabelValues("inactive")); got != 1 {
		t.Fatalf("inactive transitions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(f.metrics.Active); got != 0 {
		t.Fatalf("active gauge = %v, want 0", got)
	}
}

func TestSystemEntrancePlaysOnce(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.sys.Start()
	f.bus.Emit(signal.MarkerFound, signal.Payload{Time: 0})
	f.tick(t, 0, 3000*ms, 100*ms)
	f.bus.Emit(signal.MarkerLost, signal.Payload{Time: 3000 * ms})
	f.bus.Emit(signal.MarkerFound, signal.Payload{Time: 3100 * ms})
	f.tick(t, 3100*ms, 6000*ms, 100*ms)
	if got := testutil.ToFloat64(f.metrics.Entrances); got != 1 {
		t.Fatalf("entrances = %v, want 1", got)
	}
}

// Found at 0 stabilizes at 400ms, so the entrance runs from 400ms
// to 1600ms.
func startEntrance(t *testing.T, f *fixture) *scene.TreeNode {
	t.Helper()
	f.sys.Start()
	f.bus.Emit(signal.MarkerFound, signal.Payload{Time: 0})
	f.tick(t, 0, 600*ms, 100*ms)
	root := f.node(t, scene.NameSolarSystem)
	if got := root.Scale().X; got <= 0 || got >= 1 {
		t.Fatalf("root scale at 600ms = %v, want mid entrance", got)
	}
	return root
}

func TestSystemStopHaltsTicks(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	root := startEntrance(t, f)

	f.sys.Stop()
	if got := root.Scale(); got != scene.Uniform(1) {
		t.Fatalf("root scale after Stop = %v, want the entrance end value", got)
	}
	stabilized := 0
	f.bus.Subscribe(signal.MarkerStabilized, func(signal.Payload) { stabilized += 1 })
	ticks, state := f.sys.Ticks(), f.sys.Stability().State()

	f.tick(t, 700*ms, 3000*ms, 100*ms)
	if got := root.Scale(); got != scene.Uniform(1) {
		t.Fatalf("root scale changed after Stop: %v", got)
	}
	if f.sys.Ticks() != ticks {
		t.Fatalf("ticks = %d after Stop, want %d", f.sys.Ticks(), ticks)
	}
	if got := f.sys.Stability().State(); got != state {
		t.Fatalf("filter sampled after Stop: %+v, want %+v", got, state)
	}
	if stabilized != 0 {
		t.Fatalf("marker-stabilized emitted %d times after Stop", stabilized)
	}
}

func TestSystemMarkerLostCompletesEntrance(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	root := startEntrance(t, f)

	f.bus.Emit(signal.MarkerLost, signal.Payload{Time: 650 * ms})
	if got := root.Scale(); got != scene.Uniform(1) {
		t.Fatalf("root scale after markerLost = %v, want 1", got)
	}
	root.SetScale(scene.Uniform(0.5))
	f.tick(t, 700*ms, 3000*ms, 100*ms)
	if got := root.Scale(); got != scene.Uniform(0.5) {
		t.Fatalf("root scale written while hidden: %v", got)
	}
}

func TestSystemGesturesInterruptEntrance(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	startEntrance(t, f)

	f.bus.Emit(signal.DoubleTap, signal.Payload{Time: 650 * ms})
	f.tick(t, 700*ms, 3000*ms, 100*ms)
	if got := f.sys.Gesture().Scale(); got != 0.15 {
		t.Fatalf("scale after double tap during entrance = %v, want 0.15", got)
	}

	g := newFixture(t, DefaultConfig())
	root := startEntrance(t, g)
	partial := root.Scale().X
	g.bus.Emit(signal.PinchStart, signal.Payload{Time: 650 * ms})
	g.bus.Emit(signal.Pinch, signal.Payload{Time: 660 * ms, Scale: 2})
	g.tick(t, 700*ms, 3000*ms, 100*ms)
	if got, want := g.sys.Gesture().Scale(), 2*partial; math.Abs(got-want) > 1e-9 {
		t.Fatalf("scale after pinch during entrance = %v, want %v", got, want)
	}
}

func TestSystemPinchEndDropsBaseline(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.sys.Start()

	f.bus.Emit(signal.PinchStart, signal.Payload{})
	f.bus.Emit(signal.Pinch, signal.Payload{Scale: 2})
	f.bus.Emit(signal.PinchEnd, signal.Payload{})
	// a pinch without a start takes the current scale as its baseline
	f.bus.Emit(signal.Pinch, signal.Payload{Scale: 1.5})
	if got := f.sys.Gesture().Scale(); got != 3 {
		t.Fatalf("scale = %v, want 3", got)
	}
	if got := testutil.ToFloat64(f.metrics.Gestures.WithLabelValues("pinchend")); got != 1 {
		t.Fatalf("pinchend gestures = %v, want 1", got)
	}
}

func TestSystemGestures(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.sys.Start()
	root := f.node(t, scene.NameSolarSystem)

	f.bus.Emit(signal.PinchStart, signal.Payload{})
	f.bus.Emit(signal.Pinch, signal.Payload{Scale: 50})
	if got := root.Scale(); got != scene.Uniform(20) {
		t.Fatalf("scale after pinch = %v, want 20", got)
	}
	if got := testutil.ToFloat64(f.metrics.Scale); got != 20 {
		t.Fatalf("scale gauge = %v, want 20", got)
	}

	f.bus.Emit(signal.DoubleTap, signal.Payload{})
	if got := f.sys.Gesture().Scale(); got != 0.15 {
		t.Fatalf("scale after double tap = %v, want 0.15", got)
	}

	f.sys.Gesture().Step(-1000)
	if got := f.sys.Gesture().Scale(); got != 0.1 {
		t.Fatalf("scale after large negative step = %v, want 0.1", got)
	}
	if got := testutil.ToFloat64(f.metrics.Gestures.WithLabelValues("pinch")); got != 1 {
		t.Fatalf("pinch gestures = %v, want 1", got)
	}
}

func TestSystemStopRemovesSubscriptions(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	inbound := []signal.Name{
		signal.MarkerFound, signal.MarkerLost, signal.MarkerStabilized,
		signal.PinchStart, signal.Pinch, signal.PinchEnd, signal.DoubleTap,
	}

	for round := 0; round < 3; round++ {
		f.sys.Start()
		for _, name := range inbound {
			if got := f.bus.Count(name); got != 1 {
				t.Fatalf("round %d: %s subscribers = %d, want 1", round, name, got)
			}
		}
		f.bus.Emit(signal.MarkerFound, signal.Payload{Time: time.Duration(round) * time.Second})
		f.sys.Stop()
		for _, name := range inbound {
			if got := f.bus.Count(name); got != 0 {
				t.Fatalf("round %d: %s subscribers after Stop = %d, want 0", round, name, got)
			}
		}
		if f.sys.Orbit().IsActive() {
			t.Fatalf("round %d: animator still active after Stop", round)
		}
	}

	// signals after teardown reach nobody
	before := f.node(t, scene.NameSolarSystem).Scale()
	f.bus.Emit(signal.Pinch, signal.Payload{Scale: 3})
	if got := f.node(t, scene.NameSolarSystem).Scale(); got != before {
		t.Fatalf("pinch after Stop changed scale to %v", got)
	}
}

func TestSystemDoubleStartPanics(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.sys.Start()
	defer func() {
		if recover() == nil {
			t.Fatalf("second Start() didn't panic")
		}
	}()
	f.sys.Start()
}

func TestSystemMissingNode(t *testing.T) {
	tree := orbit.DisplayTable().BuildTree()
	tree.Remove(scene.NameMoonOrbit)
	bus := signal.NewBus()

	var messages []string
	bus.Subscribe(signal.SolarSystemError, func(p signal.Payload) {
		messages = append(messages, p.Message)
	})

	_, err := New(DefaultConfig(), tree, bus)
	var missing *MissingDependencyError
	if !errors.As(err, &missing) {
		t.Fatalf("New error = %v, want *MissingDependencyError", err)
	}
	if got := strings.Join(missing.Names(), ","); got != "moonOrbit,moon" {
		t.Fatalf("missing names = %q, want moonOrbit,moon", got)
	}
	var nodeErr *scene.MissingNodeError
	if !errors.As(err, &nodeErr) {
		t.Fatalf("error doesn't wrap *scene.MissingNodeError")
	}
	if len(messages) != 1 || messages[0] != err.Error() {
		t.Fatalf("solar-system-error messages = %q, want [%q]", messages, err.Error())
	}
}

func TestSystemInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StabilityThreshold = 0
	_, err := New(cfg, orbit.DisplayTable().BuildTree(), signal.NewBus())
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("New error = %v, want *ConfigurationError", err)
	}
	if cfgErr.Field != "stability_threshold" {
		t.Fatalf("field = %q, want stability_threshold", cfgErr.Field)
	}
}

func TestSystemOrbitFailureIsTransient(t *testing.T) {
	var logs bytes.Buffer
	cfg := DefaultConfig()
	cfg.TimeScale = math.MaxFloat64
	f := newFixture(t, cfg, WithLogger(logging.New(logging.Config{Format: "json", Output: &logs})))
	f.sys.Start()
	f.bus.Emit(signal.MarkerFound, signal.Payload{Time: 0})

	err := f.sys.Update(100 * ms)
	if !IsTransient(err) {
		t.Fatalf("Update error = %v, want transient", err)
	}
	if !errors.Is(err, orbit.ErrNonFinite) {
		t.Fatalf("Update error = %v, want ErrNonFinite", err)
	}
	var transient *TransientTickError
	errors.As(err, &transient)
	if transient.Unit != UnitOrbit {
		t.Fatalf("unit = %q, want %q", transient.Unit, UnitOrbit)
	}
	if angle, _ := f.sys.Orbit().Angle(scene.NameSun); angle != 0 {
		t.Fatalf("sun angle = %v after failed tick, want 0", angle)
	}
	if got := testutil.ToFloat64(f.metrics.TickErrors.WithLabelValues(UnitOrbit)); got != 1 {
		t.Fatalf("orbit tick errors = %v, want 1", got)
	}
	if !strings.Contains(logs.String(), `"unit":"orbit"`) {
		t.Fatalf("failure not logged:\n%s", logs.String())
	}
	// the stability filter still sampled on the failing tick
	if state := f.sys.Stability().State(); state.LastSample != 100*ms {
		t.Fatalf("last sample = %v, want 100ms", state.LastSample)
	}
}

type panickyScheduler struct{ scheduled int }

func (self *panickyScheduler) Schedule(scene.Node, scene.Vec3, scene.Vec3, time.Duration) {
	self.scheduled += 1
}

func (self *panickyScheduler) Cancel(scene.Node, bool) {}

func (self *panickyScheduler) Update(time.Duration) {
	panic("tween backend exploded")
}

func TestSystemRecoversFromPanics(t *testing.T) {
	f := newFixture(t, DefaultConfig(), WithScheduler(&panickyScheduler{}))
	f.sys.Start()
	f.bus.Emit(signal.MarkerFound, signal.Payload{Time: 0})

	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("panic escaped Update: %v", r)
			}
		}()
		err = f.sys.Update(100 * ms)
	}()
	var transient *TransientTickError
	if !errors.As(err, &transient) || transient.Unit != UnitTween {
		t.Fatalf("Update error = %v, want transient tween error", err)
	}
	if angle, _ := f.sys.Orbit().Angle(scene.NameEarth); angle == 0 {
		t.Fatalf("orbit didn't advance on a tick where the tween unit panicked")
	}
}

type countingPausable struct{ paused, resumed int }

func (self *countingPausable) Pause()  { self.paused += 1 }
func (self *countingPausable) Resume() { self.resumed += 1 }

func TestSystemPausables(t *testing.T) {
	p := &countingPausable{}
	f := newFixture(t, DefaultConfig(), WithPausables(p))
	f.sys.Start()
	f.bus.Emit(signal.MarkerFound, signal.Payload{Time: 0})
	f.bus.Emit(signal.MarkerFound, signal.Payload{Time: 10 * ms})
	f.bus.Emit(signal.MarkerLost, signal.Payload{Time: 20 * ms})
	if p.resumed != 1 || p.paused != 1 {
		t.Fatalf("resumed/paused = %d/%d, want 1/1", p.resumed, p.paused)
	}
}
