// Package metrics bundles the Prometheus instruments updated by the
// orrery controllers. The registry is injected; exposing it (or not)
// is up to the host.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the orrery instruments.
type Collector struct {
	gatherer prometheus.Gatherer

	Ticks          prometheus.Counter
	TickErrors     *prometheus.CounterVec
	Samples        prometheus.Counter
	Stabilizations prometheus.Counter
	Transitions    *prometheus.CounterVec
	Gestures       *prometheus.CounterVec
	Entrances      prometheus.Counter

	Active prometheus.Gauge
	Scale  prometheus.Gauge
}

// NewCollector registers the orrery metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
// Registering twice against the same registry returns collectors
// bound to the already registered instruments.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{gatherer: gatherer}
	var err error

	if c.Ticks, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_ticks_total",
		Help: "Total number of host ticks processed.",
	}), "orrery_ticks_total"); err != nil {
		return nil, err
	}
	if c.TickErrors, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orrery_tick_errors_total",
		Help: "Ticks skipped because a unit failed, labeled by unit.",
	}, []string{"unit"}), "orrery_tick_errors_total"); err != nil {
		return nil, err
	}
	if c.Samples, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_marker_samples_total",
		Help: "Marker visibility samples taken by the stability filter.",
	}), "orrery_marker_samples_total"); err != nil {
		return nil, err
	}
	if c.Stabilizations, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_marker_stabilized_total",
		Help: "Number of times the marker reached a stable run.",
	}), "orrery_marker_stabilized_total"); err != nil {
		return nil, err
	}
	if c.Transitions, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orrery_animator_transitions_total",
		Help: "Orbit animator state transitions, labeled by the new state.",
	}, []string{"state"}), "orrery_animator_transitions_total"); err != nil {
		return nil, err
	}
	if c.Gestures, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orrery_gestures_total",
		Help: "Gesture signals handled, labeled by kind.",
	}, []string{"kind"}), "orrery_gestures_total"); err != nil {
		return nil, err
	}
	if c.Entrances, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_entrances_total",
		Help: "Entrance animations scheduled.",
	}), "orrery_entrances_total"); err != nil {
		return nil, err
	}
	if c.Active, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orrery_animator_active",
		Help: "1 while the orbit animator is active, 0 otherwise.",
	}), "orrery_animator_active"); err != nil {
		return nil, err
	}
	if c.Scale, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orrery_scene_scale",
		Help: "Current uniform scale of the gesture target.",
	}), "orrery_scene_scale"); err != nil {
		return nil, err
	}
	return c, nil
}

// Gatherer returns the gatherer backing the collector's registry.
func (c *Collector) Gatherer() prometheus.Gatherer { return c.gatherer }

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
