package orrery

import (
	"github.com/edwinsyarief/orrery/internal/logging"
	"github.com/edwinsyarief/orrery/metrics"
	"github.com/edwinsyarief/orrery/orbit"
	"github.com/edwinsyarief/orrery/smoother"
	"github.com/edwinsyarief/orrery/tween"
)

// Option customizes a [System] at construction time.
type Option func(*System)

// Sets the logger. Defaults to [logging.Noop]().
func WithLogger(logger logging.Logger) Option {
	return func(s *System) { s.logger = logger }
}

// Sets the metrics collector. Without one nothing is recorded.
func WithMetrics(collector *metrics.Collector) Option {
	return func(s *System) { s.metrics = collector }
}

// Sets the scheduler used for the entrance animation. By default a
// [tween.Runner] with smoothstep easing is created and advanced by
// [System.Update](). Custom schedulers that also implement
// Update(time.Duration) are advanced the same way; others are
// expected to be driven by the host.
func WithScheduler(scheduler tween.Scheduler) Option {
	return func(s *System) { s.scheduler = scheduler }
}

// Overrides the angle smoother chosen by the config.
func WithSmoother(smoother smoother.Smoother) Option {
	return func(s *System) { s.smoother = smoother }
}

// Registers host continuous animations that follow the marker state.
func WithPausables(pausables ...orbit.Pausable) Option {
	return func(s *System) { s.pausables = append(s.pausables, pausables...) }
}

func defaultScheduler() tween.Scheduler {
	return tween.NewRunner(tween.Smoothstep)
}
