// Package stability implements the marker stability filter: a debounce
// that samples the raw marker visibility flag at a fixed cadence and
// reports the marker as stable once enough consecutive samples agree.
package stability

import (
	"fmt"
	"time"
)

// Defaults used when a Config field is left at its zero value
// through [DefaultConfig].
const (
	DefaultThreshold = 5
	DefaultTimeout   = 100 * time.Millisecond
)

// Config holds the filter parameters.
type Config struct {
	// Number of consecutive equal samples needed to stabilize. Must be >= 1.
	Threshold int
	// Minimum time between two samples. Must be >= 0.
	Timeout time.Duration
}

// DefaultConfig returns a threshold of 5 samples, 100ms apart.
func DefaultConfig() Config {
	return Config{Threshold: DefaultThreshold, Timeout: DefaultTimeout}
}

// Validate rejects thresholds below one and negative timeouts.
func (c Config) Validate() error {
	if c.Threshold < 1 {
		return fmt.Errorf("stability threshold must be >= 1, got %d", c.Threshold)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("stability timeout must be >= 0, got %v", c.Timeout)
	}
	return nil
}

// VisibilitySource exposes the raw marker visibility flag maintained
// by the tracking engine.
type VisibilitySource interface {
	Visible() bool
}

// VisibilityFunc adapts a plain function to a VisibilitySource.
type VisibilityFunc func() bool

// Visible implements VisibilitySource.
func (f VisibilityFunc) Visible() bool { return f() }

// State is a read-only snapshot of the filter.
type State struct {
	LastVisible bool
	Count       int
	Stable      bool
	LastSample  time.Duration
	Seeded      bool // whether a sample was taken since the last reset
}

// Filter debounces marker visibility flicker. It's driven by the host
// tick and is not safe for concurrent use.
type Filter struct {
	cfg    Config
	source VisibilitySource
	state  State

	sampled  bool // any sample ever taken; gates the cadence check
	onStable func(now time.Duration)
}

// New creates a filter reading from the given source. The onStable
// callback, if not nil, fires once per stable run.
func New(cfg Config, source VisibilitySource, onStable func(now time.Duration)) (*Filter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("stability: nil visibility source")
	}
	return &Filter{cfg: cfg, source: source, onStable: onStable}, nil
}

// Update records one sample if at least Timeout has passed since the
// previous one, and does nothing otherwise. It reports whether a
// sample was taken.
//
// The first sample after creation or after [Filter.Reset]() seeds the
// run and counts as its first element. After that, a sample equal to
// the previous one extends the run, while a different one silently
// resets the count to zero.
func (self *Filter) Update(now time.Duration) bool {
	if self.sampled && now-self.state.LastSample < self.cfg.Timeout {
		return false
	}
	self.sampled = true
	self.state.LastSample = now

	visible := self.source.Visible()
	switch {
	case !self.state.Seeded:
		self.state.Seeded = true
		self.state.LastVisible = visible
		self.state.Count = 1
		self.checkStable(now)
	case visible == self.state.LastVisible:
		self.state.Count += 1
		self.checkStable(now)
	default:
		self.state.Count = 0
		self.state.Stable = false
		self.state.LastVisible = visible
	}
	return true
}

func (self *Filter) checkStable(now time.Duration) {
	if self.state.Count >= self.cfg.Threshold && !self.state.Stable {
		self.state.Stable = true
		if self.onStable != nil {
			self.onStable(now)
		}
	}
}

// Reset clears the run regardless of the sampling cadence. Used
// when the tracking engine reports the marker as lost.
func (self *Filter) Reset() {
	self.state.LastVisible = false
	self.state.Count = 0
	self.state.Stable = false
	self.state.Seeded = false
}

// IsStable reports whether the current run reached the threshold.
func (self *Filter) IsStable() bool { return self.state.Stable }

// State returns a snapshot of the filter state.
func (self *Filter) State() State { return self.state }

// Config returns the filter configuration.
func (self *Filter) Config() Config { return self.cfg }
