package orrery

import (
	"fmt"
	"strings"
	"time"

	"github.com/edwinsyarief/orrery/scene"
)

// Returned by [Config.Validate]() and [New]() when a configuration
// value is out of range.
type ConfigurationError struct {
	Field  string // json key of the offending value
	Reason string
}

func (self *ConfigurationError) Error() string {
	return fmt.Sprintf("orrery: invalid configuration: %s: %s", self.Field, self.Reason)
}

// Returned by [New]() when required scene nodes can't be resolved.
// A [signal.SolarSystemError] carrying the same message is emitted
// on the bus before returning.
type MissingDependencyError struct {
	Err *scene.MissingNodeError
}

func (self *MissingDependencyError) Error() string {
	return "orrery: initialization failed: " + strings.Join(self.Err.Names, ", ") + " not found in scene"
}

func (self *MissingDependencyError) Unwrap() error { return self.Err }

// Names returns the unresolved node names.
func (self *MissingDependencyError) Names() []string { return self.Err.Names }

// A unit failed (or panicked) during a tick or while handling a
// signal. The failure is logged and counted, the unit's work for that
// tick is skipped, and the next tick proceeds normally.
type TransientTickError struct {
	Unit string
	Time time.Duration
	Err  error
}

func (self *TransientTickError) Error() string {
	return fmt.Sprintf("orrery: %s failed at %v: %v", self.Unit, self.Time, self.Err)
}

func (self *TransientTickError) Unwrap() error { return self.Err }
