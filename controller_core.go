package orrery

import (
	"errors"
	"fmt"
	"time"

	"github.com/edwinsyarief/orrery/internal/logging"
	"github.com/edwinsyarief/orrery/orbit"
	"github.com/edwinsyarief/orrery/scene"
	"github.com/edwinsyarief/orrery/signal"
)

func (self *System) update(now time.Duration) error {
	if !self.started {
		return nil
	}
	self.ticks += 1
	self.lastNow = now
	if self.metrics != nil {
		self.metrics.Ticks.Inc()
	}

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	collect(self.guard(UnitStability, now, func() error {
		if self.filter.Update(now) && self.metrics != nil {
			self.metrics.Samples.Inc()
		}
		return nil
	}))
	collect(self.guard(UnitOrbit, now, func() error {
		return self.animator.Update(now)
	}))
	if runner, ok := self.scheduler.(ticker); ok {
		collect(self.guard(UnitTween, now, func() error {
			runner.Update(now)
			return nil
		}))
	}
	return errors.Join(errs...)
}

// Runs fn, converting a returned error or a panic into a logged and
// counted *TransientTickError.
func (self *System) guard(unit string, now time.Duration, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("panic: %v", r)
			}
			err = self.transient(unit, now, cause)
		}
	}()
	if cause := fn(); cause != nil {
		return self.transient(unit, now, cause)
	}
	return nil
}

func (self *System) transient(unit string, now time.Duration, cause error) error {
	if self.metrics != nil {
		self.metrics.TickErrors.WithLabelValues(unit).Inc()
	}
	self.logger.Warn("unit failed, skipping tick",
		logging.String("unit", unit),
		logging.Duration("time", now),
		logging.Err(cause))
	return &TransientTickError{Unit: unit, Time: now, Err: cause}
}

func (self *System) initFailure(err error) error {
	var missing *scene.MissingNodeError
	if errors.As(err, &missing) {
		err = &MissingDependencyError{Err: missing}
	}
	self.logger.Error("orrery initialization failed", logging.Err(err))
	self.bus.Emit(signal.SolarSystemError, signal.Payload{Message: err.Error()})
	return err
}

// stability filter callback
func (self *System) onStable(now time.Duration) {
	if self.metrics != nil {
		self.metrics.Stabilizations.Inc()
	}
	self.logger.Info("marker stabilized", logging.Duration("time", now))
	self.bus.Emit(signal.MarkerStabilized, signal.Payload{Time: now})
}

func (self *System) observeTransition(state orbit.State) {
	if self.metrics == nil {
		return
	}
	self.metrics.Transitions.WithLabelValues(state.String()).Inc()
	if state == orbit.Active {
		self.metrics.Active.Set(1)
	} else {
		self.metrics.Active.Set(0)
	}
}

func (self *System) observeScale(scale float64) {
	if self.metrics != nil {
		self.metrics.Scale.Set(scale)
	}
}
