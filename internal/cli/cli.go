// Package cli holds the flags shared by the orrery commands.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/edwinsyarief/orrery"
	"github.com/edwinsyarief/orrery/internal/logging"
	"github.com/edwinsyarief/orrery/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// Common are the flags every command accepts. A config file is
// loaded first and non-zero flags override it.
type Common struct {
	ConfigFile string
	Summary    bool
	flags      orrery.Flags
}

// Registers the shared flags on the given set.
func Register(fs *flag.FlagSet) *Common {
	self := &Common{}
	fs.StringVar(&self.ConfigFile, "config", "", "Path to a JSON config file")
	fs.BoolVar(&self.Summary, "metrics", false, "Print a metrics summary on exit")
	fs.Float64Var(&self.flags.MinScale, "min-scale", 0, "Smallest scene scale (default: 0.1)")
	fs.Float64Var(&self.flags.MaxScale, "max-scale", 0, "Largest scene scale (default: 20)")
	fs.Float64Var(&self.flags.TimeScale, "time-scale", 0, "Orbit speed multiplier (default: 1)")
	fs.IntVar(&self.flags.StabilityThreshold, "stability", 0, "Consistent samples before the marker counts as stable (default: 5)")
	fs.IntVar(&self.flags.StabilityTimeoutMs, "stability-timeout", 0, "Stability sampling cadence in ms (default: 100)")
	fs.BoolVar(&self.flags.RealScale, "real-scale", false, "Use real orbital periods")
	fs.BoolVar(&self.flags.Smooth, "smooth", false, "Ease orbit pauses and resumes")
	fs.BoolVar(&self.flags.NoEntrance, "no-entrance", false, "Skip the entrance animation")
	fs.StringVar(&self.flags.LogLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&self.flags.LogFormat, "log-format", "", "text or json")
	return self
}

// Load resolves and validates the configuration.
func (self *Common) Load() (orrery.Config, error) {
	cfg := orrery.DefaultConfig()
	if self.ConfigFile != "" {
		var err error
		cfg, err = orrery.LoadConfig(self.ConfigFile)
		if err != nil {
			return cfg, err
		}
	}
	cfg.Resolve(self.flags)
	return cfg, cfg.Validate()
}

// Env is what every command needs besides the system itself.
type Env struct {
	Config  orrery.Config
	Logger  logging.Logger
	Metrics *metrics.Collector
}

// Setup loads the configuration and builds the logger and metrics.
// Logs go to out, or stderr when out is nil.
func (self *Common) Setup(out io.Writer) (*Env, error) {
	cfg, err := self.Load()
	if err != nil {
		return nil, err
	}
	logCfg := cfg.Logging()
	logCfg.Output = out
	collector, err := metrics.NewCollector(prometheus.NewRegistry())
	if err != nil {
		return nil, err
	}
	return &Env{Config: cfg, Logger: logging.New(logCfg), Metrics: collector}, nil
}

// Options returns the system options for this environment.
func (self *Env) Options(extra ...orrery.Option) []orrery.Option {
	return append([]orrery.Option{orrery.WithLogger(self.Logger), orrery.WithMetrics(self.Metrics)}, extra...)
}

// Finish prints the metrics summary when requested.
func (self *Common) Finish(env *Env, w io.Writer) {
	if !self.Summary || env == nil {
		return
	}
	fmt.Fprintln(w, "metrics:")
	if err := env.Metrics.WriteSummary(w); err != nil {
		env.Logger.Error("metrics summary failed", logging.Err(err))
	}
}

// Fatal prints the error and exits.
func Fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
