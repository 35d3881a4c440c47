package orrery

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/edwinsyarief/orrery/gesture"
	"github.com/edwinsyarief/orrery/internal/logging"
	"github.com/edwinsyarief/orrery/orbit"
	"github.com/edwinsyarief/orrery/stability"
)

// Config holds every tunable of the orrery. It's usually loaded from
// a JSON file with [LoadConfig]() and then overridden by command line
// flags through [Config.Resolve]().
type Config struct {
	// Gesture scaling
	MinScale   float64 `json:"min_scale"`
	MaxScale   float64 `json:"max_scale"`
	ScaleStep  float64 `json:"scale_step"`
	ResetScale float64 `json:"reset_scale"`

	// Marker stability
	StabilityThreshold int `json:"stability_threshold"`
	StabilityTimeoutMs int `json:"stability_timeout_ms"`

	// Orbit animation
	TimeScale         float64 `json:"time_scale"`
	RealScale         bool    `json:"real_scale"`
	SmoothTransitions bool    `json:"smooth_transitions"`
	Entrance          bool    `json:"entrance"`
	EntranceMs        int     `json:"entrance_ms"`

	// Logging
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		MinScale:           gesture.DefaultMinScale,
		MaxScale:           gesture.DefaultMaxScale,
		ScaleStep:          gesture.DefaultScaleStep,
		ResetScale:         gesture.DefaultResetScale,
		StabilityThreshold: stability.DefaultThreshold,
		StabilityTimeoutMs: int(stability.DefaultTimeout / time.Millisecond),
		TimeScale:          1.0,
		Entrance:           true,
		EntranceMs:         int(orbit.DefaultEntranceDuration / time.Millisecond),
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

// LoadConfig reads a JSON config file on top of [DefaultConfig]().
// Keys absent from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
// Zero values mean "not set".
type Flags struct {
	MinScale           float64
	MaxScale           float64
	TimeScale          float64
	StabilityThreshold int
	StabilityTimeoutMs int
	RealScale          bool
	Smooth             bool
	NoEntrance         bool
	LogLevel           string
	LogFormat          string
}

// Resolve applies the given flags over the config. CLI flags take
// priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.MinScale > 0 {
		c.MinScale = flags.MinScale
	}
	if flags.MaxScale > 0 {
		c.MaxScale = flags.MaxScale
	}
	if flags.TimeScale > 0 {
		c.TimeScale = flags.TimeScale
	}
	if flags.StabilityThreshold > 0 {
		c.StabilityThreshold = flags.StabilityThreshold
	}
	if flags.StabilityTimeoutMs > 0 {
		c.StabilityTimeoutMs = flags.StabilityTimeoutMs
	}
	if flags.RealScale {
		c.RealScale = true
	}
	if flags.Smooth {
		c.SmoothTransitions = true
	}
	if flags.NoEntrance {
		c.Entrance = false
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.LogFormat != "" {
		c.LogFormat = flags.LogFormat
	}
}

// Validate reports the first out of range value as a
// [*ConfigurationError].
func (c Config) Validate() error {
	invalid := func(field, format string, args ...any) error {
		return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
	}
	switch {
	case !(c.MinScale > 0) || math.IsInf(c.MinScale, 0):
		return invalid("min_scale", "must be > 0, got %v", c.MinScale)
	case !(c.MaxScale >= c.MinScale) || math.IsInf(c.MaxScale, 0):
		return invalid("max_scale", "must be finite and >= min_scale (%v), got %v", c.MinScale, c.MaxScale)
	case !(c.ScaleStep >= 0):
		return invalid("scale_step", "must be >= 0, got %v", c.ScaleStep)
	case !(c.ResetScale >= c.MinScale && c.ResetScale <= c.MaxScale):
		return invalid("reset_scale", "must be within [%v, %v], got %v", c.MinScale, c.MaxScale, c.ResetScale)
	case c.StabilityThreshold < 1:
		return invalid("stability_threshold", "must be >= 1, got %d", c.StabilityThreshold)
	case c.StabilityTimeoutMs < 0:
		return invalid("stability_timeout_ms", "must be >= 0, got %d", c.StabilityTimeoutMs)
	case !(c.TimeScale >= 0) || math.IsInf(c.TimeScale, 0):
		return invalid("time_scale", "must be finite and >= 0, got %v", c.TimeScale)
	case c.EntranceMs < 0:
		return invalid("entrance_ms", "must be >= 0, got %d", c.EntranceMs)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return invalid("log_level", "unknown level %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return invalid("log_format", "unknown format %q", c.LogFormat)
	}
	return nil
}

// Stability returns the stability filter settings.
func (c Config) Stability() stability.Config {
	return stability.Config{
		Threshold: c.StabilityThreshold,
		Timeout:   time.Duration(c.StabilityTimeoutMs) * time.Millisecond,
	}
}

// Orbit returns the orbit animator settings.
func (c Config) Orbit() orbit.Config {
	return orbit.Config{
		TimeScale:         c.TimeScale,
		RealScale:         c.RealScale,
		SmoothTransitions: c.SmoothTransitions,
		Entrance:          c.Entrance,
		EntranceDuration:  time.Duration(c.EntranceMs) * time.Millisecond,
	}
}

// Gesture returns the gesture controller settings.
func (c Config) Gesture() gesture.Config {
	return gesture.Config{
		MinScale:   c.MinScale,
		MaxScale:   c.MaxScale,
		ScaleStep:  c.ScaleStep,
		ResetScale: c.ResetScale,
	}
}

// Logging returns the logger settings.
func (c Config) Logging() logging.Config {
	return logging.Config{Level: c.LogLevel, Format: c.LogFormat}
}
