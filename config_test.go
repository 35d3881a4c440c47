package orrery

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if got := cfg.Stability().Timeout; got != 100*time.Millisecond {
		t.Fatalf("stability timeout = %v, want 100ms", got)
	}
	if got := cfg.Gesture().ResetScale; got != 0.15 {
		t.Fatalf("reset scale = %v, want 0.15", got)
	}
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orrery.json")
	data := []byte(`{"max_scale": 8, "stability_timeout_ms": 250, "real_scale": true}`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MaxScale != 8 || cfg.StabilityTimeoutMs != 250 || !cfg.RealScale {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.MinScale != 0.1 || cfg.StabilityThreshold != 5 || cfg.TimeScale != 1 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if !cfg.Orbit().RealScale {
		t.Fatalf("orbit config doesn't carry real_scale")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("LoadConfig(missing) = %v, want ErrNotExist", err)
	}
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte(`{"min_scale": `), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("LoadConfig(broken) = nil error")
	}
}

func TestResolveFlagsWin(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resolve(Flags{MaxScale: 4, TimeScale: 10, Smooth: true, NoEntrance: true, LogLevel: "debug"})
	if cfg.MaxScale != 4 || cfg.TimeScale != 10 || !cfg.SmoothTransitions || cfg.Entrance || cfg.LogLevel != "debug" {
		t.Fatalf("flags not applied: %+v", cfg)
	}
	if cfg.MinScale != 0.1 || cfg.StabilityThreshold != 5 {
		t.Fatalf("unset flags overrode values: %+v", cfg)
	}
}

func TestConfigValidateFields(t *testing.T) {
	tests := []struct {
		field string
		mut   func(*Config)
	}{
		{"min_scale", func(c *Config) { c.MinScale = 0 }},
		{"min_scale", func(c *Config) { c.MinScale = math.NaN() }},
		{"max_scale", func(c *Config) { c.MaxScale = 0.01 }},
		{"scale_step", func(c *Config) { c.ScaleStep = -0.5 }},
		{"reset_scale", func(c *Config) { c.ResetScale = 25 }},
		{"stability_threshold", func(c *Config) { c.StabilityThreshold = -1 }},
		{"stability_timeout_ms", func(c *Config) { c.StabilityTimeoutMs = -10 }},
		{"time_scale", func(c *Config) { c.TimeScale = math.Inf(1) }},
		{"entrance_ms", func(c *Config) { c.EntranceMs = -1 }},
		{"log_level", func(c *Config) { c.LogLevel = "verbose" }},
		{"log_format", func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mut(&cfg)
		err := cfg.Validate()
		var cfgErr *ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("%s: Validate() = %v, want *ConfigurationError", tt.field, err)
		}
		if cfgErr.Field != tt.field {
			t.Errorf("Validate() field = %q, want %q", cfgErr.Field, tt.field)
		}
	}
}
