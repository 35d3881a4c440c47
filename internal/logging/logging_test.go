package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestJSONLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "json", Output: &buf}).With(String("unit", "orbit"))
	log.Warn("tick skipped", Int("count", 3), Err(errors.New("boom")))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line %q: %v", buf.String(), err)
	}
	if entry["msg"] != "tick skipped" {
		t.Fatalf("msg = %v, want %q", entry["msg"], "tick skipped")
	}
	if entry["unit"] != "orbit" {
		t.Fatalf("unit = %v, want orbit", entry["unit"])
	}
	if entry["count"] != float64(3) {
		t.Fatalf("count = %v, want 3", entry["count"])
	}
	if entry["level"] != "WARN" {
		t.Fatalf("level = %v, want WARN", entry["level"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Output: &buf})
	log.Info("hidden")
	log.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %q", buf.String())
	}
	log.Error("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected error line, got %q", buf.String())
	}
}

func TestNoop(t *testing.T) {
	log := Noop().With(String("a", "b"))
	log.Info("nothing")
	log.Error("nothing")
}
