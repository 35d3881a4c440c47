package smoother

import (
	"math"
	"testing"
)

func TestInstant(t *testing.T) {
	if got := Instant.Update(0, 1.25); got != 1.25 {
		t.Fatalf("Instant.Update(0, 1.25) = %v, want 1.25", got)
	}
}

func TestLinearBlend(t *testing.T) {
	got := Linear.Update(0, 1)
	if math.Abs(got-0.1) > 1e-12 {
		t.Fatalf("Linear.Update(0, 1) = %v, want 0.1", got)
	}

	// converges monotonically and snaps when close enough
	current := 0.0
	for i := 0; i < 500; i++ {
		next := Linear.Update(current, 1)
		if next < current || next > 1 {
			t.Fatalf("step %d: %v -> %v not monotonic towards 1", i, current, next)
		}
		current = next
	}
	if current != 1 {
		t.Fatalf("Linear did not settle on target, got %v", current)
	}
}

func TestLerpRejectsInvalidBlend(t *testing.T) {
	for _, blend := range []float64{0, -0.5, 1.5} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Lerp(%v) did not panic", blend)
				}
			}()
			Lerp(blend)
		}()
	}
}
