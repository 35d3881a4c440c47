package tween

import (
	"math"
	"testing"
	"time"

	"github.com/edwinsyarief/orrery/scene"
)

func TestRunnerScaleFromZero(t *testing.T) {
	tree := scene.NewTree()
	node := tree.Add("solarSystem", "")
	node.SetScale(scene.Uniform(0.15))

	runner := NewRunner(Linear)
	runner.Schedule(node, scene.Uniform(0), scene.Uniform(0.15), 1000*time.Millisecond)
	if got := node.Scale(); got != scene.Uniform(0) {
		t.Fatalf("scale right after Schedule = %v, want zero", got)
	}

	runner.Update(200 * time.Millisecond) // track starts here
	runner.Update(700 * time.Millisecond)
	if got := node.Scale().X; math.Abs(got-0.075) > 1e-9 {
		t.Fatalf("scale at half progress = %v, want 0.075", got)
	}
	if runner.Active() != 1 {
		t.Fatalf("Active() = %d, want 1", runner.Active())
	}

	runner.Update(1300 * time.Millisecond)
	if got := node.Scale(); got != scene.Uniform(0.15) {
		t.Fatalf("final scale = %v, want 0.15", got)
	}
	if runner.Active() != 0 {
		t.Fatalf("Active() = %d after completion, want 0", runner.Active())
	}
}

func TestRunnerReplacesTrackForSameNode(t *testing.T) {
	tree := scene.NewTree()
	node := tree.Add("a", "")
	runner := NewRunner(nil)
	runner.Schedule(node, scene.Uniform(0), scene.Uniform(1), time.Second)
	runner.Schedule(node, scene.Uniform(0), scene.Uniform(2), 0)
	if runner.Active() != 1 {
		t.Fatalf("Active() = %d, want 1", runner.Active())
	}
	runner.Update(0)
	if got := node.Scale(); got != scene.Uniform(2) {
		t.Fatalf("scale = %v, want 2", got)
	}
}

func TestSmoothstepBounds(t *testing.T) {
	if Smoothstep(0) != 0 || Smoothstep(1) != 1 || Smoothstep(0.5) != 0.5 {
		t.Fatalf("unexpected smoothstep values: %v %v %v", Smoothstep(0), Smoothstep(0.5), Smoothstep(1))
	}
}

func TestRunnerClear(t *testing.T) {
	tree := scene.NewTree()
	runner := NewRunner(nil)
	runner.Schedule(tree.Add("a", ""), scene.Uniform(0), scene.Uniform(1), time.Second)
	runner.Schedule(tree.Add("b", ""), scene.Uniform(0), scene.Uniform(1), time.Second)
	runner.Clear()
	if runner.Active() != 0 {
		t.Fatalf("Active() = %d after Clear, want 0", runner.Active())
	}
}

func TestRunnerCancel(t *testing.T) {
	tree := scene.NewTree()
	a := tree.Add("a", "")
	b := tree.Add("b", "")
	runner := NewRunner(Linear)
	runner.Schedule(a, scene.Uniform(0), scene.Uniform(1), time.Second)
	runner.Schedule(b, scene.Uniform(0), scene.Uniform(2), time.Second)
	runner.Update(0)
	runner.Update(250 * time.Millisecond)

	runner.Cancel(a, false)
	if got := a.Scale(); got != scene.Uniform(0.25) {
		t.Fatalf("scale after Cancel = %v, want 0.25", got)
	}
	runner.Cancel(b, true)
	if got := b.Scale(); got != scene.Uniform(2) {
		t.Fatalf("scale after finishing Cancel = %v, want 2", got)
	}
	if runner.Active() != 0 {
		t.Fatalf("Active() = %d after canceling both, want 0", runner.Active())
	}

	a.SetScale(scene.Uniform(5))
	runner.Update(2 * time.Second)
	if got := a.Scale(); got != scene.Uniform(5) {
		t.Fatalf("canceled track still writes: scale = %v, want 5", got)
	}
	runner.Cancel(a, true) // nothing pending
	if got := a.Scale(); got != scene.Uniform(5) {
		t.Fatalf("Cancel without a track changed scale to %v", got)
	}
}
