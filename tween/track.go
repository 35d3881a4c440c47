package tween

import (
	"time"

	"github.com/edwinsyarief/orrery/scene"
)

type track struct {
	node     scene.Node
	from     scene.Vec3
	to       scene.Vec3
	start    time.Duration
	duration time.Duration
	started  bool
}

// Activity returns the linear progress of the track in [0, 1].
func (self *track) Activity(now time.Duration) float64 {
	if !self.started {
		return 0
	}
	if self.duration <= 0 {
		return 1.0
	}
	elapsed := now - self.start
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= self.duration {
		return 1.0
	}
	return float64(elapsed) / float64(self.duration)
}

func (self *track) apply(level float64) {
	self.node.SetScale(scene.Vec3{
		X: self.from.X + (self.to.X-self.from.X)*level,
		Y: self.from.Y + (self.to.Y-self.from.Y)*level,
		Z: self.from.Z + (self.to.Z-self.from.Z)*level,
	})
}

// Runner is a minimal [Scheduler] driven by the host tick. Tracks
// start on the first [Runner.Update]() after being scheduled.
type Runner struct {
	easing Easing
	tracks []track
}

// Creates a runner with the given easing. A nil easing
// defaults to [Smoothstep].
func NewRunner(easing Easing) *Runner {
	if easing == nil {
		easing = Smoothstep
	}
	return &Runner{easing: easing}
}

// Implements [Scheduler]. The node is set to the start value
// immediately, so nothing pops in before the first update.
func (self *Runner) Schedule(node scene.Node, from, to scene.Vec3, d time.Duration) {
	if node == nil {
		panic("tween: nil node")
	}
	newTrack := track{node: node, from: from, to: to, duration: d}
	newTrack.apply(0)
	for i := range self.tracks {
		if self.tracks[i].node == node {
			self.tracks[i] = newTrack
			return
		}
	}
	self.tracks = append(self.tracks, newTrack)
}

// Advances all tracks and drops the finished ones. Finished
// tracks always land exactly on their end value.
func (self *Runner) Update(now time.Duration) {
	kept := self.tracks[:0]
	for i := range self.tracks {
		t := &self.tracks[i]
		if !t.started {
			t.started = true
			t.start = now
		}
		activity := t.Activity(now)
		if activity >= 1.0 {
			t.node.SetScale(t.to)
			continue
		}
		t.apply(self.easing(activity))
		kept = append(kept, *t)
	}
	// clear dangling references past the new length
	for i := len(kept); i < len(self.tracks); i++ {
		self.tracks[i] = track{}
	}
	self.tracks = kept
}

// Implements [Scheduler].
func (self *Runner) Cancel(node scene.Node, finish bool) {
	for i := range self.tracks {
		if self.tracks[i].node != node {
			continue
		}
		if finish {
			node.SetScale(self.tracks[i].to)
		}
		last := len(self.tracks) - 1
		self.tracks[i] = self.tracks[last]
		self.tracks[last] = track{}
		self.tracks = self.tracks[:last]
		return
	}
}

// Returns the number of tracks still in progress.
func (self *Runner) Active() int { return len(self.tracks) }

// Drops every pending track, leaving nodes at their current values.
func (self *Runner) Clear() {
	for i := range self.tracks {
		self.tracks[i] = track{}
	}
	self.tracks = self.tracks[:0]
}
