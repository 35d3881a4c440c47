package termhost

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	chimeSampleRate = beep.SampleRate(44100)
	chimePitch      = 880.0
	chimeLength     = 120 * time.Millisecond
)

// Chime plays a short tone when the marker stabilizes.
type Chime struct {
	ready bool
}

// Initializes the speaker. Without an audio device this fails and
// the host runs silently.
func NewChime() (*Chime, error) {
	err := speaker.Init(chimeSampleRate, chimeSampleRate.N(time.Second/10))
	if err != nil {
		return &Chime{}, err
	}
	return &Chime{ready: true}, nil
}

// Returns the chime tone as a finite stream.
func Tone() (beep.Streamer, error) {
	sine, err := generators.SineTone(chimeSampleRate, chimePitch)
	if err != nil {
		return nil, err
	}
	return beep.Take(chimeSampleRate.N(chimeLength), sine), nil
}

// Plays the chime. Does nothing if the speaker isn't available.
func (self *Chime) Play() {
	if self == nil || !self.ready {
		return
	}
	tone, err := Tone()
	if err != nil {
		return
	}
	speaker.Play(tone)
}
