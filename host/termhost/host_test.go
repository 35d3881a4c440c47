package termhost

import (
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/edwinsyarief/orrery"
	"github.com/edwinsyarief/orrery/signal"
	"github.com/gdamore/tcell/v2"
)

const ms = time.Millisecond

func newHost(t *testing.T) (*Host, tcell.SimulationScreen, *signal.Bus) {
	t.Helper()
	cfg := orrery.DefaultConfig()
	tree := cfg.Orbit().Table().BuildTree()
	bus := signal.NewBus()
	sys, err := orrery.New(cfg, tree, bus)
	if err != nil {
		t.Fatalf("orrery.New: %v", err)
	}
	sys.Start()
	t.Cleanup(sys.Stop)

	screen := tcell.NewSimulationScreen("UTF-8")
	host, err := New(sys, tree, Options{Screen: screen, AutoFind: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	screen.SetSize(80, 24)
	return host, screen, bus
}

func TestHostDrawsSunAtCenter(t *testing.T) {
	host, screen, _ := newHost(t)
	defer host.Close()

	for now := time.Duration(0); now <= 3000*ms; now += 100 * ms {
		host.Tick(now)
	}
	if !host.sys.Orbit().EntrancePlayed() {
		t.Fatalf("entrance not played after auto find")
	}
	host.Draw()

	if r, _, _, _ := screen.GetContent(40, 12); r != '@' {
		t.Fatalf("center cell = %q, want '@'", r)
	}
	if r, _, _, _ := screen.GetContent(0, 0); r != ' ' {
		t.Fatalf("status line starts with %q, want ' '", r)
	}
	if r, _, _, _ := screen.GetContent(1, 0); r != 'm' {
		t.Fatalf("status line second cell = %q, want 'm'", r)
	}
}

func TestHostHidesSceneUntilFound(t *testing.T) {
	cfg := orrery.DefaultConfig()
	tree := cfg.Orbit().Table().BuildTree()
	sys, err := orrery.New(cfg, tree, signal.NewBus())
	if err != nil {
		t.Fatal(err)
	}
	sys.Start()
	defer sys.Stop()

	screen := tcell.NewSimulationScreen("UTF-8")
	host, err := New(sys, tree, Options{Screen: screen})
	if err != nil {
		t.Fatal(err)
	}
	defer host.Close()
	screen.SetSize(80, 24)

	host.Tick(0)
	host.Draw()
	if r, _, _, _ := screen.GetContent(40, 12); r == '@' {
		t.Fatalf("sun drawn while the marker is lost")
	}
}

func TestHostKeys(t *testing.T) {
	host, _, _ := newHost(t)
	defer host.Close()
	for now := time.Duration(0); now <= 3000*ms; now += 100 * ms {
		host.Tick(now)
	}

	if !host.handleRune('+', 3000*ms) {
		t.Fatalf("'+' quit the host")
	}
	if got := host.sys.Gesture().Scale(); math.Abs(got-1.05) > 1e-9 {
		t.Fatalf("scale after '+' = %v, want 1.05", got)
	}
	host.handleRune('r', 3100*ms)
	if got, want := host.sys.Gesture().Scale(), host.sys.Config().ResetScale; got != want {
		t.Fatalf("scale after 'r' = %v, want %v", got, want)
	}

	host.handleRune('m', 3200*ms)
	if host.marker.Found() || host.sys.Orbit().IsActive() {
		t.Fatalf("marker still found after 'm'")
	}

	if host.handleRune('q', 3300*ms) {
		t.Fatalf("'q' did not quit")
	}
	if !host.HandleEvent(tcell.NewEventResize(100, 30), 3400*ms) {
		t.Fatalf("resize quit the host")
	}
}

func TestHostCloseRemovesSubscriptions(t *testing.T) {
	host, _, bus := newHost(t)
	before := bus.Count(signal.MarkerStabilized)
	host.Close()
	if got := bus.Count(signal.MarkerStabilized); got != before-1 {
		t.Fatalf("markerStabilized subscribers = %d, want %d", got, before-1)
	}
}

func TestHostPumpStopsWhenDone(t *testing.T) {
	host, screen, _ := newHost(t)
	defer host.Close()

	events := make(chan tcell.Event) // nobody reads
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		host.pump(events, done)
		close(finished)
	}()

	if err := screen.PostEvent(tcell.NewEventResize(80, 24)); err != nil {
		t.Fatalf("PostEvent: %v", err)
	}
	close(done)
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatalf("event pump still blocked after done was closed")
	}
}

func TestChimeTone(t *testing.T) {
	tone, err := Tone()
	if err != nil {
		t.Fatalf("Tone: %v", err)
	}
	want := chimeSampleRate.N(chimeLength)
	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := tone.Stream(buf)
		total += n
		if !ok {
			break
		}
	}
	if total != want {
		t.Fatalf("tone length = %d samples, want %d", total, want)
	}

	var silent *Chime
	silent.Play() // must not panic
	(&Chime{}).Play()
}

func TestToColor(t *testing.T) {
	if got := toColor(color.RGBA{}); got != tcell.ColorDefault {
		t.Fatalf("transparent color = %v, want default", got)
	}
	if got, want := toColor(color.RGBA{R: 50, G: 100, B: 0, A: 128}), tcell.NewRGBColor(99, 199, 0); got != want {
		t.Fatalf("half-transparent color = %v, want %v", got, want)
	}
}
