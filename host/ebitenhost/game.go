// Package ebitenhost runs the orrery inside an Ebitengine window. It
// stands in for the AR runtime: it owns the frame clock, samples touch,
// mouse and keyboard input, simulates the marker tracker and draws a
// top-down view of the scene.
//
// Controls: M toggles the marker, G glitches its raw visibility flag,
// +/- and the mouse wheel zoom, R resets the scale, P pauses time,
// H toggles the HUD and Escape quits. Two-finger pinches and double
// taps work on touch screens.
package ebitenhost

import (
	"time"

	"github.com/edwinsyarief/orrery"
	"github.com/edwinsyarief/orrery/clock"
	"github.com/edwinsyarief/orrery/host/input"
	"github.com/edwinsyarief/orrery/internal/logging"
	"github.com/edwinsyarief/orrery/scene"
	"github.com/edwinsyarief/orrery/signal"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Options for [New].
type Options struct {
	TPS    int     // ticks per second, defaults to 60
	Span   float64 // scene units across the shortest window side
	Pulse  *input.Pulse
	Logger logging.Logger
	// Report the marker as found on the first frame.
	AutoFind bool
}

// Game implements [ebiten.Game] on top of an [*orrery.System].
type Game struct {
	sys        *orrery.System
	tree       *scene.Tree
	bus        *signal.Bus
	clock      *clock.Frame
	recognizer *input.Recognizer
	marker     *input.MarkerSim
	pulse      *input.Pulse
	hud        *Offscreen
	logger     logging.Logger

	tps      int
	span     float64
	autoFind bool
	showHud  bool
	paused   bool
	lastErr  error
	width    int
	height   int

	touchIDs   []ebiten.TouchID
	pressedIDs []ebiten.TouchID
	down       []input.Pointer
	pressed    []input.Pointer
}

// Creates a game for a started system. The tree must be the same
// scene graph the system was created with.
func New(sys *orrery.System, tree *scene.Tree, opts Options) *Game {
	if opts.TPS <= 0 {
		opts.TPS = 60
	}
	if !(opts.Span > 0) {
		opts.Span = 9.0
	}
	if opts.Logger == nil {
		opts.Logger = logging.Noop()
	}
	markerNode, found := tree.Lookup(scene.NameMarker)
	if !found {
		panic("ebitenhost: tree has no marker node")
	}
	return &Game{
		sys:        sys,
		tree:       tree,
		bus:        sys.Bus(),
		clock:      clock.NewFrame(opts.TPS),
		recognizer: input.NewRecognizer(sys.Bus()),
		marker:     input.NewMarkerSim(sys.Bus(), markerNode),
		pulse:      opts.Pulse,
		hud:        NewOffscreen(hudWidth, hudHeight),
		logger:     opts.Logger,
		tps:        opts.TPS,
		span:       opts.Span,
		autoFind:   opts.AutoFind,
		showHud:    true,
	}
}

// Run opens the window and blocks until it's closed.
func Run(game *Game, title string) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(960, 720)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(game.tps)
	err := ebiten.RunGame(game)
	if err == ebiten.Termination {
		return nil
	}
	return err
}

// --- ebiten.Game implementation ---

func (self *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		self.paused = !self.paused
		if self.paused {
			self.clock.SetScale(0)
		} else {
			self.clock.SetScale(1)
		}
	}
	now := self.clock.Step()

	if self.autoFind {
		self.autoFind = false
		self.marker.Find(now)
	}
	self.handleKeys(now)
	self.handlePointers(now)

	if err := self.sys.Update(now); err != nil {
		// already logged and counted by the system
		self.lastErr = err
	}
	if self.pulse != nil {
		self.pulse.Update(now)
	}
	return nil
}

func (self *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	self.width, self.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// ---- input ----

func (self *Game) handleKeys(now time.Duration) {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		found := self.marker.Toggle(now)
		self.logger.Debug("marker toggled", logging.Bool("found", found))
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		self.marker.Glitch()
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd):
		self.sys.Gesture().Step(+1)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract):
		self.sys.Gesture().Step(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		self.bus.Emit(signal.DoubleTap, signal.Payload{Time: now})
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		self.showHud = !self.showHud
	}
	if _, wheelY := ebiten.Wheel(); wheelY != 0 {
		self.sys.Gesture().Step(wheelY)
	}
}

func (self *Game) handlePointers(now time.Duration) {
	self.down = self.down[:0]
	self.pressed = self.pressed[:0]

	self.touchIDs = ebiten.AppendTouchIDs(self.touchIDs[:0])
	for _, id := range self.touchIDs {
		x, y := ebiten.TouchPosition(id)
		self.down = append(self.down, input.Pointer{ID: int(id), X: float64(x), Y: float64(y)})
	}
	self.pressedIDs = inpututil.AppendJustPressedTouchIDs(self.pressedIDs[:0])
	for _, id := range self.pressedIDs {
		x, y := ebiten.TouchPosition(id)
		self.pressed = append(self.pressed, input.Pointer{ID: int(id), X: float64(x), Y: float64(y)})
	}

	// the mouse counts as one more pointer for taps
	if len(self.touchIDs) == 0 {
		x, y := ebiten.CursorPosition()
		mouse := input.Pointer{ID: -1, X: float64(x), Y: float64(y)}
		if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			self.down = append(self.down, mouse)
		}
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			self.pressed = append(self.pressed, mouse)
		}
	}

	self.recognizer.Update(now, self.down, self.pressed)
}
