// Package termhost runs the orrery in a terminal with tcell. It's the
// lightweight sibling of ebitenhost: same simulated marker, keyboard
// zoom and top-down view, drawn with glyphs.
//
// Keys: m toggles the marker, g glitches its raw visibility flag,
// + and - zoom, r resets the scale, q or Escape quits.
package termhost

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/edwinsyarief/orrery"
	"github.com/edwinsyarief/orrery/clock"
	"github.com/edwinsyarief/orrery/host/input"
	"github.com/edwinsyarief/orrery/internal/logging"
	"github.com/edwinsyarief/orrery/scene"
	"github.com/edwinsyarief/orrery/signal"
	"github.com/edwinsyarief/orrery/utils"
	"github.com/gdamore/tcell/v2"
)

// Options for [New].
type Options struct {
	FPS    int     // frames per second, defaults to 30
	Span   float64 // scene units across the terminal height
	Screen tcell.Screen
	Chime  *Chime
	Pulse  *input.Pulse
	Logger logging.Logger
	// Report the marker as found on the first frame.
	AutoFind bool
}

// Host drives an [*orrery.System] from a terminal.
type Host struct {
	screen tcell.Screen
	sys    *orrery.System
	tree   *scene.Tree
	clock  clock.Clock
	marker *input.MarkerSim
	pulse  *input.Pulse
	chime  *Chime
	subs   signal.Group
	logger logging.Logger

	fps      int
	span     float64
	autoFind bool
	lastErr  error
}

// Creates a host for a started system and initializes the screen.
// The tree must be the scene graph the system was created with.
func New(sys *orrery.System, tree *scene.Tree, opts Options) (*Host, error) {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if !(opts.Span > 0) {
		opts.Span = 9.0
	}
	if opts.Logger == nil {
		opts.Logger = logging.Noop()
	}
	markerNode, found := tree.Lookup(scene.NameMarker)
	if !found {
		panic("termhost: tree has no marker node")
	}

	screen := opts.Screen
	if screen == nil {
		var err error
		screen, err = tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("termhost: create screen: %w", err)
		}
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("termhost: init screen: %w", err)
	}

	self := &Host{
		screen:   screen,
		sys:      sys,
		tree:     tree,
		clock:    clock.NewWall(),
		marker:   input.NewMarkerSim(sys.Bus(), markerNode),
		pulse:    opts.Pulse,
		chime:    opts.Chime,
		logger:   opts.Logger,
		fps:      opts.FPS,
		span:     opts.Span,
		autoFind: opts.AutoFind,
	}
	self.subs.Add(sys.Bus().Subscribe(signal.MarkerStabilized, func(signal.Payload) {
		if self.marker.Found() {
			self.chime.Play()
		}
	}))
	return self, nil
}

// Run ticks the system and redraws until the user quits or the
// context is canceled. The screen is finalized on return.
func (self *Host) Run(ctx context.Context) error {
	defer self.Close()

	ticker := time.NewTicker(time.Second / time.Duration(self.fps))
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)
	events := make(chan tcell.Event, 64)
	go self.pump(events, done)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !self.HandleEvent(ev, self.clock.Now()) {
				return nil
			}
		case <-ticker.C:
			self.Tick(self.clock.Now())
			self.Draw()
		}
	}
}

// Forwards screen events until the screen is finalized or done is
// closed.
func (self *Host) pump(events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := self.screen.PollEvent()
		if ev == nil {
			return // screen finalized
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// Tick advances the system by one frame.
func (self *Host) Tick(now time.Duration) {
	if self.autoFind {
		self.autoFind = false
		self.marker.Find(now)
	}
	if err := self.sys.Update(now); err != nil {
		self.lastErr = err
	}
	if self.pulse != nil {
		self.pulse.Update(now)
	}
}

// HandleEvent applies a terminal event. It returns false when the
// user asked to quit.
func (self *Host) HandleEvent(ev tcell.Event, now time.Duration) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		return self.handleRune(ev.Rune(), now)
	case *tcell.EventResize:
		self.screen.Sync()
	}
	return true
}

func (self *Host) handleRune(r rune, now time.Duration) bool {
	switch r {
	case 'q':
		return false
	case 'm':
		found := self.marker.Toggle(now)
		self.logger.Debug("marker toggled", logging.Bool("found", found))
	case 'g':
		self.marker.Glitch()
	case '+', '=':
		self.sys.Gesture().Step(+1)
	case '-':
		self.sys.Gesture().Step(-1)
	case 'r':
		self.sys.Bus().Emit(signal.DoubleTap, signal.Payload{Time: now})
	}
	return true
}

// Removes the host subscriptions and finalizes the screen.
func (self *Host) Close() {
	self.subs.RemoveAll()
	self.screen.Fini()
}

// Draw renders the scene and the status line.
func (self *Host) Draw() {
	self.screen.Clear()
	w, h := self.screen.Size()
	cellsPerUnit := float64(h) / self.span
	// terminal cells are about twice as tall as wide
	project := func(x, y float64) (int, int) {
		return int(math.Round(float64(w)/2 + x*cellsPerUnit*2)), int(math.Round(float64(h)/2 + y*cellsPerUnit))
	}

	ringStyle := tcell.StyleDefault.Foreground(toColor(utils.OrbitRing)).Dim(true)
	self.tree.Walk(func(node *scene.TreeNode) {
		if _, styled := utils.StyleOf(node.Name()); !styled || node.Parent() == nil || !node.WorldVisible() {
			return
		}
		center, _, _ := node.Parent().World()
		pos, _, _ := node.World()
		radius := math.Hypot(pos.X-center.X, pos.Y-center.Y)
		if radius <= 0 {
			return
		}
		steps := int(math.Max(24, radius*cellsPerUnit*8))
		for i := 0; i < steps; i++ {
			angle := 2 * math.Pi * float64(i) / float64(steps)
			x, y := project(center.X+radius*math.Cos(angle), center.Y+radius*math.Sin(angle))
			self.screen.SetContent(x, y, '·', nil, ringStyle)
		}
	})

	self.tree.Walk(func(node *scene.TreeNode) {
		style, styled := utils.StyleOf(node.Name())
		if !styled || !node.WorldVisible() {
			return
		}
		pos, _, _ := node.World()
		x, y := project(pos.X, pos.Y)
		cellStyle := tcell.StyleDefault.Foreground(toColor(style.Color))
		if node.Name() == scene.NameSun && self.pulse != nil && self.pulse.Level() > 0.5 {
			cellStyle = cellStyle.Bold(true)
		}
		self.screen.SetContent(x, y, style.Glyph, nil, cellStyle)
	})

	self.drawStatus(w)
	self.screen.Show()
}

func (self *Host) drawStatus(width int) {
	stability := self.sys.Stability().State()
	status := fmt.Sprintf(" marker:%v stable:%v(%d) orbit:%s scale:%.3f ",
		self.marker.Found(), stability.Stable, stability.Count,
		self.sys.Orbit().State(), self.sys.Gesture().Scale())
	if self.lastErr != nil {
		status += "[tick error, see log] "
	}
	style := tcell.StyleDefault.Foreground(toColor(utils.HudText)).Reverse(true)
	for i, r := range []rune(status) {
		if i >= width {
			break
		}
		self.screen.SetContent(i, 0, r, nil, style)
	}
}
