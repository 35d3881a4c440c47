package ebitenhost

import (
	"fmt"
	"math"

	ebimath "github.com/edwinsyarief/ebi-math"
	"github.com/edwinsyarief/orrery/scene"
	"github.com/edwinsyarief/orrery/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	hudWidth  = 240
	hudHeight = 72
)

func (self *Game) Draw(screen *ebiten.Image) {
	screen.Fill(utils.Background)

	bounds := screen.Bounds()
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	pxPerUnit := math.Min(w, h) / self.span
	project := func(pos ebimath.Vector) (float32, float32) {
		return float32(w/2 + pos.X*pxPerUnit), float32(h/2 + pos.Y*pxPerUnit)
	}

	// orbit rings
	self.tree.Walk(func(node *scene.TreeNode) {
		if _, styled := utils.StyleOf(node.Name()); !styled || node.Parent() == nil || !node.WorldVisible() {
			return
		}
		center, _, _ := node.Parent().World()
		pos, _, _ := node.World()
		radius := math.Hypot(pos.X-center.X, pos.Y-center.Y) * pxPerUnit
		if radius > 0 {
			cx, cy := project(center)
			vector.StrokeCircle(screen, cx, cy, float32(radius), 1, utils.OrbitRing, true)
		}
	})

	// bodies
	self.tree.Walk(func(node *scene.TreeNode) {
		style, styled := utils.StyleOf(node.Name())
		if !styled || !node.WorldVisible() {
			return
		}
		pos, _, scale := node.World()
		radius := float32(style.Radius * scale * pxPerUnit)
		if radius <= 0 {
			return
		}
		cx, cy := project(pos)
		if node.Name() == scene.NameSun && self.pulse != nil {
			glow := utils.Fade(style.Color, 0.15+0.25*self.pulse.Level())
			vector.DrawFilledCircle(screen, cx, cy, radius*1.35, glow, true)
		}
		vector.DrawFilledCircle(screen, cx, cy, radius, style.Color, true)
	})

	if self.showHud {
		self.drawHud(screen)
	}
}

func (self *Game) drawHud(screen *ebiten.Image) {
	stability := self.sys.Stability().State()
	earthOrbit, _ := self.sys.Orbit().Angle(scene.NameEarthOrbit)

	self.hud.Clear()
	self.hud.Coat(utils.RGBA(0, 0, 0, 150))
	self.hud.Print(fmt.Sprintf("marker: %-5v  stable: %v (%d)",
		self.marker.Found(), stability.Stable, stability.Count), 4, 2)
	self.hud.Print(fmt.Sprintf("orbit: %s  earth: %.0f deg",
		self.sys.Orbit().State(), math.Mod(earthOrbit*180/math.Pi, 360)), 4, 18)
	self.hud.Print(fmt.Sprintf("scale: %.3f  tps: %.0f", self.sys.Gesture().Scale(), ebiten.ActualTPS()), 4, 34)
	if self.lastErr != nil {
		self.hud.Print("last error: see log", 4, 50)
	} else if self.paused {
		self.hud.Print("paused", 4, 50)
	}
	self.hud.Project(screen)
}
