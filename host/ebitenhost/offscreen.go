package ebitenhost

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Offscreens are logically sized canvases for camera-independent
// overlays (the HUD). They are drawn at their own small resolution
// and projected to the screen with an integer scale so that debug
// text stays pixel-crisp.
//
// Creating an offscreen involves creating an [*ebiten.Image], so
// you want to store and reuse them. They also have to be manually
// cleared when required.
type Offscreen struct {
	canvas        *ebiten.Image
	width         int
	height        int
	drawImageOpts ebiten.DrawImageOptions
}

// Creates a new offscreen with the given logical size.
//
// Never invoke this per frame, always reuse offscreens.
func NewOffscreen(width, height int) *Offscreen {
	return &Offscreen{
		canvas: ebiten.NewImage(width, height),
		width:  width, height: height,
	}
}

// Returns the underlying canvas for the offscreen.
func (self *Offscreen) Target() *ebiten.Image {
	return self.canvas
}

// Returns the size of the offscreen.
func (self *Offscreen) Size() (width, height int) {
	return self.width, self.height
}

// Similar to [ebiten.Image.Fill](), but with BlendSourceOver
// instead of BlendCopy.
func (self *Offscreen) Coat(fillColor color.Color) {
	vector.DrawFilledRect(self.canvas, 0, 0, float32(self.width), float32(self.height), fillColor, false)
}

// Prints debug text at the given logical coordinates.
func (self *Offscreen) Print(text string, x, y int) {
	ebitenutil.DebugPrintAt(self.canvas, text, x, y)
}

// Clears the underlying offscreen canvas.
func (self *Offscreen) Clear() {
	self.canvas.Clear()
}

// Projects the offscreen into the top-left corner of the target,
// using the largest integer scale that fits the target width.
func (self *Offscreen) Project(target *ebiten.Image) {
	scale := target.Bounds().Dx() / self.width
	if scale < 1 {
		scale = 1
	}
	if scale > 3 {
		scale = 3
	}
	self.drawImageOpts.GeoM.Scale(float64(scale), float64(scale))
	target.DrawImage(self.canvas, &self.drawImageOpts)
	self.drawImageOpts.GeoM.Reset()
}
