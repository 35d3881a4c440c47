// Package render draws a top-down view of a [scene.Tree] into an
// image without a GPU. It's used for headless snapshots and tests;
// interactive hosts draw with their own backends.
package render

import (
	"image"
	"image/color"
	"math"

	ebimath "github.com/edwinsyarief/ebi-math"
	"github.com/edwinsyarief/orrery/scene"
	"github.com/edwinsyarief/orrery/utils"
)

// Options control the snapshot framing.
type Options struct {
	Size        int     // output width and height, in pixels
	Supersample int     // render at Size*Supersample and downsample
	Span        float64 // scene units visible across the image
	Rings       bool    // draw orbit rings around parent pivots
	Background  color.RGBA
}

// DefaultOptions frames the display-scale solar system in 256px.
func DefaultOptions() Options {
	return Options{
		Size:        256,
		Supersample: 2,
		Span:        9.0,
		Rings:       true,
		Background:  utils.Background,
	}
}

// Frame renders the visible styled nodes of the tree. The scene
// origin is at the image center, X to the right and Z downwards.
func Frame(tree *scene.Tree, opts Options) *image.NRGBA {
	if opts.Size <= 0 {
		panic("render: expected Size > 0")
	}
	if opts.Supersample < 1 {
		opts.Supersample = 1
	}
	if !(opts.Span > 0) {
		panic("render: expected Span > 0")
	}

	size := opts.Size * opts.Supersample
	buf := NewBuffer(size, size)
	buf.Fill(opts.Background)
	view := viewport{size: float64(size), pxPerUnit: float64(size) / opts.Span}

	if opts.Rings {
		tree.Walk(func(node *scene.TreeNode) {
			if _, styled := utils.StyleOf(node.Name()); !styled || node.Parent() == nil || !node.WorldVisible() {
				return
			}
			center, _, _ := node.Parent().World()
			pos, _, _ := node.World()
			radius := math.Hypot(pos.X-center.X, pos.Y-center.Y)
			if radius > 0 {
				cx, cy := view.project(center)
				buf.Ring(cx, cy, radius*view.pxPerUnit, float64(opts.Supersample), utils.OrbitRing)
			}
		})
	}

	tree.Walk(func(node *scene.TreeNode) {
		style, styled := utils.StyleOf(node.Name())
		if !styled || !node.WorldVisible() {
			return
		}
		pos, _, scale := node.World()
		radius := style.Radius * scale * view.pxPerUnit
		if radius <= 0 {
			return
		}
		cx, cy := view.project(pos)
		buf.Disc(cx, cy, radius, style.Color)
	})

	img := buf.Image()
	if opts.Supersample > 1 {
		img = Downsample(img, opts.Size, opts.Size)
	}
	return img
}

type viewport struct {
	size      float64
	pxPerUnit float64
}

func (self viewport) project(pos ebimath.Vector) (x, y float64) {
	return self.size/2 + pos.X*self.pxPerUnit, self.size/2 + pos.Y*self.pxPerUnit
}
