package render

import (
	"image"
	"image/color"
	"math"
)

// Buffer holds the rendering target as a flat RGBA slice
// (non-premultiplied, interleaved).
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewBuffer allocates a transparent buffer.
func NewBuffer(w, h int) *Buffer {
	return &Buffer{Width: w, Height: h, Pix: make([]uint8, w*h*4)}
}

// Fill sets every pixel to the given color.
func (self *Buffer) Fill(clr color.RGBA) {
	r, g, b, a := unpremultiply(clr)
	for i := 0; i < len(self.Pix); i += 4 {
		self.Pix[i], self.Pix[i+1], self.Pix[i+2], self.Pix[i+3] = r, g, b, a
	}
}

// Disc draws a filled circle with a one pixel antialiased edge.
func (self *Buffer) Disc(cx, cy, radius float64, clr color.RGBA) {
	self.shade(cx, cy, radius+1, clr, func(dist float64) float64 {
		return clamp01(radius + 0.5 - dist)
	})
}

// Ring draws a circle outline of the given thickness.
func (self *Buffer) Ring(cx, cy, radius, thickness float64, clr color.RGBA) {
	half := thickness / 2
	self.shade(cx, cy, radius+half+1, clr, func(dist float64) float64 {
		return clamp01(half + 0.5 - math.Abs(dist-radius))
	})
}

// Calls coverage for every pixel center within reach of (cx, cy)
// and blends clr over it with the returned coverage.
func (self *Buffer) shade(cx, cy, reach float64, clr color.RGBA, coverage func(dist float64) float64) {
	minX := max(0, int(math.Floor(cx-reach)))
	maxX := min(self.Width-1, int(math.Ceil(cx+reach)))
	minY := max(0, int(math.Floor(cy-reach)))
	maxY := min(self.Height-1, int(math.Ceil(cy+reach)))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dist := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			if cov := coverage(dist); cov > 0 {
				self.blend(x, y, clr, cov)
			}
		}
	}
}

// source over, with colors in premultiplied space
func (self *Buffer) blend(x, y int, clr color.RGBA, coverage float64) {
	i := (y*self.Width + x) * 4
	srcA := float64(clr.A) / 255 * coverage
	if srcA <= 0 {
		return
	}
	dstA := float64(self.Pix[i+3]) / 255
	outA := srcA + dstA*(1-srcA)
	premul := [3]uint8{clr.R, clr.G, clr.B}
	for c := 0; c < 3; c++ {
		src := float64(premul[c]) / 255 * coverage
		dst := float64(self.Pix[i+c]) / 255 * dstA
		out := src + dst*(1-srcA)
		if outA > 0 {
			out /= outA
		}
		self.Pix[i+c] = clamp8(out * 255)
	}
	self.Pix[i+3] = clamp8(outA * 255)
}

// At returns the non-premultiplied color at the given pixel.
func (self *Buffer) At(x, y int) color.NRGBA {
	i := (y*self.Width + x) * 4
	return color.NRGBA{self.Pix[i], self.Pix[i+1], self.Pix[i+2], self.Pix[i+3]}
}

// Image wraps the buffer pixels into an [*image.NRGBA] without copying.
func (self *Buffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    self.Pix,
		Stride: self.Width * 4,
		Rect:   image.Rect(0, 0, self.Width, self.Height),
	}
}

func unpremultiply(clr color.RGBA) (r, g, b, a uint8) {
	if clr.A == 0 {
		return 0, 0, 0, 0
	}
	if clr.A == 255 {
		return clr.R, clr.G, clr.B, 255
	}
	inv := 255.0 / float64(clr.A)
	return clamp8(float64(clr.R) * inv), clamp8(float64(clr.G) * inv), clamp8(float64(clr.B) * inv), clr.A
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
