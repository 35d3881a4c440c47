// Color and styling helpers shared by the renderers and the hosts.
package utils

import (
	"image/color"

	"github.com/edwinsyarief/orrery/scene"
)

// Returns [color.RGBA]{r, g, b, 255}.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// Returns [color.RGBA]{r, g, b, a} after checking that the
// given values constitute a valid premultiplied-alpha color
// (a >= r,g,b). On invalid colors, the function panics.
func RGBA(r, g, b, a uint8) color.RGBA {
	if r > a || g > a || b > a {
		panic("invalid color.RGBA values: premultiplied-alpha requires a >= r,g,b")
	}
	return color.RGBA{r, g, b, a}
}

// Scales the color channels (alpha included) by the given factor
// in [0, 1]. Handy to fade premultiplied colors.
func Fade(clr color.RGBA, factor float64) color.RGBA {
	if factor <= 0 {
		return color.RGBA{}
	}
	if factor >= 1 {
		return clr
	}
	return color.RGBA{
		uint8(float64(clr.R)*factor + 0.5),
		uint8(float64(clr.G)*factor + 0.5),
		uint8(float64(clr.B)*factor + 0.5),
		uint8(float64(clr.A)*factor + 0.5),
	}
}

// Common colors.
var (
	Background = RGB(6, 8, 22)
	OrbitRing  = RGBA(40, 44, 70, 110)
	HudText    = RGB(220, 220, 230)
)

// Style describes how a body is drawn. Radius is in scene units
// before the node's world scale is applied.
type Style struct {
	Color  color.RGBA
	Radius float64
	Glyph  rune // for terminal hosts
}

var styles = map[string]Style{
	scene.NameSun:   {Color: RGB(255, 196, 48), Radius: 1.0, Glyph: '@'},
	scene.NameEarth: {Color: RGB(64, 128, 255), Radius: 1.0, Glyph: 'o'},
	scene.NameMoon:  {Color: RGB(200, 200, 196), Radius: 1.0, Glyph: '.'},
}

// Returns the style of the given body. Pivots and other helper
// nodes have no style and are not drawn.
func StyleOf(name string) (Style, bool) {
	style, found := styles[name]
	return style, found
}
