package termhost

import (
	"image/color"

	"github.com/gdamore/tcell/v2"
)

func toColor(clr color.RGBA) tcell.Color {
	if clr.A == 0 {
		return tcell.ColorDefault
	}
	// unpremultiply, terminals have no alpha
	r := int32(clr.R) * 255 / int32(clr.A)
	g := int32(clr.G) * 255 / int32(clr.A)
	b := int32(clr.B) * 255 / int32(clr.A)
	return tcell.NewRGBColor(r, g, b)
}
