package render

import (
	"fmt"
	"strings"
)

// Color is one pixel in 8-bit RGB, matching the strip's wire format.
type Color struct {
	R, G, B uint8
}

// Named colors used by the stock layer palettes.
var (
	Black      = Color{}
	White      = Color{255, 255, 255}
	Snow       = Color{255, 250, 250}
	Gray       = Color{128, 128, 128}
	Yellow     = Color{255, 255, 0}
	Red        = Color{255, 0, 0}
	DarkBlue   = Color{0, 0, 139}
	DarkOrange = Color{255, 140, 0}
)

// Hue positions on the 0..255 wheel used by HSV.
const (
	HueRed    uint8 = 0
	HueOrange uint8 = 32
	HueYellow uint8 = 64
	HueGreen  uint8 = 96
	HueAqua   uint8 = 128
	HueBlue   uint8 = 160
	HuePurple uint8 = 192
	HuePink   uint8 = 224
)

// HSV converts a hue/saturation/value triple on the 0..255 wheel to RGB
// using integer six-sector conversion.
func HSV(h, s, v uint8) Color {
	if s == 0 {
		return Color{v, v, v}
	}
	region := h / 43
	rem := int(h-region*43) * 6

	p := uint8(int(v) * (255 - int(s)) / 255)
	q := uint8(int(v) * (255 - int(s)*rem/255) / 255)
	t := uint8(int(v) * (255 - int(s)*(255-rem)/255) / 255)

	switch region {
	case 0:
		return Color{v, t, p}
	case 1:
		return Color{q, v, p}
	case 2:
		return Color{p, v, t}
	case 3:
		return Color{p, q, v}
	case 4:
		return Color{t, p, v}
	default:
		return Color{v, p, q}
	}
}

// Scale dims a color by scale/255.
func (c Color) Scale(scale uint8) Color {
	return Color{
		R: uint8(int(c.R) * int(scale) / 255),
		G: uint8(int(c.G) * int(scale) / 255),
		B: uint8(int(c.B) * int(scale) / 255),
	}
}

// Hex renders the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

var namedColors = map[string]Color{
	"black":      Black,
	"white":      White,
	"snow":       Snow,
	"gray":       Gray,
	"grey":       Gray,
	"yellow":     Yellow,
	"red":        Red,
	"darkblue":   DarkBlue,
	"darkorange": DarkOrange,
}

// ParseColor accepts "#rrggbb", "rrggbb" or one of the named colors.
func ParseColor(s string) (Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Color{}, false
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return Color{}, false
	}
	return Color{r, g, b}, true
}
