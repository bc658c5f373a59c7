package diagram

import colorful "github.com/lucasb-eyer/go-colorful"

// Color is a box background in 8-bit RGB.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

var White = Color{R: 255, G: 255, B: 255}

// Palette is the set of background colors CycleColor steps through.
var Palette = buildPalette(8)

func buildPalette(n int) []Color {
	out := []Color{White}
	for i := 0; i < n-1; i++ {
		hue := float64(i) * 360 / float64(n-1)
		out = append(out, fromColorful(colorful.Hsv(hue, 0.3, 1)))
	}
	return out
}

func fromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

func (c Color) toColorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return c.toColorful().Hex()
}

// Next returns the palette entry after c, or the first entry when c is not in
// the palette.
func (c Color) Next() Color {
	for i, p := range Palette {
		if p == c {
			return Palette[(i+1)%len(Palette)]
		}
	}
	return Palette[0]
}

// Dark reports whether text on c reads better in a light color.
func (c Color) Dark() bool {
	l, _, _ := c.toColorful().Lab()
	return l < 0.5
}
