package textlayout

import (
	"fmt"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

const defaultFontSize = 12.0

// Measurer reports the rendered width of text at a font size.
type Measurer interface {
	Width(text string, fontSize float64) float64
}

// WidthFunc measures a string at a fixed font.
type WidthFunc func(text string) float64

// Bind fixes the font size of m. A nil measurer counts one unit per cell.
func Bind(m Measurer, fontSize float64) WidthFunc {
	if m == nil {
		m = CellMeasurer{CellWidth: 1}
	}
	return func(text string) float64 {
		return m.Width(text, fontSize)
	}
}

// CellMeasurer measures text in terminal cells scaled by CellWidth. Wide
// runes take two cells. The font size is ignored.
type CellMeasurer struct {
	CellWidth float64
}

func (c CellMeasurer) Width(text string, _ float64) float64 {
	cw := c.CellWidth
	if cw <= 0 {
		cw = 1
	}
	return float64(runewidth.StringWidth(text)) * cw
}

// FontMeasurer measures pixel widths with the Go Mono face, the same way a
// canvas host measures its monospace font. Faces are cached per size.
// It is not safe for concurrent use.
type FontMeasurer struct {
	font  *truetype.Font
	dc    *gg.Context
	faces map[float64]font.Face
}

func NewFontMeasurer() (*FontMeasurer, error) {
	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &FontMeasurer{
		font:  ttf,
		dc:    gg.NewContext(1, 1),
		faces: make(map[float64]font.Face),
	}, nil
}

func (m *FontMeasurer) Width(text string, fontSize float64) float64 {
	if text == "" {
		return 0
	}
	if !(fontSize > 0) {
		fontSize = defaultFontSize
	}
	face, ok := m.faces[fontSize]
	if !ok {
		face = truetype.NewFace(m.font, &truetype.Options{
			Size:    fontSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		m.faces[fontSize] = face
	}
	m.dc.SetFontFace(face)
	w, _ := m.dc.MeasureString(text)
	return w
}
