package diagram

import "nodepad/internal/textlayout"

// Metrics holds the sizing rules and hit-test tolerances shared by every box
// on a canvas. All lengths are in document units.
type Metrics struct {
	Measurer   textlayout.Measurer
	FontSize   float64
	LineHeight float64
	Padding    float64

	MinWidth  float64
	MaxWidth  float64
	MinHeight float64

	HandleSize      float64 // resize handle edge length
	ConnectorRadius float64 // pick radius around edge midpoints
	BorderBand      float64 // thickness of the connect band inside the border
	MinInterior     float64 // interior kept clickable on each axis

	LinkTolerance float64 // pick distance for connection bodies and endpoints
	PasteOffset   float64

	DoubleClickMillis int64
	DoubleClickSlop   float64
}

// DefaultMetrics are pixel metrics for a canvas host drawing 14px text.
func DefaultMetrics(m textlayout.Measurer) Metrics {
	return Metrics{
		Measurer:          m,
		FontSize:          14,
		LineHeight:        18,
		Padding:           10,
		MinWidth:          100,
		MaxWidth:          300,
		MinHeight:         40,
		HandleSize:        10,
		ConnectorRadius:   6,
		BorderBand:        6,
		MinInterior:       20,
		LinkTolerance:     6,
		PasteOffset:       20,
		DoubleClickMillis: 400,
		DoubleClickSlop:   4,
	}
}

// CellMetrics lays boxes out on a terminal grid where one unit is one cell.
// Boxes are at least 8x3 cells and have a one cell border.
func CellMetrics() Metrics {
	return Metrics{
		Measurer:          textlayout.CellMeasurer{CellWidth: 1},
		FontSize:          1,
		LineHeight:        1,
		Padding:           1,
		MinWidth:          8,
		MaxWidth:          40,
		MinHeight:         3,
		HandleSize:        1,
		ConnectorRadius:   0.5,
		BorderBand:        1,
		MinInterior:       1,
		LinkTolerance:     1,
		PasteOffset:       2,
		DoubleClickMillis: 400,
		DoubleClickSlop:   1,
	}
}

func (m *Metrics) width() textlayout.WidthFunc {
	return textlayout.Bind(m.Measurer, m.FontSize)
}
