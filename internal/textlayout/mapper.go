package textlayout

import (
	"math"
	"sort"

	"nodepad/internal/geom"
)

// Position is a visual location: a wrapped line index and a rune column
// within that line.
type Position struct {
	Line int
	Col  int
}

// OffsetToVisual maps a rune offset to the visual line that contains it.
// Lines own the half-open range [Starts[i], Starts[i+1]); the last line also
// owns the end of text.
func (l Layout) OffsetToVisual(offset int) Position {
	if len(l.Starts) == 0 {
		return Position{}
	}
	offset = clampInt(offset, 0, l.TextLen)
	line := sort.Search(len(l.Starts), func(i int) bool {
		return l.Starts[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}
	col := clampInt(offset-l.Starts[line], 0, l.LineLen(line))
	return Position{Line: line, Col: col}
}

// VisualToOffset is the inverse of OffsetToVisual, clamped to the text.
func (l Layout) VisualToOffset(p Position) int {
	if len(l.Starts) == 0 {
		return 0
	}
	line := clampInt(p.Line, 0, len(l.Starts)-1)
	col := p.Col
	if col < 0 {
		col = 0
	}
	return clampInt(l.Starts[line]+col, 0, l.TextLen)
}

// MoveVertical moves offset by delta visual lines, keeping the column when
// the destination line is long enough. Moving past the first or last line
// stays on it.
func (l Layout) MoveVertical(offset, delta int) int {
	if len(l.Starts) == 0 {
		return 0
	}
	p := l.OffsetToVisual(offset)
	target := clampInt(p.Line+delta, 0, len(l.Starts)-1)
	col := p.Col
	if n := l.LineLen(target); col > n {
		col = n
	}
	return l.VisualToOffset(Position{Line: target, Col: col})
}

func (l Layout) MoveUp(offset int) int   { return l.MoveVertical(offset, -1) }
func (l Layout) MoveDown(offset int) int { return l.MoveVertical(offset, 1) }

// Frame places a layout in document space.
type Frame struct {
	// Left and Top are the top-left corner of the first visual line.
	Left, Top  float64
	LineHeight float64
	Width      WidthFunc
}

// OffsetAt returns the offset nearest to p. The line is the one whose
// vertical center is closest; the column is the caret position whose x is
// closest, preferring the leftmost on ties.
func (l Layout) OffsetAt(p geom.Point, f Frame) int {
	if len(l.Lines) == 0 {
		return 0
	}
	if f.Width == nil {
		f.Width = Bind(nil, 0)
	}

	line := 0
	if f.LineHeight > 0 && geom.Finite(p.Y) {
		firstCenter := f.Top + f.LineHeight/2
		line = int(math.Round((p.Y - firstCenter) / f.LineHeight))
	}
	line = clampInt(line, 0, len(l.Lines)-1)

	runes := []rune(l.Lines[line])
	best, bestDist := 0, math.Inf(1)
	for col := 0; col <= len(runes); col++ {
		x := f.Left + f.Width(string(runes[:col]))
		if d := math.Abs(p.X - x); d < bestDist {
			best, bestDist = col, d
		}
	}
	return l.VisualToOffset(Position{Line: line, Col: best})
}

// CaretPoint returns the top-left corner of the caret cell for offset.
func (l Layout) CaretPoint(offset int, f Frame) geom.Point {
	if f.Width == nil {
		f.Width = Bind(nil, 0)
	}
	pos := l.OffsetToVisual(offset)
	x := f.Left
	if pos.Line < len(l.Lines) {
		x += f.Width(string([]rune(l.Lines[pos.Line])[:pos.Col]))
	}
	return geom.Pt(x, f.Top+float64(pos.Line)*f.LineHeight)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
