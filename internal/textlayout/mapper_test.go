package textlayout

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"nodepad/internal/geom"
)

func TestOffsetToVisual(t *testing.T) {
	l := Wrap("hello world", 5, cells)

	tests := []struct {
		offset int
		want   Position
	}{
		{0, Position{0, 0}},
		{3, Position{0, 3}},
		{5, Position{0, 5}},
		{6, Position{1, 0}},
		{11, Position{1, 5}},
		{-4, Position{0, 0}},
		{99, Position{1, 5}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, l.OffsetToVisual(tt.offset), "offset %d", tt.offset)
	}
}

func TestOffsetToVisual_EndOfTextOnLastLine(t *testing.T) {
	l := Wrap("ab\n", 10, cells)

	assert.Equal(t, Position{Line: 1, Col: 0}, l.OffsetToVisual(3))
	assert.Equal(t, Position{Line: 0, Col: 2}, l.OffsetToVisual(2))
}

func TestVisualToOffset_Clamps(t *testing.T) {
	l := Wrap("hello world", 5, cells)

	assert.Equal(t, 9, l.VisualToOffset(Position{Line: 1, Col: 3}))
	assert.Equal(t, 11, l.VisualToOffset(Position{Line: 7, Col: 40}))
	assert.Equal(t, 0, l.VisualToOffset(Position{Line: -1, Col: -1}))
	assert.Equal(t, 0, Layout{}.VisualToOffset(Position{Line: 2, Col: 2}))
}

func TestOffsetVisualBijection(t *testing.T) {
	for _, text := range wrapCorpus {
		for w := 1; w <= 14; w++ {
			l := Wrap(text, float64(w), cells)
			for o := 0; o <= l.TextLen; o++ {
				p := l.OffsetToVisual(o)
				assert.Equal(t, o, l.VisualToOffset(p), fmt.Sprintf("%q w=%d o=%d", text, w, o))
			}
		}
	}
}

func TestMoveVertical_NoStickyColumn(t *testing.T) {
	l := Wrap("ab\nlonger", 20, cells)

	up := l.MoveUp(8)
	assert.Equal(t, 2, up)
	assert.Equal(t, 5, l.MoveDown(up))
}

func TestMoveVertical_StaysOnEdgeLines(t *testing.T) {
	l := Wrap("hello world", 5, cells)

	assert.Equal(t, 3, l.MoveUp(3))
	assert.Equal(t, 9, l.MoveDown(3))
	assert.Equal(t, 9, l.MoveDown(9))
	assert.Equal(t, 3, l.MoveUp(9))
}

func TestOffsetAt(t *testing.T) {
	l := Wrap("hello world", 5, cells)
	f := Frame{Left: 10, Top: 20, LineHeight: 10, Width: cells}

	tests := []struct {
		name string
		p    geom.Point
		want int
	}{
		{"nearest column", geom.Pt(12.4, 21), 2},
		{"tie goes left", geom.Pt(13.5, 34), 9},
		{"below last line", geom.Pt(0, 1000), 6},
		{"above first line", geom.Pt(11, -50), 1},
		{"past end of line", geom.Pt(100, 20), 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, l.OffsetAt(tt.p, f), tt.name)
	}
}

func TestOffsetAt_NonFinitePointer(t *testing.T) {
	l := Wrap("hello", 10, cells)
	f := Frame{LineHeight: 10, Width: cells}

	assert.Equal(t, 0, l.OffsetAt(geom.Pt(nan(), nan()), f))
}

func TestCaretPoint(t *testing.T) {
	l := Wrap("hello world", 5, cells)
	f := Frame{Left: 10, Top: 20, LineHeight: 10, Width: cells}

	assert.Equal(t, geom.Pt(13, 30), l.CaretPoint(9, f))
	assert.Equal(t, geom.Pt(10, 20), l.CaretPoint(0, f))
}
