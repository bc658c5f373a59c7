package diagram

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"nodepad/internal/geom"
	"nodepad/internal/textlayout"
)

// Box is a rectangular node holding wrapped text. X and Y are its center.
type Box struct {
	ID     uuid.UUID
	X      float64
	Y      float64
	Width  float64
	Height float64
	Color  Color

	text        string
	userResized bool
	userWidth   float64

	cursor    int
	sel       selection
	editing   bool
	selecting bool
	lastClick click

	metrics *Metrics
	cache   textlayout.Cache
}

// selection bounds may be in either order; start is the anchor.
type selection struct {
	start, end int
	active     bool
}

func (s selection) ordered() (lo, hi int) {
	if s.start <= s.end {
		return s.start, s.end
	}
	return s.end, s.start
}

func (s selection) empty() bool {
	return !s.active || s.start == s.end
}

type click struct {
	at   geom.Point
	time int64
	set  bool
}

func newBox(x, y float64, text string, m *Metrics) *Box {
	b := &Box{
		ID:      uuid.New(),
		X:       x,
		Y:       y,
		Color:   White,
		text:    textlayout.ValidText(text),
		metrics: m,
	}
	b.updateSize()
	return b
}

func (b *Box) Text() string { return b.text }

// SetText replaces the text, keeping the cursor inside it.
func (b *Box) SetText(text string) {
	b.sel = selection{}
	b.applyText(text)
}

func (b *Box) Cursor() int { return b.cursor }

// Selection returns the ordered selection bounds. ok is false when there is
// no selection or it is empty.
func (b *Box) Selection() (start, end int, ok bool) {
	if b.sel.empty() {
		return 0, 0, false
	}
	lo, hi := b.sel.ordered()
	return lo, hi, true
}

func (b *Box) Editing() bool     { return b.editing }
func (b *Box) Selecting() bool   { return b.selecting }
func (b *Box) UserResized() bool { return b.userResized }

func (b *Box) Center() geom.Point {
	return geom.Pt(b.X, b.Y)
}

func (b *Box) Bounds() geom.Rect {
	return geom.Rect{
		Min: geom.Pt(b.X-b.Width/2, b.Y-b.Height/2),
		Max: geom.Pt(b.X+b.Width/2, b.Y+b.Height/2),
	}
}

// Layout returns the wrapped text for the current width.
func (b *Box) Layout() textlayout.Layout {
	return b.cache.Layout(b.text, b.maxTextWidth(), b.metrics.width())
}

// TextFrame places the layout inside the box.
func (b *Box) TextFrame() textlayout.Frame {
	r := b.Bounds()
	return textlayout.Frame{
		Left:       r.Min.X + b.metrics.Padding,
		Top:        r.Min.Y + b.metrics.Padding,
		LineHeight: b.metrics.LineHeight,
		Width:      b.metrics.width(),
	}
}

func (b *Box) maxTextWidth() float64 {
	return b.Width - 2*b.metrics.Padding
}

func (b *Box) textLen() int {
	return utf8.RuneCountInString(b.text)
}

// naturalWidth is the unwrapped width of the longest logical line plus
// padding.
func (b *Box) naturalWidth() float64 {
	width := b.metrics.width()
	widest := 0.0
	for _, line := range strings.Split(b.text, "\n") {
		widest = math.Max(widest, width(line))
	}
	return widest + 2*b.metrics.Padding
}

func (b *Box) longestWordWidth() float64 {
	width := b.metrics.width()
	widest := 0.0
	for _, word := range strings.FieldsFunc(b.text, textlayout.IsWrapSpace) {
		widest = math.Max(widest, width(word))
	}
	return widest
}

// minResizeWidth keeps every word on one line.
func (b *Box) minResizeWidth() float64 {
	pad := 2 * b.metrics.Padding
	return math.Max(b.longestWordWidth()+pad, textlayout.MinWrapWidth+pad)
}

func (b *Box) requiredHeight() float64 {
	lines := float64(b.Layout().LineCount())
	return math.Max(b.metrics.MinHeight, lines*b.metrics.LineHeight+2*b.metrics.Padding)
}

func (b *Box) singleLine() bool {
	return !strings.Contains(b.text, "\n")
}

// updateSize recomputes width and height from the text. Boxes the user never
// resized track their natural width. Resized boxes keep the user width,
// except that a single line may shrink below it.
func (b *Box) updateSize() {
	natural := b.naturalWidth()
	switch {
	case !b.userResized:
		b.Width = geom.Clamp(natural, b.metrics.MinWidth, b.metrics.MaxWidth)
	case b.singleLine():
		b.Width = math.Min(b.userWidth, math.Max(natural, b.metrics.MinWidth))
	default:
		b.Width = b.userWidth
	}
	b.Height = b.requiredHeight()
}

// Reflow drops the cached layout and recomputes the box size.
func (b *Box) Reflow() {
	b.cache.Invalidate()
	b.updateSize()
}

// applyText installs new text and clamps the cursor and selection to it.
func (b *Box) applyText(text string) {
	b.text = textlayout.ValidText(text)
	n := b.textLen()
	b.cursor = clampInt(b.cursor, 0, n)
	if b.sel.active {
		b.sel.start = clampInt(b.sel.start, 0, n)
		b.sel.end = clampInt(b.sel.end, 0, n)
	}
	b.cache.Invalidate()
	b.updateSize()
}

// clone copies the persistent state of b. Editing state is left behind.
func (b *Box) clone() *Box {
	return &Box{
		ID:          b.ID,
		X:           b.X,
		Y:           b.Y,
		Width:       b.Width,
		Height:      b.Height,
		Color:       b.Color,
		text:        b.text,
		userResized: b.userResized,
		userWidth:   b.userWidth,
		cursor:      b.cursor,
		metrics:     b.metrics,
	}
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
