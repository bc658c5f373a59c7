package diagram

import (
	"strings"

	"nodepad/internal/geom"
	"nodepad/internal/textlayout"
)

// Motion is a caret movement.
type Motion int

const (
	MoveLeft Motion = iota
	MoveRight
	MoveUp
	MoveDown
	MoveWordLeft
	MoveWordRight
	MoveLineStart // start of the visual line
	MoveLineEnd   // end of the visual line
	MoveTextStart
	MoveTextEnd
)

// StartEditing enters editing with the caret at the end of the text.
func (b *Box) StartEditing() {
	if b.editing {
		return
	}
	b.editing = true
	b.cursor = b.textLen()
	b.sel = selection{}
}

// StopEditing leaves editing and reflows. Calling it again is harmless.
func (b *Box) StopEditing() {
	b.editing = false
	b.selecting = false
	b.sel = selection{}
	b.lastClick = click{}
	b.Reflow()
}

// OffsetAt maps a document point to a text offset.
func (b *Box) OffsetAt(p geom.Point) int {
	return b.Layout().OffsetAt(p, b.TextFrame())
}

// PointerDown enters editing and places the caret under p. A second press
// within the double-click window and slop selects the word under p instead.
// Otherwise a drag selection is anchored at the caret.
func (b *Box) PointerDown(p geom.Point, now int64) {
	b.editing = true
	off := b.OffsetAt(p)

	if b.isDoubleClick(p, now) {
		start, end := textlayout.WordAt([]rune(b.text), off)
		b.sel = selection{start: start, end: end, active: start != end}
		b.cursor = end
		b.selecting = false
		b.lastClick = click{}
		return
	}

	b.lastClick = click{at: p, time: now, set: true}
	b.cursor = off
	b.sel = selection{start: off, end: off, active: true}
	b.selecting = true
}

func (b *Box) isDoubleClick(p geom.Point, now int64) bool {
	c := b.lastClick
	if !c.set {
		return false
	}
	dt := now - c.time
	return dt >= 0 && dt <= b.metrics.DoubleClickMillis && c.at.Dist(p) <= b.metrics.DoubleClickSlop
}

// PointerDrag extends the drag selection to p. The anchor stays put.
func (b *Box) PointerDrag(p geom.Point) {
	if !b.selecting {
		return
	}
	off := b.OffsetAt(p)
	b.sel.end = off
	b.cursor = off
}

// PointerUp ends a drag selection, collapsing it to a caret when empty.
func (b *Box) PointerUp() {
	b.selecting = false
	if b.sel.empty() {
		b.sel = selection{}
	}
}

func (b *Box) SelectAll() {
	n := b.textLen()
	b.sel = selection{start: 0, end: n, active: n > 0}
	b.cursor = n
}

func (b *Box) SelectedText() string {
	lo, hi, ok := b.Selection()
	if !ok {
		return ""
	}
	return string([]rune(b.text)[lo:hi])
}

// Move moves the caret. With extend the selection grows from its anchor
// (or the old caret); without it any selection is dropped.
func (b *Box) Move(m Motion, extend bool) {
	from := clampInt(b.cursor, 0, b.textLen())
	next := b.motionTarget(m, from)

	if !extend {
		b.sel = selection{}
		b.cursor = next
		return
	}
	anchor := from
	if b.sel.active {
		anchor = b.sel.start
	}
	b.sel = selection{start: anchor, end: next, active: true}
	b.cursor = next
}

func (b *Box) motionTarget(m Motion, from int) int {
	runes := []rune(b.text)
	layout := b.Layout()
	switch m {
	case MoveLeft:
		if lo, _, ok := b.Selection(); ok {
			return lo
		}
		return clampInt(from-1, 0, len(runes))
	case MoveRight:
		if _, hi, ok := b.Selection(); ok {
			return hi
		}
		return clampInt(from+1, 0, len(runes))
	case MoveUp:
		return layout.MoveUp(from)
	case MoveDown:
		return layout.MoveDown(from)
	case MoveWordLeft:
		return textlayout.WordLeft(runes, from)
	case MoveWordRight:
		return textlayout.WordRight(runes, from)
	case MoveLineStart:
		pos := layout.OffsetToVisual(from)
		return layout.VisualToOffset(textlayout.Position{Line: pos.Line})
	case MoveLineEnd:
		pos := layout.OffsetToVisual(from)
		return layout.VisualToOffset(textlayout.Position{Line: pos.Line, Col: layout.LineLen(pos.Line)})
	case MoveTextStart:
		return 0
	case MoveTextEnd:
		return len(runes)
	}
	return from
}

// InsertText replaces the selection (if any) with s and leaves the caret
// after it.
func (b *Box) InsertText(s string) bool {
	deleted := b.deleteSelection()
	if s == "" {
		return deleted
	}
	runes := []rune(b.text)
	at := clampInt(b.cursor, 0, len(runes))
	ins := []rune(s)

	out := make([]rune, 0, len(runes)+len(ins))
	out = append(out, runes[:at]...)
	out = append(out, ins...)
	out = append(out, runes[at:]...)

	b.cursor = at + len(ins)
	b.applyText(string(out))
	return true
}

// Paste inserts clipboard text with line endings normalised to '\n'.
func (b *Box) Paste(s string) bool {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return b.InsertText(s)
}

func (b *Box) Backspace() bool {
	if b.deleteSelection() {
		return true
	}
	at := clampInt(b.cursor, 0, b.textLen())
	return b.deleteRange(at-1, at)
}

func (b *Box) DeleteForward() bool {
	if b.deleteSelection() {
		return true
	}
	at := clampInt(b.cursor, 0, b.textLen())
	return b.deleteRange(at, at+1)
}

func (b *Box) DeleteWordLeft() bool {
	if b.deleteSelection() {
		return true
	}
	runes := []rune(b.text)
	at := clampInt(b.cursor, 0, len(runes))
	return b.deleteRange(textlayout.WordLeft(runes, at), at)
}

func (b *Box) DeleteWordRight() bool {
	if b.deleteSelection() {
		return true
	}
	runes := []rune(b.text)
	at := clampInt(b.cursor, 0, len(runes))
	return b.deleteRange(at, textlayout.WordRight(runes, at))
}

// DeleteToLineStart deletes back to the previous newline. At the start of a
// line it joins the line with the one above.
func (b *Box) DeleteToLineStart() bool {
	if b.deleteSelection() {
		return true
	}
	runes := []rune(b.text)
	at := clampInt(b.cursor, 0, len(runes))
	start := textlayout.LineStart(runes, at)
	if start == at {
		start = at - 1
	}
	return b.deleteRange(start, at)
}

// DeleteToLineEnd deletes up to the next newline, or the newline itself when
// the caret is already at the end of a line.
func (b *Box) DeleteToLineEnd() bool {
	if b.deleteSelection() {
		return true
	}
	runes := []rune(b.text)
	at := clampInt(b.cursor, 0, len(runes))
	end := textlayout.LineEnd(runes, at)
	if end == at {
		end = at + 1
	}
	return b.deleteRange(at, end)
}

func (b *Box) deleteSelection() bool {
	if b.sel.empty() {
		b.sel = selection{}
		return false
	}
	lo, hi := b.sel.ordered()
	b.sel = selection{}
	return b.deleteRange(lo, hi)
}

// deleteRange removes runes [lo, hi) after clamping both to the text and
// leaves the caret at lo.
func (b *Box) deleteRange(lo, hi int) bool {
	runes := []rune(b.text)
	lo = clampInt(lo, 0, len(runes))
	hi = clampInt(hi, 0, len(runes))
	if lo >= hi {
		return false
	}
	out := make([]rune, 0, len(runes)-(hi-lo))
	out = append(out, runes[:lo]...)
	out = append(out, runes[hi:]...)
	b.cursor = lo
	b.applyText(string(out))
	return true
}
