package diagram

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodepad/internal/geom"
)

// cellBox returns a box on a cell-metric canvas; one unit per rune keeps
// widths easy to reason about.
func cellBox(t *testing.T, text string) (*Canvas, *Box) {
	t.Helper()
	c := New(CellMetrics())
	b := c.AddBox(20, 10, text)
	require.NotNil(t, b)
	return c, b
}

// textPoint is the document point of the caret before col on a visual line.
func textPoint(b *Box, line, col int) geom.Point {
	f := b.TextFrame()
	return geom.Pt(f.Left+float64(col), f.Top+(float64(line)+0.5)*f.LineHeight)
}

func TestBox_AutoWidth(t *testing.T) {
	_, b := cellBox(t, "hello")
	assert.Equal(t, 8.0, b.Width, "short text is held at MinWidth")
	assert.Equal(t, 3.0, b.Height)

	b.SetText("a line of twenty-four ch")
	assert.Equal(t, 26.0, b.Width)

	b.SetText(strings.Repeat("word ", 12))
	assert.Equal(t, 40.0, b.Width, "long text is capped at MaxWidth")
	assert.Equal(t, 2, b.Layout().LineCount())
	assert.Equal(t, 4.0, b.Height)
}

func TestBox_HeightFitsLogicalLines(t *testing.T) {
	_, b := cellBox(t, "a\nb\nc\nd")
	assert.Equal(t, 6.0, b.Height)

	b.SetText("")
	assert.Equal(t, 3.0, b.Height)
}

func TestBox_SelectAllThenType(t *testing.T) {
	c, b := cellBox(t, "hello")
	require.NoError(t, c.BeginEdit(b.ID))

	c.SelectAllText()
	assert.True(t, c.Type("x"))

	assert.Equal(t, "x", b.Text())
	assert.Equal(t, 1, b.Cursor())
	_, _, ok := b.Selection()
	assert.False(t, ok)
}

func TestBox_InsertAndDelete(t *testing.T) {
	_, b := cellBox(t, "")
	b.StartEditing()

	assert.True(t, b.InsertText("hello world"))
	assert.Equal(t, 11, b.Cursor())

	assert.True(t, b.DeleteWordLeft())
	assert.Equal(t, "hello ", b.Text())

	assert.True(t, b.Backspace())
	assert.Equal(t, "hello", b.Text())

	b.Move(MoveTextStart, false)
	assert.False(t, b.Backspace(), "nothing before the caret")
	assert.True(t, b.DeleteForward())
	assert.Equal(t, "ello", b.Text())

	assert.True(t, b.DeleteWordRight())
	assert.Equal(t, "", b.Text())
	assert.False(t, b.DeleteForward())
}

func TestBox_DeleteToLineBoundaries(t *testing.T) {
	_, b := cellBox(t, "ab\ncd")
	b.StartEditing()

	assert.True(t, b.DeleteToLineStart())
	assert.Equal(t, "ab\n", b.Text())
	assert.Equal(t, 3, b.Cursor())

	assert.True(t, b.DeleteToLineStart(), "at a line start the newline goes")
	assert.Equal(t, "ab", b.Text())

	b.SetText("ab\ncd")
	b.Move(MoveTextStart, false)
	assert.True(t, b.DeleteToLineEnd())
	assert.Equal(t, "\ncd", b.Text())
	assert.True(t, b.DeleteToLineEnd(), "at a line end the newline goes")
	assert.Equal(t, "cd", b.Text())
}

func TestBox_EditReplacesSelection(t *testing.T) {
	_, b := cellBox(t, "hello world")
	b.StartEditing()
	b.Move(MoveWordLeft, true)

	lo, hi, ok := b.Selection()
	require.True(t, ok)
	assert.Equal(t, []int{6, 11}, []int{lo, hi})
	assert.Equal(t, "world", b.SelectedText())

	assert.True(t, b.Backspace())
	assert.Equal(t, "hello ", b.Text())
	assert.Equal(t, 6, b.Cursor())
}

func TestBox_PasteNormalisesLineEndings(t *testing.T) {
	_, b := cellBox(t, "")
	b.StartEditing()

	assert.True(t, b.Paste("a\r\nb\rc"))
	assert.Equal(t, "a\nb\nc", b.Text())
	assert.Equal(t, 5, b.Cursor())
}

func TestBox_MoveCollapsesSelection(t *testing.T) {
	_, b := cellBox(t, "hello world")
	b.StartEditing()
	b.Move(MoveWordLeft, true)

	b.Move(MoveLeft, false)
	assert.Equal(t, 6, b.Cursor())
	_, _, ok := b.Selection()
	assert.False(t, ok)

	b.Move(MoveLineEnd, false)
	assert.Equal(t, 11, b.Cursor())
	b.Move(MoveLineStart, true)
	assert.Equal(t, "hello world", b.SelectedText())
}

func TestBox_VerticalMoves(t *testing.T) {
	_, b := cellBox(t, "abcdef\nab\nabcdef")
	b.StartEditing()
	b.Move(MoveTextStart, false)
	b.Move(MoveRight, false)
	b.Move(MoveRight, false)
	b.Move(MoveRight, false)

	b.Move(MoveDown, false)
	assert.Equal(t, 9, b.Cursor(), "column clamps to the short line")
	b.Move(MoveDown, false)
	assert.Equal(t, 12, b.Cursor(), "no sticky column")
	b.Move(MoveUp, false)
	b.Move(MoveUp, false)
	b.Move(MoveUp, false)
	assert.Equal(t, 2, b.Cursor())
}

func TestBox_ClickPlacesCaret(t *testing.T) {
	_, b := cellBox(t, "hello world")

	b.PointerDown(textPoint(b, 0, 2), 1000)
	b.PointerUp()

	assert.True(t, b.Editing())
	assert.Equal(t, 2, b.Cursor())
	_, _, ok := b.Selection()
	assert.False(t, ok, "a click without drag leaves a caret")
}

func TestBox_DoubleClickSelectsWord(t *testing.T) {
	_, b := cellBox(t, "hello world")

	b.PointerDown(textPoint(b, 0, 2), 1000)
	b.PointerUp()
	b.PointerDown(textPoint(b, 0, 2), 1200)
	b.PointerUp()
	assert.Equal(t, "hello", b.SelectedText())

	b.PointerDown(textPoint(b, 0, 8), 5000)
	b.PointerUp()
	b.PointerDown(textPoint(b, 0, 8), 5000+b.metrics.DoubleClickMillis+1)
	b.PointerUp()
	assert.Equal(t, "", b.SelectedText(), "too slow for a double click")
	assert.Equal(t, 8, b.Cursor())
}

func TestBox_DragSelects(t *testing.T) {
	_, b := cellBox(t, "hello world")

	b.PointerDown(textPoint(b, 0, 6), 1000)
	assert.True(t, b.Selecting())
	b.PointerDrag(textPoint(b, 0, 9))
	b.PointerDrag(textPoint(b, 0, 11))
	b.PointerUp()

	assert.False(t, b.Selecting())
	assert.Equal(t, "world", b.SelectedText())
	assert.Equal(t, 11, b.Cursor())

	b.PointerDown(textPoint(b, 0, 3), 9000)
	b.PointerDrag(textPoint(b, 0, 1))
	assert.Equal(t, "el", b.SelectedText(), "selection bounds may be reversed")
	b.PointerDrag(textPoint(b, 0, 3))
	b.PointerUp()
	_, _, ok := b.Selection()
	assert.False(t, ok, "an empty drag collapses to a caret")
}

func TestBox_StopEditingIsIdempotent(t *testing.T) {
	_, b := cellBox(t, "some text\nto edit")
	b.StartEditing()
	b.SelectAll()

	b.StopEditing()
	once := b.Bounds()
	b.StopEditing()

	assert.Equal(t, once, b.Bounds())
	assert.False(t, b.Editing())
	_, _, ok := b.Selection()
	assert.False(t, ok)
}

func TestBox_CursorStaysInText(t *testing.T) {
	_, b := cellBox(t, "hello world")
	b.StartEditing()
	b.SelectAll()

	b.SetText("hi")
	assert.Equal(t, 2, b.Cursor())
	assert.LessOrEqual(t, b.Cursor(), len([]rune(b.Text())))

	b.cursor = 99
	assert.True(t, b.InsertText("!"))
	assert.Equal(t, "hi!", b.Text())
}

func TestBox_NonFiniteMoveIsIgnored(t *testing.T) {
	_, b := cellBox(t, "x")
	b.MoveBy(math.NaN(), 1)
	b.MoveTo(math.Inf(1), 0)

	assert.Equal(t, geom.Pt(20, 10), b.Center())
}

func TestBox_InvalidUTF8TextIsRepaired(t *testing.T) {
	c, b := cellBox(t, "ab\xff\xffcdefgh")
	assert.Equal(t, "ab��cdefgh", b.Text())
	assert.Equal(t, 10, b.Layout().TextLen)

	require.NoError(t, c.SetText(b.ID, "\xffabc \xffabc \xffabc"))
	assert.Equal(t, "�abc �abc �abc", b.Text())
	assert.Equal(t, b.Text(), strings.Join(b.Layout().Lines, " "))

	require.NoError(t, c.BeginEdit(b.ID))
	assert.True(t, c.Type("z\xfe"))
	assert.True(t, strings.HasSuffix(b.Text(), "z�"))
}
