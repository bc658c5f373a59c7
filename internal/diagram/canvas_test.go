package diagram

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serialize(t *testing.T, c *Canvas) string {
	t.Helper()
	data, err := c.Serialize()
	require.NoError(t, err)
	return string(data)
}

func TestCanvas_ReverseConnection(t *testing.T) {
	c := New(CellMetrics())
	a := c.AddBox(0, 0, "a")
	b := c.AddBox(30, 10, "b")
	require.NoError(t, c.Connect(a.ID, b.ID))

	ab := Connection{FromID: a.ID, ToID: b.ID}
	before, ok := c.Endpoints(ab)
	require.True(t, ok)

	require.NoError(t, c.ReverseConnection(ab))

	ba := ab.Reversed()
	assert.Equal(t, []Connection{ba}, c.Connections())
	after, ok := c.Endpoints(ba)
	require.True(t, ok)
	assert.Equal(t, before.From, after.To)
	assert.Equal(t, before.To, after.From)
}

func TestCanvas_ReverseDropsWhenReverseExists(t *testing.T) {
	c := New(CellMetrics())
	a := c.AddBox(0, 0, "a")
	b := c.AddBox(30, 10, "b")
	require.NoError(t, c.Connect(a.ID, b.ID))
	require.NoError(t, c.Connect(b.ID, a.ID))

	require.NoError(t, c.ReverseConnection(Connection{FromID: a.ID, ToID: b.ID}))

	assert.Equal(t, []Connection{{FromID: b.ID, ToID: a.ID}}, c.Connections())
}

func TestCanvas_ReverseUnknown(t *testing.T) {
	c := New(CellMetrics())
	assert.ErrorIs(t, c.ReverseConnection(Connection{FromID: uuid.New(), ToID: uuid.New()}), ErrUnknownConnection)
}

func TestCanvas_ConnectRejectsBadEdges(t *testing.T) {
	c := New(CellMetrics())
	a := c.AddBox(0, 0, "a")
	b := c.AddBox(30, 10, "b")

	assert.ErrorIs(t, c.Connect(a.ID, a.ID), ErrSelfLoop)
	assert.ErrorIs(t, c.Connect(a.ID, uuid.New()), ErrUnknownBox)
	require.NoError(t, c.Connect(a.ID, b.ID))
	assert.ErrorIs(t, c.Connect(a.ID, b.ID), ErrDuplicateConnection)
	assert.NoError(t, c.Connect(b.ID, a.ID), "the opposite direction is a different edge")
	assert.Len(t, c.Connections(), 2)
}

func TestCanvas_UndoIsBounded(t *testing.T) {
	c := New(CellMetrics(), WithHistoryLimit(3))
	for i := 0; i < 4; i++ {
		c.AddBox(float64(i*20), 0, "box")
	}
	assert.Equal(t, 3, c.History().UndoDepth())

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Undo())
	}
	assert.Equal(t, 1, c.Len(), "the first add was evicted and cannot be undone")
	assert.ErrorIs(t, c.Undo(), ErrNothingToUndo)
}

func TestCanvas_UndoRestoresExactState(t *testing.T) {
	c := New(CellMetrics())
	var states []string
	record := func() { states = append(states, serialize(t, c)) }

	record()
	a := c.AddBox(0, 0, "first")
	record()
	b := c.AddBox(30, 0, "second")
	record()
	require.NoError(t, c.Connect(a.ID, b.ID))
	record()
	require.NoError(t, c.SetText(a.ID, "first, edited"))
	record()
	require.NoError(t, c.SetColor(b.ID, Palette[3]))
	record()
	require.NoError(t, c.RemoveBox(a.ID))

	for k := len(states) - 1; k >= 0; k-- {
		require.NoError(t, c.Undo())
		assert.JSONEq(t, states[k], serialize(t, c), "undo %d", len(states)-k)
	}
}

func TestCanvas_SnapshotsAreIndependent(t *testing.T) {
	c := New(CellMetrics())
	b := c.AddBox(5, 5, "a")
	require.NoError(t, c.SetText(b.ID, "b"))

	// Change the live box behind the canvas's back.
	b.MoveBy(100, 100)
	b.SetText("tampered")

	require.NoError(t, c.Undo())
	restored := c.Boxes()[0]
	assert.Equal(t, "a", restored.Text())
	assert.Equal(t, 5.0, restored.X)
	assert.NotSame(t, b, restored)
}

func TestCanvas_Redo(t *testing.T) {
	c := New(CellMetrics())
	b := c.AddBox(0, 0, "one")
	require.NoError(t, c.SetText(b.ID, "two"))

	require.NoError(t, c.Undo())
	assert.Equal(t, "one", c.Boxes()[0].Text())
	require.NoError(t, c.Redo())
	assert.Equal(t, "two", c.Boxes()[0].Text())
	assert.ErrorIs(t, c.Redo(), ErrNothingToRedo)

	require.NoError(t, c.Undo())
	c.AddBox(10, 10, "new")
	assert.False(t, c.CanRedo(), "a new change clears redo")
}

func TestCanvas_NoOpDoesNotRecordUndo(t *testing.T) {
	c := New(CellMetrics())
	b := c.AddBox(0, 0, "same")
	depth := c.History().UndoDepth()

	require.NoError(t, c.SetText(b.ID, "same"))
	require.NoError(t, c.SetColor(b.ID, b.Color))
	assert.False(t, c.MoveSelection(1, 1), "nothing selected")

	assert.Equal(t, depth, c.History().UndoDepth())
}

func TestCanvas_DirtyFlag(t *testing.T) {
	c := New(CellMetrics())
	assert.False(t, c.Dirty())

	c.AddBox(0, 0, "x")
	assert.True(t, c.Dirty())

	c.MarkSaved()
	assert.False(t, c.Dirty())

	require.NoError(t, c.Undo())
	assert.True(t, c.Dirty())
}

func TestCanvas_Selection(t *testing.T) {
	c := New(CellMetrics())
	a := c.AddBox(0, 0, "a")
	b := c.AddBox(30, 0, "b")
	d := c.AddBox(60, 0, "d")
	require.NoError(t, c.Connect(a.ID, b.ID))
	ab := Connection{FromID: a.ID, ToID: b.ID}

	c.SelectBox(a.ID, false)
	c.SelectBox(b.ID, true)
	assert.Equal(t, []*Box{a, b}, c.SelectedBoxes())
	assert.Equal(t, b, c.PrimaryBox())

	c.SelectBox(a.ID, true)
	assert.Equal(t, []*Box{b}, c.SelectedBoxes(), "additive select toggles")

	c.SelectConnection(ab, true)
	assert.Len(t, c.SelectedBoxes(), 1, "additive connection select keeps boxes")
	assert.True(t, c.IsConnectionSelected(ab))

	c.SelectBox(d.ID, false)
	assert.Equal(t, []*Box{d}, c.SelectedBoxes())
	assert.Empty(t, c.SelectedConnections(), "a plain select clears both sets")

	c.SelectConnection(ab, false)
	assert.Empty(t, c.SelectedBoxes())
	prim, ok := c.PrimaryConnection()
	assert.True(t, ok)
	assert.Equal(t, ab, prim)
}

func TestCanvas_DeleteSelection(t *testing.T) {
	c := New(CellMetrics())
	a := c.AddBox(0, 0, "a")
	b := c.AddBox(30, 0, "b")
	d := c.AddBox(60, 0, "d")
	require.NoError(t, c.Connect(a.ID, b.ID))
	require.NoError(t, c.Connect(b.ID, d.ID))
	require.NoError(t, c.Connect(a.ID, d.ID))
	before := serialize(t, c)

	c.SelectBox(b.ID, false)
	c.SelectConnection(Connection{FromID: a.ID, ToID: d.ID}, true)
	assert.True(t, c.DeleteSelection())

	assert.Equal(t, 2, c.Len())
	assert.Empty(t, c.Connections())
	assert.Empty(t, c.SelectedBoxes())

	require.NoError(t, c.Undo())
	assert.JSONEq(t, before, serialize(t, c), "one undo restores everything")
}

func TestCanvas_CycleColor(t *testing.T) {
	c := New(CellMetrics())
	a := c.AddBox(0, 0, "a")
	c.SelectBox(a.ID, false)

	assert.True(t, c.CycleColor())
	assert.Equal(t, Palette[1], c.Box(a.ID).Color)

	require.NoError(t, c.Undo())
	assert.Equal(t, White, c.Box(a.ID).Color)
}

func TestCanvas_PasteTextRevalidatesTarget(t *testing.T) {
	c := New(CellMetrics())
	a := c.AddBox(0, 0, "ab")
	b := c.AddBox(30, 0, "")

	require.NoError(t, c.BeginEdit(a.ID))
	require.NoError(t, c.PasteText(a.ID, "c\r\nd"))
	assert.Equal(t, "abc\nd", c.Box(a.ID).Text())

	require.NoError(t, c.BeginEdit(b.ID))
	assert.ErrorIs(t, c.PasteText(a.ID, "late"), ErrStaleTarget, "focus moved on")
	assert.Equal(t, "abc\nd", c.Box(a.ID).Text())

	require.NoError(t, c.RemoveBox(b.ID))
	assert.ErrorIs(t, c.PasteText(b.ID, "late"), ErrStaleTarget, "box is gone")
}

func TestCanvas_EditingSurvivesUndo(t *testing.T) {
	c := New(CellMetrics())
	a := c.AddBox(0, 0, "")
	require.NoError(t, c.BeginEdit(a.ID))

	c.Type("h")
	c.Type("i")
	assert.True(t, c.Edit((*Box).Backspace))
	assert.Equal(t, "h", c.Editing().Text())

	require.NoError(t, c.Undo())
	ed := c.Editing()
	require.NotNil(t, ed)
	assert.Equal(t, "hi", ed.Text())
	assert.True(t, ed.Editing())
	assert.LessOrEqual(t, ed.Cursor(), 2)
}

func TestCanvas_MoveSelection(t *testing.T) {
	c := New(CellMetrics())
	a := c.AddBox(0, 0, "a")
	b := c.AddBox(30, 0, "b")
	c.SelectBox(a.ID, false)
	c.SelectBox(b.ID, true)

	assert.True(t, c.MoveSelection(2, 3))
	assert.Equal(t, 2.0, c.Box(a.ID).X)
	assert.Equal(t, 3.0, c.Box(b.ID).Y)

	require.NoError(t, c.Undo())
	assert.Equal(t, 0.0, c.Box(a.ID).X)
}

func TestCanvas_BoxAtPrefersTopmost(t *testing.T) {
	c := New(CellMetrics())
	c.AddBox(0, 0, "under")
	top := c.AddBox(1, 0, "over")

	assert.Equal(t, top, c.BoxAt(top.Center()))
}

func TestCanvas_PlaceBoxAnchorsTopLeft(t *testing.T) {
	c := New(CellMetrics())
	b := c.PlaceBox(3, 4, "hello")

	assert.Equal(t, 3.0, b.Bounds().Min.X)
	assert.Equal(t, 4.0, b.Bounds().Min.Y)
	assert.Equal(t, 1, c.History().UndoDepth())
}
