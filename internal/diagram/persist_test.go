package diagram

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodepad/internal/geom"
)

func TestPersist_RoundTrip(t *testing.T) {
	c := New(CellMetrics())
	a := c.AddBox(3, 4, "first\nbox")
	b := c.AddBox(30, 4, "second")
	require.NoError(t, c.SetColor(b.ID, Palette[2]))
	require.NoError(t, c.Connect(b.ID, a.ID))
	a.ResizeTo(a.Bounds().Min.Add(geom.Pt(25, 6)))

	data, err := c.Serialize()
	require.NoError(t, err)

	loaded := New(CellMetrics())
	require.NoError(t, loaded.Deserialize(data))

	again, err := loaded.Serialize()
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))

	boxes := loaded.Boxes()
	require.Len(t, boxes, 2)
	assert.True(t, boxes[0].UserResized(), "a width that differs from auto width is a user width")
	assert.False(t, boxes[1].UserResized())
	assert.Equal(t, []Connection{{FromID: boxes[1].ID, ToID: boxes[0].ID}}, loaded.Connections())
}

func TestPersist_Format(t *testing.T) {
	c := New(CellMetrics())
	a := c.AddBox(1, 2, "x")
	b := c.AddBox(20, 2, "y")
	require.NoError(t, c.Connect(a.ID, b.ID))

	data, err := c.Serialize()
	require.NoError(t, err)

	var doc map[string][]map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc["boxes"], 2)
	assert.Equal(t, 1.0, doc["boxes"][0]["x"])
	assert.Equal(t, "x", doc["boxes"][0]["text"])
	assert.Equal(t, map[string]any{"r": 255.0, "g": 255.0, "b": 255.0}, doc["boxes"][0]["backgroundColor"])
	assert.Equal(t, []map[string]any{{"from": 0.0, "to": 1.0}}, doc["connections"])
}

func TestPersist_LenientLoad(t *testing.T) {
	doc := `{
		"boxes": [
			{"x": "bad", "y": 5, "text": "hi", "backgroundColor": {"r": 300, "g": -4, "b": 10.4}},
			7,
			{"x": 1, "y": 2},
			{"x": null, "text": 12}
		],
		"connections": [
			{"from": 0, "to": 2},
			{"from": 0, "to": 1},
			{"from": 0, "to": 9},
			{"from": 2, "to": 2},
			{"from": 0, "to": 2},
			{"from": 1.5, "to": 0},
			{"from": "0", "to": 3},
			"junk"
		]
	}`
	c := New(CellMetrics())
	require.NoError(t, c.Deserialize([]byte(doc)))

	boxes := c.Boxes()
	require.Len(t, boxes, 3, "the non-object entry is skipped")
	assert.Equal(t, 0.0, boxes[0].X)
	assert.Equal(t, 5.0, boxes[0].Y)
	assert.Equal(t, Color{R: 255, G: 0, B: 10}, boxes[0].Color)
	assert.Equal(t, White, boxes[1].Color)
	assert.Equal(t, "", boxes[2].Text())

	assert.Equal(t, []Connection{{FromID: boxes[0].ID, ToID: boxes[1].ID}}, c.Connections())
}

func TestPersist_NonArrayCollectionsAreEmpty(t *testing.T) {
	c := New(CellMetrics())
	require.NoError(t, c.Deserialize([]byte(`{"boxes": {"x": 1}, "connections": 3}`)))
	assert.True(t, c.Empty())
	assert.Empty(t, c.Connections())

	require.NoError(t, c.Deserialize([]byte(`[1, 2, 3]`)))
	assert.True(t, c.Empty())
}

func TestPersist_InvalidJSONLeavesCanvasAlone(t *testing.T) {
	c := New(CellMetrics())
	c.AddBox(0, 0, "keep me")

	err := c.Deserialize([]byte(`{"boxes": [`))
	assert.ErrorIs(t, err, ErrInvalidDocument)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, "keep me", c.Boxes()[0].Text())
	assert.True(t, c.CanUndo())
}

func TestPersist_LoadResetsHistoryAndSelection(t *testing.T) {
	c := New(CellMetrics())
	a := c.AddBox(0, 0, "a")
	c.SelectBox(a.ID, false)
	require.NoError(t, c.BeginEdit(a.ID))

	require.NoError(t, c.Deserialize([]byte(`{"boxes": [{"x": 1, "y": 1, "text": "b"}], "connections": []}`)))

	assert.False(t, c.CanUndo())
	assert.False(t, c.Dirty())
	assert.Nil(t, c.Editing())
	assert.Empty(t, c.SelectedBoxes())
	assert.Equal(t, "b", c.Boxes()[0].Text())
}
