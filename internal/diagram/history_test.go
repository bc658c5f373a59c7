package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistory_EvictsOldest(t *testing.T) {
	h := NewHistory(2)
	for i := 0; i < 3; i++ {
		h.push(snapshot{connections: make([]Connection, i)})
	}

	assert.Equal(t, 2, h.UndoDepth())
	got, ok := h.stepBack(snapshot{})
	assert.True(t, ok)
	assert.Len(t, got.connections, 2)
	got, _ = h.stepBack(snapshot{})
	assert.Len(t, got.connections, 1, "the first push was evicted")
	_, ok = h.stepBack(snapshot{})
	assert.False(t, ok)
	assert.Equal(t, 2, h.RedoDepth())
}

func TestHistory_PushClearsRedo(t *testing.T) {
	h := NewHistory(0)
	assert.Equal(t, DefaultHistoryLimit, h.Limit())

	h.push(snapshot{})
	h.stepBack(snapshot{})
	assert.Equal(t, 1, h.RedoDepth())

	h.push(snapshot{})
	assert.Equal(t, 0, h.RedoDepth())
}
