package diagram

import (
	"strings"

	"github.com/google/uuid"
)

// clipboard holds copies of boxes and the connections among them. pastes
// counts how often it was pasted so repeated pastes cascade.
type clipboard struct {
	boxes       []*Box
	connections []Connection
	pastes      int
}

// CopySelection copies the selected boxes and the connections whose ends
// are both selected. It returns the number of boxes copied.
func (c *Canvas) CopySelection() int {
	boxes := c.SelectedBoxes()
	if len(boxes) == 0 {
		return 0
	}
	clip := clipboard{boxes: make([]*Box, len(boxes))}
	for i, b := range boxes {
		clip.boxes[i] = b.clone()
	}
	for _, conn := range c.connections {
		if c.IsSelected(conn.FromID) && c.IsSelected(conn.ToID) {
			clip.connections = append(clip.connections, conn)
		}
	}
	c.clip = clip
	return len(boxes)
}

// PasteBoxes adds fresh copies of the clipboard, shifted by PasteOffset for
// every paste since the copy, and selects them.
func (c *Canvas) PasteBoxes() ([]*Box, error) {
	if len(c.clip.boxes) == 0 {
		return nil, ErrClipboardEmpty
	}
	c.clip.pastes++
	shift := c.metrics.PasteOffset * float64(c.clip.pastes)

	var pasted []*Box
	c.mutate(func() bool {
		ids := make(map[uuid.UUID]uuid.UUID, len(c.clip.boxes))
		for _, src := range c.clip.boxes {
			b := src.clone()
			b.ID = uuid.New()
			b.cursor = 0
			b.MoveBy(shift, shift)
			ids[src.ID] = b.ID
			c.boxes = append(c.boxes, b)
			pasted = append(pasted, b)
		}
		for _, conn := range c.clip.connections {
			c.connections = append(c.connections, Connection{FromID: ids[conn.FromID], ToID: ids[conn.ToID]})
		}
		return true
	})

	c.EndEdit()
	c.ClearSelection()
	for _, b := range pasted {
		c.selectedBoxes[b.ID] = struct{}{}
	}
	c.primaryBox = pasted[len(pasted)-1].ID
	return pasted, nil
}

// CopiedText returns the text of the copied boxes, one per paragraph, for
// the system clipboard.
func (c *Canvas) CopiedText() string {
	texts := make([]string, len(c.clip.boxes))
	for i, b := range c.clip.boxes {
		texts[i] = b.text
	}
	return strings.Join(texts, "\n\n")
}
