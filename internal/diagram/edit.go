package diagram

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Editing returns the box whose text is being edited, or nil.
func (c *Canvas) Editing() *Box {
	return c.Box(c.editing)
}

// BeginEdit selects a box and starts editing it with the caret at the end.
func (c *Canvas) BeginEdit(id uuid.UUID) error {
	b := c.Box(id)
	if b == nil {
		return fmt.Errorf("edit %s: %w", id, ErrUnknownBox)
	}
	if c.editing == id {
		return nil
	}
	c.SelectBox(id, false)
	c.editing = id
	b.StartEditing()
	return nil
}

// EndEdit stops editing, if anything is being edited.
func (c *Canvas) EndEdit() {
	if b := c.Editing(); b != nil {
		b.StopEditing()
	}
	c.editing = uuid.Nil
}

// Edit applies fn to the box being edited and records an undo step when fn
// reports a change.
//
//	c.Edit((*Box).Backspace)
func (c *Canvas) Edit(fn func(*Box) bool) bool {
	b := c.Editing()
	if b == nil {
		return false
	}
	return c.mutate(func() bool { return fn(b) })
}

// Type inserts s at the caret of the box being edited.
func (c *Canvas) Type(s string) bool {
	return c.Edit(func(b *Box) bool { return b.InsertText(s) })
}

// MoveCaret moves the caret of the box being edited. It never records undo.
func (c *Canvas) MoveCaret(m Motion, extend bool) bool {
	b := c.Editing()
	if b == nil {
		return false
	}
	b.Move(m, extend)
	return true
}

// SelectAllText selects all text of the box being edited.
func (c *Canvas) SelectAllText() bool {
	b := c.Editing()
	if b == nil {
		return false
	}
	b.SelectAll()
	return true
}

// PasteText inserts clipboard text into box id. Clipboard reads finish after
// the keystroke that started them, so the box must still exist and still be
// the one being edited; otherwise ErrStaleTarget is returned and nothing
// changes.
func (c *Canvas) PasteText(id uuid.UUID, text string) error {
	b := c.Box(id)
	if b == nil || c.editing != id || !b.Editing() {
		c.log.Debug("dropping stale paste", zap.Stringer("box", id))
		return fmt.Errorf("paste into %s: %w", id, ErrStaleTarget)
	}
	c.mutate(func() bool { return b.Paste(text) })
	return nil
}

// SetText replaces the text of a box as one undo step.
func (c *Canvas) SetText(id uuid.UUID, text string) error {
	b := c.Box(id)
	if b == nil {
		return fmt.Errorf("set text of %s: %w", id, ErrUnknownBox)
	}
	c.mutate(func() bool {
		if b.Text() == text {
			return false
		}
		b.SetText(text)
		return true
	})
	return nil
}
