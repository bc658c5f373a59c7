package main

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"nodepad/internal/diagram"
	"nodepad/internal/geom"
)

// screenInput converts a terminal cell to a pointer at the cell's center in
// document space.
func (m *model) screenInput(x, y int) diagram.Input {
	wx, wy := m.getWorldCoordsAt(x, y)
	return diagram.Input{
		Pointer: geom.Pt(float64(wx)+0.5, float64(wy)+0.5),
		Time:    time.Now().UnixMilli(),
	}
}

func (m *model) cursorInput() diagram.Input {
	return m.screenInput(m.cursorX, m.cursorY)
}

func (m *model) boxAtCursor() *diagram.Box {
	return m.getCanvas().BoxAt(m.cursorInput().Pointer)
}

// selectAtCursorIfEmpty selects the box or connection under the keyboard
// cursor when nothing is selected. It reports whether anything is selected
// afterwards.
func (m *model) selectAtCursorIfEmpty() bool {
	canvas := m.getCanvas()
	if len(canvas.SelectedBoxes()) > 0 || len(canvas.SelectedConnections()) > 0 {
		return true
	}
	p := m.cursorInput().Pointer
	if b := canvas.BoxAt(p); b != nil {
		canvas.SelectBox(b.ID, false)
		return true
	}
	if conn, ok := canvas.ConnectionAt(p); ok {
		canvas.SelectConnection(conn, false)
		return true
	}
	return false
}

// connectAtCursor is the keyboard form of dragging a connection: the first
// press picks the source box and the second the target.
func (m *model) connectAtCursor() {
	canvas := m.getCanvas()
	b := m.boxAtCursor()
	if m.connectFrom == uuid.Nil {
		if b == nil {
			m.errorMessage = "Move the cursor onto a box to connect from"
			return
		}
		m.connectFrom = b.ID
		canvas.SelectBox(b.ID, false)
		return
	}

	from := m.connectFrom
	m.connectFrom = uuid.Nil
	if b == nil {
		m.successMessage = "Connection cancelled"
		return
	}
	err := canvas.Connect(from, b.ID)
	switch {
	case err == nil:
		canvas.SelectConnection(diagram.Connection{FromID: from, ToID: b.ID}, false)
		m.successMessage = "Connected"
	case errors.Is(err, diagram.ErrSelfLoop):
		m.errorMessage = "A box cannot connect to itself"
	case errors.Is(err, diagram.ErrDuplicateConnection):
		m.errorMessage = "Those boxes are already connected"
	default:
		m.errorMessage = err.Error()
	}
}

// syncMode follows the canvas into and out of text editing.
func (m *model) syncMode() {
	editing := m.getCanvas().Editing() != nil
	switch {
	case editing && m.mode == ModeNormal:
		m.mode = ModeEditing
	case !editing && m.mode == ModeEditing:
		m.mode = ModeNormal
	}
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.help || (m.mode != ModeNormal && m.mode != ModeEditing) {
		return m, nil
	}
	canvas := m.getCanvas()
	buf := m.getCurrentBuffer()
	in := m.screenInput(msg.X, msg.Y-m.canvasTop())
	in.Additive = msg.Shift || msg.Ctrl || msg.Alt

	switch msg.Type {
	case tea.MouseWheelUp:
		buf.panY -= 2
	case tea.MouseWheelDown:
		buf.panY += 2
	case tea.MouseRight:
		canvas.CancelGesture()
		m.mouseDown = false
	case tea.MouseLeft:
		if m.mouseDown {
			canvas.PointerMove(in)
			break
		}
		m.mouseDown = true
		m.successMessage = ""
		m.errorMessage = ""
		m.connectFrom = uuid.Nil
		m.cursorX, m.cursorY = msg.X, msg.Y-m.canvasTop()
		m.ensureCursorInBounds()
		canvas.PointerDown(in)
	case tea.MouseMotion:
		if m.mouseDown {
			canvas.PointerMove(in)
		}
	case tea.MouseRelease:
		if m.mouseDown {
			m.mouseDown = false
			canvas.PointerUp(in)
		}
	}
	m.syncMode()
	return m, nil
}

func (m model) handleClipboard(msg clipboardMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errorMessage = fmt.Sprintf("Clipboard unavailable: %v", msg.err)
		m.log.Debug("clipboard read failed", zap.Error(msg.err))
		return m, nil
	}
	err := m.getCanvas().PasteText(msg.id, msg.text)
	if errors.Is(err, diagram.ErrStaleTarget) {
		m.errorMessage = "Paste arrived after editing ended"
	}
	return m, nil
}

func (m model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	canvas := m.getCanvas()
	box := canvas.Editing()
	if box == nil {
		m.mode = ModeNormal
		return m, nil
	}
	m.errorMessage = ""

	switch msg.String() {
	case "esc":
		canvas.EndEdit()
		m.mode = ModeNormal
	case "ctrl+v":
		return m, readClipboard(box.ID)
	case "ctrl+c":
		if text := box.SelectedText(); text != "" {
			return m, writeClipboard(text, "text")
		}
	case "ctrl+a":
		canvas.SelectAllText()
	case "ctrl+z":
		m.undo()
	case "ctrl+y":
		m.redo()

	case "enter":
		canvas.Type("\n")
	case "tab":
		canvas.Type("    ")
	case "backspace", "ctrl+h":
		canvas.Edit((*diagram.Box).Backspace)
	case "delete", "ctrl+d":
		canvas.Edit((*diagram.Box).DeleteForward)
	case "ctrl+w", "alt+backspace":
		canvas.Edit((*diagram.Box).DeleteWordLeft)
	case "alt+d", "ctrl+delete":
		canvas.Edit((*diagram.Box).DeleteWordRight)
	case "ctrl+u":
		canvas.Edit((*diagram.Box).DeleteToLineStart)
	case "ctrl+k":
		canvas.Edit((*diagram.Box).DeleteToLineEnd)

	default:
		if motion, extend, ok := caretMotion(msg.String()); ok {
			canvas.MoveCaret(motion, extend)
			break
		}
		switch msg.Type {
		case tea.KeySpace:
			canvas.Type(" ")
		case tea.KeyRunes:
			text := string(msg.Runes)
			if len(msg.Runes) > 1 {
				// Several runes in one message is an unbracketed paste.
				canvas.Edit(func(b *diagram.Box) bool { return b.Paste(cleanClipboardText(text)) })
			} else {
				canvas.Type(text)
			}
		}
	}
	m.syncMode()
	return m, nil
}

// caretMotion maps navigation keys to caret motions. Shift extends the
// selection.
func caretMotion(key string) (motion diagram.Motion, extend bool, ok bool) {
	switch key {
	case "left":
		return diagram.MoveLeft, false, true
	case "shift+left":
		return diagram.MoveLeft, true, true
	case "right":
		return diagram.MoveRight, false, true
	case "shift+right":
		return diagram.MoveRight, true, true
	case "up":
		return diagram.MoveUp, false, true
	case "shift+up":
		return diagram.MoveUp, true, true
	case "down":
		return diagram.MoveDown, false, true
	case "shift+down":
		return diagram.MoveDown, true, true
	case "ctrl+left", "alt+left", "alt+b":
		return diagram.MoveWordLeft, false, true
	case "ctrl+shift+left":
		return diagram.MoveWordLeft, true, true
	case "ctrl+right", "alt+right", "alt+f":
		return diagram.MoveWordRight, false, true
	case "ctrl+shift+right":
		return diagram.MoveWordRight, true, true
	case "home":
		return diagram.MoveLineStart, false, true
	case "shift+home":
		return diagram.MoveLineStart, true, true
	case "end", "ctrl+e":
		return diagram.MoveLineEnd, false, true
	case "shift+end":
		return diagram.MoveLineEnd, true, true
	case "ctrl+home":
		return diagram.MoveTextStart, false, true
	case "ctrl+shift+home":
		return diagram.MoveTextStart, true, true
	case "ctrl+end":
		return diagram.MoveTextEnd, false, true
	case "ctrl+shift+end":
		return diagram.MoveTextEnd, true, true
	}
	return 0, false, false
}
