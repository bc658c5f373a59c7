package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"nodepad/internal/diagram"
)

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true)

func (m model) View() string {
	if m.help && m.mode != ModeStartup {
		return m.helpView()
	}

	renderWidth := m.width
	if renderWidth < 1 {
		renderWidth = 1
	}
	renderHeight := m.canvasHeight()
	if renderHeight < 1 {
		renderHeight = 1
	}

	var result strings.Builder
	if m.showBufferBar() {
		result.WriteString(m.renderBufferBar(renderWidth))
		result.WriteString("\n")
	}

	if m.mode == ModeFileInput && m.fileOp == FileOpOpen {
		result.WriteString(m.fileListView(renderWidth, renderHeight))
	} else {
		panX, panY := m.getPanOffset()
		g := newGrid(renderWidth, renderHeight, panX, panY)
		renderCanvas(m.getCanvas(), g, renderOptions{selection: m.mode != ModeStartup})

		if m.showCursor() && m.cursorY < len(g.cells) && m.cursorX < len(g.cells[m.cursorY]) {
			c := &g.cells[m.cursorY][m.cursorX]
			c.ch, c.kind = '█', cellCursor
		}
		result.WriteString(strings.Join(g.lines(true), "\n"))
	}

	if m.mode != ModeStartup {
		result.WriteString("\n")
		result.WriteString(m.statusLine())
	}
	return result.String()
}

func (m model) showCursor() bool {
	return (m.mode == ModeNormal || m.mode == ModeMove) && !m.mouseDown
}

func (m model) fileListView(width, height int) string {
	var result strings.Builder
	result.WriteString("Select a saved diagram:\n")
	result.WriteString(strings.Repeat("─", width))
	result.WriteString("\n")

	if len(m.fileList) == 0 {
		result.WriteString("(No .json files found)\n")
	} else {
		maxFiles := height - 4
		if maxFiles < 1 {
			maxFiles = 1
		}
		startIdx := 0
		if m.selectedFileIndex >= maxFiles {
			startIdx = m.selectedFileIndex - maxFiles + 1
		}
		endIdx := min(startIdx+maxFiles, len(m.fileList))
		for i := startIdx; i < endIdx; i++ {
			name := m.fileList[i]
			name = name[:len(name)-len(chartExt)]
			if i == m.selectedFileIndex {
				result.WriteString("> " + name + " <")
			} else {
				result.WriteString("  " + name)
			}
			result.WriteString("\n")
		}
	}

	result.WriteString(strings.Repeat("─", width))
	result.WriteString("\n")
	result.WriteString("Filename: ")
	result.WriteString(m.filename)
	result.WriteString("█")
	return result.String()
}

func (m model) renderBufferBar(width int) string {
	var bar strings.Builder
	bar.WriteString("Open Diagrams: ")
	for i, buf := range m.buffers {
		if i > 0 {
			bar.WriteString(" | ")
		}
		name := buf.filename
		if name == "" {
			name = fmt.Sprintf("Buffer %d", i+1)
		}
		if buf.canvas.Dirty() {
			name += "*"
		}
		if i == m.currentBufferIndex {
			name = "[" + name + "]"
		}
		bar.WriteString(name)
	}
	s := []rune(bar.String())
	if len(s) > width {
		return string(s[:width])
	}
	return string(s) + strings.Repeat(" ", width-len(s))
}

func (m model) statusLine() string {
	canvas := m.getCanvas()
	switch m.mode {
	case ModeEditing:
		status := "Mode: EDIT"
		if b := canvas.Editing(); b != nil {
			layout := b.Layout()
			pos := layout.OffsetToVisual(b.Cursor())
			status += fmt.Sprintf(" | Line %d/%d, Col %d", pos.Line+1, layout.LineCount(), pos.Col+1)
			if lo, hi, ok := b.Selection(); ok {
				status += fmt.Sprintf(" | %d selected", abs(hi-lo))
			}
		}
		status += " | Esc=done, Ctrl+V=paste, Ctrl+Z=undo"
		return m.withMessages(status)
	case ModeMove:
		return fmt.Sprintf("Mode: MOVE | %s | hjkl/arrows=move, Enter=finish",
			plural(len(canvas.SelectedBoxes()), "box", "boxes"))
	case ModeFileInput:
		var opStr string
		switch m.fileOp {
		case FileOpSave:
			opStr = "Save"
		case FileOpOpen:
			opStr = "Open"
		case FileOpSaveVisualTXT:
			opStr = "Export TXT"
		}
		hint := "Enter=confirm, Esc=cancel"
		if m.fileOp == FileOpOpen {
			hint = "↑/↓=navigate list, Type=enter name, " + hint
		}
		if m.errorMessage != "" {
			return fmt.Sprintf("Mode: FILE | %s | %s filename: %s | %s",
				errorStyle.Render("ERROR: "+m.errorMessage), opStr, m.filename, hint)
		}
		return fmt.Sprintf("Mode: FILE | %s filename: %s | %s", opStr, m.filename, hint)
	case ModeConfirm:
		var message string
		switch m.confirmAction {
		case ConfirmDeleteSelection:
			n := len(canvas.SelectedBoxes()) + len(canvas.SelectedConnections())
			message = fmt.Sprintf("Delete %d selected item(s)? (y/n)", n)
		case ConfirmQuit:
			message = "Quit nodepad? Unsaved changes will be lost. (y/n)"
		case ConfirmNewChart:
			message = "Create new diagram? Unsaved changes will be lost. (y/n)"
		case ConfirmCloseBuffer:
			message = "Close current buffer? Unsaved changes will be lost. (y/n)"
		case ConfirmOverwriteFile:
			message = fmt.Sprintf("File %s already exists. Overwrite? (y/n)", withExt(m.filename, chartExt))
		}
		return fmt.Sprintf("Mode: CONFIRM | %s", message)
	}

	modeStr := m.modeString()
	if m.zPanMode {
		modeStr = "PAN"
	}
	wx, wy := m.worldCoords()
	status := fmt.Sprintf("Mode: %s | Cursor: (%d,%d)", modeStr, wx, wy)
	if m.connectFrom != uuid.Nil {
		status += " | Connecting (press a on the target box)"
	}
	if g := canvas.Gesture(); g != diagram.GestureNone {
		status += " | " + gestureName(g)
	}
	if n := len(canvas.SelectedBoxes()); n > 0 {
		status += " | Selected: " + plural(n, "box", "boxes")
	}
	if n := len(canvas.SelectedConnections()); n > 0 {
		status += " | Selected: " + plural(n, "connection", "connections")
	}
	return m.withMessages(status)
}

func (m model) withMessages(status string) string {
	if m.successMessage != "" {
		status += " | " + m.successMessage
	}
	if m.errorMessage != "" {
		status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
	} else if m.successMessage == "" && m.mode == ModeNormal {
		status += " | ? for help | q to quit"
	}
	return status
}

func gestureName(g diagram.GestureKind) string {
	switch g {
	case diagram.GestureDrag:
		return "Dragging"
	case diagram.GestureResize:
		return "Resizing"
	case diagram.GestureConnect:
		return "Connecting"
	case diagram.GestureReattach:
		return "Reattaching"
	case diagram.GestureSelectText:
		return "Selecting"
	}
	return ""
}

func (m model) modeString() string {
	switch m.mode {
	case ModeStartup:
		return "STARTUP"
	case ModeNormal:
		return "NORMAL"
	case ModeEditing:
		return "EDIT"
	case ModeMove:
		return "MOVE"
	case ModeFileInput:
		return "FILE"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

var helpLines = []string{
	"nodepad Help",
	"============",
	"",
	"Mouse:",
	"------",
	"  Click box            Select it; click again to edit its text",
	"  Ctrl/Alt+click       Add or remove a box from the selection",
	"  Drag box             Move every selected box",
	"  Drag corner (lower right)  Resize; text reflows to the new width",
	"  Drag from border     Draw a connection to another box",
	"  Drag line end        Reattach a selected connection",
	"  Drag in edited text  Select text; double click selects a word",
	"  Right click          Cancel the current drag",
	"  Wheel                Scroll",
	"",
	"Navigation:",
	"-----------",
	"  h/←/j/↓/k/↑/l/→      Move cursor around the screen",
	"  Shift+h/j/k/l        Move cursor 2x faster",
	"  z                    Toggle pan mode (direction keys move the view)",
	"",
	"Box Operations:",
	"---------------",
	"  b                    Create a box at the cursor and edit it",
	"  Enter/Space          Click at the cursor",
	"  e                    Edit text in box under cursor",
	"  m                    Move selected boxes with direction keys",
	"  d                    Delete selection (or what is under the cursor)",
	"  c                    Copy selected boxes",
	"  p                    Paste copied boxes",
	"  C                    Cycle box color",
	"  A                    Select all boxes",
	"",
	"Connection Operations:",
	"---------------------",
	"  a                    Press on a box, then on another, to connect them",
	"  r                    Reverse selected connection(s)",
	"",
	"Editing Text:",
	"-------------",
	"  Arrows, Home, End    Move the caret; Shift extends the selection",
	"  Ctrl/Alt+←/→         Move by word",
	"  Ctrl+Home/End        Start or end of text",
	"  Ctrl+A               Select all text",
	"  Backspace/Delete     Delete character or selection",
	"  Ctrl+W, Alt+D        Delete word left or right",
	"  Ctrl+U, Ctrl+K       Delete to line start or end",
	"  Ctrl+C, Ctrl+V       Copy selection, paste clipboard",
	"  Esc                  Finish editing",
	"",
	"File Operations:",
	"----------------",
	"  s                    Save diagram (.json)",
	"  T                    Export as plain text (.txt)",
	"  o                    Open a diagram in current buffer",
	"  O                    Open a diagram in new buffer",
	"",
	"Buffer Operations:",
	"------------------",
	"  {                    Switch to previous buffer",
	"  }                    Switch to next buffer",
	"  n                    New diagram in current buffer",
	"  N                    New diagram in new buffer",
	"  x                    Close current buffer",
	"",
	"General:",
	"  u, Ctrl+Z            Undo last change",
	"  U, Ctrl+Y            Redo last undone change",
	"  Esc                  Clear selection/cancel current operation",
	"  ?                    Toggle this help screen",
	"  q/Ctrl+C             Quit",
}

func (m model) helpView() string {
	visibleHeight := m.height - statusLines
	if visibleHeight < 1 {
		visibleHeight = 1
	}

	startLine := m.helpScroll
	if startLine > len(helpLines)-visibleHeight {
		startLine = max(len(helpLines)-visibleHeight, 0)
	}
	endLine := min(startLine+visibleHeight, len(helpLines))

	result := strings.Join(helpLines[startLine:endLine], "\n")
	result += "\n" + fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		startLine+1, endLine, len(helpLines))
	return result
}
