package main

import tea "github.com/charmbracelet/bubbletea"

func (m *model) handleNavigation(key string, speed int) (tea.Model, tea.Cmd) {
	if m.zPanMode {
		return m.handlePan(key, speed), nil
	}
	return m.handleCursorMove(key, speed), nil
}

func (m *model) handlePan(key string, speed int) tea.Model {
	buf := m.getCurrentBuffer()
	if buf == nil {
		return m
	}
	dx, dy := direction(key)
	buf.panX -= dx * speed
	buf.panY -= dy * speed
	return m
}

func (m *model) handleCursorMove(key string, speed int) tea.Model {
	dx, dy := direction(key)
	m.cursorX += dx * speed
	m.cursorY += dy * speed
	m.ensureCursorInBounds()
	return m
}

// handleMove shifts the selected boxes. Every step is its own undo entry.
func (m *model) handleMove(key string, speed int) tea.Model {
	dx, dy := direction(key)
	if dx == 0 && dy == 0 {
		return m
	}
	if !m.getCanvas().MoveSelection(float64(dx*speed), float64(dy*speed)) {
		m.errorMessage = "Nothing selected to move"
		m.mode = ModeNormal
		return m
	}
	m.cursorX += dx * speed
	m.cursorY += dy * speed
	m.ensureCursorInBounds()
	return m
}

func direction(key string) (dx, dy int) {
	switch key {
	case "h", "left", "H", "shift+left":
		return -1, 0
	case "l", "right", "L", "shift+right":
		return 1, 0
	case "k", "up", "K", "shift+up":
		return 0, -1
	case "j", "down", "J", "shift+down":
		return 0, 1
	}
	return 0, 0
}

func isDirection(key string) bool {
	dx, dy := direction(key)
	return dx != 0 || dy != 0
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}

func (m *model) ensureCursorInBounds() {
	if m.cursorX < 0 {
		m.cursorX = 0
	}
	if m.cursorY < 0 {
		m.cursorY = 0
	}
	if m.width > 0 && m.cursorX >= m.width {
		m.cursorX = m.width - 1
	}
	maxY := m.canvasHeight() - 1
	if maxY < 0 {
		maxY = 0
	}
	if m.cursorY > maxY {
		m.cursorY = maxY
	}
}

// canvasHeight is the number of rows left for the diagram.
func (m *model) canvasHeight() int {
	h := m.height - statusLines
	if m.showBufferBar() {
		h--
	}
	return h
}

func (m *model) canvasTop() int {
	if m.showBufferBar() {
		return 1
	}
	return 0
}

func (m *model) showBufferBar() bool {
	return m.mode != ModeStartup && len(m.buffers) > 1
}
