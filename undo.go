package main

import (
	"errors"

	"github.com/google/uuid"

	"nodepad/internal/diagram"
)

func (m *model) undo() {
	canvas := m.getCanvas()
	if canvas == nil {
		return
	}
	if err := canvas.Undo(); err != nil {
		if errors.Is(err, diagram.ErrNothingToUndo) {
			m.successMessage = "Nothing to undo"
		}
		return
	}
	m.afterHistoryStep()
	m.successMessage = "Undone"
}

func (m *model) redo() {
	canvas := m.getCanvas()
	if canvas == nil {
		return
	}
	if err := canvas.Redo(); err != nil {
		if errors.Is(err, diagram.ErrNothingToRedo) {
			m.successMessage = "Nothing to redo"
		}
		return
	}
	m.afterHistoryStep()
	m.successMessage = "Redone"
}

// afterHistoryStep keeps the mode in line with the restored state: editing
// continues only if the edited box came back.
func (m *model) afterHistoryStep() {
	m.errorMessage = ""
	if m.mode == ModeEditing && m.getCanvas().Editing() == nil {
		m.mode = ModeNormal
	}
	if m.connectFrom != uuid.Nil && m.getCanvas().Box(m.connectFrom) == nil {
		m.connectFrom = uuid.Nil
	}
}
