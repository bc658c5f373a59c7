package main

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"nodepad/internal/diagram"
)

type Buffer struct {
	canvas   *diagram.Canvas
	filename string
	panX     int
	panY     int
}

type model struct {
	width              int
	height             int
	cursorX            int
	cursorY            int
	zPanMode           bool
	buffers            []Buffer
	currentBufferIndex int
	mode               Mode
	help               bool
	helpScroll         int
	mouseDown          bool
	connectFrom        uuid.UUID
	filename           string
	fileList           []string
	selectedFileIndex  int
	fileOp             FileOperation
	openInNewBuffer    bool
	createNewBuffer    bool
	confirmAction      ConfirmAction
	errorMessage       string
	successMessage     string
	fromStartup        bool
	config             *Config
	metrics            diagram.Metrics
	log                *zap.Logger
}

// clipboardMsg carries system clipboard text back to the box that asked for
// it. The box may be gone by the time it arrives.
type clipboardMsg struct {
	id   uuid.UUID
	text string
	err  error
}

// copiedMsg reports the result of writing to the system clipboard.
type copiedMsg struct {
	what string
	err  error
}

type point struct {
	X, Y int
}
