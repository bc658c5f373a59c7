package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"nodepad/internal/diagram"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "layout" {
		if err := runLayout(loadConfig(), os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, "nodepad:", err)
			os.Exit(1)
		}
		return
	}

	config := loadConfig()
	logger, err := newLogger(config)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	for _, w := range config.Warnings() {
		logger.Warn("config", zap.String("problem", w))
	}

	p := tea.NewProgram(
		initialModel(config, logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

const welcomeText = "Welcome to nodepad!\n\n'n' New diagram\n'o' Open existing diagram\n'q' Quit"

func initialModel(config *Config, logger *zap.Logger) model {
	metrics, _ := config.Metrics("cell")
	m := model{
		config:            config,
		metrics:           metrics,
		log:               logger,
		mode:              ModeNormal,
		selectedFileIndex: -1,
	}

	canvas := m.newCanvas()
	if config.StartMenu {
		canvas = m.startupCanvas()
		m.mode = ModeStartup
	}
	m.buffers = []Buffer{{canvas: canvas}}
	return m
}

func (m *model) startupCanvas() *diagram.Canvas {
	canvas := m.newCanvas()
	canvas.PlaceBox(1, 1, welcomeText)
	canvas.MarkSaved()
	return canvas
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorInBounds()
		return m, nil

	case clipboardMsg:
		return m.handleClipboard(msg)

	case copiedMsg:
		if msg.err != nil {
			m.errorMessage = fmt.Sprintf("Clipboard unavailable: %v", msg.err)
			m.log.Debug("clipboard write failed", zap.Error(msg.err))
		} else {
			m.successMessage = "Copied " + msg.what
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.help && m.mode != ModeStartup {
			return m.handleHelpKey(msg.String())
		}

		switch m.mode {
		case ModeStartup:
			return m.handleStartupKey(msg.String())
		case ModeEditing:
			return m.handleEditKey(msg)
		case ModeMove:
			return m.handleMoveKey(msg.String())
		case ModeFileInput:
			return m.handleFileKey(msg)
		case ModeConfirm:
			return m.handleConfirmKey(msg.String())
		default:
			return m.handleNormalKey(msg.String())
		}
	}
	return m, nil
}

func (m model) handleHelpKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc", "q", "?":
		m.help = false
		m.helpScroll = 0
	case "j", "down":
		maxScroll := len(helpLines) - (m.height - statusLines)
		if m.helpScroll < maxScroll {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	default:
		m.help = false
		m.helpScroll = 0
	}
	return m, nil
}

func (m model) handleStartupKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n":
		m.buffers[0] = Buffer{canvas: m.newCanvas()}
		m.currentBufferIndex = 0
		m.mode = ModeNormal
		m.cursorX, m.cursorY = 0, 0
		m.errorMessage = ""
	case "o":
		m.startFileInput(FileOpOpen)
		m.fromStartup = true
		m.openInNewBuffer = false
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m model) handleNormalKey(key string) (tea.Model, tea.Cmd) {
	canvas := m.getCanvas()
	m.successMessage = ""
	m.errorMessage = ""

	if isDirection(key) {
		return m.handleNavigation(key, m.getMoveSpeed(key))
	}

	switch key {
	case "q", "ctrl+c":
		if m.config.Confirmations && m.anyDirty() {
			m.confirm(ConfirmQuit)
			return m, nil
		}
		return m, tea.Quit
	case "?":
		m.help = true
	case "z":
		m.zPanMode = !m.zPanMode
	case "esc":
		canvas.CancelGesture()
		canvas.EndEdit()
		canvas.ClearSelection()
		m.connectFrom = uuid.Nil
		m.zPanMode = false

	case "b":
		wx, wy := m.worldCoords()
		b := canvas.PlaceBox(float64(wx), float64(wy), "")
		if err := canvas.BeginEdit(b.ID); err == nil {
			m.mode = ModeEditing
		}
	case "e":
		if b := m.boxAtCursor(); b != nil {
			if err := canvas.BeginEdit(b.ID); err == nil {
				m.mode = ModeEditing
			}
		} else {
			m.errorMessage = "No box under cursor"
		}
	case "enter", " ", "space":
		in := m.cursorInput()
		canvas.PointerDown(in)
		canvas.PointerUp(in)
		m.syncMode()
	case "a":
		m.connectAtCursor()
	case "r":
		if !canvas.ReverseSelectedConnections() {
			if conn, ok := canvas.ConnectionAt(m.cursorInput().Pointer); ok {
				canvas.ReverseConnection(conn)
			} else {
				m.errorMessage = "No connection selected"
			}
		}
	case "d", "delete", "backspace":
		if !m.selectAtCursorIfEmpty() {
			m.errorMessage = "Nothing to delete"
			return m, nil
		}
		if m.config.Confirmations {
			m.confirm(ConfirmDeleteSelection)
			return m, nil
		}
		canvas.DeleteSelection()
	case "c":
		m.selectAtCursorIfEmpty()
		n := canvas.CopySelection()
		if n == 0 {
			m.errorMessage = "No box to copy"
			return m, nil
		}
		return m, writeClipboard(canvas.CopiedText(), plural(n, "box", "boxes"))
	case "p":
		boxes, err := canvas.PasteBoxes()
		if errors.Is(err, diagram.ErrClipboardEmpty) {
			m.errorMessage = "Nothing copied yet"
			return m, nil
		}
		m.successMessage = "Pasted " + plural(len(boxes), "box", "boxes")
	case "C":
		m.selectAtCursorIfEmpty()
		if !canvas.CycleColor() {
			m.errorMessage = "No box selected"
		}
	case "A":
		canvas.SelectAllBoxes()
	case "m":
		m.selectAtCursorIfEmpty()
		if len(canvas.SelectedBoxes()) == 0 {
			m.errorMessage = "No box to move"
			return m, nil
		}
		m.mode = ModeMove
	case "u", "ctrl+z":
		m.undo()
	case "U", "ctrl+y":
		m.redo()

	case "s":
		m.startFileInput(FileOpSave)
	case "T":
		m.startFileInput(FileOpSaveVisualTXT)
	case "o", "O":
		m.startFileInput(FileOpOpen)
		m.openInNewBuffer = key == "O"
	case "n", "N":
		m.createNewBuffer = key == "N"
		if m.config.Confirmations && !m.createNewBuffer && canvas.Dirty() {
			m.confirm(ConfirmNewChart)
			return m, nil
		}
		m.newChart()
	case "x":
		if m.config.Confirmations && canvas.Dirty() {
			m.confirm(ConfirmCloseBuffer)
			return m, nil
		}
		m.closeBuffer()
	case "{":
		if len(m.buffers) > 1 {
			m.currentBufferIndex = (m.currentBufferIndex - 1 + len(m.buffers)) % len(m.buffers)
		}
	case "}":
		if len(m.buffers) > 1 {
			m.currentBufferIndex = (m.currentBufferIndex + 1) % len(m.buffers)
		}
	}
	return m, nil
}

func (m model) handleMoveKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "enter", "esc", "m":
		m.mode = ModeNormal
		return m, nil
	}
	return m.handleMove(key, m.getMoveSpeed(key)), nil
}

func (m *model) confirm(action ConfirmAction) {
	m.confirmAction = action
	m.mode = ModeConfirm
}

func (m model) handleConfirmKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		switch m.confirmAction {
		case ConfirmQuit:
			return m, tea.Quit
		case ConfirmDeleteSelection:
			m.getCanvas().DeleteSelection()
		case ConfirmNewChart:
			m.newChart()
		case ConfirmCloseBuffer:
			m.closeBuffer()
			if m.mode == ModeStartup {
				return m, nil
			}
		case ConfirmOverwriteFile:
			if err := m.saveCurrent(m.filename); err != nil {
				m.errorMessage = fmt.Sprintf("Error saving file: %s", err.Error())
				m.mode = ModeFileInput
				return m, nil
			}
		}
		m.mode = ModeNormal
		m.filename = ""
	case "n", "N", "esc":
		if m.confirmAction == ConfirmOverwriteFile {
			m.mode = ModeFileInput
			m.fileOp = FileOpSave
		} else {
			m.mode = ModeNormal
		}
	}
	return m, nil
}

func (m *model) startFileInput(op FileOperation) {
	m.mode = ModeFileInput
	m.fileOp = op
	m.errorMessage = ""
	m.filename = ""
	if buf := m.getCurrentBuffer(); buf != nil && op != FileOpOpen {
		m.filename = buf.filename
	}
	if op == FileOpOpen {
		m.scanChartFiles()
	}
}

func (m model) handleFileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEscape:
		if m.fromStartup {
			m.mode = ModeStartup
			m.fromStartup = false
		} else {
			m.mode = ModeNormal
		}
		m.filename = ""
		m.errorMessage = ""
	case msg.String() == "up" || msg.String() == "down":
		if m.fileOp == FileOpOpen && len(m.fileList) > 0 && m.browsingFiles() {
			step := 1
			if msg.String() == "up" {
				step = -1
			}
			m.selectedFileIndex = (m.selectedFileIndex + step + len(m.fileList)) % len(m.fileList)
			name := m.fileList[m.selectedFileIndex]
			m.filename = name[:len(name)-len(chartExt)]
		}
	case msg.Type == tea.KeyEnter:
		return m.finishFileInput()
	case msg.Type == tea.KeyBackspace:
		if r := []rune(m.filename); len(r) > 0 {
			m.filename = string(r[:len(r)-1])
		}
	case msg.Type == tea.KeyRunes:
		m.filename += string(msg.Runes)
	}
	return m, nil
}

// browsingFiles reports whether the filename still names the highlighted
// entry, so arrow keys walk the list instead of editing.
func (m *model) browsingFiles() bool {
	if m.filename == "" || m.selectedFileIndex < 0 || m.selectedFileIndex >= len(m.fileList) {
		return true
	}
	name := m.fileList[m.selectedFileIndex]
	return m.filename == name[:len(name)-len(chartExt)]
}

func (m model) finishFileInput() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(m.filename)
	if name == "" {
		m.errorMessage = "Filename cannot be empty"
		return m, nil
	}
	m.filename = name

	switch m.fileOp {
	case FileOpSave:
		path := m.config.GetSavePath(withExt(name, chartExt))
		buf := m.getCurrentBuffer()
		if _, err := os.Stat(path); err == nil && buf.filename != name && m.config.Confirmations {
			m.confirm(ConfirmOverwriteFile)
			return m, nil
		}
		if err := m.saveCurrent(name); err != nil {
			m.errorMessage = fmt.Sprintf("Error saving file: %s", err.Error())
			return m, nil
		}
	case FileOpSaveVisualTXT:
		path := m.config.GetSavePath(withExt(name, exportExt))
		if err := m.exportVisualTXT(path); err != nil {
			m.errorMessage = fmt.Sprintf("Error exporting: %s", err.Error())
			return m, nil
		}
		absPath, _ := filepath.Abs(path)
		m.successMessage = fmt.Sprintf("Exported to %s", absPath)
	case FileOpOpen:
		if err := m.openFile(name); err != nil {
			if errors.Is(err, diagram.ErrInvalidDocument) {
				m.errorMessage = fmt.Sprintf("%s is not a nodepad diagram", withExt(name, chartExt))
			} else {
				m.errorMessage = fmt.Sprintf("Error opening file: %s", err.Error())
			}
			return m, nil
		}
		m.cursorX, m.cursorY = 0, 0
	}
	m.mode = ModeNormal
	m.fromStartup = false
	m.filename = ""
	return m, nil
}

func (m *model) newChart() {
	if m.createNewBuffer {
		m.addNewBuffer(m.newCanvas(), "")
	} else if buf := m.getCurrentBuffer(); buf != nil {
		*buf = Buffer{canvas: m.newCanvas()}
	}
	m.cursorX, m.cursorY = 0, 0
	m.connectFrom = uuid.Nil
	m.createNewBuffer = false
}

func (m *model) closeBuffer() {
	if len(m.buffers) > 1 {
		newIndex := m.currentBufferIndex - 1
		if newIndex < 0 {
			newIndex = 0
		}
		m.buffers = append(m.buffers[:m.currentBufferIndex], m.buffers[m.currentBufferIndex+1:]...)
		m.currentBufferIndex = newIndex
	} else {
		m.buffers = []Buffer{{canvas: m.startupCanvas()}}
		m.currentBufferIndex = 0
		m.mode = ModeStartup
	}
	m.cursorX, m.cursorY = 0, 0
	m.connectFrom = uuid.Nil
	m.errorMessage = ""
	m.successMessage = ""
}

func (m *model) anyDirty() bool {
	for _, buf := range m.buffers {
		if buf.canvas.Dirty() {
			return true
		}
	}
	return false
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}
