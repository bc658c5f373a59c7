package main

import (
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"nodepad/internal/diagram"
)

func (m *model) getCurrentBuffer() *Buffer {
	if len(m.buffers) == 0 {
		return nil
	}
	return &m.buffers[m.currentBufferIndex]
}

func (m *model) getCanvas() *diagram.Canvas {
	if buf := m.getCurrentBuffer(); buf != nil {
		return buf.canvas
	}
	return nil
}

func (m *model) getPanOffset() (int, int) {
	if buf := m.getCurrentBuffer(); buf != nil {
		return buf.panX, buf.panY
	}
	return 0, 0
}

func (m *model) worldCoords() (int, int) {
	return m.getWorldCoordsAt(m.cursorX, m.cursorY)
}

func (m *model) getWorldCoordsAt(cursorX, cursorY int) (int, int) {
	panX, panY := m.getPanOffset()
	return cursorX + panX, cursorY + panY
}

func (m *model) addNewBuffer(canvas *diagram.Canvas, filename string) {
	m.buffers = append(m.buffers, Buffer{canvas: canvas, filename: filename})
	m.currentBufferIndex = len(m.buffers) - 1
}

func (m *model) newCanvas() *diagram.Canvas {
	return diagram.New(m.metrics,
		diagram.WithLogger(m.log),
		diagram.WithHistoryLimit(m.config.UndoLimit),
	)
}

// readClipboard fetches clipboard text off the update loop. The result is
// addressed to the box that was being edited when the paste was requested.
func readClipboard(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		text, err := readClipboardText()
		return clipboardMsg{id: id, text: cleanClipboardText(text), err: err}
	}
}

func writeClipboard(text, what string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{what: what, err: clipboard.WriteAll(text)}
	}
}

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf")
}

func isHTML(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	return strings.HasPrefix(t, "<") &&
		(strings.Contains(t, "<html") || strings.Contains(t, "<body") || strings.Contains(t, "<div") || strings.Contains(t, "<p"))
}

// cleanClipboardText turns rich clipboard content into plain text for a box:
// RTF and HTML are reduced to their text and line endings become '\n'. Tabs
// expand to four spaces and other control characters are dropped. The result
// is NFC so composed characters count as one rune.
func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	switch {
	case isRTF(text):
		text = extractTextFromRTF(text)
	case isHTML(text):
		text = extractTextFromHTML(text)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\t':
			result.WriteString("    ")
		case r == '\n' || r >= 32 && r != 127:
			result.WriteRune(r)
		}
	}
	return norm.NFC.String(result.String())
}

// extractTextFromRTF keeps plain text and \par/\line breaks. Groups that
// start with a destination control word, like font tables, are skipped.
func extractTextFromRTF(rtf string) string {
	var result strings.Builder
	src := []byte(rtf)
	depth := 0
	skipDepth := -1
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch c {
		case '{':
			depth++
			if i+2 < len(src) && src[i+1] == '\\' && src[i+2] == '*' && skipDepth < 0 {
				skipDepth = depth
			}
			continue
		case '}':
			if depth == skipDepth {
				skipDepth = -1
			}
			depth--
			continue
		case '\r', '\n':
			continue
		}
		if c != '\\' {
			if skipDepth < 0 {
				result.WriteByte(c)
			}
			continue
		}
		if i+1 >= len(src) {
			break
		}
		next := src[i+1]
		switch {
		case next == '\\' || next == '{' || next == '}':
			if skipDepth < 0 {
				result.WriteByte(next)
			}
			i++
		case next == '\'' && i+3 < len(src):
			if v, err := strconv.ParseUint(string(src[i+2:i+4]), 16, 8); err == nil && skipDepth < 0 {
				result.WriteRune(rune(v))
			}
			i += 3
		case isASCIILetter(next):
			j := i + 1
			for j < len(src) && isASCIILetter(src[j]) {
				j++
			}
			word := string(src[i+1 : j])
			for j < len(src) && (src[j] == '-' || src[j] >= '0' && src[j] <= '9') {
				j++
			}
			if j < len(src) && src[j] == ' ' {
				j++
			}
			i = j - 1
			switch word {
			case "par", "line":
				if skipDepth < 0 {
					result.WriteByte('\n')
				}
			case "tab":
				if skipDepth < 0 {
					result.WriteByte('\t')
				}
			case "fonttbl", "colortbl", "stylesheet", "info":
				if skipDepth < 0 {
					skipDepth = depth
				}
			}
		default:
			i++
		}
	}
	return strings.TrimRight(result.String(), "\n")
}

func isASCIILetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// extractTextFromHTML drops tags, turns block ends and <br> into newlines and
// decodes the common entities.
func extractTextFromHTML(html string) string {
	var result strings.Builder
	var tag strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
			tag.Reset()
		case r == '>' && inTag:
			inTag = false
			name := ""
			if f := strings.Fields(tag.String()); len(f) > 0 {
				name = strings.ToLower(f[0])
			}
			switch name {
			case "br", "br/", "/p", "/div", "/li", "/h1", "/h2", "/h3", "/tr":
				result.WriteByte('\n')
			}
		case inTag:
			tag.WriteRune(r)
		default:
			result.WriteRune(r)
		}
	}
	text := strings.TrimSpace(result.String())
	return strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", "\"",
		"&#39;", "'",
		"&nbsp;", " ",
		"&amp;", "&",
	).Replace(text)
}
