// Package textlayout turns box text into wrapped visual lines and maps
// between logical rune offsets and visual (line, column) positions.
package textlayout

import (
	"strings"
	"unicode/utf8"
)

// MinWrapWidth is the smallest width budget Wrap accepts. Any budget below it
// (including NaN) is raised to it.
const MinWrapWidth = 1.0

// Layout is the result of wrapping one text. Starts[i] is the rune offset in
// the source text of the first rune of Lines[i].
type Layout struct {
	Lines   []string
	Starts  []int
	TextLen int
}

func (l Layout) LineCount() int {
	return len(l.Lines)
}

// LineLen is the rune length of visual line i, or 0 when i is out of range.
func (l Layout) LineLen(i int) int {
	if i < 0 || i >= len(l.Lines) {
		return 0
	}
	return utf8.RuneCountInString(l.Lines[i])
}

// Wrap splits text into visual lines that fit maxWidth as measured by width.
// Explicit newlines always break. Within a logical line words are joined
// greedily on single spaces; the space at a break is dropped and trailing
// spaces are not measured. A word wider than the budget is broken between
// runes.
func Wrap(text string, maxWidth float64, width WidthFunc) Layout {
	text = ValidText(text)
	if !(maxWidth >= MinWrapWidth) {
		maxWidth = MinWrapWidth
	}
	if width == nil {
		width = Bind(nil, 0)
	}

	w := wrapper{max: maxWidth, width: width}
	base := 0
	for _, logical := range strings.Split(text, "\n") {
		w.wrapLogical(logical, base)
		base += utf8.RuneCountInString(logical) + 1
	}
	w.out.TextLen = utf8.RuneCountInString(text)
	return w.out
}

// ValidText replaces every invalid byte of text with U+FFFD. Ranging over a
// string already counts each invalid byte as one rune, so rune offsets into
// the result match offsets into text.
func ValidText(text string) string {
	if utf8.ValidString(text) {
		return text
	}
	return string([]rune(text))
}

// IsWrapSpace reports whether r separates words for wrapping. Tabs and
// carriage returns stay inside words.
func IsWrapSpace(r rune) bool {
	return r == ' ' || r == '\n'
}

type wrapper struct {
	max   float64
	width WidthFunc
	out   Layout

	// per logical line
	logical    string
	base       int
	searchFrom int
}

func (w *wrapper) fits(s string) bool {
	return w.width(strings.TrimRight(s, " ")) <= w.max
}

func (w *wrapper) wrapLogical(logical string, base int) {
	w.logical, w.base, w.searchFrom = logical, base, 0

	if w.fits(logical) {
		w.emit(logical)
		return
	}

	var cur string
	has := false
	for _, word := range strings.Split(logical, " ") {
		trial := word
		if has {
			trial = cur + " " + word
		}
		if w.fits(trial) {
			cur, has = trial, true
			continue
		}
		if has {
			if strings.TrimLeft(cur, " ") == "" {
				// Leading spaces start the word instead of a line of their own.
				word = trial
			} else {
				w.emit(cur)
			}
		}
		if w.fits(word) {
			cur, has = word, true
			continue
		}
		cur, has = w.breakWord(word), true
	}
	if has {
		w.emit(cur)
	}
}

// breakWord emits all but the last rune chunk of word and returns the last
// one so following words can join it.
func (w *wrapper) breakWord(word string) string {
	chunk := ""
	for _, r := range word {
		trial := chunk + string(r)
		if chunk != "" && !w.fits(trial) {
			w.emit(chunk)
			chunk = string(r)
			continue
		}
		chunk = trial
	}
	return chunk
}

// emit appends line, locating it by searching forward from the end of the
// previous match so repeated substrings keep their own offsets.
func (w *wrapper) emit(line string) {
	idx := strings.Index(w.logical[w.searchFrom:], line)
	if idx < 0 {
		idx = 0
	}
	byteStart := w.searchFrom + idx
	w.searchFrom = byteStart + len(line)

	w.out.Lines = append(w.out.Lines, line)
	w.out.Starts = append(w.out.Starts, w.base+utf8.RuneCountInString(w.logical[:byteStart]))
}

// Cache holds the last layout computed for a (text, width) pair.
type Cache struct {
	text     string
	maxWidth float64
	layout   Layout
	valid    bool
}

// Layout returns the cached layout or recomputes it when text or maxWidth
// changed since the last call.
func (c *Cache) Layout(text string, maxWidth float64, width WidthFunc) Layout {
	if c.valid && c.text == text && c.maxWidth == maxWidth {
		return c.layout
	}
	c.layout = Wrap(text, maxWidth, width)
	c.text, c.maxWidth, c.valid = text, maxWidth, true
	return c.layout
}

func (c *Cache) Invalidate() {
	c.valid = false
}
