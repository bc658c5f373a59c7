package textlayout

// IsSpace reports whether r separates words for deletion and selection.
func IsSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// WordLeft returns the offset reached from offset by skipping whitespace and
// then one run of non-whitespace to the left.
func WordLeft(text []rune, offset int) int {
	i := clampInt(offset, 0, len(text))
	for i > 0 && IsSpace(text[i-1]) {
		i--
	}
	for i > 0 && !IsSpace(text[i-1]) {
		i--
	}
	return i
}

// WordRight mirrors WordLeft to the right.
func WordRight(text []rune, offset int) int {
	i := clampInt(offset, 0, len(text))
	for i < len(text) && IsSpace(text[i]) {
		i++
	}
	for i < len(text) && !IsSpace(text[i]) {
		i++
	}
	return i
}

// LineStart returns the offset just after the newline preceding offset.
func LineStart(text []rune, offset int) int {
	i := clampInt(offset, 0, len(text))
	for i > 0 && text[i-1] != '\n' {
		i--
	}
	return i
}

// LineEnd returns the offset of the newline following offset, or the end of
// text.
func LineEnd(text []rune, offset int) int {
	i := clampInt(offset, 0, len(text))
	for i < len(text) && text[i] != '\n' {
		i++
	}
	return i
}

// WordAt returns the run of same-class runes (whitespace or not) around
// offset. At the end of text the last rune decides the class.
func WordAt(text []rune, offset int) (start, end int) {
	if len(text) == 0 {
		return 0, 0
	}
	i := clampInt(offset, 0, len(text)-1)
	space := IsSpace(text[i])
	start, end = i, i+1
	for start > 0 && IsSpace(text[start-1]) == space {
		start--
	}
	for end < len(text) && IsSpace(text[end]) == space {
		end++
	}
	return start, end
}
