package main

import (
	"fmt"
	"math"
	"os"
	"strings"

	"nodepad/internal/diagram"
)

// exportVisualTXT writes the whole diagram as plain text, framed to the boxes
// rather than the viewport, without selection or cursor.
func (m *model) exportVisualTXT(filename string) error {
	canvas := m.getCanvas()
	if canvas == nil {
		return fmt.Errorf("no canvas available")
	}
	return os.WriteFile(filename, []byte(visualText(canvas)), 0644)
}

func visualText(c *diagram.Canvas) string {
	if c.Empty() {
		return ""
	}
	minX, minY := math.MaxInt, math.MaxInt
	maxX, maxY := math.MinInt, math.MinInt
	for _, b := range c.Boxes() {
		r := boxCells(b)
		minX = min(minX, r.left)
		minY = min(minY, r.top)
		maxX = max(maxX, r.left+r.width)
		maxY = max(maxY, r.top+r.height)
	}
	g := newGrid(maxX-minX, maxY-minY, minX, minY)
	renderCanvas(c, g, renderOptions{})
	return strings.Join(g.lines(false), "\n") + "\n"
}
