package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"nodepad/internal/diagram"
	"nodepad/internal/geom"
)

type cellKind uint8

const (
	cellPlain cellKind = iota
	cellAccent
	cellPreview
	cellSelectedText
	cellCaret
	cellCursor
)

// cell is one terminal cell. ch is 0 on the right half of a wide rune.
type cell struct {
	ch     rune
	kind   cellKind
	fill   diagram.Color
	filled bool
}

type styleKey struct {
	kind   cellKind
	fill   diagram.Color
	filled bool
}

// grid is a window onto document space. Cell (0, 0) shows the document cell
// at (originX, originY).
type grid struct {
	originX, originY int
	cells            [][]cell
	styles           map[styleKey]lipgloss.Style
}

// cellRect is the block of cells a box covers.
type cellRect struct {
	left, top, width, height int
}

func boxCells(b *diagram.Box) cellRect {
	r := b.Bounds()
	return cellRect{
		left:   int(math.Floor(r.Min.X)),
		top:    int(math.Floor(r.Min.Y)),
		width:  int(math.Round(b.Width)),
		height: int(math.Round(b.Height)),
	}
}

func (r cellRect) contains(x, y int) bool {
	return x >= r.left && x < r.left+r.width && y >= r.top && y < r.top+r.height
}

func toCell(p geom.Point) point {
	return point{X: int(math.Floor(p.X)), Y: int(math.Floor(p.Y))}
}

func newGrid(width, height, originX, originY int) *grid {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	g := &grid{
		originX: originX,
		originY: originY,
		cells:   make([][]cell, height),
		styles:  make(map[styleKey]lipgloss.Style),
	}
	for y := range g.cells {
		row := make([]cell, width)
		for x := range row {
			row[x].ch = ' '
		}
		g.cells[y] = row
	}
	return g
}

// at returns the cell showing document cell (x, y), or nil when it is off
// screen.
func (g *grid) at(x, y int) *cell {
	x -= g.originX
	y -= g.originY
	if y < 0 || y >= len(g.cells) || x < 0 || x >= len(g.cells[y]) {
		return nil
	}
	return &g.cells[y][x]
}

func (g *grid) set(x, y int, ch rune, kind cellKind) {
	if c := g.at(x, y); c != nil {
		c.ch = ch
		c.kind = kind
	}
}

// renderOptions picks what the renderer draws besides the diagram itself.
type renderOptions struct {
	selection bool // selected borders, text selection, caret and previews
}

// renderCanvas draws connections first so boxes cover the parts of lines
// that run under them.
func renderCanvas(c *diagram.Canvas, g *grid, opts renderOptions) {
	pv, previewing := c.Preview()
	if !opts.selection {
		previewing = false
	}

	for _, conn := range c.Connections() {
		if previewing && pv.Kind == diagram.GestureReattach && conn == pv.Conn {
			continue
		}
		seg, ok := c.Endpoints(conn)
		if !ok {
			continue
		}
		kind := cellPlain
		if opts.selection && c.IsConnectionSelected(conn) {
			kind = cellAccent
		}
		drawLink(g, c, seg.From, seg.To, kind)
	}
	if previewing {
		drawLink(g, c, pv.From, pv.To, cellPreview)
	}

	for _, b := range c.Boxes() {
		border := cellPlain
		switch {
		case !opts.selection:
		case c.IsSelected(b.ID) || b.Editing():
			border = cellAccent
		case previewing && b.ID == pv.Target:
			border = cellPreview
		}
		drawBox(g, b, border, opts.selection)
	}
}

func drawBox(g *grid, b *diagram.Box, border cellKind, showEditing bool) {
	r := boxCells(b)
	if r.width < 2 || r.height < 2 {
		return
	}
	corner, horizontal, vertical := '+', '-', '|'
	if border == cellAccent {
		corner, horizontal, vertical = '#', '#', '#'
	}

	filled := b.Color != diagram.White
	for y := r.top; y < r.top+r.height; y++ {
		for x := r.left; x < r.left+r.width; x++ {
			c := g.at(x, y)
			if c == nil {
				continue
			}
			c.fill, c.filled = b.Color, filled
			onTop := y == r.top || y == r.top+r.height-1
			onSide := x == r.left || x == r.left+r.width-1
			switch {
			case onTop && onSide:
				c.ch, c.kind = corner, border
			case onTop:
				c.ch, c.kind = horizontal, border
			case onSide:
				c.ch, c.kind = vertical, border
			default:
				c.ch, c.kind = ' ', cellPlain
			}
		}
	}

	layout := b.Layout()
	frame := b.TextFrame()
	lo, hi, hasSel := b.Selection()
	if lo > hi {
		lo, hi = hi, lo
	}
	editing := showEditing && b.Editing()

	for i, line := range layout.Lines {
		y := int(math.Floor(frame.Top + float64(i)*frame.LineHeight))
		if y >= r.top+r.height-1 {
			break
		}
		x := int(math.Floor(frame.Left))
		for j, ch := range []rune(line) {
			w := runewidth.RuneWidth(ch)
			if w == 0 {
				continue
			}
			if x+w > r.left+r.width-1 {
				break
			}
			kind := cellPlain
			if off := layout.Starts[i] + j; editing && hasSel && off >= lo && off < hi {
				kind = cellSelectedText
			}
			g.set(x, y, ch, kind)
			if w == 2 {
				g.set(x+1, y, 0, kind)
			}
			x += w
		}
	}

	if editing {
		p := toCell(layout.CaretPoint(b.Cursor(), frame))
		if c := g.at(p.X, p.Y); c != nil && r.contains(p.X, p.Y) {
			if c.ch == 0 {
				c.ch = ' '
			}
			c.kind = cellCaret
		}
	}
}

// drawLink rasterises the straight segment from a to b, the same line the
// canvas hit tests against, and puts an arrowhead on the last cell that is
// not covered by a box.
func drawLink(g *grid, c *diagram.Canvas, a, b geom.Point, kind cellKind) {
	if !a.IsFinite() || !b.IsFinite() {
		return
	}
	from, to := toCell(a), toCell(b)
	dx, dy := to.X-from.X, to.Y-from.Y
	body := lineRune(dx, dy)

	cells := bresenham(from, to)
	var rects []cellRect
	for _, box := range c.Boxes() {
		rects = append(rects, boxCells(box))
	}
	covered := func(p point) bool {
		for _, r := range rects {
			if r.contains(p.X, p.Y) {
				return true
			}
		}
		return false
	}
	last := len(cells) - 1
	for last >= 0 && covered(cells[last]) {
		last--
	}

	for i := 0; i <= last; i++ {
		p := cells[i]
		ch := body
		if i == last {
			ch = arrowRune(dx, dy)
		} else if cur := g.at(p.X, p.Y); cur != nil && crosses(cur.ch, ch) {
			ch = '+'
		}
		g.set(p.X, p.Y, ch, kind)
	}
}

func bresenham(a, b point) []point {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	out := make([]point, 0, max(dx, -dy)+1)
	for p := a; ; {
		out = append(out, p)
		if p == b {
			return out
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			p.X += sx
		}
		if e2 <= dx {
			err += dx
			p.Y += sy
		}
	}
}

func lineRune(dx, dy int) rune {
	ax, ay := abs(dx), abs(dy)
	switch {
	case ay*2 <= ax:
		return '-'
	case ax*2 <= ay:
		return '|'
	case (dx > 0) == (dy > 0):
		return '\\'
	default:
		return '/'
	}
}

func arrowRune(dx, dy int) rune {
	if abs(dx) >= abs(dy) {
		if dx < 0 {
			return '<'
		}
		return '>'
	}
	if dy < 0 {
		return '^'
	}
	return 'v'
}

func crosses(existing, next rune) bool {
	return existing == '-' && next == '|' || existing == '|' && next == '-'
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func (g *grid) style(k styleKey) lipgloss.Style {
	if s, ok := g.styles[k]; ok {
		return s
	}
	s := lipgloss.NewStyle()
	if k.filled {
		s = s.Background(lipgloss.Color(k.fill.Hex()))
		if k.fill.Dark() {
			s = s.Foreground(lipgloss.Color("#FFFFFF"))
		} else {
			s = s.Foreground(lipgloss.Color("#000000"))
		}
	}
	switch k.kind {
	case cellAccent:
		s = s.Bold(true).Foreground(lipgloss.Color("#D7AF00"))
	case cellPreview:
		s = s.Foreground(lipgloss.Color("#5FAFFF"))
	case cellSelectedText, cellCaret:
		s = s.Reverse(true)
	}
	g.styles[k] = s
	return s
}

// lines returns the rows of the grid. Styled rows group runs of equal style
// into one lipgloss span; plain rows drop trailing blanks.
func (g *grid) lines(styled bool) []string {
	out := make([]string, len(g.cells))
	for y, row := range g.cells {
		var sb strings.Builder
		var run strings.Builder
		var runKey styleKey
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runKey == (styleKey{}) {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(g.style(runKey).Render(run.String()))
			}
			run.Reset()
		}
		for _, c := range row {
			if c.ch == 0 {
				continue
			}
			if !styled {
				sb.WriteRune(c.ch)
				continue
			}
			k := styleKey{kind: c.kind, fill: c.fill, filled: c.filled}
			if !c.filled {
				k.fill = diagram.Color{}
			}
			if k != runKey {
				flush()
				runKey = k
			}
			run.WriteRune(c.ch)
		}
		flush()
		if styled {
			out[y] = sb.String()
		} else {
			out[y] = strings.TrimRight(sb.String(), " ")
		}
	}
	return out
}
