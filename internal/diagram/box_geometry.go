package diagram

import (
	"math"

	"nodepad/internal/geom"
)

// Zone is the part of a box under the pointer.
type Zone int

const (
	ZoneNone Zone = iota
	ZoneInterior
	ZoneBorder
	ZoneConnector
	ZoneResize
)

func (z Zone) String() string {
	switch z {
	case ZoneInterior:
		return "interior"
	case ZoneBorder:
		return "border"
	case ZoneConnector:
		return "connector"
	case ZoneResize:
		return "resize"
	}
	return "none"
}

type Side int

const (
	SideTop Side = iota
	SideRight
	SideBottom
	SideLeft
)

// ConnectorPoints returns the edge midpoints, indexed by Side.
func (b *Box) ConnectorPoints() [4]geom.Point {
	r := b.Bounds()
	c := r.Center()
	return [4]geom.Point{
		SideTop:    geom.Pt(c.X, r.Min.Y),
		SideRight:  geom.Pt(r.Max.X, c.Y),
		SideBottom: geom.Pt(c.X, r.Max.Y),
		SideLeft:   geom.Pt(r.Min.X, c.Y),
	}
}

// HandleRect is the resize target around the bottom-right corner. It reaches
// a little outside the box so the corner is easy to grab.
func (b *Box) HandleRect() geom.Rect {
	r := b.Bounds()
	hs := b.metrics.HandleSize
	return geom.Rect{
		Min: geom.Pt(r.Max.X-hs, r.Max.Y-hs),
		Max: geom.Pt(r.Max.X+hs/2, r.Max.Y+hs/2),
	}
}

// interiorRect is the click-to-edit area. The border band shrinks when the
// box is small so at least MinInterior remains on each axis.
func (b *Box) interiorRect() geom.Rect {
	r := b.Bounds()
	bx := bandFor(b.metrics.BorderBand, r.Width(), b.metrics.MinInterior)
	by := bandFor(b.metrics.BorderBand, r.Height(), b.metrics.MinInterior)
	return r.Inset(bx, by)
}

func bandFor(band, extent, minInterior float64) float64 {
	return math.Max(0, math.Min(band, (extent-minInterior)/2))
}

// HitTest classifies p. The resize handle wins over connectors, connectors
// over the border band, and the band over the interior.
func (b *Box) HitTest(p geom.Point) Zone {
	if !p.IsFinite() || !b.Center().IsFinite() {
		return ZoneNone
	}
	if b.HandleRect().Contains(p) {
		return ZoneResize
	}
	for _, c := range b.ConnectorPoints() {
		if c.Dist(p) <= b.metrics.ConnectorRadius {
			return ZoneConnector
		}
	}
	if !b.Bounds().Contains(p) {
		return ZoneNone
	}
	if b.interiorRect().Contains(p) {
		return ZoneInterior
	}
	return ZoneBorder
}

// Contains reports whether p is inside the box or on its resize handle.
func (b *Box) Contains(p geom.Point) bool {
	return b.HitTest(p) != ZoneNone
}

// ResizeTo moves the bottom-right corner to p with the top-left corner fixed.
// The width never drops below the longest word and the height never below
// what the reflowed text needs.
func (b *Box) ResizeTo(p geom.Point) {
	if !p.IsFinite() {
		return
	}
	r := b.Bounds()
	w := math.Max(p.X-r.Min.X, b.minResizeWidth())

	b.userResized = true
	b.userWidth = w
	b.Width = w
	b.cache.Invalidate()

	h := math.Max(p.Y-r.Min.Y, b.requiredHeight())
	b.Height = h
	b.X = r.Min.X + w/2
	b.Y = r.Min.Y + h/2
}

func (b *Box) MoveBy(dx, dy float64) {
	if !geom.Finite(dx, dy) {
		return
	}
	b.X += dx
	b.Y += dy
}

func (b *Box) MoveTo(x, y float64) {
	if !geom.Finite(x, y) {
		return
	}
	b.X, b.Y = x, y
}

// EdgePoint is where the ray from the center toward p leaves the box. It
// returns the center when p is the center or not finite, and the origin
// when the box itself has no finite center.
func (b *Box) EdgePoint(toward geom.Point) geom.Point {
	c := b.Center()
	if !c.IsFinite() {
		return geom.Point{}
	}
	if !toward.IsFinite() {
		return c
	}
	d := toward.Sub(c)
	if d.X == 0 && d.Y == 0 {
		return c
	}
	t := math.Inf(1)
	if d.X != 0 {
		t = math.Min(t, (b.Width/2)/math.Abs(d.X))
	}
	if d.Y != 0 {
		t = math.Min(t, (b.Height/2)/math.Abs(d.Y))
	}
	p := c.Add(geom.Pt(d.X*t, d.Y*t))
	if !p.IsFinite() {
		return c
	}
	return p
}
