package diagram

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"nodepad/internal/geom"
)

// Input is the pointer state for one event, supplied by the frame driver.
type Input struct {
	Pointer  geom.Point // document space
	Additive bool       // selection modifier held
	Time     int64      // milliseconds, for double clicks
}

type GestureKind int

const (
	GestureNone GestureKind = iota
	GestureDrag
	GestureResize
	GestureConnect
	GestureReattach
	GestureSelectText
)

type gesture struct {
	kind   GestureKind
	box    uuid.UUID
	last   geom.Point
	before snapshot
	moved  bool

	conn Connection // reattach
	end  End
}

// Preview describes an in-flight connect or reattach gesture for drawing.
// Conn is the connection being reattached; it should be drawn from From to
// To instead of its committed endpoints.
type Preview struct {
	Kind   GestureKind
	Conn   Connection
	From   geom.Point
	To     geom.Point
	Target uuid.UUID // box under the pointer that would accept the drop
}

func (c *Canvas) Gesture() GestureKind {
	if c.gesture == nil {
		return GestureNone
	}
	return c.gesture.kind
}

// PointerDown starts a gesture. Endpoints of selected connections are
// checked first, then the zones of the topmost box under the pointer, then
// connection bodies. Pressing empty space clears the selection unless the
// modifier is held.
func (c *Canvas) PointerDown(in Input) {
	if c.gesture != nil {
		c.CancelGesture()
	}
	p := in.Pointer
	if !p.IsFinite() {
		return
	}

	if conn, end, ok := c.endpointAt(p); ok {
		c.gesture = &gesture{kind: GestureReattach, conn: conn, end: end, last: p}
		return
	}

	if b := c.BoxAt(p); b != nil {
		c.pressBox(b, in)
		return
	}

	if conn, ok := c.ConnectionAt(p); ok {
		c.SelectConnection(conn, in.Additive)
		return
	}

	c.EndEdit()
	if !in.Additive {
		c.ClearSelection()
	}
}

func (c *Canvas) pressBox(b *Box, in Input) {
	p := in.Pointer
	switch b.HitTest(p) {
	case ZoneResize:
		if !c.IsSelected(b.ID) {
			c.SelectBox(b.ID, false)
		}
		c.gesture = &gesture{kind: GestureResize, box: b.ID, last: p, before: c.capture()}
	case ZoneConnector, ZoneBorder:
		c.gesture = &gesture{kind: GestureConnect, box: b.ID, last: p}
	case ZoneInterior:
		c.pressInterior(b, in)
	}
}

// pressInterior edits the box when it is the only selection, and otherwise
// selects it and starts dragging the selection.
func (c *Canvas) pressInterior(b *Box, in Input) {
	p := in.Pointer
	switch {
	case c.editing == b.ID:
		b.PointerDown(p, in.Time)
		c.gesture = &gesture{kind: GestureSelectText, box: b.ID, last: p}
		return
	case in.Additive:
		c.SelectBox(b.ID, true)
		if !c.IsSelected(b.ID) {
			return
		}
	case c.primaryBox == b.ID && len(c.selectedBoxes) == 1:
		c.editing = b.ID
		b.PointerDown(p, in.Time)
		c.gesture = &gesture{kind: GestureSelectText, box: b.ID, last: p}
		return
	case c.IsSelected(b.ID):
		c.EndEdit()
		c.primaryBox = b.ID
	default:
		c.SelectBox(b.ID, false)
	}
	c.gesture = &gesture{kind: GestureDrag, box: b.ID, last: p, before: c.capture()}
}

// endpointAt finds a selected connection with an end within LinkTolerance of
// p.
func (c *Canvas) endpointAt(p geom.Point) (Connection, End, bool) {
	for _, conn := range c.SelectedConnections() {
		seg, ok := c.Endpoints(conn)
		if !ok {
			continue
		}
		if seg.From.Dist(p) <= c.metrics.LinkTolerance {
			return conn, EndFrom, true
		}
		if seg.To.Dist(p) <= c.metrics.LinkTolerance {
			return conn, EndTo, true
		}
	}
	return Connection{}, 0, false
}

// PointerMove advances the current gesture. Drags and resizes change the
// boxes live; connect and reattach only update the preview.
func (c *Canvas) PointerMove(in Input) {
	g := c.gesture
	p := in.Pointer
	if g == nil || !p.IsFinite() {
		return
	}
	switch g.kind {
	case GestureDrag:
		d := p.Sub(g.last)
		if d.X == 0 && d.Y == 0 {
			break
		}
		for _, b := range c.SelectedBoxes() {
			b.MoveBy(d.X, d.Y)
		}
		g.moved = true
	case GestureResize:
		if b := c.Box(g.box); b != nil {
			b.ResizeTo(p)
			g.moved = true
		}
	case GestureSelectText:
		if b := c.Box(g.box); b != nil {
			b.PointerDrag(p)
		}
	}
	g.last = p
}

// PointerUp commits the current gesture or reverts it.
func (c *Canvas) PointerUp(in Input) {
	g := c.gesture
	if g == nil {
		return
	}
	c.gesture = nil
	p := in.Pointer
	if p.IsFinite() {
		g.last = p
	}

	switch g.kind {
	case GestureDrag, GestureResize:
		if g.moved {
			c.commit(g.before)
		}
	case GestureConnect:
		target := c.dropTarget(g.last, g.box)
		if target == nil {
			c.log.Debug("connect gesture reverted", zap.Stringer("from", g.box))
			return
		}
		if err := c.Connect(g.box, target.ID); err != nil {
			c.log.Debug("connect gesture reverted", zap.Error(err))
		}
	case GestureReattach:
		c.finishReattach(g)
	case GestureSelectText:
		if b := c.Box(g.box); b != nil {
			b.PointerUp()
		}
	}
}

func (c *Canvas) finishReattach(g *gesture) {
	target := c.BoxAt(g.last)
	if target == nil || !c.HasConnection(g.conn) {
		c.log.Debug("reattach reverted: no target")
		return
	}
	next := g.conn.withEnd(g.end, target.ID)
	if next == g.conn {
		return
	}
	if err := c.validConnection(next); err != nil {
		c.log.Debug("reattach reverted", zap.Error(err))
		return
	}
	c.mutate(func() bool {
		c.connections[c.connIndex(g.conn)] = next
		if _, ok := c.selectedConns[g.conn]; ok {
			delete(c.selectedConns, g.conn)
			c.selectedConns[next] = struct{}{}
		}
		if c.hasPrimConn && c.primaryConn == g.conn {
			c.primaryConn = next
		}
		return true
	})
}

// dropTarget is the topmost box under p other than exclude.
func (c *Canvas) dropTarget(p geom.Point, exclude uuid.UUID) *Box {
	b := c.BoxAt(p)
	if b == nil || b.ID == exclude {
		return nil
	}
	return b
}

// CancelGesture abandons the current gesture. Boxes moved or resized by it
// go back to where they were and no undo step is recorded.
func (c *Canvas) CancelGesture() {
	g := c.gesture
	if g == nil {
		return
	}
	c.gesture = nil
	switch g.kind {
	case GestureDrag, GestureResize:
		if g.moved {
			c.restore(g.before)
			c.log.Debug("gesture cancelled", zap.Int("kind", int(g.kind)))
		}
	case GestureSelectText:
		if b := c.Box(g.box); b != nil {
			b.PointerUp()
		}
	}
}

// Preview reports the connect or reattach line to draw, if one is active.
func (c *Canvas) Preview() (Preview, bool) {
	g := c.gesture
	if g == nil {
		return Preview{}, false
	}
	switch g.kind {
	case GestureConnect:
		from := c.Box(g.box)
		if from == nil {
			return Preview{}, false
		}
		pv := Preview{Kind: g.kind, From: from.EdgePoint(g.last), To: g.last}
		if t := c.dropTarget(g.last, g.box); t != nil {
			pv.Target = t.ID
			pv.To = t.EdgePoint(from.Center())
		}
		return pv, true
	case GestureReattach:
		fixedID := g.conn.FromID
		if g.end == EndFrom {
			fixedID = g.conn.ToID
		}
		fixed := c.Box(fixedID)
		if fixed == nil {
			return Preview{}, false
		}
		pv := Preview{Kind: g.kind, Conn: g.conn, From: fixed.EdgePoint(g.last), To: g.last}
		if t := c.BoxAt(g.last); t != nil && t.ID != fixedID {
			pv.Target = t.ID
			pv.To = t.EdgePoint(fixed.Center())
		}
		if g.end == EndFrom {
			pv.From, pv.To = pv.To, pv.From
		}
		return pv, true
	}
	return Preview{}, false
}
