// Package diagram is the document model of the editor: boxes holding wrapped
// text, the connections between them, selection, gestures and undo history.
package diagram

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nodepad/internal/geom"
)

// Canvas owns every box and connection of a document. Box order is z-order;
// the last box is drawn on top. A Canvas is not safe for concurrent use.
type Canvas struct {
	metrics *Metrics

	boxes       []*Box
	connections []Connection

	selectedBoxes map[uuid.UUID]struct{}
	primaryBox    uuid.UUID
	selectedConns map[Connection]struct{}
	primaryConn   Connection
	hasPrimConn   bool

	editing uuid.UUID

	history *History
	gesture *gesture
	clip    clipboard

	dirty bool
	log   *zap.Logger
}

type Option func(*Canvas)

func WithLogger(l *zap.Logger) Option {
	return func(c *Canvas) {
		if l != nil {
			c.log = l
		}
	}
}

func WithHistoryLimit(n int) Option {
	return func(c *Canvas) {
		c.history = NewHistory(n)
	}
}

func New(m Metrics, opts ...Option) *Canvas {
	c := &Canvas{
		metrics:       &m,
		selectedBoxes: make(map[uuid.UUID]struct{}),
		selectedConns: make(map[Connection]struct{}),
		history:       NewHistory(DefaultHistoryLimit),
		log:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Canvas) Metrics() Metrics    { return *c.metrics }
func (c *Canvas) History() *History   { return c.history }
func (c *Canvas) Dirty() bool         { return c.dirty }
func (c *Canvas) MarkSaved()          { c.dirty = false }
func (c *Canvas) CanUndo() bool       { return c.history.UndoDepth() > 0 }
func (c *Canvas) CanRedo() bool       { return c.history.RedoDepth() > 0 }
func (c *Canvas) Len() int            { return len(c.boxes) }
func (c *Canvas) Empty() bool         { return len(c.boxes) == 0 }
func (c *Canvas) Logger() *zap.Logger { return c.log }

// Boxes returns the boxes bottom to top. The slice is a copy; the boxes are
// live.
func (c *Canvas) Boxes() []*Box {
	return append([]*Box(nil), c.boxes...)
}

func (c *Canvas) Box(id uuid.UUID) *Box {
	if i := c.indexOf(id); i >= 0 {
		return c.boxes[i]
	}
	return nil
}

func (c *Canvas) indexOf(id uuid.UUID) int {
	for i, b := range c.boxes {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func (c *Canvas) Connections() []Connection {
	return append([]Connection(nil), c.connections...)
}

func (c *Canvas) HasConnection(conn Connection) bool {
	return c.connIndex(conn) >= 0
}

func (c *Canvas) connIndex(conn Connection) int {
	for i, existing := range c.connections {
		if existing == conn {
			return i
		}
	}
	return -1
}

// capture deep-copies the boxes and connections.
func (c *Canvas) capture() snapshot {
	return snapshot{boxes: c.boxes, connections: c.connections}.clone()
}

// mutate snapshots the canvas, runs fn and keeps the snapshot as an undo
// step only when fn reports a change.
func (c *Canvas) mutate(fn func() bool) bool {
	before := c.capture()
	if !fn() {
		return false
	}
	c.commit(before)
	return true
}

func (c *Canvas) commit(before snapshot) {
	c.history.push(before)
	c.dirty = true
}

// restore installs s as the live state. Selection and editing follow their
// boxes by ID and are dropped for boxes that no longer exist.
func (c *Canvas) restore(s snapshot) {
	c.boxes = s.boxes
	c.connections = s.connections
	c.gesture = nil

	for id := range c.selectedBoxes {
		if c.Box(id) == nil {
			delete(c.selectedBoxes, id)
		}
	}
	if c.Box(c.primaryBox) == nil {
		c.primaryBox = uuid.Nil
	}
	for conn := range c.selectedConns {
		if !c.HasConnection(conn) {
			delete(c.selectedConns, conn)
		}
	}
	if c.hasPrimConn && !c.HasConnection(c.primaryConn) {
		c.hasPrimConn = false
	}
	if b := c.Box(c.editing); b != nil {
		b.editing = true
		b.cursor = clampInt(b.cursor, 0, b.textLen())
	} else {
		c.editing = uuid.Nil
	}
}

// Undo replaces the live state with the newest undo snapshot.
func (c *Canvas) Undo() error {
	prev, ok := c.history.stepBack(c.capture())
	if !ok {
		return ErrNothingToUndo
	}
	c.restore(prev)
	c.dirty = true
	return nil
}

func (c *Canvas) Redo() error {
	next, ok := c.history.stepForward(c.capture())
	if !ok {
		return ErrNothingToRedo
	}
	c.restore(next)
	c.dirty = true
	return nil
}

// Reset empties the document and its history.
func (c *Canvas) Reset() {
	c.boxes = nil
	c.connections = nil
	c.ClearSelection()
	c.editing = uuid.Nil
	c.gesture = nil
	c.history.clear()
	c.dirty = false
}

// AddBox creates a box centered on (x, y) and puts it on top.
func (c *Canvas) AddBox(x, y float64, text string) *Box {
	if !geom.Finite(x, y) {
		x, y = 0, 0
	}
	var b *Box
	c.mutate(func() bool {
		b = newBox(x, y, text, c.metrics)
		c.boxes = append(c.boxes, b)
		return true
	})
	return b
}

// PlaceBox creates a box whose top-left corner is at (left, top). Grid hosts
// use it so borders land on whole cells.
func (c *Canvas) PlaceBox(left, top float64, text string) *Box {
	if !geom.Finite(left, top) {
		left, top = 0, 0
	}
	var b *Box
	c.mutate(func() bool {
		b = newBox(left, top, text, c.metrics)
		b.MoveTo(left+b.Width/2, top+b.Height/2)
		c.boxes = append(c.boxes, b)
		return true
	})
	return b
}

// RemoveBox deletes a box and every connection touching it.
func (c *Canvas) RemoveBox(id uuid.UUID) error {
	if c.Box(id) == nil {
		return fmt.Errorf("remove box %s: %w", id, ErrUnknownBox)
	}
	c.mutate(func() bool {
		c.removeBoxes(map[uuid.UUID]struct{}{id: {}})
		return true
	})
	return nil
}

// DeleteSelection removes the selected boxes, their connections and the
// selected connections as one undo step.
func (c *Canvas) DeleteSelection() bool {
	if len(c.selectedBoxes) == 0 && len(c.selectedConns) == 0 {
		return false
	}
	boxes := make(map[uuid.UUID]struct{}, len(c.selectedBoxes))
	for id := range c.selectedBoxes {
		boxes[id] = struct{}{}
	}
	conns := make(map[Connection]struct{}, len(c.selectedConns))
	for conn := range c.selectedConns {
		conns[conn] = struct{}{}
	}
	return c.mutate(func() bool {
		kept := c.connections[:0:0]
		for _, conn := range c.connections {
			if _, drop := conns[conn]; !drop {
				kept = append(kept, conn)
			}
		}
		c.connections = kept
		c.removeBoxes(boxes)
		c.ClearSelection()
		return true
	})
}

func (c *Canvas) removeBoxes(ids map[uuid.UUID]struct{}) {
	keptBoxes := c.boxes[:0:0]
	for _, b := range c.boxes {
		if _, drop := ids[b.ID]; !drop {
			keptBoxes = append(keptBoxes, b)
		}
	}
	c.boxes = keptBoxes

	keptConns := c.connections[:0:0]
	for _, conn := range c.connections {
		_, dropFrom := ids[conn.FromID]
		_, dropTo := ids[conn.ToID]
		if !dropFrom && !dropTo {
			keptConns = append(keptConns, conn)
		}
	}
	c.connections = keptConns

	for id := range ids {
		delete(c.selectedBoxes, id)
		if c.primaryBox == id {
			c.primaryBox = uuid.Nil
		}
		if c.editing == id {
			c.editing = uuid.Nil
		}
	}
	for conn := range c.selectedConns {
		if !c.HasConnection(conn) {
			delete(c.selectedConns, conn)
		}
	}
	if c.hasPrimConn && !c.HasConnection(c.primaryConn) {
		c.hasPrimConn = false
	}
}

func (c *Canvas) validConnection(conn Connection) error {
	if c.Box(conn.FromID) == nil || c.Box(conn.ToID) == nil {
		return ErrUnknownBox
	}
	if conn.FromID == conn.ToID {
		return ErrSelfLoop
	}
	if c.HasConnection(conn) {
		return ErrDuplicateConnection
	}
	return nil
}

// Connect adds an edge from one box to another.
func (c *Canvas) Connect(from, to uuid.UUID) error {
	conn := Connection{FromID: from, ToID: to}
	if err := c.validConnection(conn); err != nil {
		return fmt.Errorf("connect %s to %s: %w", from, to, err)
	}
	c.mutate(func() bool {
		c.connections = append(c.connections, conn)
		return true
	})
	return nil
}

func (c *Canvas) Disconnect(conn Connection) error {
	i := c.connIndex(conn)
	if i < 0 {
		return ErrUnknownConnection
	}
	c.mutate(func() bool {
		c.connections = append(c.connections[:i:i], c.connections[i+1:]...)
		delete(c.selectedConns, conn)
		if c.hasPrimConn && c.primaryConn == conn {
			c.hasPrimConn = false
		}
		return true
	})
	return nil
}

// ReverseConnection flips conn in place. When the reverse edge already
// exists conn is dropped instead, so the pair never holds two edges the
// same way.
func (c *Canvas) ReverseConnection(conn Connection) error {
	if !c.HasConnection(conn) {
		return ErrUnknownConnection
	}
	c.mutate(func() bool {
		c.reverse(conn)
		return true
	})
	return nil
}

// ReverseSelectedConnections reverses every selected connection as one undo
// step.
func (c *Canvas) ReverseSelectedConnections() bool {
	conns := c.SelectedConnections()
	if len(conns) == 0 {
		return false
	}
	return c.mutate(func() bool {
		for _, conn := range conns {
			c.reverse(conn)
		}
		return true
	})
}

func (c *Canvas) reverse(conn Connection) {
	i := c.connIndex(conn)
	if i < 0 {
		return
	}
	rev := conn.Reversed()
	if c.HasConnection(rev) {
		c.connections = append(c.connections[:i:i], c.connections[i+1:]...)
	} else {
		c.connections[i] = rev
	}
	if _, ok := c.selectedConns[conn]; ok {
		delete(c.selectedConns, conn)
		c.selectedConns[rev] = struct{}{}
	}
	if c.hasPrimConn && c.primaryConn == conn {
		c.primaryConn = rev
	}
}

func (c *Canvas) SetColor(id uuid.UUID, color Color) error {
	b := c.Box(id)
	if b == nil {
		return fmt.Errorf("set color of %s: %w", id, ErrUnknownBox)
	}
	c.mutate(func() bool {
		if b.Color == color {
			return false
		}
		b.Color = color
		return true
	})
	return nil
}

// CycleColor advances every selected box to the next palette color.
func (c *Canvas) CycleColor() bool {
	boxes := c.SelectedBoxes()
	if len(boxes) == 0 {
		return false
	}
	return c.mutate(func() bool {
		for _, b := range boxes {
			b.Color = b.Color.Next()
		}
		return true
	})
}

// MoveSelection moves every selected box by (dx, dy).
func (c *Canvas) MoveSelection(dx, dy float64) bool {
	boxes := c.SelectedBoxes()
	if len(boxes) == 0 || !geom.Finite(dx, dy) || (dx == 0 && dy == 0) {
		return false
	}
	return c.mutate(func() bool {
		for _, b := range boxes {
			b.MoveBy(dx, dy)
		}
		return true
	})
}

// BoxAt returns the topmost box under p.
func (c *Canvas) BoxAt(p geom.Point) *Box {
	for i := len(c.boxes) - 1; i >= 0; i-- {
		if c.boxes[i].Contains(p) {
			return c.boxes[i]
		}
	}
	return nil
}

// ConnectionAt returns the newest connection whose line passes within
// LinkTolerance of p.
func (c *Canvas) ConnectionAt(p geom.Point) (Connection, bool) {
	if !p.IsFinite() {
		return Connection{}, false
	}
	for i := len(c.connections) - 1; i >= 0; i-- {
		seg, ok := c.Endpoints(c.connections[i])
		if ok && seg.dist(p) <= c.metrics.LinkTolerance {
			return c.connections[i], true
		}
	}
	return Connection{}, false
}
