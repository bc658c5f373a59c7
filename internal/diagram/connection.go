package diagram

import (
	"github.com/google/uuid"

	"nodepad/internal/geom"
)

// Connection is a directed edge between two boxes.
type Connection struct {
	FromID uuid.UUID
	ToID   uuid.UUID
}

func (c Connection) Reversed() Connection {
	return Connection{FromID: c.ToID, ToID: c.FromID}
}

// Touches reports whether id is either endpoint.
func (c Connection) Touches(id uuid.UUID) bool {
	return c.FromID == id || c.ToID == id
}

// End names one endpoint of a connection.
type End int

const (
	EndFrom End = iota
	EndTo
)

// withEnd returns c with the given endpoint moved to id.
func (c Connection) withEnd(end End, id uuid.UUID) Connection {
	if end == EndFrom {
		c.FromID = id
	} else {
		c.ToID = id
	}
	return c
}

// Segment is the drawn line of a connection, clipped to the box borders.
type Segment struct {
	From, To geom.Point
}

func (s Segment) dist(p geom.Point) float64 {
	return geom.DistToSegment(p, s.From, s.To)
}

// Endpoints computes where c meets the borders of its boxes. Each end is the
// exit point of the line between the two centers. ok is false when either box
// is missing.
func (cv *Canvas) Endpoints(c Connection) (seg Segment, ok bool) {
	from, to := cv.Box(c.FromID), cv.Box(c.ToID)
	if from == nil || to == nil {
		return Segment{}, false
	}
	return Segment{
		From: from.EdgePoint(to.Center()),
		To:   to.EdgePoint(from.Center()),
	}, true
}
