package diagram

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nodepad/internal/geom"
)

type boxJSON struct {
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Text            string  `json:"text"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	BackgroundColor Color   `json:"backgroundColor"`
}

type connectionJSON struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type documentJSON struct {
	Boxes       []boxJSON        `json:"boxes"`
	Connections []connectionJSON `json:"connections"`
}

// Serialize encodes the boxes and connections. Connections refer to boxes by
// their index in the boxes array.
func (c *Canvas) Serialize() ([]byte, error) {
	doc := documentJSON{
		Boxes:       make([]boxJSON, 0, len(c.boxes)),
		Connections: make([]connectionJSON, 0, len(c.connections)),
	}
	pos := make(map[uuid.UUID]int, len(c.boxes))
	for i, b := range c.boxes {
		pos[b.ID] = i
		doc.Boxes = append(doc.Boxes, boxJSON{
			X:               finiteOr(b.X, 0),
			Y:               finiteOr(b.Y, 0),
			Text:            b.text,
			Width:           finiteOr(b.Width, 0),
			Height:          finiteOr(b.Height, 0),
			BackgroundColor: b.Color,
		})
	}
	for _, conn := range c.connections {
		from, okFrom := pos[conn.FromID]
		to, okTo := pos[conn.ToID]
		if okFrom && okTo {
			doc.Connections = append(doc.Connections, connectionJSON{From: from, To: to})
		}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// Deserialize replaces the canvas with a decoded document and clears the
// history. Damaged parts are repaired or skipped: fields with the wrong type
// take defaults, collections that are not arrays count as empty, and
// connections with bad indices, self-loops or duplicates are dropped. Only
// data that is not JSON fails, and then the canvas is left untouched.
func (c *Canvas) Deserialize(data []byte) error {
	if !json.Valid(data) {
		c.log.Warn("load failed", zap.Int("bytes", len(data)))
		return ErrInvalidDocument
	}
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		root = nil
	}

	// ids is indexed like the saved boxes array; skipped entries stay Nil.
	var boxes []*Box
	var ids []uuid.UUID
	for _, raw := range array(root["boxes"]) {
		b := c.decodeBox(raw)
		if b == nil {
			ids = append(ids, uuid.Nil)
			continue
		}
		boxes = append(boxes, b)
		ids = append(ids, b.ID)
	}

	var conns []Connection
	seen := make(map[Connection]bool)
	dropped := 0
	for _, raw := range array(root["connections"]) {
		fields := object(raw)
		from, okFrom := index(fields["from"], ids)
		to, okTo := index(fields["to"], ids)
		conn := Connection{FromID: from, ToID: to}
		if !okFrom || !okTo || from == to || seen[conn] {
			dropped++
			continue
		}
		seen[conn] = true
		conns = append(conns, conn)
	}
	if dropped > 0 {
		c.log.Debug("dropped connections on load", zap.Int("count", dropped))
	}

	c.Reset()
	c.boxes = boxes
	c.connections = conns
	return nil
}

func (c *Canvas) decodeBox(raw json.RawMessage) *Box {
	fields := object(raw)
	if fields == nil {
		return nil
	}
	var text string
	if err := json.Unmarshal(fields["text"], &text); err != nil {
		text = ""
	}
	b := newBox(number(fields["x"], 0), number(fields["y"], 0), text, c.metrics)
	b.Color = decodeColor(fields["backgroundColor"])

	// A saved width that differs from the auto width means the user resized
	// the box.
	if w := number(fields["width"], 0); w > 0 && math.Abs(w-b.Width) > 0.5 {
		b.userResized = true
		b.userWidth = math.Max(w, b.minResizeWidth())
		b.Reflow()
	}
	// Resizing may leave a box taller than its text needs.
	if h := number(fields["height"], 0); h > b.Height {
		b.Height = h
	}
	return b
}

func decodeColor(raw json.RawMessage) Color {
	fields := object(raw)
	if fields == nil {
		return White
	}
	channel := func(key string) uint8 {
		return uint8(math.Round(geom.Clamp(number(fields[key], 255), 0, 255)))
	}
	return Color{R: channel("r"), G: channel("g"), B: channel("b")}
}

func array(raw json.RawMessage) []json.RawMessage {
	var out []json.RawMessage
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func object(raw json.RawMessage) map[string]json.RawMessage {
	var out map[string]json.RawMessage
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func number(raw json.RawMessage, def float64) float64 {
	v := def
	if err := json.Unmarshal(raw, &v); err != nil || !geom.Finite(v) {
		return def
	}
	return v
}

// index resolves a saved box index. Fractional, out-of-range and skipped
// indices do not resolve.
func index(raw json.RawMessage, ids []uuid.UUID) (uuid.UUID, bool) {
	v := number(raw, -1)
	if v != math.Trunc(v) || v < 0 || v >= float64(len(ids)) {
		return uuid.Nil, false
	}
	id := ids[int(v)]
	return id, id != uuid.Nil
}

func finiteOr(v, def float64) float64 {
	if !geom.Finite(v) {
		return def
	}
	return v
}
