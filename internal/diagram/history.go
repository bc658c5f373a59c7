package diagram

// DefaultHistoryLimit is the undo depth used when none is configured.
const DefaultHistoryLimit = 100

// snapshot is a deep copy of the canvas contents.
type snapshot struct {
	boxes       []*Box
	connections []Connection
}

func (s snapshot) clone() snapshot {
	out := snapshot{
		boxes:       make([]*Box, len(s.boxes)),
		connections: append([]Connection(nil), s.connections...),
	}
	for i, b := range s.boxes {
		out.boxes[i] = b.clone()
	}
	return out
}

// History is a bounded undo stack with a redo stack. Pushing drops the
// oldest entry once the limit is reached and clears redo.
type History struct {
	limit int
	undo  []snapshot
	redo  []snapshot
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

func (h *History) Limit() int     { return h.limit }
func (h *History) UndoDepth() int { return len(h.undo) }
func (h *History) RedoDepth() int { return len(h.redo) }

func (h *History) push(s snapshot) {
	h.undo = pushBounded(h.undo, s, h.limit)
	h.redo = nil
}

// stepBack pops the newest undo entry and saves cur for redo.
func (h *History) stepBack(cur snapshot) (snapshot, bool) {
	if len(h.undo) == 0 {
		return snapshot{}, false
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = pushBounded(h.redo, cur, h.limit)
	return prev, true
}

// stepForward pops the newest redo entry and saves cur for undo.
func (h *History) stepForward(cur snapshot) (snapshot, bool) {
	if len(h.redo) == 0 {
		return snapshot{}, false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = pushBounded(h.undo, cur, h.limit)
	return next, true
}

func (h *History) clear() {
	h.undo = nil
	h.redo = nil
}

func pushBounded(stack []snapshot, s snapshot, limit int) []snapshot {
	stack = append(stack, s)
	if over := len(stack) - limit; over > 0 {
		stack = append(stack[:0:0], stack[over:]...)
	}
	return stack
}
