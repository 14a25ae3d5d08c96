package game

// MoveHistory is the ordered list of executed moves.
type MoveHistory struct {
	entries []Move
}

func (h *MoveHistory) Clear() {
	h.entries = nil
}

func (h *MoveHistory) Push(m Move) {
	h.entries = append(h.entries, cloneMove(m))
}

func (h MoveHistory) Len() int {
	return len(h.entries)
}

// Last returns the most recent move.
func (h MoveHistory) Last() (Move, bool) {
	if len(h.entries) == 0 {
		return Move{}, false
	}
	return cloneMove(h.entries[len(h.entries)-1]), true
}

func (h MoveHistory) All() []Move {
	out := make([]Move, len(h.entries))
	for i, m := range h.entries {
		out[i] = cloneMove(m)
	}
	return out
}

func cloneMove(m Move) Move {
	if m.Captured != nil {
		captured := *m.Captured
		m.Captured = &captured
	}
	return m
}
