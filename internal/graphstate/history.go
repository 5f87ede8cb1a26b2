// Package graphstate holds a client's view of the user graph together with a
// bounded undo/redo history of that view.
//
// Undo and redo only rewind the local copy. They never reverse a mutation
// that already reached the server, and the next refetch overwrites them.
package graphstate

import "usergraph/internal/models"

// MaxHistory is the number of snapshots kept before the oldest is evicted.
const MaxHistory = 50

// Snapshot is an immutable copy of the graph view and the selected user.
type Snapshot struct {
	Users    []models.UserView
	Edges    []models.Edge
	Selected *models.UserView
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	g := models.Graph{Users: s.Users, Edges: s.Edges}.Clone()
	return Snapshot{Users: g.Users, Edges: g.Edges, Selected: cloneSelected(s.Selected)}
}

func cloneSelected(u *models.UserView) *models.UserView {
	if u == nil {
		return nil
	}
	c := u.Clone()
	return &c
}

// History is a cursor over a list of snapshots. The cursor is -1 while empty
// and always satisfies -1 <= Index() < Len(). It is not safe for concurrent
// use on its own; Store serializes access.
type History struct {
	entries []Snapshot
	index   int
}

func NewHistory() *History {
	return &History{index: -1}
}

// Push drops every snapshot after the cursor, appends a copy of s and moves
// the cursor to it. Past MaxHistory entries the oldest are evicted.
func (h *History) Push(s Snapshot) {
	h.entries = append(h.entries[:h.index+1], s.Clone())
	if over := len(h.entries) - MaxHistory; over > 0 {
		h.entries = append([]Snapshot(nil), h.entries[over:]...)
	}
	h.index = len(h.entries) - 1
}

// Undo steps the cursor back and returns the snapshot it lands on.
// It reports false, and changes nothing, when the cursor is at or before the first entry.
func (h *History) Undo() (Snapshot, bool) {
	if h.index <= 0 {
		return Snapshot{}, false
	}
	h.index--
	return h.entries[h.index].Clone(), true
}

// Redo steps the cursor forward and returns the snapshot it lands on.
func (h *History) Redo() (Snapshot, bool) {
	if h.index >= len(h.entries)-1 {
		return Snapshot{}, false
	}
	h.index++
	return h.entries[h.index].Clone(), true
}

func (h *History) CanUndo() bool { return h.index > 0 }

func (h *History) CanRedo() bool { return h.index < len(h.entries)-1 }

func (h *History) Len() int { return len(h.entries) }

func (h *History) Index() int { return h.index }
