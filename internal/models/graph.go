package models

// Edge is one friendship as rendered in the graph view.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// NewEdge converts a stored friendship into a graph edge.
func NewEdge(f Friendship) Edge {
	return Edge{ID: EdgeID(f.UserID1, f.UserID2), Source: f.UserID1, Target: f.UserID2}
}

// Graph is the full node and edge set.
type Graph struct {
	Users []UserView `json:"users"`
	Edges []Edge     `json:"edges"`
}

// Clone returns a deep copy of the graph.
func (g Graph) Clone() Graph {
	out := Graph{
		Users: make([]UserView, len(g.Users)),
		Edges: append([]Edge{}, g.Edges...),
	}
	for i, u := range g.Users {
		out.Users[i] = u.Clone()
	}
	return out
}

// MessageResponse is a plain acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}
