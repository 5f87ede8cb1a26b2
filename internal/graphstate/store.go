package graphstate

import (
	"context"
	"errors"
	"sync"

	"usergraph/internal/apiclient"
	"usergraph/internal/models"
	"usergraph/internal/validation"
)

// API is the subset of the REST client the store drives.
type API interface {
	GetGraph(ctx context.Context) (*models.Graph, error)
	CreateUser(ctx context.Context, req validation.CreateUserRequest) (*models.UserView, error)
	UpdateUser(ctx context.Context, id string, req validation.UpdateUserRequest) (*models.UserView, error)
	DeleteUser(ctx context.Context, id string) error
	LinkUsers(ctx context.Context, userID, targetUserID string) error
	UnlinkUsers(ctx context.Context, userID, targetUserID string) error
	AddHobby(ctx context.Context, userID, hobby string) (*models.UserView, error)
}

var _ API = (*apiclient.Client)(nil)

// State is a read-only copy of the store.
type State struct {
	Users        []models.UserView
	Edges        []models.Edge
	Selected     *models.UserView
	Loading      bool
	Error        string
	HistoryIndex int
	HistoryLen   int
}

// Store keeps the fetched graph, the current selection and the undo history.
//
// Every mutation snapshots the current view into history before calling the
// API, applies the server's answer locally and then refetches the whole graph.
// Methods are safe for concurrent use, but concurrent mutations are not
// ordered against each other and the last response wins.
type Store struct {
	api API

	mu       sync.Mutex
	users    []models.UserView
	edges    []models.Edge
	selected *models.UserView
	loading  bool
	err      string
	history  *History
}

func NewStore(api API) *Store {
	return &Store{
		api:     api,
		users:   []models.UserView{},
		edges:   []models.Edge{},
		history: NewHistory(),
	}
}

// State returns a deep copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshotLocked()
	return State{
		Users:        snap.Users,
		Edges:        snap.Edges,
		Selected:     snap.Selected,
		Loading:      s.loading,
		Error:        s.err,
		HistoryIndex: s.history.Index(),
		HistoryLen:   s.history.Len(),
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{Users: s.users, Edges: s.edges, Selected: s.selected}.Clone()
}

func (s *Store) restoreLocked(snap Snapshot) {
	s.users = snap.Users
	s.edges = snap.Edges
	s.selected = snap.Selected
}

// SaveToHistory records the current view as an undo point.
func (s *Store) SaveToHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Push(s.snapshotLocked())
}

// Undo restores the previous snapshot. It is a no-op at the start of history.
func (s *Store) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.history.Undo()
	if ok {
		s.restoreLocked(snap)
	}
	return ok
}

// Redo restores the next snapshot. It is a no-op at the end of history.
func (s *Store) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.history.Redo()
	if ok {
		s.restoreLocked(snap)
	}
	return ok
}

func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

func (s *Store) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

func (s *Store) SetSelectedUser(u *models.UserView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = cloneSelected(u)
}

func (s *Store) ClearSelection() {
	s.SetSelectedUser(nil)
}

func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

// FindUser returns a copy of the user with the given id from the local view.
func (s *Store) FindUser(id string) (*models.UserView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.users, id); i >= 0 {
		u := s.users[i].Clone()
		return &u, true
	}
	return nil, false
}

// FetchGraph replaces the local view with the server's full graph.
func (s *Store) FetchGraph(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	graph, err := s.api.GetGraph(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = message(err, "Failed to fetch graph data")
		return err
	}
	g := graph.Clone()
	s.users = nonNilUsers(g.Users)
	s.edges = nonNilEdges(g.Edges)
	return nil
}

func (s *Store) CreateUser(ctx context.Context, req validation.CreateUserRequest) (*models.UserView, error) {
	s.SaveToHistory()

	user, err := s.api.CreateUser(ctx, req)
	if err != nil {
		s.fail(err, "Failed to create user")
		return nil, err
	}

	s.mu.Lock()
	s.users = append(s.users, user.Clone())
	s.mu.Unlock()

	return user, s.refresh(ctx)
}

func (s *Store) UpdateUser(ctx context.Context, id string, req validation.UpdateUserRequest) (*models.UserView, error) {
	s.SaveToHistory()

	user, err := s.api.UpdateUser(ctx, id, req)
	if err != nil {
		s.fail(err, "Failed to update user")
		return nil, err
	}

	s.replaceUser(user)
	return user, s.refresh(ctx)
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.SaveToHistory()

	if err := s.api.DeleteUser(ctx, id); err != nil {
		s.fail(err, "Failed to delete user")
		return err
	}

	s.mu.Lock()
	kept := s.users[:0:0]
	for _, u := range s.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	s.users = kept
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
	s.mu.Unlock()

	return s.refresh(ctx)
}

func (s *Store) LinkUsers(ctx context.Context, userID, targetUserID string) error {
	s.SaveToHistory()

	if err := s.api.LinkUsers(ctx, userID, targetUserID); err != nil {
		s.fail(err, "Failed to link users")
		return err
	}

	lo, hi := models.CanonicalPair(userID, targetUserID)
	edge := models.Edge{ID: models.EdgeID(lo, hi), Source: lo, Target: hi}

	s.mu.Lock()
	if !hasEdge(s.edges, edge.ID) {
		s.edges = append(s.edges, edge)
	}
	s.mu.Unlock()

	return s.refresh(ctx)
}

func (s *Store) UnlinkUsers(ctx context.Context, userID, targetUserID string) error {
	s.SaveToHistory()

	if err := s.api.UnlinkUsers(ctx, userID, targetUserID); err != nil {
		s.fail(err, "Failed to unlink users")
		return err
	}

	s.mu.Lock()
	kept := s.edges[:0:0]
	for _, e := range s.edges {
		if !connects(e, userID, targetUserID) {
			kept = append(kept, e)
		}
	}
	s.edges = kept
	s.mu.Unlock()

	return s.refresh(ctx)
}

func (s *Store) AddHobby(ctx context.Context, userID, hobby string) (*models.UserView, error) {
	s.SaveToHistory()

	user, err := s.api.AddHobby(ctx, userID, hobby)
	if err != nil {
		s.fail(err, "Failed to add hobby")
		return nil, err
	}

	s.replaceUser(user)
	return user, s.refresh(ctx)
}

// refresh refetches after a successful mutation. A failed refetch keeps the
// locally applied result and records the error.
func (s *Store) refresh(ctx context.Context) error {
	return s.FetchGraph(ctx)
}

func (s *Store) fail(err error, fallback string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = message(err, fallback)
}

func (s *Store) replaceUser(user *models.UserView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.users, user.ID); i >= 0 {
		s.users[i] = user.Clone()
	}
	if s.selected != nil && s.selected.ID == user.ID {
		s.selected = cloneSelected(user)
	}
}

// message prefers the server's own wording and falls back for transport failures.
func message(err error, fallback string) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func indexOf(users []models.UserView, id string) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}

func hasEdge(edges []models.Edge, id string) bool {
	for _, e := range edges {
		if e.ID == id {
			return true
		}
	}
	return false
}

func connects(e models.Edge, a, b string) bool {
	return (e.Source == a && e.Target == b) ||
		(e.Source == b && e.Target == a) ||
		e.ID == a+"-"+b ||
		e.ID == b+"-"+a
}

func nonNilUsers(u []models.UserView) []models.UserView {
	if u == nil {
		return []models.UserView{}
	}
	return u
}

func nonNilEdges(e []models.Edge) []models.Edge {
	if e == nil {
		return []models.Edge{}
	}
	return e
}
