package service

import (
	"context"

	"usergraph/internal/middleware"
	"usergraph/internal/models"
	"usergraph/internal/observability"
	"usergraph/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"
)

const (
	msgFriendshipNotFound  = "Friendship not found"
	msgSelfLink            = "Cannot link user to themselves"
	msgActiveFriendships   = "Cannot delete user with active friendships. Please unlink all friends first."
	msgDuplicateHobby      = "User already has this hobby"
	msgUsernameExists      = "Username already exists"
	msgFriendshipDuplicate = "Friendship already exists"
)

// GraphService provides user CRUD, friendship edges and graph assembly.
type GraphService struct {
	users      repository.UserRepository
	friends    repository.FriendRepository
	popularity *PopularityCalculator
}

// NewGraphService returns a new GraphService.
func NewGraphService(users repository.UserRepository, friends repository.FriendRepository) *GraphService {
	return &GraphService{
		users:      users,
		friends:    friends,
		popularity: NewPopularityCalculator(users, friends),
	}
}

// CreateUserInput holds the fields of a new user. Shape is validated by the caller.
type CreateUserInput struct {
	Username string
	Age      int
	Hobbies  []string
}

// UpdateUserInput is a partial update; nil fields are left unchanged.
type UpdateUserInput struct {
	Username *string
	Age      *int
	Hobbies  []string
}

func (s *GraphService) view(ctx context.Context, user *models.User) (*models.UserView, error) {
	friendIDs, err := s.friends.FriendIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if friendIDs == nil {
		friendIDs = []string{}
	}
	score, err := s.popularity.score(ctx, user, friendIDs)
	if err != nil {
		return nil, err
	}
	return &models.UserView{User: *user, Friends: friendIDs, PopularityScore: score}, nil
}

// freshView re-reads the user from the database so a mutation answers with
// what it committed, not with a cached copy.
func (s *GraphService) freshView(ctx context.Context, id string) (*models.UserView, error) {
	user, err := s.users.GetByIDUncached(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, user)
}

func recordMutation(op string, err error) {
	result := "ok"
	if err != nil {
		result = models.ErrorCode(err)
		if result == "" {
			result = models.CodeInternal
		}
	}
	middleware.GraphMutations.WithLabelValues(op, result).Inc()
}

// ListUsers returns every user with friends and score, newest first.
func (s *GraphService) ListUsers(ctx context.Context) ([]models.UserView, error) {
	span, ctx := observability.NewSpan(ctx, "GraphService.ListUsers")
	defer span.End()

	users, err := s.users.List(ctx)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	out := make([]models.UserView, 0, len(users))
	for i := range users {
		v, err := s.view(ctx, &users[i])
		if err != nil {
			span.SetError(err)
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

// GetUser returns one user with friends and score.
func (s *GraphService) GetUser(ctx context.Context, id string) (*models.UserView, error) {
	span, ctx := observability.NewSpan(ctx, "GraphService.GetUser", attribute.String("user.id", id))
	defer span.End()

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return s.view(ctx, user)
}

// CreateUser persists a new user with a fresh id.
func (s *GraphService) CreateUser(ctx context.Context, in CreateUserInput) (view *models.UserView, err error) {
	span, ctx := observability.NewSpan(ctx, "GraphService.CreateUser")
	defer func() {
		span.SetError(err)
		span.End()
		recordMutation("create_user", err)
	}()

	// The unique index still catches a create racing this check.
	existing, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError(msgUsernameExists)
	}

	user := &models.User{
		Username: in.Username,
		Age:      in.Age,
		Hobbies:  datatypes.JSONSlice[string](append([]string{}, in.Hobbies...)),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	span.AddAttributes(attribute.String("user.id", user.ID))
	return s.freshView(ctx, user.ID)
}

// UpdateUser applies the provided fields only.
func (s *GraphService) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (view *models.UserView, err error) {
	span, ctx := observability.NewSpan(ctx, "GraphService.UpdateUser", attribute.String("user.id", id))
	defer func() {
		span.SetError(err)
		span.End()
		recordMutation("update_user", err)
	}()

	user, err := s.users.GetByIDUncached(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Username != nil && *in.Username != user.Username {
		existing, err := s.users.GetByUsername(ctx, *in.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, models.NewConflictError(msgUsernameExists)
		}
		user.Username = *in.Username
	}
	if in.Age != nil {
		user.Age = *in.Age
	}
	if in.Hobbies != nil {
		user.Hobbies = datatypes.JSONSlice[string](append([]string{}, in.Hobbies...))
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.freshView(ctx, id)
}

// DeleteUser removes a user that has no friendships left.
func (s *GraphService) DeleteUser(ctx context.Context, id string) (err error) {
	span, ctx := observability.NewSpan(ctx, "GraphService.DeleteUser", attribute.String("user.id", id))
	defer func() {
		span.SetError(err)
		span.End()
		recordMutation("delete_user", err)
	}()

	if _, err := s.users.GetByIDUncached(ctx, id); err != nil {
		return err
	}

	count, err := s.friends.CountForUser(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return models.NewConflictError(msgActiveFriendships)
	}

	return s.users.Delete(ctx, id)
}

// LinkUsers creates the friendship between two distinct existing users.
func (s *GraphService) LinkUsers(ctx context.Context, userID, targetID string) (edge *models.Edge, err error) {
	span, ctx := observability.NewSpan(ctx, "GraphService.LinkUsers",
		attribute.String("user.id", userID), attribute.String("target.id", targetID))
	defer func() {
		span.SetError(err)
		span.End()
		recordMutation("link_users", err)
	}()

	if _, err := s.users.GetByIDUncached(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByIDUncached(ctx, targetID); err != nil {
		return nil, err
	}
	if userID == targetID {
		return nil, models.NewInvalidArgumentError(msgSelfLink)
	}

	exists, err := s.friends.Exists(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewConflictError(msgFriendshipDuplicate)
	}

	f, err := s.friends.Create(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}
	e := models.NewEdge(*f)
	return &e, nil
}

// UnlinkUsers removes the friendship between two users.
func (s *GraphService) UnlinkUsers(ctx context.Context, userID, targetID string) (err error) {
	span, ctx := observability.NewSpan(ctx, "GraphService.UnlinkUsers",
		attribute.String("user.id", userID), attribute.String("target.id", targetID))
	defer func() {
		span.SetError(err)
		span.End()
		recordMutation("unlink_users", err)
	}()

	removed, err := s.friends.RemoveFriendship(ctx, userID, targetID)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewNotFoundError(msgFriendshipNotFound)
	}
	return nil
}

// AddHobby appends hobby to the user's list unless it is already there.
func (s *GraphService) AddHobby(ctx context.Context, id, hobby string) (view *models.UserView, err error) {
	span, ctx := observability.NewSpan(ctx, "GraphService.AddHobby", attribute.String("user.id", id))
	defer func() {
		span.SetError(err)
		span.End()
		recordMutation("add_hobby", err)
	}()

	user, err := s.users.GetByIDUncached(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.HasHobby(hobby) {
		return nil, models.NewInvalidArgumentError(msgDuplicateHobby)
	}

	user.Hobbies = append(datatypes.JSONSlice[string]{}, user.Hobbies...)
	user.Hobbies = append(user.Hobbies, hobby)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.freshView(ctx, id)
}

// GetGraph returns every user and every edge.
func (s *GraphService) GetGraph(ctx context.Context) (*models.Graph, error) {
	span, ctx := observability.NewSpan(ctx, "GraphService.GetGraph")
	defer span.End()

	users, err := s.ListUsers(ctx)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	rows, err := s.friends.List(ctx)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	edges := make([]models.Edge, 0, len(rows))
	for _, f := range rows {
		edges = append(edges, models.NewEdge(f))
	}
	span.AddAttributes(attribute.Int("graph.users", len(users)), attribute.Int("graph.edges", len(edges)))
	return &models.Graph{Users: users, Edges: edges}, nil
}
