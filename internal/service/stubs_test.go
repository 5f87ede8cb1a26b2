package service

import (
	"context"
	"errors"

	"usergraph/internal/models"
)

var errStub = errors.New("not implemented")

type stubUserRepo struct {
	getByIDFn       func(ctx context.Context, id string) (*models.User, error)
	uncachedFn      func(ctx context.Context, id string) (*models.User, error)
	getByUsernameFn func(ctx context.Context, username string) (*models.User, error)
	listFn          func(ctx context.Context) ([]models.User, error)
	createFn        func(ctx context.Context, user *models.User) error
	updateFn        func(ctx context.Context, user *models.User) error
	deleteFn        func(ctx context.Context, id string) error
}

func noopUserRepo() *stubUserRepo {
	return &stubUserRepo{
		getByIDFn: func(context.Context, string) (*models.User, error) {
			return nil, models.NewNotFoundError("User not found")
		},
		getByUsernameFn: func(context.Context, string) (*models.User, error) { return nil, nil },
		listFn:          func(context.Context) ([]models.User, error) { return nil, nil },
		createFn:        func(context.Context, *models.User) error { return errStub },
		updateFn:        func(context.Context, *models.User) error { return errStub },
		deleteFn:        func(context.Context, string) error { return errStub },
	}
}

func (r *stubUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getByIDFn(ctx, id)
}

// GetByIDUncached falls back to getByIDFn so tests that only stub reads keep working.
func (r *stubUserRepo) GetByIDUncached(ctx context.Context, id string) (*models.User, error) {
	if r.uncachedFn != nil {
		return r.uncachedFn(ctx, id)
	}
	return r.getByIDFn(ctx, id)
}

func (r *stubUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getByUsernameFn(ctx, username)
}

func (r *stubUserRepo) List(ctx context.Context) ([]models.User, error) { return r.listFn(ctx) }

func (r *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	return r.createFn(ctx, user)
}

func (r *stubUserRepo) Update(ctx context.Context, user *models.User) error {
	return r.updateFn(ctx, user)
}

func (r *stubUserRepo) Delete(ctx context.Context, id string) error { return r.deleteFn(ctx, id) }

type stubFriendRepo struct {
	createFn    func(ctx context.Context, a, b string) (*models.Friendship, error)
	existsFn    func(ctx context.Context, a, b string) (bool, error)
	removeFn    func(ctx context.Context, a, b string) (bool, error)
	friendIDsFn func(ctx context.Context, id string) ([]string, error)
	countFn     func(ctx context.Context, id string) (int64, error)
	listFn      func(ctx context.Context) ([]models.Friendship, error)
}

func noopFriendRepo() *stubFriendRepo {
	return &stubFriendRepo{
		createFn:    func(context.Context, string, string) (*models.Friendship, error) { return nil, errStub },
		existsFn:    func(context.Context, string, string) (bool, error) { return false, nil },
		removeFn:    func(context.Context, string, string) (bool, error) { return false, nil },
		friendIDsFn: func(context.Context, string) ([]string, error) { return nil, nil },
		countFn:     func(context.Context, string) (int64, error) { return 0, nil },
		listFn:      func(context.Context) ([]models.Friendship, error) { return nil, nil },
	}
}

func (r *stubFriendRepo) Create(ctx context.Context, a, b string) (*models.Friendship, error) {
	return r.createFn(ctx, a, b)
}

func (r *stubFriendRepo) Exists(ctx context.Context, a, b string) (bool, error) {
	return r.existsFn(ctx, a, b)
}

func (r *stubFriendRepo) RemoveFriendship(ctx context.Context, a, b string) (bool, error) {
	return r.removeFn(ctx, a, b)
}

func (r *stubFriendRepo) FriendIDs(ctx context.Context, id string) ([]string, error) {
	return r.friendIDsFn(ctx, id)
}

func (r *stubFriendRepo) CountForUser(ctx context.Context, id string) (int64, error) {
	return r.countFn(ctx, id)
}

func (r *stubFriendRepo) List(ctx context.Context) ([]models.Friendship, error) {
	return r.listFn(ctx)
}
