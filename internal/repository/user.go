// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"usergraph/internal/cache"
	"usergraph/internal/database"
	"usergraph/internal/models"
	"usergraph/internal/observability"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByIDUncached(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	db  *gorm.DB
	rdb redis.Cmdable
	ttl time.Duration
}

// NewUserRepository returns a UserRepository. rdb may be nil, in which case
// reads always go to the database.
func NewUserRepository(db *gorm.DB, rdb *redis.Client, ttl time.Duration) UserRepository {
	return &userRepository{db: db, rdb: cache.Cmdable(rdb), ttl: ttl}
}

// GetByID reads through the cache. Use it for views only; writers that
// modify the row must start from GetByIDUncached.
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "GetByID", "users")
	defer span.End()

	var user models.User
	err := cache.Aside(ctx, r.rdb, cache.UserKey(id), &user, r.ttl, func() error {
		return r.load(ctx, id, &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIDUncached reads the persisted row, bypassing the cache.
func (r *userRepository) GetByIDUncached(ctx context.Context, id string) (*models.User, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "GetByIDUncached", "users")
	defer span.End()

	var user models.User
	if err := r.load(ctx, id, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) load(ctx context.Context, id string, user *models.User) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("User not found")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// GetByUsername returns (nil, nil) when no user has that name.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// List returns every user, newest first.
func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "List", "users")
	defer span.End()

	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return models.NewConflictError("Username already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Update writes username, age and hobbies of an existing user.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", user.ID).
		Select("username", "age", "hobbies").
		Updates(map[string]any{
			"username": user.Username,
			"age":      user.Age,
			"hobbies":  user.Hobbies,
		})
	if result.Error != nil {
		if database.IsUniqueViolation(result.Error) {
			return models.NewConflictError("Username already exists")
		}
		return models.NewInternalError(result.Error)
	}
	cache.InvalidateUser(ctx, r.rdb, user.ID)
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("User not found")
	}
	return nil
}

// Delete removes the user; friendship rows go with it through the cascade.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	cache.InvalidateUser(ctx, r.rdb, id)
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("User not found")
	}
	return nil
}
