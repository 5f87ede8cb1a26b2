package repository

import (
	"context"

	"usergraph/internal/database"
	"usergraph/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FriendRepository defines persistence operations for friendship edges.
// Every method accepts the two ids in either order.
type FriendRepository interface {
	Create(ctx context.Context, userA, userB string) (*models.Friendship, error)
	Exists(ctx context.Context, userA, userB string) (bool, error)
	RemoveFriendship(ctx context.Context, userA, userB string) (bool, error)
	FriendIDs(ctx context.Context, userID string) ([]string, error)
	CountForUser(ctx context.Context, userID string) (int64, error)
	List(ctx context.Context) ([]models.Friendship, error)
}

type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new friend repository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

// Create inserts the canonical pair. A concurrent insert of the same pair loses
// on the unique index and is reported as a conflict.
func (r *friendRepository) Create(ctx context.Context, userA, userB string) (*models.Friendship, error) {
	friendship := models.NewFriendship(userA, userB)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&friendship).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, models.NewConflictError("Friendship already exists")
		}
		return nil, models.NewInternalError(err)
	}
	return &friendship, nil
}

func (r *friendRepository) Exists(ctx context.Context, userA, userB string) (bool, error) {
	lo, hi := models.CanonicalPair(userA, userB)
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("user_id_1 = ? AND user_id_2 = ?", lo, hi).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// RemoveFriendship deletes the edge and reports whether a row was removed.
func (r *friendRepository) RemoveFriendship(ctx context.Context, userA, userB string) (bool, error) {
	lo, hi := models.CanonicalPair(userA, userB)
	result := r.db.WithContext(ctx).
		Where("user_id_1 = ? AND user_id_2 = ?", lo, hi).
		Delete(&models.Friendship{})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// FriendIDs returns the ids on the other end of every edge touching userID.
func (r *friendRepository) FriendIDs(ctx context.Context, userID string) ([]string, error) {
	var rows []models.Friendship
	if err := r.db.WithContext(ctx).
		Select("user_id_1", "user_id_2").
		Where("user_id_1 = ? OR user_id_2 = ?", userID, userID).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	ids := make([]string, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, f := range rows {
		other := f.Other(userID)
		if _, dup := seen[other]; dup {
			continue
		}
		seen[other] = struct{}{}
		ids = append(ids, other)
	}
	return ids, nil
}

func (r *friendRepository) CountForUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("user_id_1 = ? OR user_id_2 = ?", userID, userID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// List returns every edge in insertion order.
func (r *friendRepository) List(ctx context.Context) ([]models.Friendship, error) {
	var rows []models.Friendship
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return rows, nil
}
