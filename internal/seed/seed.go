// Package seed fills the database with demo data, either random or from a
// YAML fixture. It goes through the graph service so every invariant the API
// enforces also holds for seeded data.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"usergraph/internal/cache"
	"usergraph/internal/middleware"
	"usergraph/internal/models"
	"usergraph/internal/repository"
	"usergraph/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Result counts what a seeding run created.
type Result struct {
	Users       int
	Friendships int
}

// Seeder writes demo data through the graph service.
type Seeder struct {
	db    *gorm.DB
	rdb   *redis.Client
	graph *service.GraphService
}

// NewSeeder creates a seeder. rdb may be nil; when set, cached users are
// evicted as data is cleared.
func NewSeeder(db *gorm.DB, rdb *redis.Client) *Seeder {
	users := repository.NewUserRepository(db, rdb, cache.DefaultUserTTL)
	friends := repository.NewFriendRepository(db)
	return &Seeder{
		db:    db,
		rdb:   rdb,
		graph: service.NewGraphService(users, friends),
	}
}

// ClearAll removes every friendship and user.
func (s *Seeder) ClearAll(ctx context.Context) error {
	middleware.Logger.InfoContext(ctx, "clearing existing data")

	var ids []string
	if err := s.db.WithContext(ctx).Model(&models.User{}).Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	all := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	if err := all.Delete(&models.Friendship{}).Error; err != nil {
		return fmt.Errorf("clear friendships: %w", err)
	}
	if err := all.Delete(&models.User{}).Error; err != nil {
		return fmt.Errorf("clear users: %w", err)
	}

	rdb := cache.Cmdable(s.rdb)
	for _, id := range ids {
		cache.InvalidateUser(ctx, rdb, id)
	}
	return nil
}

// IsEmpty reports whether no users exist yet.
func (s *Seeder) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

// ApplyFixture creates the fixture's users and friendships.
func (s *Seeder) ApplyFixture(ctx context.Context, fx *Fixture) (*Result, error) {
	if err := fx.Validate(); err != nil {
		return nil, err
	}

	res := &Result{}
	ids := make(map[string]string, len(fx.Users))
	for _, u := range fx.Users {
		created, err := s.graph.CreateUser(ctx, service.CreateUserInput{
			Username: u.Username,
			Age:      u.Age,
			Hobbies:  u.Hobbies,
		})
		if err != nil {
			return res, fmt.Errorf("create %q: %w", u.Username, err)
		}
		ids[u.Username] = created.ID
		res.Users++
	}

	for _, pair := range fx.Friendships {
		if _, err := s.graph.LinkUsers(ctx, ids[pair[0]], ids[pair[1]]); err != nil {
			if models.ErrorCode(err) == models.CodeConflict {
				continue
			}
			return res, fmt.Errorf("link %q and %q: %w", pair[0], pair[1], err)
		}
		res.Friendships++
	}

	middleware.Logger.InfoContext(ctx, "fixture applied",
		slog.Int("users", res.Users), slog.Int("friendships", res.Friendships))
	return res, nil
}

// SeedRandom creates numUsers random users and gives each up to
// friendsPerUser random friends. Pairs that already exist are skipped.
func (s *Seeder) SeedRandom(ctx context.Context, f *Factory, numUsers, friendsPerUser int) (*Result, error) {
	res := &Result{}
	ids := make([]string, 0, numUsers)

	for i := 0; i < numUsers; i++ {
		created, err := s.graph.CreateUser(ctx, f.User())
		if err != nil {
			if models.ErrorCode(err) == models.CodeConflict {
				continue
			}
			return res, fmt.Errorf("create user: %w", err)
		}
		ids = append(ids, created.ID)
		res.Users++
	}

	if len(ids) < 2 {
		return res, nil
	}

	for _, id := range ids {
		for j := 0; j < friendsPerUser; j++ {
			other := ids[f.Intn(len(ids))]
			if other == id {
				continue
			}
			if _, err := s.graph.LinkUsers(ctx, id, other); err != nil {
				if models.ErrorCode(err) == models.CodeConflict {
					continue
				}
				return res, fmt.Errorf("link users: %w", err)
			}
			res.Friendships++
		}
	}

	middleware.Logger.InfoContext(ctx, "random graph seeded",
		slog.Int("users", res.Users), slog.Int("friendships", res.Friendships))
	return res, nil
}
