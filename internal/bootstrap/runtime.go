// Package bootstrap opens the process-wide connections shared by the commands.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"usergraph/internal/cache"
	"usergraph/internal/config"
	"usergraph/internal/database"
	"usergraph/internal/middleware"
	"usergraph/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemo loads the built-in demo graph when the database has no users.
	SeedDemo bool
}

// InitRuntime connects to the database and Redis and optionally seeds demo data.
// The Redis client is nil when Redis is unreachable.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	rdb := cache.InitRedis(cfg.RedisURL)

	if opts.SeedDemo {
		if err := seedDemo(ctx, cfg, db, rdb); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo graph: %w", err)
		}
	}

	return db, rdb, nil
}

func seedDemo(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client) error {
	if cfg.IsProduction() {
		middleware.Logger.WarnContext(ctx, "demo seeding is disabled in production")
		return nil
	}

	s := seed.NewSeeder(db, rdb)
	empty, err := s.IsEmpty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}

	fx, err := seed.DemoFixture()
	if err != nil {
		return err
	}
	res, err := s.ApplyFixture(ctx, fx)
	if err != nil {
		return err
	}
	middleware.Logger.InfoContext(ctx, "demo graph loaded",
		slog.Int("users", res.Users), slog.Int("friendships", res.Friendships))
	return nil
}
