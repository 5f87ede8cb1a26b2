package bootstrap

import (
	"context"
	"testing"

	"usergraph/internal/config"
	"usergraph/internal/database"
	"usergraph/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(name string) *config.Config {
	return &config.Config{
		Env:                      "test",
		DBDriver:                 "sqlite",
		DBSQLitePath:             "file:" + name + "?mode=memory&cache=shared",
		DBMaxOpenConns:           1,
		DBMaxIdleConns:           1,
		DBConnMaxLifetimeMinutes: 5,
		// Nothing listens here, so Redis is treated as unavailable.
		RedisURL: "127.0.0.1:1",
	}
}

func TestInitRuntime_SeedsDemoOnce(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig("bootstrap_seed")

	db, rdb, err := InitRuntime(ctx, cfg, Options{SeedDemo: true})
	require.NoError(t, err)
	defer database.Close(db)
	assert.Nil(t, rdb)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(5), users)

	// Non-empty database is left alone.
	require.NoError(t, seedDemo(ctx, cfg, db, nil))
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(5), users)
}

func TestInitRuntime_NoSeed(t *testing.T) {
	db, _, err := InitRuntime(context.Background(), sqliteConfig("bootstrap_plain"), Options{})
	require.NoError(t, err)
	defer database.Close(db)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)
}
