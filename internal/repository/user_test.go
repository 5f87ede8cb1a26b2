package repository

import (
	"context"
	"testing"
	"time"

	"usergraph/internal/cache"
	"usergraph/internal/models"
	"usergraph/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newUser(name string, hobbies ...string) *models.User {
	return &models.User{Username: name, Age: 30, Hobbies: datatypes.JSONSlice[string](hobbies)}
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewUserRepository(db, nil, time.Minute)
	ctx := context.Background()

	u := newUser("alice", "reading", "gaming")
	require.NoError(t, repo.Create(ctx, u))
	assert.Len(t, u.ID, 36)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, []string{"reading", "gaming"}, []string(got.Hobbies))

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, u.ID, byName.ID)

	missing, err := repo.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	repo := NewUserRepository(testutil.NewSQLiteDB(t), nil, time.Minute)
	_, err := repo.GetByID(context.Background(), "does-not-exist")
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	repo := NewUserRepository(testutil.NewSQLiteDB(t), nil, time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("alice", "x")))
	err := repo.Create(ctx, newUser("alice", "y"))

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeConflict, appErr.Code)
	assert.Equal(t, "Username already exists", appErr.Message)
}

func TestUserRepository_ListNewestFirst(t *testing.T) {
	repo := NewUserRepository(testutil.NewSQLiteDB(t), nil, time.Minute)
	ctx := context.Background()

	first := newUser("first", "a")
	first.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, newUser("second", "b")))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "second", users[0].Username)
	assert.Equal(t, "first", users[1].Username)
}

func TestUserRepository_UpdateAndDelete(t *testing.T) {
	repo := NewUserRepository(testutil.NewSQLiteDB(t), nil, time.Minute)
	ctx := context.Background()

	u := newUser("alice", "a")
	require.NoError(t, repo.Create(ctx, u))
	require.NoError(t, repo.Create(ctx, newUser("bob", "b")))

	u.Age = 41
	u.Hobbies = append(u.Hobbies, "c")
	require.NoError(t, repo.Update(ctx, u))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 41, got.Age)
	assert.Equal(t, []string{"a", "c"}, []string(got.Hobbies))

	u.Username = "bob"
	assert.Equal(t, models.CodeConflict, models.ErrorCode(repo.Update(ctx, u)))

	ghost := newUser("ghost", "x")
	ghost.ID = "missing"
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(repo.Update(ctx, ghost)))

	require.NoError(t, repo.Delete(ctx, u.ID))
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(repo.Delete(ctx, u.ID)))
}

func TestUserRepository_CacheInvalidation(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	repo := NewUserRepository(testutil.NewSQLiteDB(t), rdb, time.Minute)
	ctx := context.Background()

	u := newUser("alice", "a")
	require.NoError(t, repo.Create(ctx, u))

	_, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.UserKey(u.ID)))

	u.Age = 55
	require.NoError(t, repo.Update(ctx, u))
	assert.False(t, mr.Exists(cache.UserKey(u.ID)))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 55, got.Age)
}

func TestUserRepository_GetByIDUncachedSkipsStaleCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	db := testutil.NewSQLiteDB(t)
	repo := NewUserRepository(db, rdb, time.Minute)
	ctx := context.Background()

	u := newUser("alice", "a")
	require.NoError(t, repo.Create(ctx, u))
	_, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)

	// Write behind the repository's back so the cached row goes stale.
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", u.ID).
		Update("hobbies", datatypes.JSONSlice[string]{"a", "b"}).Error)

	cached, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, []string(cached.Hobbies))

	fresh, err := repo.GetByIDUncached(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, []string(fresh.Hobbies))

	_, err = repo.GetByIDUncached(ctx, "does-not-exist")
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}
