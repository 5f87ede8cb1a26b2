package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"usergraph/internal/models"
	"usergraph/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUsers(t *testing.T, db *gorm.DB, names ...string) []*models.User {
	t.Helper()
	repo := NewUserRepository(db, nil, time.Minute)
	out := make([]*models.User, 0, len(names))
	for _, n := range names {
		u := newUser(n, "h")
		require.NoError(t, repo.Create(context.Background(), u))
		out = append(out, u)
	}
	return out
}

func TestFriendRepository_CreateIsCanonical(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	users := seedUsers(t, db, "a", "b")
	repo := NewFriendRepository(db)
	ctx := context.Background()

	f, err := repo.Create(ctx, users[0].ID, users[1].ID)
	require.NoError(t, err)
	lo, hi := models.CanonicalPair(users[0].ID, users[1].ID)
	assert.Equal(t, lo, f.UserID1)
	assert.Equal(t, hi, f.UserID2)

	_, err = repo.Create(ctx, users[1].ID, users[0].ID)
	assert.Equal(t, models.CodeConflict, models.ErrorCode(err))

	exists, err := repo.Exists(ctx, users[1].ID, users[0].ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFriendRepository_ConcurrentCreateOneWins(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	users := seedUsers(t, db, "a", "b")
	repo := NewFriendRepository(db)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, errs[i] = repo.Create(context.Background(), users[0].ID, users[1].ID)
			} else {
				_, errs[i] = repo.Create(context.Background(), users[1].ID, users[0].ID)
			}
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.Equal(t, models.CodeConflict, models.ErrorCode(err))
	}
	assert.Equal(t, 1, ok)
}

func TestFriendRepository_FriendIDsAndRemove(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	users := seedUsers(t, db, "a", "b", "c")
	repo := NewFriendRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, users[0].ID, users[1].ID)
	require.NoError(t, err)
	_, err = repo.Create(ctx, users[2].ID, users[0].ID)
	require.NoError(t, err)

	ids, err := repo.FriendIDs(ctx, users[0].ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{users[1].ID, users[2].ID}, ids)

	count, err := repo.CountForUser(ctx, users[0].ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	removed, err := repo.RemoveFriendship(ctx, users[1].ID, users[0].ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.RemoveFriendship(ctx, users[1].ID, users[0].ID)
	require.NoError(t, err)
	assert.False(t, removed)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFriendRepository_CascadeOnUserDelete(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	users := seedUsers(t, db, "a", "b")
	friends := NewFriendRepository(db)
	ctx := context.Background()

	_, err := friends.Create(ctx, users[0].ID, users[1].ID)
	require.NoError(t, err)

	require.NoError(t, NewUserRepository(db, nil, time.Minute).Delete(ctx, users[0].ID))

	all, err := friends.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
