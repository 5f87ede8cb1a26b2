package service

import (
	"context"
	"errors"
	"testing"

	"usergraph/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestSharedHobbies(t *testing.T) {
	tests := []struct {
		name   string
		mine   []string
		theirs []string
		want   int
	}{
		{"one shared", []string{"reading", "gaming"}, []string{"reading", "cooking"}, 1},
		{"none shared", []string{"a"}, []string{"b"}, 0},
		{"duplicates in mine count twice", []string{"chess", "chess"}, []string{"chess"}, 2},
		{"duplicates in theirs count once", []string{"chess"}, []string{"chess", "chess"}, 1},
		{"case sensitive", []string{"Chess"}, []string{"chess"}, 0},
		{"empty", nil, []string{"x"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SharedHobbies(tt.mine, tt.theirs))
		})
	}
}

func TestScore(t *testing.T) {
	assert.Equal(t, 0.0, Score(0, 0))
	assert.Equal(t, 1.5, Score(1, 1))
	assert.Equal(t, 3.5, Score(2, 3))
	assert.Equal(t, 0.3, roundHalfUp(0.25, 1))
	assert.Equal(t, 1.2, roundHalfUp(1.24, 1))
}

func usersByID(users ...models.User) func(context.Context, string) (*models.User, error) {
	m := make(map[string]models.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return func(_ context.Context, id string) (*models.User, error) {
		u, ok := m[id]
		if !ok {
			return nil, models.NewNotFoundError("User not found")
		}
		return &u, nil
	}
}

func hobbies(h ...string) datatypes.JSONSlice[string] { return datatypes.JSONSlice[string](h) }

func TestPopularityCalculator_Calculate(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = usersByID(
		models.User{ID: "a", Hobbies: hobbies("reading", "gaming")},
		models.User{ID: "b", Hobbies: hobbies("reading", "cooking")},
		models.User{ID: "c", Hobbies: hobbies("gaming", "reading")},
	)
	friends := noopFriendRepo()
	friends.friendIDsFn = func(_ context.Context, id string) ([]string, error) {
		switch id {
		case "a":
			return []string{"b", "c"}, nil
		case "b":
			return []string{"a"}, nil
		}
		return []string{}, nil
	}

	calc := NewPopularityCalculator(users, friends)
	ctx := context.Background()

	score, err := calc.Calculate(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 3.5, score) // 2 friends + 0.5 × (1 + 2)

	score, err = calc.Calculate(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 1.5, score)

	score, err = calc.Calculate(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestPopularityCalculator_VanishedFriendStillCounts(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = usersByID(models.User{ID: "a", Hobbies: hobbies("x")})
	friends := noopFriendRepo()
	friends.friendIDsFn = func(context.Context, string) ([]string, error) { return []string{"gone"}, nil }

	score, err := NewPopularityCalculator(users, friends).Calculate(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestPopularityCalculator_PropagatesStoreErrors(t *testing.T) {
	boom := errors.New("db down")
	users := noopUserRepo()
	users.getByIDFn = func(context.Context, string) (*models.User, error) { return nil, models.NewInternalError(boom) }

	_, err := NewPopularityCalculator(users, noopFriendRepo()).Calculate(context.Background(), "a")
	assert.ErrorIs(t, err, boom)
}
