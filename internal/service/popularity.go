// Package service contains the graph business logic on top of the repositories.
package service

import (
	"context"
	"math"
	"time"

	"usergraph/internal/middleware"
	"usergraph/internal/models"
	"usergraph/internal/repository"
)

// PopularityCalculator derives a user's popularity score from the current
// friendship and hobby state. Scores are never stored.
type PopularityCalculator struct {
	users   repository.UserRepository
	friends repository.FriendRepository
}

// NewPopularityCalculator returns a new PopularityCalculator.
func NewPopularityCalculator(users repository.UserRepository, friends repository.FriendRepository) *PopularityCalculator {
	return &PopularityCalculator{users: users, friends: friends}
}

// Calculate returns friends + 0.5 × shared hobbies summed over friends, rounded
// to one decimal. A user that does not exist scores 0. Each friend is loaded
// with its own query.
func (p *PopularityCalculator) Calculate(ctx context.Context, userID string) (float64, error) {
	user, err := p.users.GetByID(ctx, userID)
	if err != nil {
		if models.ErrorCode(err) == models.CodeNotFound {
			return 0, nil
		}
		return 0, err
	}

	friendIDs, err := p.friends.FriendIDs(ctx, userID)
	if err != nil {
		return 0, err
	}

	return p.score(ctx, user, friendIDs)
}

// score is shared by Calculate and the user views; every score computed is
// timed here.
func (p *PopularityCalculator) score(ctx context.Context, user *models.User, friendIDs []string) (float64, error) {
	start := time.Now()
	defer func() { middleware.PopularityComputeDuration.Observe(time.Since(start).Seconds()) }()

	shared := 0
	for _, id := range friendIDs {
		friend, err := p.users.GetByID(ctx, id)
		if err != nil {
			// A friend removed between the two reads no longer contributes hobbies.
			if models.ErrorCode(err) == models.CodeNotFound {
				continue
			}
			return 0, err
		}
		shared += SharedHobbies(user.Hobbies, friend.Hobbies)
	}
	return Score(len(friendIDs), shared), nil
}

// SharedHobbies counts the entries of mine that also appear in theirs.
// Duplicates in mine are counted each time.
func SharedHobbies(mine, theirs []string) int {
	set := make(map[string]struct{}, len(theirs))
	for _, h := range theirs {
		set[h] = struct{}{}
	}
	n := 0
	for _, h := range mine {
		if _, ok := set[h]; ok {
			n++
		}
	}
	return n
}

// Score combines the friend count and the shared-hobby total.
func Score(friendCount, sharedHobbies int) float64 {
	return roundHalfUp(float64(friendCount)+0.5*float64(sharedHobbies), 1)
}

func roundHalfUp(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Floor(v*pow+0.5) / pow
}
