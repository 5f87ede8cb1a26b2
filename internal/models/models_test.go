package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestCanonicalPair(t *testing.T) {
	lo, hi := CanonicalPair("b", "a")
	assert.Equal(t, "a", lo)
	assert.Equal(t, "b", hi)

	lo, hi = CanonicalPair("a", "b")
	assert.Equal(t, "a", lo)
	assert.Equal(t, "b", hi)

	assert.Equal(t, EdgeID("x", "y"), EdgeID("y", "x"))
	assert.Equal(t, "x-y", EdgeID("y", "x"))
}

func TestFriendship_Other(t *testing.T) {
	f := NewFriendship("z", "m")
	assert.Equal(t, "m", f.UserID1)
	assert.Equal(t, "z", f.UserID2)
	assert.Equal(t, "z", f.Other("m"))
	assert.Equal(t, "m", f.Other("z"))
}

func TestUserView_CloneIsDeep(t *testing.T) {
	v := UserView{
		User:    User{ID: "1", Hobbies: datatypes.JSONSlice[string]{"chess"}},
		Friends: []string{"2"},
	}
	c := v.Clone()
	c.Hobbies[0] = "go"
	c.Friends[0] = "3"

	assert.Equal(t, "chess", v.Hobbies[0])
	assert.Equal(t, "2", v.Friends[0])
}

func TestErrorCode(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewConflictError("Username already exists"))
	assert.Equal(t, CodeConflict, ErrorCode(wrapped))
	assert.Equal(t, "", ErrorCode(errors.New("plain")))
	assert.Equal(t, 409, StatusFor(wrapped))
	assert.Equal(t, 404, StatusFor(NewNotFoundError("User not found")))
	assert.Equal(t, 400, StatusFor(NewInvalidArgumentError("Cannot link user to themselves")))
	assert.Equal(t, 500, StatusFor(errors.New("boom")))
}
