// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is a node in the friendship graph.
type User struct {
	ID        string                      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username  string                      `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Age       int                         `gorm:"not null" json:"age"`
	Hobbies   datatypes.JSONSlice[string] `gorm:"not null" json:"hobbies"`
	CreatedAt time.Time                   `gorm:"index:idx_users_created_at" json:"createdAt"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID and normalizes a nil hobby list.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Hobbies == nil {
		u.Hobbies = datatypes.JSONSlice[string]{}
	}
	return nil
}

// HasHobby reports whether the user already lists hobby (exact match).
func (u *User) HasHobby(hobby string) bool {
	for _, h := range u.Hobbies {
		if h == hobby {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the user.
func (u User) Clone() User {
	out := u
	out.Hobbies = append(datatypes.JSONSlice[string]{}, u.Hobbies...)
	return out
}

// UserView is the enriched user shape returned by the API.
type UserView struct {
	User
	Friends         []string `json:"friends"`
	PopularityScore float64  `json:"popularityScore"`
}

// Clone returns a deep copy of the view.
func (v UserView) Clone() UserView {
	return UserView{
		User:            v.User.Clone(),
		Friends:         append([]string{}, v.Friends...),
		PopularityScore: v.PopularityScore,
	}
}
