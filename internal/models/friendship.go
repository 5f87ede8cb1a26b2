package models

import "time"

// Friendship is an undirected edge between two users.
// UserID1 is always the lexicographically smaller id of the pair.
type Friendship struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID1   string    `gorm:"column:user_id_1;type:varchar(36);not null;uniqueIndex:idx_friendship_pair" json:"userId1"`
	UserID2   string    `gorm:"column:user_id_2;type:varchar(36);not null;uniqueIndex:idx_friendship_pair;index:idx_friendships_user_id_2" json:"userId2"`
	CreatedAt time.Time `json:"createdAt"`

	User1 User `gorm:"foreignKey:UserID1;constraint:OnDelete:CASCADE" json:"-"`
	User2 User `gorm:"foreignKey:UserID2;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (Friendship) TableName() string {
	return "friendships"
}

// NewFriendship builds a friendship row with its pair in canonical order.
func NewFriendship(a, b string) Friendship {
	lo, hi := CanonicalPair(a, b)
	return Friendship{UserID1: lo, UserID2: hi}
}

// Other returns the id on the opposite end of the edge from id.
func (f Friendship) Other(id string) string {
	if f.UserID1 == id {
		return f.UserID2
	}
	return f.UserID1
}

// CanonicalPair orders two ids so that the smaller one comes first.
func CanonicalPair(a, b string) (string, string) {
	if a <= b {
		return a, b
	}
	return b, a
}

// EdgeID returns the stable identifier of the edge between a and b.
func EdgeID(a, b string) string {
	lo, hi := CanonicalPair(a, b)
	return lo + "-" + hi
}
