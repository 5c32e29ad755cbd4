package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a feed member. Username is unique and, by convention, never changes.
// Followers and Following are denormalised counters, not derived from a relationship table.
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Username  string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	AvatarURL string    `gorm:"size:512" json:"avatarUrl,omitempty"`
	Bio       string    `gorm:"size:512" json:"bio,omitempty"`
	Followers int       `gorm:"not null;default:0" json:"followers"`
	Following int       `gorm:"not null;default:0" json:"following"`
	Verified  bool      `gorm:"not null;default:false" json:"verified"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a random id and ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// Follow records that FollowerID follows FolloweeID. The composite key makes following idempotent.
type Follow struct {
	FollowerID string    `gorm:"primaryKey;size:36" json:"followerId"`
	FolloweeID string    `gorm:"primaryKey;size:36;index" json:"followeeId"`
	CreatedAt  time.Time `json:"createdAt"`
}
