package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxContentRunes caps post and comment text.
const MaxContentRunes = 280

// Post is a short text/image entry in the feed.
// CommentsCount is an independent counter bumped on comment creation, not a live COUNT(*).
type Post struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	AuthorID      string    `gorm:"size:36;index;not null" json:"authorId"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	ImageURL      string    `gorm:"size:1024" json:"imageUrl,omitempty"`
	Likes         int       `gorm:"not null;default:0" json:"likes"`
	CommentsCount int       `gorm:"not null;default:0" json:"commentsCount"`
	Shares        int       `gorm:"not null;default:0" json:"shares"`
	CreatedAt     time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Author        *User     `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author,omitempty"`
}

// BeforeCreate assigns a random id when the caller did not.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PostLike records that a user liked a post. The composite key makes likes idempotent.
type PostLike struct {
	PostID    string    `gorm:"primaryKey;size:36" json:"postId"`
	UserID    string    `gorm:"primaryKey;size:36;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
