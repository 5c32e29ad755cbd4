package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a reply to a post. Comments are immutable once created.
type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	PostID    string    `gorm:"size:36;index;not null" json:"postId"`
	AuthorID  string    `gorm:"size:36;index;not null" json:"authorId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Likes     int       `gorm:"not null;default:0" json:"likes"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	Author    *User     `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author,omitempty"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CommentLike records that a user liked a comment.
type CommentLike struct {
	CommentID string    `gorm:"primaryKey;size:36" json:"commentId"`
	UserID    string    `gorm:"primaryKey;size:36;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// All lists every model the store migrates.
func All() []interface{} {
	return []interface{}{&User{}, &Follow{}, &Post{}, &PostLike{}, &Comment{}, &CommentLike{}}
}
