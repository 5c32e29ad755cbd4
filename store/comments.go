package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/nexus/models"
)

// ListComments returns the comments on a post, newest first.
func (s *Store) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	db := s.db.WithContext(ctx)
	if err := postExists(db, postID); err != nil {
		return nil, err
	}
	comments := []models.Comment{}
	if err := recency(db.Where("post_id = ?", postID)).Preload("Author").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// CreateComment inserts c and bumps the post's commentsCount by one in the same
// transaction, so a failed insert never moves the counter.
func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := postExists(tx, c.PostID); err != nil {
			return err
		}
		if err := userExists(tx, c.AuthorID); err != nil {
			return err
		}
		c.Likes = 0
		if err := tx.Create(c).Error; err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		res := tx.Model(&models.Post{}).Where("id = ?", c.PostID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + ?", 1))
		if res.Error != nil {
			return fmt.Errorf("increment comments_count: %w", res.Error)
		}
		return nil
	})
	if err != nil {
		return err
	}
	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", c.AuthorID).Error; err == nil {
		c.Author = &author
	}
	return nil
}

// GetComment loads one comment with its author.
func (s *Store) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	return getComment(s.db.WithContext(ctx), id)
}

func getComment(tx *gorm.DB, id string) (*models.Comment, error) {
	var c models.Comment
	if err := tx.Preload("Author").First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load comment: %w", err)
	}
	return &c, nil
}
