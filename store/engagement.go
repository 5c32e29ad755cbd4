package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/nexus/models"
)

// LikePost records userID's like on a post. Liking twice is a no-op: the
// (post, user) row in post_likes gates the counter increment.
func (s *Store) LikePost(ctx context.Context, postID, userID string) (*models.Post, error) {
	var out *models.Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := postExists(tx, postID); err != nil {
			return err
		}
		if err := userExists(tx, userID); err != nil {
			return err
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.PostLike{PostID: postID, UserID: userID})
		if res.Error != nil {
			return fmt.Errorf("insert post like: %w", res.Error)
		}
		if res.RowsAffected == 1 {
			if err := bump(tx, &models.Post{}, postID, "likes", 1); err != nil {
				return err
			}
		}
		p, err := getPost(tx, postID)
		out = p
		return err
	})
	return out, err
}

// UnlikePost removes userID's like. The counter only moves when a like row was
// actually deleted and never drops below zero.
func (s *Store) UnlikePost(ctx context.Context, postID, userID string) (*models.Post, error) {
	var out *models.Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := postExists(tx, postID); err != nil {
			return err
		}
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.PostLike{})
		if res.Error != nil {
			return fmt.Errorf("delete post like: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			if err := bump(tx, &models.Post{}, postID, "likes", -1); err != nil {
				return err
			}
		}
		p, err := getPost(tx, postID)
		out = p
		return err
	})
	return out, err
}

// SharePost increments the share counter unconditionally.
func (s *Store) SharePost(ctx context.Context, postID string) (*models.Post, error) {
	var out *models.Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := postExists(tx, postID); err != nil {
			return err
		}
		if err := bump(tx, &models.Post{}, postID, "shares", 1); err != nil {
			return err
		}
		p, err := getPost(tx, postID)
		out = p
		return err
	})
	return out, err
}

// HasLikedPost reports whether userID currently likes the post.
func (s *Store) HasLikedPost(ctx context.Context, postID, userID string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check post like: %w", err)
	}
	return n > 0, nil
}

// LikeComment is LikePost for comments.
func (s *Store) LikeComment(ctx context.Context, commentID, userID string) (*models.Comment, error) {
	var out *models.Comment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getComment(tx, commentID); err != nil {
			return err
		}
		if err := userExists(tx, userID); err != nil {
			return err
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.CommentLike{CommentID: commentID, UserID: userID})
		if res.Error != nil {
			return fmt.Errorf("insert comment like: %w", res.Error)
		}
		if res.RowsAffected == 1 {
			if err := bump(tx, &models.Comment{}, commentID, "likes", 1); err != nil {
				return err
			}
		}
		c, err := getComment(tx, commentID)
		out = c
		return err
	})
	return out, err
}

// UnlikeComment is UnlikePost for comments.
func (s *Store) UnlikeComment(ctx context.Context, commentID, userID string) (*models.Comment, error) {
	var out *models.Comment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getComment(tx, commentID); err != nil {
			return err
		}
		res := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&models.CommentLike{})
		if res.Error != nil {
			return fmt.Errorf("delete comment like: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			if err := bump(tx, &models.Comment{}, commentID, "likes", -1); err != nil {
				return err
			}
		}
		c, err := getComment(tx, commentID)
		out = c
		return err
	})
	return out, err
}

// bump atomically adds delta to column. Decrements are guarded so the stored value stays >= 0.
func bump(tx *gorm.DB, model interface{}, id, column string, delta int) error {
	q := tx.Model(model).Where("id = ?", id)
	if delta < 0 {
		q = q.Where(column+" >= ?", -delta)
	}
	if err := q.UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error; err != nil {
		return fmt.Errorf("update %s: %w", column, err)
	}
	return nil
}
