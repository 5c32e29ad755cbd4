package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/nexus/models"
)

// Follow makes followerID follow followeeID and returns the followee. Following
// twice is a no-op; both users' counters move only when a new row is inserted.
func (s *Store) Follow(ctx context.Context, followeeID, followerID string) (*models.User, error) {
	if followeeID == followerID {
		return nil, ErrSelfFollow
	}
	var out *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := userExists(tx, followeeID); err != nil {
			return err
		}
		if err := userExists(tx, followerID); err != nil {
			return err
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Follow{FollowerID: followerID, FolloweeID: followeeID})
		if res.Error != nil {
			return fmt.Errorf("insert follow: %w", res.Error)
		}
		if res.RowsAffected == 1 {
			if err := bump(tx, &models.User{}, followeeID, "followers", 1); err != nil {
				return err
			}
			if err := bump(tx, &models.User{}, followerID, "following", 1); err != nil {
				return err
			}
		}
		u, err := getUser(tx, followeeID)
		out = u
		return err
	})
	return out, err
}

// Unfollow removes the follow row, if any. Counters never drop below zero.
func (s *Store) Unfollow(ctx context.Context, followeeID, followerID string) (*models.User, error) {
	if followeeID == followerID {
		return nil, ErrSelfFollow
	}
	var out *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := userExists(tx, followeeID); err != nil {
			return err
		}
		res := tx.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).Delete(&models.Follow{})
		if res.Error != nil {
			return fmt.Errorf("delete follow: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			if err := bump(tx, &models.User{}, followeeID, "followers", -1); err != nil {
				return err
			}
			if err := bump(tx, &models.User{}, followerID, "following", -1); err != nil {
				return err
			}
		}
		u, err := getUser(tx, followeeID)
		out = u
		return err
	})
	return out, err
}

// IsFollowing reports whether followerID follows followeeID.
func (s *Store) IsFollowing(ctx context.Context, followeeID, followerID string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check follow: %w", err)
	}
	return n > 0, nil
}
