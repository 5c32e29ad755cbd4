package store

import (
	"context"
	"fmt"

	"github.com/cppla/nexus/models"
)

// Totals are row counts across the store.
type Totals struct {
	Users    int64 `json:"users"`
	Posts    int64 `json:"posts"`
	Comments int64 `json:"comments"`
}

// PostStats compares a post's stored counters with a recount of the backing rows.
type PostStats struct {
	PostID        string `json:"postId"`
	Likes         int    `json:"likes"`
	LikeRows      int64  `json:"likeRows"`
	CommentsCount int    `json:"commentsCount"`
	CommentRows   int64  `json:"commentRows"`
	Shares        int    `json:"shares"`
	Drift         bool   `json:"drift"`
}

// Totals counts users, posts and comments. Counts that fail are reported as zero.
func (s *Store) Totals(ctx context.Context) Totals {
	var t Totals
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.User{}).Count(&t.Users).Error; err != nil {
		t.Users = 0
	}
	if err := db.Model(&models.Post{}).Count(&t.Posts).Error; err != nil {
		t.Posts = 0
	}
	if err := db.Model(&models.Comment{}).Count(&t.Comments).Error; err != nil {
		t.Comments = 0
	}
	return t
}

// PostStats loads the counters of one post alongside the real row counts.
func (s *Store) PostStats(ctx context.Context, postID string) (*PostStats, error) {
	db := s.db.WithContext(ctx)
	p, err := getPost(db, postID)
	if err != nil {
		return nil, err
	}
	st := &PostStats{PostID: p.ID, Likes: p.Likes, CommentsCount: p.CommentsCount, Shares: p.Shares}
	if err := db.Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&st.LikeRows).Error; err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	if err := db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&st.CommentRows).Error; err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	st.Drift = int64(st.Likes) != st.LikeRows || int64(st.CommentsCount) != st.CommentRows
	return st, nil
}

const (
	reconcileCommentsCount = `UPDATE posts SET comments_count = (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id)
WHERE comments_count <> (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id)`
	reconcilePostLikes = `UPDATE posts SET likes = (SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = posts.id)
WHERE likes <> (SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = posts.id)`
	reconcileCommentLikes = `UPDATE comments SET likes = (SELECT COUNT(*) FROM comment_likes WHERE comment_likes.comment_id = comments.id)
WHERE likes <> (SELECT COUNT(*) FROM comment_likes WHERE comment_likes.comment_id = comments.id)`
	reconcileFollowers = `UPDATE users SET followers = (SELECT COUNT(*) FROM follows WHERE follows.followee_id = users.id)
WHERE followers <> (SELECT COUNT(*) FROM follows WHERE follows.followee_id = users.id)`
	reconcileFollowing = `UPDATE users SET following = (SELECT COUNT(*) FROM follows WHERE follows.follower_id = users.id)
WHERE following <> (SELECT COUNT(*) FROM follows WHERE follows.follower_id = users.id)`
)

// ReconcileCounters rewrites every counter that disagrees with its backing rows
// and returns how many rows were corrected.
func (s *Store) ReconcileCounters(ctx context.Context) (int64, error) {
	var fixed int64
	db := s.db.WithContext(ctx)
	for _, stmt := range []string{reconcileCommentsCount, reconcilePostLikes, reconcileCommentLikes, reconcileFollowers, reconcileFollowing} {
		res := db.Exec(stmt)
		if res.Error != nil {
			return fixed, fmt.Errorf("reconcile counters: %w", res.Error)
		}
		fixed += res.RowsAffected
	}
	return fixed, nil
}
