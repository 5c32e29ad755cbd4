package client

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CommentCreator persists new comments. *Client implements it.
type CommentCreator interface {
	CreateComment(ctx context.Context, postID string, in NewComment) (Comment, error)
}

// CommentEngager persists comment likes. *Client implements it.
type CommentEngager interface {
	LikeComment(ctx context.Context, commentID, userID string) (Comment, error)
	UnlikeComment(ctx context.Context, commentID, userID string) (Comment, error)
}

// CommentState holds comments per post, newest first. When a feed is
// attached, every added comment bumps the post's count there as well.
type CommentState struct {
	mu      sync.RWMutex
	byPost  map[string][]Comment
	creator CommentCreator
	engager CommentEngager
	feed    *FeedState
	now     func() time.Time
}

// NewCommentState builds the store. Any argument may be nil.
func NewCommentState(creator CommentCreator, engager CommentEngager, feed *FeedState) *CommentState {
	return &CommentState{
		byPost:  map[string][]Comment{},
		creator: creator,
		engager: engager,
		feed:    feed,
		now:     time.Now,
	}
}

// Set stores the fetched comments of postID, sorted newest first.
func (s *CommentState) Set(postID string, comments []Comment) {
	sorted := slices.Clone(comments)
	slices.SortStableFunc(sorted, func(a, b Comment) int { return b.CreatedAt.Compare(a.CreatedAt) })
	s.mu.Lock()
	s.byPost[postID] = sorted
	s.mu.Unlock()
}

// Comments returns the comments of postID, newest first.
func (s *CommentState) Comments(postID string) []Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.byPost[postID])
}

// Add creates a comment and puts it at the head of postID's list.
func (s *CommentState) Add(ctx context.Context, postID string, in NewComment) (Comment, error) {
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		return Comment{}, ErrEmptyContent
	}

	var c Comment
	if s.creator == nil {
		c = Comment{
			ID:        uuid.NewString(),
			PostID:    postID,
			AuthorID:  in.AuthorID,
			Content:   in.Content,
			LikedBy:   []string{},
			CreatedAt: s.now(),
		}
	} else {
		created, err := s.creator.CreateComment(ctx, postID, in)
		if err != nil {
			return Comment{}, err
		}
		c = created
	}

	s.mu.Lock()
	s.byPost[postID] = append([]Comment{c}, s.byPost[postID]...)
	s.mu.Unlock()

	if s.feed != nil {
		s.feed.CommentAdded(postID)
	}
	return c, nil
}

// Like marks commentID liked by userID.
func (s *CommentState) Like(ctx context.Context, commentID, userID string) error {
	if !s.update(commentID, func(c Comment) Comment { return LikeComment(c, userID) }) || s.engager == nil {
		return nil
	}
	server, err := s.engager.LikeComment(ctx, commentID, userID)
	if err != nil {
		s.update(commentID, func(c Comment) Comment { return UnlikeComment(c, userID) })
		return err
	}
	s.update(commentID, func(c Comment) Comment {
		c.Likes = server.Likes
		return c
	})
	return nil
}

// Unlike removes userID's like from commentID. As with FeedState.Unlike the
// request goes out even when the like is unknown locally.
func (s *CommentState) Unlike(ctx context.Context, commentID, userID string) error {
	if !s.has(commentID) {
		return nil
	}
	changed := s.update(commentID, func(c Comment) Comment { return UnlikeComment(c, userID) })
	if s.engager == nil {
		return nil
	}
	server, err := s.engager.UnlikeComment(ctx, commentID, userID)
	if err != nil {
		if changed {
			s.update(commentID, func(c Comment) Comment { return LikeComment(c, userID) })
		}
		return err
	}
	s.update(commentID, func(c Comment) Comment {
		c.Likes = server.Likes
		return c
	})
	return nil
}

func (s *CommentState) update(commentID string, fn func(Comment) Comment) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for postID, list := range s.byPost {
		i := slices.IndexFunc(list, func(c Comment) bool { return c.ID == commentID })
		if i < 0 {
			continue
		}
		before := list[i]
		after := fn(before)
		list[i] = after
		s.byPost[postID] = list
		return after.Likes != before.Likes || !slices.Equal(after.LikedBy, before.LikedBy)
	}
	return false
}

func (s *CommentState) has(commentID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, list := range s.byPost {
		if slices.ContainsFunc(list, func(c Comment) bool { return c.ID == commentID }) {
			return true
		}
	}
	return false
}
