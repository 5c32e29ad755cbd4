package client

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyContent is returned when a post or comment has no text.
var ErrEmptyContent = errors.New("content cannot be empty")

// PostCreator persists new posts. *Client implements it.
type PostCreator interface {
	CreatePost(ctx context.Context, in NewPost) (Post, error)
}

// PostEngager persists likes and shares and returns the post with the
// server's counters. *Client implements it.
type PostEngager interface {
	LikePost(ctx context.Context, postID, userID string) (Post, error)
	UnlikePost(ctx context.Context, postID, userID string) (Post, error)
	SharePost(ctx context.Context, postID string) (Post, error)
}

// FeedState is the newest-first list of posts a viewer holds for a session.
//
// Engagement is applied locally first. With an engager attached the server's
// counters then replace the local ones, or the local change is undone when
// the request fails. Mutations on an id that is not in the list are no-ops.
type FeedState struct {
	mu      sync.RWMutex
	posts   []Post
	creator PostCreator
	engager PostEngager
	now     func() time.Time
}

// NewFeedState builds a feed. A nil creator inserts new posts immediately
// with a locally generated id; a nil engager keeps engagement local.
func NewFeedState(creator PostCreator, engager PostEngager, initial []Post) *FeedState {
	return &FeedState{
		posts:   slices.Clone(initial),
		creator: creator,
		engager: engager,
		now:     time.Now,
	}
}

// Posts returns a snapshot of the list.
func (f *FeedState) Posts() []Post {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.posts)
}

// Get returns the post with id, if present.
func (f *FeedState) Get(id string) (Post, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if i := f.index(id); i >= 0 {
		return f.posts[i], true
	}
	return Post{}, false
}

// Replace swaps in a freshly fetched list.
func (f *FeedState) Replace(posts []Post) {
	f.mu.Lock()
	f.posts = slices.Clone(posts)
	f.mu.Unlock()
}

// Append adds an older page to the end, skipping posts already held.
func (f *FeedState) Append(posts []Post) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range posts {
		if f.index(p.ID) < 0 {
			f.posts = append(f.posts, p)
		}
	}
}

// CreatePost prepends the server-confirmed post. On failure the list is untouched.
func (f *FeedState) CreatePost(ctx context.Context, in NewPost) (Post, error) {
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		return Post{}, ErrEmptyContent
	}

	var p Post
	if f.creator == nil {
		now := f.now()
		p = Post{
			ID:        uuid.NewString(),
			AuthorID:  in.AuthorID,
			Content:   in.Content,
			ImageURL:  in.ImageURL,
			LikedBy:   []string{},
			Timestamp: now,
			CreatedAt: now,
		}
	} else {
		created, err := f.creator.CreatePost(ctx, in)
		if err != nil {
			return Post{}, err
		}
		p = created
	}

	f.mu.Lock()
	f.posts = append([]Post{p}, f.posts...)
	f.mu.Unlock()
	return p, nil
}

// Like marks postID liked by userID.
func (f *FeedState) Like(ctx context.Context, postID, userID string) error {
	changed := f.update(postID, func(p Post) Post { return LikePost(p, userID) })
	if !changed || f.engager == nil {
		return nil
	}
	return f.sync(postID,
		func() (Post, error) { return f.engager.LikePost(ctx, postID, userID) },
		func(p Post) Post { return UnlikePost(p, userID) })
}

// Unlike removes userID's like from postID. LikedBy is not filled from the
// server, so with an engager attached the request is sent even when the like
// is unknown locally; the server's counters then apply and there is nothing to undo.
func (f *FeedState) Unlike(ctx context.Context, postID, userID string) error {
	if _, ok := f.Get(postID); !ok {
		return nil
	}
	changed := f.update(postID, func(p Post) Post { return UnlikePost(p, userID) })
	if f.engager == nil {
		return nil
	}
	undo := func(p Post) Post { return LikePost(p, userID) }
	if !changed {
		undo = nil
	}
	return f.sync(postID,
		func() (Post, error) { return f.engager.UnlikePost(ctx, postID, userID) },
		undo)
}

// Share counts one share of postID.
func (f *FeedState) Share(ctx context.Context, postID string) error {
	changed := f.update(postID, SharePost)
	if !changed || f.engager == nil {
		return nil
	}
	return f.sync(postID,
		func() (Post, error) { return f.engager.SharePost(ctx, postID) },
		func(p Post) Post {
			p.Shares = max(p.Shares-1, 0)
			return p
		})
}

// CommentAdded bumps postID's comment count.
func (f *FeedState) CommentAdded(postID string) {
	f.update(postID, AddComment)
}

// update replaces the post with fn(post) and reports whether anything changed.
func (f *FeedState) update(postID string, fn func(Post) Post) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.index(postID)
	if i < 0 {
		return false
	}
	before := f.posts[i]
	after := fn(before)
	f.posts[i] = after
	return after.Likes != before.Likes || after.Shares != before.Shares ||
		after.Comments != before.Comments || !slices.Equal(after.LikedBy, before.LikedBy)
}

// sync runs the remote call, then adopts the server counters or applies undo (if any).
func (f *FeedState) sync(postID string, remote func() (Post, error), undo func(Post) Post) error {
	server, err := remote()
	if err != nil {
		if undo != nil {
			f.update(postID, undo)
		}
		return err
	}
	f.update(postID, func(p Post) Post {
		p.Likes, p.Comments, p.Shares = server.Likes, server.Comments, server.Shares
		return p
	})
	return nil
}

func (f *FeedState) index(id string) int {
	return slices.IndexFunc(f.posts, func(p Post) bool { return p.ID == id })
}
