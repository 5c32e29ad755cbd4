package store_test

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/nexus/models"
	"github.com/cppla/nexus/store"
	"github.com/cppla/nexus/store/storetest"
)

func TestParsePagination(t *testing.T) {
	cases := []struct {
		page, limit         string
		wantPage, wantLimit int
	}{
		{"", "", 1, 10},
		{"3", "20", 3, 20},
		{"0", "0", 1, 10},
		{"-2", "-5", 1, 10},
		{"abc", "x", 1, 10},
		{"2", "500", 2, 100},
		{"1.5", "7", 1, 7},
	}
	for _, c := range cases {
		page, limit := store.ParsePagination(c.page, c.limit, 10, 100)
		assert.Equal(t, c.wantPage, page, "page=%q", c.page)
		assert.Equal(t, c.wantLimit, limit, "limit=%q", c.limit)
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, store.Offset(1, 10))
	assert.Equal(t, 20, store.Offset(3, 10))
	assert.Equal(t, 0, store.Offset(0, 10))
	assert.Equal(t, 0, store.Offset(2, 0))
}

func TestListPostsWindows(t *testing.T) {
	ctx := context.Background()
	st := storetest.New(t)
	author := storetest.User(t, st, "alice")
	storetest.Posts(t, st, author, 23)

	first, err := st.ListPosts(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, first.Items, 10)
	assert.EqualValues(t, 23, first.Total)
	assert.Equal(t, "post-22", first.Items[0].Content)
	require.NotNil(t, first.Items[0].Author)
	assert.Equal(t, "alice", first.Items[0].Author.Username)

	third, err := st.ListPosts(ctx, 3, 10)
	require.NoError(t, err)
	require.Len(t, third.Items, 3)
	assert.Equal(t, "post-2", third.Items[0].Content)
	assert.Equal(t, "post-0", third.Items[2].Content)

	fourth, err := st.ListPosts(ctx, 4, 10)
	require.NoError(t, err)
	assert.Empty(t, fourth.Items)
	assert.NotNil(t, fourth.Items)
	assert.EqualValues(t, 23, fourth.Total)
}

func TestListPostsPagesCoverFeedWithoutGapsOrDuplicates(t *testing.T) {
	ctx := context.Background()
	st := storetest.New(t)
	author := storetest.User(t, st, "bob")
	posts := storetest.Posts(t, st, author, 17)

	for limit := 1; limit <= 18; limit++ {
		var got []string
		for page := 1; ; page++ {
			res, err := st.ListPosts(ctx, page, limit)
			require.NoError(t, err)
			if len(res.Items) == 0 {
				break
			}
			for _, p := range res.Items {
				got = append(got, p.ID)
			}
		}
		require.Len(t, got, len(posts), "limit=%d", limit)
		for i, id := range got {
			assert.Equal(t, posts[len(posts)-1-i].ID, id, "limit=%d index=%d", limit, i)
		}
	}
}

func TestListPostsByAuthor(t *testing.T) {
	ctx := context.Background()
	st := storetest.New(t)
	alice := storetest.User(t, st, "alice")
	bob := storetest.User(t, st, "bob")
	storetest.Posts(t, st, alice, 3)
	storetest.Posts(t, st, bob, 2)

	res, err := st.ListPostsByAuthor(ctx, bob.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)
	for _, p := range res.Items {
		assert.Equal(t, bob.ID, p.AuthorID)
	}
}

func TestCreateUserRejectsDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	st := storetest.New(t)
	storetest.User(t, st, "carol")

	err := st.CreateUser(ctx, &models.User{Username: "carol", Name: "Other"})
	assert.ErrorIs(t, err, store.ErrUsernameTaken)

	users, err := st.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestEnsureDemoUser(t *testing.T) {
	ctx := context.Background()
	st := storetest.New(t)

	created, err := st.EnsureDemoUser(ctx)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = st.EnsureDemoUser(ctx)
	require.NoError(t, err)
	assert.False(t, created)

	users, err := st.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "demo", users[0].Username)
}

func TestCreatePostRequiresExistingAuthor(t *testing.T) {
	st := storetest.New(t)
	err := st.CreatePost(context.Background(), &models.Post{AuthorID: "missing", Content: "hi"})
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestCreatePostResetsCounters(t *testing.T) {
	st := storetest.New(t)
	u := storetest.User(t, st, "dave")
	p := &models.Post{AuthorID: u.ID, Content: "hello", Likes: 99, Shares: 5, CommentsCount: 3}
	require.NoError(t, st.CreatePost(context.Background(), p))
	assert.NotEmpty(t, p.ID)
	assert.Zero(t, p.Likes)
	assert.Zero(t, p.Shares)
	assert.Zero(t, p.CommentsCount)
	require.NotNil(t, p.Author)
	assert.Equal(t, "dave", p.Author.Username)
}

func TestGetPostNotFound(t *testing.T) {
	st := storetest.New(t)
	_, err := st.GetPost(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateCommentIncrementsCount(t *testing.T) {
	ctx := context.Background()
	st := storetest.New(t)
	u := storetest.User(t, st, "erin")
	post := storetest.Posts(t, st, u, 1)[0]

	for i := 0; i < 3; i++ {
		c := &models.Comment{PostID: post.ID, AuthorID: u.ID, Content: fmt.Sprintf("c%d", i)}
		require.NoError(t, st.CreateComment(ctx, c))
		require.NotNil(t, c.Author)

		got, err := st.GetPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, i+1, got.CommentsCount)
	}

	comments, err := st.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "c2", comments[0].Content)
}

func TestCreateCommentFailureLeavesCountUnchanged(t *testing.T) {
	ctx := context.Background()
	st := storetest.New(t)
	u := storetest.User(t, st, "frank")
	post := storetest.Posts(t, st, u, 1)[0]

	err := st.CreateComment(ctx, &models.Comment{PostID: post.ID, AuthorID: "ghost", Content: "x"})
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	err = st.CreateComment(ctx, &models.Comment{PostID: "missing", AuthorID: u.ID, Content: "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	got, err := st.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, got.CommentsCount)
}

func TestListCommentsMissingPost(t *testing.T) {
	st := storetest.New(t)
	_, err := st.ListComments(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLikePostIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := storetest.New(t)
	u := storetest.User(t, st, "gina")
	post := storetest.Posts(t, st, u, 1)[0]

	p, err := st.LikePost(ctx, post.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Likes)

	p, err = st.LikePost(ctx, post.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Likes)

	liked, err := st.HasLikedPost(ctx, post.ID, u.ID)
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestUnlikePostRestoresAndNeverGoesNegative(t *testing.T) {
	ctx := context.Background()
	st := storetest.New(t)
	u := storetest.User(t, st, "hank")
	other := storetest.User(t, st, "ivy")
	post := storetest.Posts(t, st, u, 1)[0]

	p, err := st.UnlikePost(ctx, post.ID, u.ID)
	require.NoError(t, err)
	assert.Zero(t, p.Likes)

	_, err = st.LikePost(ctx, post.ID, u.ID)
	require.NoError(t, err)
	_, err = st.LikePost(ctx, post.ID, other.ID)
	require.NoError(t, err)

	p, err = st.UnlikePost(ctx, post.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Likes)

	p, err = st.UnlikePost(ctx, post.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Likes)

	liked, err := st.HasLikedPost(ctx, post.ID, u.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestLikePostErrors(t *testing.T) {
	ctx := context.Background()
	st := storetest.New(t)
	u := storetest.User(t, st, "jack")
	post := storetest.Posts(t, st, u, 1)[0]

	_, err := st.LikePost(ctx, "missing", u.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.LikePost(ctx, post.ID, "ghost")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestSharePostAlwaysIncrements(t *testing.T) {
	ctx := context.Background()
	st := storetest.New(t)
	u := storetest.User(t, st, "kim")
	post := storetest.Posts(t, st, u, 1)[0]

	for i := 1; i <= 3; i++ {
		p, err := st.SharePost(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, i, p.Shares)
	}
	_, err := st.SharePost(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCommentLikes(t *testing.T) {
	ctx := context.Background()
	st := storetest.New(t)
	u := storetest.User(t, st, "lena")
	post := storetest.Posts(t, st, u, 1)[0]
	c := &models.Comment{PostID: post.ID, AuthorID: u.ID, Content: "nice"}
	require.NoError(t, st.CreateComment(ctx, c))

	got, err := st.LikeComment(ctx, c.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Likes)
	got, err = st.LikeComment(ctx, c.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Likes)

	got, err = st.UnlikeComment(ctx, c.ID, u.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Likes)
	got, err = st.UnlikeComment(ctx, c.ID, u.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Likes)

	_, err = st.LikeComment(ctx, "missing", u.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	st := storetest.New(t)
	u := &models.User{Username: "gopher", Name: "Go Pher", Bio: "Loves Channels"}
	require.NoError(t, st.CreateUser(ctx, u))
	storetest.User(t, st, "other")
	require.NoError(t, st.CreatePost(ctx, &models.Post{AuthorID: u.ID, Content: "Channels are neat"}))
	require.NoError(t, st.CreatePost(ctx, &models.Post{AuthorID: u.ID, Content: "nothing here"}))

	users, posts, err := st.Search(ctx, "  CHANNELS ", 20)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "gopher", users[0].Username)
	require.Len(t, posts, 1)
	assert.Equal(t, "Channels are neat", posts[0].Content)

	users, posts, err = st.Search(ctx, "   ", 20)
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Empty(t, posts)
}

func TestStatsAndReconcile(t *testing.T) {
	ctx := context.Background()
	st := storetest.New(t)
	u := storetest.User(t, st, "mia")
	post := storetest.Posts(t, st, u, 1)[0]
	require.NoError(t, st.CreateComment(ctx, &models.Comment{PostID: post.ID, AuthorID: u.ID, Content: "a"}))
	_, err := st.LikePost(ctx, post.ID, u.ID)
	require.NoError(t, err)

	totals := st.Totals(ctx)
	assert.Equal(t, store.Totals{Users: 1, Posts: 1, Comments: 1}, totals)

	ps, err := st.PostStats(ctx, post.ID)
	require.NoError(t, err)
	assert.False(t, ps.Drift)

	// Simulate drift: a comment row removed behind the counter's back.
	require.NoError(t, st.DB().Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error)
	ps, err = st.PostStats(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, ps.Drift)
	assert.Equal(t, 1, ps.CommentsCount)
	assert.EqualValues(t, 0, ps.CommentRows)

	fixed, err := st.ReconcileCounters(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, fixed)

	ps, err = st.PostStats(ctx, post.ID)
	require.NoError(t, err)
	assert.False(t, ps.Drift)
	assert.Zero(t, ps.CommentsCount)

	_, err = st.PostStats(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListPostsHugePageIsEmpty(t *testing.T) {
	ctx := context.Background()
	st := storetest.New(t)
	author := storetest.User(t, st, "alice")
	storetest.Posts(t, st, author, 23)

	page, limit := store.ParsePagination("100000000000000001", "100", 10, 100)
	assert.Equal(t, 100, limit)
	assert.Positive(t, store.Offset(page, limit))

	res, err := st.ListPosts(ctx, page, limit)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.EqualValues(t, 23, res.Total)

	assert.Equal(t, math.MaxInt, store.Offset(math.MaxInt, 100))
	res, err = st.ListPosts(ctx, math.MaxInt, 100)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	ctx := context.Background()
	st := storetest.New(t)
	u := storetest.User(t, st, "gopher")
	storetest.Posts(t, st, u, 3)
	require.NoError(t, st.CreatePost(ctx, &models.Post{AuthorID: u.ID, Content: "50% off today"}))
	require.NoError(t, st.CreatePost(ctx, &models.Post{AuthorID: u.ID, Content: "snake_case wins!"}))

	for _, q := range []string{"%", "_", "!"} {
		users, posts, err := st.Search(ctx, q, 20)
		require.NoError(t, err)
		assert.Empty(t, users, "q=%q", q)
		assert.LessOrEqual(t, len(posts), 1, "q=%q", q)
	}

	_, posts, err := st.Search(ctx, "50%", 20)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "50% off today", posts[0].Content)

	_, posts, err = st.Search(ctx, "e_c", 20)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "snake_case wins!", posts[0].Content)

	_, posts, err = st.Search(ctx, "s!", 20)
	require.NoError(t, err)
	require.Len(t, posts, 1)
}

func TestFollowIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := storetest.New(t)
	ann := storetest.User(t, st, "ann")
	ben := storetest.User(t, st, "ben")

	for i := 0; i < 2; i++ {
		got, err := st.Follow(ctx, ann.ID, ben.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Followers)
	}
	follower, err := st.GetUser(ctx, ben.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, follower.Following)

	ok, err := st.IsFollowing(ctx, ann.ID, ben.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = st.IsFollowing(ctx, ben.ID, ann.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUnfollowRestoresAndNeverGoesNegative(t *testing.T) {
	ctx := context.Background()
	st := storetest.New(t)
	ann := storetest.User(t, st, "ann")
	ben := storetest.User(t, st, "ben")

	_, err := st.Follow(ctx, ann.ID, ben.ID)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		got, err := st.Unfollow(ctx, ann.ID, ben.ID)
		require.NoError(t, err)
		assert.Zero(t, got.Followers)
	}
	follower, err := st.GetUser(ctx, ben.ID)
	require.NoError(t, err)
	assert.Zero(t, follower.Following)

	// A stale row with a zeroed counter must not push the counter below zero.
	require.NoError(t, st.DB().Create(&models.Follow{FollowerID: ben.ID, FolloweeID: ann.ID}).Error)
	got, err := st.Unfollow(ctx, ann.ID, ben.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Followers)
}

func TestFollowErrors(t *testing.T) {
	ctx := context.Background()
	st := storetest.New(t)
	ann := storetest.User(t, st, "ann")

	_, err := st.Follow(ctx, ann.ID, ann.ID)
	assert.ErrorIs(t, err, store.ErrSelfFollow)
	_, err = st.Unfollow(ctx, ann.ID, ann.ID)
	assert.ErrorIs(t, err, store.ErrSelfFollow)
	_, err = st.Follow(ctx, "missing", ann.ID)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	_, err = st.Follow(ctx, ann.ID, "missing")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestReconcileFollowCounters(t *testing.T) {
	ctx := context.Background()
	st := storetest.New(t)
	ann := storetest.User(t, st, "ann")
	ben := storetest.User(t, st, "ben")
	_, err := st.Follow(ctx, ann.ID, ben.ID)
	require.NoError(t, err)

	require.NoError(t, st.DB().Model(&models.User{}).Where("id = ?", ann.ID).UpdateColumn("followers", 5).Error)
	fixed, err := st.ReconcileCounters(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, fixed)

	got, err := st.GetUser(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Followers)
}
