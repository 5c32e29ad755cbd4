package client

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearch(t *testing.T) {
	users := []User{
		{ID: "1", Username: "alice", DisplayName: "Alice Liddell"},
		{ID: "2", Username: "bob", DisplayName: "Bob", Bio: "Loves Go"},
	}
	posts := []Post{
		{ID: "p1", Content: "Going to the park"},
		{ID: "p2", Content: "nothing here"},
	}

	res := Search(users, posts, "  GO ", 0)
	assert.Equal(t, []User{users[1]}, res.Users)
	assert.Equal(t, []Post{posts[0]}, res.Posts)

	res = Search(users, posts, "liddell", 0)
	assert.Len(t, res.Users, 1)
	assert.Empty(t, res.Posts)

	res = Search(users, posts, "   ", 0)
	assert.Equal(t, 0, res.Len())
	assert.NotNil(t, res.Users)
}

func TestSearchLimitPrefersUsers(t *testing.T) {
	var users []User
	var posts []Post
	for i := 0; i < 8; i++ {
		users = append(users, User{ID: fmt.Sprint(i), Username: fmt.Sprintf("nexus%d", i)})
		posts = append(posts, Post{ID: fmt.Sprint(i), Content: "nexus post"})
	}
	res := Search(users, posts, "nexus", 0)
	assert.Equal(t, DefaultSearchLimit, res.Len())
	assert.Len(t, res.Users, 8)
	assert.Len(t, res.Posts, 2)
}
