// Package client is the consumer side of the feed API: a typed HTTP client,
// adapters from loosely shaped server records to view models, and the
// in-memory state a feed UI keeps between requests.
package client

import "time"

// User is the view model of an account.
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Avatar      string    `json:"avatar,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	Verified    bool      `json:"verified"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Post is the view model of a feed entry. LikedBy is local state only;
// the server persists the likes counter and its own like rows.
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Likes     int       `json:"likes"`
	Comments  int       `json:"comments"`
	Shares    int       `json:"shares"`
	LikedBy   []string  `json:"likedBy"`
	Timestamp time.Time `json:"timestamp"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment is the view model of a reply to a post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	Likes     int       `json:"likes"`
	LikedBy   []string  `json:"likedBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// Page is one window of the server feed.
type Page struct {
	Items []Post `json:"items"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Total int    `json:"total"`
}

// NewUser is the body of a user registration.
type NewUser struct {
	Username  string `json:"username"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

// NewPost is the body of a post creation.
type NewPost struct {
	AuthorID string `json:"authorId"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// NewComment is the body of a comment creation.
type NewComment struct {
	AuthorID string `json:"authorId"`
	Content  string `json:"content"`
}
