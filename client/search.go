package client

import "strings"

// DefaultSearchLimit caps the combined number of users and posts returned by Search.
const DefaultSearchLimit = 10

// SearchResult holds users and posts that matched a query.
type SearchResult struct {
	Users []User `json:"users"`
	Posts []Post `json:"posts"`
}

// Len is the combined number of hits.
func (r SearchResult) Len() int { return len(r.Users) + len(r.Posts) }

// Search filters already loaded users and posts by a case-insensitive
// substring. Users match on display name, username or bio, posts on
// content. Users fill the result first; limit <= 0 uses DefaultSearchLimit.
func Search(users []User, posts []Post, query string, limit int) SearchResult {
	res := SearchResult{Users: []User{}, Posts: []Post{}}
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return res
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	match := func(s string) bool { return strings.Contains(strings.ToLower(s), term) }

	for _, u := range users {
		if res.Len() >= limit {
			return res
		}
		if match(u.DisplayName) || match(u.Username) || match(u.Bio) {
			res.Users = append(res.Users, u)
		}
	}
	for _, p := range posts {
		if res.Len() >= limit {
			return res
		}
		if match(p.Content) {
			res.Posts = append(res.Posts, p)
		}
	}
	return res
}
