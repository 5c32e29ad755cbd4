package client

import (
	"encoding/json"
	"strconv"
	"time"
)

// Adapter maps server records onto view models. Every mapping is total:
// a missing or mistyped field yields its zero value, counters are floored
// at zero and absent dates become Now().
type Adapter struct {
	Now func() time.Time
}

var defaultAdapter = Adapter{Now: time.Now}

// ToUser adapts raw with the default adapter.
func ToUser(raw map[string]any) User { return defaultAdapter.User(raw) }

// ToPost adapts raw with the default adapter.
func ToPost(raw map[string]any) Post { return defaultAdapter.Post(raw) }

// ToComment adapts raw with the default adapter.
func ToComment(raw map[string]any) Comment { return defaultAdapter.Comment(raw) }

func (a Adapter) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// User reads id from _id or id and the display name from name, displayName, then username.
func (a Adapter) User(raw map[string]any) User {
	return User{
		ID:          firstString(raw, "_id", "id"),
		Username:    firstString(raw, "username"),
		DisplayName: firstString(raw, "name", "displayName", "username"),
		Avatar:      firstString(raw, "avatarUrl", "avatar"),
		Bio:         firstString(raw, "bio"),
		Followers:   firstCount(raw, "followers"),
		Following:   firstCount(raw, "following"),
		Verified:    firstBool(raw, "verified"),
		CreatedAt:   a.firstTime(raw, "createdAt"),
	}
}

// Post accepts the author as an embedded object (author or user) or as a
// bare id (authorId, userId, or a string author).
func (a Adapter) Post(raw map[string]any) Post {
	return Post{
		ID:        firstString(raw, "_id", "id"),
		AuthorID:  reference(raw, []string{"author", "user"}, "authorId", "userId"),
		Content:   firstString(raw, "content", "text"),
		ImageURL:  firstString(raw, "imageUrl", "image"),
		Likes:     firstCount(raw, "likes"),
		Comments:  firstCount(raw, "commentsCount", "comments"),
		Shares:    firstCount(raw, "shares"),
		LikedBy:   stringSet(raw["likedBy"]),
		Timestamp: a.firstTime(raw, "timestamp", "createdAt"),
		CreatedAt: a.firstTime(raw, "createdAt"),
	}
}

// Comment resolves both the author and the post reference the way Post resolves the author.
func (a Adapter) Comment(raw map[string]any) Comment {
	return Comment{
		ID:        firstString(raw, "_id", "id"),
		PostID:    reference(raw, []string{"post"}, "postId"),
		AuthorID:  reference(raw, []string{"author", "user"}, "authorId", "userId"),
		Content:   firstString(raw, "content", "text"),
		Likes:     firstCount(raw, "likes"),
		LikedBy:   stringSet(raw["likedBy"]),
		CreatedAt: a.firstTime(raw, "createdAt", "timestamp"),
	}
}

// reference returns the id of the first embedded object under objKeys, else
// the first non-empty id under idKeys, else a bare id stored under objKeys.
func reference(raw map[string]any, objKeys []string, idKeys ...string) string {
	for _, k := range objKeys {
		if m, ok := raw[k].(map[string]any); ok {
			if id := firstString(m, "_id", "id"); id != "" {
				return id
			}
		}
	}
	if id := firstString(raw, idKeys...); id != "" {
		return id
	}
	return firstString(raw, objKeys...)
}

func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := asString(raw[k]); ok && s != "" {
			return s
		}
	}
	return ""
}

func asString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	}
	return "", false
}

// firstCount reads a non-negative counter. An embedded array counts its elements.
func firstCount(raw map[string]any, keys ...string) int {
	for _, k := range keys {
		if n, ok := asInt(raw[k]); ok {
			return max(n, 0)
		}
	}
	return 0
}

func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), true
		}
		if f, err := t.Float64(); err == nil {
			return int(f), true
		}
	case string:
		if n, err := strconv.Atoi(t); err == nil {
			return n, true
		}
	case []any:
		return len(t), true
	}
	return 0, false
}

func firstBool(raw map[string]any, keys ...string) bool {
	for _, k := range keys {
		switch t := raw[k].(type) {
		case bool:
			return t
		case string:
			if b, err := strconv.ParseBool(t); err == nil {
				return b
			}
		}
	}
	return false
}

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func (a Adapter) firstTime(raw map[string]any, keys ...string) time.Time {
	for _, k := range keys {
		if t, ok := asTime(raw[k]); ok {
			return t
		}
	}
	return a.now()
}

// asTime accepts formatted strings and epoch milliseconds.
func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case string:
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts, true
			}
		}
	case json.Number:
		if ms, err := t.Int64(); err == nil {
			return time.UnixMilli(ms), true
		}
	case float64:
		return time.UnixMilli(int64(t)), true
	}
	return time.Time{}, false
}

// stringSet keeps the first occurrence of each non-empty string id.
func stringSet(v any) []string {
	out := []string{}
	seen := map[string]struct{}{}
	add := func(s string) {
		if s == "" {
			return
		}
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	switch t := v.(type) {
	case []string:
		for _, s := range t {
			add(s)
		}
	case []any:
		for _, e := range t {
			if s, ok := asString(e); ok {
				add(s)
			}
		}
	}
	return out
}
