package client

import "slices"

// LikePost returns p liked by userID. Liking twice is a no-op.
func LikePost(p Post, userID string) Post {
	p.LikedBy, p.Likes, _ = like(p.LikedBy, p.Likes, userID)
	return p
}

// UnlikePost returns p without userID's like. The counter never goes below zero.
func UnlikePost(p Post, userID string) Post {
	p.LikedBy, p.Likes, _ = unlike(p.LikedBy, p.Likes, userID)
	return p
}

// SharePost counts one more share. Shares are not deduplicated.
func SharePost(p Post) Post {
	p.Shares++
	return p
}

// AddComment counts one more comment on p.
func AddComment(p Post) Post {
	p.Comments++
	return p
}

// LikeComment is LikePost for comments.
func LikeComment(c Comment, userID string) Comment {
	c.LikedBy, c.Likes, _ = like(c.LikedBy, c.Likes, userID)
	return c
}

// UnlikeComment is UnlikePost for comments.
func UnlikeComment(c Comment, userID string) Comment {
	c.LikedBy, c.Likes, _ = unlike(c.LikedBy, c.Likes, userID)
	return c
}

// HasLiked reports whether userID is in likedBy.
func HasLiked(likedBy []string, userID string) bool {
	return slices.Contains(likedBy, userID)
}

// like and unlike never touch the caller's backing array.
func like(likedBy []string, likes int, userID string) ([]string, int, bool) {
	if userID == "" || slices.Contains(likedBy, userID) {
		return likedBy, likes, false
	}
	out := make([]string, 0, len(likedBy)+1)
	out = append(append(out, likedBy...), userID)
	return out, max(likes, 0) + 1, true
}

func unlike(likedBy []string, likes int, userID string) ([]string, int, bool) {
	i := slices.Index(likedBy, userID)
	if i < 0 {
		return likedBy, likes, false
	}
	out := slices.Delete(slices.Clone(likedBy), i, i+1)
	return out, max(likes-1, 0), true
}
