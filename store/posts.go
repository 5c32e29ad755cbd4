package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/cppla/nexus/models"
)

// recency orders newest first; id breaks createdAt ties so page windows never overlap.
func recency(q *gorm.DB) *gorm.DB {
	return q.Order("created_at DESC").Order("id DESC")
}

// ListPosts returns the feed window for page/limit together with the total post count.
func (s *Store) ListPosts(ctx context.Context, page, limit int) (*Page, error) {
	return listPosts(s.db.WithContext(ctx), page, limit)
}

// ListPostsByAuthor is ListPosts restricted to one author.
func (s *Store) ListPostsByAuthor(ctx context.Context, authorID string, page, limit int) (*Page, error) {
	return listPosts(s.db.WithContext(ctx).Where("author_id = ?", authorID), page, limit)
}

func listPosts(scope *gorm.DB, page, limit int) (*Page, error) {
	var total int64
	if err := scope.Session(&gorm.Session{}).Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	items := []models.Post{}
	offset := Offset(page, limit)
	if int64(offset) >= total {
		return &Page{Items: items, Page: page, Limit: limit, Total: total}, nil
	}
	err := recency(scope.Session(&gorm.Session{})).
		Preload("Author").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return &Page{Items: items, Page: page, Limit: limit, Total: total}, nil
}

// CreatePost inserts p after checking that its author exists, then loads the author.
func (s *Store) CreatePost(ctx context.Context, p *models.Post) error {
	db := s.db.WithContext(ctx)
	if err := userExists(db, p.AuthorID); err != nil {
		return err
	}
	p.Likes, p.CommentsCount, p.Shares = 0, 0, 0
	if err := db.Create(p).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	var author models.User
	if err := db.First(&author, "id = ?", p.AuthorID).Error; err == nil {
		p.Author = &author
	}
	return nil
}

// GetPost loads one post with its author.
func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return getPost(s.db.WithContext(ctx), id)
}

func getPost(tx *gorm.DB, id string) (*models.Post, error) {
	var p models.Post
	if err := tx.Preload("Author").First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load post: %w", err)
	}
	return &p, nil
}

func postExists(tx *gorm.DB, id string) error {
	var n int64
	if err := tx.Model(&models.Post{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("check post: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// likeEscaper makes user input literal inside a LIKE pattern; queries pair it with ESCAPE '!'.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Search does a case-insensitive substring match over users (username, name, bio)
// and posts (content). Blank queries match nothing.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]models.User, []models.Post, error) {
	users := []models.User{}
	posts := []models.Post{}
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return users, posts, nil
	}
	like := "%" + likeEscaper.Replace(term) + "%"
	db := s.db.WithContext(ctx)

	err := db.Where("LOWER(username) LIKE ? ESCAPE '!' OR LOWER(name) LIKE ? ESCAPE '!' OR LOWER(bio) LIKE ? ESCAPE '!'", like, like, like).
		Order("username ASC").Limit(limit).Find(&users).Error
	if err != nil {
		return nil, nil, fmt.Errorf("search users: %w", err)
	}
	err = recency(db.Where("LOWER(content) LIKE ? ESCAPE '!'", like)).Preload("Author").Limit(limit).Find(&posts).Error
	if err != nil {
		return nil, nil, fmt.Errorf("search posts: %w", err)
	}
	return users, posts, nil
}
