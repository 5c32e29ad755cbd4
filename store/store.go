// Package store owns durable feed state: users, posts, comments and the like join tables.
// A Store is constructed once per process and handed to the controllers.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/cppla/nexus/models"
)

var (
	// ErrNotFound is returned when a post or comment id does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrUserNotFound is returned when a referenced author or liker does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when creating a user with an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrSelfFollow is returned when a user tries to follow themselves.
	ErrSelfFollow = errors.New("users cannot follow themselves")
)

// Store wraps the gorm handle with the feed's persistence operations.
type Store struct {
	db *gorm.DB
}

// New returns a Store backed by db. The schema must already be migrated.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Migrate creates or updates the tables for every model.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(models.All()...)
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// ListUsers returns all users, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CreateUser inserts u. Username uniqueness is checked up front and again by the unique index.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.Username = strings.TrimSpace(u.Username)
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", u.Username).Count(&n).Error; err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if n > 0 {
		return ErrUsernameTaken
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser loads a user by id.
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	return getUser(s.db.WithContext(ctx), id)
}

func getUser(tx *gorm.DB, id string) (*models.User, error) {
	var u models.User
	if err := tx.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &u, nil
}

// EnsureDemoUser creates a "demo" user when the user table is empty so a fresh
// install is immediately usable. It reports whether a user was created.
func (s *Store) EnsureDemoUser(ctx context.Context) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if err := s.CreateUser(ctx, &models.User{Username: "demo", Name: "Demo User"}); err != nil {
		return false, err
	}
	return true, nil
}

func userExists(tx *gorm.DB, id string) error {
	if id == "" {
		return ErrUserNotFound
	}
	var n int64
	if err := tx.Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
