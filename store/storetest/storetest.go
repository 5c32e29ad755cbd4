// Package storetest builds throwaway stores on in-memory SQLite for tests.
package storetest

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cppla/nexus/models"
	"github.com/cppla/nexus/store"
)

var seq int64

// New returns a migrated Store on a private in-memory database that is closed when t ends.
func New(t testing.TB) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, atomic.AddInt64(&seq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return st
}

// User creates a user with the given username.
func User(t testing.TB, st *store.Store, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Name: strings.ToUpper(username[:1]) + username[1:]}
	if err := st.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

// Posts creates n posts by author with strictly increasing createdAt, oldest first.
// Content is "post-<i>" for i in [0, n).
func Posts(t testing.TB, st *store.Store, author *models.User, n int) []*models.Post {
	t.Helper()
	base := time.Now().Add(-time.Duration(n) * time.Minute)
	out := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		p := &models.Post{
			AuthorID:  author.ID,
			Content:   fmt.Sprintf("post-%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := st.CreatePost(context.Background(), p); err != nil {
			t.Fatalf("create post %d: %v", i, err)
		}
		out = append(out, p)
	}
	return out
}
