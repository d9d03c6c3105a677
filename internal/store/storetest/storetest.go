// Package storetest provides a migrated in-memory SQLite store for tests.
package storetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/petermazzocco/murmur-api/internal/store"
	"github.com/petermazzocco/murmur-api/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN is a private in-memory database with foreign keys enforced.
const DSN = "file::memory:?_pragma=foreign_keys(1)"

// New returns a fresh, migrated store. Each call gets its own database.
func New(t testing.TB) *store.Store {
	t.Helper()

	db, err := store.Open("sqlite", DSN, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// an in-memory database lives on a single connection
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	s := store.New(db)
	require.NoError(t, s.Migrate())
	return s
}

// User inserts a user with a placeholder password hash derived from username.
func User(t testing.TB, s *store.Store, username string) *models.User {
	t.Helper()
	u := &models.User{
		Name:         username,
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: "x",
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

// Murmur inserts a text murmur by author.
func Murmur(t testing.TB, s *store.Store, author uint, content string) *models.Murmur {
	t.Helper()
	m := &models.Murmur{UserID: author, Content: content, MediaType: models.MediaNone}
	require.NoError(t, s.CreateMurmur(context.Background(), m))
	return m
}
