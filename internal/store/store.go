// Package store is the relational entity store for users, murmurs, likes and follows.
//
// Every method runs against the handle the Store was built with. Inside Transaction the callback
// receives a Store bound to the transaction, so read-then-write sequences commit or roll back as
// one unit. Unique indexes on username, email, (user_id, murmur_id) and (follower_id,
// followed_id) back the application checks; a violation that slips past a check still surfaces
// as apperr.Conflict.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/petermazzocco/murmur-api/internal/apperr"
	"github.com/petermazzocco/murmur-api/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

// Open connects to the database. driver is "postgres" or "sqlite".
func Open(driver, dsn string, cfg *gorm.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	if cfg == nil {
		cfg = &gorm.Config{}
	}
	// maps driver errors to gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated
	cfg.TranslateError = true

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return db, nil
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the schema.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Transaction runs fn inside a database transaction. Any error returned by fn rolls it back and
// is returned unchanged.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// translate maps gorm errors onto apperr kinds. Messages are the client-facing text for the
// not-found and conflict cases.
func translate(err error, notFound, conflict string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.Wrap(apperr.NotFound, notFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Wrap(apperr.Conflict, conflict, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperr.Wrap(apperr.NotFound, notFound, err)
	default:
		return apperr.Fail("database error", err)
	}
}
