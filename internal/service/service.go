// Package service implements the murmur operations on top of the entity store: registration and
// login, profile edits, posting, likes, follows, and the read paths that project stored rows into
// murmur and profile views.
//
// Every mutating operation validates its input and runs its existence and uniqueness checks and
// its write inside one store transaction, so a failed operation leaves no partial state. Read
// paths never write.
package service

import (
	"github.com/petermazzocco/murmur-api/internal/apperr"
	"github.com/petermazzocco/murmur-api/internal/media"
	"github.com/petermazzocco/murmur-api/internal/store"
	"github.com/petermazzocco/murmur-api/models"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	store    *store.Store
	images   media.Store
	hashCost int
}

type Option func(*Service)

// WithHashCost sets the bcrypt cost used for new password hashes.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.hashCost = cost }
}

func New(st *store.Store, images media.Store, opts ...Option) *Service {
	if images == nil {
		images = media.InlineStore{}
	}
	s := &Service{store: st, images: images, hashCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func requireCaller(caller uint) error {
	if caller == 0 {
		return apperr.Unauth("Authentication required")
	}
	return nil
}

func checkPage(p models.PageRequest) (models.PageRequest, error) {
	if p.Page < 1 {
		return p, apperr.Invalid("page must be at least 1")
	}
	if p.PerPage < 1 {
		return p, apperr.Invalid("per_page must be at least 1")
	}
	if p.PerPage > models.MaxPerPage {
		p.PerPage = models.MaxPerPage
	}
	return p, nil
}
