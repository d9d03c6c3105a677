package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/petermazzocco/murmur-api/internal/apperr"
	"github.com/petermazzocco/murmur-api/internal/store"
	"github.com/petermazzocco/murmur-api/models"
)

type CreateMurmurInput struct {
	Content   string `json:"content"`
	MediaType string `json:"media_type"`
	MediaURL  string `json:"media_url"`
}

func (in CreateMurmurInput) toModel(author uint) (*models.Murmur, error) {
	mediaType, ok := models.ParseMediaType(in.MediaType)
	if !ok {
		return nil, apperr.Invalid("media_type must be one of image, video, audio, none")
	}

	m := &models.Murmur{
		Content:   strings.TrimSpace(in.Content),
		MediaType: mediaType,
		MediaURL:  in.MediaURL,
		UserID:    author,
	}
	if !m.HasMedia() {
		m.MediaType, m.MediaURL = models.MediaNone, ""
	}

	if m.Content == "" && !m.HasMedia() {
		return nil, apperr.Invalid("Murmur must have content or media")
	}
	if utf8.RuneCountInString(m.Content) > models.MaxContentLen {
		return nil, apperr.Invalid(fmt.Sprintf("Content exceeds maximum length of %d characters", models.MaxContentLen))
	}
	return m, nil
}

func (s *Service) CreateMurmur(ctx context.Context, caller uint, in CreateMurmurInput) (*models.MurmurView, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	m, err := in.toModel(caller)
	if err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.UserExists(ctx, caller); err != nil {
			return err
		}
		return tx.CreateMurmur(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	views, err := s.murmurViews(ctx, caller, []models.Murmur{*m})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// GetMurmur projects one murmur. viewer may be zero.
func (s *Service) GetMurmur(ctx context.Context, viewer, id uint) (*models.MurmurView, error) {
	m, err := s.store.MurmurByID(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.murmurViews(ctx, viewer, []models.Murmur{*m})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// DeleteMurmur removes a murmur and its likes. Only the author may delete it.
func (s *Service) DeleteMurmur(ctx context.Context, caller, id uint) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	return s.store.Transaction(ctx, func(tx *store.Store) error {
		m, err := tx.MurmurByID(ctx, id)
		if err != nil {
			return err
		}
		if m.UserID != caller {
			return apperr.Forbid("Unauthorized to delete this murmur")
		}
		return tx.DeleteMurmur(ctx, id)
	})
}
