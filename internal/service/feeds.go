package service

import (
	"context"
	"strings"

	"github.com/petermazzocco/murmur-api/internal/apperr"
	"github.com/petermazzocco/murmur-api/internal/store"
	"github.com/petermazzocco/murmur-api/models"
)

// All murmur listings are ordered by creation time, newest first, with id descending as the
// tiebreak.

func (s *Service) listMurmurs(ctx context.Context, viewer uint, q store.MurmurQuery, page models.PageRequest) (models.Page[models.MurmurView], error) {
	page, err := checkPage(page)
	if err != nil {
		return models.Page[models.MurmurView]{}, err
	}
	murmurs, total, err := s.store.ListMurmurs(ctx, q, page)
	if err != nil {
		return models.Page[models.MurmurView]{}, err
	}
	views, err := s.murmurViews(ctx, viewer, murmurs)
	if err != nil {
		return models.Page[models.MurmurView]{}, err
	}
	return models.NewPage(views, total, page), nil
}

// Timeline lists murmurs by the caller and everyone the caller follows.
func (s *Service) Timeline(ctx context.Context, caller uint, page models.PageRequest) (models.Page[models.MurmurView], error) {
	if err := requireCaller(caller); err != nil {
		return models.Page[models.MurmurView]{}, err
	}
	return s.listMurmurs(ctx, caller, store.MurmurQuery{TimelineOf: caller}, page)
}

// PublicFeed lists all murmurs. viewer may be zero.
func (s *Service) PublicFeed(ctx context.Context, viewer uint, page models.PageRequest) (models.Page[models.MurmurView], error) {
	return s.listMurmurs(ctx, viewer, store.MurmurQuery{}, page)
}

// AuthorFeed lists one author's murmurs and returns the author alongside.
func (s *Service) AuthorFeed(ctx context.Context, viewer, author uint, page models.PageRequest) (*models.UserView, models.Page[models.MurmurView], error) {
	u, err := s.store.UserByID(ctx, author)
	if err != nil {
		return nil, models.Page[models.MurmurView]{}, err
	}
	feed, err := s.listMurmurs(ctx, viewer, store.MurmurQuery{AuthorID: author}, page)
	if err != nil {
		return nil, models.Page[models.MurmurView]{}, err
	}
	return models.NewUserView(u), feed, nil
}

// SearchUsers matches q case-insensitively against name, username and bio.
func (s *Service) SearchUsers(ctx context.Context, q string, page models.PageRequest) (models.Page[models.Profile], error) {
	if strings.TrimSpace(q) == "" {
		return models.Page[models.Profile]{}, apperr.Invalid("Search query is required")
	}
	page, err := checkPage(page)
	if err != nil {
		return models.Page[models.Profile]{}, err
	}

	users, total, err := s.store.SearchUsers(ctx, q, page)
	if err != nil {
		return models.Page[models.Profile]{}, err
	}
	profiles, err := s.profiles(ctx, users)
	if err != nil {
		return models.Page[models.Profile]{}, err
	}
	return models.NewPage(profiles, total, page), nil
}

func (s *Service) Followers(ctx context.Context, id uint, page models.PageRequest) (models.Page[models.UserView], error) {
	return s.listFollows(ctx, id, store.Followers, page)
}

func (s *Service) Following(ctx context.Context, id uint, page models.PageRequest) (models.Page[models.UserView], error) {
	return s.listFollows(ctx, id, store.Following, page)
}

func (s *Service) listFollows(ctx context.Context, id uint, dir store.FollowDirection, page models.PageRequest) (models.Page[models.UserView], error) {
	page, err := checkPage(page)
	if err != nil {
		return models.Page[models.UserView]{}, err
	}
	if err := s.store.UserExists(ctx, id); err != nil {
		return models.Page[models.UserView]{}, err
	}
	users, total, err := s.store.ListFollows(ctx, id, dir, page)
	if err != nil {
		return models.Page[models.UserView]{}, err
	}
	return models.NewPage(userViews(users), total, page), nil
}
