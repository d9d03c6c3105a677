package service

import (
	"context"

	"github.com/petermazzocco/murmur-api/models"
)

// murmurViews projects murmurs with their author, live like count and whether viewer liked
// them. Authors that no longer resolve project as nil.
func (s *Service) murmurViews(ctx context.Context, viewer uint, murmurs []models.Murmur) ([]models.MurmurView, error) {
	ids := make([]uint, 0, len(murmurs))
	authorIDs := make([]uint, 0, len(murmurs))
	seen := make(map[uint]bool)
	for _, m := range murmurs {
		ids = append(ids, m.ID)
		if !seen[m.UserID] {
			seen[m.UserID] = true
			authorIDs = append(authorIDs, m.UserID)
		}
	}

	authors, err := s.store.UsersByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	likes, err := s.store.LikeCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	liked, err := s.store.LikedBy(ctx, viewer, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.MurmurView, 0, len(murmurs))
	for _, m := range murmurs {
		views = append(views, models.MurmurView{
			ID:         m.ID,
			Content:    m.Content,
			UserID:     m.UserID,
			Author:     models.NewUserView(authors[m.UserID]),
			MediaType:  m.MediaType,
			MediaURL:   m.MediaURL,
			LikesCount: likes[m.ID],
			LikedByMe:  liked[m.ID],
			CreatedAt:  m.CreatedAt,
			UpdatedAt:  m.UpdatedAt,
		})
	}
	return views, nil
}

func (s *Service) profiles(ctx context.Context, users []models.User) ([]models.Profile, error) {
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	counts, err := s.store.UserCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	profiles := make([]models.Profile, 0, len(users))
	for i := range users {
		profiles = append(profiles, models.Profile{
			UserView:   *models.NewUserView(&users[i]),
			UserCounts: counts[users[i].ID],
		})
	}
	return profiles, nil
}

func userViews(users []models.User) []models.UserView {
	views := make([]models.UserView, 0, len(users))
	for i := range users {
		views = append(views, *models.NewUserView(&users[i]))
	}
	return views
}
