package store

import (
	"context"
	"strings"

	"github.com/petermazzocco/murmur-api/internal/apperr"
	"github.com/petermazzocco/murmur-api/models"
)

// Aggregates are computed from the rows on every call; nothing is cached or stored.

type idCount struct {
	ID uint
	N  int64
}

func (s *Store) countBy(ctx context.Context, model any, column string, ids []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []idCount
	err := s.conn(ctx).
		Model(model).
		Select(column+" AS id, COUNT(*) AS n").
		Where(column+" IN ?", ids).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Fail("count by "+column, err)
	}
	for _, r := range rows {
		counts[r.ID] = r.N
	}
	return counts, nil
}

// LikeCounts returns the number of likes per murmur id. Murmurs without likes map to zero.
func (s *Store) LikeCounts(ctx context.Context, murmurIDs []uint) (map[uint]int64, error) {
	return s.countBy(ctx, &models.Like{}, "murmur_id", murmurIDs)
}

// LikedBy returns the subset of murmurIDs that userID has liked.
func (s *Store) LikedBy(ctx context.Context, userID uint, murmurIDs []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool)
	if userID == 0 || len(murmurIDs) == 0 {
		return liked, nil
	}

	var ids []uint
	err := s.conn(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND murmur_id IN ?", userID, murmurIDs).
		Pluck("murmur_id", &ids).Error
	if err != nil {
		return nil, apperr.Fail("liked by", err)
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// UsersByIDs loads the given users keyed by id. Missing ids are absent from the map.
func (s *Store) UsersByIDs(ctx context.Context, ids []uint) (map[uint]*models.User, error) {
	users := make(map[uint]*models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	var rows []models.User
	if err := s.conn(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, apperr.Fail("load users", err)
	}
	for i := range rows {
		users[rows[i].ID] = &rows[i]
	}
	return users, nil
}

// UserCounts returns follower, following and murmur counts for each id.
func (s *Store) UserCounts(ctx context.Context, ids []uint) (map[uint]models.UserCounts, error) {
	followers, err := s.countBy(ctx, &models.Follow{}, "followed_id", ids)
	if err != nil {
		return nil, err
	}
	following, err := s.countBy(ctx, &models.Follow{}, "follower_id", ids)
	if err != nil {
		return nil, err
	}
	murmurs, err := s.countBy(ctx, &models.Murmur{}, "user_id", ids)
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]models.UserCounts, len(ids))
	for _, id := range ids {
		counts[id] = models.UserCounts{
			FollowersCount: followers[id],
			FollowingCount: following[id],
			MurmursCount:   murmurs[id],
		}
	}
	return counts, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchUsers matches q as a case-insensitive substring of name, username or bio.
func (s *Store) SearchUsers(ctx context.Context, q string, page models.PageRequest) ([]models.User, int64, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
	where := `LOWER(name) LIKE ? ESCAPE '\' OR LOWER(username) LIKE ? ESCAPE '\' OR LOWER(bio) LIKE ? ESCAPE '\'`

	var total int64
	err := s.conn(ctx).Model(&models.User{}).Where(where, pattern, pattern, pattern).Count(&total).Error
	if err != nil {
		return nil, 0, apperr.Fail("count users", err)
	}

	var users []models.User
	err = s.conn(ctx).
		Where(where, pattern, pattern, pattern).
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&users).Error
	if err != nil {
		return nil, 0, apperr.Fail("search users", err)
	}
	return users, total, nil
}
