package store

import (
	"context"

	"github.com/petermazzocco/murmur-api/internal/apperr"
	"github.com/petermazzocco/murmur-api/models"
	"gorm.io/gorm"
)

const msgMurmurNotFound = "Murmur not found"

func (s *Store) CreateMurmur(ctx context.Context, m *models.Murmur) error {
	return translate(s.conn(ctx).Omit("User").Create(m).Error, msgUserNotFound, "")
}

func (s *Store) MurmurByID(ctx context.Context, id uint) (*models.Murmur, error) {
	var m models.Murmur
	if err := s.conn(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err, msgMurmurNotFound, "")
	}
	return &m, nil
}

// DeleteMurmur removes the murmur and its likes in one transaction.
func (s *Store) DeleteMurmur(ctx context.Context, id uint) error {
	return s.Transaction(ctx, func(tx *Store) error {
		db := tx.conn(ctx)
		if err := db.Where("murmur_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return translate(err, msgMurmurNotFound, "")
		}
		res := db.Delete(&models.Murmur{}, id)
		if res.Error != nil {
			return translate(res.Error, msgMurmurNotFound, "")
		}
		if res.RowsAffected == 0 {
			return apperr.Missing(msgMurmurNotFound)
		}
		return nil
	})
}

// MurmurQuery selects which murmurs a listing returns. The zero value selects all murmurs.
type MurmurQuery struct {
	// AuthorID restricts the listing to one author.
	AuthorID uint
	// TimelineOf selects murmurs by this user and everyone they follow.
	TimelineOf uint
}

func (q MurmurQuery) apply(db *gorm.DB) *gorm.DB {
	switch {
	case q.TimelineOf != 0:
		followed := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Follow{}).
			Select("followed_id").
			Where("follower_id = ?", q.TimelineOf)
		return db.Where("user_id IN (?) OR user_id = ?", followed, q.TimelineOf)
	case q.AuthorID != 0:
		return db.Where("user_id = ?", q.AuthorID)
	}
	return db
}

// ListMurmurs returns one page of murmurs newest first, ties broken by id descending, along with
// the total number of matches.
func (s *Store) ListMurmurs(ctx context.Context, q MurmurQuery, page models.PageRequest) ([]models.Murmur, int64, error) {
	base := q.apply(s.conn(ctx).Model(&models.Murmur{}))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, apperr.Fail("count murmurs", err)
	}

	var murmurs []models.Murmur
	err := q.apply(s.conn(ctx)).
		Order("created_at DESC").
		Order("id DESC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&murmurs).Error
	if err != nil {
		return nil, 0, apperr.Fail("list murmurs", err)
	}
	return murmurs, total, nil
}
