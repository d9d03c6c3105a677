package store

import (
	"context"

	"github.com/petermazzocco/murmur-api/internal/apperr"
	"github.com/petermazzocco/murmur-api/models"
)

const (
	msgUserNotFound  = "User not found"
	msgEmailTaken    = "Email already registered"
	msgUsernameTaken = "Username already taken"
)

// CreateUser inserts u after checking email and username are free.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if taken, err := s.exists(ctx, &models.User{}, "email = ?", u.Email); err != nil {
		return err
	} else if taken {
		return apperr.Duplicate(msgEmailTaken)
	}
	if taken, err := s.UsernameTaken(ctx, u.Username, 0); err != nil {
		return err
	} else if taken {
		return apperr.Duplicate(msgUsernameTaken)
	}

	return translate(s.conn(ctx).Create(u).Error, msgUserNotFound, "Email or username already taken")
}

func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err, msgUserNotFound, "")
	}
	return &u, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err, msgUserNotFound, "")
	}
	return &u, nil
}

// UserExists reports NotFound when no user has the given id.
func (s *Store) UserExists(ctx context.Context, id uint) error {
	ok, err := s.exists(ctx, &models.User{}, "id = ?", id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Missing(msgUserNotFound)
	}
	return nil
}

// UsernameTaken reports whether a user other than exceptID holds username.
func (s *Store) UsernameTaken(ctx context.Context, username string, exceptID uint) (bool, error) {
	if exceptID == 0 {
		return s.exists(ctx, &models.User{}, "username = ?", username)
	}
	return s.exists(ctx, &models.User{}, "username = ? AND id <> ?", username, exceptID)
}

// UpdateUser applies the given column changes to u. UpdatedAt is refreshed by gorm.
func (s *Store) UpdateUser(ctx context.Context, u *models.User, changes map[string]any) error {
	if len(changes) == 0 {
		return nil
	}
	if err := s.conn(ctx).Model(u).Updates(changes).Error; err != nil {
		return translate(err, msgUserNotFound, msgUsernameTaken)
	}
	return nil
}

// DeleteUser removes a user together with everything that references it: likes on the user's
// murmurs, the user's own likes, follow edges in both directions and the user's murmurs.
func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	return s.Transaction(ctx, func(tx *Store) error {
		if err := tx.UserExists(ctx, id); err != nil {
			return err
		}
		db := tx.conn(ctx)

		authored := db.Model(&models.Murmur{}).Select("id").Where("user_id = ?", id)
		steps := []struct {
			model any
			query string
			args  []any
		}{
			{&models.Like{}, "murmur_id IN (?) OR user_id = ?", []any{authored, id}},
			{&models.Follow{}, "follower_id = ? OR followed_id = ?", []any{id, id}},
			{&models.Murmur{}, "user_id = ?", []any{id}},
			{&models.User{}, "id = ?", []any{id}},
		}
		for _, step := range steps {
			if err := db.Where(step.query, step.args...).Delete(step.model).Error; err != nil {
				return translate(err, msgUserNotFound, "")
			}
		}
		return nil
	})
}

// exists runs a LIMIT 1 probe for model rows matching query.
func (s *Store) exists(ctx context.Context, model any, query string, args ...any) (bool, error) {
	var n int64
	err := s.conn(ctx).Model(model).Where(query, args...).Limit(1).Count(&n).Error
	if err != nil {
		return false, apperr.Fail("database error", err)
	}
	return n > 0, nil
}
