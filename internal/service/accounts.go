package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/petermazzocco/murmur-api/internal/apperr"
	"github.com/petermazzocco/murmur-api/internal/media"
	"github.com/petermazzocco/murmur-api/internal/store"
	"github.com/petermazzocco/murmur-api/models"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Bio      *string `json:"bio"`
}

// ProfileUpdate holds the fields to change. Nil fields are left alone.
type ProfileUpdate struct {
	Name         *string `json:"name"`
	Username     *string `json:"username"`
	Bio          *string `json:"bio"`
	ProfileImage *string `json:"profile_image"`
}

func checkLen(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return apperr.Invalid(fmt.Sprintf("%s exceeds maximum length of %d characters", field, max))
	}
	return nil
}

func checkRequired(field, value string, max int) error {
	if value == "" {
		return apperr.Invalid(field + " is required")
	}
	return checkLen(field, value, max)
}

func (in *RegisterInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if err := checkRequired("name", in.Name, models.MaxNameLen); err != nil {
		return err
	}
	if err := checkRequired("username", in.Username, models.MaxUsernameLen); err != nil {
		return err
	}
	if err := checkRequired("email", in.Email, models.MaxEmailLen); err != nil {
		return err
	}
	if in.Password == "" {
		return apperr.Invalid("password is required")
	}
	if in.Bio != nil {
		return checkLen("bio", *in.Bio, models.MaxBioLen)
	}
	return nil
}

// Register creates a user. The password is kept only as a bcrypt hash.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.UserView, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperr.Invalid("password is too long")
		}
		return nil, apperr.Fail("hash password", err)
	}

	bio := fmt.Sprintf("Hi, I'm %s!", in.Name)
	if in.Bio != nil {
		bio = *in.Bio
	}
	u := &models.User{
		Name:         in.Name,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Bio:          bio,
	}

	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		return tx.CreateUser(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return models.NewUserView(u), nil
}

// Authenticate checks an email and password pair. Unknown emails and wrong passwords fail the
// same way.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.UserView, error) {
	invalid := apperr.Unauth("Invalid email or password")
	if email == "" || password == "" {
		return nil, invalid
	}

	u, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, invalid
	}
	return models.NewUserView(u), nil
}

// GetProfile returns the user with follower, following and murmur counts.
func (s *Service) GetProfile(ctx context.Context, id uint) (*models.Profile, error) {
	u, err := s.store.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profiles, err := s.profiles(ctx, []models.User{*u})
	if err != nil {
		return nil, err
	}
	return &profiles[0], nil
}

// UpdateProfile applies a partial update. A new username must not belong to another user.
func (s *Service) UpdateProfile(ctx context.Context, caller uint, upd ProfileUpdate) (*models.UserView, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if err := checkRequired("name", name, models.MaxNameLen); err != nil {
			return nil, err
		}
		changes["name"] = name
	}
	if upd.Username != nil {
		username := strings.TrimSpace(*upd.Username)
		if err := checkRequired("username", username, models.MaxUsernameLen); err != nil {
			return nil, err
		}
		changes["username"] = username
	}
	if upd.Bio != nil {
		if err := checkLen("bio", *upd.Bio, models.MaxBioLen); err != nil {
			return nil, err
		}
		changes["bio"] = *upd.Bio
	}
	if upd.ProfileImage != nil {
		changes["profile_image"] = *upd.ProfileImage
	}

	var updated *models.User
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		u, err := tx.UserByID(ctx, caller)
		if err != nil {
			return err
		}
		if username, ok := changes["username"].(string); ok && username != u.Username {
			taken, err := tx.UsernameTaken(ctx, username, u.ID)
			if err != nil {
				return err
			}
			if taken {
				return apperr.Duplicate("Username already taken")
			}
		}
		if err := tx.UpdateUser(ctx, u, changes); err != nil {
			return err
		}
		updated, err = tx.UserByID(ctx, caller)
		return err
	})
	if err != nil {
		return nil, err
	}
	return models.NewUserView(updated), nil
}

// UploadProfileImage stores the image through the configured media store and saves the returned
// reference on the caller's profile.
func (s *Service) UploadProfileImage(ctx context.Context, caller uint, filename string, data []byte) (*models.UserView, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := s.store.UserExists(ctx, caller); err != nil {
		return nil, err
	}
	img, err := media.NewImage(filename, data)
	if err != nil {
		return nil, err
	}

	ref, err := s.images.Put(ctx, caller, img)
	if err != nil {
		return nil, err
	}

	var updated *models.User
	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		u, err := tx.UserByID(ctx, caller)
		if err != nil {
			return err
		}
		if err := tx.UpdateUser(ctx, u, map[string]any{"profile_image": ref}); err != nil {
			return err
		}
		updated, err = tx.UserByID(ctx, caller)
		return err
	})
	if err != nil {
		log.Printf("Profile image for user %d stored at %s but not saved: %v", caller, ref, err)
		return nil, err
	}
	return models.NewUserView(updated), nil
}
