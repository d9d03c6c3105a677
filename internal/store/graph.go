package store

import (
	"context"

	"github.com/petermazzocco/murmur-api/internal/apperr"
	"github.com/petermazzocco/murmur-api/models"
)

const (
	msgAlreadyLiked     = "Already liked this murmur"
	msgNotLiked         = "Not liked this murmur yet"
	msgAlreadyFollowing = "Already following this user"
	msgNotFollowing     = "Not following this user"
)

func (s *Store) HasLike(ctx context.Context, userID, murmurID uint) (bool, error) {
	return s.exists(ctx, &models.Like{}, "user_id = ? AND murmur_id = ?", userID, murmurID)
}

func (s *Store) CreateLike(ctx context.Context, userID, murmurID uint) error {
	like := models.Like{UserID: userID, MurmurID: murmurID}
	return translate(s.conn(ctx).Omit("User", "Murmur").Create(&like).Error, msgMurmurNotFound, msgAlreadyLiked)
}

// DeleteLike fails InvalidState when there is no like to remove.
func (s *Store) DeleteLike(ctx context.Context, userID, murmurID uint) error {
	res := s.conn(ctx).Where("user_id = ? AND murmur_id = ?", userID, murmurID).Delete(&models.Like{})
	if res.Error != nil {
		return translate(res.Error, msgMurmurNotFound, "")
	}
	if res.RowsAffected == 0 {
		return apperr.BadState(msgNotLiked)
	}
	return nil
}

func (s *Store) HasFollow(ctx context.Context, followerID, followedID uint) (bool, error) {
	return s.exists(ctx, &models.Follow{}, "follower_id = ? AND followed_id = ?", followerID, followedID)
}

func (s *Store) CreateFollow(ctx context.Context, followerID, followedID uint) error {
	follow := models.Follow{FollowerID: followerID, FollowedID: followedID}
	return translate(s.conn(ctx).Omit("Follower", "Followed").Create(&follow).Error, msgUserNotFound, msgAlreadyFollowing)
}

// DeleteFollow fails InvalidState when the edge does not exist.
func (s *Store) DeleteFollow(ctx context.Context, followerID, followedID uint) error {
	res := s.conn(ctx).Where("follower_id = ? AND followed_id = ?", followerID, followedID).Delete(&models.Follow{})
	if res.Error != nil {
		return translate(res.Error, msgUserNotFound, "")
	}
	if res.RowsAffected == 0 {
		return apperr.BadState(msgNotFollowing)
	}
	return nil
}

// FollowDirection picks which side of the follow edge a listing returns.
type FollowDirection int

const (
	// Followers lists the users following the subject.
	Followers FollowDirection = iota
	// Following lists the users the subject follows.
	Following
)

// ListFollows returns one page of users on the other end of userID's follow edges, most recent
// edge first.
func (s *Store) ListFollows(ctx context.Context, userID uint, dir FollowDirection, page models.PageRequest) ([]models.User, int64, error) {
	match, join := "follows.followed_id = ?", "JOIN follows ON follows.follower_id = users.id"
	if dir == Following {
		match, join = "follows.follower_id = ?", "JOIN follows ON follows.followed_id = users.id"
	}

	var total int64
	if err := s.conn(ctx).Model(&models.Follow{}).Where(match, userID).Count(&total).Error; err != nil {
		return nil, 0, apperr.Fail("count follows", err)
	}

	var users []models.User
	err := s.conn(ctx).
		Joins(join).
		Where(match, userID).
		Order("follows.created_at DESC").
		Order("follows.id DESC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&users).Error
	if err != nil {
		return nil, 0, apperr.Fail("list follows", err)
	}
	return users, total, nil
}
