package service

import (
	"context"

	"github.com/petermazzocco/murmur-api/internal/apperr"
	"github.com/petermazzocco/murmur-api/internal/store"
)

// FollowCounts is returned after a follow edge changes.
type FollowCounts struct {
	// FollowersCount of the followed user.
	FollowersCount int64 `json:"followers_count"`
	// FollowingCount of the caller.
	FollowingCount int64 `json:"following_count"`
}

// Like records that caller likes murmurID and returns the murmur's like count.
func (s *Service) Like(ctx context.Context, caller, murmurID uint) (int64, error) {
	if err := requireCaller(caller); err != nil {
		return 0, err
	}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if _, err := tx.MurmurByID(ctx, murmurID); err != nil {
			return err
		}
		if err := tx.UserExists(ctx, caller); err != nil {
			return err
		}
		liked, err := tx.HasLike(ctx, caller, murmurID)
		if err != nil {
			return err
		}
		if liked {
			return apperr.Duplicate("Already liked this murmur")
		}
		return tx.CreateLike(ctx, caller, murmurID)
	})
	if err != nil {
		return 0, err
	}
	return s.likeCount(ctx, murmurID)
}

// Unlike removes caller's like. Unliking a murmur that was never liked fails InvalidState.
func (s *Service) Unlike(ctx context.Context, caller, murmurID uint) (int64, error) {
	if err := requireCaller(caller); err != nil {
		return 0, err
	}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if _, err := tx.MurmurByID(ctx, murmurID); err != nil {
			return err
		}
		return tx.DeleteLike(ctx, caller, murmurID)
	})
	if err != nil {
		return 0, err
	}
	return s.likeCount(ctx, murmurID)
}

func (s *Service) likeCount(ctx context.Context, murmurID uint) (int64, error) {
	counts, err := s.store.LikeCounts(ctx, []uint{murmurID})
	if err != nil {
		return 0, err
	}
	return counts[murmurID], nil
}

// Follow adds the edge caller -> followed. Following oneself is allowed.
func (s *Service) Follow(ctx context.Context, caller, followed uint) (*FollowCounts, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := bothExist(ctx, tx, followed, caller); err != nil {
			return err
		}
		following, err := tx.HasFollow(ctx, caller, followed)
		if err != nil {
			return err
		}
		if following {
			return apperr.Duplicate("Already following this user")
		}
		return tx.CreateFollow(ctx, caller, followed)
	})
	if err != nil {
		return nil, err
	}
	return s.followCounts(ctx, caller, followed)
}

// Unfollow removes the edge caller -> followed, failing InvalidState if it does not exist.
func (s *Service) Unfollow(ctx context.Context, caller, followed uint) (*FollowCounts, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := bothExist(ctx, tx, followed, caller); err != nil {
			return err
		}
		return tx.DeleteFollow(ctx, caller, followed)
	})
	if err != nil {
		return nil, err
	}
	return s.followCounts(ctx, caller, followed)
}

func bothExist(ctx context.Context, tx *store.Store, ids ...uint) error {
	for _, id := range ids {
		if err := tx.UserExists(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) followCounts(ctx context.Context, caller, followed uint) (*FollowCounts, error) {
	counts, err := s.store.UserCounts(ctx, []uint{caller, followed})
	if err != nil {
		return nil, err
	}
	return &FollowCounts{
		FollowersCount: counts[followed].FollowersCount,
		FollowingCount: counts[caller].FollowingCount,
	}, nil
}
