package models

import (
	"math"
	"time"
)

// UserView is the public projection of a User. It never carries the password hash.
type UserView struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Bio          string    `json:"bio"`
	ProfileImage string    `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewUserView(u *User) *UserView {
	if u == nil {
		return nil
	}
	return &UserView{
		ID:           u.ID,
		Name:         u.Name,
		Username:     u.Username,
		Email:        u.Email,
		Bio:          u.Bio,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

type UserCounts struct {
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
	MurmursCount   int64 `json:"murmurs_count"`
}

// Profile is a UserView with its social counts, used on profile and search paths.
type Profile struct {
	UserView
	UserCounts
}

type MurmurView struct {
	ID         uint      `json:"id"`
	Content    string    `json:"content"`
	UserID     uint      `json:"user_id"`
	Author     *UserView `json:"author"`
	MediaType  MediaType `json:"media_type"`
	MediaURL   string    `json:"media_url"`
	LikesCount int64     `json:"likes_count"`
	LikedByMe  bool      `json:"liked_by_me"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

const (
	DefaultPerPage       = 20
	DefaultSearchPerPage = 10
	MaxPerPage           = 100
)

// PageRequest is a 1-based page index and a page size.
type PageRequest struct {
	Page    int
	PerPage int
}

// Offset is the number of rows before the page. Pages too far out to address saturate at
// math.MaxInt, which still selects nothing.
func (p PageRequest) Offset() int {
	if p.Page < 1 || p.PerPage < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PerPage {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PerPage
}

type Page[T any] struct {
	Items       []T
	Total       int64
	Pages       int
	CurrentPage int
}

func NewPage[T any](items []T, total int64, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if req.PerPage > 0 {
		pages = int((total + int64(req.PerPage) - 1) / int64(req.PerPage))
	}
	return Page[T]{Items: items, Total: total, Pages: pages, CurrentPage: req.Page}
}
