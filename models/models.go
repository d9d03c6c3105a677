package models

import (
	"time"
)

type MediaType string

const (
	MediaNone  MediaType = "none"
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
)

// ParseMediaType accepts the empty string as MediaNone.
func ParseMediaType(s string) (MediaType, bool) {
	switch MediaType(s) {
	case "", MediaNone:
		return MediaNone, true
	case MediaImage, MediaVideo, MediaAudio:
		return MediaType(s), true
	}
	return "", false
}

// Length bounds shared by the schema and input validation.
const (
	MaxNameLen     = 100
	MaxUsernameLen = 50
	MaxEmailLen    = 100
	MaxBioLen      = 500
	MaxContentLen  = 280
)

type User struct {
	ID           uint `gorm:"primarykey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Name         string `gorm:"size:100;not null"`
	Username     string `gorm:"size:50;not null;uniqueIndex"`
	Email        string `gorm:"size:100;not null;uniqueIndex"`
	PasswordHash string `gorm:"size:200;not null"`
	Bio          string `gorm:"size:500"`
	ProfileImage string `gorm:"type:text"`
}

type Murmur struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index:idx_murmurs_user_created,priority:2"`
	UpdatedAt time.Time
	Content   string    `gorm:"size:280;not null"`
	MediaType MediaType `gorm:"size:20;not null;default:'none'"`
	MediaURL  string    `gorm:"type:text"`
	UserID    uint      `gorm:"not null;index:idx_murmurs_user_created,priority:1"`
	User      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// HasMedia reports whether the murmur carries a media reference.
func (m *Murmur) HasMedia() bool {
	return m.MediaType != "" && m.MediaType != MediaNone && m.MediaURL != ""
}

type Like struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UserID    uint    `gorm:"not null;uniqueIndex:idx_likes_user_murmur"`
	MurmurID  uint    `gorm:"not null;uniqueIndex:idx_likes_user_murmur;index"`
	User      *User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Murmur    *Murmur `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

type Follow struct {
	ID         uint `gorm:"primarykey"`
	CreatedAt  time.Time
	FollowerID uint  `gorm:"not null;uniqueIndex:idx_follows_pair"`
	FollowedID uint  `gorm:"not null;uniqueIndex:idx_follows_pair;index"`
	Follower   *User `gorm:"foreignKey:FollowerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Followed   *User `gorm:"foreignKey:FollowedID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// All lists every model in dependency order for AutoMigrate.
func All() []any {
	return []any{&User{}, &Murmur{}, &Like{}, &Follow{}}
}
