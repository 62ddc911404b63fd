package models

import "time"

// DefaultRating is the rating assigned when a user joins a sport.
const DefaultRating = 1500

// PlayerProfile is a user's standing on one sport's ladder. At most one
// profile exists per (user, sport) pair. Ratings are only mutated by the
// rating engine when a match is confirmed; profiles are never deleted, only
// retired.
type PlayerProfile struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index;uniqueIndex:idx_profile_user_sport" json:"user_id"`
	SportID       string    `gorm:"not null;index;uniqueIndex:idx_profile_user_sport" json:"sport_id"`
	Rating        int       `gorm:"not null" json:"rating"`
	MatchesPlayed int       `gorm:"not null;default:0" json:"matches_played"`
	Retired       bool      `gorm:"not null;default:false" json:"retired"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RankedPlayer is a profile with its computed ladder rank. Ranks are derived
// on every read and never persisted.
type RankedPlayer struct {
	PlayerProfile
	Rank int `json:"rank"`
}
