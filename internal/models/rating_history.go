package models

import "time"

// RatingHistory records one rating change for one profile. Two rows are
// written per confirmed match, in the same transaction as the rating update.
type RatingHistory struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PlayerProfileID string    `gorm:"not null;index" json:"player_profile_id"`
	MatchID         string    `gorm:"not null;index" json:"match_id"`
	OldRating       int       `gorm:"not null" json:"old_rating"`
	NewRating       int       `gorm:"not null" json:"new_rating"`
	Delta           int       `gorm:"not null" json:"delta"`
	Reason          string    `gorm:"not null" json:"reason"`
	CreatedAt       time.Time `json:"created_at"`
}

func (RatingHistory) TableName() string {
	return "rating_history"
}
