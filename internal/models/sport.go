package models

import "time"

// Sport is immutable reference data; rows are seeded at startup or by an
// operator, never through the API.
type Sport struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"unique;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
