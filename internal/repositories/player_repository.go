package repositories

import (
	"errors"

	"github.com/arnav127/sports-ladder/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound = errors.New("player profile not found")
	ErrProfileExists   = errors.New("player profile already exists for this sport")
)

type PlayerRepository struct {
	DB *gorm.DB
}

// CreateProfile inserts a new ladder profile at the default rating. The
// (user, sport) unique index guarantees at most one profile per pair.
func (r *PlayerRepository) CreateProfile(profile *models.PlayerProfile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	if profile.Rating == 0 {
		profile.Rating = models.DefaultRating
	}
	err := r.DB.Create(profile).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrProfileExists
	}
	return err
}

func (r *PlayerRepository) GetProfileByID(id string) (*models.PlayerProfile, error) {
	var profile models.PlayerProfile
	err := r.DB.First(&profile, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	return &profile, err
}

// ProfilesBySportRanked returns a sport's active profiles ordered by rating
// descending. Ties keep a stable order (join time, then id) so rank
// computation is deterministic.
func (r *PlayerRepository) ProfilesBySportRanked(sportID string) ([]models.PlayerProfile, error) {
	var profiles []models.PlayerProfile
	err := r.DB.
		Where("sport_id = ? AND retired = ?", sportID, false).
		Order("rating DESC, created_at ASC, id ASC").
		Find(&profiles).Error
	return profiles, err
}

func (r *PlayerRepository) ProfilesByUser(userID uint) ([]models.PlayerProfile, error) {
	var profiles []models.PlayerProfile
	err := r.DB.Where("user_id = ?", userID).Find(&profiles).Error
	return profiles, err
}

func (r *PlayerRepository) ProfileForUserAndSport(userID uint, sportID string) (*models.PlayerProfile, error) {
	var profile models.PlayerProfile
	err := r.DB.First(&profile, "user_id = ? AND sport_id = ?", userID, sportID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	return &profile, err
}

// ApplyConfirmedResult persists the rating engine's output for one confirmed
// match: both ratings, both match counters, and one rating_history row per
// player, in a single transaction.
func (r *PlayerRepository) ApplyConfirmedResult(matchID, winnerID, loserID string, newWinnerRating, newLoserRating int) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		apply := func(profileID string, newRating int) error {
			var profile models.PlayerProfile
			if err := tx.First(&profile, "id = ?", profileID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProfileNotFound
				}
				return err
			}
			updates := map[string]any{
				"rating":         newRating,
				"matches_played": profile.MatchesPlayed + 1,
			}
			if err := tx.Model(&profile).Updates(updates).Error; err != nil {
				return err
			}
			history := models.RatingHistory{
				PlayerProfileID: profileID,
				MatchID:         matchID,
				OldRating:       profile.Rating,
				NewRating:       newRating,
				Delta:           newRating - profile.Rating,
				Reason:          "match_confirmed",
			}
			return tx.Create(&history).Error
		}

		if err := apply(winnerID, newWinnerRating); err != nil {
			return err
		}
		return apply(loserID, newLoserRating)
	})
}

// RatingHistoryForProfile returns the newest rating changes first.
func (r *PlayerRepository) RatingHistoryForProfile(profileID string, limit int) ([]models.RatingHistory, error) {
	var history []models.RatingHistory
	q := r.DB.Where("player_profile_id = ?", profileID).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&history).Error
	return history, err
}
