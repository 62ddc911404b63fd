package repositories

import (
	"errors"

	"github.com/arnav127/sports-ladder/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	// ErrActivePairMatch: an unresolved match already exists between the two
	// players in this sport.
	ErrActivePairMatch = errors.New("active match already exists for this pair")
	// ErrStaleStatus: the conditional status update matched no row, i.e. the
	// match moved on (or never was) in the expected state.
	ErrStaleStatus = errors.New("match status changed concurrently")
)

type MatchRepository struct {
	DB *gorm.DB
}

// activePairScope narrows a query to unresolved matches between the two
// players in the sport, in either orientation. Both the create-path guard
// and ActiveMatchForPair go through it so there is one definition of "the
// pair already has a match".
func activePairScope(db *gorm.DB, sportID, profileA, profileB string) *gorm.DB {
	return db.
		Where("sport_id = ? AND status IN ?", sportID, models.ActiveStatuses).
		Where(
			"(player1_id = ? AND player2_id = ?) OR (player1_id = ? AND player2_id = ?)",
			profileA, profileB, profileB, profileA,
		)
}

// CreateMatch inserts a new challenge after verifying no active match exists
// for the unordered pair within the sport. The check and the insert run in
// one transaction; the partial unique index created at startup backstops
// concurrent creators racing past the check, surfacing as a duplicate-key
// error which is mapped to ErrActivePairMatch as well.
func (r *MatchRepository) CreateMatch(match *models.Match) error {
	if match.ID == "" {
		match.ID = uuid.NewString()
	}
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := activePairScope(tx.Model(&models.Match{}), match.SportID, match.Player1ID, match.Player2ID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrActivePairMatch
		}
		return tx.Create(match).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrActivePairMatch
	}
	return err
}

func (r *MatchRepository) GetMatchByID(id string) (*models.Match, error) {
	var match models.Match
	err := r.DB.First(&match, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMatchNotFound
	}
	return &match, err
}

func (r *MatchRepository) ActiveMatchForPair(sportID, profileA, profileB string) (*models.Match, error) {
	var match models.Match
	err := activePairScope(r.DB, sportID, profileA, profileB).First(&match).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMatchNotFound
	}
	return &match, err
}

// CompareAndSwapStatus applies updates only if the match is still in the
// expected status. A zero-row update means a concurrent transition (or a
// guard failure) won the race; callers treat ErrStaleStatus as an invalid
// transition. This is the serialization point for all lifecycle writes.
// The re-read shares the update's transaction, so the returned match is the
// state this call produced, not whatever a racing later transition left.
func (r *MatchRepository) CompareAndSwapStatus(id string, expected models.MatchStatus, updates map[string]any) (*models.Match, error) {
	var match models.Match
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Match{}).
			Where("id = ? AND status = ?", id, expected).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Distinguish a missing match from a stale status.
			var count int64
			if err := tx.Model(&models.Match{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrMatchNotFound
			}
			return ErrStaleStatus
		}
		return tx.First(&match, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// ConfirmResult runs the PROCESSING to CONFIRMED transition and the rating
// application as one transaction: if either side fails, neither lands, so a
// confirmed match always has its ratings applied.
func (r *MatchRepository) ConfirmResult(id string, updates map[string]any, winnerID, loserID string, newWinnerRating, newLoserRating int) (*models.Match, error) {
	var match *models.Match
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		m, err := (&MatchRepository{DB: tx}).CompareAndSwapStatus(id, models.StatusProcessing, updates)
		if err != nil {
			return err
		}
		if err := (&PlayerRepository{DB: tx}).ApplyConfirmedResult(id, winnerID, loserID, newWinnerRating, newLoserRating); err != nil {
			return err
		}
		match = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

// MatchesForProfile returns the newest matches first, optionally limited.
func (r *MatchRepository) MatchesForProfile(profileID string, limit int) ([]models.Match, error) {
	var matches []models.Match
	q := r.DB.
		Where("player1_id = ? OR player2_id = ?", profileID, profileID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&matches).Error
	return matches, err
}

// ActiveMatchesForProfiles returns every unresolved match involving any of
// the given profiles, newest first.
func (r *MatchRepository) ActiveMatchesForProfiles(profileIDs []string) ([]models.Match, error) {
	if len(profileIDs) == 0 {
		return nil, nil
	}
	var matches []models.Match
	err := r.DB.
		Where("status IN ?", models.ActiveStatuses).
		Where("player1_id IN ? OR player2_id IN ?", profileIDs, profileIDs).
		Order("created_at DESC, id DESC").
		Find(&matches).Error
	return matches, err
}

// FinalizedForProfile returns the profile's confirmed matches (including
// legacy PROCESSED rows), newest first.
func (r *MatchRepository) FinalizedForProfile(profileID string) ([]models.Match, error) {
	var matches []models.Match
	err := r.DB.
		Where("status IN ?", []models.MatchStatus{models.StatusConfirmed, models.StatusProcessed}).
		Where("player1_id = ? OR player2_id = ?", profileID, profileID).
		Order("created_at DESC, id DESC").
		Find(&matches).Error
	return matches, err
}

// RecentFinalized returns the latest confirmed matches across all sports.
func (r *MatchRepository) RecentFinalized(limit int) ([]models.Match, error) {
	if limit <= 0 {
		limit = 20
	}
	var matches []models.Match
	err := r.DB.
		Where("status IN ?", []models.MatchStatus{models.StatusConfirmed, models.StatusProcessed}).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&matches).Error
	return matches, err
}

// EnsureActivePairIndex creates the partial unique index backing the
// pair-uniqueness guarantee. LEAST/GREATEST normalizes the unordered pair.
// Postgres only; SQLite test databases rely on the transactional check in
// CreateMatch.
func (r *MatchRepository) EnsureActivePairIndex() error {
	return r.DB.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_matches_active_pair
		ON matches (sport_id, LEAST(player1_id, player2_id), GREATEST(player1_id, player2_id))
		WHERE status IN ('CHALLENGED', 'PENDING', 'PROCESSING')
	`).Error
}
