package models

import "time"

// MatchStatus is the closed set of lifecycle states. Transitions are owned by
// the challenge service; nothing else writes status.
type MatchStatus string

const (
	// StatusChallenged: challenge issued, waiting for the opponent to accept
	// or reject.
	StatusChallenged MatchStatus = "CHALLENGED"
	// StatusPending: challenge accepted, match is to be played and its result
	// reported.
	StatusPending MatchStatus = "PENDING"
	// StatusProcessing: a tentative result was reported and awaits
	// verification by the other participant.
	StatusProcessing MatchStatus = "PROCESSING"
	// StatusConfirmed: result verified, ratings applied. Terminal.
	StatusConfirmed MatchStatus = "CONFIRMED"
	// StatusProcessed is a legacy terminal marker kept for old rows; reads
	// treat it exactly like StatusConfirmed.
	StatusProcessed MatchStatus = "PROCESSED"
	// StatusCancelled: challenge rejected. Terminal.
	StatusCancelled MatchStatus = "CANCELLED"
)

// ActiveStatuses are the non-terminal states. At most one match between a
// given pair of players in a sport may be in one of these at any time.
var ActiveStatuses = []MatchStatus{StatusChallenged, StatusPending, StatusProcessing}

// Active reports whether the status is non-terminal.
func (s MatchStatus) Active() bool {
	return s == StatusChallenged || s == StatusPending || s == StatusProcessing
}

// Finalized reports whether the match reached the terminal confirmed state.
func (s MatchStatus) Finalized() bool {
	return s == StatusConfirmed || s == StatusProcessed
}

// Terminal reports whether no further transitions are possible.
func (s MatchStatus) Terminal() bool {
	return s.Finalized() || s == StatusCancelled
}

// Match is one challenge between two distinct players of the same sport.
// Player1 is always the challenger. Rows are never deleted; terminal matches
// are kept as history.
type Match struct {
	ID        string      `gorm:"primaryKey" json:"id"`
	SportID   string      `gorm:"not null;index" json:"sport_id"`
	Player1ID string      `gorm:"not null;index" json:"player1_id"`
	Player2ID string      `gorm:"not null;index" json:"player2_id"`
	Status    MatchStatus `gorm:"type:varchar(16);not null;index" json:"status"`

	// WinnerID and ReportedBy are set while a tentative result awaits
	// verification and cleared again on dispute. Both always reference one of
	// the two participants.
	WinnerID   *string `json:"winner_id"`
	ReportedBy *string `json:"reported_by"`

	// ActionToken authorizes link-based actions without a session. It is
	// minted once at creation, reused for the whole lifecycle, and never
	// rotated. Holders can accept, reject, report and verify, so it is a
	// long-lived secret: never serialized on reads, revealed only to the
	// creating challenger, the participants' own pending view, and the
	// notification emails.
	ActionToken string  `gorm:"not null" json:"-"`
	Message     *string `json:"message"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasParticipant reports whether the profile is one of the two players.
func (m *Match) HasParticipant(profileID string) bool {
	return profileID != "" && (m.Player1ID == profileID || m.Player2ID == profileID)
}

// OpponentOf returns the other participant's profile id, or "" when the
// profile is not part of the match.
func (m *Match) OpponentOf(profileID string) string {
	switch profileID {
	case m.Player1ID:
		return m.Player2ID
	case m.Player2ID:
		return m.Player1ID
	}
	return ""
}
