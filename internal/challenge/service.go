package challenge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arnav127/sports-ladder/internal/events"
	"github.com/arnav127/sports-ladder/internal/models"
	"github.com/arnav127/sports-ladder/internal/ranking"
	"github.com/arnav127/sports-ladder/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlayerStore is the profile persistence the service depends on.
type PlayerStore interface {
	GetProfileByID(id string) (*models.PlayerProfile, error)
	ProfilesBySportRanked(sportID string) ([]models.PlayerProfile, error)
	ProfilesByUser(userID uint) ([]models.PlayerProfile, error)
	ApplyConfirmedResult(matchID, winnerID, loserID string, newWinnerRating, newLoserRating int) error
}

// MatchStore is the match persistence the service depends on. Status writes
// go through CompareAndSwapStatus so concurrent requests serialize on the
// database row; confirmation uses ConfirmResult so the transition and the
// rating application land atomically.
type MatchStore interface {
	CreateMatch(match *models.Match) error
	GetMatchByID(id string) (*models.Match, error)
	CompareAndSwapStatus(id string, expected models.MatchStatus, updates map[string]any) (*models.Match, error)
	ConfirmResult(id string, updates map[string]any, winnerID, loserID string, newWinnerRating, newLoserRating int) (*models.Match, error)
}

// RatingEngine turns a confirmed result into two new ratings.
type RatingEngine interface {
	ApplyResult(winnerRating, winnerPlayed, loserRating, loserPlayed int) (newWinnerRating, newLoserRating int)
}

// Credentials carries whichever of the two auth mechanisms the caller
// presented. UserID is zero when there is no session; Token is empty when no
// action token was supplied. A non-empty token always takes precedence.
type Credentials struct {
	UserID uint
	Token  string
}

// Service owns the match lifecycle: challenge creation, accept/reject,
// result reporting and verification.
type Service struct {
	players  PlayerStore
	matches  MatchStore
	engine   RatingEngine
	emitter  events.Emitter
	logger   *zap.Logger
	now      func() time.Time
	newToken func() string
}

type Option func(*Service)

// WithClock overrides the service's time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithTokenGenerator overrides action token minting.
func WithTokenGenerator(gen func() string) Option {
	return func(s *Service) { s.newToken = gen }
}

func NewService(players PlayerStore, matches MatchStore, engine RatingEngine, emitter events.Emitter, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		players:  players,
		matches:  matches,
		engine:   engine,
		emitter:  emitter,
		logger:   logger,
		now:      time.Now,
		newToken: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateChallengeRequest struct {
	ChallengerID string
	OpponentID   string
	Message      *string
	// SkipEligibility bypasses the ladder-window check. Reserved for
	// administrative tooling; the public API never sets it.
	SkipEligibility bool
}

// CreateChallenge issues a new challenge from the challenger to the
// opponent. It requires a session owning the challenger profile, both
// profiles on the same ladder, the opponent inside the challenger's
// eligibility window, and no other unresolved match between the pair.
func (s *Service) CreateChallenge(ctx context.Context, creds Credentials, req CreateChallengeRequest) (*models.Match, error) {
	if creds.UserID == 0 {
		return nil, newError(KindAuthenticationRequired, "sign in to issue a challenge")
	}
	if req.ChallengerID == req.OpponentID {
		return nil, newError(KindSelfChallenge, "you cannot challenge yourself")
	}

	challenger, err := s.getProfile(req.ChallengerID)
	if err != nil {
		return nil, err
	}
	if challenger.UserID != creds.UserID {
		return nil, newError(KindUnauthorized, "challenger profile does not belong to you")
	}
	opponent, err := s.getProfile(req.OpponentID)
	if err != nil {
		return nil, err
	}
	if opponent.SportID != challenger.SportID {
		return nil, newError(KindNotEligible, "opponent plays a different sport")
	}

	if !req.SkipEligibility {
		ok, err := s.isChallengeable(challenger.SportID, challenger.ID, opponent.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, newError(KindNotEligible, "opponent is outside your challenge window")
		}
	}

	match := &models.Match{
		SportID:     challenger.SportID,
		Player1ID:   challenger.ID,
		Player2ID:   opponent.ID,
		Status:      models.StatusChallenged,
		ActionToken: s.newToken(),
		Message:     req.Message,
		CreatedAt:   s.now(),
		UpdatedAt:   s.now(),
	}
	if err := s.matches.CreateMatch(match); err != nil {
		if errors.Is(err, repositories.ErrActivePairMatch) {
			return nil, newError(KindDuplicateChallenge, "an unresolved match already exists between you two")
		}
		return nil, err
	}

	s.logger.Info("challenge created",
		zap.String("matchId", match.ID),
		zap.String("sportId", match.SportID),
		zap.String("challenger", match.Player1ID),
		zap.String("opponent", match.Player2ID))
	s.emit(ctx, events.EventMatchNew, events.Payload{MatchID: match.ID})
	return match, nil
}

// Act accepts or rejects a standing challenge. Allowed actions are "accept"
// (CHALLENGED to PENDING) and "reject" (CHALLENGED to CANCELLED).
func (s *Service) Act(ctx context.Context, creds Credentials, matchID, action string) (*models.Match, error) {
	var next models.MatchStatus
	switch action {
	case "accept":
		next = models.StatusPending
	case "reject":
		next = models.StatusCancelled
	default:
		return nil, newError(KindInvalidTransition, fmt.Sprintf("unknown action %q", action))
	}

	match, err := s.getMatch(matchID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(match, creds); err != nil {
		return nil, err
	}
	if match.Status != models.StatusChallenged {
		return nil, newError(KindInvalidTransition,
			fmt.Sprintf("cannot %s a match in status %s", action, match.Status))
	}

	updated, err := s.swapStatus(match.ID, models.StatusChallenged, map[string]any{
		"status":     next,
		"updated_at": s.now(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("challenge actioned",
		zap.String("matchId", updated.ID),
		zap.String("action", action),
		zap.String("status", string(updated.Status)))
	s.emit(ctx, events.EventMatchAction, events.Payload{MatchID: updated.ID, Action: action})
	return updated, nil
}

// SubmitResult records a tentative winner for an accepted match, moving it
// from PENDING to PROCESSING. The reporter defaults to the winner when not
// given; both must be participants.
func (s *Service) SubmitResult(ctx context.Context, creds Credentials, matchID, winnerID, reportedBy string) (*models.Match, error) {
	match, err := s.getMatch(matchID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(match, creds); err != nil {
		return nil, err
	}
	if !match.HasParticipant(winnerID) {
		return nil, newError(KindInvalidWinner, "winner must be one of the match participants")
	}
	if reportedBy == "" {
		reportedBy = winnerID
	}
	if !match.HasParticipant(reportedBy) {
		return nil, newError(KindInvalidReporter, "reporter must be one of the match participants")
	}
	if match.Status != models.StatusPending {
		return nil, newError(KindInvalidTransition,
			fmt.Sprintf("cannot report a result for a match in status %s", match.Status))
	}

	updated, err := s.swapStatus(match.ID, models.StatusPending, map[string]any{
		"status":      models.StatusProcessing,
		"winner_id":   winnerID,
		"reported_by": reportedBy,
		"updated_at":  s.now(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("result reported",
		zap.String("matchId", updated.ID),
		zap.String("winner", winnerID),
		zap.String("reporter", reportedBy))
	s.emit(ctx, events.EventMatchResult, events.Payload{MatchID: updated.ID})
	return updated, nil
}

// Verify resolves a reported result. "yes" confirms the match and applies
// ratings; "no" disputes it, clearing the tentative result and returning the
// match to PENDING so a corrected result can be reported.
func (s *Service) Verify(ctx context.Context, creds Credentials, matchID, verify string) (*models.Match, error) {
	if verify != "yes" && verify != "no" {
		return nil, newError(KindInvalidTransition, fmt.Sprintf("unknown verification %q", verify))
	}

	match, err := s.getMatch(matchID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(match, creds); err != nil {
		return nil, err
	}
	if match.Status != models.StatusProcessing {
		return nil, newError(KindInvalidTransition,
			fmt.Sprintf("cannot verify a match in status %s", match.Status))
	}

	if verify == "no" {
		updated, err := s.swapStatus(match.ID, models.StatusProcessing, map[string]any{
			"status":      models.StatusPending,
			"winner_id":   nil,
			"reported_by": nil,
			"updated_at":  s.now(),
		})
		if err != nil {
			return nil, err
		}
		s.logger.Info("result disputed", zap.String("matchId", updated.ID))
		s.emit(ctx, events.EventMatchVerify, events.Payload{MatchID: updated.ID, Action: "no"})
		return updated, nil
	}

	if match.WinnerID == nil {
		return nil, newError(KindInvalidTransition, "match has no reported winner")
	}
	winnerID := *match.WinnerID
	loserID := match.OpponentOf(winnerID)

	winner, err := s.players.GetProfileByID(winnerID)
	if err != nil {
		return nil, err
	}
	loser, err := s.players.GetProfileByID(loserID)
	if err != nil {
		return nil, err
	}
	newWinnerRating, newLoserRating := s.engine.ApplyResult(
		winner.Rating, winner.MatchesPlayed,
		loser.Rating, loser.MatchesPlayed,
	)

	// Transition and rating application commit together; a failure on
	// either side leaves the match in PROCESSING.
	updated, err := s.matches.ConfirmResult(match.ID, map[string]any{
		"status":     models.StatusConfirmed,
		"updated_at": s.now(),
	}, winnerID, loserID, newWinnerRating, newLoserRating)
	if err != nil {
		if errors.Is(err, repositories.ErrStaleStatus) {
			return nil, newError(KindInvalidTransition, "match status changed, reload and retry")
		}
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, newError(KindNotFound, "match not found")
		}
		s.logger.Error("failed to confirm match",
			zap.String("matchId", match.ID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("match confirmed",
		zap.String("matchId", updated.ID),
		zap.String("winner", winnerID))
	s.emit(ctx, events.EventMatchVerify, events.Payload{MatchID: updated.ID, Action: "yes"})
	return updated, nil
}

// authorize checks the caller may act on the match. A presented action token
// must match exactly; with no token, the session must own one of the two
// participant profiles; with neither, the caller is anonymous.
func (s *Service) authorize(match *models.Match, creds Credentials) error {
	if creds.Token != "" {
		if creds.Token != match.ActionToken {
			return newError(KindInvalidToken, "invalid action token")
		}
		return nil
	}
	if creds.UserID == 0 {
		return newError(KindAuthenticationRequired, "sign in or present an action token")
	}
	profiles, err := s.players.ProfilesByUser(creds.UserID)
	if err != nil {
		return err
	}
	for _, p := range profiles {
		if match.HasParticipant(p.ID) {
			return nil
		}
	}
	return newError(KindUnauthorized, "you are not a participant in this match")
}

func (s *Service) isChallengeable(sportID, challengerID, opponentID string) (bool, error) {
	profiles, err := s.players.ProfilesBySportRanked(sportID)
	if err != nil {
		return false, err
	}
	entries := make([]ranking.Entry, len(profiles))
	for i, p := range profiles {
		entries[i] = ranking.Entry{ProfileID: p.ID, Rating: p.Rating}
	}
	for _, e := range ranking.Challengeable(ranking.Rank(entries), challengerID) {
		if e.ProfileID == opponentID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) getProfile(id string) (*models.PlayerProfile, error) {
	profile, err := s.players.GetProfileByID(id)
	if errors.Is(err, repositories.ErrProfileNotFound) {
		return nil, newError(KindNotFound, "player profile not found")
	}
	return profile, err
}

func (s *Service) getMatch(id string) (*models.Match, error) {
	match, err := s.matches.GetMatchByID(id)
	if errors.Is(err, repositories.ErrMatchNotFound) {
		return nil, newError(KindNotFound, "match not found")
	}
	return match, err
}

func (s *Service) swapStatus(id string, expected models.MatchStatus, updates map[string]any) (*models.Match, error) {
	updated, err := s.matches.CompareAndSwapStatus(id, expected, updates)
	if errors.Is(err, repositories.ErrStaleStatus) {
		return nil, newError(KindInvalidTransition, "match status changed, reload and retry")
	}
	if errors.Is(err, repositories.ErrMatchNotFound) {
		return nil, newError(KindNotFound, "match not found")
	}
	return updated, err
}

// emit failures are logged by the emitter; lifecycle writes never roll back
// because a notification could not be published.
func (s *Service) emit(ctx context.Context, event string, payload events.Payload) {
	_ = s.emitter.Emit(ctx, event, payload)
}
