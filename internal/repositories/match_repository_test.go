package repositories

import (
	"errors"
	"testing"

	"github.com/arnav127/sports-ladder/internal/models"
	"github.com/arnav127/sports-ladder/internal/testhelpers"
)

func newMatchRepo(t *testing.T) *MatchRepository {
	t.Helper()
	return &MatchRepository{DB: testhelpers.SetupTestDB(t)}
}

func seedMatch(t *testing.T, repo *MatchRepository, player1, player2 string) *models.Match {
	t.Helper()
	match := &models.Match{
		SportID:     "tennis",
		Player1ID:   player1,
		Player2ID:   player2,
		Status:      models.StatusChallenged,
		ActionToken: "token-" + player1 + "-" + player2,
	}
	if err := repo.CreateMatch(match); err != nil {
		t.Fatalf("failed to seed match: %v", err)
	}
	return match
}

func TestMatchRepository_CreateMatch(t *testing.T) {
	repo := newMatchRepo(t)
	seedMatch(t, repo, "p1", "p2")

	t.Run("generates id", func(t *testing.T) {
		match := seedMatch(t, repo, "p3", "p4")
		if match.ID == "" {
			t.Fatalf("expected match ID to be set")
		}
	})

	t.Run("duplicate active pair", func(t *testing.T) {
		match := &models.Match{
			SportID: "tennis", Player1ID: "p1", Player2ID: "p2",
			Status: models.StatusChallenged, ActionToken: "t",
		}
		if err := repo.CreateMatch(match); !errors.Is(err, ErrActivePairMatch) {
			t.Fatalf("expected ErrActivePairMatch, got %v", err)
		}
	})

	t.Run("duplicate active pair reversed", func(t *testing.T) {
		match := &models.Match{
			SportID: "tennis", Player1ID: "p2", Player2ID: "p1",
			Status: models.StatusChallenged, ActionToken: "t",
		}
		if err := repo.CreateMatch(match); !errors.Is(err, ErrActivePairMatch) {
			t.Fatalf("expected ErrActivePairMatch for reversed pair, got %v", err)
		}
	})

	t.Run("same pair different sport", func(t *testing.T) {
		match := &models.Match{
			SportID: "squash", Player1ID: "p1", Player2ID: "p2",
			Status: models.StatusChallenged, ActionToken: "t",
		}
		if err := repo.CreateMatch(match); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("same pair after cancellation", func(t *testing.T) {
		repo := newMatchRepo(t)
		match := seedMatch(t, repo, "a", "b")
		if _, err := repo.CompareAndSwapStatus(match.ID, models.StatusChallenged,
			map[string]any{"status": models.StatusCancelled}); err != nil {
			t.Fatalf("failed to cancel match: %v", err)
		}
		rematch := &models.Match{
			SportID: "tennis", Player1ID: "b", Player2ID: "a",
			Status: models.StatusChallenged, ActionToken: "t2",
		}
		if err := repo.CreateMatch(rematch); err != nil {
			t.Fatalf("expected rematch after cancellation to succeed, got %v", err)
		}
	})
}

func TestMatchRepository_GetMatchByID(t *testing.T) {
	repo := newMatchRepo(t)
	match := seedMatch(t, repo, "p1", "p2")

	t.Run("success", func(t *testing.T) {
		got, err := repo.GetMatchByID(match.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ActionToken != match.ActionToken {
			t.Fatalf("expected token %q, got %q", match.ActionToken, got.ActionToken)
		}
	})

	t.Run("not found", func(t *testing.T) {
		if _, err := repo.GetMatchByID("missing"); !errors.Is(err, ErrMatchNotFound) {
			t.Fatalf("expected ErrMatchNotFound, got %v", err)
		}
	})
}

func TestMatchRepository_ActiveMatchForPair(t *testing.T) {
	repo := newMatchRepo(t)
	match := seedMatch(t, repo, "p1", "p2")

	t.Run("either order", func(t *testing.T) {
		got, err := repo.ActiveMatchForPair("tennis", "p2", "p1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != match.ID {
			t.Fatalf("expected match %q, got %q", match.ID, got.ID)
		}
	})

	t.Run("no active match", func(t *testing.T) {
		if _, err := repo.ActiveMatchForPair("tennis", "p1", "p9"); !errors.Is(err, ErrMatchNotFound) {
			t.Fatalf("expected ErrMatchNotFound, got %v", err)
		}
	})
}

func TestMatchRepository_CompareAndSwapStatus(t *testing.T) {
	repo := newMatchRepo(t)
	match := seedMatch(t, repo, "p1", "p2")

	t.Run("success", func(t *testing.T) {
		updated, err := repo.CompareAndSwapStatus(match.ID, models.StatusChallenged,
			map[string]any{"status": models.StatusPending})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Status != models.StatusPending {
			t.Fatalf("expected status %q, got %q", models.StatusPending, updated.Status)
		}
	})

	t.Run("stale status", func(t *testing.T) {
		_, err := repo.CompareAndSwapStatus(match.ID, models.StatusChallenged,
			map[string]any{"status": models.StatusPending})
		if !errors.Is(err, ErrStaleStatus) {
			t.Fatalf("expected ErrStaleStatus, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.CompareAndSwapStatus("missing", models.StatusChallenged,
			map[string]any{"status": models.StatusPending})
		if !errors.Is(err, ErrMatchNotFound) {
			t.Fatalf("expected ErrMatchNotFound, got %v", err)
		}
	})

	t.Run("returns the state it produced", func(t *testing.T) {
		repo := newMatchRepo(t)
		match := seedMatch(t, repo, "x1", "x2")
		updated, err := repo.CompareAndSwapStatus(match.ID, models.StatusChallenged,
			map[string]any{"status": models.StatusPending})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Status != models.StatusPending || updated.ActionToken != match.ActionToken {
			t.Fatalf("returned match does not reflect the applied transition: %+v", updated)
		}
		reloaded, err := repo.GetMatchByID(match.ID)
		if err != nil {
			t.Fatalf("failed to reload match: %v", err)
		}
		if reloaded.Status != updated.Status {
			t.Fatalf("returned state %s diverges from stored state %s", updated.Status, reloaded.Status)
		}
	})

	t.Run("clears fields with nil values", func(t *testing.T) {
		winner := "p1"
		if _, err := repo.CompareAndSwapStatus(match.ID, models.StatusPending,
			map[string]any{"status": models.StatusProcessing, "winner_id": winner, "reported_by": winner}); err != nil {
			t.Fatalf("failed to record result: %v", err)
		}
		updated, err := repo.CompareAndSwapStatus(match.ID, models.StatusProcessing,
			map[string]any{"status": models.StatusPending, "winner_id": nil, "reported_by": nil})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.WinnerID != nil || updated.ReportedBy != nil {
			t.Fatalf("expected winner and reporter to be cleared, got %v / %v", updated.WinnerID, updated.ReportedBy)
		}
	})
}

func TestMatchRepository_ConfirmResult(t *testing.T) {
	setup := func(t *testing.T) (*MatchRepository, *PlayerRepository, *models.Match, *models.PlayerProfile, *models.PlayerProfile) {
		t.Helper()
		db := testhelpers.SetupTestDB(t)
		matches := &MatchRepository{DB: db}
		players := &PlayerRepository{DB: db}

		winner := &models.PlayerProfile{UserID: 1, SportID: "tennis", Rating: 1500}
		loser := &models.PlayerProfile{UserID: 2, SportID: "tennis", Rating: 1500}
		for _, p := range []*models.PlayerProfile{winner, loser} {
			if err := players.CreateProfile(p); err != nil {
				t.Fatalf("failed to seed profile: %v", err)
			}
		}
		match := &models.Match{
			SportID: "tennis", Player1ID: winner.ID, Player2ID: loser.ID,
			Status: models.StatusProcessing, ActionToken: "t",
			WinnerID: &winner.ID, ReportedBy: &winner.ID,
		}
		if err := matches.CreateMatch(match); err != nil {
			t.Fatalf("failed to seed match: %v", err)
		}
		return matches, players, match, winner, loser
	}

	t.Run("transition and ratings land together", func(t *testing.T) {
		matches, players, match, winner, loser := setup(t)

		updated, err := matches.ConfirmResult(match.ID,
			map[string]any{"status": models.StatusConfirmed},
			winner.ID, loser.ID, 1516, 1484)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Status != models.StatusConfirmed {
			t.Fatalf("expected CONFIRMED, got %s", updated.Status)
		}

		gotWinner, err := players.GetProfileByID(winner.ID)
		if err != nil {
			t.Fatalf("failed to reload winner: %v", err)
		}
		if gotWinner.Rating != 1516 || gotWinner.MatchesPlayed != 1 {
			t.Fatalf("winner: expected rating 1516 and 1 match, got %d / %d", gotWinner.Rating, gotWinner.MatchesPlayed)
		}
		history, err := players.RatingHistoryForProfile(loser.ID, 0)
		if err != nil {
			t.Fatalf("failed to load history: %v", err)
		}
		if len(history) != 1 || history[0].NewRating != 1484 {
			t.Fatalf("expected one history row at 1484, got %v", history)
		}
	})

	t.Run("rating failure rolls back the transition", func(t *testing.T) {
		matches, players, match, winner, _ := setup(t)

		_, err := matches.ConfirmResult(match.ID,
			map[string]any{"status": models.StatusConfirmed},
			winner.ID, "missing", 1516, 1484)
		if !errors.Is(err, ErrProfileNotFound) {
			t.Fatalf("expected ErrProfileNotFound, got %v", err)
		}

		reloaded, err := matches.GetMatchByID(match.ID)
		if err != nil {
			t.Fatalf("failed to reload match: %v", err)
		}
		if reloaded.Status != models.StatusProcessing {
			t.Fatalf("expected the match to stay PROCESSING, got %s", reloaded.Status)
		}
		gotWinner, err := players.GetProfileByID(winner.ID)
		if err != nil {
			t.Fatalf("failed to reload winner: %v", err)
		}
		if gotWinner.Rating != 1500 || gotWinner.MatchesPlayed != 0 {
			t.Fatalf("expected winner untouched after rollback, got %d / %d", gotWinner.Rating, gotWinner.MatchesPlayed)
		}
	})

	t.Run("stale status", func(t *testing.T) {
		matches, _, match, winner, loser := setup(t)
		if _, err := matches.ConfirmResult(match.ID,
			map[string]any{"status": models.StatusConfirmed},
			winner.ID, loser.ID, 1516, 1484); err != nil {
			t.Fatalf("first confirm failed: %v", err)
		}
		_, err := matches.ConfirmResult(match.ID,
			map[string]any{"status": models.StatusConfirmed},
			winner.ID, loser.ID, 1532, 1468)
		if !errors.Is(err, ErrStaleStatus) {
			t.Fatalf("expected ErrStaleStatus, got %v", err)
		}
	})
}

func TestMatchRepository_Listings(t *testing.T) {
	repo := newMatchRepo(t)
	first := seedMatch(t, repo, "p1", "p2")
	seedMatch(t, repo, "p1", "p3")
	seedMatch(t, repo, "p4", "p5")

	winner := "p1"
	if _, err := repo.CompareAndSwapStatus(first.ID, models.StatusChallenged,
		map[string]any{"status": models.StatusConfirmed, "winner_id": winner}); err != nil {
		t.Fatalf("failed to confirm match: %v", err)
	}

	t.Run("matches for profile", func(t *testing.T) {
		matches, err := repo.MatchesForProfile("p1", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(matches) != 2 {
			t.Fatalf("expected 2 matches, got %d", len(matches))
		}
	})

	t.Run("matches for profile with limit", func(t *testing.T) {
		matches, err := repo.MatchesForProfile("p1", 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(matches) != 1 {
			t.Fatalf("expected 1 match, got %d", len(matches))
		}
	})

	t.Run("active matches for profiles", func(t *testing.T) {
		matches, err := repo.ActiveMatchesForProfiles([]string{"p1", "p4"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(matches) != 2 {
			t.Fatalf("expected 2 active matches, got %d", len(matches))
		}
		for _, m := range matches {
			if m.ID == first.ID {
				t.Fatalf("confirmed match should not be listed as active")
			}
		}
	})

	t.Run("active matches with no profiles", func(t *testing.T) {
		matches, err := repo.ActiveMatchesForProfiles(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(matches) != 0 {
			t.Fatalf("expected no matches, got %d", len(matches))
		}
	})

	t.Run("finalized for profile", func(t *testing.T) {
		matches, err := repo.FinalizedForProfile("p1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(matches) != 1 || matches[0].ID != first.ID {
			t.Fatalf("expected only the confirmed match, got %v", matches)
		}
	})

	t.Run("recent finalized", func(t *testing.T) {
		matches, err := repo.RecentFinalized(10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(matches) != 1 {
			t.Fatalf("expected 1 finalized match, got %d", len(matches))
		}
	})

	t.Run("database error", func(t *testing.T) {
		testhelpers.DropMatchTable(t, repo.DB)
		if _, err := repo.MatchesForProfile("p1", 0); err == nil {
			t.Fatalf("expected underlying DB error")
		}
	})
}
