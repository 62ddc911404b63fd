// Package elo is the rating engine invoked when a match result is confirmed.
// The lifecycle core only depends on its ApplyResult contract; the formula
// itself carries no lifecycle knowledge.
package elo

import "math"

const (
	// K-factors: new players move faster until they have a track record.
	KFactorNew         = 32.0 // fewer than 5 matches played
	KFactorExperienced = 24.0

	experiencedAfter = 5

	// Ratings are clamped so a losing streak cannot crater a ladder.
	MinRating = 500
	MaxRating = 3000
)

// ExpectedScore is the classic Elo win expectancy:
// 1 / (1 + 10^((opponent-player)/400)).
func ExpectedScore(playerRating, opponentRating float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (opponentRating-playerRating)/400.0))
}

func kFactor(matchesPlayed int) float64 {
	if matchesPlayed < experiencedAfter {
		return KFactorNew
	}
	return KFactorExperienced
}

func clamp(rating float64) int {
	if rating < MinRating {
		return MinRating
	}
	if rating > MaxRating {
		return MaxRating
	}
	return int(math.Round(rating))
}

// Engine computes rating adjustments for a decided match.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// ApplyResult returns the post-match ratings for the winner and loser. It is
// pure; persisting the result is the caller's concern.
func (*Engine) ApplyResult(winnerRating, winnerPlayed, loserRating, loserPlayed int) (newWinnerRating, newLoserRating int) {
	w := float64(winnerRating)
	l := float64(loserRating)

	newWinnerRating = clamp(w + kFactor(winnerPlayed)*(1.0-ExpectedScore(w, l)))
	newLoserRating = clamp(l + kFactor(loserPlayed)*(0.0-ExpectedScore(l, w)))
	return newWinnerRating, newLoserRating
}
