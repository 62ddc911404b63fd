package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/arnav127/sports-ladder/internal/models"
	"github.com/arnav127/sports-ladder/internal/ranking"
	"github.com/arnav127/sports-ladder/internal/repositories"
	"github.com/arnav127/sports-ladder/internal/utils"

	"github.com/go-chi/chi/v5"
)

// ProfileHandler serves per-player views: match history, stats, rank,
// pending obligations and rating history.
type ProfileHandler struct {
	Players   *repositories.PlayerRepository
	Matches   *repositories.MatchRepository
	JWTSecret string
}

func NewProfileHandler(players *repositories.PlayerRepository, matches *repositories.MatchRepository, jwtSecret string) *ProfileHandler {
	return &ProfileHandler{Players: players, Matches: matches, JWTSecret: jwtSecret}
}

func (h *ProfileHandler) loadProfile(w http.ResponseWriter, r *http.Request) (*models.PlayerProfile, bool) {
	profile, err := h.Players.GetProfileByID(chi.URLParam(r, "profileID"))
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			utils.JSONError(w, http.StatusNotFound, "profile not found")
		} else {
			utils.JSONError(w, http.StatusInternalServerError, "failed to load profile")
		}
		return nil, false
	}
	return profile, true
}

func (h *ProfileHandler) MatchesHandler(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.loadProfile(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	matches, err := h.Matches.MatchesForProfile(profile.ID, limit)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "failed to load matches")
		return
	}
	utils.JSON(w, http.StatusOK, matches)
}

type profileStats struct {
	Total   int     `json:"total"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	WinRate float64 `json:"win_rate"`
}

func (h *ProfileHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.loadProfile(w, r)
	if !ok {
		return
	}
	matches, err := h.Matches.FinalizedForProfile(profile.ID)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "failed to load matches")
		return
	}

	stats := profileStats{Total: len(matches)}
	for _, m := range matches {
		if m.WinnerID != nil && *m.WinnerID == profile.ID {
			stats.Wins++
		} else {
			stats.Losses++
		}
	}
	if stats.Total > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.Total)
	}
	utils.JSON(w, http.StatusOK, stats)
}

func (h *ProfileHandler) RankHandler(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.loadProfile(w, r)
	if !ok {
		return
	}
	profiles, err := h.Players.ProfilesBySportRanked(profile.SportID)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "failed to load ladder")
		return
	}
	entries := make([]ranking.Entry, len(profiles))
	for i, p := range profiles {
		entries[i] = ranking.Entry{ProfileID: p.ID, Rating: p.Rating}
	}
	rank, found := ranking.RankOf(ranking.Rank(entries), profile.ID)
	if !found {
		// Retired profiles are off the ladder.
		utils.JSONError(w, http.StatusNotFound, "profile is not on the ladder")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{
		"profile_id": profile.ID,
		"sport_id":   profile.SportID,
		"rank":       rank,
		"rating":     profile.Rating,
	})
}

func (h *ProfileHandler) RatingHistoryHandler(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.loadProfile(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	history, err := h.Players.RatingHistoryForProfile(profile.ID, limit)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "failed to load rating history")
		return
	}
	utils.JSON(w, http.StatusOK, history)
}

// MyProfilesHandler lists the signed-in user's ladder profiles.
func (h *ProfileHandler) MyProfilesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(r, h.JWTSecret)
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "sign in to view your profiles")
		return
	}
	profiles, err := h.Players.ProfilesByUser(userID)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "failed to load profiles")
		return
	}
	utils.JSON(w, http.StatusOK, profiles)
}

// PendingHandler lists every unresolved match involving any of the signed-in
// user's profiles, so the UI can surface what needs their attention.
func (h *ProfileHandler) PendingHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(r, h.JWTSecret)
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "sign in to view pending matches")
		return
	}
	profiles, err := h.Players.ProfilesByUser(userID)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "failed to load profiles")
		return
	}
	ids := make([]string, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
	}
	matches, err := h.Matches.ActiveMatchesForProfiles(ids)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "failed to load matches")
		return
	}
	// The caller owns a side of every match here, so the action tokens may
	// travel with them.
	out := make([]matchWithToken, len(matches))
	for i := range matches {
		out[i] = withToken(&matches[i])
	}
	utils.JSON(w, http.StatusOK, out)
}
