package handlers

import (
	"errors"
	"net/http"

	"github.com/arnav127/sports-ladder/internal/models"
	"github.com/arnav127/sports-ladder/internal/ranking"
	"github.com/arnav127/sports-ladder/internal/repositories"
	"github.com/arnav127/sports-ladder/internal/utils"

	"github.com/go-chi/chi/v5"
)

// LadderHandler serves sports, ladder standings and the eligibility view.
type LadderHandler struct {
	Sports    *repositories.SportRepository
	Players   *repositories.PlayerRepository
	JWTSecret string
}

func NewLadderHandler(sports *repositories.SportRepository, players *repositories.PlayerRepository, jwtSecret string) *LadderHandler {
	return &LadderHandler{Sports: sports, Players: players, JWTSecret: jwtSecret}
}

func (h *LadderHandler) ListSportsHandler(w http.ResponseWriter, r *http.Request) {
	sports, err := h.Sports.ListSports()
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "failed to list sports")
		return
	}
	utils.JSON(w, http.StatusOK, sports)
}

// JoinSportHandler creates a ladder profile for the signed-in user at the
// default rating.
func (h *LadderHandler) JoinSportHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(r, h.JWTSecret)
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "sign in to join a ladder")
		return
	}
	sportID := chi.URLParam(r, "sportID")
	if _, err := h.Sports.GetSport(sportID); err != nil {
		if errors.Is(err, repositories.ErrSportNotFound) {
			utils.JSONError(w, http.StatusNotFound, "sport not found")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, "failed to load sport")
		return
	}

	profile := &models.PlayerProfile{UserID: userID, SportID: sportID}
	if err := h.Players.CreateProfile(profile); err != nil {
		if errors.Is(err, repositories.ErrProfileExists) {
			utils.JSONError(w, http.StatusConflict, "you already play this sport")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, "failed to create profile")
		return
	}
	utils.JSON(w, http.StatusCreated, profile)
}

// LadderHandler returns the sport's standings with computed ranks, best
// rating first. Tied ratings share a rank.
func (h *LadderHandler) LadderHandler(w http.ResponseWriter, r *http.Request) {
	sportID := chi.URLParam(r, "sportID")
	profiles, err := h.Players.ProfilesBySportRanked(sportID)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "failed to load ladder")
		return
	}
	utils.JSON(w, http.StatusOK, rankProfiles(profiles))
}

// ChallengeableHandler returns the opponents the signed-in user's profile may
// challenge in this sport, in ladder order.
func (h *LadderHandler) ChallengeableHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(r, h.JWTSecret)
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "sign in to view challengeable players")
		return
	}
	sportID := chi.URLParam(r, "sportID")
	me, err := h.Players.ProfileForUserAndSport(userID, sportID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			utils.JSONError(w, http.StatusNotFound, "you do not play this sport")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	profiles, err := h.Players.ProfilesBySportRanked(sportID)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "failed to load ladder")
		return
	}

	ranked := rankProfiles(profiles)
	byID := make(map[string]models.RankedPlayer, len(ranked))
	entries := make([]ranking.RankedEntry, len(ranked))
	for i, rp := range ranked {
		byID[rp.ID] = rp
		entries[i] = ranking.RankedEntry{ProfileID: rp.ID, Rating: rp.Rating, Rank: rp.Rank}
	}

	challengeable := ranking.Challengeable(entries, me.ID)
	out := make([]models.RankedPlayer, 0, len(challengeable))
	for _, e := range challengeable {
		out = append(out, byID[e.ProfileID])
	}
	utils.JSON(w, http.StatusOK, out)
}

func rankProfiles(profiles []models.PlayerProfile) []models.RankedPlayer {
	entries := make([]ranking.Entry, len(profiles))
	for i, p := range profiles {
		entries[i] = ranking.Entry{ProfileID: p.ID, Rating: p.Rating}
	}
	ranked := ranking.Rank(entries)
	out := make([]models.RankedPlayer, len(profiles))
	for i, p := range profiles {
		out[i] = models.RankedPlayer{PlayerProfile: p, Rank: ranked[i].Rank}
	}
	return out
}
