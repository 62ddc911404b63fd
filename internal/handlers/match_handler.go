package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/arnav127/sports-ladder/internal/challenge"
	"github.com/arnav127/sports-ladder/internal/metrics"
	"github.com/arnav127/sports-ladder/internal/repositories"
	"github.com/arnav127/sports-ladder/internal/utils"

	"github.com/go-chi/chi/v5"
)

// MatchHandler exposes the match lifecycle endpoints. Mutations delegate to
// the challenge service; reads go straight to the repository.
type MatchHandler struct {
	Service   *challenge.Service
	Matches   *repositories.MatchRepository
	JWTSecret string
}

func NewMatchHandler(service *challenge.Service, matches *repositories.MatchRepository, jwtSecret string) *MatchHandler {
	return &MatchHandler{Service: service, Matches: matches, JWTSecret: jwtSecret}
}

type actionRequest struct {
	Token string `json:"token"`
}

// ActionHandler accepts or rejects a challenge. The action comes from the
// "action" query parameter so emailed links can drive it directly.
func (h *MatchHandler) ActionHandler(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	// Body is optional; links carry everything in the query string.
	_ = json.NewDecoder(r.Body).Decode(&req)

	match, err := h.Service.Act(r.Context(),
		credentials(r, h.JWTSecret, req.Token),
		chi.URLParam(r, "matchID"),
		r.URL.Query().Get("action"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	metrics.ObserveTransition(string(match.Status))
	utils.JSON(w, http.StatusOK, match)
}

type submitResultRequest struct {
	WinnerID   string `json:"winner_id"`
	ReportedBy string `json:"reported_by"`
	Token      string `json:"token"`
}

func (h *MatchHandler) SubmitResultHandler(w http.ResponseWriter, r *http.Request) {
	var req submitResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.WinnerID == "" {
		utils.JSONError(w, http.StatusBadRequest, "winner_id is required")
		return
	}

	match, err := h.Service.SubmitResult(r.Context(),
		credentials(r, h.JWTSecret, req.Token),
		chi.URLParam(r, "matchID"),
		req.WinnerID, req.ReportedBy)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	metrics.ObserveTransition(string(match.Status))
	utils.JSON(w, http.StatusOK, match)
}

// VerifyHandler confirms or disputes a reported result via the "verify"
// query parameter (yes or no).
func (h *MatchHandler) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	match, err := h.Service.Verify(r.Context(),
		credentials(r, h.JWTSecret, req.Token),
		chi.URLParam(r, "matchID"),
		r.URL.Query().Get("verify"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	metrics.ObserveTransition(string(match.Status))
	utils.JSON(w, http.StatusOK, match)
}

func (h *MatchHandler) GetMatchHandler(w http.ResponseWriter, r *http.Request) {
	match, err := h.Matches.GetMatchByID(chi.URLParam(r, "matchID"))
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			utils.JSONError(w, http.StatusNotFound, "match not found")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, "failed to load match")
		return
	}
	utils.JSON(w, http.StatusOK, match)
}

func (h *MatchHandler) RecentMatchesHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	matches, err := h.Matches.RecentFinalized(limit)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "failed to load matches")
		return
	}
	utils.JSON(w, http.StatusOK, matches)
}
