package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/arnav127/sports-ladder/internal/challenge"
	"github.com/arnav127/sports-ladder/internal/metrics"
	"github.com/arnav127/sports-ladder/internal/utils"
)

// ChallengeHandler exposes challenge creation.
type ChallengeHandler struct {
	Service   *challenge.Service
	JWTSecret string
}

func NewChallengeHandler(service *challenge.Service, jwtSecret string) *ChallengeHandler {
	return &ChallengeHandler{Service: service, JWTSecret: jwtSecret}
}

type createChallengeRequest struct {
	ChallengerID string  `json:"challenger_id"`
	OpponentID   string  `json:"opponent_id"`
	Message      *string `json:"message"`
}

func (h *ChallengeHandler) CreateChallengeHandler(w http.ResponseWriter, r *http.Request) {
	var req createChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.ChallengerID == "" || req.OpponentID == "" {
		utils.JSONError(w, http.StatusBadRequest, "challenger_id and opponent_id are required")
		return
	}

	creds := challenge.Credentials{}
	if userID, ok := sessionUserID(r, h.JWTSecret); ok {
		creds.UserID = userID
	}

	match, err := h.Service.CreateChallenge(r.Context(), creds, challenge.CreateChallengeRequest{
		ChallengerID: req.ChallengerID,
		OpponentID:   req.OpponentID,
		Message:      req.Message,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	metrics.ObserveTransition(string(match.Status))
	utils.JSON(w, http.StatusCreated, withToken(match))
}
