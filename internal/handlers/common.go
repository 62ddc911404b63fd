package handlers

import (
	"net/http"

	"github.com/arnav127/sports-ladder/internal/challenge"
	"github.com/arnav127/sports-ladder/internal/models"
	"github.com/arnav127/sports-ladder/internal/utils"
)

// matchWithToken is the response shape for the few views allowed to reveal a
// match's action token: the creation response to the challenger and the
// owner-scoped pending view. Every other read serializes Match without it.
type matchWithToken struct {
	models.Match
	ActionToken string `json:"action_token"`
}

func withToken(m *models.Match) matchWithToken {
	return matchWithToken{Match: *m, ActionToken: m.ActionToken}
}

// sessionUserID resolves the Authorization header to a user ID. Returns
// (0, false) for anonymous or invalid sessions; handlers decide whether that
// is fatal.
func sessionUserID(r *http.Request, secret string) (uint, bool) {
	claims, err := utils.VerifyToken(r, secret)
	if err != nil {
		return 0, false
	}
	userID, err := utils.GetUserIDFromClaims(claims)
	if err != nil {
		return 0, false
	}
	return userID, true
}

// credentials assembles the caller's identity for the challenge service: an
// action token from the query string or request body, plus any session.
func credentials(r *http.Request, secret, bodyToken string) challenge.Credentials {
	creds := challenge.Credentials{Token: r.URL.Query().Get("token")}
	if creds.Token == "" {
		creds.Token = bodyToken
	}
	if userID, ok := sessionUserID(r, secret); ok {
		creds.UserID = userID
	}
	return creds
}

// writeServiceError maps challenge service error kinds onto HTTP statuses.
// Unknown errors become 500 without leaking internals.
func writeServiceError(w http.ResponseWriter, err error) {
	kind, ok := challenge.KindOf(err)
	if !ok {
		utils.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	status := http.StatusInternalServerError
	switch kind {
	case challenge.KindAuthenticationRequired:
		status = http.StatusUnauthorized
	case challenge.KindUnauthorized, challenge.KindInvalidToken, challenge.KindNotEligible:
		status = http.StatusForbidden
	case challenge.KindSelfChallenge, challenge.KindInvalidWinner, challenge.KindInvalidReporter:
		status = http.StatusBadRequest
	case challenge.KindNotFound:
		status = http.StatusNotFound
	case challenge.KindDuplicateChallenge, challenge.KindInvalidTransition:
		status = http.StatusConflict
	}
	utils.JSONError(w, status, err.Error())
}
