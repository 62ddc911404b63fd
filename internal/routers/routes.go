package routers

import (
	"github.com/arnav127/sports-ladder/internal/handlers"

	"github.com/go-chi/chi/v5"
)

// Handlers groups everything the API surface needs.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Ladder    *handlers.LadderHandler
	Challenge *handlers.ChallengeHandler
	Match     *handlers.MatchHandler
	Profile   *handlers.ProfileHandler
}

func APIRoutes(r *chi.Mux, h Handlers) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.Auth.RegisterHandler)
		r.Post("/auth/login", h.Auth.LoginHandler)

		r.Get("/sports", h.Ladder.ListSportsHandler)
		r.Post("/sports/{sportID}/join", h.Ladder.JoinSportHandler)
		r.Get("/sports/{sportID}/ladder", h.Ladder.LadderHandler)
		r.Get("/sports/{sportID}/challengeable", h.Ladder.ChallengeableHandler)

		r.Post("/challenges", h.Challenge.CreateChallengeHandler)

		r.Get("/matches/recent", h.Match.RecentMatchesHandler)
		r.Get("/matches/{matchID}", h.Match.GetMatchHandler)
		r.Post("/matches/{matchID}/action", h.Match.ActionHandler)
		r.Post("/matches/{matchID}/submit-result", h.Match.SubmitResultHandler)
		r.Post("/matches/{matchID}/verify", h.Match.VerifyHandler)

		r.Get("/me/profiles", h.Profile.MyProfilesHandler)
		r.Get("/me/pending", h.Profile.PendingHandler)
		r.Get("/profiles/{profileID}/matches", h.Profile.MatchesHandler)
		r.Get("/profiles/{profileID}/stats", h.Profile.StatsHandler)
		r.Get("/profiles/{profileID}/rank", h.Profile.RankHandler)
		r.Get("/profiles/{profileID}/rating-history", h.Profile.RatingHistoryHandler)
	})
}
