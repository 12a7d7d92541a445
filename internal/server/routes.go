package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	svc := deps.Game

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Globetrotter API", "/openapi.json", "/docs"))
	if deps.Health != nil {
		r.Mount("/healthz", deps.Health)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", handleCreateUser(logger, svc))
		r.Post("/users/check", handleCheckUser(logger, svc))
		r.Get("/users/{id}", handleGetUser(logger, svc))

		r.Post("/challenges", handleCreateChallenge(logger, svc))
		r.With(requireUser).Get("/challenges/active", handleActiveChallenges(logger, svc))
		r.Get("/challenges/{inviteCode}", handleGetChallenge(logger, svc))
		r.Post("/challenges/{id}/deactivate", handleDeactivateChallenge(logger, svc))

		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Get("/game/round", handleRound(logger, svc))
			r.Get("/game/challenge", handleChallengeRound(logger, svc))
		})
		r.Post("/game/guess", handleGuess(logger, svc))

		r.Post("/invites", handleCreateInvite(logger, svc))
		r.Post("/invites/accept", handleAcceptInvite(logger, svc))
		r.Get("/invites/{inviteCode}", handleGetInvite(logger, svc))
		r.Get("/invites/{inviteCode}/qr.png", handleInviteQR(logger, svc, deps.PublicBaseURL))

		r.Get("/destinations", handleListDestinations(logger, deps.Catalog))
	})

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
