package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/globetrotter/internal/game"
	"github.com/playperu/globetrotter/internal/globetrotter"
)

type CreateChallengeRequest struct {
	UserID        string `json:"userId"`
	DestinationID string `json:"destinationId,omitempty"`
}

type ChallengeDetailResponse struct {
	ChallengeResponse
	Creator UserSummary `json:"creator"`
}

type ActiveChallenge struct {
	ID          string             `json:"id"`
	InviteCode  string             `json:"inviteCode"`
	CreatedAt   time.Time          `json:"createdAt"`
	Creator     UserSummary        `json:"creator"`
	Destination DestinationSummary `json:"destination"`
}

type ActiveChallengesResponse struct {
	Challenges []ActiveChallenge `json:"challenges"`
}

type DeactivateChallengeResponse struct {
	ID       string `json:"id"`
	IsActive bool   `json:"isActive"`
}

func handleCreateChallenge(logger *slog.Logger, svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateChallengeRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		c, err := svc.CreateChallenge(r.Context(), req.UserID, req.DestinationID)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, challengeResponse(c))
	}
}

// handleGetChallenge resolves a share link. An inactive challenge is a
// 400 here, since the link itself is valid.
func handleGetChallenge(logger *slog.Logger, svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cd, err := svc.ChallengeByCode(r.Context(), chi.URLParam(r, "inviteCode"))
		if errors.Is(err, globetrotter.ErrInactive) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, ChallengeDetailResponse{
			ChallengeResponse: challengeResponse(cd.Challenge),
			Creator:           userSummary(cd.Creator),
		})
	}
}

func handleActiveChallenges(logger *slog.Logger, svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ActiveChallenges(r.Context(), userID(r))
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}

		resp := ActiveChallengesResponse{Challenges: make([]ActiveChallenge, len(list))}
		for i, cd := range list {
			resp.Challenges[i] = ActiveChallenge{
				ID:          cd.ID,
				InviteCode:  cd.InviteCode,
				CreatedAt:   cd.CreatedAt,
				Creator:     userSummary(cd.Creator),
				Destination: DestinationSummary{ID: cd.Destination.ID, Name: cd.Destination.Name},
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleDeactivateChallenge(logger *slog.Logger, svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.DeactivateChallenge(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, DeactivateChallengeResponse{ID: c.ID, IsActive: c.IsActive})
	}
}
