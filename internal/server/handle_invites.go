package server

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"

	"github.com/playperu/globetrotter/internal/game"
)

type CreateInviteRequest struct {
	UserID      string `json:"userId"`
	ChallengeID string `json:"challengeId"`
	RecipientID string `json:"recipientId,omitempty"`
}

type InviteDetailResponse struct {
	InviteResponse
	Sender    UserSummary             `json:"sender"`
	Challenge ChallengeDetailResponse `json:"challenge"`
}

type AcceptInviteRequest struct {
	InviteCode string `json:"inviteCode"`
	UserID     string `json:"userId"`
}

type SessionResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	ChallengeID *string   `json:"challengeId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type AcceptInviteResponse struct {
	Success     bool            `json:"success"`
	Invite      InviteResponse  `json:"invite"`
	GameSession SessionResponse `json:"gameSession"`
}

func handleCreateInvite(logger *slog.Logger, svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateInviteRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		inv, err := svc.CreateInvite(r.Context(), req.UserID, req.ChallengeID, req.RecipientID)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, inviteResponse(inv))
	}
}

func handleGetInvite(logger *slog.Logger, svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.InviteByCode(r.Context(), chi.URLParam(r, "inviteCode"))
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, InviteDetailResponse{
			InviteResponse: inviteResponse(d.Invite),
			Sender:         userSummary(d.Sender),
			Challenge: ChallengeDetailResponse{
				ChallengeResponse: challengeResponse(d.Challenge.Challenge),
				Creator:           userSummary(d.Challenge.Creator),
			},
		})
	}
}

func handleAcceptInvite(logger *slog.Logger, svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AcceptInviteRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.InviteCode == "" {
			writeError(w, http.StatusBadRequest, "inviteCode is required")
			return
		}
		if req.UserID == "" {
			writeError(w, http.StatusUnauthorized, "userId is required")
			return
		}

		inv, gs, err := svc.AcceptInvite(r.Context(), req.InviteCode, req.UserID)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, AcceptInviteResponse{
			Success: true,
			Invite:  inviteResponse(inv),
			GameSession: SessionResponse{
				ID:          gs.ID,
				UserID:      gs.UserID,
				ChallengeID: gs.ChallengeID,
				CreatedAt:   gs.CreatedAt,
			},
		})
	}
}

const (
	qrSize           = 320
	invitePagePrefix = "/invite/"
)

// handleInviteQR renders the invite's share link as a PNG.
func handleInviteQR(logger *slog.Logger, svc *game.Service, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.InviteByCode(r.Context(), chi.URLParam(r, "inviteCode"))
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}

		png, err := qrcode.Encode(shareURL(r, baseURL, d.InviteCode), qrcode.Medium, qrSize)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		_, _ = w.Write(png)
	}
}

// shareURL is the presentation page for an invite, which resolves the code
// through GET /api/invites/{inviteCode}. Without a configured base it is
// derived from the request, honoring X-Forwarded-Proto.
func shareURL(r *http.Request, baseURL, code string) string {
	if baseURL == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		baseURL = scheme + "://" + r.Host
	}
	return strings.TrimSuffix(baseURL, "/") + invitePagePrefix + code
}
