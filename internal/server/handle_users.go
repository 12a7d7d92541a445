package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/globetrotter/internal/game"
	"github.com/playperu/globetrotter/internal/globetrotter"
)

type UsernameRequest struct {
	Username string `json:"username"`
}

type CheckUserResponse struct {
	Exists bool          `json:"exists"`
	User   *UserResponse `json:"user,omitempty"`
}

func handleCreateUser(logger *slog.Logger, svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UsernameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		u, err := svc.CreateUser(r.Context(), req.Username)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, userResponse(u))
	}
}

// handleCheckUser lets a returning player recover their id by username.
func handleCheckUser(logger *slog.Logger, svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UsernameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		u, err := svc.UserByUsername(r.Context(), req.Username)
		if errors.Is(err, globetrotter.ErrNotFound) {
			writeJSON(w, http.StatusOK, CheckUserResponse{Exists: false})
			return
		}
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		resp := userResponse(u)
		writeJSON(w, http.StatusOK, CheckUserResponse{Exists: true, User: &resp})
	}
}

func handleGetUser(logger *slog.Logger, svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.User(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, userResponse(u))
	}
}
