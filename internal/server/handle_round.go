package server

import (
	"log/slog"
	"net/http"

	"github.com/playperu/globetrotter/internal/game"
)

type ClueItem struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Difficulty string `json:"difficulty"`
}

type FactItem struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	IsTrivia bool   `json:"isTrivia"`
}

type RoundResponse struct {
	GameSessionID string               `json:"gameSessionId"`
	ChallengeID   *string              `json:"challengeId,omitempty"`
	Clues         []ClueItem           `json:"clues"`
	Facts         []FactItem           `json:"facts"`
	Options       []DestinationSummary `json:"options"`
}

// RoundCompleteResponse is returned once every destination has been
// guessed correctly.
type RoundCompleteResponse struct {
	AllCompleted bool `json:"allCompleted"`
}

func handleRound(logger *slog.Logger, svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		round, err := svc.StartRound(r.Context(), userID(r))
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeRound(w, round)
	}
}

func handleChallengeRound(logger *slog.Logger, svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		challengeID := r.URL.Query().Get("challengeId")
		if challengeID == "" {
			writeError(w, http.StatusBadRequest, "challengeId is required")
			return
		}

		round, err := svc.StartChallengeRound(r.Context(), userID(r), challengeID)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeRound(w, round)
	}
}

func writeRound(w http.ResponseWriter, round game.Round) {
	if round.AllCompleted {
		writeJSON(w, http.StatusOK, RoundCompleteResponse{AllCompleted: true})
		return
	}

	resp := RoundResponse{
		GameSessionID: round.SessionID,
		ChallengeID:   round.ChallengeID,
		Clues:         make([]ClueItem, len(round.Clues)),
		Facts:         make([]FactItem, len(round.Facts)),
		Options:       destinationSummaries(round.Options),
	}
	for i, c := range round.Clues {
		resp.Clues[i] = ClueItem{ID: c.ID, Text: c.Text, Difficulty: string(c.Difficulty)}
	}
	for i, f := range round.Facts {
		resp.Facts[i] = FactItem{ID: f.ID, Text: f.Text, IsTrivia: f.IsTrivia}
	}
	writeJSON(w, http.StatusOK, resp)
}

type GuessRequest struct {
	UserID               string `json:"userId"`
	SessionID            string `json:"sessionId"`
	GuessedDestinationID string `json:"guessedDestinationId"`
}

type GuessResponse struct {
	IsCorrect            bool   `json:"isCorrect"`
	CorrectDestinationID string `json:"correctDestinationId"`
	AlreadyResolved      bool   `json:"alreadyResolved"`
	Score                int    `json:"score"`
	CorrectGuesses       int    `json:"correctGuesses"`
	IncorrectGuesses     int    `json:"incorrectGuesses"`
}

func handleGuess(logger *slog.Logger, svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GuessRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.UserID == "" || req.SessionID == "" || req.GuessedDestinationID == "" {
			writeError(w, http.StatusBadRequest, "userId, sessionId and guessedDestinationId are required")
			return
		}

		out, err := svc.SubmitGuess(r.Context(), req.UserID, req.SessionID, req.GuessedDestinationID)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, GuessResponse{
			IsCorrect:            out.IsCorrect,
			CorrectDestinationID: out.CorrectDestinationID,
			AlreadyResolved:      out.AlreadyResolved,
			Score:                out.User.Score,
			CorrectGuesses:       out.User.CorrectGuesses,
			IncorrectGuesses:     out.User.IncorrectGuesses,
		})
	}
}
