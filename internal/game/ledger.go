package game

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/playperu/globetrotter/internal/database"
	"github.com/playperu/globetrotter/internal/globetrotter"
)

// Outcome is the stored result of a resolved session.
type Outcome struct {
	SessionID            string
	IsCorrect            bool
	CorrectDestinationID string
	// AlreadyResolved is set when the guess was not applied because the
	// session had been resolved earlier. The other fields then carry the
	// original outcome.
	AlreadyResolved bool
	User            globetrotter.User
}

const sessionColumns = `id, user_id, destination_id, challenge_id, is_correct, created_at, resolved_at`

func scanSession(row interface{ Scan(...any) error }) (globetrotter.GameSession, error) {
	var (
		gs          globetrotter.GameSession
		challengeID sql.NullString
		isCorrect   sql.NullBool
		createdAt   database.Timestamp
		resolvedAt  database.Timestamp
	)
	err := row.Scan(&gs.ID, &gs.UserID, &gs.DestinationID, &challengeID, &isCorrect, &createdAt, &resolvedAt)
	if err != nil {
		return gs, err
	}
	if challengeID.Valid {
		gs.ChallengeID = &challengeID.String
	}
	if isCorrect.Valid {
		gs.IsCorrect = &isCorrect.Bool
	}
	gs.CreatedAt = createdAt.Time
	gs.ResolvedAt = resolvedAt.Ptr()
	return gs, nil
}

// CreateSession opens an unresolved attempt for a user. Rounds and invite
// acceptance call the same ledger write; this is the direct entry point.
func (s *Service) CreateSession(ctx context.Context, userID, destinationID string, challengeID *string) (globetrotter.GameSession, error) {
	if userID == "" || destinationID == "" {
		return globetrotter.GameSession{}, globetrotter.NewError(globetrotter.ErrInvalid, "user id and destination id are required")
	}
	if _, err := s.catalog.Destination(ctx, destinationID); err != nil {
		return globetrotter.GameSession{}, err
	}

	var gs globetrotter.GameSession
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := getUser(ctx, tx, userID); err != nil {
			return err
		}
		if challengeID != nil {
			if _, err := getChallenge(ctx, tx, *challengeID); err != nil {
				return err
			}
		}
		var err error
		gs, err = createSession(ctx, tx, userID, destinationID, challengeID)
		return err
	})
	return gs, err
}

func createSession(ctx context.Context, q database.Querier, userID, destinationID string, challengeID *string) (globetrotter.GameSession, error) {
	gs, err := scanSession(q.QueryRowContext(ctx, `
		INSERT INTO game_sessions (id, user_id, destination_id, challenge_id, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+sessionColumns,
		uuid.NewString(), userID, destinationID, challengeID, database.Now()))
	if database.IsUniqueViolation(err) {
		return gs, globetrotter.ErrChallengePlayed
	}
	if err != nil {
		return gs, fmt.Errorf("creating game session: %w", err)
	}
	return gs, nil
}

// Session returns a single attempt by id.
func (s *Service) Session(ctx context.Context, id string) (globetrotter.GameSession, error) {
	return getSession(ctx, s.db, id)
}

func getSession(ctx context.Context, q database.Querier, id string) (globetrotter.GameSession, error) {
	gs, err := scanSession(q.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM game_sessions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return gs, globetrotter.ErrSessionNotFound
	}
	if err != nil {
		return gs, fmt.Errorf("loading game session %s: %w", id, err)
	}
	return gs, nil
}

// sessionForChallenge returns the user's attempt at a challenge, if any.
func sessionForChallenge(ctx context.Context, q database.Querier, userID, challengeID string) (globetrotter.GameSession, bool, error) {
	gs, err := scanSession(q.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM game_sessions WHERE user_id = ? AND challenge_id = ?`,
		userID, challengeID))
	if errors.Is(err, sql.ErrNoRows) {
		return gs, false, nil
	}
	if err != nil {
		return gs, false, fmt.Errorf("loading challenge session: %w", err)
	}
	return gs, true, nil
}

// openSessionForDestination returns the user's oldest unresolved attempt at
// a destination, free-play or challenge-bound, if any.
func openSessionForDestination(ctx context.Context, q database.Querier, userID, destinationID string) (globetrotter.GameSession, bool, error) {
	gs, err := scanSession(q.QueryRowContext(ctx, `
		SELECT `+sessionColumns+` FROM game_sessions
		WHERE user_id = ? AND destination_id = ? AND is_correct IS NULL
		ORDER BY created_at, id
		LIMIT 1`, userID, destinationID))
	if errors.Is(err, sql.ErrNoRows) {
		return gs, false, nil
	}
	if err != nil {
		return gs, false, fmt.Errorf("loading open session: %w", err)
	}
	return gs, true, nil
}

func hasSessionForDestination(ctx context.Context, q database.Querier, userID, destinationID string) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM game_sessions WHERE user_id = ? AND destination_id = ?
		)`, userID, destinationID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking played destination: %w", err)
	}
	return exists, nil
}

// correctDestinationIDs returns the destinations the user has already
// guessed correctly.
func correctDestinationIDs(ctx context.Context, q database.Querier, userID string) (map[string]bool, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT DISTINCT destination_id FROM game_sessions
		WHERE user_id = ? AND is_correct = 1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing correct destinations: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

// SubmitGuess resolves one of the user's sessions. Sessions owned by
// someone else are reported as not found.
func (s *Service) SubmitGuess(ctx context.Context, userID, sessionID, guessedDestinationID string) (Outcome, error) {
	if userID == "" {
		return Outcome{}, globetrotter.NewError(globetrotter.ErrInvalid, "user id is required")
	}
	return s.resolve(ctx, userID, sessionID, guessedDestinationID)
}

// ResolveSession resolves a session regardless of who owns it.
func (s *Service) ResolveSession(ctx context.Context, sessionID, guessedDestinationID string) (Outcome, error) {
	return s.resolve(ctx, "", sessionID, guessedDestinationID)
}

// resolve finalizes a session and applies scoring in one transaction. The
// UPDATE only matches an unresolved row, so of two concurrent guesses at
// most one is scored and the other sees the stored outcome. A correct
// guess on a destination the user already solved in another session is
// refused and leaves this session open.
func (s *Service) resolve(ctx context.Context, userID, sessionID, guessed string) (Outcome, error) {
	guessed = strings.TrimSpace(guessed)
	if sessionID == "" || guessed == "" {
		return Outcome{}, globetrotter.NewError(globetrotter.ErrInvalid, "session id and guessed destination id are required")
	}

	var out Outcome
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var (
			owner     string
			truth     string
			isCorrect sql.NullBool
		)
		err := tx.QueryRowContext(ctx, `
			SELECT s.user_id, COALESCE(c.destination_id, s.destination_id), s.is_correct
			FROM game_sessions s
			LEFT JOIN challenges c ON c.id = s.challenge_id
			WHERE s.id = ?
		`, sessionID).Scan(&owner, &truth, &isCorrect)
		if errors.Is(err, sql.ErrNoRows) {
			return globetrotter.ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("loading game session %s: %w", sessionID, err)
		}
		if userID != "" && owner != userID {
			return globetrotter.ErrSessionNotFound
		}

		out = Outcome{SessionID: sessionID, CorrectDestinationID: truth}
		if isCorrect.Valid {
			out.IsCorrect = isCorrect.Bool
			out.AlreadyResolved = true
			out.User, err = getUser(ctx, tx, owner)
			return err
		}

		out.IsCorrect = guessed == truth
		res, err := tx.ExecContext(ctx, `
			UPDATE game_sessions SET is_correct = ?, resolved_at = ?
			WHERE id = ? AND is_correct IS NULL
		`, database.BoolInt(out.IsCorrect), database.Now(), sessionID)
		if database.IsUniqueViolation(err) {
			return globetrotter.ErrDestinationSolved
		}
		if err != nil {
			return fmt.Errorf("resolving game session %s: %w", sessionID, err)
		}
		if n, _ := res.RowsAffected(); n != 1 {
			return fmt.Errorf("resolving game session %s: %d rows updated", sessionID, n)
		}

		out.User, err = adjustStats(ctx, tx, owner, out.IsCorrect)
		return err
	})
	if err != nil {
		return Outcome{}, err
	}

	if !out.AlreadyResolved {
		s.logger.Info("session resolved",
			"session_id", sessionID, "user_id", out.User.ID, "correct", out.IsCorrect)
	}
	return out, nil
}
