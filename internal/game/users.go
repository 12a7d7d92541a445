package game

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/playperu/globetrotter/internal/database"
	"github.com/playperu/globetrotter/internal/globetrotter"
)

const maxUsernameLen = 32

// UserSummary is the public view of another player.
type UserSummary struct {
	ID       string
	Username string
	Score    int
}

const userColumns = `id, username, score, correct_guesses, incorrect_guesses, created_at`

func scanUser(row interface{ Scan(...any) error }) (globetrotter.User, error) {
	var u globetrotter.User
	var createdAt database.Timestamp
	err := row.Scan(&u.ID, &u.Username, &u.Score, &u.CorrectGuesses, &u.IncorrectGuesses, &createdAt)
	u.CreatedAt = createdAt.Time
	return u, err
}

// CreateUser registers a new player. The username is the only credential,
// so it must be unique.
func (s *Service) CreateUser(ctx context.Context, username string) (globetrotter.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return globetrotter.User{}, globetrotter.NewError(globetrotter.ErrInvalid, "username is required")
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return globetrotter.User{}, globetrotter.NewError(globetrotter.ErrInvalid,
			fmt.Sprintf("username must be at most %d characters", maxUsernameLen))
	}

	u, err := scanUser(s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, username, created_at)
		VALUES (?, ?, ?)
		RETURNING `+userColumns,
		uuid.NewString(), username, database.Now()))
	if database.IsUniqueViolation(err) {
		return globetrotter.User{}, globetrotter.ErrUsernameTaken
	}
	if err != nil {
		return globetrotter.User{}, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user created", "user_id", u.ID)
	return u, nil
}

// User looks up a player by id.
func (s *Service) User(ctx context.Context, id string) (globetrotter.User, error) {
	if id == "" {
		return globetrotter.User{}, globetrotter.NewError(globetrotter.ErrInvalid, "user id is required")
	}
	return getUser(ctx, s.db, id)
}

// UserByUsername looks up a returning player by handle.
func (s *Service) UserByUsername(ctx context.Context, username string) (globetrotter.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return globetrotter.User{}, globetrotter.NewError(globetrotter.ErrInvalid, "username is required")
	}
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return u, globetrotter.ErrUserNotFound
	}
	if err != nil {
		return u, fmt.Errorf("loading user by username: %w", err)
	}
	return u, nil
}

func getUser(ctx context.Context, q database.Querier, id string) (globetrotter.User, error) {
	u, err := scanUser(q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return u, globetrotter.ErrUserNotFound
	}
	if err != nil {
		return u, fmt.Errorf("loading user %s: %w", id, err)
	}
	return u, nil
}

// adjustStats applies Score to a user as a single atomic increment, so
// concurrent resolutions for the same user never lose an update.
func adjustStats(ctx context.Context, q database.Querier, userID string, correct bool) (globetrotter.User, error) {
	d := scoreDelta(correct)
	u, err := scanUser(q.QueryRowContext(ctx, `
		UPDATE users SET
			score = score + ?,
			correct_guesses = correct_guesses + ?,
			incorrect_guesses = incorrect_guesses + ?
		WHERE id = ?
		RETURNING `+userColumns,
		d.Score, d.Correct, d.Incorrect, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return u, globetrotter.ErrUserNotFound
	}
	if err != nil {
		return u, fmt.Errorf("adjusting stats for %s: %w", userID, err)
	}
	return u, nil
}
