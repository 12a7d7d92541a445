package game

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/playperu/globetrotter/internal/database"
	"github.com/playperu/globetrotter/internal/globetrotter"
)

// ChallengeDetail is a challenge with its creator and destination.
type ChallengeDetail struct {
	globetrotter.Challenge
	Creator     UserSummary
	Destination globetrotter.DestinationSummary
}

const challengeColumns = `id, invite_code, creator_id, destination_id, is_active, created_at`

func scanChallenge(row interface{ Scan(...any) error }) (globetrotter.Challenge, error) {
	var c globetrotter.Challenge
	var createdAt database.Timestamp
	err := row.Scan(&c.ID, &c.InviteCode, &c.CreatorID, &c.DestinationID, &c.IsActive, &createdAt)
	c.CreatedAt = createdAt.Time
	return c, err
}

// CreateChallenge pins a destination for others to attempt. An empty
// destinationID picks one at random from the catalog.
func (s *Service) CreateChallenge(ctx context.Context, creatorID, destinationID string) (globetrotter.Challenge, error) {
	if creatorID == "" {
		return globetrotter.Challenge{}, globetrotter.NewError(globetrotter.ErrInvalid, "user id is required")
	}

	if destinationID == "" {
		all, err := s.catalog.ListDestinations(ctx, 0)
		if err != nil {
			return globetrotter.Challenge{}, err
		}
		if len(all) < globetrotter.MinDestinations {
			return globetrotter.Challenge{}, globetrotter.ErrCatalogTooSmall
		}
		destinationID = all[s.rand.IntN(len(all))].ID
	} else if _, err := s.catalog.Destination(ctx, destinationID); err != nil {
		return globetrotter.Challenge{}, err
	}

	var c globetrotter.Challenge
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := getUser(ctx, tx, creatorID); err != nil {
			return err
		}
		return withUniqueCode(func(code string) error {
			var err error
			c, err = scanChallenge(tx.QueryRowContext(ctx, `
				INSERT INTO challenges (id, invite_code, creator_id, destination_id, created_at)
				VALUES (?, ?, ?, ?, ?)
				RETURNING `+challengeColumns,
				uuid.NewString(), code, creatorID, destinationID, database.Now()))
			return err
		})
	})
	if err != nil {
		if globetrotter.Kind(err) == nil {
			err = fmt.Errorf("creating challenge: %w", err)
		}
		return globetrotter.Challenge{}, err
	}

	s.logger.Info("challenge created", "challenge_id", c.ID, "creator_id", creatorID)
	return c, nil
}

// Challenge returns a challenge by id, active or not.
func (s *Service) Challenge(ctx context.Context, id string) (globetrotter.Challenge, error) {
	return getChallenge(ctx, s.db, id)
}

func getChallenge(ctx context.Context, q database.Querier, id string) (globetrotter.Challenge, error) {
	c, err := scanChallenge(q.QueryRowContext(ctx,
		`SELECT `+challengeColumns+` FROM challenges WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return c, globetrotter.ErrChallengeNotFound
	}
	if err != nil {
		return c, fmt.Errorf("loading challenge %s: %w", id, err)
	}
	return c, nil
}

const challengeDetailQuery = `
	SELECT c.id, c.invite_code, c.creator_id, c.destination_id, c.is_active, c.created_at,
	       u.username, u.score, d.name
	FROM challenges c
	JOIN users u ON u.id = c.creator_id
	JOIN destinations d ON d.id = c.destination_id
`

func scanChallengeDetail(row interface{ Scan(...any) error }) (ChallengeDetail, error) {
	var cd ChallengeDetail
	var createdAt database.Timestamp
	err := row.Scan(&cd.ID, &cd.InviteCode, &cd.CreatorID, &cd.DestinationID, &cd.IsActive, &createdAt,
		&cd.Creator.Username, &cd.Creator.Score, &cd.Destination.Name)
	cd.CreatedAt = createdAt.Time
	cd.Creator.ID = cd.CreatorID
	cd.Destination.ID = cd.DestinationID
	return cd, err
}

// ChallengeByCode looks up a shared challenge. Deactivated challenges are
// reported with ErrChallengeInactive.
func (s *Service) ChallengeByCode(ctx context.Context, code string) (ChallengeDetail, error) {
	if code == "" {
		return ChallengeDetail{}, globetrotter.NewError(globetrotter.ErrInvalid, "invite code is required")
	}
	cd, err := scanChallengeDetail(s.db.QueryRowContext(ctx, challengeDetailQuery+`WHERE c.invite_code = ?`, code))
	if errors.Is(err, sql.ErrNoRows) {
		return cd, globetrotter.ErrChallengeNotFound
	}
	if err != nil {
		return cd, fmt.Errorf("loading challenge by code: %w", err)
	}
	if !cd.IsActive {
		return cd, globetrotter.ErrChallengeInactive
	}
	return cd, nil
}

// ActiveChallenges lists active challenges the user can still play: none
// they have a session for, and none whose destination they have already
// played. Newest first.
func (s *Service) ActiveChallenges(ctx context.Context, userID string) ([]ChallengeDetail, error) {
	if userID == "" {
		return nil, globetrotter.NewError(globetrotter.ErrInvalid, "user id is required")
	}
	if _, err := getUser(ctx, s.db, userID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, challengeDetailQuery+`
		WHERE c.is_active = 1
		  AND NOT EXISTS (
			SELECT 1 FROM game_sessions gs
			WHERE gs.user_id = ?
			  AND (gs.challenge_id = c.id OR gs.destination_id = c.destination_id)
		  )
		ORDER BY c.created_at DESC, c.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing active challenges: %w", err)
	}
	defer rows.Close()

	out := []ChallengeDetail{}
	for rows.Next() {
		cd, err := scanChallengeDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cd)
	}
	return out, rows.Err()
}

// DeactivateChallenge soft-disables a challenge. It is idempotent and
// leaves existing invites and sessions untouched.
func (s *Service) DeactivateChallenge(ctx context.Context, id string) (globetrotter.Challenge, error) {
	if id == "" {
		return globetrotter.Challenge{}, globetrotter.NewError(globetrotter.ErrInvalid, "challenge id is required")
	}
	c, err := scanChallenge(s.db.QueryRowContext(ctx, `
		UPDATE challenges SET is_active = 0 WHERE id = ?
		RETURNING `+challengeColumns, id))
	if errors.Is(err, sql.ErrNoRows) {
		return c, globetrotter.ErrChallengeNotFound
	}
	if err != nil {
		return c, fmt.Errorf("deactivating challenge %s: %w", id, err)
	}

	s.logger.Info("challenge deactivated", "challenge_id", id)
	return c, nil
}
