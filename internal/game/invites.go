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

// InviteDetail is an invite with its sender and the challenge it shares.
type InviteDetail struct {
	globetrotter.Invite
	Sender    UserSummary
	Challenge ChallengeDetail
}

const inviteColumns = `id, invite_code, challenge_id, sender_id, recipient_id, is_accepted, created_at, accepted_at`

func scanInvite(row interface{ Scan(...any) error }) (globetrotter.Invite, error) {
	var (
		inv         globetrotter.Invite
		recipientID sql.NullString
		createdAt   database.Timestamp
		acceptedAt  database.Timestamp
	)
	err := row.Scan(&inv.ID, &inv.InviteCode, &inv.ChallengeID, &inv.SenderID, &recipientID,
		&inv.IsAccepted, &createdAt, &acceptedAt)
	if err != nil {
		return inv, err
	}
	if recipientID.Valid {
		inv.RecipientID = &recipientID.String
	}
	inv.CreatedAt = createdAt.Time
	inv.AcceptedAt = acceptedAt.Ptr()
	return inv, nil
}

// CreateInvite shares a challenge. recipientID may be empty for a link
// anyone can accept; the first acceptor is then bound as recipient.
func (s *Service) CreateInvite(ctx context.Context, senderID, challengeID, recipientID string) (globetrotter.Invite, error) {
	if senderID == "" || challengeID == "" {
		return globetrotter.Invite{}, globetrotter.NewError(globetrotter.ErrInvalid, "user id and challenge id are required")
	}

	var inv globetrotter.Invite
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := getUser(ctx, tx, senderID); err != nil {
			return err
		}
		c, err := getChallenge(ctx, tx, challengeID)
		if err != nil {
			return err
		}
		if !c.IsActive {
			return globetrotter.ErrChallengeInactive
		}

		var recipient *string
		if recipientID != "" {
			if _, err := getUser(ctx, tx, recipientID); errors.Is(err, globetrotter.ErrUserNotFound) {
				return globetrotter.ErrRecipientNotFound
			} else if err != nil {
				return err
			}
			recipient = &recipientID
		}

		return withUniqueCode(func(code string) error {
			var err error
			inv, err = scanInvite(tx.QueryRowContext(ctx, `
				INSERT INTO invites (id, invite_code, challenge_id, sender_id, recipient_id, created_at)
				VALUES (?, ?, ?, ?, ?, ?)
				RETURNING `+inviteColumns,
				uuid.NewString(), code, challengeID, senderID, recipient, database.Now()))
			return err
		})
	})
	if err != nil {
		if globetrotter.Kind(err) == nil {
			err = fmt.Errorf("creating invite: %w", err)
		}
		return globetrotter.Invite{}, err
	}

	s.logger.Info("invite created", "invite_id", inv.ID, "challenge_id", challengeID, "sender_id", senderID)
	return inv, nil
}

// InviteByCode looks up an invite with its sender and challenge.
func (s *Service) InviteByCode(ctx context.Context, code string) (InviteDetail, error) {
	if code == "" {
		return InviteDetail{}, globetrotter.NewError(globetrotter.ErrInvalid, "invite code is required")
	}

	var d InviteDetail
	inv, err := scanInvite(s.db.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE invite_code = ?`, code))
	if errors.Is(err, sql.ErrNoRows) {
		return d, globetrotter.ErrInviteNotFound
	}
	if err != nil {
		return d, fmt.Errorf("loading invite by code: %w", err)
	}
	d.Invite = inv

	sender, err := getUser(ctx, s.db, inv.SenderID)
	if err != nil {
		return d, err
	}
	d.Sender = UserSummary{ID: sender.ID, Username: sender.Username, Score: sender.Score}

	d.Challenge, err = scanChallengeDetail(s.db.QueryRowContext(ctx, challengeDetailQuery+`WHERE c.id = ?`, inv.ChallengeID))
	if errors.Is(err, sql.ErrNoRows) {
		return d, globetrotter.ErrChallengeNotFound
	}
	if err != nil {
		return d, fmt.Errorf("loading invite challenge: %w", err)
	}
	return d, nil
}

// AcceptInvite flips an invite to accepted and opens the acceptor's
// session for the shared challenge. The duplicate-play checks, the state
// flip and the session insert share one transaction, so concurrent
// acceptances cannot both succeed.
func (s *Service) AcceptInvite(ctx context.Context, code, userID string) (globetrotter.Invite, globetrotter.GameSession, error) {
	if code == "" {
		return globetrotter.Invite{}, globetrotter.GameSession{}, globetrotter.NewError(globetrotter.ErrInvalid, "invite code is required")
	}
	if userID == "" {
		return globetrotter.Invite{}, globetrotter.GameSession{}, globetrotter.NewError(globetrotter.ErrInvalid, "user id is required")
	}

	var (
		inv globetrotter.Invite
		gs  globetrotter.GameSession
	)
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := getUser(ctx, tx, userID); err != nil {
			return err
		}

		var err error
		inv, err = scanInvite(tx.QueryRowContext(ctx,
			`SELECT `+inviteColumns+` FROM invites WHERE invite_code = ?`, code))
		if errors.Is(err, sql.ErrNoRows) {
			return globetrotter.ErrInviteNotFound
		}
		if err != nil {
			return fmt.Errorf("loading invite: %w", err)
		}
		c, err := getChallenge(ctx, tx, inv.ChallengeID)
		if err != nil {
			return err
		}
		if inv.IsAccepted {
			return globetrotter.ErrInviteAccepted
		}

		played, err := hasSessionForDestination(ctx, tx, userID, c.DestinationID)
		if err != nil {
			return err
		}
		if played {
			return globetrotter.ErrDestinationPlayed
		}
		if _, ok, err := sessionForChallenge(ctx, tx, userID, c.ID); err != nil {
			return err
		} else if ok {
			return globetrotter.ErrChallengePlayed
		}

		inv, err = scanInvite(tx.QueryRowContext(ctx, `
			UPDATE invites SET
				is_accepted = 1,
				recipient_id = COALESCE(recipient_id, ?),
				accepted_at = ?
			WHERE id = ? AND is_accepted = 0
			RETURNING `+inviteColumns,
			userID, database.Now(), inv.ID))
		if errors.Is(err, sql.ErrNoRows) {
			return globetrotter.ErrInviteAccepted
		}
		if err != nil {
			return fmt.Errorf("accepting invite: %w", err)
		}

		gs, err = createSession(ctx, tx, userID, c.DestinationID, &c.ID)
		return err
	})
	if err != nil {
		return globetrotter.Invite{}, globetrotter.GameSession{}, err
	}

	s.logger.Info("invite accepted", "invite_id", inv.ID, "user_id", userID, "session_id", gs.ID)
	return inv, gs, nil
}
