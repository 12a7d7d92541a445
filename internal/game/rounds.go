package game

import (
	"context"
	"database/sql"

	"github.com/playperu/globetrotter/internal/database"
	"github.com/playperu/globetrotter/internal/globetrotter"
)

// Round is one multiple-choice question. The correct destination is not
// part of it; the caller learns it only by submitting a guess.
type Round struct {
	// AllCompleted is set when the user has guessed every destination
	// correctly. No session is created and the other fields are empty.
	AllCompleted bool
	SessionID    string
	ChallengeID  *string
	Clues        []globetrotter.Clue
	Facts        []globetrotter.Fact
	Options      []globetrotter.DestinationSummary
}

// StartRound picks a destination the user has not yet guessed correctly
// and opens a session for it. An unresolved session the user already holds
// for that destination is handed back instead, including a challenge
// session, in which case ChallengeID is set.
func (s *Service) StartRound(ctx context.Context, userID string) (Round, error) {
	if userID == "" {
		return Round{}, globetrotter.NewError(globetrotter.ErrInvalid, "user id is required")
	}
	if _, err := getUser(ctx, s.db, userID); err != nil {
		return Round{}, err
	}

	all, err := s.catalog.ListDestinations(ctx, 0)
	if err != nil {
		return Round{}, err
	}
	if len(all) < globetrotter.MinDestinations {
		return Round{}, globetrotter.ErrCatalogTooSmall
	}

	done, err := correctDestinationIDs(ctx, s.db, userID)
	if err != nil {
		return Round{}, err
	}
	var candidates []globetrotter.DestinationSummary
	for _, d := range all {
		if !done[d.ID] {
			candidates = append(candidates, d)
		}
	}
	if len(candidates) == 0 {
		return Round{AllCompleted: true}, nil
	}
	target := candidates[s.rand.IntN(len(candidates))]

	round, err := s.prepareRound(ctx, target.ID)
	if err != nil {
		return Round{}, err
	}
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		gs, ok, err := openSessionForDestination(ctx, tx, userID, target.ID)
		if err != nil {
			return err
		}
		if !ok {
			if gs, err = createSession(ctx, tx, userID, target.ID, nil); err != nil {
				return err
			}
		}
		round.SessionID = gs.ID
		round.ChallengeID = gs.ChallengeID
		return nil
	})
	if err != nil {
		return Round{}, err
	}

	s.logger.Debug("round started", "user_id", userID, "session_id", round.SessionID)
	return round, nil
}

// StartChallengeRound presents a challenge's destination. A user who
// already holds an unresolved session for the challenge, for instance
// from accepting an invite, gets that session back.
func (s *Service) StartChallengeRound(ctx context.Context, userID, challengeID string) (Round, error) {
	if userID == "" || challengeID == "" {
		return Round{}, globetrotter.NewError(globetrotter.ErrInvalid, "user id and challenge id are required")
	}
	if _, err := getUser(ctx, s.db, userID); err != nil {
		return Round{}, err
	}
	c, err := getChallenge(ctx, s.db, challengeID)
	if err != nil {
		return Round{}, err
	}

	round, err := s.prepareRound(ctx, c.DestinationID)
	if err != nil {
		return Round{}, err
	}
	round.ChallengeID = &c.ID

	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		existing, ok, err := sessionForChallenge(ctx, tx, userID, c.ID)
		if err != nil {
			return err
		}
		if ok {
			if existing.Resolved() {
				return globetrotter.ErrChallengePlayed
			}
			round.SessionID = existing.ID
			return nil
		}

		if !c.IsActive {
			return globetrotter.ErrChallengeInactive
		}
		played, err := hasSessionForDestination(ctx, tx, userID, c.DestinationID)
		if err != nil {
			return err
		}
		if played {
			return globetrotter.ErrDestinationPlayed
		}

		gs, err := createSession(ctx, tx, userID, c.DestinationID, &c.ID)
		if err != nil {
			return err
		}
		round.SessionID = gs.ID
		return nil
	})
	if err != nil {
		return Round{}, err
	}

	s.logger.Debug("challenge round started", "user_id", userID, "challenge_id", c.ID, "session_id", round.SessionID)
	return round, nil
}

// prepareRound loads the clues and facts of the target and builds its
// option set. It reads only the catalog and must run outside a
// transaction.
func (s *Service) prepareRound(ctx context.Context, targetID string) (Round, error) {
	dest, err := s.catalog.Destination(ctx, targetID)
	if err != nil {
		return Round{}, err
	}
	options, err := s.buildOptions(ctx, dest)
	if err != nil {
		return Round{}, err
	}
	return Round{Clues: dest.Clues, Facts: dest.Facts, Options: options}, nil
}

// buildOptions returns OptionCount distinct destinations including the
// target exactly once, uniformly shuffled. Wrong answers are drawn from
// the first optionPool catalog entries.
func (s *Service) buildOptions(ctx context.Context, target globetrotter.Destination) ([]globetrotter.DestinationSummary, error) {
	pool, err := s.catalog.ListDestinations(ctx, s.optionPool+1)
	if err != nil {
		return nil, err
	}

	others := make([]globetrotter.DestinationSummary, 0, len(pool))
	for _, d := range pool {
		if d.ID != target.ID {
			others = append(others, d)
		}
	}
	if len(others) > s.optionPool {
		others = others[:s.optionPool]
	}
	if len(others) < globetrotter.OptionCount-1 {
		return nil, globetrotter.ErrCatalogTooSmall
	}

	s.rand.Shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })
	options := append(others[:globetrotter.OptionCount-1:globetrotter.OptionCount-1],
		globetrotter.DestinationSummary{ID: target.ID, Name: target.Name})
	s.rand.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	return options, nil
}
