// Package catalog provides read-only access to destinations, their clues
// and their facts.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/playperu/globetrotter/internal/globetrotter"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Count returns the number of destinations in the catalog.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM destinations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting destinations: %w", err)
	}
	return n, nil
}

// RandomDestination picks a destination uniformly at random. It fails with
// ErrCatalogTooSmall when the catalog cannot fill a multiple-choice round.
func (s *Store) RandomDestination(ctx context.Context) (globetrotter.Destination, error) {
	all, err := s.ListDestinations(ctx, 0)
	if err != nil {
		return globetrotter.Destination{}, err
	}
	if len(all) < globetrotter.MinDestinations {
		return globetrotter.Destination{}, globetrotter.ErrCatalogTooSmall
	}
	return s.Destination(ctx, all[rand.IntN(len(all))].ID)
}

// Destination returns a destination with its clues and facts.
func (s *Store) Destination(ctx context.Context, id string) (globetrotter.Destination, error) {
	d := globetrotter.Destination{ID: id}
	err := s.db.QueryRowContext(ctx, `SELECT name FROM destinations WHERE id = ?`, id).Scan(&d.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return d, globetrotter.ErrDestinationNotFound
	}
	if err != nil {
		return d, fmt.Errorf("loading destination %s: %w", id, err)
	}

	d.Clues, d.Facts, err = s.CluesAndFacts(ctx, id)
	return d, err
}

// ListDestinations returns up to limit destination summaries in name
// order. A limit of zero or less returns the whole catalog.
func (s *Store) ListDestinations(ctx context.Context, limit int) ([]globetrotter.DestinationSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name FROM destinations ORDER BY name LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing destinations: %w", err)
	}
	defer rows.Close()

	var out []globetrotter.DestinationSummary
	for rows.Next() {
		var d globetrotter.DestinationSummary
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CluesAndFacts returns the clues and facts of a destination in their
// authored order. Unknown destinations yield empty slices.
func (s *Store) CluesAndFacts(ctx context.Context, destinationID string) ([]globetrotter.Clue, []globetrotter.Fact, error) {
	clues := []globetrotter.Clue{}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, difficulty FROM clues
		WHERE destination_id = ?
		ORDER BY position
	`, destinationID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading clues: %w", err)
	}
	for rows.Next() {
		var c globetrotter.Clue
		if err := rows.Scan(&c.ID, &c.Text, &c.Difficulty); err != nil {
			rows.Close()
			return nil, nil, err
		}
		clues = append(clues, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	facts := []globetrotter.Fact{}
	rows, err = s.db.QueryContext(ctx, `
		SELECT id, text, is_trivia FROM facts
		WHERE destination_id = ?
		ORDER BY position
	`, destinationID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading facts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var f globetrotter.Fact
		if err := rows.Scan(&f.ID, &f.Text, &f.IsTrivia); err != nil {
			return nil, nil, err
		}
		facts = append(facts, f)
	}
	return clues, facts, rows.Err()
}
