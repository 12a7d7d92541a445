// Package game implements player identity, round selection, the game
// session ledger, the challenge/invite lifecycle and scoring.
//
// Every multi-step mutation runs in a single database transaction:
// resolving a session together with its score update, and accepting an
// invite together with its duplicate-play checks and session creation.
// Catalog reads happen outside transactions; the catalog is immutable at
// runtime and may share the single pooled connection.
package game

import (
	"context"
	"database/sql"
	"log/slog"
	"math/rand/v2"

	"github.com/playperu/globetrotter/internal/globetrotter"
)

// DefaultOptionPool is how many catalog entries are fetched when drawing
// wrong answers.
const DefaultOptionPool = 10

// Catalog is the read-only destination source the service consumes.
type Catalog interface {
	Destination(ctx context.Context, id string) (globetrotter.Destination, error)
	ListDestinations(ctx context.Context, limit int) ([]globetrotter.DestinationSummary, error)
}

// Rand is the randomness used for round selection. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// globalRand uses the concurrency-safe top-level math/rand/v2 source.
type globalRand struct{}

func (globalRand) IntN(n int) int                     { return rand.IntN(n) }
func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

type Service struct {
	db         *sql.DB
	catalog    Catalog
	logger     *slog.Logger
	rand       Rand
	optionPool int
}

type Option func(*Service)

// WithRand replaces the random source, mainly for deterministic tests.
func WithRand(r Rand) Option {
	return func(s *Service) { s.rand = r }
}

// WithOptionPool sets how many catalog entries wrong answers are drawn
// from. Values below DefaultOptionPool are ignored.
func WithOptionPool(n int) Option {
	return func(s *Service) {
		if n >= DefaultOptionPool {
			s.optionPool = n
		}
	}
}

func NewService(db *sql.DB, catalog Catalog, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		db:         db,
		catalog:    catalog,
		logger:     logger,
		rand:       globalRand{},
		optionPool: DefaultOptionPool,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping reports whether the backing database is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
