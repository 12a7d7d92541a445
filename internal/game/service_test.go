package game

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/playperu/globetrotter/internal/catalog"
	"github.com/playperu/globetrotter/internal/database"
	"github.com/playperu/globetrotter/internal/globetrotter"
	"github.com/playperu/globetrotter/internal/migrations"
)

type fixture struct {
	svc  *Service
	db   *sql.DB
	dest map[string]string // name -> id
}

func newFixture(t *testing.T, dests []globetrotter.Destination) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := catalog.Seed(ctx, db, dests); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}

	store := catalog.NewStore(db)
	list, err := store.ListDestinations(ctx, 0)
	if err != nil {
		t.Fatalf("list destinations: %v", err)
	}
	ids := make(map[string]string, len(list))
	for _, d := range list {
		ids[d.Name] = d.ID
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(db, store, logger, WithRand(rand.New(rand.NewPCG(1, 2))))
	return &fixture{svc: svc, db: db, dest: ids}
}

// demoFixture has the full five-destination demo catalog.
func demoFixture(t *testing.T) *fixture {
	return newFixture(t, catalog.DemoDestinations)
}

func (f *fixture) user(t *testing.T, name string) globetrotter.User {
	t.Helper()
	u, err := f.svc.CreateUser(context.Background(), name)
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func (f *fixture) challenge(t *testing.T, creatorID, destination string) globetrotter.Challenge {
	t.Helper()
	c, err := f.svc.CreateChallenge(context.Background(), creatorID, f.dest[destination])
	if err != nil {
		t.Fatalf("create challenge: %v", err)
	}
	return c
}

// play opens a free-play session for destination and resolves it.
func (f *fixture) play(t *testing.T, userID, destination string, correct bool) Outcome {
	t.Helper()
	ctx := context.Background()
	id := f.dest[destination]
	gs, err := f.svc.CreateSession(ctx, userID, id, nil)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	guess := id
	if !correct {
		guess = "wrong"
	}
	out, err := f.svc.SubmitGuess(ctx, userID, gs.ID, guess)
	if err != nil {
		t.Fatalf("submit guess: %v", err)
	}
	return out
}

func (f *fixture) sessionCount(t *testing.T, userID string) int {
	t.Helper()
	var n int
	err := f.db.QueryRow(`SELECT COUNT(*) FROM game_sessions WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	return n
}

func assertKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("err = %v, want kind %v", err, kind)
	}
}
