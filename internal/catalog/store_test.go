package catalog

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/playperu/globetrotter/internal/database"
	"github.com/playperu/globetrotter/internal/globetrotter"
	"github.com/playperu/globetrotter/internal/migrations"
)

func setupDB(t *testing.T) *sql.DB {
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
	return db
}

func seededStore(t *testing.T) *Store {
	t.Helper()
	db := setupDB(t)
	if _, err := Seed(context.Background(), db, DemoDestinations); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return NewStore(db)
}

func TestSeedIsIdempotent(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	seeded, err := Seed(ctx, db, DemoDestinations)
	if err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if !seeded {
		t.Fatal("first seed: expected catalog to be seeded")
	}

	seeded, err = Seed(ctx, db, DemoDestinations)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if seeded {
		t.Error("second seed: expected no-op")
	}

	n, err := NewStore(db).Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != len(DemoDestinations) {
		t.Errorf("count = %d, want %d", n, len(DemoDestinations))
	}
}

func TestListDestinations(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	all, err := s.ListDestinations(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("len = %d, want 5", len(all))
	}
	if all[0].Name != "Eiffel Tower" {
		t.Errorf("first = %q, want Eiffel Tower (name order)", all[0].Name)
	}

	limited, err := s.ListDestinations(ctx, 2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited len = %d, want 2", len(limited))
	}
}

func TestDestinationWithCluesAndFacts(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	all, err := s.ListDestinations(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	var machu globetrotter.DestinationSummary
	for _, d := range all {
		if d.Name == "Machu Picchu" {
			machu = d
		}
	}

	d, err := s.Destination(ctx, machu.ID)
	if err != nil {
		t.Fatalf("destination: %v", err)
	}
	if len(d.Clues) != 3 || len(d.Facts) != 3 {
		t.Fatalf("got %d clues, %d facts; want 3 and 3", len(d.Clues), len(d.Facts))
	}
	if d.Clues[2].Difficulty != globetrotter.DifficultyHard {
		t.Errorf("third clue difficulty = %q, want hard", d.Clues[2].Difficulty)
	}
	if d.Facts[0].IsTrivia || !d.Facts[1].IsTrivia {
		t.Errorf("trivia flags = %v, %v; want false, true", d.Facts[0].IsTrivia, d.Facts[1].IsTrivia)
	}
}

func TestDestinationNotFound(t *testing.T) {
	s := seededStore(t)

	_, err := s.Destination(context.Background(), "nope")
	if !errors.Is(err, globetrotter.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCluesAndFactsUnknownDestination(t *testing.T) {
	s := seededStore(t)

	clues, facts, err := s.CluesAndFacts(context.Background(), "nope")
	if err != nil {
		t.Fatalf("clues and facts: %v", err)
	}
	if len(clues) != 0 || len(facts) != 0 {
		t.Errorf("got %d clues, %d facts; want none", len(clues), len(facts))
	}
}

func TestRandomDestination(t *testing.T) {
	s := seededStore(t)

	d, err := s.RandomDestination(context.Background())
	if err != nil {
		t.Fatalf("random: %v", err)
	}
	if d.ID == "" || d.Name == "" || len(d.Clues) == 0 {
		t.Errorf("random destination incomplete: %+v", d)
	}
}

func TestRandomDestinationCatalogTooSmall(t *testing.T) {
	db := setupDB(t)
	if _, err := Seed(context.Background(), db, DemoDestinations[:3]); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := NewStore(db).RandomDestination(context.Background())
	if !errors.Is(err, globetrotter.ErrCatalogTooSmall) {
		t.Fatalf("err = %v, want ErrCatalogTooSmall", err)
	}
}
