package migrations_test

import (
	"context"
	"testing"

	"github.com/playperu/globetrotter/internal/database"
	"github.com/playperu/globetrotter/internal/migrations"
)

func TestMigrations(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	// Verify all tables exist by querying sqlite_master.
	want := []string{"users", "destinations", "clues", "facts", "challenges", "invites", "game_sessions"}

	for _, table := range want {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("second run (should be no-op): %v", err)
	}
}

func TestOneSessionPerChallenge(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()
	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	stmts := []string{
		`INSERT INTO users (id, username) VALUES ('u1', 'ana')`,
		`INSERT INTO destinations (id, name) VALUES ('d1', 'Machu Picchu')`,
		`INSERT INTO challenges (id, invite_code, creator_id, destination_id) VALUES ('c1', 'code1', 'u1', 'd1')`,
		`INSERT INTO game_sessions (id, user_id, destination_id, challenge_id) VALUES ('s1', 'u1', 'd1', 'c1')`,
		// Free-play sessions carry no challenge and are not constrained.
		`INSERT INTO game_sessions (id, user_id, destination_id) VALUES ('s2', 'u1', 'd1')`,
		`INSERT INTO game_sessions (id, user_id, destination_id) VALUES ('s3', 'u1', 'd1')`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			t.Fatalf("%s: %v", s, err)
		}
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO game_sessions (id, user_id, destination_id, challenge_id) VALUES ('s4', 'u1', 'd1', 'c1')`)
	if !database.IsUniqueViolation(err) {
		t.Fatalf("second session for the same challenge: err = %v, want unique violation", err)
	}
}
