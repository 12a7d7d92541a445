package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/playperu/globetrotter/internal/catalog"
	"github.com/playperu/globetrotter/internal/game"
	"github.com/playperu/globetrotter/internal/globetrotter"
)

// Demo account names created by SeedDemo.
const (
	SystemUsername = "system"
	DemoUsername   = "demouser"
)

// SeedDemo loads the demo catalog, a system user owning one active
// challenge per destination, and a demo player.
// Idempotent: does nothing once the system user exists.
func SeedDemo(ctx context.Context, logger *slog.Logger, db *sql.DB, svc *game.Service) error {
	loaded, err := catalog.Seed(ctx, db, catalog.DemoDestinations)
	if err != nil {
		return fmt.Errorf("seeding catalog: %w", err)
	}
	if loaded {
		logger.Info("demo catalog loaded", "destinations", len(catalog.DemoDestinations))
	}

	_, err = svc.UserByUsername(ctx, SystemUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, globetrotter.ErrNotFound) {
		return err
	}

	system, err := svc.CreateUser(ctx, SystemUsername)
	if err != nil {
		return err
	}
	if _, err := svc.CreateUser(ctx, DemoUsername); err != nil && !errors.Is(err, globetrotter.ErrConflict) {
		return err
	}

	dests, err := catalog.NewStore(db).ListDestinations(ctx, 0)
	if err != nil {
		return err
	}
	for _, d := range dests {
		if _, err := svc.CreateChallenge(ctx, system.ID, d.ID); err != nil {
			return fmt.Errorf("creating default challenge for %s: %w", d.Name, err)
		}
	}

	logger.Info("demo users and challenges created", "challenges", len(dests))
	return nil
}
