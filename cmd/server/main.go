package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/globetrotter/internal/catalog"
	"github.com/playperu/globetrotter/internal/config"
	"github.com/playperu/globetrotter/internal/database"
	"github.com/playperu/globetrotter/internal/game"
	"github.com/playperu/globetrotter/internal/handler/health"
	"github.com/playperu/globetrotter/internal/migrations"
	"github.com/playperu/globetrotter/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newCmd(stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "globetrotter",
		Short: "Geography trivia game backend.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), stdout)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default).",
		Args:  cobra.NoArgs,
		RunE:  cmd.RunE,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Migrate the database and load the demo catalog, then exit.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return seed(cmd.Context(), stdout)
		},
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return cmd
}

// app holds what both commands open.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sql.DB
}

func setup(ctx context.Context, stdout io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("connecting to sqlite: %w", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	return &app{cfg: cfg, logger: logger, db: db}, nil
}

func seed(ctx context.Context, stdout io.Writer) error {
	a, err := setup(ctx, stdout)
	if err != nil {
		return err
	}
	defer a.db.Close()

	svc := game.NewService(a.db, catalog.NewStore(a.db), a.logger)
	return server.SeedDemo(ctx, a.logger, a.db, svc)
}

func serve(ctx context.Context, stdout io.Writer) error {
	a, err := setup(ctx, stdout)
	if err != nil {
		return err
	}
	defer a.db.Close()
	cfg, logger := a.cfg, a.logger

	checks := map[string]health.Checker{"sqlite": health.SQL(a.db)}

	// --- Redis (optional catalog cache) ---
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		checks["redis"] = health.Redis(rdb)
		logger.Info("connected to redis", "ttl", cfg.CatalogTTL)
	}

	cat := catalog.NewCache(catalog.NewStore(a.db), rdb, cfg.CatalogTTL, logger)
	svc := game.NewService(a.db, cat, logger, game.WithOptionPool(cfg.OptionPoolSize))

	if cfg.SeedDemo {
		if err := server.SeedDemo(ctx, logger, a.db, svc); err != nil {
			return fmt.Errorf("seeding demo data: %w", err)
		}
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Game:          svc,
		Catalog:       cat,
		Health:        health.NewHandler(logger, checks).Routes(),
		PublicBaseURL: cfg.PublicBaseURL,
		SPADir:        cfg.SPADir,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}
