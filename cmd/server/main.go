package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/qualifab/qcontrol/internal/config"
	"github.com/qualifab/qcontrol/internal/database"
	"github.com/qualifab/qcontrol/internal/i18n"
	"github.com/qualifab/qcontrol/internal/migrations"
	"github.com/qualifab/qcontrol/internal/scores"
	"github.com/qualifab/qcontrol/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Localization ---
	// Missing or malformed language files are fatal: the game has no
	// display text without them.
	translator, err := i18n.New()
	if err != nil {
		return fmt.Errorf("loading translations: %w", err)
	}
	logger.Info("translations loaded", "languages", translator.Languages())

	// --- Session snapshots (SQLite) ---
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	db, err := database.Open(ctx, filepath.Join(cfg.DataDir, "sessions.db"))
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "dir", cfg.DataDir)

	// --- Leaderboard file ---
	leaderboard, err := scores.NewStore(filepath.Join(cfg.DataDir, "scores.json"))
	if err != nil {
		return fmt.Errorf("opening leaderboard: %w", err)
	}

	// --- Engine sessions ---
	broker := server.NewBroker()
	sessionStore := server.NewSessionStore(db)
	sessions := server.NewRegistry(sessionStore, broker, logger, cfg.ShiftDuration)
	defer sessions.Close()

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Sessions:          sessions,
		Store:             sessionStore,
		Leaderboard:       leaderboard,
		Translator:        translator,
		Broker:            broker,
		SPADir:            cfg.SPADir,
		AdminPasswordHash: cfg.AdminPasswordHash,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
