// Package main is the entry point for the calendar API server.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/zapponejosh/calendar-api/internal/api"
	"github.com/zapponejosh/calendar-api/internal/config"
	"github.com/zapponejosh/calendar-api/internal/database"
	"github.com/zapponejosh/calendar-api/internal/logger"
	"github.com/zapponejosh/calendar-api/internal/metrics"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		return 1
	}

	// Setup structured logging
	log := logger.Setup(cfg)

	log.Info("starting calendar API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("log_level", cfg.LogLevel),
		slog.String("easter_method", cfg.Easter().String()),
		slog.Bool("emulate_bug_54254", cfg.EmulateBug54254),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Concordance cache
	db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), log)
	if err != nil {
		log.Error("failed to open database", slog.Any("error", err))
		return 1
	}
	defer db.Close()

	applied, err := db.Migrate(ctx)
	if err != nil {
		log.Error("failed to migrate database", slog.Any("error", err))
		return 1
	}
	log.Info("database ready", slog.String("path", cfg.DatabasePath), slog.Int("migrations_applied", applied))

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	srv := api.NewServer(db, cfg, m, log)
	if err := api.Run(ctx, srv, log); err != nil {
		log.Error("server stopped with error", slog.Any("error", err))
		return 1
	}

	log.Info("calendar API stopped")
	return 0
}
