// Package main is the entry point for the devtrack server.
//
// main stays minimal: load configuration, build the logger, open the
// optional remote store, hand everything to internal/server.
package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sakif/devtrack/internal/config"
	"github.com/sakif/devtrack/internal/repository"
	"github.com/sakif/devtrack/internal/repository/postgres"
	"github.com/sakif/devtrack/internal/server"
)

func main() {
	// Local development keeps secrets in a .env file; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Log.Level),
	}))

	// The local store directory must exist before sqlite opens the file.
	dbDir := filepath.Dir(cfg.Local.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error("failed to create data directory",
			slog.String("dir", dbDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// The remote store is optional twice over: no DSN means it was never
	// configured, and a failed connection degrades to local-only rather
	// than refusing to start.
	var remote repository.UserStore
	if cfg.Remote.DSN != "" {
		store, err := postgres.New(context.Background(), postgres.Config{
			DSN:            cfg.Remote.DSN,
			ConnectTimeout: cfg.Remote.ConnectTimeout,
		})
		if err != nil {
			logger.Warn("remote store unavailable, running local-only",
				slog.String("error", err.Error()),
			)
		} else {
			defer store.Close()
			remote = store
		}
	} else {
		logger.Info("no remote store configured, running local-only")
	}

	srv, err := server.New(cfg, logger, remote)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// logLevel maps the configured level name onto slog's levels, defaulting
// to debug for anything unrecognised.
func logLevel(name string) slog.Level {
	switch name {
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
