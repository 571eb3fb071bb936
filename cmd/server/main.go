// Package main is the entry point for the check-in bot webhook gateway.
// It stays minimal: build the logger, load config, start the server.
// All actual logic lives in the internal packages.
package main

import (
	"log/slog"
	"os"

	"github.com/sakif/checkin-bot/internal/config"
	"github.com/sakif/checkin-bot/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// CONFIG_PATH points at an optional TOML file; env vars override it
	// either way. With neither present the defaults apply.
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.toml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the gateway is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
