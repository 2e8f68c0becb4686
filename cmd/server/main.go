// Reelstats - Movie Rating Analytics Dashboard
// Copyright 2026 Reelstats Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelstats/reelstats

// Package main is the entry point for the Reelstats server.
//
// Reelstats is a self-hosted movie rating analytics dashboard. Users record
// star ratings for the films they watch and the server computes streaks, a
// GitHub-style activity calendar, genre breakdowns, and summary statistics
// over their rating history.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Load settings from environment variables and config files (Koanf v2)
//  2. Database: Open DuckDB and create the ratings schema
//  3. Analytics: Build the aggregation engine and response cache
//  4. HTTP Server: REST API (Chi router) plus Prometheus /metrics
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority
// wins): environment variables, config file (config.yaml), built-in defaults.
// Common variables:
//
//	HTTP_PORT=8460
//	DUCKDB_PATH=/data/reelstats.duckdb
//	API_CACHE_TTL=5m
//	LOG_LEVEL=info
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections, waits up to 10s for in-flight requests, then
// checkpoints and closes the database.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/reelstats/reelstats/internal/analytics"
	"github.com/reelstats/reelstats/internal/api"
	"github.com/reelstats/reelstats/internal/cache"
	"github.com/reelstats/reelstats/internal/config"
	"github.com/reelstats/reelstats/internal/logging"
	"github.com/reelstats/reelstats/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("database", cfg.Database.Path).
		Msg("Starting Reelstats")

	db, err := store.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close database")
		}
	}()

	responseCache := cache.New(cfg.API.CacheTTL)
	defer responseCache.Close()

	engine := analytics.New(analytics.DefaultGenreNames)
	handler := api.NewHandler(db, engine, responseCache)
	router := api.NewRouter(handler, &cfg.Security)

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("HTTP server shutdown error")
	}

	logging.Info().Msg("Application stopped gracefully")
}
