// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/cinefeel/internal/api"
	"github.com/tomtom215/cinefeel/internal/config"
	"github.com/tomtom215/cinefeel/internal/database"
	"github.com/tomtom215/cinefeel/internal/logging"
	"github.com/tomtom215/cinefeel/internal/recommend"
	"github.com/tomtom215/cinefeel/internal/supervisor"
	"github.com/tomtom215/cinefeel/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logger.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Bool("sync_enabled", cfg.Sync.Enabled).
		Bool("import_enabled", cfg.Import.Enabled).
		Msg("Starting CineFeel")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	stores := newStateStores()
	defer stores.Close()

	ranker, err := recommend.NewRanker(recommend.ConfigFromSettings(&cfg.Recommend), logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create ranker")
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if err := initSync(cfg, db, stores, tree, logger); err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize TMDB sync")
	}
	if err := initImport(cfg, db, stores, tree, logger); err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize CSV import")
	}

	handler := api.NewHandler(db, ranker, &cfg.Recommend, version, logger)
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(handler, &cfg.Server),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logger.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logger.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	// The supervisor reports exactly one result on errCh and never closes it.
	select {
	case <-ctx.Done():
		logger.Info().Msg("Context canceled, waiting for supervisor to finish")
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Supervisor shutdown error")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logger.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	if err := db.Checkpoint(context.Background()); err != nil {
		logger.Warn().Err(err).Msg("Final checkpoint failed")
	}
	logger.Info().Msg("CineFeel stopped")
}
