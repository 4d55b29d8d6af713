// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package main

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinefeel/internal/config"
	"github.com/tomtom215/cinefeel/internal/database"
	movieimport "github.com/tomtom215/cinefeel/internal/import"
	"github.com/tomtom215/cinefeel/internal/kvstore"
	"github.com/tomtom215/cinefeel/internal/logging"
	"github.com/tomtom215/cinefeel/internal/supervisor"
	"github.com/tomtom215/cinefeel/internal/supervisor/services"
	syncpkg "github.com/tomtom215/cinefeel/internal/sync"
	"github.com/tomtom215/cinefeel/internal/tmdb"
)

// stateStores opens each BadgerDB directory once, so the import progress and
// the run log can share a directory. Empty paths get their own in-memory store.
type stateStores struct {
	mu  sync.Mutex
	dbs map[string]*badger.DB
	all []*badger.DB
}

func newStateStores() *stateStores {
	return &stateStores{dbs: make(map[string]*badger.DB)}
}

func (s *stateStores) Open(path string) (*badger.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := path
	if key != "" {
		key = filepath.Clean(path)
		if db, ok := s.dbs[key]; ok {
			return db, nil
		}
	}

	db, err := kvstore.Open(path)
	if err != nil {
		return nil, err
	}
	if key != "" {
		s.dbs[key] = db
	}
	s.all = append(s.all, db)
	return db, nil
}

func (s *stateStores) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, db := range s.all {
		if err := db.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close state store")
		}
	}
	s.all = nil
	s.dbs = make(map[string]*badger.DB)
}

// initSync adds the TMDB sync service when SYNC_ENABLED is set.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func initSync(cfg *config.Config, db *database.DB, stores *stateStores, tree *supervisor.SupervisorTree, logger zerolog.Logger) error {
	if !cfg.Sync.Enabled {
		logger.Info().Msg("TMDB sync disabled (SYNC_ENABLED=false)")
		return nil
	}

	runLogDB, err := stores.Open(cfg.Sync.RunLogPath)
	if err != nil {
		return fmt.Errorf("open run log: %w", err)
	}

	client := tmdb.NewCircuitBreakerClient(&cfg.TMDB, logger)
	manager := syncpkg.NewManager(client, db, syncpkg.NewBadgerRunLog(runLogDB), &cfg.Sync, logger)
	tree.AddIngestService(services.NewSyncService(manager))

	logger.Info().
		Int("start_page", cfg.Sync.StartPage).
		Int("pages", cfg.Sync.Pages).
		Bool("backfill", cfg.Sync.BackfillEnabled).
		Dur("interval", cfg.Sync.Interval).
		Msg("TMDB sync service added")
	return nil
}

// initImport adds the CSV import service when IMPORT_ENABLED is set.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func initImport(cfg *config.Config, db *database.DB, stores *stateStores, tree *supervisor.SupervisorTree, logger zerolog.Logger) error {
	if !cfg.Import.Enabled {
		logger.Info().Msg("CSV import disabled (IMPORT_ENABLED=false)")
		return nil
	}

	progressDB, err := stores.Open(cfg.Import.ProgressPath)
	if err != nil {
		return fmt.Errorf("open import progress: %w", err)
	}

	importer := movieimport.NewImporter(&cfg.Import, db, movieimport.NewBadgerProgress(progressDB), logger)
	tree.AddIngestService(services.NewImportService(importer, cfg.Import.AutoStart, logger))

	logger.Info().
		Str("csv_path", cfg.Import.CSVPath).
		Bool("auto_start", cfg.Import.AutoStart).
		Bool("dry_run", cfg.Import.DryRun).
		Msg("CSV import service added")
	return nil
}
