// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	movieimport "github.com/tomtom215/cinefeel/internal/import"
)

// Importer is satisfied by *movieimport.Importer.
type Importer interface {
	Import(ctx context.Context) (*movieimport.ImportStats, error)
	IsRunning() bool
	Stop() error
}

// ImportService runs the CSV import under supervision.
//
// With autoStart the import runs once when the service starts; a failed
// import is returned so the supervisor retries it, and the retry resumes from
// the saved progress. After a successful import, or without autoStart, the
// service idles until shutdown.
type ImportService struct {
	importer  Importer
	autoStart bool
	logger    zerolog.Logger
	name      string
}

// NewImportService wraps importer.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewImportService(importer Importer, autoStart bool, logger zerolog.Logger) *ImportService {
	return &ImportService{
		importer:  importer,
		autoStart: autoStart,
		logger:    logger.With().Str("component", "import-service").Logger(),
		name:      "csv-import",
	}
}

func (s *ImportService) Serve(ctx context.Context) error {
	if s.autoStart {
		s.logger.Info().Msg("Starting automatic CSV import")
		stats, err := s.importer.Import(ctx)
		switch {
		case ctx.Err() != nil:
			s.logger.Info().Msg("Import canceled by shutdown")
			return ctx.Err()
		case errors.Is(err, movieimport.ErrImportInProgress):
			s.logger.Warn().Msg("Import already running, not starting another")
		case err != nil:
			return fmt.Errorf("import failed: %w", err)
		default:
			s.logger.Info().
				Int64("imported", stats.Imported).
				Int64("skipped", stats.Skipped).
				Int64("errors", stats.Errors).
				Dur("duration", stats.Duration()).
				Msg("Import completed")
		}
	} else {
		s.logger.Info().Msg("Import service idle (auto start disabled)")
	}

	<-ctx.Done()

	if s.importer.IsRunning() {
		s.logger.Info().Msg("Stopping running import for shutdown")
		if err := s.importer.Stop(); err != nil && !errors.Is(err, movieimport.ErrNoImportRunning) {
			s.logger.Warn().Err(err).Msg("Failed to stop import")
		}
	}
	return ctx.Err()
}

// Importer returns the wrapped importer.
func (s *ImportService) Importer() Importer {
	return s.importer
}

func (s *ImportService) String() string {
	return s.name
}
