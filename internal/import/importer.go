// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package movieimport

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinefeel/internal/config"
	"github.com/tomtom215/cinefeel/internal/database"
	"github.com/tomtom215/cinefeel/internal/metrics"
	"github.com/tomtom215/cinefeel/internal/models"
)

var (
	// ErrImportInProgress is returned when Import is called during a run.
	ErrImportInProgress = errors.New("import already in progress")

	// ErrNoImportRunning is returned by Stop when nothing is running.
	ErrNoImportRunning = errors.New("no import in progress")

	// ErrImportStopped is returned by an Import interrupted through Stop.
	ErrImportStopped = errors.New("import stopped")
)

// Store is the catalog the importer writes to. *database.DB implements it.
type Store interface {
	ExistingMovieIDs(ctx context.Context) (map[int64]struct{}, error)
	InsertMovies(ctx context.Context, movies []models.Movie) (database.SaveResult, error)
}

// Importer loads the dataset CSV into the catalog.
type Importer struct {
	cfg      *config.ImportConfig
	store    Store
	progress ProgressTracker
	logger   zerolog.Logger

	mu      sync.RWMutex
	running bool
	stopped bool
	cancel  context.CancelFunc
	stats   *ImportStats
}

// NewImporter creates an importer. progress may be nil to disable resuming.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewImporter(cfg *config.ImportConfig, store Store, progress ProgressTracker, logger zerolog.Logger) *Importer {
	return &Importer{
		cfg:      cfg,
		store:    store,
		progress: progress,
		logger:   logger.With().Str("component", "import").Logger(),
	}
}

// Import reads the configured CSV and inserts new movies in batches. The
// returned stats are valid even when an error is returned.
func (i *Importer) Import(ctx context.Context) (*ImportStats, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	i.mu.Lock()
	if i.running {
		i.mu.Unlock()
		return nil, ErrImportInProgress
	}
	i.running = true
	i.stopped = false
	i.cancel = cancel
	i.stats = &ImportStats{StartTime: time.Now(), DryRun: i.cfg.DryRun}
	i.mu.Unlock()

	defer func() {
		i.mu.Lock()
		i.running = false
		i.cancel = nil
		i.mu.Unlock()
	}()

	err := i.run(ctx)
	i.update(func(s *ImportStats) { s.EndTime = time.Now() })
	if err != nil && ctx.Err() != nil {
		i.mu.RLock()
		stopped := i.stopped
		i.mu.RUnlock()
		if stopped {
			err = ErrImportStopped
		}
	}

	stats := i.Stats()
	ev := i.logger.Info()
	if err != nil {
		ev = i.logger.Warn().Err(err)
	}
	ev.Int64("imported", stats.Imported).
		Int64("skipped", stats.Skipped).
		Int64("errors", stats.Errors).
		Int64("last_row", stats.LastRow).
		Dur("duration", stats.Duration()).
		Bool("dry_run", stats.DryRun).
		Msg("Import finished")

	return stats, err
}

func (i *Importer) run(ctx context.Context) error {
	f, err := os.Open(i.cfg.CSVPath)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			i.logger.Warn().Err(closeErr).Msg("Error closing CSV file")
		}
	}()

	total, err := CountRows(f)
	if err != nil {
		return fmt.Errorf("count csv rows: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind csv: %w", err)
	}
	i.update(func(s *ImportStats) { s.TotalRows = total })

	reader, err := NewCSVReader(f)
	if err != nil {
		return err
	}

	startRow := i.resumePoint(ctx)
	if startRow > 0 {
		if err := reader.Skip(int(startRow)); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("skip to row %d: %w", startRow, err)
		}
		i.update(func(s *ImportStats) { s.LastRow = startRow })
	}

	existing, err := i.store.ExistingMovieIDs(ctx)
	if err != nil {
		return fmt.Errorf("load existing movie ids: %w", err)
	}
	i.logger.Info().
		Str("path", i.cfg.CSVPath).
		Int64("total_rows", total).
		Int64("start_row", startRow).
		Int("existing_movies", len(existing)).
		Int("batch_size", i.cfg.BatchSize).
		Msg("Starting import")

	batch := make([]models.Movie, 0, i.cfg.BatchSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		movie, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		i.update(func(s *ImportStats) { s.Processed++ })

		var parseErr *csv.ParseError
		switch {
		case errors.Is(err, ErrMissingID):
			i.logger.Warn().Int("row", reader.Row()).Msg("Skipping row without TMDB id")
			i.countRows("invalid", 1, func(s *ImportStats) { s.Skipped++ })
			continue
		case errors.As(err, &parseErr):
			i.logger.Error().Err(err).Int("row", reader.Row()).Msg("Malformed CSV row")
			i.countRows("failed", 1, func(s *ImportStats) { s.Errors++ })
			continue
		case err != nil:
			return fmt.Errorf("read row %d: %w", reader.Row()+1, err)
		}

		if _, ok := existing[movie.TMDBID]; ok {
			i.countRows("skipped", 1, func(s *ImportStats) { s.Skipped++ })
			continue
		}
		existing[movie.TMDBID] = struct{}{}
		batch = append(batch, movie)

		if len(batch) >= i.cfg.BatchSize {
			if err := i.flush(ctx, batch, int64(reader.Row())); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}

	if err := i.flush(ctx, batch, int64(reader.Row())); err != nil {
		return err
	}

	if i.progress != nil && !i.cfg.DryRun {
		if err := i.progress.Clear(ctx); err != nil {
			i.logger.Warn().Err(err).Msg("Failed to clear import progress")
		}
	}
	return nil
}

// flush writes batch and records lastRow as committed.
func (i *Importer) flush(ctx context.Context, batch []models.Movie, lastRow int64) error {
	if len(batch) > 0 {
		if i.cfg.DryRun {
			i.countRows("imported", len(batch), func(s *ImportStats) { s.Imported += int64(len(batch)) })
		} else {
			res, err := i.store.InsertMovies(ctx, batch)
			if err != nil {
				return fmt.Errorf("insert batch ending at row %d: %w", lastRow, err)
			}
			i.countRows("imported", res.Saved, func(s *ImportStats) { s.Imported += int64(res.Saved) })
			i.countRows("skipped", res.Skipped, func(s *ImportStats) { s.Skipped += int64(res.Skipped) })
			i.countRows("failed", res.Failed, func(s *ImportStats) { s.Errors += int64(res.Failed) })
		}
	}

	i.update(func(s *ImportStats) { s.LastRow = lastRow })
	stats := i.Stats()

	if i.progress != nil && !i.cfg.DryRun && len(batch) > 0 {
		if err := i.progress.Save(ctx, stats); err != nil {
			i.logger.Warn().Err(err).Msg("Failed to save import progress")
		}
	}

	if len(batch) > 0 {
		i.logger.Debug().
			Float64("progress_percent", stats.Progress()).
			Int64("last_row", stats.LastRow).
			Int64("imported", stats.Imported).
			Int64("skipped", stats.Skipped).
			Int64("errors", stats.Errors).
			Float64("records_per_second", stats.RecordsPerSecond()).
			Msg("Import progress")
	}
	return nil
}

// resumePoint returns the number of rows covered by a previous run.
func (i *Importer) resumePoint(ctx context.Context) int64 {
	if i.progress == nil || i.cfg.DryRun {
		return 0
	}
	prev, err := i.progress.Load(ctx)
	if err != nil {
		i.logger.Warn().Err(err).Msg("Failed to load import progress, starting from the first row")
		return 0
	}
	if prev == nil || prev.LastRow <= 0 {
		return 0
	}
	i.logger.Info().Int64("last_row", prev.LastRow).Msg("Resuming import")
	return prev.LastRow
}

func (i *Importer) update(fn func(s *ImportStats)) {
	i.mu.Lock()
	fn(i.stats)
	i.mu.Unlock()
}

func (i *Importer) countRows(result string, n int, fn func(s *ImportStats)) {
	if n == 0 {
		return
	}
	metrics.ImportRowsTotal.WithLabelValues(result).Add(float64(n))
	i.update(fn)
}

// Stop cancels a running import. Progress of committed batches is kept.
func (i *Importer) Stop() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.running {
		return ErrNoImportRunning
	}
	i.stopped = true
	i.cancel()
	return nil
}

// Stats returns a copy of the current or last run's statistics.
func (i *Importer) Stats() *ImportStats {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.stats == nil {
		return &ImportStats{}
	}
	s := *i.stats
	return &s
}

// IsRunning reports whether an import is in progress.
func (i *Importer) IsRunning() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.running
}
