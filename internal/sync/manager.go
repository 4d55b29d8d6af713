// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/cinefeel/internal/config"
	"github.com/tomtom215/cinefeel/internal/database"
	"github.com/tomtom215/cinefeel/internal/logging"
	"github.com/tomtom215/cinefeel/internal/metrics"
	"github.com/tomtom215/cinefeel/internal/models"
	"github.com/tomtom215/cinefeel/internal/tmdb"
)

// ErrSyncInProgress is returned when a pass is requested while one runs.
var ErrSyncInProgress = errors.New("sync already in progress")

// Store is the catalog the manager writes to. *database.DB implements it.
type Store interface {
	SaveDetails(ctx context.Context, details []models.MovieDetail) (database.SaveResult, error)
	SaveRelated(ctx context.Context, details []models.MovieDetail) error
	MovieIDs(ctx context.Context) ([]int64, error)
}

// Manager runs TMDB sync passes.
type Manager struct {
	api    tmdb.API
	store  Store
	runLog RunLog
	cfg    *config.SyncConfig
	logger zerolog.Logger

	syncMu sync.Mutex // held for the duration of a pass

	mu      sync.RWMutex
	lastRun time.Time
}

// NewManager creates a manager. runLog may be nil, in which case an
// in-memory run log is used.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewManager(api tmdb.API, store Store, runLog RunLog, cfg *config.SyncConfig, logger zerolog.Logger) *Manager {
	if runLog == nil {
		runLog = NewInMemoryRunLog()
	}
	return &Manager{
		api:    api,
		store:  store,
		runLog: runLog,
		cfg:    cfg,
		logger: logger.With().Str("component", "sync").Logger(),
	}
}

// Run performs a pass immediately and then every cfg.Interval until ctx is
// canceled. Failed passes are logged and retried on the next tick.
func (m *Manager) Run(ctx context.Context) error {
	if err := m.RunOnce(ctx); err != nil && ctx.Err() == nil {
		m.logger.Error().Err(err).Msg("Initial sync failed (will retry)")
	}

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := m.RunOnce(ctx); err != nil && ctx.Err() == nil {
				m.logger.Error().Err(err).Msg("Sync failed")
			}
		}
	}
}

// RunOnce runs FetchPopular and, when enabled, Backfill.
func (m *Manager) RunOnce(ctx context.Context) error {
	if !m.syncMu.TryLock() {
		return ErrSyncInProgress
	}
	defer m.syncMu.Unlock()

	ctx = logging.ContextWithRunID(ctx, logging.NewRunID())

	if _, err := m.fetchPopular(ctx, m.cfg.StartPage, m.cfg.Pages); err != nil {
		return fmt.Errorf("fetch popular: %w", err)
	}
	if m.cfg.BackfillEnabled {
		if _, err := m.backfill(ctx); err != nil {
			return fmt.Errorf("backfill: %w", err)
		}
	}

	m.mu.Lock()
	m.lastRun = time.Now()
	m.mu.Unlock()
	return nil
}

// LastRun returns when the last successful pass finished.
func (m *Manager) LastRun() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastRun
}

// FetchPopular fetches pages startPage..startPage+pages-1 of popular movies
// and saves the movies that are not yet in the catalog.
func (m *Manager) FetchPopular(ctx context.Context, startPage, pages int) (FetchStats, error) {
	if !m.syncMu.TryLock() {
		return FetchStats{}, ErrSyncInProgress
	}
	defer m.syncMu.Unlock()
	return m.fetchPopular(logging.ContextWithRunID(ctx, logging.NewRunID()), startPage, pages)
}

func (m *Manager) fetchPopular(ctx context.Context, startPage, pages int) (FetchStats, error) {
	logger := logging.FromContext(ctx, m.logger)
	start := time.Now()

	var (
		statsMu sync.Mutex
		stats   FetchStats
	)

	logger.Info().
		Int("start_page", startPage).
		Int("pages", pages).
		Int("page_workers", m.cfg.PageWorkers).
		Msg("Fetching popular movies")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(m.cfg.PageWorkers, 1))
	for page := startPage; page < startPage+pages; page++ {
		g.Go(func() error {
			ps, err := m.processPage(gctx, page)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.Error().Err(err).Int("page", page).Msg("Failed to process page")
				ps.PagesFailed++
			}
			statsMu.Lock()
			addFetchStats(&stats, ps)
			statsMu.Unlock()
			return nil
		})
	}
	err := g.Wait()

	stats.Duration = time.Since(start)
	if err == nil && pages > 0 && stats.PagesFailed == stats.Pages {
		err = fmt.Errorf("all %d pages failed", pages)
	}
	metrics.RecordSyncOperation("fetch_popular", stats.Duration, stats.Saved, stats.Skipped, stats.Failed, err)

	logger.Info().
		Dur("duration", stats.Duration).
		Int("pages", stats.Pages).
		Int("pages_failed", stats.PagesFailed).
		Int("saved", stats.Saved).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Int("not_found", stats.NotFound).
		Float64("movies_per_second", stats.MoviesPerSecond()).
		Msg("Popular fetch completed")

	return stats, err
}

// processPage fetches one popular page, its details, and saves them.
func (m *Manager) processPage(ctx context.Context, page int) (FetchStats, error) {
	stats := FetchStats{Pages: 1}
	logger := logging.FromContext(ctx, m.logger)

	list, err := m.api.PopularMovies(ctx, page)
	if err != nil {
		return stats, fmt.Errorf("fetch page %d: %w", page, err)
	}
	stats.Listed = len(list.Results)
	if len(list.Results) == 0 {
		return stats, nil
	}

	ids := make([]int64, len(list.Results))
	for i, r := range list.Results {
		ids[i] = r.ID
	}

	fr, err := m.fetchDetails(ctx, ids, m.cfg.DetailWorkers)
	if err != nil {
		return stats, err
	}
	stats.NotFound = fr.notFound
	stats.FetchErrors = fr.errors
	logger.Debug().
		Int("page", page).
		Int("fetched", len(fr.details)).
		Int("listed", len(ids)).
		Msg("Fetched page details")

	if len(fr.details) == 0 {
		return stats, nil
	}
	res, err := m.store.SaveDetails(ctx, fr.details)
	if err != nil {
		stats.Failed = len(fr.details)
		return stats, fmt.Errorf("save page %d: %w", page, err)
	}
	stats.Saved = res.Saved
	stats.Skipped = res.Skipped
	stats.Failed = res.Failed

	logger.Info().
		Int("page", page).
		Int("saved", res.Saved).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Msg("Page done")
	return stats, nil
}

func addFetchStats(dst *FetchStats, src FetchStats) {
	dst.Pages += src.Pages
	dst.PagesFailed += src.PagesFailed
	dst.Listed += src.Listed
	dst.NotFound += src.NotFound
	dst.FetchErrors += src.FetchErrors
	dst.Saved += src.Saved
	dst.Skipped += src.Skipped
	dst.Failed += src.Failed
}

// fetchResult holds the details fetched for a set of ids, in input order.
type fetchResult struct {
	details []models.MovieDetail

	// done lists ids that need no retry: fetched or gone from TMDB.
	done     []int64
	notFound int
	errors   int
}

// fetchDetails fetches details for ids with at most workers requests in
// flight. Per-movie failures are counted, not returned; only cancellation
// fails the call.
func (m *Manager) fetchDetails(ctx context.Context, ids []int64, workers int) (fetchResult, error) {
	logger := logging.FromContext(ctx, m.logger)

	type outcome struct {
		detail   *models.MovieDetail
		notFound bool
		err      error
	}
	outcomes := make([]outcome, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, id := range ids {
		g.Go(func() error {
			d, err := m.api.MovieDetails(gctx, id)
			switch {
			case err == nil:
				md := d.ToModel()
				outcomes[i].detail = &md
			case errors.Is(err, tmdb.ErrNotFound):
				logger.Warn().Int64("tmdb_id", id).Msg("Movie not found (404)")
				outcomes[i].notFound = true
			case gctx.Err() != nil:
				return gctx.Err()
			default:
				logger.Error().Err(err).Int64("tmdb_id", id).Msg("Failed to fetch movie details")
				outcomes[i].err = err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fetchResult{}, err
	}

	var fr fetchResult
	for i, o := range outcomes {
		switch {
		case o.detail != nil:
			fr.details = append(fr.details, *o.detail)
			fr.done = append(fr.done, ids[i])
		case o.notFound:
			fr.notFound++
			fr.done = append(fr.done, ids[i])
		default:
			fr.errors++
		}
	}
	return fr, nil
}
