// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/cinefeel/internal/logging"
	"github.com/tomtom215/cinefeel/internal/metrics"
)

// Backfill stores related data for catalog movies missing from the run log.
func (m *Manager) Backfill(ctx context.Context) (BackfillStats, error) {
	if !m.syncMu.TryLock() {
		return BackfillStats{}, ErrSyncInProgress
	}
	defer m.syncMu.Unlock()
	return m.backfill(logging.ContextWithRunID(ctx, logging.NewRunID()))
}

func (m *Manager) backfill(ctx context.Context) (stats BackfillStats, err error) {
	logger := logging.FromContext(ctx, m.logger)
	start := time.Now()
	defer func() {
		stats.Duration = time.Since(start)
		metrics.RecordSyncOperation("backfill", stats.Duration, stats.Updated, stats.NotFound, stats.FetchErrors, err)
	}()

	completed, err := m.runLog.Load(ctx)
	if err != nil {
		return stats, err
	}
	ids, err := m.store.MovieIDs(ctx)
	if err != nil {
		return stats, fmt.Errorf("list catalog ids: %w", err)
	}
	stats.Catalog = len(ids)

	todo := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := completed[id]; ok {
			stats.AlreadyDone++
			continue
		}
		todo = append(todo, id)
	}
	if len(todo) == 0 {
		logger.Info().Int("catalog", stats.Catalog).Msg("Backfill: all movies are up to date")
		return stats, nil
	}

	batchSize := max(m.cfg.BatchSize, 1)
	totalBatches := (len(todo) + batchSize - 1) / batchSize
	logger.Info().
		Int("movies", len(todo)).
		Int("batches", totalBatches).
		Int("batch_size", batchSize).
		Int("workers", m.cfg.BackfillWorkers).
		Msg("Starting backfill")

	for b := 0; b < totalBatches; b++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		lo := b * batchSize
		batch := todo[lo:min(lo+batchSize, len(todo))]
		stats.Batches++

		fr, err := m.fetchDetails(ctx, batch, m.cfg.BackfillWorkers)
		if err != nil {
			return stats, err
		}
		stats.NotFound += fr.notFound
		stats.FetchErrors += fr.errors

		if len(fr.details) > 0 {
			if err := m.store.SaveRelated(ctx, fr.details); err != nil {
				if ctx.Err() != nil {
					return stats, ctx.Err()
				}
				// Not marked completed, so the batch is retried next pass.
				stats.BatchesFailed++
				logger.Error().Err(err).Int("batch", b+1).Msg("Failed to save related data")
				continue
			}
			stats.Updated += len(fr.details)
		}

		if err := m.runLog.MarkCompleted(ctx, fr.done); err != nil {
			return stats, fmt.Errorf("save run log: %w", err)
		}
		logger.Info().
			Int("batch", b+1).
			Int("batches", totalBatches).
			Int("fetched", len(fr.details)).
			Int("size", len(batch)).
			Msg("Backfill batch done, progress saved")
	}

	logger.Info().
		Int("updated", stats.Updated).
		Int("not_found", stats.NotFound).
		Int("fetch_errors", stats.FetchErrors).
		Int("batches_failed", stats.BatchesFailed).
		Msg("Backfill completed")
	return stats, nil
}
