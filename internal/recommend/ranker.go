// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/cinefeel/internal/metrics"
)

// Ranker scores candidate movies against a query movie.
// It holds no per-call state and is safe for concurrent use.
type Ranker struct {
	config    *Config
	extractor *FeatureExtractor
	embedder  *HashEmbedder
	logger    zerolog.Logger
}

// NewRanker creates a ranker. A nil cfg uses DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRanker(cfg *Config, logger zerolog.Logger) (*Ranker, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Ranker{
		config:    cfg,
		extractor: NewFeatureExtractor(cfg.Features),
		embedder:  NewHashEmbedder(cfg.Embedder),
		logger:    logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Embed extracts and embeds a single movie.
func (r *Ranker) Embed(m *Movie) Vector {
	return r.embedder.Embed(r.extractor.Extract(m))
}

// DefaultK returns the k used when callers pass k <= 0.
func (r *Ranker) DefaultK() int {
	return r.config.DefaultK
}

// Similar ranks candidates against query with the default k.
func (r *Ranker) Similar(ctx context.Context, query Movie, candidates []Movie) ([]ScoredMovie, error) {
	return r.Rank(ctx, query, candidates, r.config.DefaultK)
}

// Rank returns up to k candidates ordered by descending similarity to query.
// Candidates that are the query itself are dropped. Equal scores keep their
// input order. k <= 0 uses the default k.
func (r *Ranker) Rank(ctx context.Context, query Movie, candidates []Movie, k int) ([]ScoredMovie, error) {
	start := time.Now()

	if err := validateRecords(&query, candidates); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = r.config.DefaultK
	}

	pool := make([]Movie, 0, len(candidates))
	for i := range candidates {
		if !sameMovie(&query, &candidates[i]) {
			pool = append(pool, candidates[i])
		}
	}
	if len(pool) == 0 {
		return []ScoredMovie{}, nil
	}

	queryVec := r.Embed(&query)

	scored, err := r.scoreCandidates(ctx, queryVec, pool)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > k {
		scored = scored[:k]
	}

	elapsed := time.Since(start)
	metrics.RecordRank(len(pool), elapsed)
	r.logger.Debug().
		Int64("query_id", query.ID).
		Str("query_title", query.Title).
		Int("candidates", len(pool)).
		Int("k", k).
		Dur("duration", elapsed).
		Msg("Ranked candidates")

	return scored, nil
}

// scoreCandidates embeds every candidate concurrently. Results are written by
// index so the output order matches pool.
func (r *Ranker) scoreCandidates(ctx context.Context, queryVec Vector, pool []Movie) ([]ScoredMovie, error) {
	scored := make([]ScoredMovie, len(pool))

	g, gctx := errgroup.WithContext(ctx)
	if r.config.Workers > 0 {
		g.SetLimit(r.config.Workers)
	}

	for i := range pool {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scored[i] = ScoredMovie{
				Movie: pool[i],
				Score: Dot(queryVec, r.Embed(&pool[i])),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scored, nil
}

func validateRecords(query *Movie, candidates []Movie) error {
	if !validTitle(query) {
		return fmt.Errorf("%w: query (id %d) has an empty title", ErrInvalidRecord, query.ID)
	}
	for i := range candidates {
		if !validTitle(&candidates[i]) {
			return fmt.Errorf("%w: candidate %d (id %d) has an empty title", ErrInvalidRecord, i, candidates[i].ID)
		}
	}
	return nil
}
