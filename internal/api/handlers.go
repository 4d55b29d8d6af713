// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package api

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinefeel/internal/cache"
	"github.com/tomtom215/cinefeel/internal/config"
	"github.com/tomtom215/cinefeel/internal/models"
	"github.com/tomtom215/cinefeel/internal/recommend"
)

// requestTimeout bounds the database and ranking work of one request.
const requestTimeout = 10 * time.Second

// Store is the catalog access the handlers need. *database.DB implements it.
type Store interface {
	Ping(ctx context.Context) error
	CountMovies(ctx context.Context) (int64, error)
	MovieByID(ctx context.Context, id int64) (*recommend.Movie, error)
	CatalogMovies(ctx context.Context, limit int) ([]recommend.Movie, error)
}

// Ranker ranks catalog movies against a query movie.
type Ranker interface {
	Rank(ctx context.Context, query recommend.Movie, candidates []recommend.Movie, k int) ([]recommend.ScoredMovie, error)
}

// Handler holds the dependencies of the API handlers.
//
// Handler methods are split across files:
//   - handlers_health.go: health and probes
//   - handlers_movies.go: movie lookup and similarity
type Handler struct {
	store     Store
	ranker    Ranker
	cfg       *config.RecommendConfig
	similar   *cache.LRU[models.SimilarMoviesResponse] // nil when RECOMMEND_CACHE_TTL is 0
	version   string
	logger    zerolog.Logger
	startTime time.Time
}

// NewHandler creates the API handler.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHandler(store Store, ranker Ranker, cfg *config.RecommendConfig, version string, logger zerolog.Logger) *Handler {
	h := &Handler{
		store:     store,
		ranker:    ranker,
		cfg:       cfg,
		version:   version,
		logger:    logger.With().Str("component", "api").Logger(),
		startTime: time.Now(),
	}
	if cfg.CacheTTL > 0 {
		h.similar = cache.NewLRU[models.SimilarMoviesResponse](cfg.CacheSize, cfg.CacheTTL)
	}
	return h
}

func similarCacheKey(id int64, k, catalogLimit int) string {
	return fmt.Sprintf("%d:%d:%d", id, k, catalogLimit)
}
