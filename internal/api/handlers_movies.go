// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cinefeel/internal/database"
	"github.com/tomtom215/cinefeel/internal/models"
	"github.com/tomtom215/cinefeel/internal/recommend"
	"github.com/tomtom215/cinefeel/internal/validation"
)

// Movie returns one catalog movie.
func (h *Handler) Movie(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := parseMovieID(w, r)
	if !ok {
		return
	}
	if apiErr := validateRequest(&validation.MovieRequest{MovieID: id}); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	movie, ok := h.lookupMovie(ctx, w, id)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   toCatalogMovie(movie),
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// SimilarMovies ranks the catalog against one movie.
//
// Query parameters:
//   - k: number of results, 1..100 and at most RECOMMEND_MAX_K (default RECOMMEND_DEFAULT_K)
func (h *Handler) SimilarMovies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := parseMovieID(w, r)
	if !ok {
		return
	}

	k := h.cfg.DefaultK
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "k must be an integer", nil)
			return
		}
		k = parsed
	}

	req := validation.SimilarMoviesRequest{MovieID: id, K: k}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}
	if h.cfg.MaxK > 0 && req.K > h.cfg.MaxK {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			fmt.Sprintf("k must be at most %d", h.cfg.MaxK), nil)
		return
	}

	cacheKey := similarCacheKey(req.MovieID, req.K, h.cfg.CatalogLimit)
	if h.similar != nil {
		if cached, hit := h.similar.Get(cacheKey); hit {
			respondJSON(w, http.StatusOK, &models.APIResponse{
				Status: "success",
				Data:   cached,
				Metadata: models.Metadata{
					Timestamp:   time.Now(),
					QueryTimeMS: time.Since(start).Milliseconds(),
					Cached:      true,
				},
			})
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	query, ok := h.lookupMovie(ctx, w, req.MovieID)
	if !ok {
		return
	}

	catalog, err := h.store.CatalogMovies(ctx, h.cfg.CatalogLimit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load catalog", err)
		return
	}

	ranked, err := h.ranker.Rank(ctx, *query, catalog, req.K)
	if err != nil {
		if errors.Is(err, recommend.ErrInvalidRecord) {
			respondError(w, http.StatusUnprocessableEntity, "RANKING_ERROR", err.Error(), nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "RANKING_ERROR", "Failed to rank movies", err)
		return
	}

	candidates := 0
	for i := range catalog {
		if catalog[i].ID != query.ID {
			candidates++
		}
	}

	results := make([]models.SimilarResult, len(ranked))
	for i := range ranked {
		results[i] = models.SimilarResult{
			Movie: toCatalogMovie(&ranked[i].Movie),
			Score: ranked[i].Score,
		}
	}

	resp := models.SimilarMoviesResponse{
		Query:      toCatalogMovie(query),
		K:          req.K,
		Candidates: candidates,
		Results:    results,
	}
	if h.similar != nil {
		h.similar.Add(cacheKey, resp)
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   resp,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// lookupMovie loads a movie and writes the error response when it fails.
func (h *Handler) lookupMovie(ctx context.Context, w http.ResponseWriter, id int64) (*recommend.Movie, bool) {
	movie, err := h.store.MovieByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrMovieNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("movie %d not found", id), nil)
			return nil, false
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load movie", err)
		return nil, false
	}
	return movie, true
}

// parseMovieID reads the {id} path parameter and writes a 400 when it is not
// an integer.
func parseMovieID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id must be an integer", nil)
		return 0, false
	}
	return id, true
}

func toCatalogMovie(m *recommend.Movie) models.CatalogMovie {
	genres, keywords := m.Genres, m.Keywords
	if genres == nil {
		genres = []string{}
	}
	if keywords == nil {
		keywords = []string{}
	}
	return models.CatalogMovie{
		TMDBID:           m.ID,
		Title:            m.Title,
		Overview:         m.Overview,
		Genres:           genres,
		Keywords:         keywords,
		OriginalLanguage: m.OriginalLanguage,
	}
}
