// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package models

import (
	"time"
)

// APIResponse is the envelope for every HTTP API response.
//
// Status is "success" with Data populated, or "error" with Error populated.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"query": {...}, "results": [...]},
//	  "metadata": {
//	    "timestamp": "2026-03-01T12:00:00Z",
//	    "query_time_ms": 12
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "NOT_FOUND",
//	    "message": "movie 42 not found"
//	  },
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is a structured error.
//
// Codes in use:
//   - VALIDATION_ERROR: invalid path or query parameter
//   - NOT_FOUND: movie does not exist
//   - DATABASE_ERROR: catalog query failed
//   - RANKING_ERROR: the similarity ranker rejected the input
//   - RATE_LIMIT_EXCEEDED: too many requests
//   - NOT_READY: readiness probe failed
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is returned by GET /api/v1/health.
type HealthStatus struct {
	Status     string `json:"status"`
	Database   string `json:"database"`
	MovieCount int64  `json:"movie_count"`
	Version    string `json:"version,omitempty"`
	Uptime     string `json:"uptime"`
}

// SimilarMoviesResponse is returned by GET /api/v1/movies/{id}/similar.
type SimilarMoviesResponse struct {
	Query      CatalogMovie    `json:"query"`
	K          int             `json:"k"`
	Candidates int             `json:"candidates"`
	Results    []SimilarResult `json:"results"`
}

// CatalogMovie is the API view of a rankable movie.
type CatalogMovie struct {
	TMDBID           int64    `json:"tmdb_id"`
	Title            string   `json:"title"`
	Overview         string   `json:"overview,omitempty"`
	Genres           []string `json:"genres"`
	Keywords         []string `json:"keywords"`
	OriginalLanguage string   `json:"original_language,omitempty"`
}

// SimilarResult is one ranked neighbour.
type SimilarResult struct {
	Movie CatalogMovie `json:"movie"`
	Score float64      `json:"score"`
}
