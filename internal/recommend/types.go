// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package recommend

import (
	"errors"
	"strings"
)

// ErrInvalidRecord is returned when a movie passed to the ranker has no title.
var ErrInvalidRecord = errors.New("invalid movie record")

// Movie is the content-bearing part of a catalog movie.
type Movie struct {
	// ID is the TMDB id. 0 means unknown, in which case identity falls back
	// to the title.
	ID int64 `json:"tmdb_id"`

	Title    string   `json:"title"`
	Overview string   `json:"overview,omitempty"`
	Genres   []string `json:"genres,omitempty"`
	Keywords []string `json:"keywords,omitempty"`

	// OriginalLanguage is only used when FeatureConfig.IncludeLanguage is set.
	OriginalLanguage string `json:"original_language,omitempty"`
}

// Vector is a dense embedding. Vectors produced by HashEmbedder have unit
// length, or are all zeros when the input had no tokens.
type Vector []float64

// ScoredMovie is a ranking result.
type ScoredMovie struct {
	Movie Movie   `json:"movie"`
	Score float64 `json:"score"`
}

// sameMovie reports whether a and b are the same catalog entry. Ids decide
// when both are known; otherwise exact titles are compared.
func sameMovie(a, b *Movie) bool {
	if a.ID != 0 && b.ID != 0 {
		return a.ID == b.ID
	}
	return a.Title == b.Title
}

func validTitle(m *Movie) bool {
	return strings.TrimSpace(m.Title) != ""
}
