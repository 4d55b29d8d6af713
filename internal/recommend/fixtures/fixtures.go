// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

// Package fixtures embeds the sample catalog and the similarity scenarios
// used by cmd/simulate and the recommend tests.
package fixtures

import (
	_ "embed"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinefeel/internal/recommend"
)

//go:embed sample_movies.json
var sampleMovies []byte

//go:embed scenarios.json
var scenarios []byte

// Movies returns the 20 sample movies.
func Movies() ([]recommend.Movie, error) {
	var movies []recommend.Movie
	if err := json.Unmarshal(sampleMovies, &movies); err != nil {
		return nil, fmt.Errorf("decode sample movies: %w", err)
	}
	return movies, nil
}

// Scenarios returns the expected-neighbour scenarios.
func Scenarios() ([]recommend.Scenario, error) {
	var out []recommend.Scenario
	if err := json.Unmarshal(scenarios, &out); err != nil {
		return nil, fmt.Errorf("decode scenarios: %w", err)
	}
	return out, nil
}
