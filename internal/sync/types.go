// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package sync

import "time"

// FetchStats summarizes a FetchPopular pass.
type FetchStats struct {
	Pages       int `json:"pages"`
	PagesFailed int `json:"pages_failed"`

	// Listed is the number of movies found on the fetched pages.
	Listed int `json:"listed"`

	NotFound    int `json:"not_found"`
	FetchErrors int `json:"fetch_errors"`

	Saved   int `json:"saved"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`

	Duration time.Duration `json:"duration"`
}

// MoviesPerSecond returns the save rate of the pass.
func (s FetchStats) MoviesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Saved) / s.Duration.Seconds()
}

// BackfillStats summarizes a Backfill pass.
type BackfillStats struct {
	// Catalog is the number of movies in the catalog.
	Catalog int `json:"catalog"`

	// AlreadyDone is the number of catalog movies found in the run log.
	AlreadyDone int `json:"already_done"`

	Batches       int `json:"batches"`
	BatchesFailed int `json:"batches_failed"`

	Updated     int `json:"updated"`
	NotFound    int `json:"not_found"`
	FetchErrors int `json:"fetch_errors"`

	Duration time.Duration `json:"duration"`
}

// Remaining returns the number of movies the pass set out to process.
func (s BackfillStats) Remaining() int {
	return s.Catalog - s.AlreadyDone
}
