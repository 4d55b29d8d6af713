// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package movieimport

import "time"

// ImportStats holds statistics about an import run.
type ImportStats struct {
	// TotalRows is the number of data rows in the file.
	TotalRows int64 `json:"total_rows"`

	// Processed is the number of rows read by this run, including skipped ones.
	Processed int64 `json:"processed"`

	Imported int64 `json:"imported"`

	// Skipped counts rows already in the catalog, repeated within the file,
	// or without a usable id.
	Skipped int64 `json:"skipped"`

	// Errors counts rows that could not be parsed or inserted.
	Errors int64 `json:"errors"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	// LastRow is the last data row covered by a committed batch.
	LastRow int64 `json:"last_row"`

	DryRun bool `json:"dry_run"`
}

// Duration returns the elapsed time of the run.
func (s *ImportStats) Duration() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// Progress returns the share of the file covered, 0-100.
func (s *ImportStats) Progress() float64 {
	if s.TotalRows == 0 {
		return 0
	}
	return float64(s.LastRow) / float64(s.TotalRows) * 100
}

// RecordsPerSecond returns the processing rate.
func (s *ImportStats) RecordsPerSecond() float64 {
	d := s.Duration().Seconds()
	if d == 0 {
		return 0
	}
	return float64(s.Processed) / d
}

// ProgressSummary is the reporting view of ImportStats.
type ProgressSummary struct {
	Status          string    `json:"status"`
	Progress        float64   `json:"progress"`
	TotalRows       int64     `json:"total_rows"`
	Processed       int64     `json:"processed"`
	Imported        int64     `json:"imported"`
	Skipped         int64     `json:"skipped"`
	Errors          int64     `json:"errors"`
	RecordsPerSec   float64   `json:"records_per_second"`
	ElapsedSeconds  float64   `json:"elapsed_seconds"`
	EstimatedRemain float64   `json:"estimated_remaining_seconds"`
	StartTime       time.Time `json:"start_time"`
	LastRow         int64     `json:"last_row"`
	DryRun          bool      `json:"dry_run"`
}

// ToSummary derives rates and a status from the stats.
func (s *ImportStats) ToSummary(running bool) *ProgressSummary {
	summary := &ProgressSummary{
		Progress:       s.Progress(),
		TotalRows:      s.TotalRows,
		Processed:      s.Processed,
		Imported:       s.Imported,
		Skipped:        s.Skipped,
		Errors:         s.Errors,
		RecordsPerSec:  s.RecordsPerSecond(),
		ElapsedSeconds: s.Duration().Seconds(),
		StartTime:      s.StartTime,
		LastRow:        s.LastRow,
		DryRun:         s.DryRun,
	}

	switch {
	case running:
		summary.Status = "running"
	case s.EndTime.IsZero():
		summary.Status = "pending"
	default:
		summary.Status = "completed"
	}

	if running && summary.RecordsPerSec > 0 && s.TotalRows > s.LastRow {
		summary.EstimatedRemain = float64(s.TotalRows-s.LastRow) / summary.RecordsPerSec
	}
	return summary
}
