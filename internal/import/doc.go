// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

// Package movieimport loads the TMDB movie dataset CSV into the catalog.
//
// Columns are located by header name, so column order does not matter and
// unknown columns are ignored. Field parsing is tolerant: numbers that fail to
// parse become zero, dates other than YYYY-MM-DD become NULL, and only rows
// without a usable id are rejected.
//
// # Flow
//
//	CSV file
//	   ↓
//	CSVReader (header mapping, row numbering)
//	   ↓
//	Importer (skip existing ids and in-file duplicates, batch)
//	   ↓
//	database.InsertMovies (one transaction per batch, row-by-row fallback)
//
// The genres and keywords columns hold comma-separated names without TMDB
// ids. They are stored as ordered name lists so that imported movies can be
// ranked before the TMDB sync backfills the linked tables.
//
// # Progress Tracking
//
// After each committed batch the number of consumed data rows is saved through
// a ProgressTracker (BadgerDB or in-memory). A restarted import skips that many
// rows. Progress is cleared when an import finishes.
//
//nolint:revive // package name differs from directory to avoid the import keyword
package movieimport
