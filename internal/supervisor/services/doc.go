// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

// Package services adapts CineFeel components to suture.Service.
//
// Each wrapper's Serve blocks until its context is canceled and returns
// ctx.Err() on a clean shutdown. Any other error is a failure and makes the
// supervisor restart the service:
//
//   - HTTPServerService: *http.Server with graceful Shutdown
//   - SyncService: sync.Manager.Run (popular fetch + backfill on an interval)
//   - ImportService: one CSV import at start when auto-start is set
package services
