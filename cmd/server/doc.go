// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

/*
Command server runs the CineFeel catalog service.

Startup order:

 1. Configuration (Koanf v2: defaults, config.yaml, environment)
 2. Logging (zerolog)
 3. DuckDB catalog store
 4. Ranker (feature hashing similarity)
 5. Ingest services: TMDB sync (SYNC_ENABLED) and CSV import (IMPORT_ENABLED)
 6. HTTP API
 7. Supervisor tree, until SIGINT or SIGTERM

Import progress and the backfill run log are kept in BadgerDB directories
(IMPORT_PROGRESS_PATH, SYNC_RUN_LOG_PATH). When both point at the same
directory a single store is shared. An empty path keeps that state in memory.

Examples:

	# Serve an existing catalog
	DUCKDB_PATH=./cinefeel.duckdb ./server

	# Load the Kaggle dataset once, then serve
	IMPORT_ENABLED=true IMPORT_AUTO_START=true \
	IMPORT_CSV_PATH=./TMDB_movie_dataset_v11.csv ./server

	# Keep the catalog fresh from TMDB
	SYNC_ENABLED=true TMDB_ACCESS_TOKEN=... SYNC_PAGES=50 ./server
*/
package main
