// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

/*
Package sync fills the catalog from the TMDB API.

A sync pass has two stages:

 1. FetchPopular walks the /movie/popular pages. Pages are processed by a
    bounded pool (SYNC_PAGE_WORKERS); within a page every movie's details are
    fetched by a second pool (SYNC_DETAIL_WORKERS) and the page is saved in one
    call to Store.SaveDetails. Movies already in the catalog are skipped.

 2. Backfill fetches details for catalog movies that have not been processed
    yet, typically rows loaded by the CSV import, and stores only the related
    tables (genres, keywords, credits, media). Work is split into batches of
    SYNC_BATCH_SIZE; after each batch the processed ids are written to the
    RunLog, so an interrupted backfill resumes where it stopped.

Run executes both stages at start-up and then every SYNC_INTERVAL until its
context is canceled. Only one pass runs at a time; an overlapping call gets
ErrSyncInProgress.

A 404 from TMDB skips the movie. Other per-movie failures are counted and
logged without failing the pass.
*/
package sync
