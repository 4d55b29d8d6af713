// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

/*
Package database is the DuckDB catalog store.

The store is written by the CSV import (InsertMovies) and by the TMDB sync
(SaveDetails, SaveRelated), and read by the similarity endpoints
(CatalogMovies, MovieByID).

Schema:
  - movies: one row per TMDB id
  - genres, keywords, production_companies, countries, languages,
    collections, people: lookup tables keyed by TMDB id or ISO code
  - movie_genres, movie_keywords, movie_companies, movie_countries,
    movie_languages, movie_collections: link tables; genre and keyword
    links keep their TMDB order in a position column
  - movie_cast, movie_crew, movie_videos, movie_images: per-movie credits
    and media
  - movie_genre_names, movie_keyword_names: ordered name lists for movies
    that only came from the CSV dataset

All inserts use ON CONFLICT DO NOTHING, so every write is idempotent and
re-running an import or a backfill never duplicates rows. Query timings
are exported as cinefeel_db_query_duration_seconds.
*/
package database
