// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

/*
Package models defines the records shared by the ingestion pipelines, the
DuckDB store and the HTTP API.

Catalog Models:
  - Movie: one row of the movies table (CSV import and TMDB sync)
  - MovieDetail: a movie with genres, keywords, companies, countries,
    languages, collection, cast, crew, videos and images

API Models:
  - APIResponse: standard response envelope (status, data, metadata, error)
  - APIError: machine-readable error code plus message
  - HealthStatus, SimilarMoviesResponse: endpoint payloads

The package has no dependencies on other internal packages.
*/
package models
