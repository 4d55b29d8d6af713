// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package database

import (
	"context"
	"fmt"
)

// schemaStatements create every table. They are idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS movies (
		tmdb_id BIGINT PRIMARY KEY,
		title VARCHAR NOT NULL,
		original_title VARCHAR,
		overview VARCHAR,
		release_date DATE,
		runtime INTEGER,
		budget BIGINT,
		revenue BIGINT,
		poster_path VARCHAR,
		backdrop_path VARCHAR,
		imdb_id VARCHAR,
		original_language VARCHAR,
		popularity DOUBLE,
		vote_average DOUBLE,
		vote_count INTEGER,
		status VARCHAR,
		tagline VARCHAR,
		homepage VARCHAR,
		adult BOOLEAN DEFAULT false,
		created_at TIMESTAMP DEFAULT current_timestamp,
		updated_at TIMESTAMP DEFAULT current_timestamp
	)`,

	// Lookup tables
	`CREATE TABLE IF NOT EXISTS genres (
		tmdb_id BIGINT PRIMARY KEY,
		name VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS keywords (
		tmdb_id BIGINT PRIMARY KEY,
		name VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS production_companies (
		tmdb_id BIGINT PRIMARY KEY,
		name VARCHAR NOT NULL,
		logo_path VARCHAR,
		origin_country VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS countries (
		iso_3166_1 VARCHAR PRIMARY KEY,
		name VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS languages (
		iso_639_1 VARCHAR PRIMARY KEY,
		name VARCHAR,
		english_name VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS collections (
		tmdb_id BIGINT PRIMARY KEY,
		name VARCHAR NOT NULL,
		poster_path VARCHAR,
		backdrop_path VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS people (
		tmdb_id BIGINT PRIMARY KEY,
		name VARCHAR NOT NULL,
		profile_path VARCHAR,
		popularity DOUBLE,
		gender INTEGER,
		known_for_department VARCHAR,
		created_at TIMESTAMP DEFAULT current_timestamp
	)`,

	// Link tables
	`CREATE TABLE IF NOT EXISTS movie_genres (
		movie_id BIGINT NOT NULL,
		genre_id BIGINT NOT NULL,
		ordinal INTEGER NOT NULL,
		PRIMARY KEY (movie_id, genre_id)
	)`,
	`CREATE TABLE IF NOT EXISTS movie_keywords (
		movie_id BIGINT NOT NULL,
		keyword_id BIGINT NOT NULL,
		ordinal INTEGER NOT NULL,
		PRIMARY KEY (movie_id, keyword_id)
	)`,
	`CREATE TABLE IF NOT EXISTS movie_companies (
		movie_id BIGINT NOT NULL,
		company_id BIGINT NOT NULL,
		PRIMARY KEY (movie_id, company_id)
	)`,
	`CREATE TABLE IF NOT EXISTS movie_countries (
		movie_id BIGINT NOT NULL,
		country_iso VARCHAR NOT NULL,
		PRIMARY KEY (movie_id, country_iso)
	)`,
	`CREATE TABLE IF NOT EXISTS movie_languages (
		movie_id BIGINT NOT NULL,
		language_iso VARCHAR NOT NULL,
		PRIMARY KEY (movie_id, language_iso)
	)`,
	`CREATE TABLE IF NOT EXISTS movie_collections (
		movie_id BIGINT NOT NULL,
		collection_id BIGINT NOT NULL,
		PRIMARY KEY (movie_id, collection_id)
	)`,

	// Credits and media
	`CREATE TABLE IF NOT EXISTS movie_cast (
		movie_id BIGINT NOT NULL,
		person_id BIGINT NOT NULL,
		character_name VARCHAR,
		cast_order INTEGER NOT NULL,
		PRIMARY KEY (movie_id, person_id, cast_order)
	)`,
	`CREATE TABLE IF NOT EXISTS movie_crew (
		movie_id BIGINT NOT NULL,
		person_id BIGINT NOT NULL,
		job VARCHAR NOT NULL,
		department VARCHAR,
		PRIMARY KEY (movie_id, person_id, job)
	)`,
	`CREATE TABLE IF NOT EXISTS movie_videos (
		movie_id BIGINT NOT NULL,
		video_key VARCHAR NOT NULL,
		name VARCHAR,
		site VARCHAR,
		video_type VARCHAR,
		official BOOLEAN DEFAULT false,
		PRIMARY KEY (movie_id, video_key)
	)`,
	`CREATE TABLE IF NOT EXISTS movie_images (
		movie_id BIGINT NOT NULL,
		file_path VARCHAR NOT NULL,
		image_type VARCHAR NOT NULL,
		language VARCHAR,
		vote_average DOUBLE,
		vote_count INTEGER,
		width INTEGER,
		height INTEGER,
		PRIMARY KEY (movie_id, file_path)
	)`,

	// CSV name lists
	`CREATE TABLE IF NOT EXISTS movie_genre_names (
		movie_id BIGINT NOT NULL,
		ordinal INTEGER NOT NULL,
		name VARCHAR NOT NULL,
		PRIMARY KEY (movie_id, ordinal)
	)`,
	`CREATE TABLE IF NOT EXISTS movie_keyword_names (
		movie_id BIGINT NOT NULL,
		ordinal INTEGER NOT NULL,
		name VARCHAR NOT NULL,
		PRIMARY KEY (movie_id, ordinal)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_movies_popularity ON movies(popularity)`,
}

func (db *DB) createSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
