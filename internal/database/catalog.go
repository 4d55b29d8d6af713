// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/cinefeel/internal/recommend"
)

// nameSeparator joins aggregated names; it cannot appear in TMDB names.
const nameSeparator = "\x1f"

// catalogSelect loads the ranking fields of a movie. Genre and keyword names
// come from the TMDB link tables when present, otherwise from the CSV name
// lists, in their stored order.
const catalogSelect = `SELECT
		m.tmdb_id,
		m.title,
		COALESCE(m.overview, ''),
		COALESCE(m.original_language, ''),
		COALESCE(
			(SELECT string_agg(g.name, chr(31) ORDER BY mg.ordinal)
			 FROM movie_genres mg JOIN genres g ON g.tmdb_id = mg.genre_id
			 WHERE mg.movie_id = m.tmdb_id),
			(SELECT string_agg(n.name, chr(31) ORDER BY n.ordinal)
			 FROM movie_genre_names n WHERE n.movie_id = m.tmdb_id),
			''
		) AS genres,
		COALESCE(
			(SELECT string_agg(k.name, chr(31) ORDER BY mk.ordinal)
			 FROM movie_keywords mk JOIN keywords k ON k.tmdb_id = mk.keyword_id
			 WHERE mk.movie_id = m.tmdb_id),
			(SELECT string_agg(n.name, chr(31) ORDER BY n.ordinal)
			 FROM movie_keyword_names n WHERE n.movie_id = m.tmdb_id),
			''
		) AS keywords
	FROM movies m`

// CatalogMovies returns rankable movies, most popular first. Movies with a
// blank title are left out. limit <= 0 returns the whole catalog.
func (db *DB) CatalogMovies(ctx context.Context, limit int) (movies []recommend.Movie, err error) {
	start := time.Now()
	defer func() { observe("catalog_movies", start, err) }()

	query := catalogSelect + `
	WHERE trim(m.title) <> ''
	ORDER BY m.popularity DESC NULLS LAST, m.tmdb_id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer closeWithLog(rows, "rows")

	movies = []recommend.Movie{}
	for rows.Next() {
		m, err := scanCatalogMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog: %w", err)
	}
	return movies, nil
}

// MovieByID returns one catalog movie or ErrMovieNotFound.
func (db *DB) MovieByID(ctx context.Context, id int64) (movie *recommend.Movie, err error) {
	start := time.Now()
	defer func() {
		if errors.Is(err, ErrMovieNotFound) {
			observe("movie_by_id", start, nil)
			return
		}
		observe("movie_by_id", start, err)
	}()

	row := db.conn.QueryRowContext(ctx, catalogSelect+` WHERE m.tmdb_id = ?`, id)
	m, err := scanCatalogMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrMovieNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCatalogMovie(row rowScanner) (recommend.Movie, error) {
	var (
		m                recommend.Movie
		genres, keywords string
	)
	if err := row.Scan(&m.ID, &m.Title, &m.Overview, &m.OriginalLanguage, &genres, &keywords); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return m, err
		}
		return m, fmt.Errorf("scan catalog movie: %w", err)
	}
	m.Genres = splitNames(genres)
	m.Keywords = splitNames(keywords)
	return m, nil
}

func splitNames(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, nameSeparator)
}
