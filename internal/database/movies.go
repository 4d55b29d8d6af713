// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/cinefeel/internal/models"
)

// SaveResult counts the outcome of a batch write.
type SaveResult struct {
	Saved   int `json:"saved"`
	Skipped int `json:"skipped"` // already present
	Failed  int `json:"failed"`
}

// Add accumulates other into r.
func (r *SaveResult) Add(other SaveResult) {
	r.Saved += other.Saved
	r.Skipped += other.Skipped
	r.Failed += other.Failed
}

const insertMovieSQL = `INSERT INTO movies (
		tmdb_id, title, original_title, overview, release_date,
		runtime, budget, revenue, poster_path, backdrop_path,
		imdb_id, original_language, popularity, vote_average, vote_count,
		status, tagline, homepage, adult, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT DO NOTHING`

// insertMovie inserts m and reports whether a row was written.
func insertMovie(ctx context.Context, tx *sql.Tx, m *models.Movie) (bool, error) {
	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, insertMovieSQL,
		m.TMDBID, m.Title, nullIfEmpty(m.OriginalTitle), nullIfEmpty(m.Overview), m.ReleaseDate,
		m.Runtime, m.Budget, m.Revenue, nullIfEmpty(m.PosterPath), nullIfEmpty(m.BackdropPath),
		nullIfEmpty(m.IMDbID), nullIfEmpty(m.OriginalLanguage), m.Popularity, m.VoteAverage, m.VoteCount,
		nullIfEmpty(m.Status), nullIfEmpty(m.Tagline), nullIfEmpty(m.Homepage), m.Adult, now, now,
	)
	if err != nil {
		return false, fmt.Errorf("insert movie %d: %w", m.TMDBID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for movie %d: %w", m.TMDBID, err)
	}
	if n == 0 {
		return false, nil
	}

	if err := insertNames(ctx, tx, "movie_genre_names", m.TMDBID, m.GenreNames); err != nil {
		return false, err
	}
	if err := insertNames(ctx, tx, "movie_keyword_names", m.TMDBID, m.KeywordNames); err != nil {
		return false, err
	}
	return true, nil
}

func insertNames(ctx context.Context, tx *sql.Tx, table string, movieID int64, names []string) error {
	//nolint:gosec // table is one of two constants
	query := fmt.Sprintf(`INSERT INTO %s (movie_id, ordinal, name) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`, table)
	for i, name := range names {
		if _, err := tx.ExecContext(ctx, query, movieID, i, name); err != nil {
			return fmt.Errorf("insert %s for movie %d: %w", table, movieID, err)
		}
	}
	return nil
}

// InsertMovies inserts a batch of catalog rows in one transaction. Existing
// ids are skipped. If the batch transaction fails, each movie is retried in
// its own transaction and the rows that still fail are counted and logged.
func (db *DB) InsertMovies(ctx context.Context, movies []models.Movie) (SaveResult, error) {
	var result SaveResult
	if len(movies) == 0 {
		return result, nil
	}

	start := time.Now()
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		result = SaveResult{}
		for i := range movies {
			ok, err := insertMovie(ctx, tx, &movies[i])
			if err != nil {
				return err
			}
			if ok {
				result.Saved++
			} else {
				result.Skipped++
			}
		}
		return nil
	})
	observe("insert_movies", start, err)
	if err == nil {
		return result, nil
	}
	if ctx.Err() != nil {
		return SaveResult{}, ctx.Err()
	}

	db.logger.Warn().Err(err).Int("batch_size", len(movies)).Msg("Batch insert failed, retrying row by row")
	return db.insertMoviesOneByOne(ctx, movies)
}

func (db *DB) insertMoviesOneByOne(ctx context.Context, movies []models.Movie) (SaveResult, error) {
	var result SaveResult
	for i := range movies {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		m := &movies[i]
		var written bool
		err := db.withTx(ctx, func(tx *sql.Tx) error {
			ok, err := insertMovie(ctx, tx, m)
			written = ok
			return err
		})
		switch {
		case err != nil:
			result.Failed++
			db.logger.Error().Err(err).Int64("tmdb_id", m.TMDBID).Str("title", m.Title).Msg("Failed to insert movie")
		case written:
			result.Saved++
		default:
			result.Skipped++
		}
	}
	return result, nil
}

// MovieIDs returns every catalog id in ascending order.
func (db *DB) MovieIDs(ctx context.Context) (ids []int64, err error) {
	start := time.Now()
	defer func() { observe("movie_ids", start, err) }()

	rows, err := db.conn.QueryContext(ctx, `SELECT tmdb_id FROM movies ORDER BY tmdb_id`)
	if err != nil {
		return nil, fmt.Errorf("query movie ids: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan movie id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movie ids: %w", err)
	}
	return ids, nil
}

// ExistingMovieIDs returns the set of catalog ids.
func (db *DB) ExistingMovieIDs(ctx context.Context) (map[int64]struct{}, error) {
	ids, err := db.MovieIDs(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// CountMovies returns the number of catalog movies.
func (db *DB) CountMovies(ctx context.Context) (n int64, err error) {
	start := time.Now()
	defer func() { observe("count_movies", start, err) }()

	if err = db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return n, nil
}

// nullIfEmpty maps "" to NULL.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
