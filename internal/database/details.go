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

// SaveDetails stores TMDB detail records. Movies already in the catalog are
// skipped together with their related data; new movies are written with every
// related table. The batch shares one transaction. If it fails, each movie is
// retried in its own transaction and rows that still fail are counted.
func (db *DB) SaveDetails(ctx context.Context, details []models.MovieDetail) (SaveResult, error) {
	var result SaveResult
	if len(details) == 0 {
		return result, nil
	}

	start := time.Now()
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		result = SaveResult{}
		for i := range details {
			saved, err := saveDetail(ctx, tx, &details[i])
			if err != nil {
				return err
			}
			if saved {
				result.Saved++
			} else {
				result.Skipped++
			}
		}
		return nil
	})
	observe("save_details", start, err)
	if err == nil {
		return result, nil
	}
	if ctx.Err() != nil {
		return SaveResult{}, ctx.Err()
	}

	db.logger.Warn().Err(err).Int("batch_size", len(details)).Msg("Batch save failed, retrying movie by movie")

	result = SaveResult{}
	for i := range details {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		d := &details[i]
		var saved bool
		err := db.withTx(ctx, func(tx *sql.Tx) error {
			var err error
			saved, err = saveDetail(ctx, tx, d)
			return err
		})
		switch {
		case err != nil:
			result.Failed++
			db.logger.Error().Err(err).Int64("tmdb_id", d.TMDBID).Str("title", d.Title).Msg("Failed to save movie details")
		case saved:
			result.Saved++
		default:
			result.Skipped++
		}
	}
	return result, nil
}

func saveDetail(ctx context.Context, tx *sql.Tx, d *models.MovieDetail) (bool, error) {
	ok, err := insertMovie(ctx, tx, &d.Movie)
	if err != nil || !ok {
		return false, err
	}
	if err := saveRelated(ctx, tx, d); err != nil {
		return false, err
	}
	return true, nil
}

// SaveRelated stores the related tables of movies that are already in the
// catalog. Rows that exist are left alone, so a batch can be replayed.
func (db *DB) SaveRelated(ctx context.Context, details []models.MovieDetail) error {
	if len(details) == 0 {
		return nil
	}
	start := time.Now()
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		for i := range details {
			if err := saveRelated(ctx, tx, &details[i]); err != nil {
				return err
			}
		}
		return nil
	})
	observe("save_related", start, err)
	return err
}

// relatedWriter executes inserts for one movie and keeps the first error.
type relatedWriter struct {
	ctx     context.Context
	tx      *sql.Tx
	movieID int64
	err     error
}

func (w *relatedWriter) exec(what, query string, args ...any) {
	if w.err != nil {
		return
	}
	if _, err := w.tx.ExecContext(w.ctx, query, args...); err != nil {
		w.err = fmt.Errorf("insert %s for movie %d: %w", what, w.movieID, err)
	}
}

func saveRelated(ctx context.Context, tx *sql.Tx, d *models.MovieDetail) error {
	w := &relatedWriter{ctx: ctx, tx: tx, movieID: d.TMDBID}
	id := d.TMDBID

	for i, g := range d.Genres {
		w.exec("genre", `INSERT INTO genres (tmdb_id, name) VALUES (?, ?) ON CONFLICT DO NOTHING`, g.ID, g.Name)
		w.exec("movie genre", `INSERT INTO movie_genres (movie_id, genre_id, ordinal) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`, id, g.ID, i)
	}
	for i, k := range d.Keywords {
		w.exec("keyword", `INSERT INTO keywords (tmdb_id, name) VALUES (?, ?) ON CONFLICT DO NOTHING`, k.ID, k.Name)
		w.exec("movie keyword", `INSERT INTO movie_keywords (movie_id, keyword_id, ordinal) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`, id, k.ID, i)
	}
	for _, c := range d.Companies {
		w.exec("company", `INSERT INTO production_companies (tmdb_id, name, logo_path, origin_country) VALUES (?, ?, ?, ?) ON CONFLICT DO NOTHING`,
			c.ID, c.Name, nullIfEmpty(c.LogoPath), nullIfEmpty(c.OriginCountry))
		w.exec("movie company", `INSERT INTO movie_companies (movie_id, company_id) VALUES (?, ?) ON CONFLICT DO NOTHING`, id, c.ID)
	}
	for _, c := range d.Countries {
		w.exec("country", `INSERT INTO countries (iso_3166_1, name) VALUES (?, ?) ON CONFLICT DO NOTHING`, c.ISO, c.Name)
		w.exec("movie country", `INSERT INTO movie_countries (movie_id, country_iso) VALUES (?, ?) ON CONFLICT DO NOTHING`, id, c.ISO)
	}
	for _, l := range d.Languages {
		w.exec("language", `INSERT INTO languages (iso_639_1, name, english_name) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`,
			l.ISO, nullIfEmpty(l.Name), nullIfEmpty(l.EnglishName))
		w.exec("movie language", `INSERT INTO movie_languages (movie_id, language_iso) VALUES (?, ?) ON CONFLICT DO NOTHING`, id, l.ISO)
	}
	if c := d.Collection; c != nil {
		w.exec("collection", `INSERT INTO collections (tmdb_id, name, poster_path, backdrop_path) VALUES (?, ?, ?, ?) ON CONFLICT DO NOTHING`,
			c.ID, c.Name, nullIfEmpty(c.PosterPath), nullIfEmpty(c.BackdropPath))
		w.exec("movie collection", `INSERT INTO movie_collections (movie_id, collection_id) VALUES (?, ?) ON CONFLICT DO NOTHING`, id, c.ID)
	}
	for i := range d.Cast {
		c := &d.Cast[i]
		insertPerson(w, &c.Person)
		w.exec("cast", `INSERT INTO movie_cast (movie_id, person_id, character_name, cast_order) VALUES (?, ?, ?, ?) ON CONFLICT DO NOTHING`,
			id, c.TMDBID, nullIfEmpty(c.Character), c.Order)
	}
	for i := range d.Crew {
		c := &d.Crew[i]
		insertPerson(w, &c.Person)
		w.exec("crew", `INSERT INTO movie_crew (movie_id, person_id, job, department) VALUES (?, ?, ?, ?) ON CONFLICT DO NOTHING`,
			id, c.TMDBID, c.Job, nullIfEmpty(c.Department))
	}
	for _, v := range d.Videos {
		w.exec("video", `INSERT INTO movie_videos (movie_id, video_key, name, site, video_type, official) VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT DO NOTHING`,
			id, v.Key, nullIfEmpty(v.Name), nullIfEmpty(v.Site), nullIfEmpty(v.Type), v.Official)
	}
	for _, img := range d.Images {
		w.exec("image", `INSERT INTO movie_images (movie_id, file_path, image_type, language, vote_average, vote_count, width, height)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT DO NOTHING`,
			id, img.FilePath, img.Type, nullIfEmpty(img.Language), img.VoteAverage, img.VoteCount, img.Width, img.Height)
	}
	return w.err
}

func insertPerson(w *relatedWriter, p *models.Person) {
	w.exec("person", `INSERT INTO people (tmdb_id, name, profile_path, popularity, gender, known_for_department)
		VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT DO NOTHING`,
		p.TMDBID, p.Name, nullIfEmpty(p.ProfilePath), p.Popularity, p.Gender, nullIfEmpty(p.KnownForDepartment))
}
