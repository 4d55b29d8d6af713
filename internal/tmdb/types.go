// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package tmdb

import (
	"time"

	"github.com/tomtom215/cinefeel/internal/models"
)

// Limits applied when converting details to catalog records.
const (
	maxCast      = 10
	maxPosters   = 5
	maxBackdrops = 5
)

// storedCrewJobs are the crew jobs kept in movie_crew.
var storedCrewJobs = map[string]struct{}{
	"Director":   {},
	"Producer":   {},
	"Writer":     {},
	"Screenplay": {},
}

// PopularPage is the response of GET /movie/popular.
type PopularPage struct {
	Page         int            `json:"page"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
	Results      []MovieSummary `json:"results"`
}

// MovieSummary is a list entry of /movie/popular.
type MovieSummary struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	OriginalLanguage string  `json:"original_language"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	GenreIDs         []int64 `json:"genre_ids"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	Adult            bool    `json:"adult"`
}

// MovieDetails is the response of GET /movie/{id} with
// append_to_response=videos,images,keywords,credits.
type MovieDetails struct {
	ID                  int64              `json:"id"`
	IMDbID              string             `json:"imdb_id"`
	Title               string             `json:"title"`
	OriginalTitle       string             `json:"original_title"`
	OriginalLanguage    string             `json:"original_language"`
	Overview            string             `json:"overview"`
	Tagline             string             `json:"tagline"`
	Homepage            string             `json:"homepage"`
	Status              string             `json:"status"`
	ReleaseDate         string             `json:"release_date"`
	Runtime             int                `json:"runtime"`
	Budget              int64              `json:"budget"`
	Revenue             int64              `json:"revenue"`
	Popularity          float64            `json:"popularity"`
	VoteAverage         float64            `json:"vote_average"`
	VoteCount           int                `json:"vote_count"`
	PosterPath          string             `json:"poster_path"`
	BackdropPath        string             `json:"backdrop_path"`
	Adult               bool               `json:"adult"`
	Genres              []models.Genre     `json:"genres"`
	ProductionCompanies []models.Company   `json:"production_companies"`
	ProductionCountries []models.Country   `json:"production_countries"`
	SpokenLanguages     []models.Language  `json:"spoken_languages"`
	BelongsToCollection *models.Collection `json:"belongs_to_collection"`

	Keywords struct {
		Keywords []models.Keyword `json:"keywords"`
	} `json:"keywords"`

	Credits struct {
		Cast []CastMember `json:"cast"`
		Crew []CrewMember `json:"crew"`
	} `json:"credits"`

	Videos struct {
		Results []models.Video `json:"results"`
	} `json:"videos"`

	Images struct {
		Posters   []ImageFile `json:"posters"`
		Backdrops []ImageFile `json:"backdrops"`
	} `json:"images"`
}

// CastMember is an entry of credits.cast.
type CastMember struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Character          string  `json:"character"`
	Order              int     `json:"order"`
	ProfilePath        string  `json:"profile_path"`
	Popularity         float64 `json:"popularity"`
	Gender             int     `json:"gender"`
	KnownForDepartment string  `json:"known_for_department"`
}

// CrewMember is an entry of credits.crew.
type CrewMember struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Job                string  `json:"job"`
	Department         string  `json:"department"`
	ProfilePath        string  `json:"profile_path"`
	Popularity         float64 `json:"popularity"`
	Gender             int     `json:"gender"`
	KnownForDepartment string  `json:"known_for_department"`
}

// ImageFile is an entry of images.posters or images.backdrops.
type ImageFile struct {
	FilePath    string  `json:"file_path"`
	Language    string  `json:"iso_639_1"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
}

// ToModel converts the response to a catalog record. Cast is cut to the
// first 10 billed, crew to directing, producing and writing jobs, and images
// to 5 posters and 5 backdrops.
func (d *MovieDetails) ToModel() models.MovieDetail {
	out := models.MovieDetail{
		Movie: models.Movie{
			TMDBID:           d.ID,
			Title:            d.Title,
			OriginalTitle:    d.OriginalTitle,
			Overview:         d.Overview,
			ReleaseDate:      ParseDate(d.ReleaseDate),
			Runtime:          d.Runtime,
			Budget:           d.Budget,
			Revenue:          d.Revenue,
			PosterPath:       d.PosterPath,
			BackdropPath:     d.BackdropPath,
			IMDbID:           d.IMDbID,
			OriginalLanguage: d.OriginalLanguage,
			Popularity:       d.Popularity,
			VoteAverage:      d.VoteAverage,
			VoteCount:        d.VoteCount,
			Status:           d.Status,
			Tagline:          d.Tagline,
			Homepage:         d.Homepage,
			Adult:            d.Adult,
		},
		Genres:     d.Genres,
		Keywords:   d.Keywords.Keywords,
		Companies:  d.ProductionCompanies,
		Countries:  d.ProductionCountries,
		Languages:  d.SpokenLanguages,
		Collection: d.BelongsToCollection,
		Videos:     d.Videos.Results,
	}

	cast := d.Credits.Cast
	if len(cast) > maxCast {
		cast = cast[:maxCast]
	}
	for i := range cast {
		c := &cast[i]
		out.Cast = append(out.Cast, models.CastCredit{
			Person:    person(c.ID, c.Name, c.ProfilePath, c.Popularity, c.Gender, c.KnownForDepartment),
			Character: c.Character,
			Order:     c.Order,
		})
	}

	for i := range d.Credits.Crew {
		c := &d.Credits.Crew[i]
		if _, ok := storedCrewJobs[c.Job]; !ok {
			continue
		}
		out.Crew = append(out.Crew, models.CrewCredit{
			Person:     person(c.ID, c.Name, c.ProfilePath, c.Popularity, c.Gender, c.KnownForDepartment),
			Job:        c.Job,
			Department: c.Department,
		})
	}

	out.Images = appendImages(out.Images, d.Images.Posters, models.ImageTypePoster, maxPosters)
	out.Images = appendImages(out.Images, d.Images.Backdrops, models.ImageTypeBackdrop, maxBackdrops)

	return out
}

func person(id int64, name, profile string, popularity float64, gender int, dept string) models.Person {
	return models.Person{
		TMDBID:             id,
		Name:               name,
		ProfilePath:        profile,
		Popularity:         popularity,
		Gender:             gender,
		KnownForDepartment: dept,
	}
}

func appendImages(dst []models.Image, files []ImageFile, kind string, limit int) []models.Image {
	if len(files) > limit {
		files = files[:limit]
	}
	for _, f := range files {
		dst = append(dst, models.Image{
			FilePath:    f.FilePath,
			Type:        kind,
			Language:    f.Language,
			VoteAverage: f.VoteAverage,
			VoteCount:   f.VoteCount,
			Width:       f.Width,
			Height:      f.Height,
		})
	}
	return dst
}

// ParseDate parses a TMDB YYYY-MM-DD date. Empty or malformed values
// return nil.
func ParseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
