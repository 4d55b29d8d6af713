// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package models

import "time"

// Movie is a row of the movies table. It is produced by the CSV import and
// by the TMDB sync.
type Movie struct {
	TMDBID           int64      `json:"tmdb_id"`
	Title            string     `json:"title"`
	OriginalTitle    string     `json:"original_title,omitempty"`
	Overview         string     `json:"overview,omitempty"`
	ReleaseDate      *time.Time `json:"release_date,omitempty"`
	Runtime          int        `json:"runtime,omitempty"`
	Budget           int64      `json:"budget,omitempty"`
	Revenue          int64      `json:"revenue,omitempty"`
	PosterPath       string     `json:"poster_path,omitempty"`
	BackdropPath     string     `json:"backdrop_path,omitempty"`
	IMDbID           string     `json:"imdb_id,omitempty"`
	OriginalLanguage string     `json:"original_language,omitempty"`
	Popularity       float64    `json:"popularity"`
	VoteAverage      float64    `json:"vote_average"`
	VoteCount        int        `json:"vote_count"`
	Status           string     `json:"status,omitempty"`
	Tagline          string     `json:"tagline,omitempty"`
	Homepage         string     `json:"homepage,omitempty"`
	Adult            bool       `json:"adult"`

	// GenreNames and KeywordNames hold the name lists of the CSV dataset,
	// which carries no TMDB ids for them.
	GenreNames   []string `json:"genre_names,omitempty"`
	KeywordNames []string `json:"keyword_names,omitempty"`
}

// MovieDetail is a movie with the related data returned by the TMDB details
// endpoint, already trimmed to what is stored.
type MovieDetail struct {
	Movie

	Genres     []Genre      `json:"genres,omitempty"`
	Keywords   []Keyword    `json:"keywords,omitempty"`
	Companies  []Company    `json:"production_companies,omitempty"`
	Countries  []Country    `json:"production_countries,omitempty"`
	Languages  []Language   `json:"spoken_languages,omitempty"`
	Collection *Collection  `json:"collection,omitempty"`
	Cast       []CastCredit `json:"cast,omitempty"`
	Crew       []CrewCredit `json:"crew,omitempty"`
	Videos     []Video      `json:"videos,omitempty"`
	Images     []Image      `json:"images,omitempty"`
}

// Genre is a TMDB genre.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Keyword is a TMDB keyword.
type Keyword struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Company is a production company.
type Company struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	LogoPath      string `json:"logo_path,omitempty"`
	OriginCountry string `json:"origin_country,omitempty"`
}

// Country is a production country keyed by ISO 3166-1 code.
type Country struct {
	ISO  string `json:"iso_3166_1"`
	Name string `json:"name"`
}

// Language is a spoken language keyed by ISO 639-1 code.
type Language struct {
	ISO         string `json:"iso_639_1"`
	Name        string `json:"name"`
	EnglishName string `json:"english_name,omitempty"`
}

// Collection is the franchise a movie belongs to.
type Collection struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	PosterPath   string `json:"poster_path,omitempty"`
	BackdropPath string `json:"backdrop_path,omitempty"`
}

// Person is a cast or crew member.
type Person struct {
	TMDBID             int64   `json:"id"`
	Name               string  `json:"name"`
	ProfilePath        string  `json:"profile_path,omitempty"`
	Popularity         float64 `json:"popularity"`
	Gender             int     `json:"gender"`
	KnownForDepartment string  `json:"known_for_department,omitempty"`
}

// CastCredit links a person to a movie as cast.
type CastCredit struct {
	Person
	Character string `json:"character,omitempty"`
	Order     int    `json:"order"`
}

// CrewCredit links a person to a movie as crew.
type CrewCredit struct {
	Person
	Job        string `json:"job"`
	Department string `json:"department,omitempty"`
}

// Video is a trailer or clip hosted on a video site.
type Video struct {
	Key      string `json:"key"`
	Name     string `json:"name,omitempty"`
	Site     string `json:"site,omitempty"`
	Type     string `json:"type,omitempty"`
	Official bool   `json:"official"`
}

// Image types.
const (
	ImageTypePoster   = "poster"
	ImageTypeBackdrop = "backdrop"
)

// Image is a poster or backdrop.
type Image struct {
	FilePath    string  `json:"file_path"`
	Type        string  `json:"image_type"`
	Language    string  `json:"iso_639_1,omitempty"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
}
