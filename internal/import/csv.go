// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package movieimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/cinefeel/internal/models"
)

// ErrMissingID marks a row without a usable TMDB id.
var ErrMissingID = errors.New("missing tmdb id")

// requiredColumns must be present in the header.
var requiredColumns = []string{"id", "title"}

// CSVReader reads dataset rows by column name.
type CSVReader struct {
	r       *csv.Reader
	columns map[string]int
	row     int
}

// NewCSVReader reads the header line from r.
func NewCSVReader(r io.Reader) (*CSVReader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv has no header")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("csv header is missing column %q", name)
		}
	}

	return &CSVReader{r: cr, columns: columns}, nil
}

// Row returns the 1-based number of the last data row read.
func (c *CSVReader) Row() int {
	return c.row
}

// Skip discards n data rows.
func (c *CSVReader) Skip(n int) error {
	for i := 0; i < n; i++ {
		if _, err := c.r.Read(); err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return err
			}
		}
		c.row++
	}
	return nil
}

// Next parses the next data row. It returns io.EOF at the end of input and an
// error wrapping ErrMissingID for a row that cannot be keyed; the reader stays
// usable after the latter.
func (c *CSVReader) Next() (models.Movie, error) {
	record, err := c.r.Read()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			c.row++
		}
		return models.Movie{}, err
	}
	c.row++
	return c.toMovie(record)
}

func (c *CSVReader) field(record []string, name string) string {
	i, ok := c.columns[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (c *CSVReader) toMovie(record []string) (models.Movie, error) {
	id := parseInt(c.field(record, "id"))
	if id <= 0 {
		return models.Movie{}, fmt.Errorf("%w: row %d", ErrMissingID, c.row)
	}

	return models.Movie{
		TMDBID:           id,
		Title:            c.field(record, "title"),
		OriginalTitle:    c.field(record, "original_title"),
		Overview:         c.field(record, "overview"),
		ReleaseDate:      parseDate(c.field(record, "release_date")),
		Runtime:          int(parseInt(c.field(record, "runtime"))),
		Budget:           parseInt(c.field(record, "budget")),
		Revenue:          parseInt(c.field(record, "revenue")),
		PosterPath:       c.field(record, "poster_path"),
		BackdropPath:     c.field(record, "backdrop_path"),
		IMDbID:           c.field(record, "imdb_id"),
		OriginalLanguage: c.field(record, "original_language"),
		Popularity:       parseFloat(c.field(record, "popularity")),
		VoteAverage:      parseFloat(c.field(record, "vote_average")),
		VoteCount:        int(parseInt(c.field(record, "vote_count"))),
		Status:           c.field(record, "status"),
		Tagline:          c.field(record, "tagline"),
		Homepage:         c.field(record, "homepage"),
		Adult:            parseBool(c.field(record, "adult")),
		GenreNames:       parseNameList(c.field(record, "genres")),
		KeywordNames:     parseNameList(c.field(record, "keywords")),
	}, nil
}

// parseInt accepts integers and integral floats such as "12.0"; anything else
// is 0. Fractions are truncated.
func parseInt(s string) int64 {
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0
	}
	return int64(f)
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// parseBool is true only for "true" in any case.
func parseBool(s string) bool {
	return strings.EqualFold(s, "true")
}

// parseDate parses YYYY-MM-DD; anything else is nil.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

// parseNameList splits a comma-separated list, dropping blanks.
func parseNameList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	if len(names) == 0 {
		return nil
	}
	return names
}

// CountRows counts the data rows of a CSV stream, honouring quoted newlines.
func CountRows(r io.Reader) (int64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	var n int64
	for {
		_, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				n++
				continue
			}
			return 0, err
		}
		n++
	}
	if n > 0 {
		n-- // header
	}
	return n, nil
}
