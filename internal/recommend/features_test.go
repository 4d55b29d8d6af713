// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package recommend

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func countToken(tokens []string, tok string) int {
	n := 0
	for _, t := range tokens {
		if t == tok {
			n++
		}
	}
	return n
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		movie Movie
		want  []string
	}{
		{
			name:  "title only",
			movie: Movie{Title: "The Matrix"},
			want:  []string{"the", "matrix"},
		},
		{
			name:  "title words are not de-duplicated",
			movie: Movie{Title: "New York New York"},
			want:  []string{"new", "york", "new", "york"},
		},
		{
			name:  "overview follows title",
			movie: Movie{Title: "Up", Overview: "An  OLD man\tflies"},
			want:  []string{"up", "an", "old", "man", "flies"},
		},
		{
			name:  "genres repeat five times",
			movie: Movie{Title: "X", Genres: []string{"Science Fiction"}},
			want: []string{"x",
				"genre:science fiction", "genre:science fiction", "genre:science fiction",
				"genre:science fiction", "genre:science fiction"},
		},
		{
			name:  "keywords repeat three times",
			movie: Movie{Title: "X", Keywords: []string{"AI"}},
			want:  []string{"x", "keyword:ai", "keyword:ai", "keyword:ai"},
		},
		{
			name:  "language ignored by default",
			movie: Movie{Title: "X", OriginalLanguage: "en"},
			want:  []string{"x"},
		},
		{
			name:  "empty movie",
			movie: Movie{},
			want:  []string{},
		},
	}

	e := NewFeatureExtractor(DefaultFeatureConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(&tt.movie)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractOverviewLimit(t *testing.T) {
	words := make([]string, 45)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	m := Movie{Title: "T", Overview: strings.Join(words, " ")}

	got := NewFeatureExtractor(DefaultFeatureConfig()).Extract(&m)
	if len(got) != 31 {
		t.Fatalf("len(tokens) = %d, want 31 (1 title + 30 overview)", len(got))
	}
	if got[30] != "w29" {
		t.Errorf("last overview token = %q, want w29", got[30])
	}
	if countToken(got, "w30") != 0 {
		t.Error("overview words past the limit should be dropped")
	}
}

func TestExtractKeywordLimit(t *testing.T) {
	kws := make([]string, 12)
	for i := range kws {
		kws[i] = fmt.Sprintf("K%d", i)
	}
	m := Movie{Title: "T", Keywords: kws}

	got := NewFeatureExtractor(DefaultFeatureConfig()).Extract(&m)
	if len(got) != 1+10*3 {
		t.Fatalf("len(tokens) = %d, want 31", len(got))
	}
	if n := countToken(got, "keyword:k9"); n != 3 {
		t.Errorf("keyword:k9 count = %d, want 3", n)
	}
	if n := countToken(got, "keyword:k10"); n != 0 {
		t.Errorf("keyword:k10 count = %d, want 0", n)
	}
}

func TestExtractLanguage(t *testing.T) {
	cfg := DefaultFeatureConfig()
	cfg.IncludeLanguage = true
	e := NewFeatureExtractor(cfg)

	got := e.Extract(&Movie{Title: "Amélie", OriginalLanguage: "FR"})
	if want := []string{"amélie", "lang:fr"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %q, want %q", got, want)
	}

	got = e.Extract(&Movie{Title: "Amélie"})
	if countToken(got, "lang:") != 0 || len(got) != 1 {
		t.Errorf("Extract() without language = %q", got)
	}
}
