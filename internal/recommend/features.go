// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package recommend

import "strings"

// Token namespaces.
const (
	genrePrefix    = "genre:"
	keywordPrefix  = "keyword:"
	languagePrefix = "lang:"
)

// FeatureExtractor turns a movie into hashing tokens. Repetition encodes
// weight, so the output is a multiset in emission order.
type FeatureExtractor struct {
	cfg FeatureConfig
}

// NewFeatureExtractor creates an extractor.
func NewFeatureExtractor(cfg FeatureConfig) *FeatureExtractor {
	return &FeatureExtractor{cfg: cfg}
}

// Extract returns the tokens for m. A movie with no title, overview, genres
// or keywords yields an empty slice.
func (e *FeatureExtractor) Extract(m *Movie) []string {
	tokens := make([]string, 0, e.estimate(m))

	if m.Title != "" {
		tokens = append(tokens, strings.Fields(strings.ToLower(m.Title))...)
	}

	if m.Overview != "" {
		words := strings.Fields(strings.ToLower(m.Overview))
		if len(words) > e.cfg.MaxOverviewWords {
			words = words[:e.cfg.MaxOverviewWords]
		}
		tokens = append(tokens, words...)
	}

	for _, g := range m.Genres {
		tokens = appendRepeated(tokens, genrePrefix+strings.ToLower(g), e.cfg.GenreRepeat)
	}

	keywords := m.Keywords
	if len(keywords) > e.cfg.MaxKeywords {
		keywords = keywords[:e.cfg.MaxKeywords]
	}
	for _, kw := range keywords {
		tokens = appendRepeated(tokens, keywordPrefix+strings.ToLower(kw), e.cfg.KeywordRepeat)
	}

	if e.cfg.IncludeLanguage && m.OriginalLanguage != "" {
		tokens = append(tokens, languagePrefix+strings.ToLower(m.OriginalLanguage))
	}

	return tokens
}

func (e *FeatureExtractor) estimate(m *Movie) int {
	n := len(m.Genres)*e.cfg.GenreRepeat + e.cfg.MaxOverviewWords + 8
	if len(m.Keywords) < e.cfg.MaxKeywords {
		return n + len(m.Keywords)*e.cfg.KeywordRepeat
	}
	return n + e.cfg.MaxKeywords*e.cfg.KeywordRepeat
}

func appendRepeated(tokens []string, token string, n int) []string {
	for i := 0; i < n; i++ {
		tokens = append(tokens, token)
	}
	return tokens
}
