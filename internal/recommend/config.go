// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package recommend

import (
	"errors"
	"fmt"

	"github.com/tomtom215/cinefeel/internal/config"
)

// FeatureConfig controls token extraction.
type FeatureConfig struct {
	// MaxOverviewWords caps the number of overview words used.
	MaxOverviewWords int

	// GenreRepeat is how many times each genre token is emitted.
	GenreRepeat int

	// MaxKeywords caps the number of keywords used.
	MaxKeywords int

	// KeywordRepeat is how many times each keyword token is emitted.
	KeywordRepeat int

	// IncludeLanguage adds a lang:<code> token for the original language.
	IncludeLanguage bool
}

// EmbedderConfig controls feature hashing.
type EmbedderConfig struct {
	// Dimensions is the vector length D.
	Dimensions int

	// Weights are added to the three buckets a token hashes into.
	Weights [3]float64
}

// Config configures a Ranker.
type Config struct {
	Features FeatureConfig
	Embedder EmbedderConfig

	// DefaultK is used when a caller asks for k <= 0.
	DefaultK int

	// Workers bounds concurrent candidate embedding. 0 uses one goroutine
	// per candidate.
	Workers int
}

// DefaultFeatureConfig returns the standard extraction parameters.
func DefaultFeatureConfig() FeatureConfig {
	return FeatureConfig{
		MaxOverviewWords: 30,
		GenreRepeat:      5,
		MaxKeywords:      10,
		KeywordRepeat:    3,
	}
}

// DefaultEmbedderConfig returns a 384-dimensional embedder with 0.5/0.3/0.2
// bucket weights.
func DefaultEmbedderConfig() EmbedderConfig {
	return EmbedderConfig{
		Dimensions: 384,
		Weights:    [3]float64{0.5, 0.3, 0.2},
	}
}

// DefaultConfig returns the default ranker configuration.
func DefaultConfig() *Config {
	return &Config{
		Features: DefaultFeatureConfig(),
		Embedder: DefaultEmbedderConfig(),
		DefaultK: 10,
		Workers:  4,
	}
}

// ConfigFromSettings builds a ranker configuration from the recommend
// section of the application config. Unset fields keep their defaults.
func ConfigFromSettings(rc *config.RecommendConfig) *Config {
	cfg := DefaultConfig()
	if rc == nil {
		return cfg
	}
	if rc.Dimensions > 0 {
		cfg.Embedder.Dimensions = rc.Dimensions
	}
	if rc.DefaultK > 0 {
		cfg.DefaultK = rc.DefaultK
	}
	if rc.Workers > 0 {
		cfg.Workers = rc.Workers
	}
	cfg.Features.IncludeLanguage = rc.IncludeLanguage
	return cfg
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Embedder.Dimensions < 1 {
		return fmt.Errorf("embedder dimensions must be positive, got %d", c.Embedder.Dimensions)
	}
	if c.DefaultK < 1 {
		return fmt.Errorf("default k must be positive, got %d", c.DefaultK)
	}
	if c.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	f := c.Features
	if f.MaxOverviewWords < 0 || f.MaxKeywords < 0 || f.GenreRepeat < 0 || f.KeywordRepeat < 0 {
		return errors.New("feature limits and repeat counts must not be negative")
	}
	return nil
}
