// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package recommend

import (
	"testing"

	"github.com/tomtom215/cinefeel/internal/config"
)

func TestConfigFromSettings(t *testing.T) {
	cfg := ConfigFromSettings(&config.RecommendConfig{
		Dimensions:      64,
		DefaultK:        5,
		Workers:         2,
		IncludeLanguage: true,
	})

	if cfg.Embedder.Dimensions != 64 {
		t.Errorf("Dimensions = %d, want 64", cfg.Embedder.Dimensions)
	}
	if cfg.DefaultK != 5 || cfg.Workers != 2 {
		t.Errorf("DefaultK/Workers = %d/%d, want 5/2", cfg.DefaultK, cfg.Workers)
	}
	if !cfg.Features.IncludeLanguage {
		t.Error("IncludeLanguage should be carried over")
	}
	if cfg.Features.GenreRepeat != DefaultFeatureConfig().GenreRepeat {
		t.Errorf("GenreRepeat = %d, want default", cfg.Features.GenreRepeat)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestConfigFromSettingsZeroValues(t *testing.T) {
	for _, rc := range []*config.RecommendConfig{nil, {}} {
		cfg := ConfigFromSettings(rc)
		want := DefaultConfig()
		if cfg.Embedder.Dimensions != want.Embedder.Dimensions || cfg.DefaultK != want.DefaultK || cfg.Workers != want.Workers {
			t.Errorf("ConfigFromSettings(%v) = %+v, want defaults", rc, cfg)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dimensions", func(c *Config) { c.Embedder.Dimensions = 0 }},
		{"zero default k", func(c *Config) { c.DefaultK = 0 }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"negative repeat", func(c *Config) { c.Features.GenreRepeat = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
