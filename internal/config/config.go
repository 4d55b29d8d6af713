// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

// Package config loads CineFeel configuration with Koanf v2.
//
// Sources are layered, highest priority last:
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file (CONFIG_PATH, or config.yaml / /etc/cinefeel/config.yaml)
//  3. Environment variables, mapped explicitly in envTransformFunc
//
// The resulting *Config is validated before it is returned and is then passed
// down to each entry point; nothing in this module reads the environment
// after startup.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Database  DatabaseConfig  `koanf:"database"`
	Sync      SyncConfig      `koanf:"sync"`
	Import    ImportConfig    `koanf:"import"`
	Recommend RecommendConfig `koanf:"recommend"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// TMDBConfig configures the TMDB API client.
type TMDBConfig struct {
	// AccessToken is the v4 read access token sent as a Bearer credential.
	AccessToken string `koanf:"access_token"`

	BaseURL string `koanf:"base_url"`

	// RateLimit is the sustained request rate in requests per second.
	// The default of 20 matches a 50ms spacing between detail requests.
	RateLimit float64 `koanf:"rate_limit"`

	Timeout time.Duration `koanf:"timeout"`

	// MaxRetries bounds the attempts made for HTTP 429 responses.
	MaxRetries int `koanf:"max_retries"`
}

// DatabaseConfig configures the DuckDB catalog store.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = runtime.NumCPU()
}

// SyncConfig configures TMDB popular-page fetching and the related-data backfill.
type SyncConfig struct {
	Enabled   bool `koanf:"enabled"`
	StartPage int  `koanf:"start_page"`
	Pages     int  `koanf:"pages"`

	// PageWorkers is the number of popular pages processed concurrently.
	PageWorkers int `koanf:"page_workers"`

	// DetailWorkers is the number of concurrent detail requests per page.
	DetailWorkers int `koanf:"detail_workers"`

	BackfillEnabled bool `koanf:"backfill_enabled"`
	BackfillWorkers int  `koanf:"backfill_workers"`

	// BatchSize is the number of movies per backfill batch. The run log is
	// persisted after every batch.
	BatchSize int `koanf:"batch_size"`

	Interval   time.Duration `koanf:"interval"`
	RunLogPath string        `koanf:"run_log_path"`
}

// ImportConfig configures the CSV dataset import.
type ImportConfig struct {
	Enabled   bool   `koanf:"enabled"`
	AutoStart bool   `koanf:"auto_start"`
	CSVPath   string `koanf:"csv_path"`
	BatchSize int    `koanf:"batch_size"`
	DryRun    bool   `koanf:"dry_run"`

	// ProgressPath is the BadgerDB directory used to resume an interrupted
	// import. Empty keeps progress in memory only.
	ProgressPath string `koanf:"progress_path"`
}

// RecommendConfig configures the feature-hashing similarity ranker.
type RecommendConfig struct {
	Dimensions      int  `koanf:"dimensions"`
	DefaultK        int  `koanf:"default_k"`
	MaxK            int  `koanf:"max_k"`
	Workers         int  `koanf:"workers"`
	IncludeLanguage bool `koanf:"include_language"`

	// CatalogLimit caps the number of catalog movies loaded as candidates
	// for a database-backed ranking. 0 loads the whole catalog.
	CatalogLimit int `koanf:"catalog_limit"`

	// CacheTTL is how long a similar-movies result is served from memory.
	// 0 disables the cache.
	CacheTTL  time.Duration `koanf:"cache_ttl"`
	CacheSize int           `koanf:"cache_size"`

	// SimulateSource selects the movie set used by cmd/simulate:
	// "fixtures" (embedded sample movies) or "database".
	SimulateSource string `koanf:"simulate_source"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	RateLimitReqs   int           `koanf:"rate_limit_requests"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// LoggingConfig configures zerolog output.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json (production) or console (development).
	Format string `koanf:"format"`

	Caller bool `koanf:"caller"`
}

// Load reads, merges and validates configuration.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
