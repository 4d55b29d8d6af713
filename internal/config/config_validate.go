// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and consistent.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateTMDB,
		c.validateDatabase,
		c.validateSync,
		c.validateImport,
		c.validateRecommend,
		c.validateServer,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if c.TMDB.BaseURL == "" {
		return fmt.Errorf("TMDB_BASE_URL must not be empty")
	}
	u, err := url.Parse(c.TMDB.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("TMDB_BASE_URL must be an absolute URL, got %q", c.TMDB.BaseURL)
	}
	if c.TMDB.RateLimit <= 0 {
		return fmt.Errorf("TMDB_RATE_LIMIT must be positive, got %v", c.TMDB.RateLimit)
	}
	if c.TMDB.Timeout <= 0 {
		return fmt.Errorf("TMDB_TIMEOUT must be positive, got %v", c.TMDB.Timeout)
	}
	if c.TMDB.MaxRetries < 1 {
		return fmt.Errorf("TMDB_MAX_RETRIES must be at least 1, got %d", c.TMDB.MaxRetries)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH must not be empty")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateSync() error {
	if !c.Sync.Enabled {
		return nil
	}
	if c.TMDB.AccessToken == "" {
		return fmt.Errorf("TMDB_ACCESS_TOKEN is required when SYNC_ENABLED=true")
	}
	if c.Sync.StartPage < 1 {
		return fmt.Errorf("SYNC_START_PAGE must be at least 1, got %d", c.Sync.StartPage)
	}
	if c.Sync.Pages < 0 {
		return fmt.Errorf("SYNC_PAGES must not be negative, got %d", c.Sync.Pages)
	}
	if c.Sync.PageWorkers < 1 || c.Sync.DetailWorkers < 1 || c.Sync.BackfillWorkers < 1 {
		return fmt.Errorf("SYNC_PAGE_WORKERS, SYNC_DETAIL_WORKERS and SYNC_BACKFILL_WORKERS must be at least 1")
	}
	if c.Sync.BatchSize < 1 {
		return fmt.Errorf("SYNC_BATCH_SIZE must be at least 1, got %d", c.Sync.BatchSize)
	}
	if c.Sync.Interval <= 0 {
		return fmt.Errorf("SYNC_INTERVAL must be positive, got %v", c.Sync.Interval)
	}
	return nil
}

func (c *Config) validateImport() error {
	if !c.Import.Enabled {
		return nil
	}
	if c.Import.CSVPath == "" {
		return fmt.Errorf("IMPORT_CSV_PATH is required when IMPORT_ENABLED=true")
	}
	if c.Import.BatchSize < 1 {
		return fmt.Errorf("IMPORT_BATCH_SIZE must be at least 1, got %d", c.Import.BatchSize)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.Dimensions < 3 {
		return fmt.Errorf("RECOMMEND_DIMENSIONS must be at least 3, got %d", r.Dimensions)
	}
	if r.MaxK < 1 {
		return fmt.Errorf("RECOMMEND_MAX_K must be at least 1, got %d", r.MaxK)
	}
	if r.DefaultK < 1 || r.DefaultK > r.MaxK {
		return fmt.Errorf("RECOMMEND_DEFAULT_K must be between 1 and %d, got %d", r.MaxK, r.DefaultK)
	}
	if r.Workers < 1 {
		return fmt.Errorf("RECOMMEND_WORKERS must be at least 1, got %d", r.Workers)
	}
	if r.CatalogLimit < 0 {
		return fmt.Errorf("RECOMMEND_CATALOG_LIMIT must not be negative, got %d", r.CatalogLimit)
	}
	if r.CacheTTL < 0 || r.CacheSize < 0 {
		return fmt.Errorf("RECOMMEND_CACHE_TTL and RECOMMEND_CACHE_SIZE must not be negative")
	}
	switch r.SimulateSource {
	case "fixtures", "database":
	default:
		return fmt.Errorf("SIMULATE_SOURCE must be fixtures or database, got %q", r.SimulateSource)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	if c.Server.RateLimitReqs < 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must not be negative, got %d", c.Server.RateLimitReqs)
	}
	if c.Server.RateLimitReqs > 0 && c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// Addr returns the HTTP listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
