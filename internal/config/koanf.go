// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where a config file is looked for, first match wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinefeel/config.yaml",
	"/etc/cinefeel/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the configuration applied before file and env layers.
func defaultConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			BaseURL:    "https://api.themoviedb.org/3",
			RateLimit:  20,
			Timeout:    10 * time.Second,
			MaxRetries: 5,
		},
		Database: DatabaseConfig{
			Path:      "/data/cinefeel.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Sync: SyncConfig{
			Enabled:         false,
			StartPage:       1,
			Pages:           10,
			PageWorkers:     3,
			DetailWorkers:   10,
			BackfillEnabled: true,
			BackfillWorkers: 20,
			BatchSize:       100,
			Interval:        24 * time.Hour,
			RunLogPath:      "/data/runlog",
		},
		Import: ImportConfig{
			Enabled:      false,
			AutoStart:    false,
			CSVPath:      "/data/TMDB_movie_dataset_v11.csv",
			BatchSize:    50,
			ProgressPath: "/data/import-progress",
		},
		Recommend: RecommendConfig{
			Dimensions:     384,
			DefaultK:       10,
			MaxK:           100,
			Workers:        4,
			CatalogLimit:   0,
			CacheTTL:       10 * time.Minute,
			CacheSize:      1024,
			SimulateSource: "fixtures",
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8484,
			Timeout:         30 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads defaults, then the optional YAML file, then the
// environment, and validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// TMDB_ACCESS_TOKEN -> tmdb.access_token, SYNC_PAGES -> sync.pages, ...
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are koanf paths that accept comma-separated env values.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	// TMDB
	"tmdb_access_token": "tmdb.access_token",
	"tmdb_base_url":     "tmdb.base_url",
	"tmdb_rate_limit":   "tmdb.rate_limit",
	"tmdb_timeout":      "tmdb.timeout",
	"tmdb_max_retries":  "tmdb.max_retries",

	// DuckDB
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Sync
	"sync_enabled":          "sync.enabled",
	"sync_start_page":       "sync.start_page",
	"sync_pages":            "sync.pages",
	"sync_page_workers":     "sync.page_workers",
	"sync_detail_workers":   "sync.detail_workers",
	"sync_backfill_enabled": "sync.backfill_enabled",
	"sync_backfill_workers": "sync.backfill_workers",
	"sync_batch_size":       "sync.batch_size",
	"sync_interval":         "sync.interval",
	"sync_run_log_path":     "sync.run_log_path",

	// CSV import
	"import_enabled":       "import.enabled",
	"import_auto_start":    "import.auto_start",
	"import_csv_path":      "import.csv_path",
	"import_batch_size":    "import.batch_size",
	"import_dry_run":       "import.dry_run",
	"import_progress_path": "import.progress_path",

	// Ranking
	"recommend_dimensions":       "recommend.dimensions",
	"recommend_default_k":        "recommend.default_k",
	"recommend_max_k":            "recommend.max_k",
	"recommend_workers":          "recommend.workers",
	"recommend_include_language": "recommend.include_language",
	"recommend_catalog_limit":    "recommend.catalog_limit",
	"recommend_cache_ttl":        "recommend.cache_ttl",
	"recommend_cache_size":       "recommend.cache_size",
	"simulate_source":            "recommend.simulate_source",

	// HTTP
	"http_host":           "server.host",
	"http_port":           "server.port",
	"http_timeout":        "server.timeout",
	"rate_limit_requests": "server.rate_limit_requests",
	"rate_limit_window":   "server.rate_limit_window",
	"cors_origins":        "server.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
