// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

// Command simulate checks the similarity ranker against hand-written
// scenarios: for each scenario movie, at least half of the expected titles
// must appear among its 10 nearest neighbours.
//
// The catalog is the embedded sample set by default, or the DuckDB catalog
// when SIMULATE_SOURCE=database. The exit status is 1 when any scenario fails.
//
//	./simulate
//	./simulate -json > report.json
//	SIMULATE_SOURCE=database DUCKDB_PATH=./cinefeel.duckdb ./simulate
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinefeel/internal/config"
	"github.com/tomtom215/cinefeel/internal/database"
	"github.com/tomtom215/cinefeel/internal/logging"
	"github.com/tomtom215/cinefeel/internal/recommend"
	"github.com/tomtom215/cinefeel/internal/recommend/fixtures"
)

func main() {
	asJSON := flag.Bool("json", false, "write the report as JSON instead of a table")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	report, err := run(ctx, cfg, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Simulation failed")
	}

	if *asJSON {
		err = writeJSON(os.Stdout, report)
	} else {
		err = writeTable(os.Stdout, report)
	}
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to write report")
	}

	if !report.AllPassed() {
		os.Exit(1)
	}
}

// run loads the catalog and scenarios and ranks every scenario movie.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*recommend.SimulationReport, error) {
	ranker, err := recommend.NewRanker(recommend.ConfigFromSettings(&cfg.Recommend), logger)
	if err != nil {
		return nil, err
	}

	catalog, err := loadCatalog(ctx, cfg)
	if err != nil {
		return nil, err
	}
	scenarios, err := fixtures.Scenarios()
	if err != nil {
		return nil, fmt.Errorf("load scenarios: %w", err)
	}

	logger.Info().
		Str("source", cfg.Recommend.SimulateSource).
		Int("catalog", len(catalog)).
		Int("scenarios", len(scenarios)).
		Msg("Running similarity scenarios")

	report, err := recommend.RunScenarios(ctx, ranker, catalog, scenarios)
	if err != nil {
		return nil, err
	}
	logger.Info().Msg(report.Summary())
	return report, nil
}

func loadCatalog(ctx context.Context, cfg *config.Config) (catalog []recommend.Movie, err error) {
	if cfg.Recommend.SimulateSource != "database" {
		catalog, err = fixtures.Movies()
		if err != nil {
			return nil, fmt.Errorf("load sample movies: %w", err)
		}
		return catalog, nil
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return db.CatalogMovies(ctx, cfg.Recommend.CatalogLimit)
}

func writeTable(w io.Writer, report *recommend.SimulationReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MOVIE\tRESULT\tFOUND\tTOP 3")
	for _, r := range report.Results {
		result := "PASS"
		switch {
		case !r.QueryFound:
			result = "MISSING"
		case !r.Passed:
			result = "FAIL"
		}
		top := make([]string, 0, 3)
		for i := 0; i < len(r.Top) && i < 3; i++ {
			top = append(top, fmt.Sprintf("%s (%.3f)", r.Top[i].Movie.Title, r.Top[i].Score))
		}
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%s\n", r.Movie, result, len(r.Found), len(r.Expected), strings.Join(top, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, report.Summary())
	return err
}

func writeJSON(w io.Writer, report *recommend.SimulationReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
