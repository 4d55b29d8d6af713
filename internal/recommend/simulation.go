// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package recommend

import (
	"context"
	"fmt"
	"time"
)

// scenarioTopK is the neighbourhood size a scenario is checked against.
const scenarioTopK = 10

// Scenario names a movie and the titles expected among its nearest neighbours.
type Scenario struct {
	Movie           string   `json:"movie"`
	ExpectedSimilar []string `json:"expected_similar"`
	Reason          string   `json:"reason,omitempty"`
}

// ScenarioResult is the outcome of one scenario.
type ScenarioResult struct {
	Movie  string `json:"movie"`
	Reason string `json:"reason,omitempty"`

	// QueryFound is false when the scenario movie is not in the catalog.
	QueryFound bool `json:"query_found"`

	Expected []string      `json:"expected"`
	Found    []string      `json:"found"`
	Top      []ScoredMovie `json:"top"`
	Passed   bool          `json:"passed"`
}

// SimulationReport aggregates scenario results.
type SimulationReport struct {
	Results    []ScenarioResult `json:"results"`
	Passed     int              `json:"passed"`
	Failed     int              `json:"failed"`
	CatalogLen int              `json:"catalog_size"`
	Duration   time.Duration    `json:"duration"`
}

// AllPassed reports whether every scenario passed.
func (r *SimulationReport) AllPassed() bool {
	return r.Failed == 0
}

// Summary returns a one-line summary.
func (r *SimulationReport) Summary() string {
	return fmt.Sprintf("%d/%d scenarios passed over %d movies in %s",
		r.Passed, r.Passed+r.Failed, r.CatalogLen, r.Duration.Round(time.Millisecond))
}

// RunScenarios ranks the catalog for each scenario movie and checks that at
// least half of the expected titles appear in its top 10.
func RunScenarios(ctx context.Context, ranker *Ranker, catalog []Movie, scenarios []Scenario) (*SimulationReport, error) {
	start := time.Now()
	report := &SimulationReport{
		Results:    make([]ScenarioResult, 0, len(scenarios)),
		CatalogLen: len(catalog),
	}

	byTitle := make(map[string]int, len(catalog))
	for i := range catalog {
		if _, dup := byTitle[catalog[i].Title]; !dup {
			byTitle[catalog[i].Title] = i
		}
	}

	for _, sc := range scenarios {
		result, err := runScenario(ctx, ranker, catalog, byTitle, sc)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Movie, err)
		}
		if result.Passed {
			report.Passed++
		} else {
			report.Failed++
		}
		report.Results = append(report.Results, result)
	}

	report.Duration = time.Since(start)
	return report, nil
}

func runScenario(ctx context.Context, ranker *Ranker, catalog []Movie, byTitle map[string]int, sc Scenario) (ScenarioResult, error) {
	result := ScenarioResult{
		Movie:    sc.Movie,
		Reason:   sc.Reason,
		Expected: sc.ExpectedSimilar,
		Found:    []string{},
	}

	idx, ok := byTitle[sc.Movie]
	if !ok {
		return result, nil
	}
	result.QueryFound = true

	top, err := ranker.Rank(ctx, catalog[idx], catalog, scenarioTopK)
	if err != nil {
		return result, err
	}
	result.Top = top

	inTop := make(map[string]struct{}, len(top))
	for _, s := range top {
		inTop[s.Movie.Title] = struct{}{}
	}
	for _, title := range sc.ExpectedSimilar {
		if _, hit := inTop[title]; hit {
			result.Found = append(result.Found, title)
		}
	}

	result.Passed = 2*len(result.Found) >= len(sc.ExpectedSimilar)
	return result, nil
}
