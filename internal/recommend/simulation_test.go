// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package recommend_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinefeel/internal/recommend"
	"github.com/tomtom215/cinefeel/internal/recommend/fixtures"
)

func loadFixtures(t *testing.T) ([]recommend.Movie, []recommend.Scenario) {
	t.Helper()
	movies, err := fixtures.Movies()
	if err != nil {
		t.Fatalf("fixtures.Movies() error = %v", err)
	}
	scenarios, err := fixtures.Scenarios()
	if err != nil {
		t.Fatalf("fixtures.Scenarios() error = %v", err)
	}
	return movies, scenarios
}

func newRanker(t *testing.T) *recommend.Ranker {
	t.Helper()
	r, err := recommend.NewRanker(recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRanker() error = %v", err)
	}
	return r
}

func TestFixtures(t *testing.T) {
	movies, scenarios := loadFixtures(t)
	if len(movies) != 20 {
		t.Errorf("len(movies) = %d, want 20", len(movies))
	}
	if len(scenarios) != 4 {
		t.Errorf("len(scenarios) = %d, want 4", len(scenarios))
	}
	for _, m := range movies {
		if m.ID == 0 || m.Title == "" || len(m.Genres) == 0 {
			t.Errorf("incomplete fixture movie: %+v", m)
		}
	}
}

// The Matrix must have at least two of its expected neighbours in the top 10.
func TestMatrixNeighbours(t *testing.T) {
	movies, _ := loadFixtures(t)
	r := newRanker(t)

	var matrix recommend.Movie
	for _, m := range movies {
		if m.Title == "The Matrix" {
			matrix = m
		}
	}
	if matrix.ID == 0 {
		t.Fatal("The Matrix missing from fixtures")
	}

	top, err := r.Rank(context.Background(), matrix, movies, 10)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(top) != 10 {
		t.Fatalf("len(top) = %d, want 10", len(top))
	}

	expected := map[string]bool{"Inception": true, "Blade Runner 2049": true, "Interstellar": true, "Ex Machina": true}
	found := 0
	for _, s := range top {
		if s.Movie.Title == "The Matrix" {
			t.Error("query returned in its own results")
		}
		if expected[s.Movie.Title] {
			found++
		}
	}
	if found < 2 {
		t.Errorf("found %d expected neighbours in top 10, want >= 2: %v", found, titles(top))
	}
	if top[0].Movie.Title != "Inception" {
		t.Errorf("top result = %q, want Inception", top[0].Movie.Title)
	}
}

func TestRunScenarios(t *testing.T) {
	movies, scenarios := loadFixtures(t)

	report, err := recommend.RunScenarios(context.Background(), newRanker(t), movies, scenarios)
	if err != nil {
		t.Fatalf("RunScenarios() error = %v", err)
	}
	if !report.AllPassed() {
		for _, res := range report.Results {
			t.Logf("%s: found %v of %v (passed=%v)", res.Movie, res.Found, res.Expected, res.Passed)
		}
		t.Fatalf("report = %s, want all passed", report.Summary())
	}
	if report.Passed != 4 || report.CatalogLen != 20 {
		t.Errorf("Passed = %d, CatalogLen = %d", report.Passed, report.CatalogLen)
	}

	want := map[string]int{"The Matrix": 3, "Finding Nemo": 3, "The Godfather": 3, "Ex Machina": 3}
	for _, res := range report.Results {
		if !res.QueryFound {
			t.Errorf("%s: query not found", res.Movie)
		}
		if len(res.Top) != 10 {
			t.Errorf("%s: len(Top) = %d, want 10", res.Movie, len(res.Top))
		}
		if got := len(res.Found); got != want[res.Movie] {
			t.Errorf("%s: found %d expected titles, want %d", res.Movie, got, want[res.Movie])
		}
	}
}

func TestRunScenariosMissingMovie(t *testing.T) {
	movies, _ := loadFixtures(t)
	scenarios := []recommend.Scenario{
		{Movie: "Not In Catalog", ExpectedSimilar: []string{"Inception"}},
	}

	report, err := recommend.RunScenarios(context.Background(), newRanker(t), movies, scenarios)
	if err != nil {
		t.Fatalf("RunScenarios() error = %v", err)
	}
	if report.AllPassed() || report.Failed != 1 {
		t.Fatalf("report = %s, want 1 failure", report.Summary())
	}
	if res := report.Results[0]; res.QueryFound || res.Passed || len(res.Found) != 0 {
		t.Errorf("result = %+v", res)
	}
}

func TestRunScenariosThreshold(t *testing.T) {
	movies, _ := loadFixtures(t)
	r := newRanker(t)

	// Two of four expected is exactly half and passes; one of three does not.
	scenarios := []recommend.Scenario{
		{Movie: "The Matrix", ExpectedSimilar: []string{"Inception", "Blade Runner 2049", "Frozen", "Toy Story"}},
		{Movie: "The Matrix", ExpectedSimilar: []string{"Inception", "Frozen", "Toy Story"}},
	}
	report, err := recommend.RunScenarios(context.Background(), r, movies, scenarios)
	if err != nil {
		t.Fatalf("RunScenarios() error = %v", err)
	}
	if !report.Results[0].Passed {
		t.Errorf("half found should pass: %+v", report.Results[0].Found)
	}
	if report.Results[1].Passed {
		t.Errorf("one of three found should fail: %+v", report.Results[1].Found)
	}
}

func titles(top []recommend.ScoredMovie) []string {
	out := make([]string, len(top))
	for i, s := range top {
		out[i] = s.Movie.Title
	}
	return out
}
