// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package tmdb

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinefeel/internal/metrics"
)

// fakeAPI returns err from every call.
type fakeAPI struct {
	err   error
	calls atomic.Int32
}

func (f *fakeAPI) PopularMovies(_ context.Context, page int) (*PopularPage, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &PopularPage{Page: page}, nil
}

func (f *fakeAPI) MovieDetails(_ context.Context, id int64) (*MovieDetails, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &MovieDetails{ID: id}, nil
}

func (f *fakeAPI) Ping(context.Context) error {
	f.calls.Add(1)
	return f.err
}

var _ API = (*Client)(nil)
var _ API = (*CircuitBreakerClient)(nil)

func TestCircuitBreakerPassThrough(t *testing.T) {
	fake := &fakeAPI{}
	cbc := WrapWithCircuitBreaker(fake, "test-pass", zerolog.Nop())

	d, err := cbc.MovieDetails(context.Background(), 42)
	if err != nil || d.ID != 42 {
		t.Fatalf("MovieDetails() = %+v, %v", d, err)
	}
	p, err := cbc.PopularMovies(context.Background(), 2)
	if err != nil || p.Page != 2 {
		t.Fatalf("PopularMovies() = %+v, %v", p, err)
	}
	if err := cbc.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues("test-pass", "success")); got != 3 {
		t.Errorf("success count = %v, want 3", got)
	}
}

func TestCircuitBreakerOpens(t *testing.T) {
	fake := &fakeAPI{err: errors.New("connection refused")}
	cbc := WrapWithCircuitBreaker(fake, "test-open", zerolog.Nop())

	for i := 0; i < 10; i++ {
		if _, err := cbc.MovieDetails(context.Background(), int64(i)); err == nil {
			t.Fatal("expected error from failing API")
		}
	}
	if got := cbc.State(); got != "open" {
		t.Fatalf("State() = %q, want open", got)
	}

	_, err := cbc.MovieDetails(context.Background(), 99)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want ErrOpenState", err)
	}
	if got := fake.calls.Load(); got != 10 {
		t.Errorf("underlying calls = %d, want 10", got)
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("test-open")); got != 2 {
		t.Errorf("state gauge = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues("test-open", "rejected")); got != 1 {
		t.Errorf("rejected = %v, want 1", got)
	}
}

func TestCircuitBreakerIgnoresNotFound(t *testing.T) {
	fake := &fakeAPI{err: ErrNotFound}
	cbc := WrapWithCircuitBreaker(fake, "test-notfound", zerolog.Nop())

	for i := 0; i < 20; i++ {
		_, err := cbc.MovieDetails(context.Background(), int64(i))
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	}
	if got := cbc.State(); got != "closed" {
		t.Errorf("State() = %q, want closed", got)
	}
}

func TestCircuitBreakerBelowMinimumRequests(t *testing.T) {
	fake := &fakeAPI{err: errors.New("boom")}
	cbc := WrapWithCircuitBreaker(fake, "test-min", zerolog.Nop())

	for i := 0; i < 9; i++ {
		_ = cbc.Ping(context.Background())
	}
	if got := cbc.State(); got != "closed" {
		t.Errorf("State() = %q after 9 failures, want closed", got)
	}
}
