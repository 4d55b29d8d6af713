// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/cinefeel/internal/config"
	"github.com/tomtom215/cinefeel/internal/database"
	"github.com/tomtom215/cinefeel/internal/logging"
	"github.com/tomtom215/cinefeel/internal/models"
	"github.com/tomtom215/cinefeel/internal/tmdb"
)

// fakeAPI serves popular pages and details from maps.
type fakeAPI struct {
	pages      map[int][]int64
	pageErr    map[int]error
	detailErr  map[int64]error
	delay      time.Duration
	detailHits atomic.Int32

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		pages:     map[int][]int64{},
		pageErr:   map[int]error{},
		detailErr: map[int64]error{},
	}
}

func (f *fakeAPI) PopularMovies(ctx context.Context, page int) (*tmdb.PopularPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.pageErr[page]; err != nil {
		return nil, err
	}
	p := &tmdb.PopularPage{Page: page}
	for _, id := range f.pages[page] {
		p.Results = append(p.Results, tmdb.MovieSummary{ID: id, Title: fmt.Sprintf("Movie %d", id)})
	}
	return p, nil
}

func (f *fakeAPI) MovieDetails(ctx context.Context, id int64) (*tmdb.MovieDetails, error) {
	f.detailHits.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		cur := f.maxInFlight.Load()
		if n <= cur || f.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := f.detailErr[id]; err != nil {
		return nil, err
	}
	return &tmdb.MovieDetails{
		ID:     id,
		Title:  fmt.Sprintf("Movie %d", id),
		Genres: []models.Genre{{ID: 18, Name: "Drama"}},
	}, nil
}

func (f *fakeAPI) Ping(context.Context) error { return nil }

// fakeStore records what the manager saves.
type fakeStore struct {
	mu         sync.Mutex
	existing   map[int64]bool
	ids        []int64
	saved      []int64
	related    []int64
	relatedErr error
	saveCalls  int
}

func newFakeStore(ids ...int64) *fakeStore {
	s := &fakeStore{existing: map[int64]bool{}, ids: ids}
	for _, id := range ids {
		s.existing[id] = true
	}
	return s
}

func (s *fakeStore) SaveDetails(_ context.Context, details []models.MovieDetail) (database.SaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCalls++
	var res database.SaveResult
	for _, d := range details {
		if s.existing[d.TMDBID] {
			res.Skipped++
			continue
		}
		s.existing[d.TMDBID] = true
		s.saved = append(s.saved, d.TMDBID)
		res.Saved++
	}
	return res, nil
}

func (s *fakeStore) SaveRelated(_ context.Context, details []models.MovieDetail) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.relatedErr != nil {
		return s.relatedErr
	}
	for _, d := range details {
		s.related = append(s.related, d.TMDBID)
	}
	return nil
}

func (s *fakeStore) MovieIDs(context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]int64(nil), s.ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *fakeStore) savedIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]int64(nil), s.saved...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func testSyncConfig() *config.SyncConfig {
	return &config.SyncConfig{
		StartPage:       1,
		Pages:           2,
		PageWorkers:     2,
		DetailWorkers:   3,
		BackfillEnabled: true,
		BackfillWorkers: 2,
		BatchSize:       2,
		Interval:        time.Hour,
	}
}

func newTestManager(api tmdb.API, store Store, runLog RunLog, cfg *config.SyncConfig) *Manager {
	return NewManager(api, store, runLog, cfg, logging.NewTestLogger(io.Discard))
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFetchPopular(t *testing.T) {
	api := newFakeAPI()
	api.pages[1] = []int64{10, 11, 12}
	api.pages[2] = []int64{20, 21}
	api.detailErr[12] = tmdb.ErrNotFound
	api.detailErr[21] = errors.New("tmdb returned status 500: boom")

	store := newFakeStore(11)
	m := newTestManager(api, store, nil, testSyncConfig())

	stats, err := m.FetchPopular(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("FetchPopular() error = %v", err)
	}

	if stats.Pages != 2 || stats.PagesFailed != 0 {
		t.Errorf("Pages/PagesFailed = %d/%d, want 2/0", stats.Pages, stats.PagesFailed)
	}
	if stats.Listed != 5 {
		t.Errorf("Listed = %d, want 5", stats.Listed)
	}
	if stats.Saved != 2 || stats.Skipped != 1 {
		t.Errorf("Saved/Skipped = %d/%d, want 2/1", stats.Saved, stats.Skipped)
	}
	if stats.NotFound != 1 || stats.FetchErrors != 1 {
		t.Errorf("NotFound/FetchErrors = %d/%d, want 1/1", stats.NotFound, stats.FetchErrors)
	}
	if got := store.savedIDs(); !equalIDs(got, []int64{10, 20}) {
		t.Errorf("saved ids = %v, want [10 20]", got)
	}
	if store.saveCalls != 2 {
		t.Errorf("SaveDetails calls = %d, want one per page", store.saveCalls)
	}
	if stats.Duration <= 0 {
		t.Error("Duration should be set")
	}
}

func TestFetchPopularDetailWorkersBound(t *testing.T) {
	api := newFakeAPI()
	for id := int64(1); id <= 12; id++ {
		api.pages[1] = append(api.pages[1], id)
	}
	api.delay = 10 * time.Millisecond

	cfg := testSyncConfig()
	cfg.DetailWorkers = 3
	m := newTestManager(api, newFakeStore(), nil, cfg)

	if _, err := m.FetchPopular(context.Background(), 1, 1); err != nil {
		t.Fatalf("FetchPopular() error = %v", err)
	}
	if got := api.maxInFlight.Load(); got > 3 {
		t.Errorf("max concurrent detail requests = %d, want <= 3", got)
	}
	if got := api.detailHits.Load(); got != 12 {
		t.Errorf("detail requests = %d, want 12", got)
	}
}

func TestFetchPopularPageFailure(t *testing.T) {
	api := newFakeAPI()
	api.pages[1] = []int64{1}
	api.pageErr[2] = errors.New("tmdb returned status 503: unavailable")
	store := newFakeStore()
	m := newTestManager(api, store, nil, testSyncConfig())

	stats, err := m.FetchPopular(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("FetchPopular() error = %v, want nil with one good page", err)
	}
	if stats.PagesFailed != 1 || stats.Saved != 1 {
		t.Errorf("PagesFailed/Saved = %d/%d, want 1/1", stats.PagesFailed, stats.Saved)
	}
}

func TestFetchPopularAllPagesFail(t *testing.T) {
	api := newFakeAPI()
	api.pageErr[1] = errors.New("circuit breaker is open")
	m := newTestManager(api, newFakeStore(), nil, testSyncConfig())

	_, err := m.FetchPopular(context.Background(), 1, 1)
	if err == nil {
		t.Fatal("FetchPopular() should fail when every page fails")
	}
}

func TestFetchPopularCanceled(t *testing.T) {
	api := newFakeAPI()
	api.pages[1] = []int64{1, 2, 3}
	m := newTestManager(api, newFakeStore(), nil, testSyncConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.FetchPopular(ctx, 1, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("FetchPopular() error = %v, want context.Canceled", err)
	}
}

func TestBackfill(t *testing.T) {
	api := newFakeAPI()
	api.detailErr[4] = tmdb.ErrNotFound
	api.detailErr[5] = errors.New("timeout")

	store := newFakeStore(1, 2, 3, 4, 5)
	runLog := NewInMemoryRunLog()
	if err := runLog.MarkCompleted(context.Background(), []int64{1}); err != nil {
		t.Fatal(err)
	}
	m := newTestManager(api, store, runLog, testSyncConfig())

	stats, err := m.Backfill(context.Background())
	if err != nil {
		t.Fatalf("Backfill() error = %v", err)
	}

	if stats.Catalog != 5 || stats.AlreadyDone != 1 || stats.Remaining() != 4 {
		t.Errorf("Catalog/AlreadyDone/Remaining = %d/%d/%d", stats.Catalog, stats.AlreadyDone, stats.Remaining())
	}
	if stats.Batches != 2 {
		t.Errorf("Batches = %d, want 2", stats.Batches)
	}
	if stats.Updated != 2 || stats.NotFound != 1 || stats.FetchErrors != 1 {
		t.Errorf("Updated/NotFound/FetchErrors = %d/%d/%d, want 2/1/1", stats.Updated, stats.NotFound, stats.FetchErrors)
	}

	done, _ := runLog.Load(context.Background())
	for _, id := range []int64{1, 2, 3, 4} {
		if _, ok := done[id]; !ok {
			t.Errorf("run log is missing %d", id)
		}
	}
	if _, ok := done[5]; ok {
		t.Error("movie with a transient error should not be marked completed")
	}

	// A second pass only retries the failed movie.
	delete(api.detailErr, 5)
	before := api.detailHits.Load()
	stats, err = m.Backfill(context.Background())
	if err != nil {
		t.Fatalf("second Backfill() error = %v", err)
	}
	if hits := api.detailHits.Load() - before; hits != 1 {
		t.Errorf("second pass detail requests = %d, want 1", hits)
	}
	if stats.Updated != 1 {
		t.Errorf("second pass Updated = %d, want 1", stats.Updated)
	}
}

func TestBackfillSaveFailureKeepsBatchPending(t *testing.T) {
	api := newFakeAPI()
	store := newFakeStore(1, 2)
	store.relatedErr = errors.New("database is locked")
	runLog := NewInMemoryRunLog()
	m := newTestManager(api, store, runLog, testSyncConfig())

	stats, err := m.Backfill(context.Background())
	if err != nil {
		t.Fatalf("Backfill() error = %v", err)
	}
	if stats.BatchesFailed != 1 {
		t.Errorf("BatchesFailed = %d, want 1", stats.BatchesFailed)
	}
	if done, _ := runLog.Load(context.Background()); len(done) != 0 {
		t.Errorf("run log = %v, want empty", done)
	}
}

func TestBackfillNothingToDo(t *testing.T) {
	api := newFakeAPI()
	store := newFakeStore(1)
	runLog := NewInMemoryRunLog()
	_ = runLog.MarkCompleted(context.Background(), []int64{1})
	m := newTestManager(api, store, runLog, testSyncConfig())

	stats, err := m.Backfill(context.Background())
	if err != nil {
		t.Fatalf("Backfill() error = %v", err)
	}
	if stats.Batches != 0 || api.detailHits.Load() != 0 {
		t.Errorf("Batches = %d, detail requests = %d; want none", stats.Batches, api.detailHits.Load())
	}
}

func TestRunOnceRejectsOverlap(t *testing.T) {
	api := newFakeAPI()
	api.pages[1] = []int64{1}
	api.delay = 200 * time.Millisecond
	m := newTestManager(api, newFakeStore(), nil, testSyncConfig())

	errCh := make(chan error, 1)
	go func() { errCh <- m.RunOnce(context.Background()) }()

	deadline := time.Now().Add(5 * time.Second)
	for api.inFlight.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first pass never started")
		}
		time.Sleep(time.Millisecond)
	}

	if err := m.RunOnce(context.Background()); !errors.Is(err, ErrSyncInProgress) {
		t.Errorf("overlapping RunOnce() = %v, want ErrSyncInProgress", err)
	}
	if _, err := m.Backfill(context.Background()); !errors.Is(err, ErrSyncInProgress) {
		t.Errorf("overlapping Backfill() = %v, want ErrSyncInProgress", err)
	}

	if err := <-errCh; err != nil {
		t.Fatalf("first RunOnce() error = %v", err)
	}
	if m.LastRun().IsZero() {
		t.Error("LastRun() should be set after a successful pass")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	api := newFakeAPI()
	api.pages[1] = []int64{1}
	store := newFakeStore()
	cfg := testSyncConfig()
	cfg.Pages = 1
	cfg.Interval = 10 * time.Millisecond
	m := newTestManager(api, store, nil, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- m.Run(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for m.LastRun().IsZero() {
		if time.Now().After(deadline) {
			t.Fatal("Run never completed a pass")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	if got := store.savedIDs(); !equalIDs(got, []int64{1}) {
		t.Errorf("saved ids = %v, want [1]", got)
	}
}

func TestFetchStatsMoviesPerSecond(t *testing.T) {
	if got := (FetchStats{Saved: 50, Duration: 5 * time.Second}).MoviesPerSecond(); got != 10 {
		t.Errorf("MoviesPerSecond() = %v, want 10", got)
	}
	if got := (FetchStats{Saved: 5}).MoviesPerSecond(); got != 0 {
		t.Errorf("MoviesPerSecond() with zero duration = %v, want 0", got)
	}
}
