// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package movieimport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/cinefeel/internal/config"
	"github.com/tomtom215/cinefeel/internal/database"
	"github.com/tomtom215/cinefeel/internal/logging"
	"github.com/tomtom215/cinefeel/internal/models"
)

// mockStore is a test double for Store.
type mockStore struct {
	mu       sync.Mutex
	existing map[int64]struct{}
	batches  [][]models.Movie
	failIDs  map[int64]bool
	err      error

	// block, when set, is received from before each insert.
	block chan struct{}
}

func newMockStore(existing ...int64) *mockStore {
	s := &mockStore{existing: map[int64]struct{}{}, failIDs: map[int64]bool{}}
	for _, id := range existing {
		s.existing[id] = struct{}{}
	}
	return s
}

func (s *mockStore) ExistingMovieIDs(context.Context) (map[int64]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]struct{}, len(s.existing))
	for id := range s.existing {
		out[id] = struct{}{}
	}
	return out, nil
}

func (s *mockStore) InsertMovies(ctx context.Context, movies []models.Movie) (database.SaveResult, error) {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return database.SaveResult{}, ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return database.SaveResult{}, s.err
	}
	var res database.SaveResult
	batch := make([]models.Movie, len(movies))
	copy(batch, movies)
	s.batches = append(s.batches, batch)
	for _, m := range movies {
		switch {
		case s.failIDs[m.TMDBID]:
			res.Failed++
		default:
			if _, ok := s.existing[m.TMDBID]; ok {
				res.Skipped++
				continue
			}
			s.existing[m.TMDBID] = struct{}{}
			res.Saved++
		}
	}
	return res, nil
}

func (s *mockStore) insertedIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	for _, b := range s.batches {
		for _, m := range b {
			ids = append(ids, m.TMDBID)
		}
	}
	return ids
}

func writeCSV(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movies.csv")
	content := "id,title,overview,genres,keywords\n" + strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func numberedRows(from, to int) []string {
	rows := make([]string, 0, to-from+1)
	for id := from; id <= to; id++ {
		rows = append(rows, fmt.Sprintf("%d,Movie %d,Overview %d,Drama,", id, id, id))
	}
	return rows
}

func newTestImporter(cfg *config.ImportConfig, store Store, progress ProgressTracker) *Importer {
	return NewImporter(cfg, store, progress, logging.NewTestLogger(io.Discard))
}

func TestImportInsertsNewMovies(t *testing.T) {
	path := writeCSV(t,
		`603,The Matrix,A hacker learns the truth,"Action, Science Fiction","simulation, hacker"`,
		`27205,Inception,,Action,dream`,
		`,Missing Id,,,`,
		`603,The Matrix (dup),,,`,
		`550,Fight Club,,Drama,`,
	)
	store := newMockStore(550)
	progress := NewInMemoryProgress()
	imp := newTestImporter(&config.ImportConfig{CSVPath: path, BatchSize: 50}, store, progress)

	stats, err := imp.Import(context.Background())
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if stats.TotalRows != 5 || stats.Processed != 5 {
		t.Errorf("TotalRows/Processed = %d/%d, want 5/5", stats.TotalRows, stats.Processed)
	}
	if stats.Imported != 2 {
		t.Errorf("Imported = %d, want 2", stats.Imported)
	}
	// missing id, in-file duplicate and existing id
	if stats.Skipped != 3 {
		t.Errorf("Skipped = %d, want 3", stats.Skipped)
	}
	if stats.Errors != 0 {
		t.Errorf("Errors = %d, want 0", stats.Errors)
	}
	if stats.LastRow != 5 {
		t.Errorf("LastRow = %d, want 5", stats.LastRow)
	}
	if stats.EndTime.IsZero() {
		t.Error("EndTime should be set")
	}

	ids := store.insertedIDs()
	if len(ids) != 2 || ids[0] != 603 || ids[1] != 27205 {
		t.Errorf("inserted ids = %v, want [603 27205]", ids)
	}
	first := store.batches[0][0]
	if len(first.GenreNames) != 2 || first.KeywordNames[1] != "hacker" {
		t.Errorf("name lists not carried: %+v", first)
	}

	// Completed imports leave no progress behind.
	if p, _ := progress.Load(context.Background()); p != nil {
		t.Errorf("progress after completion = %+v, want nil", p)
	}
	if imp.IsRunning() {
		t.Error("IsRunning() should be false after Import returns")
	}
}

func TestImportBatches(t *testing.T) {
	path := writeCSV(t, numberedRows(1, 7)...)
	store := newMockStore()
	imp := newTestImporter(&config.ImportConfig{CSVPath: path, BatchSize: 3}, store, nil)

	stats, err := imp.Import(context.Background())
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if stats.Imported != 7 {
		t.Errorf("Imported = %d, want 7", stats.Imported)
	}
	if len(store.batches) != 3 {
		t.Fatalf("batches = %d, want 3", len(store.batches))
	}
	for i, want := range []int{3, 3, 1} {
		if got := len(store.batches[i]); got != want {
			t.Errorf("batch %d size = %d, want %d", i, got, want)
		}
	}
}

func TestImportCountsFailedRows(t *testing.T) {
	path := writeCSV(t, numberedRows(1, 4)...)
	store := newMockStore()
	store.failIDs[2] = true
	imp := newTestImporter(&config.ImportConfig{CSVPath: path, BatchSize: 10}, store, nil)

	stats, err := imp.Import(context.Background())
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if stats.Imported != 3 || stats.Errors != 1 {
		t.Errorf("Imported/Errors = %d/%d, want 3/1", stats.Imported, stats.Errors)
	}
}

func TestImportStoreError(t *testing.T) {
	path := writeCSV(t, numberedRows(1, 2)...)
	store := newMockStore()
	store.err = errors.New("disk full")
	imp := newTestImporter(&config.ImportConfig{CSVPath: path, BatchSize: 10}, store, nil)

	stats, err := imp.Import(context.Background())
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("Import() error = %v, want disk full", err)
	}
	if stats == nil || stats.Imported != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestImportDryRun(t *testing.T) {
	path := writeCSV(t, numberedRows(1, 5)...)
	store := newMockStore(3)
	progress := NewInMemoryProgress()
	imp := newTestImporter(&config.ImportConfig{CSVPath: path, BatchSize: 2, DryRun: true}, store, progress)

	stats, err := imp.Import(context.Background())
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if !stats.DryRun {
		t.Error("DryRun should be reported")
	}
	if stats.Imported != 4 || stats.Skipped != 1 {
		t.Errorf("Imported/Skipped = %d/%d, want 4/1", stats.Imported, stats.Skipped)
	}
	if len(store.batches) != 0 {
		t.Errorf("dry run wrote %d batches", len(store.batches))
	}
}

func TestImportResumesFromProgress(t *testing.T) {
	path := writeCSV(t, numberedRows(1, 6)...)
	store := newMockStore()
	progress := NewInMemoryProgress()
	if err := progress.Save(context.Background(), &ImportStats{StartTime: time.Now(), LastRow: 4}); err != nil {
		t.Fatal(err)
	}
	imp := newTestImporter(&config.ImportConfig{CSVPath: path, BatchSize: 10}, store, progress)

	stats, err := imp.Import(context.Background())
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	ids := store.insertedIDs()
	if len(ids) != 2 || ids[0] != 5 || ids[1] != 6 {
		t.Errorf("inserted ids = %v, want [5 6]", ids)
	}
	if stats.Processed != 2 || stats.LastRow != 6 {
		t.Errorf("Processed/LastRow = %d/%d, want 2/6", stats.Processed, stats.LastRow)
	}
}

func TestImportSavesProgressPerBatch(t *testing.T) {
	path := writeCSV(t, numberedRows(1, 4)...)
	store := newMockStore()
	store.block = make(chan struct{})
	progress := NewInMemoryProgress()
	imp := newTestImporter(&config.ImportConfig{CSVPath: path, BatchSize: 2}, store, progress)

	errCh := make(chan error, 1)
	go func() {
		_, err := imp.Import(context.Background())
		errCh <- err
	}()

	// Release the first batch, then stop while the second is blocked.
	store.block <- struct{}{}
	deadline := time.Now().Add(5 * time.Second)
	for {
		p, _ := progress.Load(context.Background())
		if p != nil && p.LastRow == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("progress was not saved after the first batch")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := imp.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	select {
	case err := <-errCh:
		if !errors.Is(err, ErrImportStopped) {
			t.Errorf("Import() error = %v, want ErrImportStopped", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Import did not return after Stop")
	}

	p, _ := progress.Load(context.Background())
	if p == nil || p.LastRow != 2 {
		t.Errorf("progress after stop = %+v, want LastRow 2", p)
	}
	if imp.Stats().Imported != 2 {
		t.Errorf("Imported = %d, want 2", imp.Stats().Imported)
	}
}

func TestImportRejectsConcurrentRun(t *testing.T) {
	path := writeCSV(t, numberedRows(1, 1)...)
	store := newMockStore()
	store.block = make(chan struct{})
	imp := newTestImporter(&config.ImportConfig{CSVPath: path, BatchSize: 1}, store, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = imp.Import(context.Background())
	}()

	deadline := time.Now().Add(5 * time.Second)
	for !imp.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("import never started")
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := imp.Import(context.Background()); !errors.Is(err, ErrImportInProgress) {
		t.Errorf("second Import() error = %v, want ErrImportInProgress", err)
	}

	close(store.block)
	<-done
}

func TestStopWithoutImport(t *testing.T) {
	imp := newTestImporter(&config.ImportConfig{BatchSize: 1}, newMockStore(), nil)
	if err := imp.Stop(); !errors.Is(err, ErrNoImportRunning) {
		t.Errorf("Stop() = %v, want ErrNoImportRunning", err)
	}
	if s := imp.Stats(); s == nil || s.Processed != 0 {
		t.Errorf("Stats() before any run = %+v", s)
	}
}

func TestImportMissingFile(t *testing.T) {
	imp := newTestImporter(&config.ImportConfig{CSVPath: filepath.Join(t.TempDir(), "absent.csv"), BatchSize: 1}, newMockStore(), nil)
	if _, err := imp.Import(context.Background()); err == nil || !strings.Contains(err.Error(), "open csv") {
		t.Errorf("Import() error = %v, want open csv error", err)
	}
}

func TestImportCanceledContext(t *testing.T) {
	path := writeCSV(t, numberedRows(1, 3)...)
	imp := newTestImporter(&config.ImportConfig{CSVPath: path, BatchSize: 1}, newMockStore(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := imp.Import(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Import() error = %v, want context.Canceled", err)
	}
}
