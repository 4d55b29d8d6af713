// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package movieimport

import (
	"context"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/cinefeel/internal/kvstore"
)

const progressKey = "import:csv:progress"

// ProgressTracker persists import progress between runs.
type ProgressTracker interface {
	Save(ctx context.Context, stats *ImportStats) error

	// Load returns nil, nil when nothing was saved.
	Load(ctx context.Context) (*ImportStats, error)

	Clear(ctx context.Context) error
}

// BadgerProgress stores progress in BadgerDB so an import survives restarts.
type BadgerProgress struct {
	db *badger.DB
}

// NewBadgerProgress uses an open BadgerDB.
func NewBadgerProgress(db *badger.DB) *BadgerProgress {
	return &BadgerProgress{db: db}
}

// Save persists stats.
func (p *BadgerProgress) Save(ctx context.Context, stats *ImportStats) error {
	return kvstore.PutJSON(ctx, p.db, progressKey, stats)
}

// Load returns the saved stats, or nil.
func (p *BadgerProgress) Load(ctx context.Context) (*ImportStats, error) {
	var stats ImportStats
	found, err := kvstore.GetJSON(ctx, p.db, progressKey, &stats)
	if err != nil || !found {
		return nil, err
	}
	return &stats, nil
}

// Clear removes saved progress.
func (p *BadgerProgress) Clear(ctx context.Context) error {
	return kvstore.Delete(ctx, p.db, progressKey)
}

// InMemoryProgress keeps progress for the life of the process.
type InMemoryProgress struct {
	mu    sync.Mutex
	stats *ImportStats
}

// NewInMemoryProgress creates an empty tracker.
func NewInMemoryProgress() *InMemoryProgress {
	return &InMemoryProgress{}
}

// Save stores a copy of stats.
func (p *InMemoryProgress) Save(_ context.Context, stats *ImportStats) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	c := *stats
	p.stats = &c
	return nil
}

// Load returns a copy of the stored stats, or nil.
func (p *InMemoryProgress) Load(_ context.Context) (*ImportStats, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stats == nil {
		return nil, nil
	}
	c := *p.stats
	return &c, nil
}

// Clear drops the stored stats.
func (p *InMemoryProgress) Clear(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats = nil
	return nil
}
