// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package sync

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

// completedPrefix prefixes one key per backfilled movie.
const completedPrefix = "backfill:done:"

// RunLog records which movies the backfill has processed.
type RunLog interface {
	Load(ctx context.Context) (map[int64]struct{}, error)
	MarkCompleted(ctx context.Context, ids []int64) error
	Clear(ctx context.Context) error
}

// BadgerRunLog keeps the run log in BadgerDB, one key per movie.
type BadgerRunLog struct {
	db *badger.DB
}

// NewBadgerRunLog uses an open BadgerDB.
func NewBadgerRunLog(db *badger.DB) *BadgerRunLog {
	return &BadgerRunLog{db: db}
}

// Load returns the completed ids.
func (r *BadgerRunLog) Load(ctx context.Context) (map[int64]struct{}, error) {
	done := make(map[int64]struct{})
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(completedPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := string(it.Item().Key())
			id, err := strconv.ParseInt(strings.TrimPrefix(key, completedPrefix), 10, 64)
			if err != nil {
				continue
			}
			done[id] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load run log: %w", err)
	}
	return done, nil
}

// MarkCompleted records ids in one write batch.
func (r *BadgerRunLog) MarkCompleted(ctx context.Context, ids []int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	wb := r.db.NewWriteBatch()
	defer wb.Cancel()
	for _, id := range ids {
		if err := wb.Set([]byte(completedPrefix+strconv.FormatInt(id, 10)), nil); err != nil {
			return fmt.Errorf("mark %d completed: %w", id, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush run log: %w", err)
	}
	return nil
}

// Clear forgets every completed id.
func (r *BadgerRunLog) Clear(_ context.Context) error {
	if err := r.db.DropPrefix([]byte(completedPrefix)); err != nil {
		return fmt.Errorf("clear run log: %w", err)
	}
	return nil
}

// InMemoryRunLog keeps the run log for the life of the process.
type InMemoryRunLog struct {
	mu   sync.Mutex
	done map[int64]struct{}
}

// NewInMemoryRunLog creates an empty run log.
func NewInMemoryRunLog() *InMemoryRunLog {
	return &InMemoryRunLog{done: make(map[int64]struct{})}
}

// Load returns a copy of the completed ids.
func (r *InMemoryRunLog) Load(_ context.Context) (map[int64]struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int64]struct{}, len(r.done))
	for id := range r.done {
		out[id] = struct{}{}
	}
	return out, nil
}

// MarkCompleted records ids.
func (r *InMemoryRunLog) MarkCompleted(_ context.Context, ids []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		r.done[id] = struct{}{}
	}
	return nil
}

// Clear forgets every completed id.
func (r *InMemoryRunLog) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done = make(map[int64]struct{})
	return nil
}
