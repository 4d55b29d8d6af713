// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package services

import (
	"context"
	"fmt"
)

// Runner is satisfied by *sync.Manager.
type Runner interface {
	// Run blocks until ctx is canceled, syncing on its own schedule.
	Run(ctx context.Context) error
}

// SyncService runs the TMDB sync manager under supervision.
type SyncService struct {
	manager Runner
	name    string
}

// NewSyncService wraps manager.
func NewSyncService(manager Runner) *SyncService {
	return &SyncService{
		manager: manager,
		name:    "tmdb-sync",
	}
}

// Serve runs the manager. A return before ctx is canceled is a failure.
func (s *SyncService) Serve(ctx context.Context) error {
	err := s.manager.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("sync manager stopped: %w", err)
	}
	return fmt.Errorf("sync manager returned before shutdown")
}

func (s *SyncService) String() string {
	return s.name
}
