// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package main

import (
	"path/filepath"
	"testing"
)

func TestStateStoresShareDirectory(t *testing.T) {
	stores := newStateStores()
	defer stores.Close()

	dir := filepath.Join(t.TempDir(), "state")
	a, err := stores.Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	b, err := stores.Open(dir + "/")
	if err != nil {
		t.Fatalf("Open() second call error = %v", err)
	}
	if a != b {
		t.Error("the same directory should return the same store")
	}
}

func TestStateStoresInMemoryAreSeparate(t *testing.T) {
	stores := newStateStores()
	defer stores.Close()

	a, err := stores.Open("")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	b, err := stores.Open("")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if a == b {
		t.Error("empty paths should get separate in-memory stores")
	}
	if len(stores.all) != 2 {
		t.Errorf("tracked %d stores, want 2", len(stores.all))
	}
}
