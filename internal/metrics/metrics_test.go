// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

func getHistogramCount(t *testing.T, h prometheus.Observer) uint64 {
	t.Helper()
	m, ok := h.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T is not a metric", h)
	}
	var pb io_prometheus_client.Metric
	if err := m.Write(&pb); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return pb.GetHistogram().GetSampleCount()
}

func TestRecordTMDBRequest(t *testing.T) {
	before := testutil.ToFloat64(TMDBRequestsTotal.WithLabelValues("test_details", "200"))
	beforeErr := testutil.ToFloat64(TMDBRequestsTotal.WithLabelValues("test_details", "error"))

	RecordTMDBRequest("test_details", 200, 20*time.Millisecond)
	RecordTMDBRequest("test_details", 0, time.Millisecond)

	if got := testutil.ToFloat64(TMDBRequestsTotal.WithLabelValues("test_details", "200")); got != before+1 {
		t.Errorf("status 200 counter = %v, want %v", got, before+1)
	}
	if got := testutil.ToFloat64(TMDBRequestsTotal.WithLabelValues("test_details", "error")); got != beforeErr+1 {
		t.Errorf("error counter = %v, want %v", got, beforeErr+1)
	}
	if n := getHistogramCount(t, TMDBRequestDuration.WithLabelValues("test_details")); n < 2 {
		t.Errorf("duration sample count = %d, want >= 2", n)
	}
}

func TestRecordDBQuery(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("test_insert"))

	RecordDBQuery("test_insert", time.Millisecond, nil)
	if got := testutil.ToFloat64(DBQueryErrors.WithLabelValues("test_insert")); got != before {
		t.Errorf("error counter changed on success: %v -> %v", before, got)
	}

	RecordDBQuery("test_insert", time.Millisecond, errors.New("boom"))
	if got := testutil.ToFloat64(DBQueryErrors.WithLabelValues("test_insert")); got != before+1 {
		t.Errorf("error counter = %v, want %v", got, before+1)
	}
}

func TestRecordSyncOperation(t *testing.T) {
	saved := testutil.ToFloat64(SyncMoviesTotal.WithLabelValues("test_popular", "saved"))
	failed := testutil.ToFloat64(SyncMoviesTotal.WithLabelValues("test_popular", "failed"))

	RecordSyncOperation("test_popular", time.Second, 5, 2, 1, nil)

	if got := testutil.ToFloat64(SyncMoviesTotal.WithLabelValues("test_popular", "saved")); got != saved+5 {
		t.Errorf("saved = %v, want %v", got, saved+5)
	}
	if got := testutil.ToFloat64(SyncMoviesTotal.WithLabelValues("test_popular", "failed")); got != failed+1 {
		t.Errorf("failed = %v, want %v", got, failed+1)
	}
	if ts := testutil.ToFloat64(SyncLastSuccess.WithLabelValues("test_popular")); ts <= 0 {
		t.Errorf("last success timestamp = %v, want > 0", ts)
	}
}

func TestRecordSyncOperationFailureKeepsLastSuccess(t *testing.T) {
	SyncLastSuccess.WithLabelValues("test_failing").Set(42)
	RecordSyncOperation("test_failing", time.Second, 0, 0, 3, errors.New("tmdb down"))
	if ts := testutil.ToFloat64(SyncLastSuccess.WithLabelValues("test_failing")); ts != 42 {
		t.Errorf("last success timestamp = %v, want 42", ts)
	}
}

func TestRecordRank(t *testing.T) {
	before := getHistogramCount(t, RankCandidates)
	RecordRank(20, 3*time.Millisecond)
	if got := getHistogramCount(t, RankCandidates); got != before+1 {
		t.Errorf("candidate samples = %d, want %d", got, before+1)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/test", "404"))
	RecordAPIRequest("GET", "/test", 404, time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/test", "404")); got != before+1 {
		t.Errorf("api counter = %v, want %v", got, before+1)
	}
}
