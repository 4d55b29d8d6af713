// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/cinefeel/internal/models"
)

// Health reports database connectivity and the catalog size. It always
// answers 200; Status is "degraded" when the database cannot be reached.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	health := models.HealthStatus{
		Status:   "healthy",
		Database: "connected",
		Version:  h.version,
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
	}

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("Health check: database ping failed")
		health.Status = "degraded"
		health.Database = "disconnected"
	} else if n, err := h.store.CountMovies(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("Health check: movie count failed")
		health.Status = "degraded"
	} else {
		health.MovieCount = n
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     health,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthLive answers 200 while the process is running.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthReady answers 503 until the database responds to a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "Database is not reachable", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]interface{}{"ready": true},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
