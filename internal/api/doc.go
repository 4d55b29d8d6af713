// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

/*
Package api serves the CineFeel HTTP API on a chi router.

Routes:

	GET /api/v1/health              database status and catalog size
	GET /api/v1/health/live         liveness probe
	GET /api/v1/health/ready        readiness probe, 503 while the database is unreachable
	GET /api/v1/movies/{id}         one catalog movie
	GET /api/v1/movies/{id}/similar ranked neighbours, ?k=1..100 (default from config)
	GET /metrics                    Prometheus exposition

Every /api/v1 response uses the models.APIResponse envelope. Errors carry a
code from models.APIError (VALIDATION_ERROR, NOT_FOUND, DATABASE_ERROR,
RANKING_ERROR, RATE_LIMIT_EXCEEDED).

Middleware, outermost first: request id (propagated to the logging context),
real IP, panic recovery, CORS, request logging with Prometheus metrics, and
per-IP rate limiting on /api/v1.
*/
package api
