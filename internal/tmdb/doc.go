// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

/*
Package tmdb is a client for the subset of The Movie Database v3 API used to
populate the catalog.

Endpoints:
  - GET /movie/popular?page=N: one page of popular movie summaries
  - GET /movie/{id}?append_to_response=videos,images,keywords,credits
  - GET /configuration: connectivity check

Resilience:
  - Rate limiting: golang.org/x/time/rate token bucket (TMDB_RATE_LIMIT, burst 1)
  - HTTP 429: exponential backoff 1s, 2s, 4s, ... honouring Retry-After,
    at most TMDB_MAX_RETRIES attempts
  - Circuit breaker: CircuitBreakerClient (sony/gobreaker) opens at a 60%
    failure rate over at least 10 requests; 404 responses do not count
  - Context: every call is cancellable, including backoff waits

Both Client and CircuitBreakerClient implement API, which is what the sync
package depends on.
*/
package tmdb
