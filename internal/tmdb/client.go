// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/cinefeel/internal/config"
	"github.com/tomtom215/cinefeel/internal/metrics"
)

// ErrNotFound is returned when TMDB answers 404 for a movie.
var ErrNotFound = errors.New("tmdb: not found")

// detailAppend is the append_to_response value for movie details.
const detailAppend = "videos,images,keywords,credits"

// maxErrorBodySize limits how much of an error response is read.
const maxErrorBodySize = 64 * 1024

// API is the TMDB surface used by the sync manager.
type API interface {
	PopularMovies(ctx context.Context, page int) (*PopularPage, error)
	MovieDetails(ctx context.Context, id int64) (*MovieDetails, error)
	Ping(ctx context.Context) error
}

// Client talks to the TMDB v3 API. It is safe for concurrent use; all
// goroutines share one rate limiter.
type Client struct {
	baseURL        string
	token          string
	httpClient     *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
	logger         zerolog.Logger
}

// NewClient creates a TMDB client.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewClient(cfg *config.TMDBConfig, logger zerolog.Logger) *Client {
	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		token:          cfg.AccessToken,
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		limiter:        rate.NewLimiter(limit, 1),
		maxRetries:     maxRetries,
		retryBaseDelay: time.Second,
		logger:         logger.With().Str("component", "tmdb").Logger(),
	}
}

// PopularMovies fetches one page of /movie/popular.
func (c *Client) PopularMovies(ctx context.Context, page int) (*PopularPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))

	var out PopularPage
	if err := c.get(ctx, "popular", "/movie/popular", q, &out); err != nil {
		return nil, fmt.Errorf("popular page %d: %w", page, err)
	}
	return &out, nil
}

// MovieDetails fetches a movie with videos, images, keywords and credits.
// A missing movie returns ErrNotFound.
func (c *Client) MovieDetails(ctx context.Context, id int64) (*MovieDetails, error) {
	q := url.Values{}
	q.Set("append_to_response", detailAppend)

	var out MovieDetails
	if err := c.get(ctx, "movie_details", "/movie/"+strconv.FormatInt(id, 10), q, &out); err != nil {
		return nil, fmt.Errorf("movie %d: %w", id, err)
	}
	return &out, nil
}

// Ping checks connectivity and credentials.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.get(ctx, "configuration", "/configuration", nil, nil); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// get performs a rate-limited GET and decodes a 200 response into result.
func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, result interface{}) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	resp, err := c.doRequestWithRateLimit(ctx, endpoint, reqURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("tmdb returned status %d: %s", resp.StatusCode, readBodyForError(resp.Body))
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// doRequestWithRateLimit waits for the limiter, then retries HTTP 429
// responses with exponential backoff (1s, 2s, 4s, ...). A Retry-After header
// in seconds overrides the computed delay.
func (c *Client) doRequestWithRateLimit(ctx context.Context, endpoint, reqURL string) (*http.Response, error) {
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			metrics.RecordTMDBRequest(endpoint, 0, time.Since(start))
			return nil, fmt.Errorf("execute request: %w", err)
		}
		metrics.RecordTMDBRequest(endpoint, resp.StatusCode, time.Since(start))

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		_ = resp.Body.Close() // retrying anyway
		metrics.TMDBRateLimitedTotal.Inc()

		if attempt == c.maxRetries-1 {
			break
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
				delay = time.Duration(seconds) * time.Second
			}
		}

		c.logger.Warn().
			Str("endpoint", endpoint).
			Dur("retry_delay", delay).
			Int("attempt", attempt+1).
			Int("max_attempts", c.maxRetries).
			Msg("TMDB rate limited (HTTP 429), retrying")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("rate limit exceeded after %d attempts (HTTP 429)", c.maxRetries)
}

// readBodyForError reads at most maxErrorBodySize bytes of an error body.
func readBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return "(failed to read response body)"
	}
	return strings.TrimSpace(string(body))
}
