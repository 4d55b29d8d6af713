// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package tmdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinefeel/internal/config"
	"github.com/tomtom215/cinefeel/internal/metrics"
)

// breakerName labels the circuit breaker metrics.
const breakerName = "tmdb-api"

// CircuitBreakerClient wraps Client with a circuit breaker so a failing TMDB
// is not hammered by every sync worker.
//
// Settings:
//   - Max 3 requests in half-open state
//   - Counts reset every minute while closed
//   - 2 minute open period before probing again
//   - Opens at >= 60% failures with at least 10 requests
//
// ErrNotFound and context cancellation are not failures.
type CircuitBreakerClient struct {
	client API
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
	logger zerolog.Logger
}

// NewCircuitBreakerClient creates a TMDB client with circuit breaker protection.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCircuitBreakerClient(cfg *config.TMDBConfig, logger zerolog.Logger) *CircuitBreakerClient {
	return WrapWithCircuitBreaker(NewClient(cfg, logger), breakerName, logger)
}

// WrapWithCircuitBreaker puts an existing API implementation behind a
// circuit breaker named name.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func WrapWithCircuitBreaker(client API, name string, logger zerolog.Logger) *CircuitBreakerClient {
	log := logger.With().Str("component", "tmdb").Str("breaker", name).Logger()

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= 0.6 {
				log.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("Opening circuit")
				return true
			}
			return false
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			log.Info().Str("from", fromStr).Str("to", toStr).Msg("Circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},

		IsSuccessful: isSuccessful,
	})

	return &CircuitBreakerClient{client: client, cb: cb, name: name, logger: log}
}

func isSuccessful(err error) bool {
	return err == nil ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, context.Canceled)
}

// State returns the breaker state as closed, half-open or open.
func (cbc *CircuitBreakerClient) State() string {
	return stateToString(cbc.cb.State())
}

func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
		cbc.logger.Debug().Err(err).Msg("Request rejected by circuit breaker")
	case isSuccessful(err):
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
	}

	return result, err
}

// castResult type-asserts a breaker result.
func castResult[T any](result interface{}, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// PopularMovies fetches a popular page with circuit breaker protection.
func (cbc *CircuitBreakerClient) PopularMovies(ctx context.Context, page int) (*PopularPage, error) {
	return castResult[PopularPage](cbc.execute(func() (interface{}, error) {
		return cbc.client.PopularMovies(ctx, page)
	}))
}

// MovieDetails fetches movie details with circuit breaker protection.
func (cbc *CircuitBreakerClient) MovieDetails(ctx context.Context, id int64) (*MovieDetails, error) {
	return castResult[MovieDetails](cbc.execute(func() (interface{}, error) {
		return cbc.client.MovieDetails(ctx, id)
	}))
}

// Ping checks connectivity with circuit breaker protection.
func (cbc *CircuitBreakerClient) Ping(ctx context.Context) error {
	_, err := cbc.execute(func() (interface{}, error) {
		return nil, cbc.client.Ping(ctx)
	})
	return err
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
