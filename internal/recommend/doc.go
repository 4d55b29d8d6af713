// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

// Package recommend ranks movies by content similarity.
//
// # Pipeline
//
// A ranking call runs three stages, all in memory:
//
//   - FeatureExtractor turns a Movie into a bag of tokens. Title and the
//     first 30 overview words contribute one token each; genres and the
//     first 10 keywords are namespaced and repeated to weight them.
//   - HashEmbedder maps tokens into a fixed-length vector with 64-bit
//     FNV-1a feature hashing (three buckets per token, signed) and
//     L2-normalizes the result.
//   - Ranker embeds the query and every candidate, scores candidates by
//     dot product against the query and returns the top K, stable on ties.
//
// The embedding is a deterministic stand-in for a learned model: the same
// movie always produces a bit-identical vector, on any platform, without
// training data.
//
// # Usage
//
//	ranker, err := recommend.NewRanker(recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	top, err := ranker.Rank(ctx, query, catalog, 10)
//
// Nothing is cached between calls. A Ranker is safe for concurrent use.
//
// # Scenarios
//
// RunScenarios replays expected-neighbour scenarios against a catalog and is
// used by cmd/simulate as a regression check for the embedding. The sample
// catalog and scenarios live in the fixtures subpackage.
package recommend
