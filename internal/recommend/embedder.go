// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

package recommend

import (
	"hash/fnv"
	"math"
)

// signSuffix is appended to a token to derive its sign hash.
const signSuffix = "sign"

// HashEmbedder maps tokens to a fixed-length vector using feature hashing.
//
// Each token hashes (64-bit FNV-1a) to three buckets:
//
//	idx1 = h mod D
//	idx2 = (h / D) mod D
//	idx3 = (h / D²) mod D
//
// and adds sign*w1, sign*w2, sign*w3 to them, where sign is +1 when the hash
// of token+"sign" is even and -1 otherwise. The sum is L2-normalized.
type HashEmbedder struct {
	dims    uint64
	weights [3]float64
}

// NewHashEmbedder creates an embedder. Dimensions below 1 are treated as 1.
func NewHashEmbedder(cfg EmbedderConfig) *HashEmbedder {
	d := cfg.Dimensions
	if d < 1 {
		d = 1
	}
	return &HashEmbedder{dims: uint64(d), weights: cfg.Weights}
}

// Dimensions returns the vector length.
func (e *HashEmbedder) Dimensions() int {
	return int(e.dims)
}

// Embed returns the normalized embedding of tokens. With no tokens, or when
// contributions cancel out, the zero vector is returned.
func (e *HashEmbedder) Embed(tokens []string) Vector {
	v := make(Vector, e.dims)
	d := e.dims

	for _, tok := range tokens {
		h := fnv64a(tok)
		sign := 1.0
		if fnv64a(tok+signSuffix)%2 != 0 {
			sign = -1.0
		}

		v[h%d] += sign * e.weights[0]
		v[(h/d)%d] += sign * e.weights[1]
		v[(h/(d*d))%d] += sign * e.weights[2]
	}

	if n := Norm(v); n > 0 {
		for i := range v {
			v[i] /= n
		}
	}
	return v
}

func fnv64a(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s)) // hash.Hash never returns an error
	return h.Sum64()
}

// Dot returns the dot product of a and b over their common length.
func Dot(a, b Vector) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// Norm returns the Euclidean norm of v.
func Norm(v Vector) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
