package search

import (
	"context"
	"math"

	"github.com/rjj101202/appalti-knowledge/storage"
)

// Strategy identifies the retrieval path chosen for one search call.
type Strategy int

const (
	// FallbackRequired scans the chunk repository and scores in process.
	FallbackRequired Strategy = iota

	// NativeIndexAvailable delegates filtering and ranking to the vector
	// index.
	NativeIndexAvailable
)

func (s Strategy) String() string {
	switch s {
	case NativeIndexAvailable:
		return "native-index"
	case FallbackRequired:
		return "fallback-scan"
	default:
		return "unknown"
	}
}

// selectStrategy probes the index and picks the retrieval path. A missing
// index object means the deployment runs without one.
func selectStrategy(ctx context.Context, index storage.VectorIndex) Strategy {
	if index == nil {
		return FallbackRequired
	}
	if !index.Available(ctx) {
		return FallbackRequired
	}
	return NativeIndexAvailable
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// A zero vector on either side scores 0.
func cosineSimilarity(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
