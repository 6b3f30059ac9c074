package vectormath

import (
	"errors"
	"math"
)

// ErrDimensionMismatch indicates the two vectors were produced by
// differently-dimensioned embedding models. That is a configuration
// inconsistency, not a recoverable per-request condition.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Cosine returns the cosine similarity of a and b in [-1, 1].
// An empty or zero-magnitude vector carries no signal and compares
// as 0.0 against everything.
func Cosine(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, nil
	}
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
