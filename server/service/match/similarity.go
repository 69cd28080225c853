package match

import (
	"encoding/json"
	"math"
)

const (
	// SimilarityThreshold is the minimum score (exclusive) for a candidate
	// to count as a taste twin.
	SimilarityThreshold = 0.7
	// MaxMatches caps the number of twins returned by one run.
	MaxMatches = 5
)

// Vector is a sparse preference vector: category key -> non-negative weight.
// Dimensionality varies per user; keys present in one vector need not be
// present in another.
type Vector map[string]float64

// ParseVector decodes a stored JSON vector. An empty, "null" or malformed
// payload yields an empty vector rather than an error: such profiles score
// zero against everything instead of failing the whole run.
func ParseVector(raw string) Vector {
	if raw == "" {
		return Vector{}
	}
	var v Vector
	if err := json.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return Vector{}
	}
	return v
}

// CosineSimilarity computes cosine similarity over the sparse key space.
// Keys absent from a vector are treated as zero weight: the dot product
// iterates a's keys (missing b entries read as zero), each magnitude is
// taken over its own vector's keys. Vectors of different dimensionality
// compare fine; disjoint key sets score zero.
func CosineSimilarity(a, b Vector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	var dotProduct, magnitudeA, magnitudeB float64
	for key, valA := range a {
		valB := b[key]
		dotProduct += valA * valB
		magnitudeA += valA * valA
	}
	for _, valB := range b {
		magnitudeB += valB * valB
	}

	magnitudeA = math.Sqrt(magnitudeA)
	magnitudeB = math.Sqrt(magnitudeB)

	if magnitudeA == 0 || magnitudeB == 0 {
		return 0
	}
	return dotProduct / (magnitudeA * magnitudeB)
}
