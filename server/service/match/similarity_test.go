package match

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseVector(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Vector
	}{
		{name: "empty string", raw: "", want: Vector{}},
		{name: "json null", raw: "null", want: Vector{}},
		{name: "empty object", raw: "{}", want: Vector{}},
		{name: "malformed", raw: "{not json", want: Vector{}},
		{name: "valid", raw: `{"music:rock":0.8,"film:noir":0.3}`, want: Vector{"music:rock": 0.8, "film:noir": 0.3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ParseVector(tt.raw))
		})
	}
}

func TestCosineSimilarityIdentical(t *testing.T) {
	v := Vector{"music:rock": 0.9, "music:jazz": 0.5, "film:noir": 0.2}
	require.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
}

func TestCosineSimilarityEmpty(t *testing.T) {
	v := Vector{"music:rock": 0.9}
	require.Zero(t, CosineSimilarity(v, Vector{}))
	require.Zero(t, CosineSimilarity(Vector{}, v))
	require.Zero(t, CosineSimilarity(Vector{}, Vector{}))
}

func TestCosineSimilarityZeroMagnitude(t *testing.T) {
	zero := Vector{"music:rock": 0}
	v := Vector{"music:rock": 0.9}
	require.Zero(t, CosineSimilarity(zero, v))
	require.Zero(t, CosineSimilarity(v, zero))
}

func TestCosineSimilarityDisjointKeys(t *testing.T) {
	rock := Vector{"music:rock": 0.9, "music:metal": 0.7}
	classical := Vector{"music:classical": 0.9, "music:opera": 0.6}
	require.Zero(t, CosineSimilarity(rock, classical))
}

func TestCosineSimilaritySymmetricOnSharedKeySet(t *testing.T) {
	a := Vector{"music:rock": 0.9, "music:jazz": 0.2}
	b := Vector{"music:rock": 0.5, "music:jazz": 0.8}
	require.InDelta(t, CosineSimilarity(a, b), CosineSimilarity(b, a), 1e-12)
}

// Missing keys count as zero weight, so swapping arguments never changes
// the score even when dimensionality differs.
func TestCosineSimilaritySymmetricOnPartialOverlap(t *testing.T) {
	a := Vector{"music:rock": 1.0}
	b := Vector{"music:rock": 1.0, "film:noir": 1.0}

	ab := CosineSimilarity(a, b)
	require.InDelta(t, 1.0/math.Sqrt2, ab, 1e-9)
	require.InDelta(t, ab, CosineSimilarity(b, a), 1e-9)

	// Unshared keys on both sides inflate the magnitudes but not the dot
	// product.
	c := Vector{"music:rock": 1.0, "music:jazz": 1.0}
	d := Vector{"music:rock": 1.0, "film:noir": 1.0}
	require.InDelta(t, 0.5, CosineSimilarity(c, d), 1e-9)
}

func TestCosineSimilarityKnownValue(t *testing.T) {
	a := Vector{"music:rock": 3, "music:jazz": 4}
	b := Vector{"music:rock": 4, "music:jazz": 3}
	// dot = 24, |a| = |b| = 5
	require.InDelta(t, 0.96, CosineSimilarity(a, b), 1e-9)
}
