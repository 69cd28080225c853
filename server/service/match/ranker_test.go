package match

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRankOrdersDescending(t *testing.T) {
	requester := Vector{"music:rock": 1.0, "music:jazz": 0.5}
	candidates := []Candidate{
		{UserID: 1, Vector: Vector{"music:rock": 0.2, "music:jazz": 1.0}},
		{UserID: 2, Vector: Vector{"music:rock": 1.0, "music:jazz": 0.5}},
		{UserID: 3, Vector: Vector{"music:rock": 1.0, "music:jazz": 0.4}},
	}

	ranked := Rank(requester, candidates)
	require.NotEmpty(t, ranked)
	for i := 1; i < len(ranked); i++ {
		require.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
	require.Equal(t, int32(2), ranked[0].UserID)
}

func TestRankExcludesAtOrBelowThreshold(t *testing.T) {
	requester := Vector{"music:rock": 1.0}
	candidates := []Candidate{
		// Identical direction, score 1.
		{UserID: 1, Vector: Vector{"music:rock": 0.4}},
		// Disjoint keys, score 0.
		{UserID: 2, Vector: Vector{"music:classical": 1.0}},
		// cos = 1/sqrt(2) ~= 0.7071, just above the threshold.
		{UserID: 3, Vector: Vector{"music:rock": 1.0, "film:noir": 1.0}},
		// cos = 1/2, below the threshold.
		{UserID: 4, Vector: Vector{"music:rock": 1.0, "film:noir": 1.0, "book:scifi": 1.0, "tv:drama": 1.0}},
	}

	ranked := Rank(requester, candidates)
	require.Len(t, ranked, 2)
	require.Equal(t, int32(1), ranked[0].UserID)
	require.Equal(t, int32(3), ranked[1].UserID)
}

func TestRankCapsAtMaxMatches(t *testing.T) {
	requester := Vector{"music:rock": 1.0}
	candidates := make([]Candidate, 0, 8)
	for i := 0; i < 8; i++ {
		candidates = append(candidates, Candidate{
			UserID: int32(i + 1),
			Vector: Vector{"music:rock": float64(i+1) * 0.1},
		})
	}

	ranked := Rank(requester, candidates)
	require.Len(t, ranked, MaxMatches)
	for _, m := range ranked {
		require.InDelta(t, 1.0, m.Score, 1e-9)
	}
}

func TestRankDeterministicOnTies(t *testing.T) {
	requester := Vector{"music:rock": 1.0}
	candidates := []Candidate{
		{UserID: 7, Vector: Vector{"music:rock": 0.3}},
		{UserID: 2, Vector: Vector{"music:rock": 0.9}},
		{UserID: 9, Vector: Vector{"music:rock": 0.5}},
	}

	first := Rank(requester, candidates)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Rank(requester, candidates), fmt.Sprintf("run %d diverged", i))
	}
	// All three score 1.0; stable sort keeps input order.
	require.Equal(t, []int32{7, 2, 9}, []int32{first[0].UserID, first[1].UserID, first[2].UserID})
}

func TestRankEmptyPool(t *testing.T) {
	require.Empty(t, Rank(Vector{"music:rock": 1.0}, nil))
}
