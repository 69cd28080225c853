package match

import (
	"sort"
)

// Candidate is one entry of the candidate pool.
type Candidate struct {
	UserID int32
	Vector Vector
}

// RankedMatch is a retained (candidate, score) pair.
type RankedMatch struct {
	UserID int32
	Score  float64
}

// Rank scores every candidate against the requester vector, orders the
// results by descending score, drops everything at or below the
// similarity threshold and truncates to MaxMatches. Ties keep input
// order so identical input produces identical output.
func Rank(requester Vector, candidates []Candidate) []RankedMatch {
	scored := make([]RankedMatch, 0, len(candidates))
	for _, candidate := range candidates {
		scored = append(scored, RankedMatch{
			UserID: candidate.UserID,
			Score:  CosineSimilarity(requester, candidate.Vector),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	retained := make([]RankedMatch, 0, MaxMatches)
	for _, m := range scored {
		if m.Score <= SimilarityThreshold {
			continue
		}
		retained = append(retained, m)
		if len(retained) == MaxMatches {
			break
		}
	}
	return retained
}
