package spotify

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// DeriveVector builds a sparse genre-weight vector from a top-artists
// payload. Each artist contributes its genres with a weight that decays
// with chart position, and the result is normalized so the strongest genre
// has weight 1. Keys are namespaced ("music:indie rock") so later domains
// can share the same vector space.
func DeriveVector(topArtists json.RawMessage) (map[string]float64, error) {
	if len(topArtists) == 0 {
		return map[string]float64{}, nil
	}

	var parsed struct {
		Items []struct {
			Name   string   `json:"name"`
			Genres []string `json:"genres"`
		} `json:"items"`
	}
	if err := json.Unmarshal(topArtists, &parsed); err != nil {
		return nil, errors.Wrap(err, "failed to decode top artists payload")
	}

	weights := map[string]float64{}
	total := len(parsed.Items)
	for rank, artist := range parsed.Items {
		// Linear decay: the #1 artist contributes 1.0, the last ~1/n.
		contribution := float64(total-rank) / float64(total)
		for _, genre := range artist.Genres {
			genre = strings.ToLower(strings.TrimSpace(genre))
			if genre == "" {
				continue
			}
			weights["music:"+genre] += contribution
		}
	}

	var max float64
	for _, w := range weights {
		if w > max {
			max = w
		}
	}
	if max > 0 {
		for key, w := range weights {
			weights[key] = w / max
		}
	}
	return weights, nil
}
