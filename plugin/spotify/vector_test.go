package spotify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveVector(t *testing.T) {
	payload := json.RawMessage(`{
		"items": [
			{"name": "A", "genres": ["Indie Rock", "shoegaze"]},
			{"name": "B", "genres": ["indie rock"]},
			{"name": "C", "genres": []}
		]
	}`)

	vector, err := DeriveVector(payload)
	require.NoError(t, err)

	// indie rock: 1.0 (rank 0) + 2/3 (rank 1); shoegaze: 1.0. Normalized by 5/3.
	require.InDelta(t, 1.0, vector["music:indie rock"], 1e-9)
	require.InDelta(t, 0.6, vector["music:shoegaze"], 1e-9)
	require.Len(t, vector, 2)
}

func TestDeriveVectorEmpty(t *testing.T) {
	vector, err := DeriveVector(nil)
	require.NoError(t, err)
	require.Empty(t, vector)

	vector, err = DeriveVector(json.RawMessage(`{"items": []}`))
	require.NoError(t, err)
	require.Empty(t, vector)
}

func TestDeriveVectorMalformed(t *testing.T) {
	_, err := DeriveVector(json.RawMessage(`{not json`))
	require.Error(t, err)
}
