package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unv3iled/cortex/internal/profile"
)

// matchRecorder captures the upsert the store layer hands to the driver.
type matchRecorder struct {
	Driver
	got *UpsertMatch
}

func (r *matchRecorder) Close() error { return nil }

func (r *matchRecorder) UpsertMatch(_ context.Context, upsert *UpsertMatch) (*Match, error) {
	r.got = upsert
	return &Match{
		UserA:           upsert.UserA,
		UserB:           upsert.UserB,
		SimilarityScore: upsert.SimilarityScore,
		Status:          MatchStatusPending,
	}, nil
}

func TestUpsertMatchCanonicalizesPair(t *testing.T) {
	tests := []struct {
		name  string
		userA int32
		userB int32
		wantA int32
		wantB int32
	}{
		{name: "already ordered", userA: 1, userB: 2, wantA: 1, wantB: 2},
		{name: "reversed", userA: 9, userB: 3, wantA: 3, wantB: 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := &matchRecorder{}
			s := New(recorder, &profile.Profile{Mode: "dev"})
			defer s.Close()

			m, err := s.UpsertMatch(context.Background(), &UpsertMatch{
				UserA:           tt.userA,
				UserB:           tt.userB,
				SimilarityScore: 0.85,
			})
			require.NoError(t, err)
			require.NotNil(t, recorder.got)
			require.Equal(t, tt.wantA, recorder.got.UserA)
			require.Equal(t, tt.wantB, recorder.got.UserB)
			require.Equal(t, tt.wantA, m.UserA)
			require.Equal(t, tt.wantB, m.UserB)
		})
	}
}
