package recommend

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/unv3iled/cortex/plugin/qloo"
	"github.com/unv3iled/cortex/store"
)

type fakeStore struct {
	user      *store.User
	snapshots []*store.SpotifySnapshot
	created   []*store.Recommendation
	createErr error
}

func (f *fakeStore) GetUser(_ context.Context, _ *store.FindUser) (*store.User, error) {
	return f.user, nil
}

func (f *fakeStore) ListSpotifySnapshots(_ context.Context, _ *store.FindSpotifySnapshot) ([]*store.SpotifySnapshot, error) {
	return f.snapshots, nil
}

func (f *fakeStore) CreateRecommendation(_ context.Context, create *store.Recommendation) (*store.Recommendation, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, create)
	return create, nil
}

func (f *fakeStore) ListRecommendations(_ context.Context, _ *store.FindRecommendation) ([]*store.Recommendation, error) {
	return f.created, nil
}

type fakeProvider struct {
	request  *qloo.RecommendRequest
	response *qloo.RecommendResponse
	err      error
}

func (f *fakeProvider) Recommend(_ context.Context, request *qloo.RecommendRequest) (*qloo.RecommendResponse, error) {
	f.request = request
	return f.response, f.err
}

func TestGenerate(t *testing.T) {
	age := int32(29)
	fs := &fakeStore{
		user: &store.User{ID: 1, Age: &age, Location: "Lisbon"},
		snapshots: []*store.SpotifySnapshot{
			{DataType: store.SpotifyDataTopArtists, Payload: `{"items":[]}`},
		},
	}
	provider := &fakeProvider{
		response: &qloo.RecommendResponse{
			Recommendations: map[string][]qloo.Item{
				"music": {{ID: "m1", Title: "Blue Train", Artist: "John Coltrane", Confidence: 0.9}},
				"books": {{ID: "b1", Title: "Invisible Cities", Author: "Italo Calvino"}},
			},
		},
	}
	svc := NewService(fs, provider)

	result, err := svc.Generate(context.Background(), 1, "something moody", "")
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	require.Zero(t, result.PersistFailures)
	require.Len(t, fs.created, 2)

	// Provider payload carries the profile context and snapshot payloads.
	require.NotNil(t, provider.request)
	require.Equal(t, "Lisbon", provider.request.UserContext.Location)
	require.Contains(t, provider.request.SpotifyData, store.SpotifyDataTopArtists)

	for _, item := range result.Items {
		switch item.Category {
		case "music":
			require.Equal(t, "John Coltrane", item.Artist)
			require.InDelta(t, 0.9, item.Confidence, 1e-9)
		case "books":
			// Author maps into the display artist slot; missing confidence defaults.
			require.Equal(t, "Italo Calvino", item.Artist)
			require.InDelta(t, 0.8, item.Confidence, 1e-9)
		default:
			t.Fatalf("unexpected category %q", item.Category)
		}
	}
}

func TestGeneratePersistFailuresIsolated(t *testing.T) {
	fs := &fakeStore{
		user:      &store.User{ID: 1},
		createErr: errors.New("disk full"),
	}
	provider := &fakeProvider{
		response: &qloo.RecommendResponse{
			Recommendations: map[string][]qloo.Item{
				"music": {{ID: "m1", Title: "A"}, {ID: "m2", Title: "B"}},
			},
		},
	}
	svc := NewService(fs, provider)

	result, err := svc.Generate(context.Background(), 1, "", "")
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	require.Equal(t, 2, result.PersistFailures)
}

func TestGenerateProviderFailure(t *testing.T) {
	fs := &fakeStore{user: &store.User{ID: 1}}
	provider := &fakeProvider{err: errors.New("upstream down")}
	svc := NewService(fs, provider)

	_, err := svc.Generate(context.Background(), 1, "", "")
	require.Error(t, err)
	require.Empty(t, fs.created)
}
