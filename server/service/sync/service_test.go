package sync

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/unv3iled/cortex/plugin/spotify"
	"github.com/unv3iled/cortex/store"
)

type fakeStore struct {
	user      *store.User
	snapshots map[string]string
	profile   *store.UpsertTasteProfile
}

func (f *fakeStore) GetUser(_ context.Context, _ *store.FindUser) (*store.User, error) {
	return f.user, nil
}

func (f *fakeStore) UpdateUser(_ context.Context, _ *store.UpdateUser) (*store.User, error) {
	return f.user, nil
}

func (f *fakeStore) UpsertSpotifySnapshot(_ context.Context, upsert *store.UpsertSpotifySnapshot) (*store.SpotifySnapshot, error) {
	if f.snapshots == nil {
		f.snapshots = map[string]string{}
	}
	f.snapshots[upsert.DataType] = upsert.Payload
	return &store.SpotifySnapshot{UserID: upsert.UserID, DataType: upsert.DataType}, nil
}

func (f *fakeStore) UpsertTasteProfile(_ context.Context, upsert *store.UpsertTasteProfile) (*store.TasteProfile, error) {
	f.profile = upsert
	return &store.TasteProfile{UserID: upsert.UserID, Vector: upsert.Vector}, nil
}

type fakeFetcher struct {
	result *spotify.SyncResult
	err    error
}

func (f *fakeFetcher) FetchAll(_ context.Context) (*spotify.SyncResult, error) {
	return f.result, f.err
}

func factoryFor(f Fetcher) ClientFactory {
	return func(_ context.Context, _, _ string) Fetcher { return f }
}

func TestRun(t *testing.T) {
	fs := &fakeStore{user: &store.User{ID: 1, SpotifyAccessToken: "tok"}}
	fetcher := &fakeFetcher{result: &spotify.SyncResult{
		TopTracks:      json.RawMessage(`{"items":[{},{}]}`),
		TopArtists:     json.RawMessage(`{"items":[{"name":"A","genres":["jazz"]}]}`),
		RecentlyPlayed: json.RawMessage(`{"items":[{}]}`),
		SavedTracks:    json.RawMessage(`{"items":[]}`),
	}}
	svc := NewService(fs, factoryFor(fetcher))

	counts, err := svc.Run(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, &Counts{TopTracks: 2, TopArtists: 1, RecentlyPlayed: 1, SavedTracks: 0}, counts)
	require.Len(t, fs.snapshots, 4)

	require.NotNil(t, fs.profile)
	var vector map[string]float64
	require.NoError(t, json.Unmarshal([]byte(fs.profile.Vector), &vector))
	require.InDelta(t, 1.0, vector["music:jazz"], 1e-9)
}

func TestRunNoToken(t *testing.T) {
	fs := &fakeStore{user: &store.User{ID: 1}}
	svc := NewService(fs, factoryFor(&fakeFetcher{}))

	_, err := svc.Run(context.Background(), 1)
	require.ErrorContains(t, err, "no spotify access token")
}

func TestRunFetchFailureWritesNothing(t *testing.T) {
	fs := &fakeStore{user: &store.User{ID: 1, SpotifyAccessToken: "tok"}}
	svc := NewService(fs, factoryFor(&fakeFetcher{err: errors.New("token expired")}))

	_, err := svc.Run(context.Background(), 1)
	require.Error(t, err)
	require.Empty(t, fs.snapshots)
	require.Nil(t, fs.profile)
}

func TestRunEmptyArtistsKeepsProfile(t *testing.T) {
	fs := &fakeStore{user: &store.User{ID: 1, SpotifyAccessToken: "tok"}}
	fetcher := &fakeFetcher{result: &spotify.SyncResult{
		TopTracks:      json.RawMessage(`{"items":[]}`),
		TopArtists:     json.RawMessage(`{"items":[]}`),
		RecentlyPlayed: json.RawMessage(`{"items":[]}`),
		SavedTracks:    json.RawMessage(`{"items":[]}`),
	}}
	svc := NewService(fs, factoryFor(fetcher))

	_, err := svc.Run(context.Background(), 1)
	require.NoError(t, err)
	require.Nil(t, fs.profile, "an empty derivation must not clobber an existing vector")
}
