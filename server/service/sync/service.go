// Package sync runs the Spotify listening-history sync and taste profile
// derivation for a user.
package sync

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/unv3iled/cortex/plugin/spotify"
	"github.com/unv3iled/cortex/store"
)

// Store is the slice of the data layer a sync run needs.
type Store interface {
	GetUser(ctx context.Context, find *store.FindUser) (*store.User, error)
	UpdateUser(ctx context.Context, update *store.UpdateUser) (*store.User, error)
	UpsertSpotifySnapshot(ctx context.Context, upsert *store.UpsertSpotifySnapshot) (*store.SpotifySnapshot, error)
	UpsertTasteProfile(ctx context.Context, upsert *store.UpsertTasteProfile) (*store.TasteProfile, error)
}

// Fetcher pulls the listening history. *spotify.Client satisfies it.
type Fetcher interface {
	FetchAll(ctx context.Context) (*spotify.SyncResult, error)
}

// ClientFactory builds a per-user fetcher from stored tokens. Split out so
// tests can run the pipeline without the OAuth transport.
type ClientFactory func(ctx context.Context, accessToken, refreshToken string) Fetcher

// NewClientFactory is the production factory.
func NewClientFactory(cfg spotify.Config) ClientFactory {
	return func(ctx context.Context, accessToken, refreshToken string) Fetcher {
		return spotify.NewClient(ctx, cfg, accessToken, refreshToken)
	}
}

// Counts summarizes a completed sync run per data type.
type Counts struct {
	TopTracks      int `json:"topTracks"`
	TopArtists     int `json:"topArtists"`
	RecentlyPlayed int `json:"recentlyPlayed"`
	SavedTracks    int `json:"savedTracks"`
}

// Service runs syncs.
type Service struct {
	store   Store
	factory ClientFactory
}

// NewService creates a sync service.
func NewService(s Store, factory ClientFactory) *Service {
	return &Service{store: s, factory: factory}
}

// Run fetches the user's Spotify data, persists the four snapshots and
// refreshes the derived taste profile vector.
func (s *Service) Run(ctx context.Context, userID int32) (*Counts, error) {
	user, err := s.store.GetUser(ctx, &store.FindUser{ID: &userID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user")
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	if user.SpotifyAccessToken == "" {
		return nil, errors.New("no spotify access token found")
	}

	fetcher := s.factory(ctx, user.SpotifyAccessToken, user.SpotifyRefreshToken)
	result, err := fetcher.FetchAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch spotify data")
	}

	snapshots := []struct {
		dataType string
		name     string
		payload  json.RawMessage
	}{
		{store.SpotifyDataTopTracks, "Top Tracks", result.TopTracks},
		{store.SpotifyDataTopArtists, "Top Artists", result.TopArtists},
		{store.SpotifyDataRecentlyPlayed, "Recently Played", result.RecentlyPlayed},
		{store.SpotifyDataSavedTracks, "Saved Tracks", result.SavedTracks},
	}
	for _, snapshot := range snapshots {
		if _, err := s.store.UpsertSpotifySnapshot(ctx, &store.UpsertSpotifySnapshot{
			UserID:   userID,
			DataType: snapshot.dataType,
			Name:     snapshot.name,
			Payload:  string(snapshot.payload),
		}); err != nil {
			return nil, errors.Wrapf(err, "failed to store %s snapshot", snapshot.dataType)
		}
	}

	if err := s.refreshTasteProfile(ctx, userID, result.TopArtists); err != nil {
		// The sync itself succeeded; a derivation problem is logged and
		// surfaces on the next run.
		slog.Error("failed to refresh taste profile",
			slog.Int64("user_id", int64(userID)),
			slog.String("error", err.Error()))
	}

	return &Counts{
		TopTracks:      itemCount(result.TopTracks),
		TopArtists:     itemCount(result.TopArtists),
		RecentlyPlayed: itemCount(result.RecentlyPlayed),
		SavedTracks:    itemCount(result.SavedTracks),
	}, nil
}

func (s *Service) refreshTasteProfile(ctx context.Context, userID int32, topArtists json.RawMessage) error {
	vector, err := spotify.DeriveVector(topArtists)
	if err != nil {
		return err
	}
	if len(vector) == 0 {
		// Nothing to derive yet; leave any existing profile untouched.
		return nil
	}
	encoded, err := json.Marshal(vector)
	if err != nil {
		return err
	}
	_, err = s.store.UpsertTasteProfile(ctx, &store.UpsertTasteProfile{
		UserID: userID,
		Vector: string(encoded),
	})
	return err
}

func itemCount(payload json.RawMessage) int {
	var parsed struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return 0
	}
	return len(parsed.Items)
}
