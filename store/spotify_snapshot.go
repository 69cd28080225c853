package store

// Spotify snapshot data types mirrored from the streaming provider.
const (
	SpotifyDataTopTracks      = "top_tracks"
	SpotifyDataTopArtists     = "top_artists"
	SpotifyDataRecentlyPlayed = "recently_played"
	SpotifyDataSavedTracks    = "saved_tracks"
)

// SpotifySnapshot represents one synced payload from the streaming
// provider, keyed by (user, data type).
type SpotifySnapshot struct {
	ID           int32
	UserID       int32
	DataType     string
	Name         string
	Payload      string // JSON: raw provider response
	LastSyncedTs int64
}

// FindSpotifySnapshot specifies the conditions for finding snapshots.
type FindSpotifySnapshot struct {
	UserID   *int32
	DataType *string
}

// UpsertSpotifySnapshot specifies the data for upserting a snapshot.
type UpsertSpotifySnapshot struct {
	UserID   int32
	DataType string
	Name     string
	Payload  string
}
