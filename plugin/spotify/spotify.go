// Package spotify wraps the Spotify Web API calls used for taste syncing.
package spotify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	spotifyoauth "golang.org/x/oauth2/spotify"
	"golang.org/x/sync/errgroup"
)

const apiBaseURL = "https://api.spotify.com/v1"

// Scopes requested when linking a Spotify account.
var Scopes = []string{
	"user-top-read",
	"user-read-recently-played",
	"user-library-read",
}

// SyncResult holds the raw payloads of one full sync, one per data type.
type SyncResult struct {
	TopTracks      json.RawMessage
	TopArtists     json.RawMessage
	RecentlyPlayed json.RawMessage
	SavedTracks    json.RawMessage
}

// Client performs authenticated Spotify Web API calls for one user. The
// oauth2 transport refreshes the access token transparently.
type Client struct {
	httpClient *http.Client
	token      *oauth2.Token
	source     oauth2.TokenSource
}

// Config holds the OAuth application credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// OAuthConfig builds the oauth2 config for the authorization-code flow.
func (c Config) OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		Scopes:       Scopes,
		Endpoint:     spotifyoauth.Endpoint,
	}
}

// NewClient creates a client from stored tokens. The refresh token may be
// empty; calls then fail once the access token expires.
func NewClient(ctx context.Context, cfg Config, accessToken, refreshToken string) *Client {
	token := &oauth2.Token{AccessToken: accessToken, RefreshToken: refreshToken}
	source := cfg.OAuthConfig().TokenSource(ctx, token)
	return &Client{
		httpClient: oauth2.NewClient(ctx, source),
		token:      token,
		source:     source,
	}
}

// CurrentToken returns the possibly-refreshed token so callers can persist it.
func (c *Client) CurrentToken() (*oauth2.Token, error) {
	return c.source.Token()
}

// FetchAll pulls the four listening-history endpoints in parallel. Any single
// failure fails the sync; partial snapshots would skew the derived vector.
func (c *Client) FetchAll(ctx context.Context) (*SyncResult, error) {
	result := &SyncResult{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		payload, err := c.get(gctx, "/me/top/tracks?limit=50&time_range=medium_term")
		result.TopTracks = payload
		return err
	})
	g.Go(func() error {
		payload, err := c.get(gctx, "/me/top/artists?limit=50&time_range=medium_term")
		result.TopArtists = payload
		return err
	})
	g.Go(func() error {
		payload, err := c.get(gctx, "/me/player/recently-played?limit=50")
		result.RecentlyPlayed = payload
		return err
	})
	g.Go(func() error {
		payload, err := c.get(gctx, "/me/tracks?limit=50")
		result.SavedTracks = payload
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// SearchItem is one entity returned from catalog search.
type SearchItem struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"` // track, album, playlist
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	URL         string `json:"url"`
	EmbedURL    string `json:"embedUrl"`
	Artist      string `json:"artist,omitempty"`
}

// Search queries the Spotify catalog for tracks, albums and playlists.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]SearchItem, error) {
	if limit < 1 {
		limit = 1
	}
	endpoint := "/search?q=" + url.QueryEscape(query) +
		"&type=track,album,playlist&limit=" + strconv.Itoa(limit)
	payload, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Tracks struct {
			Items []struct {
				ID    string `json:"id"`
				Name  string `json:"name"`
				Album struct {
					Name   string `json:"name"`
					Images []struct {
						URL string `json:"url"`
					} `json:"images"`
				} `json:"album"`
				Artists []struct {
					Name string `json:"name"`
				} `json:"artists"`
				ExternalURLs map[string]string `json:"external_urls"`
			} `json:"items"`
		} `json:"tracks"`
		Albums struct {
			Items []struct {
				ID     string `json:"id"`
				Name   string `json:"name"`
				Images []struct {
					URL string `json:"url"`
				} `json:"images"`
				Artists []struct {
					Name string `json:"name"`
				} `json:"artists"`
				ExternalURLs map[string]string `json:"external_urls"`
			} `json:"items"`
		} `json:"albums"`
		Playlists struct {
			Items []struct {
				ID          string `json:"id"`
				Name        string `json:"name"`
				Description string `json:"description"`
				Images      []struct {
					URL string `json:"url"`
				} `json:"images"`
				Owner struct {
					DisplayName string `json:"display_name"`
				} `json:"owner"`
				ExternalURLs map[string]string `json:"external_urls"`
			} `json:"items"`
		} `json:"playlists"`
	}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, errors.Wrap(err, "failed to decode spotify search response")
	}

	items := []SearchItem{}
	for _, t := range parsed.Tracks.Items {
		item := SearchItem{
			ID:          t.ID,
			Kind:        "track",
			Title:       t.Name,
			Description: t.Album.Name,
			URL:         t.ExternalURLs["spotify"],
			EmbedURL:    "https://open.spotify.com/embed/track/" + t.ID,
		}
		if len(t.Album.Images) > 0 {
			item.Thumbnail = t.Album.Images[0].URL
		}
		if len(t.Artists) > 0 {
			item.Artist = t.Artists[0].Name
		}
		items = append(items, item)
	}
	for _, a := range parsed.Albums.Items {
		item := SearchItem{
			ID:       a.ID,
			Kind:     "album",
			Title:    a.Name,
			URL:      a.ExternalURLs["spotify"],
			EmbedURL: "https://open.spotify.com/embed/album/" + a.ID,
		}
		if len(a.Images) > 0 {
			item.Thumbnail = a.Images[0].URL
		}
		if len(a.Artists) > 0 {
			item.Artist = a.Artists[0].Name
		}
		items = append(items, item)
	}
	for _, p := range parsed.Playlists.Items {
		item := SearchItem{
			ID:          p.ID,
			Kind:        "playlist",
			Title:       p.Name,
			Description: p.Description,
			URL:         p.ExternalURLs["spotify"],
			EmbedURL:    "https://open.spotify.com/embed/playlist/" + p.ID,
			Artist:      p.Owner.DisplayName,
		}
		if len(p.Images) > 0 {
			item.Thumbnail = p.Images[0].URL
		}
		items = append(items, item)
	}
	return items, nil
}

func (c *Client) get(ctx context.Context, endpoint string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBaseURL+endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build spotify request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "spotify request failed: %s", endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, errors.New("spotify token expired")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("spotify api error: %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read spotify response")
	}
	return payload, nil
}
