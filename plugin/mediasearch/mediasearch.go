// Package mediasearch queries the YouTube and Google Books catalogs.
package mediasearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

const (
	youtubeSearchURL = "https://www.googleapis.com/youtube/v3/search"
	booksVolumesURL  = "https://www.googleapis.com/books/v1/volumes"
)

// Item is one search hit, normalized across sources.
type Item struct {
	ID          string `json:"id"`
	Source      string `json:"source"` // youtube or google-books
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	URL         string `json:"url"`
	EmbedURL    string `json:"embedUrl"`

	Artist    string `json:"artist,omitempty"`
	Author    string `json:"author,omitempty"`
	Publisher string `json:"publisher,omitempty"`
	Year      int    `json:"year,omitempty"`
	PageCount int    `json:"pageCount,omitempty"`
	ISBN      string `json:"isbn,omitempty"`
}

// Client holds the API keys for the Google data endpoints.
type Client struct {
	youtubeAPIKey     string
	googleBooksAPIKey string
	client            *http.Client
}

// NewClient creates a media search client. Keys may be empty; the matching
// source is then skipped.
func NewClient(youtubeAPIKey, googleBooksAPIKey string) *Client {
	return &Client{
		youtubeAPIKey:     youtubeAPIKey,
		googleBooksAPIKey: googleBooksAPIKey,
		client:            &http.Client{Timeout: 15 * time.Second},
	}
}

// HasYouTube reports whether YouTube search is available.
func (c *Client) HasYouTube() bool { return c.youtubeAPIKey != "" }

// HasGoogleBooks reports whether Google Books search is available.
func (c *Client) HasGoogleBooks() bool { return c.googleBooksAPIKey != "" }

// SearchYouTube queries videos and channels.
func (c *Client) SearchYouTube(ctx context.Context, query string, limit int) ([]Item, error) {
	if !c.HasYouTube() {
		return nil, errors.New("youtube api key not configured")
	}
	if limit < 2 {
		limit = 2
	}

	items := []Item{}
	for _, kind := range []string{"video", "channel"} {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("q", query)
		params.Set("type", kind)
		params.Set("maxResults", strconv.Itoa(limit/2))
		params.Set("key", c.youtubeAPIKey)

		payload, err := c.get(ctx, youtubeSearchURL+"?"+params.Encode())
		if err != nil {
			return nil, errors.Wrapf(err, "youtube %s search failed", kind)
		}

		var parsed struct {
			Items []struct {
				ID struct {
					VideoID   string `json:"videoId"`
					ChannelID string `json:"channelId"`
				} `json:"id"`
				Snippet struct {
					Title        string `json:"title"`
					Description  string `json:"description"`
					ChannelTitle string `json:"channelTitle"`
					PublishedAt  string `json:"publishedAt"`
					Thumbnails   struct {
						High struct {
							URL string `json:"url"`
						} `json:"high"`
					} `json:"thumbnails"`
				} `json:"snippet"`
			} `json:"items"`
		}
		if err := json.Unmarshal(payload, &parsed); err != nil {
			return nil, errors.Wrap(err, "failed to decode youtube response")
		}

		for _, hit := range parsed.Items {
			item := Item{
				Source:      "youtube",
				Title:       hit.Snippet.Title,
				Description: hit.Snippet.Description,
				Thumbnail:   hit.Snippet.Thumbnails.High.URL,
				Artist:      hit.Snippet.ChannelTitle,
				Year:        publishedYear(hit.Snippet.PublishedAt),
			}
			if kind == "video" {
				item.ID = hit.ID.VideoID
				item.URL = "https://www.youtube.com/watch?v=" + hit.ID.VideoID
				item.EmbedURL = "https://www.youtube.com/embed/" + hit.ID.VideoID
			} else {
				item.ID = hit.ID.ChannelID
				item.URL = "https://www.youtube.com/channel/" + hit.ID.ChannelID
				item.EmbedURL = "https://www.youtube.com/embed/?listType=user_uploads&list=" + hit.ID.ChannelID
			}
			items = append(items, item)
		}
	}
	return items, nil
}

// SearchGoogleBooks queries book volumes.
func (c *Client) SearchGoogleBooks(ctx context.Context, query string, limit int) ([]Item, error) {
	if !c.HasGoogleBooks() {
		return nil, errors.New("google books api key not configured")
	}
	if limit < 1 {
		limit = 1
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("key", c.googleBooksAPIKey)

	payload, err := c.get(ctx, booksVolumesURL+"?"+params.Encode())
	if err != nil {
		return nil, errors.Wrap(err, "google books search failed")
	}

	var parsed struct {
		Items []struct {
			ID         string `json:"id"`
			VolumeInfo struct {
				Title               string   `json:"title"`
				Description         string   `json:"description"`
				Authors             []string `json:"authors"`
				Publisher           string   `json:"publisher"`
				PublishedDate       string   `json:"publishedDate"`
				PageCount           int      `json:"pageCount"`
				InfoLink            string   `json:"infoLink"`
				IndustryIdentifiers []struct {
					Identifier string `json:"identifier"`
				} `json:"industryIdentifiers"`
				ImageLinks struct {
					Thumbnail string `json:"thumbnail"`
				} `json:"imageLinks"`
			} `json:"volumeInfo"`
		} `json:"items"`
	}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, errors.Wrap(err, "failed to decode google books response")
	}

	items := []Item{}
	for _, hit := range parsed.Items {
		info := hit.VolumeInfo
		item := Item{
			ID:          hit.ID,
			Source:      "google-books",
			Title:       info.Title,
			Description: info.Description,
			Thumbnail:   info.ImageLinks.Thumbnail,
			URL:         info.InfoLink,
			EmbedURL:    "https://books.google.com/books?id=" + hit.ID + "&hl=en&source=gbs_embed",
			Publisher:   info.Publisher,
			PageCount:   info.PageCount,
			Year:        publishedYear(info.PublishedDate),
		}
		if len(info.Authors) > 0 {
			item.Author = info.Authors[0]
		}
		if len(info.IndustryIdentifiers) > 0 {
			item.ISBN = info.IndustryIdentifiers[0].Identifier
		}
		items = append(items, item)
	}
	return items, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errors.Errorf("api error: %d - %s", resp.StatusCode, string(detail))
	}
	return io.ReadAll(resp.Body)
}

// publishedYear extracts the year from an ISO date or year-only string.
func publishedYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
