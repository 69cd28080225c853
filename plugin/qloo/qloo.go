// Package qloo is a thin client for the Qloo cultural recommendation API.
package qloo

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sony/gobreaker/v2"
)

// UserContext carries the requester's profile slice sent with every request.
type UserContext struct {
	Age      *int32 `json:"age,omitempty"`
	Location string `json:"location,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
	Context  string `json:"context,omitempty"`
}

// RecommendRequest is the payload for the /recommendations endpoint.
type RecommendRequest struct {
	UserContext UserContext                `json:"user_context"`
	SpotifyData map[string]json.RawMessage `json:"spotify_data"`
	Timestamp   string                     `json:"timestamp"`
}

// Item is one recommended entity within a category.
type Item struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Artist       string            `json:"artist,omitempty"`
	Author       string            `json:"author,omitempty"`
	Director     string            `json:"director,omitempty"`
	Year         int               `json:"year,omitempty"`
	Type         string            `json:"type,omitempty"`
	Confidence   float64           `json:"confidence,omitempty"`
	ExternalURLs map[string]string `json:"external_urls,omitempty"`
}

// RecommendResponse maps category name to recommended items.
type RecommendResponse struct {
	Recommendations map[string][]Item `json:"recommendations"`
}

// Client calls Qloo behind a circuit breaker so a flapping upstream fails
// fast instead of tying up request goroutines.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[*RecommendResponse]
}

// NewClient creates a Qloo client.
func NewClient(apiKey, baseURL string) *Client {
	settings := gobreaker.Settings{
		Name:    "qloo",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		breaker: gobreaker.NewCircuitBreaker[*RecommendResponse](settings),
	}
}

// IsConfigured reports whether the client can make live calls.
func (c *Client) IsConfigured() bool {
	return c.apiKey != "" && c.baseURL != ""
}

// Recommend requests cross-domain recommendations for the given context.
func (c *Client) Recommend(ctx context.Context, request *RecommendRequest) (*RecommendResponse, error) {
	if !c.IsConfigured() {
		return nil, errors.New("qloo api configuration missing")
	}
	return c.breaker.Execute(func() (*RecommendResponse, error) {
		return c.recommend(ctx, request)
	})
}

func (c *Client) recommend(ctx context.Context, request *RecommendRequest) (*RecommendResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal qloo payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/recommendations", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build qloo request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "qloo request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errors.Errorf("qloo api error: %d - %s", resp.StatusCode, string(detail))
	}

	response := &RecommendResponse{}
	if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
		return nil, errors.Wrap(err, "failed to decode qloo response")
	}
	return response, nil
}
