// Package recommend orchestrates cross-domain recommendation runs.
package recommend

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/unv3iled/cortex/plugin/qloo"
	"github.com/unv3iled/cortex/store"
)

// Store is the slice of the data layer a recommendation run needs.
type Store interface {
	GetUser(ctx context.Context, find *store.FindUser) (*store.User, error)
	ListSpotifySnapshots(ctx context.Context, find *store.FindSpotifySnapshot) ([]*store.SpotifySnapshot, error)
	CreateRecommendation(ctx context.Context, create *store.Recommendation) (*store.Recommendation, error)
	ListRecommendations(ctx context.Context, find *store.FindRecommendation) ([]*store.Recommendation, error)
}

// Provider is the upstream recommendation API. *qloo.Client satisfies it.
type Provider interface {
	Recommend(ctx context.Context, request *qloo.RecommendRequest) (*qloo.RecommendResponse, error)
}

// Item is one transformed recommendation returned to the caller.
type Item struct {
	ID           string            `json:"id"`
	Category     string            `json:"category"`
	Title        string            `json:"title"`
	Artist       string            `json:"artist,omitempty"`
	Year         int               `json:"year,omitempty"`
	Confidence   float64           `json:"confidence"`
	Reason       string            `json:"reason"`
	ExternalURLs map[string]string `json:"external_urls,omitempty"`
}

// Result is the outcome of one recommendation run.
type Result struct {
	Items []Item
	// PersistFailures counts rows that could not be stored; the run
	// still returns its items.
	PersistFailures int
}

// Service generates and persists recommendations for one user per call.
type Service struct {
	store    Store
	provider Provider
}

// NewService creates a recommendation service.
func NewService(s Store, provider Provider) *Service {
	return &Service{store: s, provider: provider}
}

// Generate builds the provider payload from the user's profile and Spotify
// snapshots, calls the provider and persists each item as its own row.
func (s *Service) Generate(ctx context.Context, userID int32, prompt, promptContext string) (*Result, error) {
	user, err := s.store.GetUser(ctx, &store.FindUser{ID: &userID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user")
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	snapshots, err := s.store.ListSpotifySnapshots(ctx, &store.FindSpotifySnapshot{UserID: &userID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list spotify snapshots")
	}
	spotifyData := make(map[string]json.RawMessage, len(snapshots))
	for _, snapshot := range snapshots {
		spotifyData[snapshot.DataType] = json.RawMessage(snapshot.Payload)
	}

	response, err := s.provider.Recommend(ctx, &qloo.RecommendRequest{
		UserContext: qloo.UserContext{
			Age:      user.Age,
			Location: user.Location,
			Prompt:   prompt,
			Context:  promptContext,
		},
		SpotifyData: spotifyData,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, errors.Wrap(err, "recommendation provider failed")
	}

	result := &Result{Items: transform(response)}
	for _, item := range result.Items {
		payload, err := json.Marshal(item)
		if err != nil {
			result.PersistFailures++
			continue
		}
		if _, err := s.store.CreateRecommendation(ctx, &store.Recommendation{
			UserID:          userID,
			UserPrompt:      prompt,
			Category:        item.Category,
			Payload:         string(payload),
			ConfidenceScore: item.Confidence,
		}); err != nil {
			// One bad row never fails the run.
			result.PersistFailures++
			slog.Error("failed to store recommendation",
				slog.Int64("user_id", int64(userID)),
				slog.String("category", item.Category),
				slog.String("error", err.Error()))
		}
	}
	return result, nil
}

// List returns previously generated recommendations for the user.
func (s *Service) List(ctx context.Context, userID int32, category string, limit int) ([]*store.Recommendation, error) {
	find := &store.FindRecommendation{UserID: &userID}
	if category != "" {
		find.Category = &category
	}
	if limit > 0 {
		find.Limit = &limit
	}
	return s.store.ListRecommendations(ctx, find)
}

// transform flattens the per-category provider response into items.
func transform(response *qloo.RecommendResponse) []Item {
	items := []Item{}
	for category, hits := range response.Recommendations {
		for _, hit := range hits {
			item := Item{
				ID:           hit.ID,
				Category:     category,
				Title:        hit.Title,
				Artist:       firstNonEmpty(hit.Artist, hit.Author, hit.Director),
				Year:         hit.Year,
				Confidence:   hit.Confidence,
				Reason:       "Recommended based on your " + category + " preferences",
				ExternalURLs: hit.ExternalURLs,
			}
			if item.Confidence == 0 {
				item.Confidence = 0.8
			}
			items = append(items, item)
		}
	}
	return items
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
