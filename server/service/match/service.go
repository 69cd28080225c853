package match

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/unv3iled/cortex/store"
)

// ErrProfileNotFound is returned when the requester has no stored taste
// profile. It is the only failure class the HTTP layer distinguishes.
var ErrProfileNotFound = errors.New("taste profile not found, complete your profile first")

// Store is the slice of the data layer the matching run needs.
// *store.Store satisfies it.
type Store interface {
	GetTasteProfile(ctx context.Context, find *store.FindTasteProfile) (*store.TasteProfile, error)
	ListTasteProfiles(ctx context.Context, find *store.FindTasteProfile) ([]*store.TasteProfile, error)
	UpsertMatch(ctx context.Context, upsert *store.UpsertMatch) (*store.Match, error)
	ListUsers(ctx context.Context, find *store.FindUser) ([]*store.User, error)
}

// Notifier delivers a "new taste twin" notification. Delivery failures
// are logged, never surfaced.
type Notifier interface {
	NotifyMatch(ctx context.Context, m *store.Match) error
}

// UserDetails carries the denormalized display fields attached to a match.
type UserDetails struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	Age         *int32 `json:"age,omitempty"`
	Location    string `json:"location,omitempty"`
}

// EnrichedMatch is one taste twin in the run result.
type EnrichedMatch struct {
	UserID          int32        `json:"userId"`
	SimilarityScore float64      `json:"similarityScore"`
	CulturalSummary string       `json:"culturalSummary,omitempty"`
	UserDetails     *UserDetails `json:"userDetails"`
}

// Result is the outcome of one matching run.
type Result struct {
	Matches               []EnrichedMatch
	TotalProfilesCompared int
	// PersistFailures counts match rows that could not be written.
	// Tracked for observability; the run still succeeds.
	PersistFailures int
}

// Service runs the accessor -> ranker -> materializer pipeline for one
// requester per invocation.
type Service struct {
	store    Store
	notifier Notifier
}

// NewService creates a matching service. notifier may be nil.
func NewService(s Store, notifier Notifier) *Service {
	return &Service{store: s, notifier: notifier}
}

// FindTasteTwins executes a full matching run for the requester.
func (s *Service) FindTasteTwins(ctx context.Context, requesterID int32) (*Result, error) {
	requesterProfile, err := s.store.GetTasteProfile(ctx, &store.FindTasteProfile{UserID: &requesterID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get requester taste profile")
	}
	if requesterProfile == nil {
		return nil, ErrProfileNotFound
	}
	requesterVector := ParseVector(requesterProfile.Vector)
	if len(requesterVector) == 0 {
		return nil, ErrProfileNotFound
	}

	pool, err := s.store.ListTasteProfiles(ctx, &store.FindTasteProfile{ExcludeUserID: &requesterID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list candidate profiles")
	}

	candidates := make([]Candidate, 0, len(pool))
	summaries := make(map[int32]string, len(pool))
	for _, profile := range pool {
		vector := ParseVector(profile.Vector)
		if len(vector) == 0 {
			continue
		}
		candidates = append(candidates, Candidate{UserID: profile.UserID, Vector: vector})
		summaries[profile.UserID] = profile.CulturalSummary
	}

	ranked := Rank(requesterVector, candidates)

	details, err := s.fetchUserDetails(ctx, ranked)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch match user details")
	}

	// Materialize: each upsert is independent, one failure never aborts
	// the siblings. Writes only start after ranking succeeded.
	failures := 0
	for _, m := range ranked {
		row, err := s.store.UpsertMatch(ctx, &store.UpsertMatch{
			UserA:           requesterID,
			UserB:           m.UserID,
			SimilarityScore: m.Score,
		})
		if err != nil {
			failures++
			slog.Error("failed to store match",
				slog.Int64("requester_id", int64(requesterID)),
				slog.Int64("candidate_id", int64(m.UserID)),
				slog.String("error", err.Error()))
			continue
		}
		// Freshly inserted rows carry identical timestamps; rescored rows
		// only move updated_ts. Only new discoveries trigger a notification.
		if s.notifier != nil && row.CreatedTs == row.UpdatedTs && row.Status == store.MatchStatusPending {
			if err := s.notifier.NotifyMatch(ctx, row); err != nil {
				slog.Warn("failed to send match notification",
					slog.String("match_uid", row.UID),
					slog.String("error", err.Error()))
			}
		}
	}

	result := &Result{
		Matches:               make([]EnrichedMatch, 0, len(ranked)),
		TotalProfilesCompared: len(pool),
		PersistFailures:       failures,
	}
	for _, m := range ranked {
		result.Matches = append(result.Matches, EnrichedMatch{
			UserID:          m.UserID,
			SimilarityScore: m.Score,
			CulturalSummary: summaries[m.UserID],
			UserDetails:     details[m.UserID],
		})
	}
	return result, nil
}

func (s *Service) fetchUserDetails(ctx context.Context, ranked []RankedMatch) (map[int32]*UserDetails, error) {
	if len(ranked) == 0 {
		return map[int32]*UserDetails{}, nil
	}
	ids := make([]int32, 0, len(ranked))
	for _, m := range ranked {
		ids = append(ids, m.UserID)
	}
	users, err := s.store.ListUsers(ctx, &store.FindUser{IDs: ids})
	if err != nil {
		return nil, err
	}
	details := make(map[int32]*UserDetails, len(users))
	for _, user := range users {
		details[user.ID] = &UserDetails{
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Age:         user.Age,
			Location:    user.Location,
		}
	}
	return details, nil
}
