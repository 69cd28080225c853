// Package insight generates conversational commentary over recommendations.
package insight

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/unv3iled/cortex/plugin/llm"
	"github.com/unv3iled/cortex/store"
)

// Store is the slice of the data layer the insight flow needs.
type Store interface {
	GetUser(ctx context.Context, find *store.FindUser) (*store.User, error)
	ListRecommendations(ctx context.Context, find *store.FindRecommendation) ([]*store.Recommendation, error)
	UpdateRecommendationInsights(ctx context.Context, update *store.UpdateRecommendationInsights) error
}

// Service turns a user's latest recommendations into a narrative insight.
type Service struct {
	store Store
	llm   llm.Service
}

// NewService creates an insight service. svc may be nil when no provider is
// configured; Generate then always returns the fallback text.
func NewService(s Store, svc llm.Service) *Service {
	return &Service{store: s, llm: svc}
}

const systemPrompt = `You are Cortex, a taste companion that provides culturally intelligent insights.
Analyze the recommendation data and user context, then reply as a knowledgeable friend who
understands both personal taste and broader cultural context. Provide: a conversational answer
to the question, why the recommendations match the taste profile, interesting connections
between preferences, and 2-3 concrete follow-up explorations.`

// Generate produces insight text for the user's latest recommendations and
// attaches it to the most recent recommendation row. Provider failures fall
// back to canned text rather than erroring, matching the product behavior
// of never leaving the user without a response.
func (s *Service) Generate(ctx context.Context, userID int32, userPrompt string) (string, error) {
	user, err := s.store.GetUser(ctx, &store.FindUser{ID: &userID})
	if err != nil {
		return "", errors.Wrap(err, "failed to get user")
	}
	if user == nil {
		return "", errors.New("user not found")
	}

	limit := 10
	recommendations, err := s.store.ListRecommendations(ctx, &store.FindRecommendation{
		UserID: &userID,
		Limit:  &limit,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to list recommendations")
	}

	text := s.complete(ctx, user, userPrompt, recommendations)

	if len(recommendations) > 0 {
		if err := s.store.UpdateRecommendationInsights(ctx, &store.UpdateRecommendationInsights{
			UserID:   userID,
			Insights: text,
		}); err != nil {
			slog.Error("failed to attach insights to recommendation",
				slog.Int64("user_id", int64(userID)),
				slog.String("error", err.Error()))
		}
	}
	return text, nil
}

func (s *Service) complete(ctx context.Context, user *store.User, userPrompt string, recommendations []*store.Recommendation) string {
	if s.llm == nil {
		return fallbackText(user)
	}

	text, err := s.llm.Complete(ctx, []llm.Message{
		llm.SystemPrompt(systemPrompt),
		llm.UserMessage(buildPrompt(user, userPrompt, recommendations)),
	})
	if err != nil || text == "" {
		slog.Warn("insight provider failed, using fallback",
			slog.Int64("user_id", int64(user.ID)),
			slog.String("error", fmt.Sprint(err)))
		return fallbackText(user)
	}
	return text
}

func buildPrompt(user *store.User, userPrompt string, recommendations []*store.Recommendation) string {
	var sb strings.Builder
	sb.WriteString("User profile:\n")
	if user.Age != nil {
		fmt.Fprintf(&sb, "- Age: %d\n", *user.Age)
	} else {
		sb.WriteString("- Age: not specified\n")
	}
	if user.Location != "" {
		fmt.Fprintf(&sb, "- Location: %s\n", user.Location)
	} else {
		sb.WriteString("- Location: not specified\n")
	}

	fmt.Fprintf(&sb, "\nUser question: %s\n\nRecommendations:\n", userPrompt)
	for _, rec := range recommendations {
		fmt.Fprintf(&sb, "- [%s] %s\n", rec.Category, rec.Payload)
	}
	return sb.String()
}

// fallbackText is returned when the provider is unavailable.
func fallbackText(user *store.User) string {
	culturalContext := "diverse cultural influences"
	if user.Location != "" {
		culturalContext = "your " + user.Location + " cultural context"
	}
	return fmt.Sprintf("Based on your preferences, I can see you have a sophisticated taste profile that blends %s with contemporary trends. These recommendations reflect your unique aesthetic that values both artistic depth and cultural relevance. I'd suggest exploring the connections between these recommendations to discover new aspects of your taste profile.", culturalContext)
}
