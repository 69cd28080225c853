package insight

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/unv3iled/cortex/plugin/llm"
	"github.com/unv3iled/cortex/store"
)

type fakeStore struct {
	user            *store.User
	recommendations []*store.Recommendation
	attached        *store.UpdateRecommendationInsights
}

func (f *fakeStore) GetUser(_ context.Context, _ *store.FindUser) (*store.User, error) {
	return f.user, nil
}

func (f *fakeStore) ListRecommendations(_ context.Context, _ *store.FindRecommendation) ([]*store.Recommendation, error) {
	return f.recommendations, nil
}

func (f *fakeStore) UpdateRecommendationInsights(_ context.Context, update *store.UpdateRecommendationInsights) error {
	f.attached = update
	return nil
}

type fakeLLM struct {
	text string
	err  error
}

func (f *fakeLLM) Complete(_ context.Context, _ []llm.Message) (string, error) {
	return f.text, f.err
}

func TestGenerateAttachesInsights(t *testing.T) {
	fs := &fakeStore{
		user: &store.User{ID: 1, Location: "Lisbon"},
		recommendations: []*store.Recommendation{
			{ID: 7, Category: "music", Payload: `{"title":"Blue Train"}`},
		},
	}
	svc := NewService(fs, &fakeLLM{text: "A thoughtful analysis."})

	text, err := svc.Generate(context.Background(), 1, "what should I listen to?")
	require.NoError(t, err)
	require.Equal(t, "A thoughtful analysis.", text)
	require.NotNil(t, fs.attached)
	require.Equal(t, "A thoughtful analysis.", fs.attached.Insights)
}

func TestGenerateFallbackOnProviderError(t *testing.T) {
	fs := &fakeStore{
		user:            &store.User{ID: 1, Location: "Lisbon"},
		recommendations: []*store.Recommendation{{ID: 7}},
	}
	svc := NewService(fs, &fakeLLM{err: errors.New("quota exceeded")})

	text, err := svc.Generate(context.Background(), 1, "anything")
	require.NoError(t, err, "provider failure must not fail the request")
	require.Contains(t, text, "Lisbon cultural context")
	require.NotNil(t, fs.attached, "fallback text is still attached")
}

func TestGenerateNoProviderConfigured(t *testing.T) {
	fs := &fakeStore{user: &store.User{ID: 1}}
	svc := NewService(fs, nil)

	text, err := svc.Generate(context.Background(), 1, "anything")
	require.NoError(t, err)
	require.Contains(t, text, "diverse cultural influences")
	require.Nil(t, fs.attached, "nothing to attach without recommendations")
}
