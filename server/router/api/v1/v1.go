// Package v1 exposes the JSON API surface.
package v1

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unv3iled/cortex/internal/profile"
	"github.com/unv3iled/cortex/plugin/elevenlabs"
	"github.com/unv3iled/cortex/plugin/llm"
	"github.com/unv3iled/cortex/plugin/mediasearch"
	"github.com/unv3iled/cortex/plugin/notify"
	"github.com/unv3iled/cortex/plugin/qloo"
	"github.com/unv3iled/cortex/plugin/spotify"
	"github.com/unv3iled/cortex/server/auth"
	"github.com/unv3iled/cortex/server/internal/observability"
	"github.com/unv3iled/cortex/server/middleware"
	"github.com/unv3iled/cortex/server/service/insight"
	"github.com/unv3iled/cortex/server/service/match"
	"github.com/unv3iled/cortex/server/service/recommend"
	syncsvc "github.com/unv3iled/cortex/server/service/sync"
	"github.com/unv3iled/cortex/store"
)

// APIV1Service bundles the handlers and their dependencies.
type APIV1Service struct {
	Secret  string
	Profile *profile.Profile
	Store   *store.Store

	MatchService     *match.Service
	RecommendService *recommend.Service
	InsightService   *insight.Service
	SyncService      *syncsvc.Service

	SpotifyConfig spotify.Config
	MediaSearch   *mediasearch.Client
	Voice         *elevenlabs.Client
	Mailer        *notify.Mailer

	limiter *middleware.RateLimiter
}

// NewAPIV1Service wires the service graph from the runtime profile.
func NewAPIV1Service(ctx context.Context, serverProfile *profile.Profile, st *store.Store) *APIV1Service {
	mailer := notify.NewMailer(serverProfile.ResendAPIKey, serverProfile.NotifyFrom)

	service := &APIV1Service{
		Secret:  serverProfile.Secret,
		Profile: serverProfile,
		Store:   st,
		SpotifyConfig: spotify.Config{
			ClientID:     serverProfile.SpotifyClientID,
			ClientSecret: serverProfile.SpotifyClientSecret,
			RedirectURL:  serverProfile.SpotifyRedirectURL,
		},
		MediaSearch: mediasearch.NewClient(serverProfile.YouTubeAPIKey, serverProfile.GoogleBooksAPIKey),
		Voice:       elevenlabs.NewClient(serverProfile.ElevenLabsAPIKey),
		Mailer:      mailer,
		limiter:     middleware.NewRateLimiter(5, 10),
	}

	var notifier match.Notifier
	if mailer.IsConfigured() {
		notifier = &matchMailer{store: st, mailer: mailer}
	}
	service.MatchService = match.NewService(st, notifier)

	service.RecommendService = recommend.NewService(st,
		qloo.NewClient(serverProfile.QlooAPIKey, serverProfile.QlooBaseURL))

	service.InsightService = insight.NewService(st, newInsightLLM(ctx, serverProfile))

	service.SyncService = syncsvc.NewService(st, syncsvc.NewClientFactory(service.SpotifyConfig))

	return service
}

// newInsightLLM builds the configured insight provider, or nil when none is
// configured so the insight service falls back to canned text.
func newInsightLLM(ctx context.Context, serverProfile *profile.Profile) llm.Service {
	if !serverProfile.IsInsightEnabled() {
		return nil
	}
	cfg := &llm.Config{
		Provider:    serverProfile.InsightProvider,
		MaxTokens:   1000,
		Temperature: 0.7,
	}
	switch serverProfile.InsightProvider {
	case "gemini":
		cfg.APIKey = serverProfile.GeminiAPIKey
		cfg.Model = serverProfile.GeminiModel
	case "openai":
		cfg.APIKey = serverProfile.OpenAIAPIKey
		cfg.BaseURL = serverProfile.OpenAIBaseURL
		cfg.Model = serverProfile.OpenAIModel
	}
	service, err := llm.NewService(ctx, cfg)
	if err != nil {
		return nil
	}
	return service
}

// Register mounts all routes on the echo server.
func (s *APIV1Service) Register(e *echo.Echo) {
	api := e.Group("/api/v1")

	// Public endpoints.
	api.POST("/auth/signup", s.SignUp)
	api.POST("/auth/signin", s.SignIn)
	api.GET("/ping", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"version": s.Profile.Version})
	})

	// Authenticated endpoints.
	authed := api.Group("", s.authMiddleware, s.observabilityMiddleware)
	authed.GET("/me", s.GetCurrentUser)
	authed.PATCH("/me", s.UpdateCurrentUser)

	authed.GET("/spotify/auth-url", s.GetSpotifyAuthURL)
	authed.POST("/spotify/connect", s.ConnectSpotify)
	authed.POST("/spotify/sync", s.SyncSpotify)

	authed.POST("/taste-twins", s.FindTasteTwins, s.rateLimitMiddleware)
	authed.GET("/matches", s.ListMatches)
	authed.PATCH("/matches/:uid", s.UpdateMatch)

	authed.POST("/recommendations", s.GenerateRecommendations, s.rateLimitMiddleware)
	authed.GET("/recommendations", s.ListRecommendations)
	authed.POST("/recommendations/:id/feedback", s.CreateRecommendationFeedback)

	authed.POST("/insights", s.GenerateInsights, s.rateLimitMiddleware)

	authed.GET("/media/search", s.SearchMedia)

	authed.POST("/voice/tts", s.TextToSpeech, s.rateLimitMiddleware)
	authed.POST("/voice/transcribe", s.Transcribe, s.rateLimitMiddleware)

	authed.POST("/conversations", s.CreateConversation)
	authed.GET("/conversations", s.ListConversations)
	authed.DELETE("/conversations/:uid", s.DeleteConversation)
	authed.POST("/conversations/:uid/messages", s.CreateConversationMessage)
	authed.GET("/conversations/:uid/messages", s.ListConversationMessages)

	authed.GET("/metrics", s.GetMetrics)
}

// GetMetrics returns the process-wide request counters.
func (s *APIV1Service) GetMetrics(c echo.Context) error {
	snapshot := observability.GlobalMetrics().Snapshot()
	return c.JSON(http.StatusOK, map[string]any{
		"requestTotal":  snapshot.RequestTotal,
		"requestFailed": snapshot.RequestFailed,
		"successRate":   snapshot.SuccessRate(),
		"operations":    snapshot.OperationMetrics,
	})
}

// authMiddleware resolves the bearer token into a user ID.
func (s *APIV1Service) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c)
		if token == "" {
			return replyError(c, http.StatusUnauthorized, "authentication required")
		}
		userID, err := auth.VerifyAccessToken(token, []byte(s.Secret))
		if err != nil {
			return replyError(c, http.StatusUnauthorized, "invalid access token")
		}
		c.Set(userIDContextKey, userID)
		return next(c)
	}
}

// observabilityMiddleware attaches a request-scoped logger and records
// per-operation counters. Runs after auth so the user ID is known.
func (s *APIV1Service) observabilityMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, _ := currentUserID(c)
		operation := c.Request().Method + " " + c.Path()

		reqCtx := observability.NewRequestContext(slog.Default(), operation, userID)
		request := c.Request()
		c.SetRequest(request.WithContext(observability.WithRequestContext(request.Context(), reqCtx)))

		metrics := observability.GlobalMetrics()
		metrics.RecordRequest(operation)

		err := next(c)

		metrics.RecordDuration(operation, reqCtx.Duration())
		if err != nil || c.Response().Status >= http.StatusInternalServerError {
			metrics.RecordFailure(operation)
		}
		return err
	}
}

// rateLimitMiddleware throttles the expensive upstream-backed endpoints per user.
func (s *APIV1Service) rateLimitMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, ok := currentUserID(c)
		if !ok {
			return replyError(c, http.StatusUnauthorized, "authentication required")
		}
		if !s.limiter.Allow(rateLimitKey(userID)) {
			return replyError(c, http.StatusTooManyRequests, "rate limit exceeded")
		}
		return next(c)
	}
}
