package v1

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/unv3iled/cortex/server/service/recommend"
	"github.com/unv3iled/cortex/store"
)

type generateRecommendationsRequest struct {
	Prompt  string `json:"prompt"`
	Context string `json:"context"`
}

type generateRecommendationsResponse struct {
	Success         bool             `json:"success"`
	Recommendations []recommend.Item `json:"recommendations"`
}

// GenerateRecommendations runs a recommendation pass for the user.
func (s *APIV1Service) GenerateRecommendations(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := currentUserID(c)

	request := &generateRecommendationsRequest{}
	if err := c.Bind(request); err != nil {
		return replyError(c, http.StatusBadRequest, "malformed request")
	}

	result, err := s.RecommendService.Generate(ctx, userID, request.Prompt, request.Context)
	if err != nil {
		return replyError(c, http.StatusBadGateway, "failed to generate recommendations")
	}
	return c.JSON(http.StatusOK, &generateRecommendationsResponse{
		Success:         true,
		Recommendations: result.Items,
	})
}

type recommendationResponse struct {
	ID              int32           `json:"id"`
	UID             string          `json:"uid"`
	Category        string          `json:"category"`
	UserPrompt      string          `json:"userPrompt,omitempty"`
	Payload         json.RawMessage `json:"payload"`
	ConfidenceScore float64         `json:"confidenceScore"`
	Insights        string          `json:"insights,omitempty"`
	CreatedTs       int64           `json:"createdTs"`
}

// ListRecommendations returns stored recommendations, newest first.
func (s *APIV1Service) ListRecommendations(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := currentUserID(c)

	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return replyError(c, http.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}

	recommendations, err := s.RecommendService.List(ctx, userID, c.QueryParam("category"), limit)
	if err != nil {
		return replyError(c, http.StatusInternalServerError, "failed to list recommendations")
	}

	response := make([]*recommendationResponse, 0, len(recommendations))
	for _, rec := range recommendations {
		payload := json.RawMessage(rec.Payload)
		if !json.Valid(payload) {
			payload = json.RawMessage("null")
		}
		response = append(response, &recommendationResponse{
			ID:              rec.ID,
			UID:             rec.UID,
			Category:        rec.Category,
			UserPrompt:      rec.UserPrompt,
			Payload:         payload,
			ConfidenceScore: rec.ConfidenceScore,
			Insights:        rec.Insights,
			CreatedTs:       rec.CreatedTs,
		})
	}
	return c.JSON(http.StatusOK, response)
}

type feedbackRequest struct {
	FeedbackType  string `json:"feedbackType"` // like, dismiss, rating
	FeedbackValue *int32 `json:"feedbackValue"`
	Notes         string `json:"notes"`
}

// CreateRecommendationFeedback records explicit feedback on one recommendation.
func (s *APIV1Service) CreateRecommendationFeedback(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := currentUserID(c)

	recommendationID, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return replyError(c, http.StatusBadRequest, "invalid recommendation id")
	}

	request := &feedbackRequest{}
	if err := c.Bind(request); err != nil {
		return replyError(c, http.StatusBadRequest, "malformed request")
	}
	switch request.FeedbackType {
	case "like", "dismiss", "rating":
	default:
		return replyError(c, http.StatusBadRequest, "unsupported feedback type")
	}

	feedback, err := s.Store.CreateRecommendationFeedback(ctx, &store.RecommendationFeedback{
		RecommendationID: int32(recommendationID),
		UserID:           userID,
		FeedbackType:     request.FeedbackType,
		FeedbackValue:    request.FeedbackValue,
		Notes:            request.Notes,
	})
	if err != nil {
		return replyError(c, http.StatusInternalServerError, "failed to store feedback")
	}
	return c.JSON(http.StatusOK, feedback)
}
