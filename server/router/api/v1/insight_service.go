package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type insightRequest struct {
	Prompt string `json:"prompt"`
}

type insightResponse struct {
	Success  bool   `json:"success"`
	Insights string `json:"insights"`
}

// GenerateInsights produces narrative commentary over the user's latest
// recommendations.
func (s *APIV1Service) GenerateInsights(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := currentUserID(c)

	request := &insightRequest{}
	if err := c.Bind(request); err != nil {
		return replyError(c, http.StatusBadRequest, "malformed request")
	}

	insights, err := s.InsightService.Generate(ctx, userID, request.Prompt)
	if err != nil {
		return replyError(c, http.StatusInternalServerError, "failed to generate insights")
	}
	return c.JSON(http.StatusOK, &insightResponse{Success: true, Insights: insights})
}
