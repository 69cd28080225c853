package v1

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/unv3iled/cortex/plugin/notify"
	"github.com/unv3iled/cortex/server/internal/observability"
	"github.com/unv3iled/cortex/server/service/match"
	"github.com/unv3iled/cortex/store"
)

type tasteTwinsResponse struct {
	Success               bool                  `json:"success"`
	Matches               []match.EnrichedMatch `json:"matches"`
	TotalProfilesCompared int                   `json:"totalProfilesCompared"`
}

// FindTasteTwins runs a matching pass for the authenticated user.
func (s *APIV1Service) FindTasteTwins(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := currentUserID(c)

	result, err := s.MatchService.FindTasteTwins(ctx, userID)
	if err != nil {
		if errors.Is(err, match.ErrProfileNotFound) {
			return replyError(c, http.StatusNotFound, err.Error())
		}
		return replyError(c, http.StatusInternalServerError, "failed to find taste twins")
	}

	if reqCtx, ok := observability.FromContext(ctx); ok {
		reqCtx.Info("matching run completed",
			slog.Int("matches", len(result.Matches)),
			slog.Int("profiles_compared", result.TotalProfilesCompared),
			slog.Int("persist_failures", result.PersistFailures),
			slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
	}

	return c.JSON(http.StatusOK, &tasteTwinsResponse{
		Success:               true,
		Matches:               result.Matches,
		TotalProfilesCompared: result.TotalProfilesCompared,
	})
}

type matchResponse struct {
	UID             string  `json:"uid"`
	UserA           int32   `json:"userA"`
	UserB           int32   `json:"userB"`
	SimilarityScore float64 `json:"similarityScore"`
	Status          string  `json:"status"`
	CreatedTs       int64   `json:"createdTs"`
	UpdatedTs       int64   `json:"updatedTs"`
}

func convertMatch(m *store.Match) *matchResponse {
	return &matchResponse{
		UID:             m.UID,
		UserA:           m.UserA,
		UserB:           m.UserB,
		SimilarityScore: m.SimilarityScore,
		Status:          m.Status,
		CreatedTs:       m.CreatedTs,
		UpdatedTs:       m.UpdatedTs,
	}
}

// ListMatches returns matches where the user is on either side.
func (s *APIV1Service) ListMatches(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := currentUserID(c)

	matches, err := s.Store.ListMatches(ctx, &store.FindMatch{UserID: &userID})
	if err != nil {
		return replyError(c, http.StatusInternalServerError, "failed to list matches")
	}

	response := make([]*matchResponse, 0, len(matches))
	for _, m := range matches {
		response = append(response, convertMatch(m))
	}
	return c.JSON(http.StatusOK, response)
}

type updateMatchRequest struct {
	Status string `json:"status"`
}

// UpdateMatch transitions a match's status. Only a pair member may accept.
func (s *APIV1Service) UpdateMatch(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := currentUserID(c)
	uid := c.Param("uid")

	request := &updateMatchRequest{}
	if err := c.Bind(request); err != nil {
		return replyError(c, http.StatusBadRequest, "malformed request")
	}
	if request.Status != store.MatchStatusPending && request.Status != store.MatchStatusAccepted {
		return replyError(c, http.StatusBadRequest, "unsupported status")
	}

	matches, err := s.Store.ListMatches(ctx, &store.FindMatch{UID: &uid})
	if err != nil {
		return replyError(c, http.StatusInternalServerError, "failed to get match")
	}
	if len(matches) == 0 {
		return replyError(c, http.StatusNotFound, "match not found")
	}
	existing := matches[0]
	if existing.UserA != userID && existing.UserB != userID {
		return replyError(c, http.StatusForbidden, "not your match")
	}

	updated, err := s.Store.UpdateMatch(ctx, &store.UpdateMatch{
		ID:     existing.ID,
		Status: &request.Status,
	})
	if err != nil {
		return replyError(c, http.StatusInternalServerError, "failed to update match")
	}
	return c.JSON(http.StatusOK, convertMatch(updated))
}

// matchMailer emails both members of a newly created match.
type matchMailer struct {
	store  *store.Store
	mailer *notify.Mailer
}

func (m *matchMailer) NotifyMatch(ctx context.Context, row *store.Match) error {
	users, err := m.store.ListUsers(ctx, &store.FindUser{IDs: []int32{row.UserA, row.UserB}})
	if err != nil {
		return err
	}
	for _, user := range users {
		if err := m.mailer.SendMatch(ctx, user.Email, row.SimilarityScore); err != nil {
			return err
		}
	}
	return nil
}
