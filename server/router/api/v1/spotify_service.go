package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/unv3iled/cortex/store"
)

// GetSpotifyAuthURL returns the OAuth consent URL for linking Spotify.
func (s *APIV1Service) GetSpotifyAuthURL(c echo.Context) error {
	if !s.Profile.IsSpotifyEnabled() {
		return replyError(c, http.StatusServiceUnavailable, "spotify integration not configured")
	}
	state := c.QueryParam("state")
	if state == "" {
		return replyError(c, http.StatusBadRequest, "state is required")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"url": s.SpotifyConfig.OAuthConfig().AuthCodeURL(state),
	})
}

type connectSpotifyRequest struct {
	Code string `json:"code"`
}

// ConnectSpotify exchanges the OAuth code and stores the tokens on the user.
func (s *APIV1Service) ConnectSpotify(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := currentUserID(c)

	if !s.Profile.IsSpotifyEnabled() {
		return replyError(c, http.StatusServiceUnavailable, "spotify integration not configured")
	}

	request := &connectSpotifyRequest{}
	if err := c.Bind(request); err != nil || request.Code == "" {
		return replyError(c, http.StatusBadRequest, "authorization code is required")
	}

	token, err := s.SpotifyConfig.OAuthConfig().Exchange(ctx, request.Code)
	if err != nil {
		return replyError(c, http.StatusBadGateway, errors.Wrap(err, "code exchange failed").Error())
	}

	connected := true
	user, err := s.Store.UpdateUser(ctx, &store.UpdateUser{
		ID:                  userID,
		SpotifyConnected:    &connected,
		SpotifyAccessToken:  &token.AccessToken,
		SpotifyRefreshToken: &token.RefreshToken,
	})
	if err != nil {
		return replyError(c, http.StatusInternalServerError, "failed to store spotify tokens")
	}
	return c.JSON(http.StatusOK, convertUser(user))
}

type syncResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// SyncSpotify runs a full listening-history sync for the user.
func (s *APIV1Service) SyncSpotify(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := currentUserID(c)

	counts, err := s.SyncService.Run(ctx, userID)
	if err != nil {
		return replyError(c, http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, &syncResponse{
		Message: "Spotify sync completed successfully",
		Data:    counts,
	})
}
