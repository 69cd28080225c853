package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/unv3iled/cortex/store"
)

type userResponse struct {
	ID               int32  `json:"id"`
	UID              string `json:"uid"`
	Email            string `json:"email"`
	DisplayName      string `json:"displayName,omitempty"`
	Age              *int32 `json:"age,omitempty"`
	Location         string `json:"location,omitempty"`
	Bio              string `json:"bio,omitempty"`
	AvatarURL        string `json:"avatarUrl,omitempty"`
	SpotifyConnected bool   `json:"spotifyConnected"`
	Onboarded        bool   `json:"onboarded"`
	CreatedTs        int64  `json:"createdTs"`
}

func convertUser(user *store.User) *userResponse {
	return &userResponse{
		ID:               user.ID,
		UID:              user.UID,
		Email:            user.Email,
		DisplayName:      user.DisplayName,
		Age:              user.Age,
		Location:         user.Location,
		Bio:              user.Bio,
		AvatarURL:        user.AvatarURL,
		SpotifyConnected: user.SpotifyConnected,
		Onboarded:        user.OnboardedTs != nil,
		CreatedTs:        user.CreatedTs,
	}
}

type updateUserRequest struct {
	DisplayName *string `json:"displayName"`
	Age         *int32  `json:"age"`
	Location    *string `json:"location"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatarUrl"`
	Onboarded   *bool   `json:"onboarded"`
}

// GetCurrentUser returns the authenticated user's profile.
func (s *APIV1Service) GetCurrentUser(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := currentUserID(c)

	user, err := s.Store.GetUser(ctx, &store.FindUser{ID: &userID})
	if err != nil {
		return replyError(c, http.StatusInternalServerError, "failed to get user")
	}
	if user == nil {
		return replyError(c, http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, convertUser(user))
}

// UpdateCurrentUser applies partial profile updates.
func (s *APIV1Service) UpdateCurrentUser(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := currentUserID(c)

	request := &updateUserRequest{}
	if err := c.Bind(request); err != nil {
		return replyError(c, http.StatusBadRequest, "malformed request")
	}
	if request.Age != nil && (*request.Age < 13 || *request.Age > 120) {
		return replyError(c, http.StatusBadRequest, "age out of range")
	}

	update := &store.UpdateUser{
		ID:          userID,
		DisplayName: request.DisplayName,
		Age:         request.Age,
		Location:    request.Location,
		Bio:         request.Bio,
		AvatarURL:   request.AvatarURL,
	}
	if request.Onboarded != nil && *request.Onboarded {
		now := time.Now().Unix()
		update.OnboardedTs = &now
	}

	user, err := s.Store.UpdateUser(ctx, update)
	if err != nil {
		return replyError(c, http.StatusInternalServerError, "failed to update user")
	}
	return c.JSON(http.StatusOK, convertUser(user))
}
