package v1

import (
	"log/slog"
	"net/http"
	"net/mail"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/unv3iled/cortex/server/auth"
	"github.com/unv3iled/cortex/store"
)

type signUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	AccessToken string        `json:"accessToken"`
	User        *userResponse `json:"user"`
}

// SignUp registers a new account and returns a session token.
func (s *APIV1Service) SignUp(c echo.Context) error {
	ctx := c.Request().Context()

	request := &signUpRequest{}
	if err := c.Bind(request); err != nil {
		return replyError(c, http.StatusBadRequest, "malformed request")
	}
	if _, err := mail.ParseAddress(request.Email); err != nil {
		return replyError(c, http.StatusBadRequest, "invalid email address")
	}
	if len(request.Password) < 8 {
		return replyError(c, http.StatusBadRequest, "password must be at least 8 characters")
	}

	existing, err := s.Store.GetUser(ctx, &store.FindUser{Email: &request.Email})
	if err != nil {
		return replyError(c, http.StatusInternalServerError, "failed to check existing account")
	}
	if existing != nil {
		return replyError(c, http.StatusConflict, "email already registered")
	}

	passwordHash, err := auth.HashPassword(request.Password)
	if err != nil {
		return replyError(c, http.StatusInternalServerError, "failed to create account")
	}

	user, err := s.Store.CreateUser(ctx, &store.User{
		Email:        request.Email,
		PasswordHash: passwordHash,
		DisplayName:  request.DisplayName,
	})
	if err != nil {
		return replyError(c, http.StatusInternalServerError, "failed to create account")
	}

	if s.Mailer.IsConfigured() {
		if err := s.Mailer.SendWelcome(ctx, user.Email); err != nil {
			slog.Warn("failed to send welcome email",
				slog.Int64("user_id", int64(user.ID)),
				slog.String("error", err.Error()))
		}
	}

	return s.replyWithToken(c, user)
}

// SignIn verifies credentials and returns a session token.
func (s *APIV1Service) SignIn(c echo.Context) error {
	ctx := c.Request().Context()

	request := &signInRequest{}
	if err := c.Bind(request); err != nil {
		return replyError(c, http.StatusBadRequest, "malformed request")
	}

	user, err := s.Store.GetUser(ctx, &store.FindUser{Email: &request.Email})
	if err != nil {
		return replyError(c, http.StatusInternalServerError, "failed to look up account")
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, request.Password) {
		return replyError(c, http.StatusUnauthorized, "invalid email or password")
	}

	return s.replyWithToken(c, user)
}

func (s *APIV1Service) replyWithToken(c echo.Context, user *store.User) error {
	token, err := auth.GenerateAccessToken(user.DisplayName, user.ID,
		time.Now().Add(auth.AccessTokenDuration), []byte(s.Secret))
	if err != nil {
		return replyError(c, http.StatusInternalServerError, "failed to issue access token")
	}
	return c.JSON(http.StatusOK, &authResponse{
		AccessToken: token,
		User:        convertUser(user),
	})
}
