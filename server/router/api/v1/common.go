package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	apierrors "github.com/unv3iled/cortex/server/internal/errors"
)

const userIDContextKey = "user-id"

// errorResponse is the uniform failure envelope.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func replyError(c echo.Context, status int, message string) error {
	return c.JSON(status, &errorResponse{Error: message})
}

func replyServiceError(c echo.Context, err error) error {
	code := apierrors.GetCodeFromError(err, apierrors.ErrCodeServiceUnavailable)
	status := http.StatusInternalServerError
	switch code {
	case apierrors.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
	case apierrors.ErrCodeInvalidArgument:
		status = http.StatusBadRequest
	case apierrors.ErrCodeNotFound, apierrors.ErrCodeProfileNotFound:
		status = http.StatusNotFound
	case apierrors.ErrCodeRateLimitExceeded:
		status = http.StatusTooManyRequests
	case apierrors.ErrCodeUpstreamFailure:
		status = http.StatusBadGateway
	}
	return c.JSON(status, &errorResponse{Error: err.Error(), Code: string(code)})
}

// bearerToken extracts the token from an Authorization header.
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// currentUserID returns the authenticated user's ID set by the auth middleware.
func currentUserID(c echo.Context) (int32, bool) {
	userID, ok := c.Get(userIDContextKey).(int32)
	return userID, ok
}

func rateLimitKey(userID int32) string {
	return "user:" + strconv.Itoa(int(userID))
}
