package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hash)
	require.True(t, CheckPassword(hash, "correct horse battery staple"))
	require.False(t, CheckPassword(hash, "wrong password"))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateAccessToken("ada", 42, time.Now().Add(time.Hour), secret)
	require.NoError(t, err)

	userID, err := VerifyAccessToken(token, secret)
	require.NoError(t, err)
	require.Equal(t, int32(42), userID)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("ada", 42, time.Now().Add(time.Hour), []byte("secret-a"))
	require.NoError(t, err)

	_, err = VerifyAccessToken(token, []byte("secret-b"))
	require.Error(t, err)
}

func TestAccessTokenExpired(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateAccessToken("ada", 42, time.Now().Add(-time.Minute), secret)
	require.NoError(t, err)

	_, err = VerifyAccessToken(token, secret)
	require.Error(t, err)
}
