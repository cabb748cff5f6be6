package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenGenerator_GenerateAndValidate(t *testing.T) {
	tg := NewTokenGenerator("test-secret", time.Hour, 7*24*time.Hour)

	accessToken, refreshToken, err := tg.GenerateTokens(42)

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	userID, err := tg.ValidateAccessToken(accessToken)
	assert.NoError(t, err)
	assert.Equal(t, 42, userID)

	assert.NoError(t, tg.ValidateRefreshToken(refreshToken))
}

func TestTokenGenerator_TokenTypeEnforced(t *testing.T) {
	tg := NewTokenGenerator("test-secret", time.Hour, 7*24*time.Hour)

	accessToken, refreshToken, err := tg.GenerateTokens(42)
	assert.NoError(t, err)

	// A refresh token is not usable as an access token and vice versa
	_, err = tg.ValidateAccessToken(refreshToken)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not an access token")

	err = tg.ValidateRefreshToken(accessToken)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not a refresh token")
}

func TestTokenGenerator_WrongSecret(t *testing.T) {
	tg := NewTokenGenerator("test-secret", time.Hour, 7*24*time.Hour)
	other := NewTokenGenerator("other-secret", time.Hour, 7*24*time.Hour)

	accessToken, _, err := tg.GenerateTokens(42)
	assert.NoError(t, err)

	_, err = other.ValidateAccessToken(accessToken)
	assert.Error(t, err)
}

func TestTokenGenerator_ExpiredToken(t *testing.T) {
	tg := NewTokenGenerator("test-secret", -time.Minute, 7*24*time.Hour)

	accessToken, _, err := tg.GenerateTokens(42)
	assert.NoError(t, err)

	_, err = tg.ValidateAccessToken(accessToken)
	assert.Error(t, err)
}
