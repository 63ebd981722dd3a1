package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pushp314/devconnect-chat/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withSecret(t *testing.T, secret string) {
	prev := config.AppConfig
	config.AppConfig = &config.Config{JWTSecret: secret}
	t.Cleanup(func() { config.AppConfig = prev })
}

func TestTokenRoundTrip(t *testing.T) {
	withSecret(t, "test_secret_key_12345")

	token, err := GenerateToken("user-1")
	require.NoError(t, err)

	userID, err := Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestValidateTokenRejects(t *testing.T) {
	withSecret(t, "test_secret_key_12345")

	t.Run("wrong secret", func(t *testing.T) {
		token, err := GenerateToken("user-1")
		require.NoError(t, err)

		config.AppConfig.JWTSecret = "another_secret"
		_, err = ValidateToken(token)
		assert.Error(t, err)
		config.AppConfig.JWTSecret = "test_secret_key_12345"
	})

	t.Run("expired", func(t *testing.T) {
		claims := &Claims{
			UserID: "user-1",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
				Issuer:    tokenIssuer,
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test_secret_key_12345"))
		require.NoError(t, err)

		_, err = ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		claims := &Claims{
			UserID:           "user-1",
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else"},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test_secret_key_12345"))
		require.NoError(t, err)

		_, err = Authenticate(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := Authenticate("not-a-jwt")
		assert.Error(t, err)
	})
}
