package auth

import (
	"testing"
	"time"

	"github.com/flexcargo/flexcargo/internal/config"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokens(secret string) *Tokens {
	cfg := config.GetDefaultConfig()
	cfg.Auth.Secret = secret
	return NewTokens(cfg)
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := newTokens("s3cret")
	require.True(t, tokens.Enabled())

	signed, err := tokens.GenerateToken("user_1", "tenant_acme", time.Hour)
	require.NoError(t, err)

	claims, err := tokens.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "tenant_acme", claims.TenantID)
	assert.Equal(t, "user_1", claims.UserID)
}

func TestValidateTokenRejects(t *testing.T) {
	tokens := newTokens("s3cret")

	t.Run("wrong secret", func(t *testing.T) {
		signed, err := newTokens("other").GenerateToken("user_1", "tenant_acme", time.Hour)
		require.NoError(t, err)

		_, err = tokens.ValidateToken(signed)
		require.Error(t, err)
		assert.True(t, ierr.IsPermissionDenied(err))
	})

	t.Run("expired", func(t *testing.T) {
		signed, err := tokens.GenerateToken("user_1", "tenant_acme", -time.Minute)
		require.NoError(t, err)

		_, err = tokens.ValidateToken(signed)
		assert.True(t, ierr.IsPermissionDenied(err))
	})

	t.Run("missing tenant", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "user_1"})
		signed, err := token.SignedString([]byte("s3cret"))
		require.NoError(t, err)

		_, err = tokens.ValidateToken(signed)
		assert.True(t, ierr.IsPermissionDenied(err))
	})
}
