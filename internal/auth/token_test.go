package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenManager("secret")
	userID := uuid.New()

	signed, err := tokens.Issue(userID)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	verified, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, userID, verified)
}

func TestTokenVerifyFailures(t *testing.T) {
	tokens := NewTokenManager("secret")

	signed, err := tokens.Issue(uuid.New())
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenManager("other-secret").Verify(signed)
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := tokens.Verify("not.a.token")
		assert.Error(t, err)
	})

	t.Run("tampered payload", func(t *testing.T) {
		_, err := tokens.Verify(signed[:len(signed)-2] + "xx")
		assert.Error(t, err)
	})
}
