package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, claims, err := tm.GenerateToken("admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, claims.ID)

	parsed, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", parsed.Username)
	assert.Equal(t, claims.ID, parsed.ID)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret-a", time.Hour)
	other := NewTokenManager("secret-b", time.Hour)

	token, _, err := tm.GenerateToken("admin")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestComparePlain(t *testing.T) {
	assert.True(t, ComparePlain("swordfish", "swordfish"))
	assert.False(t, ComparePlain("swordfish", "guess"))
	assert.False(t, ComparePlain("", ""))
}

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("swordfish")
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "swordfish"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}
