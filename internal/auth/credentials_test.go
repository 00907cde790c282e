// ABOUTME: Tests for credential storage and token inspection
// ABOUTME: Verifies lookup order, round-trip persistence, and expiry reads

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signedToken builds an HS256 token with the given claims. The signing
// key is irrelevant: Inspect never verifies.
func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestLoadToken_EnvVarWins(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	require.NoError(t, SaveToken("file-token"))
	t.Setenv(TokenEnvVar, "env-token")

	token, err := LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "env-token", token)
}

func TestLoadToken_RoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(TokenEnvVar, "")

	_, err := LoadToken()
	assert.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, SaveToken("stored-token"))
	token, err := LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "stored-token", token, "stored token is trimmed of the trailing newline")
}

func TestInspect_SubjectAndExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{
		"sub": "user-42",
		"exp": exp.Unix(),
	})

	info, err := Inspect(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", info.Subject)
	assert.WithinDuration(t, exp, info.ExpiresAt, time.Second)
	assert.False(t, info.Expired())
}

func TestInspect_ExpiredToken(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	info, err := Inspect(token)
	require.NoError(t, err)
	assert.True(t, info.Expired())
}

func TestInspect_NoExpClaim(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "user-42"})

	info, err := Inspect(token)
	require.NoError(t, err)
	assert.False(t, info.Expired(), "a token without exp is the backend's problem, not ours")
}

func TestInspect_Garbage(t *testing.T) {
	_, err := Inspect("not-a-jwt")
	assert.Error(t, err)
}
