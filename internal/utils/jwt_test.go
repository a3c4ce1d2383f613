package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := GenerateSessionToken("sess-1", 42, time.Now().Add(time.Hour), "secret")
	require.NoError(t, err)

	claims, err := ParseSessionToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.ID)
	assert.Equal(t, uint(42), claims.UserID)
}

func TestParseSessionTokenRejects(t *testing.T) {
	valid, err := GenerateSessionToken("sess-1", 1, time.Now().Add(time.Hour), "secret")
	require.NoError(t, err)
	expired, err := GenerateSessionToken("sess-1", 1, time.Now().Add(-time.Minute), "secret")
	require.NoError(t, err)
	noID, err := GenerateSessionToken("", 1, time.Now().Add(time.Hour), "secret")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{ID: "sess-1"}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]struct {
		token  string
		secret string
	}{
		"wrong secret": {valid, "other"},
		"expired":      {expired, "secret"},
		"missing id":   {noID, "secret"},
		"alg none":     {unsigned, "secret"},
		"garbage":      {"not-a-token", "secret"},
		"empty":        {"", "secret"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSessionToken(tt.token, tt.secret)
			assert.True(t, errors.Is(err, ErrInvalidToken))
		})
	}
}
