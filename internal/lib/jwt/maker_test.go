package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMaker_GenerateAndParseToken(t *testing.T) {
	maker := NewJWTMaker("test_secret_key_1234567890", "task-tracker")

	tests := []struct {
		name      string
		sessionID string
	}{
		{name: "uuid session id", sessionID: "3f1c1f7a-58a4-4c1e-9f0e-6f4f0f3a1b2c"},
		{name: "short session id", sessionID: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.sessionID, time.Now().Add(time.Hour))
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			sid, err := maker.ParseToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.sessionID, sid)
		})
	}
}

func TestJWTMaker_GenerateToken_EmptySessionID(t *testing.T) {
	maker := NewJWTMaker("secret", "task-tracker")

	_, err := maker.GenerateToken("", time.Now().Add(time.Hour))
	assert.Error(t, err)
}

func TestJWTMaker_ParseToken_InvalidTokens(t *testing.T) {
	maker := NewJWTMaker("secret", "task-tracker")
	otherKey := NewJWTMaker("other-secret", "task-tracker")
	otherIssuer := NewJWTMaker("secret", "someone-else")

	valid, err := maker.GenerateToken("sid-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	expired, err := maker.GenerateToken("sid-1", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	foreignSig, err := otherKey.GenerateToken("sid-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	foreignIss, err := otherIssuer.GenerateToken("sid-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "sid-1",
			Issuer:    "task-tracker",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.token"},
		{name: "tampered", token: valid + "x"},
		{name: "expired", token: expired},
		{name: "signed with another key", token: foreignSig},
		{name: "another issuer", token: foreignIss},
		{name: "none algorithm", token: noneAlg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sid, err := maker.ParseToken(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Empty(t, sid)
		})
	}
}
