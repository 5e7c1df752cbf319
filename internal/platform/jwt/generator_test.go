package jwtmw

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigner_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		userID    uint
		sessionID string
	}{
		{"basic user", 1, "3f1c2a9e-0000-4000-8000-000000000001"},
		{"large user id", 999999, "sid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewSigner("test-secret")
			token, err := s.GenerateToken(tt.userID, tt.sessionID, time.Now().Add(time.Hour))
			require.NoError(t, err)

			userID, sessionID, err := s.ParseToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, userID)
			assert.Equal(t, tt.sessionID, sessionID)
		})
	}
}

func TestSigner_ParseToken_Rejects(t *testing.T) {
	t.Parallel()

	s := NewSigner("test-secret")
	valid, err := s.GenerateToken(1, "sid", time.Now().Add(time.Hour))
	require.NoError(t, err)
	expired, err := s.GenerateToken(1, "sid", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	otherSecret, err := NewSigner("other-secret").GenerateToken(1, "sid", time.Now().Add(time.Hour))
	require.NoError(t, err)
	noSession, err := s.GenerateToken(1, "", time.Now().Add(time.Hour))
	require.NoError(t, err)

	noneSigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "1", "sid": "sid", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1", "sid": "sid",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":           "not-a-token",
		"tampered":          valid + "x",
		"expired":           expired,
		"wrong secret":      otherSecret,
		"missing session":   noSession,
		"alg none":          noneSigned,
		"missing exp claim": noExpiry,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, _, err := s.ParseToken(token)
			assert.Error(t, err)
		})
	}
}

func TestSigner_GenerateToken_SigningMethod(t *testing.T) {
	t.Parallel()

	token, err := NewSigner("test-secret").GenerateToken(1, "sid", time.Now().Add(time.Hour))
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	require.NoError(t, err)
	assert.Equal(t, jwt.SigningMethodHS256.Alg(), parsed.Method.Alg())
	assert.Equal(t, "1", parsed.Claims.(jwt.MapClaims)["sub"])
	assert.Equal(t, "sid", parsed.Claims.(jwt.MapClaims)["sid"])
}

func TestSecretFromEnv(t *testing.T) {
	t.Setenv(EnvKeyJWTSecret, "")
	_, err := SecretFromEnv()
	assert.ErrorIs(t, err, ErrMissingSecret)

	t.Setenv(EnvKeyJWTSecret, "s3cret")
	secret, err := SecretFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", secret)
}
