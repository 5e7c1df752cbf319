// Package jwtmw signs session tokens and resolves them into the caller's identity
// on every request.
package jwtmw

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// EnvKeyJWTSecret names the environment variable holding the HMAC secret.
const EnvKeyJWTSecret = "JWT_SECRET"

// ErrMissingSecret is returned when JWT_SECRET is not configured.
var ErrMissingSecret = errors.New("JWT_SECRET is not set")

// SecretFromEnv reads the signing secret from the environment.
func SecretFromEnv() (string, error) {
	secret := os.Getenv(EnvKeyJWTSecret)
	if secret == "" {
		return "", ErrMissingSecret
	}
	return secret, nil
}

// sessionClaims binds a token to one server-side session.
type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Signer issues and verifies HS256 session tokens.
type Signer struct {
	secret []byte
	now    func() time.Time
}

// NewSigner creates a Signer with the provided secret.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret), now: time.Now}
}

// GenerateToken signs {sub, sid, iat, exp} for the session.
func (s *Signer) GenerateToken(userID uint, sessionID string, expiresAt time.Time) (string, error) {
	claims := sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies the signature and expiry and returns the user and session ids.
func (s *Signer) ParseToken(tokenStr string) (uint, string, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		// Only HMAC is accepted.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return 0, "", err
	}
	if !token.Valid {
		return 0, "", jwt.ErrTokenInvalidClaims
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 || claims.SessionID == "" {
		return 0, "", jwt.ErrTokenInvalidClaims
	}
	return uint(userID), claims.SessionID, nil
}
