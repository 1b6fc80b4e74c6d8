// Package token issues and verifies the signed bearer tokens that identify
// an account on each request. Verification is stateless: the only shared
// state is the signing secret.
package token

import (
	"fmt"
	"time"

	"github.com/atinyakov/ProjectTracker/internal/apperrors"
	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLen is the minimum length of the signing secret in bytes.
// A shorter secret is a configuration error, not a per-request condition.
const MinSecretLen = 32

// Service mints and verifies HS256-signed tokens carrying an account's
// username as the subject claim.
type Service struct {
	// secret is the symmetric signing key.
	secret []byte
	// lifetime is how long an issued token stays valid.
	lifetime time.Duration
}

// New constructs a Service. It fails if the secret is shorter than
// MinSecretLen; callers are expected to treat that as fatal at startup.
func New(secret []byte, lifetime time.Duration) (*Service, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("signing secret must be at least %d bytes, got %d", MinSecretLen, len(secret))
	}
	return &Service{secret: secret, lifetime: lifetime}, nil
}

// Issue creates a signed token asserting the given username, valid from
// now until now plus the configured lifetime.
func (s *Service) Issue(username string) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
	})

	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ExtractSubject verifies the token's signature and expiry and returns the
// embedded username. Any failure — wrong signature, malformed payload,
// expired token — yields apperrors.ErrInvalidToken.
func (s *Service) ExtractSubject(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperrors.ErrInvalidToken, err)
	}
	if !t.Valid || claims.Subject == "" {
		return "", apperrors.ErrInvalidToken
	}

	return claims.Subject, nil
}

// IsValidFor reports whether the token verifies successfully and its
// subject equals username exactly (case-sensitive).
func (s *Service) IsValidFor(tokenString, username string) bool {
	subject, err := s.ExtractSubject(tokenString)
	return err == nil && subject == username
}
