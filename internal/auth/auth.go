// Package auth provides JWT bearer authentication for the CityInfo API.
//
// Authentication model:
// - Every /api route requires a valid bearer token (HS256, issuer and
//   audience checked).
// - Tokens carry an optional "city" claim naming the city the caller is
//   authorized to act on; point-of-interest routes additionally require it
//   to match the target city (see city.RequireTenant).
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Errors
var (
	ErrNoToken      = errors.New("auth: bearer token required")
	ErrInvalidToken = errors.New("auth: invalid or expired token")
)

// Claims are the token claims this API issues and accepts.
type Claims struct {
	// City names the city whose resources the caller may mutate.
	City string `json:"city,omitempty"`
	jwt.RegisteredClaims
}

// CityClaim returns the city claim, or nil when the token carries none.
func (c *Claims) CityClaim() *string {
	if c == nil || c.City == "" {
		return nil
	}
	city := c.City
	return &city
}

// Manager issues and verifies tokens.
type Manager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

// NewManager creates a token manager. ttl bounds the lifetime of issued
// tokens; verification accepts any unexpired token regardless of who issued
// it, as long as the signature, issuer, and audience check out.
func NewManager(secret []byte, issuer, audience string, ttl time.Duration) *Manager {
	return &Manager{secret: secret, issuer: issuer, audience: audience, ttl: ttl}
}

// Issue signs a token for the given subject with an optional city claim.
func (m *Manager) Issue(subject, city string) (string, error) {
	now := time.Now()
	claims := Claims{
		City: city,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify parses and validates a raw token (with or without the "Bearer "
// prefix) and returns its claims.
func (m *Manager) Verify(raw string) (*Claims, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Bearer "))
	if raw == "" {
		return nil, ErrNoToken
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
