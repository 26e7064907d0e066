package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kailas-cloud/phonedex/internal/domain"
	domuser "github.com/kailas-cloud/phonedex/internal/domain/user"
)

// Claims are the token claims: the public user fields plus the standard ones.
type Claims struct {
	ID    string       `json:"_id"`
	Name  string       `json:"name"`
	Email string       `json:"email"`
	Role  domuser.Role `json:"role"`
	jwt.RegisteredClaims
}

// User returns the public user the token was issued for.
func (c *Claims) User() domuser.Public {
	return domuser.Public{ID: c.ID, Name: c.Name, Email: c.Email, Role: c.Role}
}

// IsAdmin reports whether the token grants admin access.
func (c *Claims) IsAdmin() bool { return c.Role == domuser.Admin }

// Tokens issues and verifies HS256 tokens.
type Tokens struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokens creates a token issuer. A zero ttl issues tokens without expiry.
func NewTokens(key string, ttl time.Duration) (*Tokens, error) {
	if key == "" {
		return nil, fmt.Errorf("jwt key is required")
	}
	return &Tokens{key: []byte(key), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for the user.
func (t *Tokens) Issue(u domuser.Public) (string, error) {
	claims := Claims{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
	now := t.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	if t.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and expiry and returns the claims.
// Any failure is reported as domain.ErrUnauthorized.
func (t *Tokens) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return t.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, errors.Join(domain.ErrUnauthorized, err)
	}
	if !parsed.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
