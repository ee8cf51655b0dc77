// Package auth issues and validates the HS256 bearer tokens used by the REST
// surface and, optionally, by signal connections.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dkeye/Huddle/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const DefaultTTL = time.Hour

type claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies bearer tokens with a shared secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Tokens{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue mints a token for uid valid for the configured TTL.
func (t *Tokens) Issue(uid domain.UserID) (string, error) {
	now := t.now()
	c := claims{
		UserID: string(uid),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate returns the identity asserted by token. Missing tokens yield
// domain.ErrAuthenticationMissing, everything else domain.ErrAuthenticationInvalid.
func (t *Tokens) Validate(token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, domain.ErrAuthenticationMissing
	}
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, fmt.Errorf("%w: token expired", domain.ErrAuthenticationInvalid)
		}
		return domain.Identity{}, fmt.Errorf("%w: %w", domain.ErrAuthenticationInvalid, err)
	}
	if c.UserID == "" {
		return domain.Identity{}, fmt.Errorf("%w: no user_id claim", domain.ErrAuthenticationInvalid)
	}
	return domain.Identity{UserID: domain.UserID(c.UserID)}, nil
}

// BearerFromHeader extracts the token from an Authorization header value.
func BearerFromHeader(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", domain.ErrAuthenticationMissing
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", fmt.Errorf("%w: malformed authorization header", domain.ErrAuthenticationInvalid)
	}
	return strings.TrimSpace(token), nil
}
