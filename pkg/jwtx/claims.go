package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionWindow is how long a session token stays valid after it is
// issued or renewed.
const DefaultSessionWindow = time.Hour

// SessionClaims are the claims carried in our own session tokens. Times are
// whole Unix seconds.
type SessionClaims struct {
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
	Subject   string `json:"sub,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
}

// NewSessionClaims builds claims for a freshly verified identity.
func NewSessionClaims(identity *IdentityClaims, now time.Time, window time.Duration) SessionClaims {
	iat := now.Unix()
	return SessionClaims{
		IssuedAt:  iat,
		ExpiresAt: iat + int64(window/time.Second),
		Subject:   identity.Subject,
		Email:     identity.Email,
		Name:      identity.Name,
	}
}

// ValidAt applies the sliding window rule: iat < now < exp, both strict.
func (c SessionClaims) ValidAt(now time.Time) bool {
	n := now.Unix()
	return c.IssuedAt < n && c.ExpiresAt > n
}

// Renewed returns a copy with the window restarted at now. Everything but
// iat/exp is carried over untouched.
func (c SessionClaims) Renewed(now time.Time, window time.Duration) SessionClaims {
	iat := now.Unix()
	c.IssuedAt = iat
	c.ExpiresAt = iat + int64(window/time.Second)
	return c
}

// The jwt.Claims methods below only exist so the parser can decode into
// SessionClaims; the codec never lets the library validate them.

func (c SessionClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.ExpiresAt, 0)), nil
}

func (c SessionClaims) GetIssuedAt() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.IssuedAt, 0)), nil
}

func (c SessionClaims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (c SessionClaims) GetIssuer() (string, error)              { return "", nil }
func (c SessionClaims) GetSubject() (string, error)             { return c.Subject, nil }
func (c SessionClaims) GetAudience() (jwt.ClaimStrings, error)  { return nil, nil }
