package jwtx

import (
	"context"
	"errors"
)

// Signing algorithms understood by this package.
const (
	AlgRS256 = "RS256" // identity tokens from the provider
	AlgHS256 = "HS256" // our own session tokens
)

var (
	ErrMalformed           = errors.New("jwtx: malformed token")
	ErrUpstreamUnavailable = errors.New("jwtx: signing keys unavailable")
	ErrUnknownKID          = errors.New("jwtx: unknown kid")
	ErrInvalidToken        = errors.New("jwtx: invalid token")
	ErrEmailNotVerified    = errors.New("jwtx: email not verified")
	ErrMissingEmail        = errors.New("jwtx: missing email")

	ErrJWKSFetch    = errors.New("jwtx: jwks fetch failed")
	ErrMalformedJWK = errors.New("jwtx: malformed jwk")

	ErrSessionRejected = errors.New("jwtx: session rejected")
)

// KeyRefresher reloads the signing key cache from its source. The identity
// verifier calls it at most once per verification, on a cache miss.
type KeyRefresher interface {
	Refresh(ctx context.Context) error
}
