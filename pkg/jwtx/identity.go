package jwtx

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GoogleIssuers are the two canonical issuer strings Google puts in ID tokens.
var GoogleIssuers = []string{"https://accounts.google.com", "accounts.google.com"}

// DefaultIdentityLeeway absorbs clock skew against the provider on exp/nbf.
const DefaultIdentityLeeway = time.Minute

// IdentityClaims are the claims we read out of a provider ID token.
type IdentityClaims struct {
	jwt.RegisteredClaims

	Email         string `json:"email,omitempty"`
	EmailVerified *bool  `json:"email_verified,omitempty"`
	Name          string `json:"name,omitempty"`
}

// IdentityVerifierOptions configures NewIdentityVerifier.
type IdentityVerifierOptions struct {
	Keys      *KeyCache
	Refresher KeyRefresher

	// Audience is the OAuth client id the token must be minted for. Required.
	Audience string

	// Issuers defaults to GoogleIssuers.
	Issuers []string

	// Leeway defaults to DefaultIdentityLeeway.
	Leeway time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// IdentityVerifier validates ID tokens issued by the external identity
// provider against the cached JWKS.
type IdentityVerifier struct {
	keys      *KeyCache
	refresher KeyRefresher
	audience  string
	issuers   []string
	leeway    time.Duration
	now       func() time.Time
}

// NewIdentityVerifier builds a verifier, filling in the defaults.
func NewIdentityVerifier(opts IdentityVerifierOptions) (*IdentityVerifier, error) {
	if opts.Keys == nil || opts.Refresher == nil {
		return nil, errors.New("jwtx: identity verifier needs a key cache and refresher")
	}
	if opts.Audience == "" {
		return nil, errors.New("jwtx: identity verifier needs an audience")
	}

	v := &IdentityVerifier{
		keys:      opts.Keys,
		refresher: opts.Refresher,
		audience:  opts.Audience,
		issuers:   opts.Issuers,
		leeway:    opts.Leeway,
		now:       opts.Now,
	}
	if len(v.issuers) == 0 {
		v.issuers = GoogleIssuers
	}
	if v.leeway == 0 {
		v.leeway = DefaultIdentityLeeway
	}
	if v.now == nil {
		v.now = time.Now
	}
	return v, nil
}

// Verify checks signature, algorithm, audience, issuer and expiry, then the
// email policy. The returned error wraps exactly one of the package
// sentinels so callers can log the reason; it is not meant for clients.
func (v *IdentityVerifier) Verify(ctx context.Context, tokenStr string) (*IdentityClaims, error) {
	kid, err := headerKID(tokenStr)
	if err != nil {
		return nil, err
	}

	key, err := v.resolveKey(ctx, kid)
	if err != nil {
		return nil, err
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{AlgRS256}),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
		jwt.WithTimeFunc(v.now),
	)

	claims := &IdentityClaims{}
	token, err := parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if !slices.Contains(v.issuers, claims.Issuer) {
		return nil, fmt.Errorf("%w: issuer %q not accepted", ErrInvalidToken, claims.Issuer)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	// Policy checks on top of a cryptographically valid token
	if claims.EmailVerified != nil && !*claims.EmailVerified {
		return nil, ErrEmailNotVerified
	}
	if claims.Email == "" {
		return nil, ErrMissingEmail
	}

	return claims, nil
}

// resolveKey is lookup, then one refresh, then lookup again. There is no
// retry loop; a second miss means the provider does not know the kid.
func (v *IdentityVerifier) resolveKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if key, ok := v.keys.Lookup(kid); ok {
		return key, nil
	}

	if err := v.refresher.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	key, ok := v.keys.Lookup(kid)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKID, kid)
	}
	return key, nil
}

// headerKID reads the kid out of the header without checking the signature.
func headerKID(tokenStr string) (string, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenStr, jwt.MapClaims{})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	kid, _ := token.Header["kid"].(string)
	if kid == "" {
		return "", fmt.Errorf("%w: missing kid", ErrMalformed)
	}
	return kid, nil
}
