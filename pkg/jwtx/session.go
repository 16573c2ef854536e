package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSessionKeySize is the smallest HMAC key we accept (256 bits).
const MinSessionKeySize = 32

// SessionKey lends out the HMAC key for the duration of fn. The slice must
// not be retained after fn returns. Implementations backed by locked memory
// refuse once the key has been wiped.
type SessionKey interface {
	WithKey(fn func(key []byte) error) error
}

type staticKey []byte

func (k staticKey) WithKey(fn func(key []byte) error) error { return fn(k) }

// SessionCodec issues and verifies HS256 session tokens with a process-wide
// secret. It holds no mutable state and is safe for concurrent use.
type SessionCodec struct {
	key    SessionKey
	window time.Duration
	parser *jwt.Parser
}

// NewSessionCodec returns a codec using the default one hour window and a
// key held in ordinary memory.
func NewSessionCodec(key []byte) (*SessionCodec, error) {
	return NewSessionCodecWithKey(staticKey(key))
}

// NewSessionCodecWithKey returns a codec that borrows its key from src on
// every sign and verify.
func NewSessionCodecWithKey(src SessionKey) (*SessionCodec, error) {
	err := src.WithKey(func(key []byte) error {
		if len(key) < MinSessionKeySize {
			return fmt.Errorf("jwtx: session key must be at least %d bytes", MinSessionKeySize)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &SessionCodec{
		key:    src,
		window: DefaultSessionWindow,
		// exp/iat are judged by ValidAt, not by the library
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{AlgHS256}),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// Window is the validity period applied at issue and renewal.
func (c *SessionCodec) Window() time.Duration { return c.window }

// Issue signs claims. The output is deterministic for identical claims.
func (c *SessionCodec) Issue(claims SessionClaims) (string, error) {
	var token string
	err := c.key.WithKey(func(key []byte) error {
		var err error
		token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("jwtx: sign session: %w", err)
	}
	return token, nil
}

// Verify checks the MAC, decodes the claims and applies the window rule.
// It reports false for anything short of a currently valid token.
func (c *SessionCodec) Verify(tokenStr string, now time.Time) (SessionClaims, bool) {
	var claims SessionClaims
	err := c.key.WithKey(func(key []byte) error {
		token, err := c.parser.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (any, error) {
			return key, nil
		})
		if err != nil {
			return err
		}
		if !token.Valid {
			return ErrSessionRejected
		}
		return nil
	})
	if err != nil {
		return SessionClaims{}, false
	}

	if !claims.ValidAt(now) {
		return SessionClaims{}, false
	}
	return claims, true
}

// Renew verifies tokenStr and, if valid, issues a new token whose window
// starts at now. The old token is left alone and stays valid until its own
// exp.
func (c *SessionCodec) Renew(tokenStr string, now time.Time) (string, SessionClaims, error) {
	claims, ok := c.Verify(tokenStr, now)
	if !ok {
		return "", SessionClaims{}, ErrSessionRejected
	}

	next := claims.Renewed(now, c.window)
	token, err := c.Issue(next)
	if err != nil {
		return "", SessionClaims{}, err
	}
	return token, next, nil
}

// IssueFor mints a session for a verified identity.
func (c *SessionCodec) IssueFor(identity *IdentityClaims, now time.Time) (string, SessionClaims, error) {
	if identity == nil {
		return "", SessionClaims{}, errors.New("jwtx: nil identity")
	}

	claims := NewSessionClaims(identity, now, c.window)
	token, err := c.Issue(claims)
	if err != nil {
		return "", SessionClaims{}, err
	}
	return token, claims, nil
}
