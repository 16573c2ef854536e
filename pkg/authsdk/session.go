package authsdk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session holds a session token and ticks it before it runs out. Session
// tokens are only valid for an hour, so long-lived callers must keep using
// the Session (or call Tick) to stay signed in.
type Session struct {
	client *SDKClient

	mu        sync.RWMutex
	token     string
	email     string
	name      string
	expiresAt time.Time
}

// NewSession wraps an existing session token, e.g. one restored from a
// cookie.
func (c *SDKClient) NewSession(token string) (*Session, error) {
	return newSession(c, &SessionResponse{Token: token})
}

func newSession(client *SDKClient, resp *SessionResponse) (*Session, error) {
	s := &Session{client: client}
	if err := s.update(resp); err != nil {
		return nil, err
	}
	return s, nil
}

// update stores a fresh token. The expiry is read from the token without
// checking the signature; only the server can do that.
func (s *Session) update(resp *SessionResponse) error {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(resp.Token, &claims); err != nil {
		return fmt.Errorf("failed to parse session token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return errors.New("session token has no expiry")
	}

	s.token = resp.Token
	s.expiresAt = claims.ExpiresAt.Time
	if resp.Email != "" {
		s.email = resp.Email
	}
	if resp.Name != "" {
		s.name = resp.Name
	}
	return nil
}

// Token returns a usable session token, ticking it first when it is close
// to expiry.
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	if time.Until(s.expiresAt) > s.client.RenewBefore {
		token := s.token
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock (another goroutine may have ticked)
	if time.Until(s.expiresAt) > s.client.RenewBefore {
		return s.token, nil
	}

	if err := s.tickLocked(ctx); err != nil {
		return "", err
	}
	return s.token, nil
}

// Tick renews the token now, whatever its remaining lifetime.
func (s *Session) Tick(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickLocked(ctx)
}

func (s *Session) tickLocked(ctx context.Context) error {
	resp, err := s.client.Tick(ctx, s.token)
	if err != nil {
		return fmt.Errorf("failed to renew session: %w", err)
	}
	return s.update(resp)
}

// History returns the signed-in user's login history.
func (s *Session) History(ctx context.Context, limit int) (*HistoryResponse, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.History(ctx, token, limit)
}

// Logout records the logout. The token itself stays valid until it
// expires; drop the Session afterwards.
func (s *Session) Logout(ctx context.Context, ip string) error {
	s.mu.RLock()
	email := s.email
	s.mu.RUnlock()

	return s.client.Logout(ctx, LogoutRequest{Email: email, IP: ip})
}

// Email returns the signed-in user's email, if the server sent one.
func (s *Session) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

// Name returns the signed-in user's display name, if any.
func (s *Session) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// ExpiresAt is when the current token stops being accepted.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}
