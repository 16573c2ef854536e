package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/sessiond/internal/auth/audit"
	"github.com/aussiebroadwan/sessiond/internal/auth/domain"
	"github.com/aussiebroadwan/sessiond/internal/auth/store"
	"github.com/aussiebroadwan/sessiond/pkg/idx"
	"github.com/aussiebroadwan/sessiond/pkg/jwtx"
	"github.com/aussiebroadwan/sessiond/pkg/slogx"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// IdentityVerifier checks an identity provider credential.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*jwtx.IdentityClaims, error)
}

// AuditLog receives one record per session transition.
type AuditLog interface {
	RecordLogin(ctx context.Context, ev domain.LoginEvent) error
	RecordLogout(ctx context.Context, ev domain.LoginEvent) error
}

// Session is a freshly issued or renewed session token with its claims.
type Session struct {
	Token  string
	Claims jwtx.SessionClaims
}

// SessionService turns identity credentials into session tokens, renews
// them and keeps the login history.
type SessionService struct {
	Identity IdentityVerifier
	Sessions *jwtx.SessionCodec
	Audit    AuditLog
	Store    store.Store

	// Now defaults to time.Now.
	Now func() time.Time
}

// GoogleLogin verifies credential and issues a session for the identity in
// it. The login is written to the history table and then the audit file
// before the token is handed out; if either write fails there is no session
// and no trace of it is left behind.
func (s *SessionService) GoogleLogin(ctx context.Context, credential, ip string) (Session, error) {
	l := slogx.FromContext(ctx)

	now, err := s.now()
	if err != nil {
		return Session{}, err
	}

	identity, err := s.Identity.Verify(ctx, credential)
	if err != nil {
		l.Warn("identity token rejected", "err", err)
		return Session{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	token, claims, err := s.Sessions.IssueFor(identity, now)
	if err != nil {
		return Session{}, fmt.Errorf("issue session: %w", err)
	}

	ev := domain.LoginEvent{
		ID:      idx.NewAt(now).String(),
		Kind:    domain.LoginEventLogin,
		Subject: claims.Email,
		Email:   claims.Email,
		Name:    claims.Name,
		IP:      ip,
		At:      now,
	}

	// The history row goes first: it can be taken back, the file line can't.
	if err := s.Store.LoginEvents().CreateLoginEvent(ctx, ev); err != nil {
		l.Error("failed to store login event", "err", err)
		return Session{}, fmt.Errorf("%w: %w", ErrAuditLog, err)
	}
	if err := s.Audit.RecordLogin(ctx, ev); err != nil {
		l.Error("failed to write login audit line", "err", err)
		if derr := s.Store.LoginEvents().DeleteLoginEvent(context.WithoutCancel(ctx), ev.ID); derr != nil {
			l.Error("failed to withdraw login event", "event_id", ev.ID, "err", derr)
		}
		return Session{}, fmt.Errorf("%w: %w", ErrAuditLog, err)
	}

	return Session{Token: token, Claims: claims}, nil
}

// Logout records that a client ended its session. Sessions are stateless so
// nothing is revoked; the token simply stops being renewed. Recording is
// best effort.
func (s *SessionService) Logout(ctx context.Context, email, username, ip string) error {
	l := slogx.FromContext(ctx)

	now, err := s.now()
	if err != nil {
		return err
	}

	identifier := audit.LogoutIdentifier(email, username)
	ev := domain.LoginEvent{
		ID:      idx.NewAt(now).String(),
		Kind:    domain.LoginEventLogout,
		Subject: identifier,
		Email:   email,
		IP:      ip,
		At:      now,
	}

	if err := s.Audit.RecordLogout(ctx, ev); err != nil {
		l.Warn("failed to write logout audit line", "err", err)
	}
	if err := s.Store.LoginEvents().CreateLoginEvent(ctx, ev); err != nil {
		l.Warn("failed to store logout event", "err", err)
	}
	return nil
}

// Renew slides the window of a still-valid session token. The presented
// token is not revoked.
func (s *SessionService) Renew(ctx context.Context, token string) (Session, error) {
	now, err := s.now()
	if err != nil {
		return Session{}, err
	}

	next, claims, err := s.Sessions.Renew(token, now)
	if err != nil {
		if errors.Is(err, jwtx.ErrSessionRejected) {
			slogx.FromContext(ctx).Debug("session renewal refused")
			return Session{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
		}
		return Session{}, fmt.Errorf("renew session: %w", err)
	}

	return Session{Token: next, Claims: claims}, nil
}

// History lists the caller's recent login and logout events, newest first.
func (s *SessionService) History(ctx context.Context, claims jwtx.SessionClaims, limit int) ([]domain.LoginEvent, error) {
	if claims.Email == "" {
		return []domain.LoginEvent{}, nil
	}

	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	events, err := s.Store.LoginEvents().ListLoginEventsBySubject(ctx, claims.Email, limit)
	if err != nil {
		return nil, fmt.Errorf("list login events: %w", err)
	}
	return events, nil
}

// now reads the clock and refuses times at or before the epoch.
func (s *SessionService) now() (time.Time, error) {
	clock := s.Now
	if clock == nil {
		clock = time.Now
	}

	t := clock()
	if t.Unix() <= 0 {
		return time.Time{}, ErrClockUnavailable
	}
	return t, nil
}
