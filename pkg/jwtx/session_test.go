package jwtx_test

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/sessiond/pkg/cryptox"
	"github.com/aussiebroadwan/sessiond/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionKey = bytes.Repeat([]byte{0x42}, jwtx.MinSessionKeySize)

func newTestCodec(t *testing.T) *jwtx.SessionCodec {
	t.Helper()
	c, err := jwtx.NewSessionCodec(sessionKey)
	require.NoError(t, err)
	return c
}

func TestNewSessionCodecRejectsShortKey(t *testing.T) {
	_, err := jwtx.NewSessionCodec([]byte("too-short"))
	require.Error(t, err)
}

func TestSessionCodecWithDestroyedSecret(t *testing.T) {
	secret, err := cryptox.NewRandomSecret(cryptox.SessionSecretSize)
	require.NoError(t, err)

	c, err := jwtx.NewSessionCodecWithKey(secret)
	require.NoError(t, err)

	iat := time.Unix(1_700_000_000, 0)
	claims := jwtx.SessionClaims{IssuedAt: iat.Unix(), ExpiresAt: iat.Add(time.Hour).Unix(), Email: "ada@example.com"}
	token, err := c.Issue(claims)
	require.NoError(t, err)

	_, ok := c.Verify(token, iat.Add(time.Second))
	require.True(t, ok)

	secret.Destroy()

	_, err = c.Issue(claims)
	require.ErrorIs(t, err, cryptox.ErrSecretDestroyed)

	_, ok = c.Verify(token, iat.Add(time.Second))
	require.False(t, ok)

	_, _, err = c.Renew(token, iat.Add(time.Second))
	require.ErrorIs(t, err, jwtx.ErrSessionRejected)

	_, err = jwtx.NewSessionCodecWithKey(secret)
	require.ErrorIs(t, err, cryptox.ErrSecretDestroyed)
}

func TestSessionCodecSurvivesConcurrentDestroy(t *testing.T) {
	secret, err := cryptox.NewRandomSecret(cryptox.SessionSecretSize)
	require.NoError(t, err)

	c, err := jwtx.NewSessionCodecWithKey(secret)
	require.NoError(t, err)

	iat := time.Unix(1_700_000_000, 0)
	claims := jwtx.SessionClaims{IssuedAt: iat.Unix(), ExpiresAt: iat.Add(time.Hour).Unix()}
	token, err := c.Issue(claims)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if _, err := c.Issue(claims); err != nil {
					assert.ErrorIs(t, err, cryptox.ErrSecretDestroyed)
				}
				c.Verify(token, iat.Add(time.Second))
			}
		}()
	}

	secret.Destroy()
	wg.Wait()
}

func TestSessionWindow(t *testing.T) {
	c := newTestCodec(t)
	iat := time.Unix(1_700_000_000, 0)

	token, err := c.Issue(jwtx.SessionClaims{
		IssuedAt:  iat.Unix(),
		ExpiresAt: iat.Add(time.Hour).Unix(),
		Email:     "ada@example.com",
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before issue", iat.Add(-time.Second), false},
		{"at issue", iat, false},
		{"one second in", iat.Add(time.Second), true},
		{"half way", iat.Add(30 * time.Minute), true},
		{"last second", iat.Add(time.Hour - time.Second), true},
		{"at expiry", iat.Add(time.Hour), false},
		{"after expiry", iat.Add(2 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, ok := c.Verify(token, tt.now)
			require.Equal(t, tt.want, ok)
			if ok {
				require.Equal(t, "ada@example.com", claims.Email)
			}
		})
	}
}

func TestSessionIssueIsDeterministic(t *testing.T) {
	c := newTestCodec(t)
	claims := jwtx.SessionClaims{IssuedAt: 100, ExpiresAt: 3700, Subject: "s"}

	a, err := c.Issue(claims)
	require.NoError(t, err)
	b, err := c.Issue(claims)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestSessionRenew(t *testing.T) {
	c := newTestCodec(t)
	iat := time.Unix(1_700_000_000, 0)

	original := jwtx.SessionClaims{
		IssuedAt:  iat.Unix(),
		ExpiresAt: iat.Add(time.Hour).Unix(),
		Subject:   "110169484474386276334",
		Email:     "ada@example.com",
		Name:      "Ada Lovelace",
	}
	token, err := c.Issue(original)
	require.NoError(t, err)

	at := iat.Add(40 * time.Minute)
	renewed, claims, err := c.Renew(token, at)
	require.NoError(t, err)
	require.NotEqual(t, token, renewed)

	require.Equal(t, at.Unix(), claims.IssuedAt)
	require.Equal(t, at.Unix()+3600, claims.ExpiresAt)
	require.Equal(t, original.Subject, claims.Subject)
	require.Equal(t, original.Email, claims.Email)
	require.Equal(t, original.Name, claims.Name)

	// The renewed token outlives the original one
	later := iat.Add(90 * time.Minute)
	_, ok := c.Verify(token, later)
	require.False(t, ok)
	_, ok = c.Verify(renewed, later)
	require.True(t, ok)

	// The old token is not revoked by renewal
	_, ok = c.Verify(token, at.Add(time.Second))
	require.True(t, ok)
}

func TestSessionRenewRefusesInvalidTokens(t *testing.T) {
	c := newTestCodec(t)
	iat := time.Unix(1_700_000_000, 0)

	expired, err := c.Issue(jwtx.SessionClaims{IssuedAt: iat.Unix(), ExpiresAt: iat.Add(time.Hour).Unix()})
	require.NoError(t, err)

	other, err := jwtx.NewSessionCodec(bytes.Repeat([]byte{0x07}, 48))
	require.NoError(t, err)
	foreign, err := other.Issue(jwtx.SessionClaims{IssuedAt: iat.Unix(), ExpiresAt: iat.Add(time.Hour).Unix()})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		now   time.Time
	}{
		{"expired", expired, iat.Add(2 * time.Hour)},
		{"malformed", "not.a.jwt", iat.Add(time.Minute)},
		{"empty", "", iat.Add(time.Minute)},
		{"wrong key", foreign, iat.Add(time.Minute)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, _, err := c.Renew(tt.token, tt.now)
			require.ErrorIs(t, err, jwtx.ErrSessionRejected)
			require.Empty(t, token)
		})
	}
}

func TestSessionVerifyRejectsOtherAlgorithms(t *testing.T) {
	c := newTestCodec(t)
	iat := time.Unix(1_700_000_000, 0)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, jwtx.SessionClaims{
		IssuedAt:  iat.Unix(),
		ExpiresAt: iat.Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString(sessionKey)
	require.NoError(t, err)

	_, ok := c.Verify(signed, iat.Add(time.Minute))
	require.False(t, ok)

	rsTok := newTestSigner(t, "google-1").Sign(t, jwtx.SessionClaims{
		IssuedAt:  iat.Unix(),
		ExpiresAt: iat.Add(time.Hour).Unix(),
	})
	_, ok = c.Verify(rsTok, iat.Add(time.Minute))
	require.False(t, ok)
}

func TestSessionIssueFor(t *testing.T) {
	c := newTestCodec(t)
	now := time.Unix(1_700_000_000, 0)

	token, claims, err := c.IssueFor(googleClaims(now), now)
	require.NoError(t, err)
	require.Equal(t, now.Unix(), claims.IssuedAt)
	require.Equal(t, now.Unix()+int64(c.Window()/time.Second), claims.ExpiresAt)
	require.Equal(t, "ada@example.com", claims.Email)

	got, ok := c.Verify(token, now.Add(time.Second))
	require.True(t, ok)
	require.Equal(t, claims, got)

	_, _, err = c.IssueFor(nil, now)
	require.Error(t, err)
}
