package app

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/sessiond/pkg/authsdk"
	"github.com/aussiebroadwan/sessiond/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

/*
 * End-to-end: a fake Google publishing one RSA key, the real application
 * behind an httptest server, and the SDK as the client.
 */

const e2eClientID = "e2e-client.apps.googleusercontent.com"

type fakeGoogle struct {
	srv *httptest.Server
	key *rsa.PrivateKey
	kid string
}

func newFakeGoogle(t *testing.T) *fakeGoogle {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	g := &fakeGoogle{key: key, kid: "e2e-key-1"}
	g.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_ = json.NewEncoder(w).Encode(jwtx.JWKS{Keys: []jwtx.JWK{
			jwtx.NewRSAJWK(g.kid, jwtx.AlgRS256, &key.PublicKey),
		}})
	}))
	t.Cleanup(g.srv.Close)
	return g
}

func (g *fakeGoogle) idToken(t *testing.T, aud string) string {
	t.Helper()

	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss":            "https://accounts.google.com",
		"aud":            aud,
		"sub":            "110169484474386276334",
		"email":          "ada@example.com",
		"email_verified": true,
		"name":           "Ada Lovelace",
		"iat":            now.Unix(),
		"exp":            now.Add(time.Hour).Unix(),
	})
	tok.Header["kid"] = g.kid

	signed, err := tok.SignedString(g.key)
	require.NoError(t, err)
	return signed
}

func TestSessionLifecycle(t *testing.T) {
	google := newFakeGoogle(t)
	dir := t.TempDir()

	app, err := New(Config{
		GoogleClientID:       e2eClientID,
		GoogleCertsURL:       google.srv.URL,
		GoogleCertsTimeout:   time.Second,
		AuditLogFile:         filepath.Join(dir, "login_history.log"),
		DatabaseFile:         filepath.Join(dir, "sessiond.db"),
		HistoryRetention:     time.Hour,
		HousekeepingInterval: time.Hour,
		Env:                  "test",
		LogLevel:             "error",
		Port:                 8080,
		ShutdownGracePeriod:  time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		app.secret.Destroy()
		_ = app.db.Close()
	})

	srv := httptest.NewServer(app.router)
	t.Cleanup(srv.Close)

	ctx := t.Context()
	client := authsdk.NewSDKClient(srv.URL)

	// token minted for somebody else's client id
	_, err = client.AuthenticateWithGoogle(ctx, google.idToken(t, "other.apps.googleusercontent.com"))
	require.ErrorIs(t, err, authsdk.ErrUnauthorized)

	session, err := client.AuthenticateWithGoogle(ctx, google.idToken(t, e2eClientID))
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", session.Email())
	require.Equal(t, "Ada Lovelace", session.Name())
	require.True(t, app.identity.Keys.IsFresh())

	// a session token is only accepted once its iat is strictly in the past
	waitNextSecond()

	history, err := session.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history.Events, 1)
	require.Equal(t, "login", history.Events[0].Kind)

	waitNextSecond()
	before := session.ExpiresAt()
	require.NoError(t, session.Tick(ctx))
	require.True(t, session.ExpiresAt().After(before))
	waitNextSecond()

	require.NoError(t, session.Logout(ctx, "192.0.2.10"))

	history, err = session.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history.Events, 2)
	require.Equal(t, "logout", history.Events[0].Kind)
	require.Equal(t, "192.0.2.10", history.Events[0].IP)

	data, err := os.ReadFile(app.auditLog.Path())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "[GoogleLogin] User ada@example.com logged in at "))
	require.Contains(t, lines[0], "(name: Ada Lovelace)")
	require.True(t, strings.HasPrefix(lines[1], "[GoogleLogout] User ada@example.com logged out at "))

	_, err = client.Tick(ctx, "forged")
	require.ErrorIs(t, err, authsdk.ErrSessionRejected)
}

func waitNextSecond() {
	time.Sleep(1100 * time.Millisecond)
}
