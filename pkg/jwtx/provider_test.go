package jwtx_test

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/sessiond/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

/*
 * Test doubles for the identity provider: an RSA signer that mints ID tokens
 * and an httptest server publishing its JWKS.
 */

const testClientID = "test-client.apps.googleusercontent.com"

// rsaKeys caches generated keys so the suite doesn't pay for 2048-bit keygen
// in every test.
var (
	rsaKeysMu sync.Mutex
	rsaKeys   = map[string]*rsa.PrivateKey{}
)

func testRSAKey(t *testing.T, name string) *rsa.PrivateKey {
	t.Helper()

	rsaKeysMu.Lock()
	defer rsaKeysMu.Unlock()

	if key, ok := rsaKeys[name]; ok {
		return key
	}
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	rsaKeys[name] = key
	return key
}

type testSigner struct {
	kid string
	key *rsa.PrivateKey
}

func newTestSigner(t *testing.T, kid string) *testSigner {
	return &testSigner{kid: kid, key: testRSAKey(t, kid)}
}

func (s *testSigner) JWK() jwtx.JWK {
	return jwtx.NewRSAJWK(s.kid, jwtx.AlgRS256, &s.key.PublicKey)
}

func (s *testSigner) Sign(t *testing.T, claims jwt.Claims) string {
	t.Helper()

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = s.kid
	signed, err := tok.SignedString(s.key)
	require.NoError(t, err)
	return signed
}

// googleClaims builds a well formed ID token payload valid around now.
func googleClaims(now time.Time) *jwtx.IdentityClaims {
	verified := true
	return &jwtx.IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://accounts.google.com",
			Subject:   "110169484474386276334",
			Audience:  jwt.ClaimStrings{testClientID},
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Email:         "ada@example.com",
		EmailVerified: &verified,
		Name:          "Ada Lovelace",
	}
}

// jwksServer publishes a JWKS and counts how many times it was fetched.
type jwksServer struct {
	*httptest.Server

	mu           sync.Mutex
	set          jwtx.JWKS
	cacheControl string
	status       int
	hits         atomic.Int32
}

func newJWKSServer(t *testing.T, keys ...jwtx.JWK) *jwksServer {
	t.Helper()

	s := &jwksServer{set: jwtx.JWKS{Keys: keys}, status: http.StatusOK}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)

		s.mu.Lock()
		set, cc, status := s.set, s.cacheControl, s.status
		s.mu.Unlock()

		if cc != "" {
			w.Header().Set("Cache-Control", cc)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(set)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *jwksServer) SetCacheControl(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cacheControl = v
}

func (s *jwksServer) SetStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = code
}

func (s *jwksServer) SetKeys(keys ...jwtx.JWK) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set = jwtx.JWKS{Keys: keys}
}

// fakeClock is a settable clock shared between the cache and the verifier.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
