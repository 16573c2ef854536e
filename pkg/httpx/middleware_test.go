package httpx_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/sessiond/pkg/httpx"
	"github.com/aussiebroadwan/sessiond/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler, mark("first"), mark("second"), mark("third"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"first", "second", "third"}, order)
}

func TestAuthnMiddleware(t *testing.T) {
	codec, err := jwtx.NewSessionCodec(bytes.Repeat([]byte{1}, jwtx.MinSessionKeySize))
	require.NoError(t, err)

	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }

	token, err := codec.Issue(jwtx.SessionClaims{
		IssuedAt:  now.Add(-time.Minute).Unix(),
		ExpiresAt: now.Add(time.Hour).Unix(),
		Email:     "ada@example.com",
	})
	require.NoError(t, err)

	var seen jwtx.SessionClaims
	h := httpx.AuthnMiddleware(codec, clock)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = httpx.SessionFromContext(r.Context())
		require.Equal(t, "ada@example.com", httpx.SubjectKeyExtractor(r))
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + token, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"empty bearer", "Bearer   ", http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/history", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusUnauthorized {
				require.True(t, strings.HasPrefix(rec.Header().Get("WWW-Authenticate"), "Bearer "))
			}
		})
	}

	require.Equal(t, "ada@example.com", seen.Email)
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Credential string `json:"credential" validate:"required,max=16,nocontrol"`
		IP         string `json:"ip,omitempty" validate:"omitempty,ip"`
	}

	decode := func(s string) (body, error) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(s))
		var b body
		return b, httpx.DecodeJSON(req, &b)
	}

	t.Run("valid", func(t *testing.T) {
		b, err := decode(`{"credential":"abc","ip":"10.0.0.1","extra":true}`)
		require.NoError(t, err)
		require.Equal(t, "abc", b.Credential)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := decode(`credential=abc`)
		require.Error(t, err)
	})

	t.Run("validation errors use json names", func(t *testing.T) {
		_, err := decode(`{"ip":"nope"}`)

		var verr *httpx.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Contains(t, verr.Fields, "credential")
		require.Contains(t, verr.Fields, "ip")
		require.Equal(t, "invalid request: credential is required; ip must be an IP address", verr.Error())
	})

	t.Run("control characters rejected", func(t *testing.T) {
		for _, v := range []string{`a\nb`, `a\rb`, `a\u0000b`, `a\u001bb`, `a\u0085b`} {
			_, err := decode(`{"credential":"` + v + `"}`)

			var verr *httpx.ValidationError
			require.ErrorAs(t, err, &verr, v)
			require.Equal(t, "credential must not contain control characters", verr.Fields["credential"])
		}

		b, err := decode(`{"credential":"José Ünïcode"}`)
		require.NoError(t, err)
		require.Equal(t, "José Ünïcode", b.Credential)
	})

	t.Run("empty body validates as empty object", func(t *testing.T) {
		_, err := decode(``)
		var verr *httpx.ValidationError
		require.ErrorAs(t, err, &verr)
	})
}

func TestWriteHelpers(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.WriteError(rec, http.StatusUnauthorized, "unauthorized")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	httpx.WriteStatus(rec, http.StatusForbidden)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Empty(t, rec.Body.String())
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}
