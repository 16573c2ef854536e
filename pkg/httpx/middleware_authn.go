package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/sessiond/pkg/jwtx"
	"github.com/aussiebroadwan/sessiond/pkg/slogx"
)

// SessionVerifier is satisfied by *jwtx.SessionCodec.
type SessionVerifier interface {
	Verify(token string, now time.Time) (jwtx.SessionClaims, bool)
}

// AuthnMiddleware requires a currently valid session token in the
// Authorization header. now defaults to time.Now.
func AuthnMiddleware(v SessionVerifier, now func() time.Time) Middleware {
	if now == nil {
		now = time.Now
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw, ok := bearerToken(r)
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			claims, ok := v.Verify(raw, now())
			if !ok {
				slogx.FromContext(ctx).Debug("session token rejected")
				writeBearerError(w, "session invalid or expired")
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithSession(ctx, claims)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	return raw, raw != ""
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
