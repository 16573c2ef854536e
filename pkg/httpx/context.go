package httpx

import (
	"context"

	"github.com/aussiebroadwan/sessiond/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeySubject ctxKey = "subject"
	CtxKeySession ctxKey = "session" // full jwtx.SessionClaims
)

func contextWithSession(ctx context.Context, c jwtx.SessionClaims) context.Context {
	ctx = context.WithValue(ctx, CtxKeySubject, sessionSubject(c))
	ctx = context.WithValue(ctx, CtxKeySession, c)
	return ctx
}

// SessionFromContext returns the claims AuthnMiddleware stored for this
// request.
func SessionFromContext(ctx context.Context) (jwtx.SessionClaims, bool) {
	c, ok := ctx.Value(CtxKeySession).(jwtx.SessionClaims)
	return c, ok
}

// sessionSubject picks a stable per-user key. Older sessions may carry only
// an email.
func sessionSubject(c jwtx.SessionClaims) string {
	if c.Subject != "" {
		return c.Subject
	}
	return c.Email
}
