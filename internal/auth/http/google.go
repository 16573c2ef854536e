package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/sessiond/internal/auth/service"
	"github.com/aussiebroadwan/sessiond/pkg/authsdk"
	"github.com/aussiebroadwan/sessiond/pkg/httpx"
	"github.com/aussiebroadwan/sessiond/pkg/slogx"
)

// GoogleLoginHandler serves POST /api/auth/google. Every verification
// failure gets the same 401 body so callers can't probe which check failed.
type GoogleLoginHandler struct {
	Sessions *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Google Sign-In
//	@Description	Verifies a Google ID token and issues a session token valid for one hour.
//	@Description	The login is recorded before the token is returned; if it cannot be recorded the login fails.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.GoogleLoginRequest	true	"ID token and optional client IP"
//	@Success		200		{object}	authsdk.SessionResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"invalid_request"
//	@Failure		401		{object}	httpx.ErrorResponse	"unauthorized"
//	@Failure		429		{object}	httpx.ErrorResponse	"rate_limit_exceeded"
//	@Failure		500		{object}	httpx.ErrorResponse	"server_error"
//	@Router			/api/auth/google [post].
func (h *GoogleLoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.GoogleLoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		log.Debug("bad login request", "err", err)
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	ip := req.IP
	if ip == "" {
		ip = httpx.IPKeyExtractor(r)
	}

	sess, err := h.Sessions.GoogleLogin(ctx, req.Credential, ip)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrUnauthenticated):
		authsdk.ErrUnauthorized.WriteError(w)
		return
	default:
		log.Error("login failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.SessionResponse{
		Token: sess.Token,
		Email: sess.Claims.Email,
		Name:  sess.Claims.Name,
	})
}
