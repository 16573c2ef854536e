package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/sessiond/internal/auth/service"
	"github.com/aussiebroadwan/sessiond/pkg/authsdk"
	"github.com/aussiebroadwan/sessiond/pkg/httpx"
	"github.com/aussiebroadwan/sessiond/pkg/slogx"
)

// TickHandler serves POST /api/auth/tick, renewing a session token. Anything
// that isn't a currently valid token, including a missing or unreadable
// body, gets 403 with no body.
type TickHandler struct {
	Sessions *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Renew session
//	@Description	Exchanges a valid session token for one with a fresh one-hour window.
//	@Description	The presented token is not revoked and stays valid until its own expiry.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.TickRequest	true	"Current session token"
//	@Success		200		{object}	authsdk.SessionResponse
//	@Failure		403		"Session invalid or expired"
//	@Failure		429		{object}	httpx.ErrorResponse	"rate_limit_exceeded"
//	@Router			/api/auth/tick [post].
func (h *TickHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authsdk.TickRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteStatus(w, http.StatusForbidden)
		return
	}

	sess, err := h.Sessions.Renew(ctx, req.Token)
	if err != nil {
		if !errors.Is(err, service.ErrUnauthenticated) {
			slogx.FromContext(ctx).Error("session renewal failed", "err", err)
		}
		httpx.WriteStatus(w, http.StatusForbidden)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.SessionResponse{
		Token: sess.Token,
		Email: sess.Claims.Email,
		Name:  sess.Claims.Name,
	})
}
