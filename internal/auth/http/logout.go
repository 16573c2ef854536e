package http

import (
	"net/http"

	"github.com/aussiebroadwan/sessiond/internal/auth/service"
	"github.com/aussiebroadwan/sessiond/pkg/authsdk"
	"github.com/aussiebroadwan/sessiond/pkg/httpx"
	"github.com/aussiebroadwan/sessiond/pkg/slogx"
)

// LogoutHandler serves POST /api/auth/logout. Sessions are stateless, so
// this only records the logout; the client drops its token.
type LogoutHandler struct {
	Sessions *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Logout
//	@Description	Records a logout against the email, else username, else "unknown".
//	@Description	Recording failures are logged server side and never reported to the client.
//	@Tags			Sessions
//	@Accept			json
//	@Param			request	body	authsdk.LogoutRequest	false	"Who is logging out"
//	@Success		200		"Logout recorded"
//	@Failure		400		{object}	httpx.ErrorResponse	"invalid_request"
//	@Router			/api/auth/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authsdk.LogoutRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		slogx.FromContext(ctx).Debug("bad logout request", "err", err)
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	ip := req.IP
	if ip == "" {
		ip = httpx.IPKeyExtractor(r)
	}

	if err := h.Sessions.Logout(ctx, req.Email, req.Username, ip); err != nil {
		slogx.FromContext(ctx).Error("logout failed", "err", err)
	}

	httpx.WriteStatus(w, http.StatusOK)
}
