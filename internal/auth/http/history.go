package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/sessiond/internal/auth/service"
	"github.com/aussiebroadwan/sessiond/pkg/authsdk"
	"github.com/aussiebroadwan/sessiond/pkg/httpx"
	"github.com/aussiebroadwan/sessiond/pkg/slogx"
)

// HistoryHandler serves GET /api/auth/history for the bearer of a session
// token.
type HistoryHandler struct {
	Sessions *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Login history
//	@Description	Lists the caller's recent logins and logouts, newest first.
//	@Tags			Sessions
//	@Produce		json
//	@Security		BearerAuth
//	@Param			limit	query		int	false	"Maximum number of events (default 50, max 500)"
//	@Success		200		{object}	authsdk.HistoryResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"invalid_request"
//	@Failure		401		"Missing, invalid or expired session token"
//	@Router			/api/auth/history [get].
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := httpx.SessionFromContext(ctx)
	if !ok {
		authsdk.ErrUnauthorized.WriteError(w)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			authsdk.ErrInvalidRequest.WriteError(w)
			return
		}
		limit = n
	}

	events, err := h.Sessions.History(ctx, claims, limit)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to load login history", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	resp := authsdk.HistoryResponse{Events: make([]authsdk.LoginEvent, 0, len(events))}
	for _, ev := range events {
		resp.Events = append(resp.Events, authsdk.LoginEvent{
			ID:   ev.ID,
			Kind: string(ev.Kind),
			IP:   ev.IP,
			At:   ev.At,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
