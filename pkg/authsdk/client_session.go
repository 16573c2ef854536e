package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// GoogleLogin exchanges a Google ID token for a session token.
func (c *SDKClient) GoogleLogin(ctx context.Context, req GoogleLoginRequest) (*SessionResponse, error) {
	var out SessionResponse
	if err := c.postJSON(ctx, "/api/auth/google", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AuthenticateWithGoogle logs in and wraps the result in a Session that
// keeps itself renewed.
func (c *SDKClient) AuthenticateWithGoogle(ctx context.Context, credential string) (*Session, error) {
	resp, err := c.GoogleLogin(ctx, GoogleLoginRequest{Credential: credential})
	if err != nil {
		return nil, err
	}
	return newSession(c, resp)
}

// Tick renews a session token. A refused token comes back as
// ErrSessionRejected.
func (c *SDKClient) Tick(ctx context.Context, token string) (*SessionResponse, error) {
	var out SessionResponse
	if err := c.postJSON(ctx, "/api/auth/tick", TickRequest{Token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout records a logout. It never fails on the server side unless the
// request itself is malformed.
func (c *SDKClient) Logout(ctx context.Context, req LogoutRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/auth/logout", bytes.NewReader(body), jsonHeaders)
	if err != nil {
		return err
	}
	return checkStatusOK(resp)
}

// History lists the login history of the session token's owner. limit <= 0
// uses the server default.
func (c *SDKClient) History(ctx context.Context, token string, limit int) (*HistoryResponse, error) {
	path := "/api/auth/history"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, map[string]string{
		"Authorization": "Bearer " + token,
	})
	if err != nil {
		return nil, err
	}

	var out HistoryResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

func (c *SDKClient) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, path, bytes.NewReader(body), jsonHeaders)
	if err != nil {
		return err
	}
	return decodeJSON(resp, out, http.StatusOK)
}
