package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/sessiond/pkg/httpx"
)

// ============================================================================
// Error Codes
// ============================================================================

const (
	ErrorCodeInvalidRequest    = "invalid_request"
	ErrorCodeUnauthorized      = "unauthorized"
	ErrorCodeSessionRejected   = "session_rejected"
	ErrorCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrorCodeServerError       = "server_error"
)

// ============================================================================
// APIError - error type shared by server and client
// ============================================================================

// APIError is an error response from the session service. The server writes
// it with WriteError; the SDK client returns it from failed calls.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine readable error (e.g., "unauthorized")
	Code string `json:"error"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Code, e.StatusCode)
}

// WriteError writes {"error": code} with the error's status.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteError(w, e.StatusCode, e.Code)
}

// Is matches on status and code, so errors.Is(err, authsdk.ErrUnauthorized)
// works for errors decoded by the client.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Code == t.Code
}

// ============================================================================
// Predefined Errors
// ============================================================================

var (
	// ErrInvalidRequest is returned when the body is not valid JSON or a
	// field fails validation.
	ErrInvalidRequest = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeInvalidRequest,
	}

	// ErrUnauthorized is returned for every rejected identity credential or
	// session token. The server never says which check failed.
	ErrUnauthorized = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeUnauthorized,
	}

	// ErrSessionRejected is what the client reports when a tick is refused.
	// The server answers 403 with an empty body; the session is over and the
	// user has to sign in again.
	ErrSessionRejected = &APIError{
		StatusCode: http.StatusForbidden,
		Code:       ErrorCodeSessionRejected,
	}

	// ErrRateLimited is returned with 429 and a Retry-After header.
	ErrRateLimited = &APIError{
		StatusCode: http.StatusTooManyRequests,
		Code:       ErrorCodeRateLimitExceeded,
	}

	// ErrServerError is returned when the server could not complete the
	// request, e.g. the login could not be recorded.
	ErrServerError = &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       ErrorCodeServerError,
	}
)

// ============================================================================
// Error Parsing Helpers
// ============================================================================

// parseErrorResponse turns a non-2xx response into an *APIError. Bodies
// without an "error" field get a code derived from the status.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	if resp.StatusCode == http.StatusForbidden && len(strings.TrimSpace(string(body))) == 0 {
		return &APIError{StatusCode: resp.StatusCode, Code: ErrorCodeSessionRejected}
	}

	var errResp httpx.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Code: errResp.Error}
	}

	return &APIError{StatusCode: resp.StatusCode, Code: statusCode(resp.StatusCode)}
}

// statusCode turns "Bad Gateway" into "bad_gateway".
func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return ErrorCodeServerError
	}
	return strings.ReplaceAll(strings.ToLower(text), " ", "_")
}

// IsSessionRejected reports whether err means the session token is no
// longer usable.
func IsSessionRejected(err error) bool {
	return errors.Is(err, ErrSessionRejected) || errors.Is(err, ErrUnauthorized)
}
