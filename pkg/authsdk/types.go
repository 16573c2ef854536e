package authsdk

import "time"

// ============================================================================
// Session Types
// ============================================================================

// GoogleLoginRequest is the body of POST /api/auth/google.
type GoogleLoginRequest struct {
	// Credential is the ID token handed to the browser by Google Sign-In
	Credential string `json:"credential" validate:"required,max=8192,nocontrol"`

	// IP is the address the client wants recorded. Defaults to the
	// connection's address.
	IP string `json:"ip,omitempty" validate:"omitempty,ip"`
}

// LogoutRequest is the body of POST /api/auth/logout. Every field is
// optional; the audit line uses email, else username, else "unknown".
type LogoutRequest struct {
	Username string `json:"username,omitempty" validate:"omitempty,max=256,nocontrol"`
	Email    string `json:"email,omitempty" validate:"omitempty,max=320,nocontrol"`
	IP       string `json:"ip,omitempty" validate:"omitempty,ip"`
}

// TickRequest is the body of POST /api/auth/tick.
type TickRequest struct {
	Token string `json:"token" validate:"required,max=8192"`
}

// SessionResponse is returned by login and tick.
type SessionResponse struct {
	// Token is the session token. It is valid for one hour from issue and
	// must be ticked before then to stay signed in.
	Token string `json:"token"`

	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// ============================================================================
// History Types
// ============================================================================

// LoginEvent is one entry of the caller's login history.
type LoginEvent struct {
	ID string `json:"id"`

	// Kind is "login" or "logout"
	Kind string `json:"kind"`

	IP string    `json:"ip,omitempty"`
	At time.Time `json:"at"`
}

// HistoryResponse is returned by GET /api/auth/history, newest first.
type HistoryResponse struct {
	Events []LoginEvent `json:"events"`
}

// ============================================================================
// Health Check Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the login history database status
	Database string `json:"database"`

	// Keys reports the identity provider signing key cache. "stale" is not
	// fatal: the next login refreshes it.
	Keys string `json:"keys"`
}
