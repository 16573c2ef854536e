package domain

import "time"

// LoginEventKind distinguishes the two audited session transitions.
type LoginEventKind string

const (
	LoginEventLogin  LoginEventKind = "login"
	LoginEventLogout LoginEventKind = "logout"
)

// LoginEvent is one row of a user's login history. Subject is the account
// the event is filed under: the verified email for logins, and for logouts
// whatever identifier the client sent (email, else username, else
// "unknown").
type LoginEvent struct {
	ID      string // ULID, sorts by At
	Kind    LoginEventKind
	Subject string
	Email   string // empty if unknown
	Name    string // empty if unknown
	IP      string // as reported by the client, may be empty
	At      time.Time
}
