package service

import "errors"

var (
	// ErrUnauthenticated wraps every identity or session rejection. The
	// wrapped jwtx error says why; clients never see it.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrAuditLog means a login could not be recorded. The login is refused.
	ErrAuditLog = errors.New("audit_log_failure")

	// ErrClockUnavailable means the wall clock reads at or before the Unix
	// epoch, so no sane iat/exp can be produced.
	ErrClockUnavailable = errors.New("internal_clock_error")
)
