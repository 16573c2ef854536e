package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/sessiond/internal/auth/domain"
)

var ErrNotFound = errors.New("store: not found")

// Store is the root data access interface. Sessions themselves are stateless;
// the only thing persisted is the login history.
type Store interface {
	LoginEvents() LoginEvents

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type LoginEvents interface {
	// CreateLoginEvent appends an event. ID is minted by the caller (ULID).
	CreateLoginEvent(ctx context.Context, ev domain.LoginEvent) error

	// ListLoginEventsBySubject returns up to limit events for a subject,
	// newest first.
	ListLoginEventsBySubject(ctx context.Context, subject string, limit int) ([]domain.LoginEvent, error)

	// DeleteLoginEvent removes a single event by ID. Returns ErrNotFound if
	// there is no such event.
	DeleteLoginEvent(ctx context.Context, id string) error

	// DeleteLoginEventsBefore removes events older than cutoff and reports
	// how many went.
	DeleteLoginEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
