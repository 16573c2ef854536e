package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/sessiond/internal/auth/domain"
	"github.com/aussiebroadwan/sessiond/internal/auth/store"
)

type loginEventsRepo struct {
	q *queries
}

func (r *loginEventsRepo) CreateLoginEvent(ctx context.Context, ev domain.LoginEvent) error {
	return r.q.CreateLoginEvent(ctx, loginEventRow{
		ID:         ev.ID,
		Kind:       string(ev.Kind),
		Subject:    ev.Subject,
		Email:      mapStringNull(ev.Email),
		Name:       mapStringNull(ev.Name),
		IP:         mapStringNull(ev.IP),
		OccurredAt: ev.At.Unix(),
	})
}

func (r *loginEventsRepo) ListLoginEventsBySubject(
	ctx context.Context,
	subject string,
	limit int,
) ([]domain.LoginEvent, error) {
	rows, err := r.q.ListLoginEventsBySubject(ctx, subject, limit)
	if err != nil {
		return nil, err
	}

	events := make([]domain.LoginEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, mapLoginEvent(row))
	}
	return events, nil
}

func (r *loginEventsRepo) DeleteLoginEvent(ctx context.Context, id string) error {
	n, err := r.q.DeleteLoginEvent(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *loginEventsRepo) DeleteLoginEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.q.DeleteLoginEventsBefore(ctx, cutoff.Unix())
}

func mapLoginEvent(row loginEventRow) domain.LoginEvent {
	return domain.LoginEvent{
		ID:      row.ID,
		Kind:    domain.LoginEventKind(row.Kind),
		Subject: row.Subject,
		Email:   mapNullString(row.Email),
		Name:    mapNullString(row.Name),
		IP:      mapNullString(row.IP),
		At:      time.Unix(row.OccurredAt, 0).UTC(),
	}
}
