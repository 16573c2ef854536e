package sqlite

import (
	"context"
	"database/sql"
)

// DBTX is the subset of *sql.DB / *sql.Tx the queries need.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type queries struct {
	db DBTX
}

type loginEventRow struct {
	ID         string
	Kind       string
	Subject    string
	Email      sql.NullString
	Name       sql.NullString
	IP         sql.NullString
	OccurredAt int64
}

const createLoginEvent = `
INSERT INTO login_events (id, kind, subject, email, name, ip, occurred_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

func (q *queries) CreateLoginEvent(ctx context.Context, row loginEventRow) error {
	_, err := q.db.ExecContext(ctx, createLoginEvent,
		row.ID,
		row.Kind,
		row.Subject,
		row.Email,
		row.Name,
		row.IP,
		row.OccurredAt,
	)
	return err
}

const listLoginEventsBySubject = `
SELECT id, kind, subject, email, name, ip, occurred_at
FROM login_events
WHERE subject = ?
ORDER BY occurred_at DESC, id DESC
LIMIT ?`

func (q *queries) ListLoginEventsBySubject(ctx context.Context, subject string, limit int) ([]loginEventRow, error) {
	rows, err := q.db.QueryContext(ctx, listLoginEventsBySubject, subject, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []loginEventRow
	for rows.Next() {
		var i loginEventRow
		if err := rows.Scan(
			&i.ID,
			&i.Kind,
			&i.Subject,
			&i.Email,
			&i.Name,
			&i.IP,
			&i.OccurredAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteLoginEvent = `
DELETE FROM login_events
WHERE id = ?`

func (q *queries) DeleteLoginEvent(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteLoginEvent, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteLoginEventsBefore = `
DELETE FROM login_events
WHERE occurred_at < ?`

func (q *queries) DeleteLoginEventsBefore(ctx context.Context, cutoff int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteLoginEventsBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
