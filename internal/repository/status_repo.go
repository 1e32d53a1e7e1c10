package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"farmbeats_sheets/internal/models"

	"github.com/google/uuid"
)

type StatusSQLite struct {
	db *sql.DB
}

func NewStatusSQLite(db *sql.DB) *StatusSQLite { return &StatusSQLite{db: db} }

var _ StatusRepo = (*StatusSQLite)(nil)

// sqliteTimeLayout is how TIMESTAMP columns are written.
const sqliteTimeLayout = "2006-01-02 15:04:05.000"

const (
	insertStatusSQL = `
		INSERT INTO status_events (id, occurred_at, level, source, message)
		VALUES (?, ?, ?, ?, ?)
	`
	selectLatestStatusSQL = `
		SELECT id, occurred_at, level, source, message
		FROM status_events ORDER BY occurred_at DESC, rowid DESC LIMIT 1
	`
)

// Append inserts a status event. Empty EventID and zero OccurredAt are filled in.
func (r *StatusSQLite) Append(ctx context.Context, e models.StatusEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, insertStatusSQL,
		e.EventID,
		e.OccurredAt.UTC().Format(sqliteTimeLayout),
		normalizeTag(e.Level),
		normalizeTag(e.Source),
		e.Message,
	)
	return err
}

// Latest returns the newest event, which is what the status label shows.
func (r *StatusSQLite) Latest(ctx context.Context) (models.StatusEvent, bool, error) {
	var e models.StatusEvent
	err := r.db.QueryRowContext(ctx, selectLatestStatusSQL).
		Scan(&e.EventID, &e.OccurredAt, &e.Level, &e.Source, &e.Message)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.StatusEvent{}, false, nil
		}
		return models.StatusEvent{}, false, err
	}
	e.OccurredAt = e.OccurredAt.UTC()
	return e, true, nil
}

// List returns events filtered by [from, to] (inclusive) and/or source, oldest first.
func (r *StatusSQLite) List(ctx context.Context, from, to time.Time, source string) ([]models.StatusEvent, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC().Format(sqliteTimeLayout))
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC().Format(sqliteTimeLayout))
	}
	if source = normalizeTag(source); source != "" {
		conds = append(conds, "source = ?")
		args = append(args, source)
	}

	q := `SELECT id, occurred_at, level, source, message FROM status_events`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.StatusEvent, 0, 64)
	for rows.Next() {
		var e models.StatusEvent
		if err := rows.Scan(&e.EventID, &e.OccurredAt, &e.Level, &e.Source, &e.Message); err != nil {
			return nil, err
		}
		e.OccurredAt = e.OccurredAt.UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeTag(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
