package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"farmbeats_sheets/internal/models"
	"farmbeats_sheets/internal/sheet"
)

// WorkbookSQLite stores the workbook in SQLite: named values, the snapshot
// row (id always 1) and the data window ordered by insertion sequence.
type WorkbookSQLite struct {
	db *sql.DB
}

func NewWorkbookSQLite(db *sql.DB) *WorkbookSQLite {
	return &WorkbookSQLite{db: db}
}

var _ sheet.Workbook = (*WorkbookSQLite)(nil)

const (
	snapshotRowID = 1

	rowColumns = `date, soil_moisture, temperature, humidity, soil_temperature,
		visible, infra_red, ultra_violet, relay_state, button1_state, button2_state`

	selectNamedValueSQL = `SELECT value FROM named_values WHERE name = ?`
	upsertNamedValueSQL = `
		INSERT INTO named_values (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
	`

	upsertSnapshotSQL = `
		INSERT INTO snapshot (id, ` + rowColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date=excluded.date,
			soil_moisture=excluded.soil_moisture,
			temperature=excluded.temperature,
			humidity=excluded.humidity,
			soil_temperature=excluded.soil_temperature,
			visible=excluded.visible,
			infra_red=excluded.infra_red,
			ultra_violet=excluded.ultra_violet,
			relay_state=excluded.relay_state,
			button1_state=excluded.button1_state,
			button2_state=excluded.button2_state
	`
	selectSnapshotSQL = `SELECT ` + rowColumns + ` FROM snapshot WHERE id = ?`

	insertDataRowSQL = `INSERT INTO data_rows (` + rowColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	selectWindowSQL  = `SELECT ` + rowColumns + ` FROM data_rows ORDER BY seq DESC`
	trimDataRowsSQL  = `DELETE FROM data_rows WHERE seq NOT IN (SELECT seq FROM data_rows ORDER BY seq DESC LIMIT ?)`
	clearSnapshotSQL = `DELETE FROM snapshot`
	clearDataRowsSQL = `DELETE FROM data_rows`
)

func (r *WorkbookSQLite) NamedValue(ctx context.Context, name string) (string, error) {
	var v string
	err := r.db.QueryRowContext(ctx, selectNamedValueSQL, name).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", sheet.ErrNameNotFound
		}
		return "", fmt.Errorf("select named value %q: %w", name, err)
	}
	return v, nil
}

func (r *WorkbookSQLite) SetNamedValue(ctx context.Context, name, value string) error {
	if _, err := r.db.ExecContext(ctx, upsertNamedValueSQL, name, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert named value %q: %w", name, err)
	}
	return nil
}

func (r *WorkbookSQLite) Snapshot(ctx context.Context) (models.HistoryRow, bool, error) {
	row, err := scanRow(r.db.QueryRowContext(ctx, selectSnapshotSQL, snapshotRowID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.HistoryRow{}, false, nil
		}
		return models.HistoryRow{}, false, fmt.Errorf("select snapshot: %w", err)
	}
	return row, true, nil
}

func (r *WorkbookSQLite) SetSnapshot(ctx context.Context, row models.HistoryRow) error {
	args := append([]any{snapshotRowID}, rowArgs(row)...)
	if _, err := r.db.ExecContext(ctx, upsertSnapshotSQL, args...); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// InsertTop appends row with the next sequence number, which places it first
// in Window.
func (r *WorkbookSQLite) InsertTop(ctx context.Context, row models.HistoryRow) error {
	if _, err := r.db.ExecContext(ctx, insertDataRowSQL, rowArgs(row)...); err != nil {
		return fmt.Errorf("insert data row %d: %w", row.Date, err)
	}
	return nil
}

func (r *WorkbookSQLite) Window(ctx context.Context) ([]models.HistoryRow, error) {
	rows, err := r.db.QueryContext(ctx, selectWindowSQL)
	if err != nil {
		return nil, fmt.Errorf("select window: %w", err)
	}
	defer rows.Close()

	out := make([]models.HistoryRow, 0, 64)
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *WorkbookSQLite) Trim(ctx context.Context, maxRows int) (int, error) {
	if maxRows < 0 {
		maxRows = 0
	}
	res, err := r.db.ExecContext(ctx, trimDataRowsSQL, maxRows)
	if err != nil {
		return 0, fmt.Errorf("trim window to %d: %w", maxRows, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *WorkbookSQLite) Clear(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{clearSnapshotSQL, clearDataRowsSQL} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear workbook: %w", err)
		}
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(s rowScanner) (models.HistoryRow, error) {
	var row models.HistoryRow
	err := s.Scan(
		&row.Date,
		&row.SoilMoisture,
		&row.Temperature,
		&row.Humidity,
		&row.SoilTemperature,
		&row.Visible,
		&row.InfraRed,
		&row.UltraViolet,
		&row.RelayState,
		&row.Button1State,
		&row.Button2State,
	)
	return row, err
}

func rowArgs(row models.HistoryRow) []any {
	return []any{
		row.Date,
		row.SoilMoisture,
		row.Temperature,
		row.Humidity,
		row.SoilTemperature,
		row.Visible,
		row.InfraRed,
		row.UltraViolet,
		row.RelayState,
		row.Button1State,
		row.Button2State,
	}
}
