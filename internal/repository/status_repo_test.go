package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"farmbeats_sheets/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func newStatusMock(t *testing.T) (*StatusSQLite, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("mock expectations: %v", err)
		}
		_ = db.Close()
	})
	return NewStatusSQLite(db), mock
}

func TestStatusAppend_FillsDefaultsAndNormalizes(t *testing.T) {
	t.Parallel()
	repo, mock := newStatusMock(t)

	mock.ExpectExec(regexp.QuoteMeta(insertStatusSQL)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "ERROR", "RELAY", "relay: unexpected status 500").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(ctx(t), models.StatusEvent{
		Level:   " error",
		Source:  "relay ",
		Message: "relay: unexpected status 500",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestStatusAppend_DBError(t *testing.T) {
	t.Parallel()
	repo, mock := newStatusMock(t)

	mock.ExpectExec(regexp.QuoteMeta(insertStatusSQL)).
		WillReturnError(errors.New("disk full"))

	if err := repo.Append(ctx(t), models.StatusEvent{Level: "INFO", Source: "DATA", Message: "cleared"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestStatusLatest(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		repo, mock := newStatusMock(t)
		at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
		mock.ExpectQuery(regexp.QuoteMeta(selectLatestStatusSQL)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "occurred_at", "level", "source", "message"}).
				AddRow("e1", at, "INFO", "RELAY", "Relay turned on"))

		e, ok, err := repo.Latest(ctx(t))
		if err != nil || !ok {
			t.Fatalf("Latest: ok=%v err=%v", ok, err)
		}
		if e.EventID != "e1" || e.Message != "Relay turned on" {
			t.Fatalf("unexpected event %+v", e)
		}
		if e.OccurredAt.Location() != time.UTC {
			t.Fatalf("expected UTC, got %v", e.OccurredAt.Location())
		}
	})

	t.Run("empty", func(t *testing.T) {
		repo, mock := newStatusMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectLatestStatusSQL)).WillReturnError(sql.ErrNoRows)

		_, ok, err := repo.Latest(ctx(t))
		if err != nil || ok {
			t.Fatalf("expected ok=false err=nil, got ok=%v err=%v", ok, err)
		}
	})
}

func TestStatusList_BuildsFilters(t *testing.T) {
	t.Parallel()
	repo, mock := newStatusMock(t)

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	q := `SELECT id, occurred_at, level, source, message FROM status_events WHERE occurred_at >= ? AND occurred_at <= ? AND source = ? ORDER BY occurred_at ASC`

	mock.ExpectQuery(regexp.QuoteMeta(q)).
		WithArgs(from.Format(sqliteTimeLayout), to.Format(sqliteTimeLayout), "STREAM").
		WillReturnRows(sqlmock.NewRows([]string{"id", "occurred_at", "level", "source", "message"}).
			AddRow("a", from.Add(time.Hour), "INFO", "STREAM", "Streaming started").
			AddRow("b", from.Add(2*time.Hour), "ERROR", "STREAM", "device unreachable"))

	out, err := repo.List(ctx(t), from, to, "stream")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 2 || out[1].Level != "ERROR" {
		t.Fatalf("unexpected events %+v", out)
	}
}

func TestStatusList_NoFilters(t *testing.T) {
	t.Parallel()
	repo, mock := newStatusMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, occurred_at, level, source, message FROM status_events ORDER BY occurred_at ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "occurred_at", "level", "source", "message"}))

	out, err := repo.List(ctx(t), time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected no events, got %d", len(out))
	}
}
