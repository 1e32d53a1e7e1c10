package repository

import (
	"context"
	"database/sql"
	"time"

	"farmbeats_sheets/internal/models"
	"farmbeats_sheets/internal/sheet"
)

type Growers interface {
	Register(ctx context.Context, name, passwordHash string) (int64, error)
	ByName(ctx context.Context, name string) (models.Grower, error)
}

type StatusRepo interface {
	Append(ctx context.Context, e models.StatusEvent) error
	// Latest returns the most recent event; ok is false when there is none.
	Latest(ctx context.Context) (e models.StatusEvent, ok bool, err error)
	List(ctx context.Context, from, to time.Time, source string) ([]models.StatusEvent, error)
}

type Repository struct {
	Workbook  sheet.Workbook
	StatusLog StatusRepo
	Growers   Growers
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Workbook:  NewWorkbookSQLite(db),
		StatusLog: NewStatusSQLite(db),
		Growers:   NewGrowerSQLite(db),
	}
}
