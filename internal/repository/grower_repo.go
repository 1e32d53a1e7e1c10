package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"farmbeats_sheets/internal/models"
)

var (
	ErrGrowerExists   = errors.New("grower already registered")
	ErrGrowerNotFound = errors.New("grower not found")
)

// GrowerSQLite stores the operators allowed to sign in to the taskpane.
type GrowerSQLite struct {
	db *sql.DB
}

func NewGrowerSQLite(db *sql.DB) *GrowerSQLite { return &GrowerSQLite{db: db} }

var _ Growers = (*GrowerSQLite)(nil)

const (
	insertGrowerSQL = `
		INSERT INTO growers (name, password_hash, created_at)
		VALUES (?, ?, ?)
	`
	selectGrowerByNameSQL = `
		SELECT id, name, password_hash, created_at
		FROM growers WHERE name = ?
	`
)

// Register stores a grower and returns its ID. Names are unique.
func (r *GrowerSQLite) Register(ctx context.Context, name, passwordHash string) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertGrowerSQL,
		name, passwordHash, time.Now().UTC().Format(sqliteTimeLayout))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, fmt.Errorf("%w: %q", ErrGrowerExists, name)
		}
		return 0, fmt.Errorf("insert grower %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("grower %q id: %w", name, err)
	}
	return id, nil
}

// ByName loads a grower. A missing name is ErrGrowerNotFound.
func (r *GrowerSQLite) ByName(ctx context.Context, name string) (models.Grower, error) {
	var g models.Grower
	err := r.db.QueryRowContext(ctx, selectGrowerByNameSQL, name).
		Scan(&g.ID, &g.Name, &g.PasswordHash, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Grower{}, ErrGrowerNotFound
		}
		return models.Grower{}, fmt.Errorf("select grower %q: %w", name, err)
	}
	g.CreatedAt = g.CreatedAt.UTC()
	return g, nil
}
