package sheet

import (
	"context"
	"sync"

	"farmbeats_sheets/internal/models"
)

// Memory is an in-process Workbook.
type Memory struct {
	mu       sync.Mutex
	names    map[string]string
	snapshot *models.HistoryRow
	window   []models.HistoryRow // newest first
}

var _ Workbook = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{names: map[string]string{}}
}

func (m *Memory) NamedValue(_ context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.names[name]
	if !ok {
		return "", ErrNameNotFound
	}
	return v, nil
}

func (m *Memory) SetNamedValue(_ context.Context, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names[name] = value
	return nil
}

func (m *Memory) Snapshot(context.Context) (models.HistoryRow, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snapshot == nil {
		return models.HistoryRow{}, false, nil
	}
	return *m.snapshot, true, nil
}

func (m *Memory) SetSnapshot(_ context.Context, row models.HistoryRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = &row
	return nil
}

func (m *Memory) InsertTop(_ context.Context, row models.HistoryRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.window = append([]models.HistoryRow{row}, m.window...)
	return nil
}

func (m *Memory) Window(context.Context) ([]models.HistoryRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.HistoryRow(nil), m.window...), nil
}

func (m *Memory) Trim(_ context.Context, maxRows int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if maxRows < 0 {
		maxRows = 0
	}
	if len(m.window) <= maxRows {
		return 0, nil
	}
	cleared := len(m.window) - maxRows
	m.window = m.window[:maxRows:maxRows]
	return cleared, nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = nil
	m.window = nil
	return nil
}
