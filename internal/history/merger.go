// Package history imports the device history feed into the workbook and
// runs the periodic import while streaming is on.
package history

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"farmbeats_sheets/internal/logger"
	"farmbeats_sheets/internal/models"
	"farmbeats_sheets/internal/sheet"
)

// DefaultMaxRows caps the window when MaxDataRows is unreadable.
const DefaultMaxRows = 1000

// Source returns device history rows dated strictly after from.
type Source interface {
	History(ctx context.Context, from int64) ([]models.HistoryRow, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, from int64) ([]models.HistoryRow, error)

func (f SourceFunc) History(ctx context.Context, from int64) ([]models.HistoryRow, error) {
	return f(ctx, from)
}

// Result summarizes one merge.
type Result struct {
	Fetched       int   `json:"fetched"`
	Inserted      int   `json:"inserted"`
	Trimmed       int   `json:"trimmed"`
	LastTimestamp int64 `json:"last_timestamp"`
	// Interrupted is set when streaming stopped before the batch was fully
	// inserted.
	Interrupted bool `json:"interrupted"`
}

// Merger appends new history rows on top of the workbook window.
type Merger struct {
	src            Source
	wb             sheet.Workbook
	defaultMaxRows int
	log            *logger.Logger

	mu sync.Mutex // one merge at a time
}

func NewMerger(src Source, wb sheet.Workbook, defaultMaxRows int, log *logger.Logger) *Merger {
	if defaultMaxRows <= 0 {
		defaultMaxRows = DefaultMaxRows
	}
	return &Merger{src: src, wb: wb, defaultMaxRows: defaultMaxRows, log: logger.OrNop(log)}
}

// Merge fetches rows newer than the snapshot and inserts them oldest first, so
// the newest ends up on top. active is checked before every insert; once it
// reports false no more rows are inserted, but the snapshot still receives
// the newest row of the batch and the window is still trimmed.
func (m *Merger) Merge(ctx context.Context, active func() bool) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var res Result

	snap, ok, err := m.wb.Snapshot(ctx)
	if err != nil {
		return res, fmt.Errorf("read snapshot: %w", err)
	}
	last := int64(0)
	if ok {
		last = snap.Date
	}
	res.LastTimestamp = last

	rows, err := m.src.History(ctx, last)
	if err != nil {
		return res, fmt.Errorf("fetch history from %d: %w", last, err)
	}
	rows = newerThan(rows, last)
	res.Fetched = len(rows)

	for _, row := range rows {
		if !active() {
			res.Interrupted = true
			break
		}
		if err := m.wb.InsertTop(ctx, row); err != nil {
			return res, fmt.Errorf("insert row %d: %w", row.Date, err)
		}
		res.Inserted++
		res.LastTimestamp = row.Date
	}

	if len(rows) > 0 {
		newest := rows[len(rows)-1]
		if err := m.wb.SetSnapshot(ctx, newest); err != nil {
			return res, fmt.Errorf("write snapshot: %w", err)
		}
		res.LastTimestamp = newest.Date
	}

	maxRows := sheet.IntValue(ctx, m.wb, sheet.NameMaxDataRows, m.defaultMaxRows)
	res.Trimmed, err = m.wb.Trim(ctx, maxRows)
	if err != nil {
		return res, fmt.Errorf("trim window to %d rows: %w", maxRows, err)
	}

	if res.Fetched > 0 || res.Trimmed > 0 {
		m.log.Infow("history_merged",
			"fetched", res.Fetched,
			"inserted", res.Inserted,
			"trimmed", res.Trimmed,
			"last_timestamp", res.LastTimestamp,
			"interrupted", res.Interrupted,
		)
	}
	return res, nil
}

// newerThan returns rows dated after last, sorted ascending. The feed is
// expected to do this already; the merge must never re-insert a row.
func newerThan(rows []models.HistoryRow, last int64) []models.HistoryRow {
	out := make([]models.HistoryRow, 0, len(rows))
	for _, r := range rows {
		if r.Date > last {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
