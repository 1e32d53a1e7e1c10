// Package sheet models the spreadsheet the bridge writes into: a
// Configuration sheet with named values and a "Data In" sheet holding a fixed
// snapshot row and a bounded window of history rows, newest on top.
package sheet

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"farmbeats_sheets/internal/models"
)

// Sheet names and fixed layout of the host document.
const (
	ConfigurationSheet = "Configuration"
	DataSheet          = "Data In"

	HeaderRow   = 4
	SnapshotRow = 5
	WindowStart = 9
	Columns     = 12
)

// Named values on the Configuration sheet.
const (
	NameDeviceID     = "DeviceId"
	NameDataPollTime = "DataPollTime" // seconds
	NameMaxDataRows  = "MaxDataRows"
)

// ErrNameNotFound is returned for a named value that was never set.
var ErrNameNotFound = errors.New("named value not found")

// Header labels the twelve data columns.
var Header = [Columns]string{
	"Date", "Timestamp", "Soil Moisture", "Temperature", "Humidity", "Soil Temperature",
	"Visible", "Infra Red", "Ultra Violet", "Relay", "Button 1", "Button 2",
}

// Workbook is the host document. Each method is atomic on its own; callers
// get no isolation across calls.
type Workbook interface {
	NamedValue(ctx context.Context, name string) (string, error)
	SetNamedValue(ctx context.Context, name, value string) error

	// Snapshot returns the snapshot row; ok is false when it is empty.
	Snapshot(ctx context.Context) (row models.HistoryRow, ok bool, err error)
	SetSnapshot(ctx context.Context, row models.HistoryRow) error

	// InsertTop inserts row as the first window row, shifting the rest down.
	InsertTop(ctx context.Context, row models.HistoryRow) error
	// Window returns the window rows, newest first.
	Window(ctx context.Context) ([]models.HistoryRow, error)
	// Trim clears window rows beyond the first maxRows and reports how many
	// were cleared.
	Trim(ctx context.Context, maxRows int) (int, error)
	// Clear empties the snapshot row and the window.
	Clear(ctx context.Context) error
}

// IntValue reads a named value as a positive integer, returning def when it
// is missing, unparsable or not positive.
func IntValue(ctx context.Context, wb Workbook, name string, def int) int {
	s, err := wb.NamedValue(ctx, name)
	if err != nil {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 1 {
		return def
	}
	return int(f)
}

// Seed sets each named value that the workbook does not have yet.
func Seed(ctx context.Context, wb Workbook, values map[string]string) error {
	for name, v := range values {
		_, err := wb.NamedValue(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNameNotFound) {
			return err
		}
		if err := wb.SetNamedValue(ctx, name, v); err != nil {
			return err
		}
	}
	return nil
}
