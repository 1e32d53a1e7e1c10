package sheet

import (
	"bytes"
	"context"
	"testing"

	"farmbeats_sheets/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestMemory_InsertTopAndTrim(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for _, d := range []int64{100, 200, 300} {
		require.NoError(t, m.InsertTop(ctx, models.HistoryRow{Date: d}))
	}
	rows, err := m.Window(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, int64(300), rows[0].Date)
	assert.Equal(t, int64(100), rows[2].Date)

	cleared, err := m.Trim(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, cleared)
	rows, _ = m.Window(ctx)
	assert.Equal(t, []int64{300, 200}, dates(rows))

	cleared, err = m.Trim(ctx, 5)
	require.NoError(t, err)
	assert.Zero(t, cleared)
}

func TestMemory_SnapshotAndClear(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Snapshot(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.SetSnapshot(ctx, models.HistoryRow{Date: 7}))
	require.NoError(t, m.InsertTop(ctx, models.HistoryRow{Date: 7}))
	snap, ok, _ := m.Snapshot(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(7), snap.Date)

	require.NoError(t, m.Clear(ctx))
	_, ok, _ = m.Snapshot(ctx)
	assert.False(t, ok)
	rows, _ := m.Window(ctx)
	assert.Empty(t, rows)
}

func TestIntValue(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	assert.Equal(t, 60, IntValue(ctx, m, NameDataPollTime, 60), "missing")

	_ = m.SetNamedValue(ctx, NameDataPollTime, "abc")
	assert.Equal(t, 60, IntValue(ctx, m, NameDataPollTime, 60), "unparsable")

	_ = m.SetNamedValue(ctx, NameDataPollTime, "0")
	assert.Equal(t, 60, IntValue(ctx, m, NameDataPollTime, 60), "not positive")

	_ = m.SetNamedValue(ctx, NameDataPollTime, " 15 ")
	assert.Equal(t, 15, IntValue(ctx, m, NameDataPollTime, 60))

	_ = m.SetNamedValue(ctx, NameMaxDataRows, "250.0")
	assert.Equal(t, 250, IntValue(ctx, m, NameMaxDataRows, 10))
}

func TestSeed_KeepsExisting(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.SetNamedValue(ctx, NameDeviceID, "greenhouse")

	require.NoError(t, Seed(ctx, m, map[string]string{
		NameDeviceID:    "farmbeats",
		NameMaxDataRows: "1000",
	}))

	v, _ := m.NamedValue(ctx, NameDeviceID)
	assert.Equal(t, "greenhouse", v)
	v, _ = m.NamedValue(ctx, NameMaxDataRows)
	assert.Equal(t, "1000", v)
}

func TestCells(t *testing.T) {
	cells := Cells(models.HistoryRow{Date: 0, SoilMoisture: 400, RelayState: true})
	require.Len(t, cells, Columns)
	assert.Equal(t, "1970-01-01T00:00:00Z", cells[0])
	assert.Equal(t, int64(0), cells[1])
	assert.Equal(t, 400.0, cells[2])
	assert.Equal(t, "On", cells[9])
	assert.Equal(t, "Off", cells[10])
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.SetNamedValue(ctx, NameDeviceID, "https://farmbeats.local")
	_ = m.SetNamedValue(ctx, NameMaxDataRows, "2")
	_ = m.InsertTop(ctx, models.HistoryRow{Date: 100, SoilMoisture: 1})
	_ = m.InsertTop(ctx, models.HistoryRow{Date: 200, SoilMoisture: 2})
	_ = m.SetSnapshot(ctx, models.HistoryRow{Date: 200, SoilMoisture: 2})

	var buf bytes.Buffer
	require.NoError(t, Export(ctx, m, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(ConfigurationSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "https://farmbeats.local", v)

	v, _ = f.GetCellValue(DataSheet, "B5")
	assert.Equal(t, "200", v)
	v, _ = f.GetCellValue(DataSheet, "B9")
	assert.Equal(t, "200", v)
	v, _ = f.GetCellValue(DataSheet, "B10")
	assert.Equal(t, "100", v)
	v, _ = f.GetCellValue(DataSheet, "A4")
	assert.Equal(t, "Date", v)

	names := map[string]bool{}
	for _, dn := range f.GetDefinedName() {
		names[dn.Name] = true
	}
	assert.True(t, names[NameDeviceID])
	assert.True(t, names[NameDataPollTime])
	assert.True(t, names[NameMaxDataRows])
}

func dates(rows []models.HistoryRow) []int64 {
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Date)
	}
	return out
}
