package sheet

import (
	"strconv"
	"time"

	"farmbeats_sheets/internal/models"
)

// Cells renders row into the twelve data columns.
func Cells(row models.HistoryRow) []any {
	return []any{
		row.Time().Format(time.RFC3339),
		row.Date,
		row.SoilMoisture,
		row.Temperature,
		row.Humidity,
		row.SoilTemperature,
		row.Visible,
		row.InfraRed,
		row.UltraViolet,
		onOff(row.RelayState),
		onOff(row.Button1State),
		onOff(row.Button2State),
	}
}

// CellRef returns the A1 reference of the first cell of a sheet row.
func CellRef(row int) string {
	return "A" + strconv.Itoa(row)
}

// LastColumn is the column letter of the twelfth data column.
const LastColumn = "L"

func onOff(v bool) string {
	if v {
		return "On"
	}
	return "Off"
}
