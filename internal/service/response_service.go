package service

import (
	"time"

	"farmbeats_sheets/internal/history"
)

// LogFilter selects status events by time range and source.
type LogFilter struct {
	From   time.Time // inclusive; zero means no lower bound
	To     time.Time // inclusive; zero means no upper bound
	Source string    // "", "RELAY", "DEVICE", "STREAM", "DATA"
}

// SheetView is the "Data In" sheet as the taskpane shows it.
type SheetView struct {
	DeviceID     string         `json:"device_id"`
	DataPollTime int            `json:"data_poll_time"`
	MaxDataRows  int            `json:"max_data_rows"`
	Header       []string       `json:"header"`
	Snapshot     []any          `json:"snapshot,omitempty"`
	Rows         [][]any        `json:"rows"`
	Streaming    history.Status `json:"streaming"`
}
