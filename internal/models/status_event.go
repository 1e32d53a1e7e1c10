package models

import "time"

// StatusEvent is one message written to the visible status region.
type StatusEvent struct {
	EventID    string    `json:"event_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Level      string    `json:"level"`  // INFO | ERROR
	Source     string    `json:"source"` // RELAY | DEVICE | STREAM | DATA
	Message    string    `json:"message"`
}

const (
	LevelInfo  = "INFO"
	LevelError = "ERROR"

	SourceRelay  = "RELAY"
	SourceDevice = "DEVICE"
	SourceStream = "STREAM"
	SourceData   = "DATA"
)

// IsError reports whether the event describes a failure.
func (e StatusEvent) IsError() bool {
	return e.Level == LevelError
}
