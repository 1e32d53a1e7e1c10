package service

import (
	"context"
	"io"
	"time"

	"farmbeats_sheets/internal/config"
	"farmbeats_sheets/internal/history"
	"farmbeats_sheets/internal/logger"
	"farmbeats_sheets/internal/models"
	"farmbeats_sheets/internal/poll"
	"farmbeats_sheets/internal/repository"
	"farmbeats_sheets/internal/sensor"
	"farmbeats_sheets/internal/session"
)

// Authorization signs growers in to the live device session.
type Authorization interface {
	Register(ctx context.Context, name, password string) (int64, error)
	SignIn(ctx context.Context, name, password string) (string, error)
	Authenticate(token string) (models.Operator, error)
}

// Lifecycle ends the device session. Tokens issued for it stop working.
type Lifecycle interface {
	EndSession(ctx context.Context) models.StatusEvent
}

// Functions backs the spreadsheet custom functions.
type Functions interface {
	// Value fetches a metric once. Failures yield the metric's fallback.
	Value(ctx context.Context, m sensor.Metric) any
	// Stream publishes the metric every interval until the task is cancelled
	// or ctx ends.
	Stream(ctx context.Context, m sensor.Metric, interval time.Duration, publish func(any)) *poll.Task
}

// Relay switches the device relay. Failures are reported as status events,
// never returned.
type Relay interface {
	SetRelay(ctx context.Context, on bool) models.StatusEvent
	RelayState(ctx context.Context) string
}

// Device manages which FarmBeats device the session talks to.
type Device interface {
	SetDeviceID(ctx context.Context, raw string) (string, error)
	Origin(ctx context.Context) (string, error)
}

// History drives streaming of device history into the workbook.
type History interface {
	Start(ctx context.Context) (history.Status, error)
	Stop(ctx context.Context) history.Status
	State() history.Status
	Clear(ctx context.Context) models.StatusEvent
	Sheet(ctx context.Context) (SheetView, error)
}

// StatusLog is the visible status region; the latest event is the label.
type StatusLog interface {
	Report(ctx context.Context, source, level, message string) models.StatusEvent
	Latest(ctx context.Context) (models.StatusEvent, bool, error)
	List(ctx context.Context, f LogFilter) ([]models.StatusEvent, error)
}

// Export renders the workbook as an .xlsx document.
type Export interface {
	WriteXLSX(ctx context.Context, w io.Writer) error
}

type Service struct {
	Functions
	Relay
	Device
	History
	StatusLog
	Authorization
	Lifecycle
	Export

	streamer *history.Streamer
}

// NewService wires the repositories and the device session into the
// services. The history streamer is owned by the returned Service; call
// Close on shutdown.
func NewService(repos *repository.Repository, sess *session.Session, cfg *config.Config, log *logger.Logger) *Service {
	log = logger.OrNop(log)

	status := NewStatusService(repos.StatusLog, log)
	merger := history.NewMerger(deviceHistory(sess), repos.Workbook, cfg.Stream.MaxRows, log)
	streamer := history.NewStreamer(merger, repos.Workbook, cfg.Stream.PollTime, reportTick(status), log)
	functions := NewFunctionsService(sess, cfg.Functions.Interval, log)
	hist := NewHistoryService(streamer, repos.Workbook, status, log)

	return &Service{
		Functions:     functions,
		Relay:         NewRelayService(sess, functions, status, log),
		Device:        NewDeviceService(sess, status),
		History:       hist,
		StatusLog:     status,
		Authorization: NewOperatorAuth(repos.Growers, sess, cfg.Auth.SigningKey, cfg.Auth.TokenTTL),
		Lifecycle:     NewLifecycleService(sess, hist, status, log),
		Export:        NewExportService(repos.Workbook),
		streamer:      streamer,
	}
}

// Close stops streaming for good, waiting until ctx ends for a merge in
// flight.
func (s *Service) Close(ctx context.Context) error {
	if s.streamer == nil {
		return nil
	}
	return s.streamer.Close(ctx)
}
