package service

import (
	"context"
	"fmt"

	"farmbeats_sheets/internal/logger"
	"farmbeats_sheets/internal/models"
	"farmbeats_sheets/internal/sensor"
	"farmbeats_sheets/internal/session"
)

type RelayService struct {
	sess      *session.Session
	functions Functions
	status    StatusLog
	log       *logger.Logger
}

func NewRelayService(sess *session.Session, functions Functions, status StatusLog, log *logger.Logger) *RelayService {
	return &RelayService{sess: sess, functions: functions, status: status, log: logger.OrNop(log)}
}

// SetRelay posts the desired state once. The outcome, success or failure, is
// written to the status log and returned.
func (s *RelayService) SetRelay(ctx context.Context, on bool) models.StatusEvent {
	if err := s.setRelay(ctx, on); err != nil {
		s.log.Warnw("relay_set_failed", "on", on, "err", err)
		return s.status.Report(ctx, models.SourceRelay, models.LevelError, fmt.Sprintf("Error: %v", err))
	}
	return s.status.Report(ctx, models.SourceRelay, models.LevelInfo, "Relay turned "+onOffLabel(on))
}

// RelayState is "On", "Off" or "Error".
func (s *RelayService) RelayState(ctx context.Context) string {
	v, _ := s.functions.Value(ctx, sensor.RelayState).(string)
	if v == "" {
		return sensor.ErrorVal
	}
	return v
}

func (s *RelayService) setRelay(ctx context.Context, on bool) error {
	dev, err := s.sess.Device(ctx)
	if err != nil {
		return err
	}
	return dev.SetRelay(ctx, on)
}

func onOffLabel(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
