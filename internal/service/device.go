package service

import (
	"context"

	"farmbeats_sheets/internal/models"
	"farmbeats_sheets/internal/session"
)

type DeviceService struct {
	sess   *session.Session
	status StatusLog
}

func NewDeviceService(sess *session.Session, status StatusLog) *DeviceService {
	return &DeviceService{sess: sess, status: status}
}

// SetDeviceID validates raw against the device and makes it the session
// device. Errors are returned and also reported to the status log.
func (s *DeviceService) SetDeviceID(ctx context.Context, raw string) (string, error) {
	origin, err := s.sess.CheckAndSetDeviceID(ctx, raw)
	if err != nil {
		s.status.Report(ctx, models.SourceDevice, models.LevelError, err.Error())
		return "", err
	}
	s.status.Report(ctx, models.SourceDevice, models.LevelInfo, "Connected to "+origin)
	return origin, nil
}

func (s *DeviceService) Origin(ctx context.Context) (string, error) {
	return s.sess.Origin(ctx)
}
