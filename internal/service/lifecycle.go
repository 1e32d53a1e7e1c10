package service

import (
	"context"

	"farmbeats_sheets/internal/history"
	"farmbeats_sheets/internal/logger"
	"farmbeats_sheets/internal/models"
)

// sessionEnder is the part of session.Session that LifecycleService drives.
type sessionEnder interface {
	End() string
}

type LifecycleService struct {
	sess    sessionEnder
	history History
	status  StatusLog
	log     *logger.Logger
}

func NewLifecycleService(sess sessionEnder, hist History, status StatusLog, log *logger.Logger) *LifecycleService {
	return &LifecycleService{sess: sess, history: hist, status: status, log: logger.OrNop(log)}
}

// EndSession stops streaming, forgets the device and rotates the session
// ID. Signed-in growers must sign in again.
func (s *LifecycleService) EndSession(ctx context.Context) models.StatusEvent {
	if s.history.State().State == history.StateStreaming {
		s.history.Stop(ctx)
	}
	ended := s.sess.End()
	s.log.Infow("session_end_requested", "session", ended)
	return s.status.Report(ctx, models.SourceDevice, models.LevelInfo, "Session ended")
}
