package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"farmbeats_sheets/internal/logger"
	"farmbeats_sheets/internal/models"
	"farmbeats_sheets/internal/repository"

	"github.com/google/uuid"
)

type StatusService struct {
	repo repository.StatusRepo
	log  *logger.Logger
}

func NewStatusService(repo repository.StatusRepo, log *logger.Logger) *StatusService {
	return &StatusService{repo: repo, log: logger.OrNop(log)}
}

var (
	errInvalidTimeRange = errors.New("invalid time range: From must be <= To")
)

// Report records a status message and returns it. A failed write is logged;
// the event is still returned so the caller can show it.
func (s *StatusService) Report(ctx context.Context, source, level, message string) models.StatusEvent {
	e := models.StatusEvent{
		EventID:    uuid.NewString(),
		OccurredAt: time.Now().UTC(),
		Level:      normalizeTag(level),
		Source:     normalizeTag(source),
		Message:    message,
	}
	if err := s.repo.Append(ctx, e); err != nil {
		s.log.Errorw("status_append_failed", "source", e.Source, "message", e.Message, "err", err)
	}
	if e.IsError() {
		s.log.Warnw("status", "source", e.Source, "message", e.Message)
	} else {
		s.log.Infow("status", "source", e.Source, "message", e.Message)
	}
	return e
}

func (s *StatusService) Latest(ctx context.Context) (models.StatusEvent, bool, error) {
	return s.repo.Latest(ctx)
}

func (s *StatusService) List(ctx context.Context, f LogFilter) ([]models.StatusEvent, error) {
	from, to, source, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, from, to, source)
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeTag trims spaces and uppercases a level or source.
func normalizeTag(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	return from, to, normalizeTag(f.Source), nil
}
