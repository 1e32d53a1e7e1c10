package service

import (
	"context"
	"time"

	"farmbeats_sheets/internal/logger"
	"farmbeats_sheets/internal/poll"
	"farmbeats_sheets/internal/sensor"
)

// DefaultStreamInterval is used when a streaming cell asks for no interval.
const DefaultStreamInterval = time.Second

type FunctionsService struct {
	getter   poll.Getter
	interval time.Duration
	log      *logger.Logger
}

// NewFunctionsService reads through getter, normally the device session.
func NewFunctionsService(getter poll.Getter, interval time.Duration, log *logger.Logger) *FunctionsService {
	if interval <= 0 {
		interval = DefaultStreamInterval
	}
	return &FunctionsService{getter: getter, interval: interval, log: logger.OrNop(log)}
}

func (s *FunctionsService) Value(ctx context.Context, m sensor.Metric) any {
	return poll.Fetch[any](ctx, s.getter, m.Path(), m.Extract, m.Fallback(), s.log)
}

func (s *FunctionsService) Stream(ctx context.Context, m sensor.Metric, interval time.Duration, publish func(any)) *poll.Task {
	if interval <= 0 {
		interval = s.interval
	}
	return poll.Poll[any](ctx, s.getter, m.Path(), interval, m.Extract, m.Fallback(), publish, s.log)
}
