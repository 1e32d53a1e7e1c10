// Package session holds the per-process device session: the resolved device
// origin, how it is resolved from the workbook, and its periodic revalidation.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"farmbeats_sheets/internal/device"
	"farmbeats_sheets/internal/logger"
	"farmbeats_sheets/internal/poll"
	"farmbeats_sheets/internal/sheet"

	"github.com/google/uuid"
)

// DefaultRevalidateInterval is how often Run re-checks the device.
const DefaultRevalidateInterval = 10 * time.Second

// ErrNoDevice is returned when no origin is cached and none can be resolved.
var ErrNoDevice = errors.New("no device configured")

// Session caches the resolved device. The zero value is not usable; use New.
type Session struct {
	wb     sheet.Workbook
	client *http.Client
	log    *logger.Logger

	mu  sync.RWMutex
	id  string
	dev *device.Device
}

// New creates a session reading DeviceId from wb. client is shared by every
// device the session resolves; nil means a default client.
func New(wb sheet.Workbook, client *http.Client, log *logger.Logger) *Session {
	return &Session{
		id:     uuid.NewString(),
		wb:     wb,
		client: client,
		log:    logger.OrNop(log),
	}
}

// ID identifies the current session. It changes when the session ends, so
// anything bound to an older ID belongs to a session that is gone.
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// CheckAndSetDeviceID normalizes raw, probes it and caches it as the session
// origin. The workbook's DeviceId is updated to match. On failure the cache
// is left as it was.
func (s *Session) CheckAndSetDeviceID(ctx context.Context, raw string) (string, error) {
	dev, err := s.check(ctx, raw)
	if err != nil {
		return "", err
	}
	s.set(dev)
	if err := s.wb.SetNamedValue(ctx, sheet.NameDeviceID, raw); err != nil {
		s.log.Warnw("device_id_write_failed", "session", s.ID(), "err", err)
	}
	s.log.Infow("device_id_set", "session", s.ID(), "origin", dev.Origin())
	return dev.Origin(), nil
}

// Origin returns the cached origin, resolving it from the workbook first when
// nothing is cached.
func (s *Session) Origin(ctx context.Context) (string, error) {
	dev, err := s.Device(ctx)
	if err != nil {
		return "", err
	}
	return dev.Origin(), nil
}

// Cached returns the cached origin without resolving.
func (s *Session) Cached() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dev == nil {
		return "", false
	}
	return s.dev.Origin(), true
}

// Device returns the session device, resolving it lazily.
func (s *Session) Device(ctx context.Context) (*device.Device, error) {
	s.mu.RLock()
	dev := s.dev
	s.mu.RUnlock()
	if dev != nil {
		return dev, nil
	}

	raw, err := s.wb.NamedValue(ctx, sheet.NameDeviceID)
	if err != nil {
		if errors.Is(err, sheet.ErrNameNotFound) {
			return nil, ErrNoDevice
		}
		return nil, fmt.Errorf("read %s: %w", sheet.NameDeviceID, err)
	}
	dev, err = s.check(ctx, raw)
	if err != nil {
		return nil, err
	}
	s.set(dev)
	s.log.Infow("device_resolved", "session", s.ID(), "origin", dev.Origin())
	return dev, nil
}

// Get fetches path from the session device.
func (s *Session) Get(ctx context.Context, path string) ([]byte, error) {
	dev, err := s.Device(ctx)
	if err != nil {
		return nil, err
	}
	return dev.GetJSON(ctx, path)
}

// Revalidate re-reads DeviceId and probes it. A reachable device replaces the
// cached one; an unreachable one drops the cache so the next operation
// resolves again.
func (s *Session) Revalidate(ctx context.Context) error {
	raw, err := s.wb.NamedValue(ctx, sheet.NameDeviceID)
	if err != nil {
		if errors.Is(err, sheet.ErrNameNotFound) {
			s.Reset()
			return ErrNoDevice
		}
		return fmt.Errorf("read %s: %w", sheet.NameDeviceID, err)
	}

	dev, err := s.check(ctx, raw)
	if err != nil {
		if prev, ok := s.Cached(); ok {
			s.log.Warnw("device_lost", "session", s.ID(), "origin", prev, "err", err)
		}
		s.Reset()
		return err
	}

	if prev, ok := s.Cached(); !ok || prev != dev.Origin() {
		s.log.Infow("device_changed", "session", s.ID(), "from", prev, "to", dev.Origin())
		s.set(dev)
	}
	return nil
}

// Run revalidates every interval until ctx is cancelled.
func (s *Session) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultRevalidateInterval
	}
	task := poll.Every(ctx, interval, false, func(ctx context.Context) {
		if err := s.Revalidate(ctx); err != nil && ctx.Err() == nil {
			s.log.Debugw("device_revalidate_failed", "session", s.ID(), "err", err)
		}
	})
	<-task.Done()
}

// Reset forgets the cached device.
func (s *Session) Reset() {
	s.mu.Lock()
	s.dev = nil
	s.mu.Unlock()
}

// End tears the session down: the cached device is forgotten and a new
// session ID takes over. It returns the ID of the session that ended.
func (s *Session) End() string {
	s.mu.Lock()
	prev := s.id
	s.id = uuid.NewString()
	s.dev = nil
	next := s.id
	s.mu.Unlock()

	s.log.Infow("session_ended", "session", prev, "next", next)
	return prev
}

func (s *Session) check(ctx context.Context, raw string) (*device.Device, error) {
	origin, err := device.NormalizeOrigin(raw)
	if err != nil {
		return nil, err
	}
	dev := device.New(origin, s.client)
	if err := dev.Probe(ctx); err != nil {
		return nil, fmt.Errorf("device %s not found: %w", origin, err)
	}
	return dev, nil
}

func (s *Session) set(dev *device.Device) {
	s.mu.Lock()
	s.dev = dev
	s.mu.Unlock()
}
