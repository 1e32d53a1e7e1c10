package poll

import (
	"context"
	"time"

	"farmbeats_sheets/internal/logger"
)

// Getter fetches the raw JSON body served at path on the current device.
type Getter interface {
	Get(ctx context.Context, path string) ([]byte, error)
}

// GetterFunc adapts a function to Getter.
type GetterFunc func(ctx context.Context, path string) ([]byte, error)

func (f GetterFunc) Get(ctx context.Context, path string) ([]byte, error) {
	return f(ctx, path)
}

// Extractor maps a raw payload to a typed value.
type Extractor[T any] func([]byte) (T, error)

// Fetch performs one fetch-extract cycle. Every failure, whether transport,
// status, decoding or extraction, yields fallback instead of an error so that
// a cell always has something to show.
func Fetch[T any](ctx context.Context, g Getter, path string, extract Extractor[T], fallback T, log *logger.Logger) T {
	body, err := g.Get(ctx, path)
	if err != nil {
		logger.OrNop(log).Debugw("poll_fetch_failed", "path", path, "err", err)
		return fallback
	}
	v, err := extract(body)
	if err != nil {
		logger.OrNop(log).Debugw("poll_extract_failed", "path", path, "err", err)
		return fallback
	}
	return v
}

// Poll publishes Fetch results every interval until the returned task is
// cancelled or ctx ends. The first value is published immediately.
func Poll[T any](ctx context.Context, g Getter, path string, interval time.Duration, extract Extractor[T], fallback T, publish func(T), log *logger.Logger) *Task {
	return Every(ctx, interval, true, func(ctx context.Context) {
		v := Fetch(ctx, g, path, extract, fallback, log)
		if ctx.Err() != nil {
			return
		}
		publish(v)
	})
}
