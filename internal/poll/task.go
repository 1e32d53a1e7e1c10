package poll

import (
	"context"
	"sync"
	"time"
)

// Task is a running periodic job. Cancel stops it; calling Cancel more than
// once, or after the parent context ended, is a no-op.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Every runs fn every interval until ctx ends or the task is cancelled. With
// immediate set, fn also runs once right away. Ticks never overlap: a slow fn
// delays the next tick rather than running concurrently.
func Every(ctx context.Context, interval time.Duration, immediate bool, fn func(context.Context)) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)

		if immediate {
			fn(ctx)
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// A tick may already be pending when Cancel races the ticker.
				if ctx.Err() != nil {
					return
				}
				fn(ctx)
			}
		}
	}()
	return t
}

// Cancel stops the task. It does not wait for an in-flight tick.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.once.Do(t.cancel)
}

// Done is closed once the task's loop has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait cancels the task and blocks until its loop exits or ctx ends.
func (t *Task) Wait(ctx context.Context) error {
	if t == nil {
		return nil
	}
	t.Cancel()
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
