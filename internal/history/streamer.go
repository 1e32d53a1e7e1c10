package history

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"farmbeats_sheets/internal/logger"
	"farmbeats_sheets/internal/poll"
	"farmbeats_sheets/internal/sheet"
)

// DefaultPollTime is the streaming interval when DataPollTime is unreadable.
const DefaultPollTime = 60 * time.Second

// Streaming states.
const (
	StateIdle      = "IDLE"
	StateStreaming = "STREAMING"
)

// ErrClosed is returned by Start after Close.
var ErrClosed = errors.New("streamer closed")

// TickFunc observes the outcome of every merge tick.
type TickFunc func(ctx context.Context, res Result, err error)

// Status describes the streamer for display.
type Status struct {
	State           string        `json:"state"`
	Interval        time.Duration `json:"-"`
	IntervalSeconds int           `json:"interval_seconds"`
	StartedAt       time.Time     `json:"started_at,omitempty"`
	LastTickAt      time.Time     `json:"last_tick_at,omitempty"`
	LastResult      Result        `json:"last_result"`
	LastError       string        `json:"last_error,omitempty"`
}

// Streamer runs Merger ticks while streaming is on. At most one periodic task
// exists at a time; starting again replaces it.
type Streamer struct {
	merger          *Merger
	wb              sheet.Workbook
	defaultInterval time.Duration
	onTick          TickFunc
	log             *logger.Logger

	baseCtx    context.Context
	baseCancel context.CancelFunc

	active atomic.Bool

	mu       sync.Mutex
	task     *poll.Task
	tasks    []*poll.Task // every task whose loop may still be running
	gen      uint64
	closed   bool
	interval time.Duration
	started  time.Time

	statMu  sync.Mutex
	lastAt  time.Time
	lastRes Result
	lastErr error
}

// NewStreamer builds an idle streamer. onTick may be nil.
func NewStreamer(merger *Merger, wb sheet.Workbook, defaultInterval time.Duration, onTick TickFunc, log *logger.Logger) *Streamer {
	if defaultInterval <= 0 {
		defaultInterval = DefaultPollTime
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Streamer{
		merger:          merger,
		wb:              wb,
		defaultInterval: defaultInterval,
		onTick:          onTick,
		log:             logger.OrNop(log),
		baseCtx:         ctx,
		baseCancel:      cancel,
	}
}

// Start cancels any running task, marks streaming active, runs one merge
// right away and then schedules merges every DataPollTime seconds. The
// result of the immediate merge is returned.
func (s *Streamer) Start(ctx context.Context) (Result, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Result{}, ErrClosed
	}
	s.task.Cancel()
	s.task = nil
	s.gen++
	gen := s.gen
	s.active.Store(true)
	s.interval = s.pollInterval(ctx)
	s.started = time.Now().UTC()
	interval := s.interval
	s.mu.Unlock()

	s.log.Infow("streaming_started", "interval", interval)
	res, err := s.tick(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	// Stopped, restarted or closed while the first merge was in flight.
	if s.gen != gen || s.closed {
		return res, err
	}
	s.task = poll.Every(s.baseCtx, interval, false, func(ctx context.Context) {
		// Stop cancels ctx; a request already on the wire still completes.
		_, _ = s.tick(context.WithoutCancel(ctx))
	})
	s.tasks = append(slices.DeleteFunc(s.tasks, taskDone), s.task)
	return res, err
}

// Stop cancels the periodic task and clears the active flag. A merge already
// in flight finishes its request and snapshot write but inserts no further
// rows.
func (s *Streamer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	wasActive := s.active.Swap(false)
	s.task.Cancel()
	s.task = nil
	s.gen++
	if wasActive {
		s.log.Infow("streaming_stopped")
	}
}

// Active reports whether streaming is on.
func (s *Streamer) Active() bool {
	return s.active.Load()
}

// Status returns the current state and the outcome of the last tick.
func (s *Streamer) Status() Status {
	s.mu.Lock()
	st := Status{State: StateIdle, Interval: s.interval, IntervalSeconds: int(s.interval / time.Second)}
	if s.active.Load() {
		st.State = StateStreaming
		st.StartedAt = s.started
	}
	s.mu.Unlock()

	s.statMu.Lock()
	defer s.statMu.Unlock()
	st.LastTickAt = s.lastAt
	st.LastResult = s.lastRes
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

// Close stops streaming for good. It waits, until ctx ends, for periodic
// merges still in flight so nothing writes to the workbook afterwards.
func (s *Streamer) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	pending := slices.DeleteFunc(s.tasks, taskDone)
	s.tasks = nil
	s.mu.Unlock()

	s.Stop()
	defer s.baseCancel()
	for _, t := range pending {
		if err := t.Wait(ctx); err != nil {
			s.log.Warnw("streaming_close_timeout", "err", err)
			return err
		}
	}
	return nil
}

func taskDone(t *poll.Task) bool {
	select {
	case <-t.Done():
		return true
	default:
		return false
	}
}

func (s *Streamer) tick(ctx context.Context) (Result, error) {
	res, err := s.merger.Merge(ctx, s.active.Load)

	s.statMu.Lock()
	s.lastAt = time.Now().UTC()
	s.lastRes = res
	s.lastErr = err
	s.statMu.Unlock()

	if err != nil {
		s.log.Warnw("history_tick_failed", "err", err)
	}
	if s.onTick != nil {
		s.onTick(ctx, res, err)
	}
	return res, err
}

func (s *Streamer) pollInterval(ctx context.Context) time.Duration {
	def := int(s.defaultInterval / time.Second)
	if def < 1 {
		def = 1
	}
	return time.Duration(sheet.IntValue(ctx, s.wb, sheet.NameDataPollTime, def)) * time.Second
}
