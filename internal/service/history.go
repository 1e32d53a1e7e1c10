package service

import (
	"context"
	"errors"
	"fmt"

	"farmbeats_sheets/internal/history"
	"farmbeats_sheets/internal/logger"
	"farmbeats_sheets/internal/models"
	"farmbeats_sheets/internal/session"
	"farmbeats_sheets/internal/sheet"
)

type HistoryService struct {
	streamer *history.Streamer
	wb       sheet.Workbook
	status   StatusLog
	log      *logger.Logger
}

func NewHistoryService(streamer *history.Streamer, wb sheet.Workbook, status StatusLog, log *logger.Logger) *HistoryService {
	return &HistoryService{streamer: streamer, wb: wb, status: status, log: logger.OrNop(log)}
}

// Start turns streaming on. A failing first merge leaves streaming on; the
// failure is reported to the status log by the tick observer.
func (s *HistoryService) Start(ctx context.Context) (history.Status, error) {
	if _, err := s.streamer.Start(ctx); errors.Is(err, history.ErrClosed) {
		return s.streamer.Status(), err
	}
	st := s.streamer.Status()
	// A Stop that won the race during the first merge has already reported.
	if st.State != history.StateStreaming {
		return st, nil
	}
	s.status.Report(ctx, models.SourceStream, models.LevelInfo,
		fmt.Sprintf("Streaming started, every %d s", st.IntervalSeconds))
	return st, nil
}

func (s *HistoryService) Stop(ctx context.Context) history.Status {
	s.streamer.Stop()
	s.status.Report(ctx, models.SourceStream, models.LevelInfo, "Streaming stopped")
	return s.streamer.Status()
}

func (s *HistoryService) State() history.Status {
	return s.streamer.Status()
}

// Clear empties the snapshot row and the data window. A merge in flight may
// still write after it; the last write wins.
func (s *HistoryService) Clear(ctx context.Context) models.StatusEvent {
	if err := s.wb.Clear(ctx); err != nil {
		s.log.Errorw("history_clear_failed", "err", err)
		return s.status.Report(ctx, models.SourceData, models.LevelError, fmt.Sprintf("Error: %v", err))
	}
	return s.status.Report(ctx, models.SourceData, models.LevelInfo, "Data cleared")
}

func (s *HistoryService) Sheet(ctx context.Context) (SheetView, error) {
	view := SheetView{
		DataPollTime: sheet.IntValue(ctx, s.wb, sheet.NameDataPollTime, 0),
		MaxDataRows:  sheet.IntValue(ctx, s.wb, sheet.NameMaxDataRows, 0),
		Header:       sheet.Header[:],
		Rows:         [][]any{},
		Streaming:    s.streamer.Status(),
	}
	view.DeviceID, _ = s.wb.NamedValue(ctx, sheet.NameDeviceID)

	snap, ok, err := s.wb.Snapshot(ctx)
	if err != nil {
		return SheetView{}, err
	}
	if ok {
		view.Snapshot = sheet.Cells(snap)
	}

	rows, err := s.wb.Window(ctx)
	if err != nil {
		return SheetView{}, err
	}
	for _, r := range rows {
		view.Rows = append(view.Rows, sheet.Cells(r))
	}
	return view, nil
}

// deviceHistory feeds the merger from whatever device the session resolves
// at tick time.
func deviceHistory(sess *session.Session) history.Source {
	return history.SourceFunc(func(ctx context.Context, from int64) ([]models.HistoryRow, error) {
		dev, err := sess.Device(ctx)
		if err != nil {
			return nil, err
		}
		return dev.History(ctx, from)
	})
}

// reportTick writes failed merges to the status log. The tick context may
// already be cancelled by Stop.
func reportTick(status StatusLog) history.TickFunc {
	return func(ctx context.Context, _ history.Result, err error) {
		if err == nil {
			return
		}
		status.Report(context.WithoutCancel(ctx), models.SourceStream, models.LevelError, fmt.Sprintf("Error: %v", err))
	}
}
