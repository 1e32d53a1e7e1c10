package service

import (
	"context"
	"testing"
	"time"

	"farmbeats_sheets/internal/history"
	"farmbeats_sheets/internal/models"
	"farmbeats_sheets/internal/session"
	"farmbeats_sheets/internal/sheet"
)

func TestLifecycle_EndSessionStopsStreamingAndRevokesTokens(t *testing.T) {
	ctx := context.Background()
	_, sess, wb := newDeviceSession(t)
	hist, repo := newHistoryService(t, sess, wb)
	status := NewStatusService(repo, nil)
	auth := NewOperatorAuth(newFakeGrowers(), sess, testSigningKey, time.Hour)
	token := signInGrower(t, auth, "north-field", "tomatoes1")

	if _, err := hist.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, ok := sess.Cached(); !ok {
		t.Fatal("expected a resolved device before ending the session")
	}
	before := sess.ID()

	e := NewLifecycleService(sess, hist, status, nil).EndSession(ctx)
	if e.Source != models.SourceDevice || e.Level != models.LevelInfo || e.Message != "Session ended" {
		t.Fatalf("unexpected event %+v", e)
	}
	if hist.State().State != history.StateIdle {
		t.Fatalf("state = %s; want IDLE", hist.State().State)
	}
	if sess.ID() == before {
		t.Fatal("session ID did not change")
	}
	if _, ok := sess.Cached(); ok {
		t.Fatal("device still cached after EndSession")
	}
	if _, err := auth.Authenticate(token); err != ErrSessionEnded {
		t.Fatalf("Authenticate = %v; want ErrSessionEnded", err)
	}
}

func TestLifecycle_EndSessionWhileIdleSkipsStop(t *testing.T) {
	ctx := context.Background()
	wb := sheet.NewMemory()
	sess := session.New(wb, nil, nil)
	hist, repo := newHistoryService(t, sess, wb)

	NewLifecycleService(sess, hist, NewStatusService(repo, nil), nil).EndSession(ctx)

	for _, e := range repo.events {
		if e.Message == "Streaming stopped" {
			t.Fatal("idle session reported a stop")
		}
	}
	if e := repo.last(t); e.Message != "Session ended" {
		t.Fatalf("latest status = %q", e.Message)
	}
}
