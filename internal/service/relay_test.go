package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"farmbeats_sheets/internal/models"
	"farmbeats_sheets/internal/session"
	"farmbeats_sheets/internal/sheet"
)

func newRelayService(t *testing.T, sess *session.Session) (*RelayService, *fakeStatusRepo) {
	t.Helper()
	repo := &fakeStatusRepo{}
	status := NewStatusService(repo, nil)
	return NewRelayService(sess, NewFunctionsService(sess, 0, nil), status, nil), repo
}

func TestRelayService_SetRelay_Success(t *testing.T) {
	fake, sess, _ := newDeviceSession(t)
	svc, repo := newRelayService(t, sess)

	e := svc.SetRelay(context.Background(), true)
	if e.IsError() {
		t.Fatalf("expected INFO event, got %+v", e)
	}
	if e.Message != "Relay turned on" {
		t.Fatalf("unexpected message %q", e.Message)
	}
	if !fake.relay {
		t.Fatal("device relay should be on")
	}
	if got := svc.RelayState(context.Background()); got != "On" {
		t.Fatalf("RelayState = %q; want On", got)
	}
	if repo.last(t).EventID != e.EventID {
		t.Fatal("event should be recorded in the status log")
	}
}

func TestRelayService_SetRelay_ServerErrorBecomesStatus(t *testing.T) {
	fake, sess, _ := newDeviceSession(t)
	fake.relayCode = http.StatusInternalServerError
	svc, repo := newRelayService(t, sess)

	e := svc.SetRelay(context.Background(), false)
	if !e.IsError() || e.Source != models.SourceRelay {
		t.Fatalf("expected RELAY ERROR event, got %+v", e)
	}
	if !strings.Contains(e.Message, "500") {
		t.Fatalf("status label should carry the error, got %q", e.Message)
	}
	if latest := repo.last(t); latest.Message != e.Message {
		t.Fatalf("latest status = %q; want %q", latest.Message, e.Message)
	}
}

func TestRelayService_NoDevice(t *testing.T) {
	sess := session.New(sheet.NewMemory(), nil, nil)
	svc, _ := newRelayService(t, sess)

	e := svc.SetRelay(context.Background(), true)
	if !e.IsError() || !strings.Contains(e.Message, session.ErrNoDevice.Error()) {
		t.Fatalf("expected no-device error event, got %+v", e)
	}
	if got := svc.RelayState(context.Background()); got != "Error" {
		t.Fatalf("RelayState = %q; want Error", got)
	}
}
