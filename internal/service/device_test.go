package service

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"farmbeats_sheets/internal/models"
	"farmbeats_sheets/internal/session"
	"farmbeats_sheets/internal/sheet"
)

func TestDeviceService_SetDeviceID(t *testing.T) {
	srv := httptest.NewTLSServer(&fakeFarmBeats{})
	defer srv.Close()

	wb := sheet.NewMemory()
	repo := &fakeStatusRepo{}
	svc := NewDeviceService(session.New(wb, srv.Client(), nil), NewStatusService(repo, nil))

	origin, err := svc.SetDeviceID(context.Background(), srv.URL+"/")
	if err != nil {
		t.Fatalf("SetDeviceID: %v", err)
	}
	if origin != srv.URL {
		t.Fatalf("origin = %q; want %q", origin, srv.URL)
	}
	if got, _ := svc.Origin(context.Background()); got != srv.URL {
		t.Fatalf("Origin = %q; want %q", got, srv.URL)
	}
	if e := repo.last(t); e.IsError() || e.Source != models.SourceDevice {
		t.Fatalf("unexpected status %+v", e)
	}
}

func TestDeviceService_SetDeviceID_Unreachable(t *testing.T) {
	srv := httptest.NewTLSServer(&fakeFarmBeats{})
	addr := srv.URL
	srv.Close()

	repo := &fakeStatusRepo{}
	svc := NewDeviceService(session.New(sheet.NewMemory(), nil, nil), NewStatusService(repo, nil))

	_, err := svc.SetDeviceID(context.Background(), addr)
	if err == nil {
		t.Fatal("expected error for unreachable device")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Fatalf("unexpected error %v", err)
	}
	if e := repo.last(t); !e.IsError() {
		t.Fatalf("failure should be reported to status, got %+v", e)
	}
}
