package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"farmbeats_sheets/internal/models"
	"farmbeats_sheets/internal/session"
	"farmbeats_sheets/internal/sheet"
)

// fakeFarmBeats emulates the device HTTP API.
type fakeFarmBeats struct {
	mu         sync.Mutex
	relay      bool
	relayCode  int
	rows       []models.HistoryRow
	historyHit int
}

func (f *fakeFarmBeats) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.URL.Path {
	case "/":
		w.WriteHeader(http.StatusOK)
	case "/relay":
		if r.Method == http.MethodPost {
			if f.relayCode != 0 {
				http.Error(w, http.StatusText(f.relayCode), f.relayCode)
				return
			}
			var in models.RelayReading
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			f.relay = in.Value
			w.WriteHeader(http.StatusOK)
			return
		}
		_ = json.NewEncoder(w).Encode(models.RelayReading{Value: f.relay})
	case "/soil-moisture":
		_, _ = w.Write([]byte(`{"value": 512}`))
	case "/history":
		f.historyHit++
		from, _ := strconv.ParseInt(r.URL.Query().Get("from_date"), 10, 64)
		out := []models.HistoryRow{}
		for _, row := range f.rows {
			if row.Date > from {
				out = append(out, row)
			}
		}
		_ = json.NewEncoder(w).Encode(out)
	default:
		http.NotFound(w, r)
	}
}

// newDeviceSession starts a fake device and a session whose workbook points
// at it.
func newDeviceSession(t *testing.T) (*fakeFarmBeats, *session.Session, *sheet.Memory) {
	t.Helper()
	fake := &fakeFarmBeats{}
	srv := httptest.NewTLSServer(fake)
	t.Cleanup(srv.Close)

	wb := sheet.NewMemory()
	if err := wb.SetNamedValue(t.Context(), sheet.NameDeviceID, srv.URL); err != nil {
		t.Fatalf("set DeviceId: %v", err)
	}
	return fake, session.New(wb, srv.Client(), nil), wb
}
