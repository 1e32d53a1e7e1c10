package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"farmbeats_sheets/internal/sensor"
	"farmbeats_sheets/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// --- parseInterval unit tests ---

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil)

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", 1 * time.Second},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=20s", 1 * time.Second},
		{"interval_ms_too_large", "/ws?interval_ms=20000", 1 * time.Second},
		{"interval_invalid_string", "/ws?interval=bogus", 1 * time.Second},
		{"interval_ms_invalid", "/ws?interval_ms=NaN", 1 * time.Second},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"both_present_invalid_interval_ms_used", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.u, nil)
			c, _ := gin.CreateTestContext(w)
			c.Request = req
			got := h.parseInterval(c)
			if got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

// --- websocket integration tests ---

func dialFunction(t *testing.T, srv *httptest.Server, metric string, query url.Values) *websocket.Conn {
	t.Helper()
	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws/functions/" + metric
	u.RawQuery = query.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	return conn
}

type envelope struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func TestWebSocket_FunctionStream_InitialAndPeriodic(t *testing.T) {
	fn := &mockFunctions{values: map[sensor.Metric]any{sensor.Humidity: 48.5}}
	srv := httptest.NewServer(newTestRouter(&service.Service{Functions: fn}))
	defer srv.Close()

	conn := dialFunction(t, srv, "humidity", url.Values{"interval_ms": {"20"}})
	defer conn.Close()

	for i := 0; i < 2; i++ {
		_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if env.Type != wsTypeValue {
			t.Fatalf("bad envelope: %+v", env)
		}
		var v FunctionValue
		if err := json.Unmarshal(env.Data, &v); err != nil {
			t.Fatalf("unmarshal value: %v", err)
		}
		if v.Metric != "humidity" || v.Value != 48.5 {
			t.Fatalf("unexpected value: %+v", v)
		}
	}

	fn.mu.Lock()
	interval := fn.lastInterval
	fn.mu.Unlock()
	if interval != 20*time.Millisecond {
		t.Fatalf("interval=%v, want 20ms", interval)
	}
}

func TestWebSocket_CloseCancelsPoller(t *testing.T) {
	fn := &mockFunctions{}
	srv := httptest.NewServer(newTestRouter(&service.Service{Functions: fn}))
	defer srv.Close()

	conn := dialFunction(t, srv, "relay", url.Values{"interval_ms": {"20"}})

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	_ = conn.Close()

	ctx := fn.streamContext()
	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("poller context was not cancelled after the socket closed")
	}
}

func TestWebSocket_UnknownMetric(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(&service.Service{Functions: &mockFunctions{}}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ws/functions/wind-speed")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
