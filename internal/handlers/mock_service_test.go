package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"farmbeats_sheets/internal/history"
	"farmbeats_sheets/internal/models"
	"farmbeats_sheets/internal/poll"
	"farmbeats_sheets/internal/sensor"
	"farmbeats_sheets/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerID  int64
	registerErr error
	token       string
	signInErr   error
	operator    models.Operator
	authErr     error

	lastName     string
	lastPassword string
	lastToken    string
}

// validAuth accepts any token as the given grower in session "s-1".
func validAuth() *mockAuth {
	return &mockAuth{operator: models.Operator{GrowerID: 1, Name: "north-field", SessionID: "s-1"}}
}

func (m *mockAuth) Register(_ context.Context, name, password string) (int64, error) {
	m.lastName, m.lastPassword = name, password
	return m.registerID, m.registerErr
}

func (m *mockAuth) SignIn(_ context.Context, name, password string) (string, error) {
	m.lastName, m.lastPassword = name, password
	return m.token, m.signInErr
}

func (m *mockAuth) Authenticate(token string) (models.Operator, error) {
	m.lastToken = token
	if m.authErr != nil {
		return models.Operator{}, m.authErr
	}
	return m.operator, nil
}

type mockLifecycle struct {
	ended int
}

func (m *mockLifecycle) EndSession(context.Context) models.StatusEvent {
	m.ended++
	return models.StatusEvent{Source: models.SourceDevice, Level: models.LevelInfo, Message: "Session ended"}
}

type mockFunctions struct {
	values map[sensor.Metric]any

	mu           sync.Mutex
	lastInterval time.Duration
	streamCtx    context.Context
}

func (m *mockFunctions) Value(_ context.Context, metric sensor.Metric) any {
	if v, ok := m.values[metric]; ok {
		return v
	}
	return metric.Fallback()
}

func (m *mockFunctions) Stream(ctx context.Context, metric sensor.Metric, interval time.Duration, publish func(any)) *poll.Task {
	m.mu.Lock()
	m.lastInterval = interval
	m.streamCtx = ctx
	m.mu.Unlock()
	return poll.Every(ctx, interval, true, func(ctx context.Context) {
		publish(m.Value(ctx, metric))
	})
}

func (m *mockFunctions) streamContext() context.Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.streamCtx
}

type mockRelay struct {
	state   string
	event   models.StatusEvent
	lastSet *bool
}

func (m *mockRelay) SetRelay(_ context.Context, on bool) models.StatusEvent {
	m.lastSet = &on
	return m.event
}

func (m *mockRelay) RelayState(context.Context) string { return m.state }

type mockDevice struct {
	origin    string
	setErr    error
	originErr error
	lastRaw   string
}

func (m *mockDevice) SetDeviceID(_ context.Context, raw string) (string, error) {
	m.lastRaw = raw
	if m.setErr != nil {
		return "", m.setErr
	}
	return m.origin, nil
}

func (m *mockDevice) Origin(context.Context) (string, error) {
	return m.origin, m.originErr
}

type mockHistory struct {
	status     history.Status
	startErr   error
	clearEvent models.StatusEvent
	view       service.SheetView
	viewErr    error

	startCalls int
	stopCalls  int
}

func (m *mockHistory) Start(context.Context) (history.Status, error) {
	m.startCalls++
	if m.startErr != nil {
		return history.Status{State: history.StateIdle}, m.startErr
	}
	m.status.State = history.StateStreaming
	return m.status, nil
}

func (m *mockHistory) Stop(context.Context) history.Status {
	m.stopCalls++
	m.status.State = history.StateIdle
	return m.status
}

func (m *mockHistory) State() history.Status { return m.status }

func (m *mockHistory) Clear(context.Context) models.StatusEvent { return m.clearEvent }

func (m *mockHistory) Sheet(context.Context) (service.SheetView, error) { return m.view, m.viewErr }

type mockStatusLog struct {
	latest     models.StatusEvent
	hasLatest  bool
	resp       []models.StatusEvent
	err        error
	lastFrom   time.Time
	lastTo     time.Time
	lastSource string
}

func (m *mockStatusLog) Report(_ context.Context, source, level, message string) models.StatusEvent {
	return models.StatusEvent{Source: source, Level: level, Message: message}
}

func (m *mockStatusLog) Latest(context.Context) (models.StatusEvent, bool, error) {
	return m.latest, m.hasLatest, m.err
}

func (m *mockStatusLog) List(_ context.Context, f service.LogFilter) ([]models.StatusEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastSource = f.Source
	return m.resp, m.err
}

type mockExport struct {
	payload []byte
	err     error
}

func (m *mockExport) WriteXLSX(_ context.Context, w io.Writer) error {
	if m.err != nil {
		return m.err
	}
	_, err := w.Write(m.payload)
	return err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// authedRequest builds a request carrying a valid bearer token.
func authedRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}
