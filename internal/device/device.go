package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"farmbeats_sheets/internal/models"
)

// Paths served by the device.
const (
	PathRelay               = "/relay"
	PathSoilMoisture        = "/soil-moisture"
	PathTemperatureHumidity = "/temperature-humidity"
	PathSunlight            = "/sunlight"
	PathButton              = "/button"
	PathAll                 = "/all"
	PathHistory             = "/history"
)

// DefaultTimeout bounds a single request when no client is supplied.
const DefaultTimeout = 5 * time.Second

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %s", e.Method, e.URL, e.Status)
}

// Device is a FarmBeats device reachable at a normalized origin.
type Device struct {
	origin string
	client *http.Client
}

// New creates a device for origin. If client is nil, a client with
// DefaultTimeout is used.
func New(origin string, client *http.Client) *Device {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Device{origin: origin, client: client}
}

// Origin returns the base URL the device was created with.
func (d *Device) Origin() string {
	return d.origin
}

// Probe checks that the device answers at its origin.
func (d *Device) Probe(ctx context.Context) error {
	_, err := d.do(ctx, http.MethodGet, d.origin, nil)
	return err
}

// GetJSON fetches origin+path and returns the raw body of a 2xx response.
func (d *Device) GetJSON(ctx context.Context, path string) ([]byte, error) {
	return d.do(ctx, http.MethodGet, d.origin+path, nil)
}

// Relay reads the relay state.
func (d *Device) Relay(ctx context.Context) (models.RelayReading, error) {
	var r models.RelayReading
	err := d.getInto(ctx, PathRelay, &r)
	return r, err
}

// SetRelay switches the relay on or off.
func (d *Device) SetRelay(ctx context.Context, on bool) error {
	body, err := json.Marshal(models.RelayReading{Value: on})
	if err != nil {
		return err
	}
	_, err = d.do(ctx, http.MethodPost, d.origin+PathRelay, body)
	return err
}

func (d *Device) SoilMoisture(ctx context.Context) (models.SoilMoistureReading, error) {
	var r models.SoilMoistureReading
	err := d.getInto(ctx, PathSoilMoisture, &r)
	return r, err
}

func (d *Device) TemperatureHumidity(ctx context.Context) (models.TemperatureHumidityReading, error) {
	var r models.TemperatureHumidityReading
	err := d.getInto(ctx, PathTemperatureHumidity, &r)
	return r, err
}

func (d *Device) Sunlight(ctx context.Context) (models.SunlightReading, error) {
	var r models.SunlightReading
	err := d.getInto(ctx, PathSunlight, &r)
	return r, err
}

func (d *Device) Buttons(ctx context.Context) (models.ButtonReading, error) {
	var r models.ButtonReading
	err := d.getInto(ctx, PathButton, &r)
	return r, err
}

// All reads every sensor in one request.
func (d *Device) All(ctx context.Context) (models.AllReadings, error) {
	var r models.AllReadings
	err := d.getInto(ctx, PathAll, &r)
	return r, err
}

// History returns stored rows with a date strictly after from.
func (d *Device) History(ctx context.Context, from int64) ([]models.HistoryRow, error) {
	q := url.Values{}
	q.Set("from_date", strconv.FormatInt(from, 10))

	rows := []models.HistoryRow{}
	if err := d.getInto(ctx, PathHistory+"?"+q.Encode(), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (d *Device) getInto(ctx context.Context, path string, dst any) error {
	body, err := d.GetJSON(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (d *Device) do(ctx context.Context, method, u string, body []byte) ([]byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	res, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, u, err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &StatusError{Method: method, URL: u, Code: res.StatusCode, Status: res.Status}
	}
	return data, nil
}
