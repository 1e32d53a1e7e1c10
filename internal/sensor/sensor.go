// Package sensor maps each metric a spreadsheet cell can show to the device
// endpoint that serves it and a pure function extracting the cell value.
package sensor

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"farmbeats_sheets/internal/device"
	"farmbeats_sheets/internal/models"
)

// Metric identifies a single scalar reading.
type Metric string

const (
	RelayState      Metric = "relay"
	SoilMoisture    Metric = "soil-moisture"
	Temperature     Metric = "temperature"
	Humidity        Metric = "humidity"
	SoilTemperature Metric = "soil-temperature"
	Visible         Metric = "visible"
	InfraRed        Metric = "infra-red"
	UltraViolet     Metric = "ultra-violet"
	Button1         Metric = "button1"
	Button2         Metric = "button2"
)

// Cell values shown for text metrics.
const (
	On       = "On"
	Off      = "Off"
	Pressed  = "Pressed"
	Released = "Released"
	ErrorVal = "Error"
)

// numericFallback is shown by numeric cells when the device cannot be read.
const numericFallback = -1.0

type spec struct {
	path     string
	extract  func([]byte) (any, error)
	fallback any
}

var specs = map[Metric]spec{
	RelayState: {device.PathRelay, func(b []byte) (any, error) {
		var r models.RelayReading
		if err := json.Unmarshal(b, &r); err != nil {
			return nil, err
		}
		return onOff(r.Value), nil
	}, ErrorVal},
	SoilMoisture: {device.PathSoilMoisture, func(b []byte) (any, error) {
		var r models.SoilMoistureReading
		if err := json.Unmarshal(b, &r); err != nil {
			return nil, err
		}
		return r.Value, nil
	}, numericFallback},
	Temperature:     {device.PathTemperatureHumidity, temperatureHumidity(func(r models.TemperatureHumidityReading) float64 { return r.Temperature }), numericFallback},
	Humidity:        {device.PathTemperatureHumidity, temperatureHumidity(func(r models.TemperatureHumidityReading) float64 { return r.Humidity }), numericFallback},
	SoilTemperature: {device.PathTemperatureHumidity, temperatureHumidity(func(r models.TemperatureHumidityReading) float64 { return r.SoilTemperature }), numericFallback},
	Visible:         {device.PathSunlight, sunlight(func(r models.SunlightReading) float64 { return r.Visible }), numericFallback},
	InfraRed:        {device.PathSunlight, sunlight(func(r models.SunlightReading) float64 { return r.InfraRed }), numericFallback},
	UltraViolet:     {device.PathSunlight, sunlight(func(r models.SunlightReading) float64 { return r.UltraViolet }), numericFallback},
	Button1:         {device.PathButton, button(func(r models.ButtonReading) bool { return r.Button1 }), ErrorVal},
	Button2:         {device.PathButton, button(func(r models.ButtonReading) bool { return r.Button2 }), ErrorVal},
}

// Parse resolves a metric by name, case-insensitively. Underscores are
// accepted in place of dashes.
func Parse(name string) (Metric, error) {
	m := Metric(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-"))
	if _, ok := specs[m]; !ok {
		return "", fmt.Errorf("unknown metric %q", name)
	}
	return m, nil
}

// All returns every known metric sorted by name.
func All() []Metric {
	out := make([]Metric, 0, len(specs))
	for m := range specs {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Path is the device endpoint serving m.
func (m Metric) Path() string { return specs[m].path }

// Fallback is the value a cell shows when m cannot be read.
func (m Metric) Fallback() any { return specs[m].fallback }

// Extract maps a raw endpoint payload to the cell value.
func (m Metric) Extract(body []byte) (any, error) {
	s, ok := specs[m]
	if !ok {
		return nil, fmt.Errorf("unknown metric %q", string(m))
	}
	return s.extract(body)
}

func onOff(v bool) string {
	if v {
		return On
	}
	return Off
}

func temperatureHumidity(pick func(models.TemperatureHumidityReading) float64) func([]byte) (any, error) {
	return func(b []byte) (any, error) {
		var r models.TemperatureHumidityReading
		if err := json.Unmarshal(b, &r); err != nil {
			return nil, err
		}
		return pick(r), nil
	}
}

func sunlight(pick func(models.SunlightReading) float64) func([]byte) (any, error) {
	return func(b []byte) (any, error) {
		var r models.SunlightReading
		if err := json.Unmarshal(b, &r); err != nil {
			return nil, err
		}
		return pick(r), nil
	}
}

func button(pick func(models.ButtonReading) bool) func([]byte) (any, error) {
	return func(b []byte) (any, error) {
		var r models.ButtonReading
		if err := json.Unmarshal(b, &r); err != nil {
			return nil, err
		}
		if pick(r) {
			return Pressed, nil
		}
		return Released, nil
	}
}
