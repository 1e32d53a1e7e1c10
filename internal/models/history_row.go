package models

import "time"

// HistoryRow is one entry of the device history feed. The feed is ordered by
// Date ascending and is append-only per device.
type HistoryRow struct {
	Date            int64   `json:"date"` // unix seconds
	SoilMoisture    float64 `json:"soil_moisture"`
	Temperature     float64 `json:"temperature"`      // °C
	Humidity        float64 `json:"humidity"`         // %
	SoilTemperature float64 `json:"soil_temperature"` // °C
	Visible         float64 `json:"visible"`
	InfraRed        float64 `json:"infra_red"`
	UltraViolet     float64 `json:"ultra_violet"`
	RelayState      bool    `json:"relay_state"`
	Button1State    bool    `json:"button1_state"`
	Button2State    bool    `json:"button2_state"`
}

// Time returns Date as a UTC time.
func (r HistoryRow) Time() time.Time {
	return time.Unix(r.Date, 0).UTC()
}
