package models

// Payloads returned by the device's single-value endpoints.

type RelayReading struct {
	Value bool `json:"value"`
}

type SoilMoistureReading struct {
	Value float64 `json:"value"` // 0-1023
}

type TemperatureHumidityReading struct {
	Temperature     float64 `json:"temperature"`
	Humidity        float64 `json:"humidity"`
	SoilTemperature float64 `json:"soil_temperature"`
}

type SunlightReading struct {
	Visible     float64 `json:"visible"`
	InfraRed    float64 `json:"IR"`
	UltraViolet float64 `json:"UV"`
}

type ButtonReading struct {
	Button1 bool `json:"button1"`
	Button2 bool `json:"button2"`
}

// AllReadings is the combined payload of GET /all.
type AllReadings struct {
	Button1         bool    `json:"button1"`
	Button2         bool    `json:"button2"`
	SoilMoisture    float64 `json:"soil_moisture"`
	Relay           bool    `json:"relay"`
	Temperature     float64 `json:"temperature"`
	SoilTemperature float64 `json:"soil_temperature"`
	Humidity        float64 `json:"humidity"`
	Visible         float64 `json:"visible"`
	UltraViolet     float64 `json:"ultra_violet"`
	InfraRed        float64 `json:"infra_red"`
}
