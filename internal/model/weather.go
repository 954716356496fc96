package model

import "time"

// WeatherSample is a point-in-time weather observation for the user's
// location. Fetched fresh for each recomputation; never persisted beyond
// the provider's transient cache.
type WeatherSample struct {
	TemperatureC float64   `json:"temperature_c"`
	Icon         string    `json:"icon"`
	Description  string    `json:"description"`
	City         string    `json:"city"`
	ObservedAt   time.Time `json:"observed_at"`
}
