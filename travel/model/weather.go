package model

// Weather provenance markers.
const (
	WeatherSourceAPI      = "api"
	WeatherSourceEstimate = "historical_estimate"
)

// DayWeather is one day's forecast for one city.
type DayWeather struct {
	Date               Date    `json:"date"`
	Condition          string  `json:"condition"` // "sunny", "rain", "cloudy", ...
	TempHighC          float64 `json:"temp_high_c"`
	TempLowC           float64 `json:"temp_low_c"`
	HumidityPct        int     `json:"humidity_pct"`
	RainProbabilityPct int     `json:"rain_probability_pct,omitempty"`
	Summary            string  `json:"summary"`
	City               string  `json:"city,omitempty"`
	Source             string  `json:"source,omitempty"` // WeatherSourceAPI or WeatherSourceEstimate
}
