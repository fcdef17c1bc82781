package model

import "strings"

// DayPlan is one day of the itinerary. The primary morning/afternoon/evening
// slots assume clear weather; the alt slots carry the rain contingency.
type DayPlan struct {
	Number           int     `json:"number"`
	Date             Date    `json:"date"`
	Title            string  `json:"title"`
	Weather          string  `json:"weather"`
	Morning          string  `json:"morning"`
	Afternoon        string  `json:"afternoon"`
	Evening          string  `json:"evening"`
	EstimatedCostUSD float64 `json:"estimated_cost_usd,omitempty"`
	AltWeatherNote   string  `json:"alt_weather_note,omitempty"`
	AltMorning       string  `json:"alt_morning,omitempty"`
	AltAfternoon     string  `json:"alt_afternoon,omitempty"`
	AltEvening       string  `json:"alt_evening,omitempty"`
}

// Itinerary is the assembled plan. Refinement never mutates an itinerary in
// place; it produces a new value, so callers can keep history for undo.
type Itinerary struct {
	Title              string             `json:"title"`
	Destination        string             `json:"destination"`
	DateRange          string             `json:"date_range"`
	DestinationSummary string             `json:"destination_summary"`
	Flights            []FlightOption     `json:"flights"`
	Hotels             []HotelOption      `json:"hotels"`
	HotelsByCity       []CityHotels       `json:"hotels_by_city,omitempty"`
	Activities         []Activity         `json:"activities"`
	WeatherForecast    []DayWeather       `json:"weather_forecast"`
	DestinationInfo    *DestinationInfo   `json:"destination_info,omitempty"`
	Days               []DayPlan          `json:"days"`
	BudgetBreakdown    map[string]float64 `json:"budget_breakdown"`
	PracticalTips      []string           `json:"practical_tips"`
}

// Slug returns a filesystem-friendly identifier for exports,
// e.g. "trip_tokyo_2026-03-15".
func (i *Itinerary) Slug() string {
	date := "unknown"
	if len(i.Days) > 0 && !i.Days[0].Date.IsZero() {
		date = i.Days[0].Date.String()
	}
	dest := strings.ToLower(strings.ReplaceAll(i.Destination, " ", "_"))
	return "trip_" + dest + "_" + date
}
