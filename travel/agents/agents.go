// Package agents implements the specialist research agents. Each agent
// prefers a real data source when its client is configured and falls back to
// LLM-generated estimates otherwise. Agents are independent: one failing
// never affects the others.
package agents

import (
	"context"

	"github.com/voyagerhq/voyager/travel/apis"
	"github.com/voyagerhq/voyager/travel/model"
)

// FlightSearcher searches priced flight offers.
type FlightSearcher interface {
	SearchFlights(ctx context.Context, q apis.FlightQuery) ([]model.FlightOption, error)
}

// HotelSearcher searches priced lodging offers.
type HotelSearcher interface {
	SearchHotels(ctx context.Context, q apis.HotelQuery) ([]model.HotelOption, error)
}

// ActivitySearcher searches attractions and restaurants.
type ActivitySearcher interface {
	SearchActivities(ctx context.Context, destination string, maxResults int) ([]model.Activity, error)
}

// ForecastProvider returns daily weather forecasts.
type ForecastProvider interface {
	Forecast(ctx context.Context, city, countryCode string, start, end model.Date) ([]model.DayWeather, error)
}

// CountryLookup returns factual destination data.
type CountryLookup interface {
	Lookup(ctx context.Context, city, country string) (*model.DestinationInfo, error)
}

func flightBudget(req *model.TripRequest) float64 {
	if req.BudgetAllocation != nil && req.BudgetAllocation.FlightsMaxUSD != nil {
		return *req.BudgetAllocation.FlightsMaxUSD
	}
	return 0
}

func activityBudget(req *model.TripRequest) float64 {
	if req.BudgetAllocation != nil && req.BudgetAllocation.ActivitiesMaxUSD != nil {
		return *req.BudgetAllocation.ActivitiesMaxUSD
	}
	return 0
}

func priorityNotes(req *model.TripRequest) string {
	if req.BudgetAllocation != nil {
		return req.BudgetAllocation.PriorityNotes
	}
	return ""
}
