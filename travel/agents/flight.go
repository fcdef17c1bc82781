package agents

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/voyagerhq/voyager/travel/apis"
	"github.com/voyagerhq/voyager/travel/core/llm"
	"github.com/voyagerhq/voyager/travel/model"
)

const flightFallbackPrompt = `You are a flight search assistant. Given trip details and budget constraints, generate realistic flight options.
Return a JSON array of 5 flight options. Each option has this structure:
{
  "legs": [
    {
      "departure_airport": "SFO",
      "arrival_airport": "NRT",
      "departure_time": "2026-03-15T10:30:00Z",
      "arrival_time": "2026-03-16T14:30:00Z",
      "airline": "United Airlines",
      "flight_number": "UA837",
      "duration_minutes": 660
    }
  ],
  "total_price_usd": 1700.00,
  "currency": "USD",
  "stops": 0,
  "total_duration_minutes": 1320,
  "outbound_duration_minutes": 660,
  "return_duration_minutes": 660,
  "outbound_stops": 0,
  "return_stops": 0,
  "outbound_leg_count": 1,
  "booking_url": null
}
Include both outbound and return legs if a return date is provided (set outbound_leg_count to the number of outbound legs).
For one-way trips, omit return fields (return_duration_minutes, return_stops).
Use realistic airlines, prices, and flight times for the route.
If preferred airlines are specified, prioritize those carriers.
IMPORTANT: total_price_usd must be the TOTAL cost for ALL travelers (not per person). For example, if the fare is $850/person and there are 2 travelers, total_price_usd should be 1700.
Respect the flight budget constraint. All options should be at or under the max flight budget if one is specified.`

// FlightAgent finds flight options for a trip. With a configured searcher it
// queries real offers and applies the preference and budget filters; without
// one it asks the LLM for estimates.
type FlightAgent struct {
	LLM llm.Provider
	API FlightSearcher
}

// Run returns flight options for the request.
func (a *FlightAgent) Run(ctx context.Context, req *model.TripRequest) ([]model.FlightOption, error) {
	if a.API != nil {
		results, err := a.searchAPI(ctx, req)
		if err != nil {
			return nil, err
		}
		if len(results) > 0 {
			results = filterPreferredAirlines(results, req.PreferredAirlines)
			return filterFlightBudget(results, flightBudget(req)), nil
		}
	}
	return a.searchLLM(ctx, req)
}

func (a *FlightAgent) searchAPI(ctx context.Context, req *model.TripRequest) ([]model.FlightOption, error) {
	q := apis.FlightQuery{
		Origin:        req.OriginCode,
		Destination:   req.DestinationCode,
		DepartureDate: req.DepartureDate,
		Adults:        req.Travelers,
	}
	if req.TripType == model.TripTypeRoundTrip && !req.ReturnDate.IsZero() {
		q.ReturnDate = req.ReturnDate
	}
	return a.API.SearchFlights(ctx, q)
}

// filterPreferredAirlines narrows results to options with at least one leg on
// a preferred carrier. The filter is soft: when nothing matches, all results
// are kept.
func filterPreferredAirlines(results []model.FlightOption, preferred []string) []model.FlightOption {
	if len(preferred) == 0 {
		return results
	}
	lowered := make([]string, len(preferred))
	for i, p := range preferred {
		lowered[i] = strings.ToLower(p)
	}

	var filtered []model.FlightOption
	for _, f := range results {
		if flightMatchesAirlines(f, lowered) {
			filtered = append(filtered, f)
		}
	}
	if len(filtered) > 0 {
		return filtered
	}
	return results
}

func flightMatchesAirlines(f model.FlightOption, preferredLower []string) bool {
	for _, leg := range f.Legs {
		airline := strings.ToLower(leg.Airline)
		for _, p := range preferredLower {
			if airline == p || strings.Contains(airline, p) {
				return true
			}
		}
	}
	return false
}

// filterFlightBudget keeps options at or under the cap. When every option
// exceeds it, the cheapest 5 are returned instead of an empty list.
func filterFlightBudget(results []model.FlightOption, budget float64) []model.FlightOption {
	if budget <= 0 {
		return results
	}
	var underBudget []model.FlightOption
	for _, f := range results {
		if f.TotalPriceUSD <= budget {
			underBudget = append(underBudget, f)
		}
	}
	if len(underBudget) > 0 {
		return underBudget
	}
	sorted := append([]model.FlightOption(nil), results...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TotalPriceUSD < sorted[j].TotalPriceUSD
	})
	if len(sorted) > 5 {
		sorted = sorted[:5]
	}
	return sorted
}

func (a *FlightAgent) searchLLM(ctx context.Context, req *model.TripRequest) ([]model.FlightOption, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Find flights from %s (%s) to %s (%s). Departure: %s. ",
		req.Origin, req.OriginCode, req.Destination, req.DestinationCode, req.DepartureDate)
	if req.TripType == model.TripTypeOneWay {
		b.WriteString("One-way trip only (no return flight). ")
	} else if !req.ReturnDate.IsZero() {
		fmt.Fprintf(&b, "Return: %s. ", req.ReturnDate)
	}
	fmt.Fprintf(&b, "Travelers: %d.", req.Travelers)
	if len(req.PreferredAirlines) > 0 {
		fmt.Fprintf(&b, " Preferred airlines: %s.", strings.Join(req.PreferredAirlines, ", "))
	}
	if budget := flightBudget(req); budget > 0 {
		fmt.Fprintf(&b, " Flight budget: $%.0f max.", budget)
	} else if req.BudgetUSD > 0 {
		fmt.Fprintf(&b, " Total trip budget: $%.0f.", req.BudgetUSD)
	}

	var options []model.FlightOption
	if err := a.LLM.CompleteJSON(ctx, flightFallbackPrompt, b.String(), 0, &options); err != nil {
		return nil, fmt.Errorf("flight agent: %w", err)
	}
	for i := range options {
		options[i].Travelers = req.Travelers
	}
	return options, nil
}
