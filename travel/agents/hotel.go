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

const hotelFallbackPrompt = `You are a lodging search assistant. Given trip details and budget constraints, generate realistic lodging options.
Return a JSON array of 5 options. Each option has this structure:
{
  "name": "Hotel/Hostel/Property Name",
  "address": "123 Main St, City",
  "rating": 4.5,
  "price_per_night_usd": 150.00,
  "total_price_usd": 750.00,
  "amenities": ["wifi", "pool", "breakfast"],
  "booking_url": null,
  "distance_to_center_km": 1.2
}
IMPORTANT: Respect the hotel budget constraint strictly. Total cost MUST be within budget.
Provide a range of options within the budget, from the cheapest viable option to the best value at the budget cap.
Use realistic names, prices, and amenities for the destination.
If a lodging type is specified (hotel, hostel, Airbnb/vacation rental, etc.), tailor all suggestions to that type.
If preferred brands are specified (e.g., Marriott, Hilton), prioritize those brands.`

// minHotelResults is the target option count; API results below this are
// supplemented with LLM-generated ones.
const minHotelResults = 5

// HotelAgent finds lodging options. API results under the budget cap win;
// short API result sets are topped up with LLM options, de-duplicated by
// name.
type HotelAgent struct {
	LLM llm.Provider
	API HotelSearcher
}

// Run returns lodging options for the request. For multi-city trips the
// orchestrator calls this once per city with a city-scoped request.
func (a *HotelAgent) Run(ctx context.Context, req *model.TripRequest) ([]model.HotelOption, error) {
	budget := req.HotelBudget()

	var apiResults []model.HotelOption
	if a.API != nil {
		results, err := a.searchAPI(ctx, req)
		if err != nil {
			return nil, err
		}
		apiResults = filterHotelBudget(results, budget)
	}

	if len(apiResults) >= minHotelResults {
		return apiResults, nil
	}

	llmResults, err := a.searchLLM(ctx, req)
	if err != nil {
		// API results alone are still a usable answer.
		if len(apiResults) > 0 {
			return apiResults, nil
		}
		return nil, err
	}

	return mergeHotelResults(apiResults, llmResults), nil
}

func (a *HotelAgent) searchAPI(ctx context.Context, req *model.TripRequest) ([]model.HotelOption, error) {
	cityCode := req.DestinationCode
	if len(cityCode) > 3 {
		cityCode = cityCode[:3]
	}
	checkOut := req.ReturnDate
	if checkOut.IsZero() {
		checkOut = req.DepartureDate
	}
	return a.API.SearchHotels(ctx, apis.HotelQuery{
		CityCode: cityCode,
		CheckIn:  req.DepartureDate,
		CheckOut: checkOut,
		Adults:   req.Travelers,
	})
}

// filterHotelBudget keeps options whose total is at or under the cap, or the
// cheapest 5 when nothing fits.
func filterHotelBudget(results []model.HotelOption, budget float64) []model.HotelOption {
	if budget <= 0 || len(results) == 0 {
		return results
	}
	var underBudget []model.HotelOption
	for _, h := range results {
		if h.TotalPriceUSD <= budget {
			underBudget = append(underBudget, h)
		}
	}
	if len(underBudget) > 0 {
		return underBudget
	}
	sorted := append([]model.HotelOption(nil), results...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TotalPriceUSD < sorted[j].TotalPriceUSD
	})
	if len(sorted) > minHotelResults {
		sorted = sorted[:minHotelResults]
	}
	return sorted
}

// mergeHotelResults keeps API options first and fills up to the target count
// with LLM options, skipping case-insensitive name duplicates.
func mergeHotelResults(apiResults, llmResults []model.HotelOption) []model.HotelOption {
	combined := append([]model.HotelOption(nil), apiResults...)
	seen := make(map[string]struct{}, len(apiResults))
	for _, h := range apiResults {
		seen[strings.ToLower(h.Name)] = struct{}{}
	}

	target := minHotelResults
	if len(apiResults) > target {
		target = len(apiResults)
	}
	for _, h := range llmResults {
		if len(combined) >= target {
			break
		}
		if _, dup := seen[strings.ToLower(h.Name)]; dup {
			continue
		}
		combined = append(combined, h)
	}

	if len(combined) == 0 {
		return llmResults
	}
	return combined
}

func (a *HotelAgent) searchLLM(ctx context.Context, req *model.TripRequest) ([]model.HotelOption, error) {
	nights := req.Nights()
	budget := req.HotelBudget()

	var b strings.Builder
	if nights > 0 {
		fmt.Fprintf(&b, "Find lodging in %s for %d nights. ", req.Destination, nights)
	} else {
		fmt.Fprintf(&b, "Find lodging in %s for several nights. ", req.Destination)
	}
	fmt.Fprintf(&b, "Travelers: %d.", req.Travelers)
	if req.LodgingType != "" {
		fmt.Fprintf(&b, " Lodging type: %s.", req.LodgingType)
	}
	if len(req.PreferredHotelBrands) > 0 {
		fmt.Fprintf(&b, " Preferred brands: %s.", strings.Join(req.PreferredHotelBrands, ", "))
	}
	if budget > 0 {
		perNight := budget
		if nights > 0 {
			perNight = budget / float64(nights)
		}
		fmt.Fprintf(&b, " Lodging budget: $%.0f total ($%.0f/night max).", budget, perNight)
	}
	if notes := priorityNotes(req); notes != "" {
		fmt.Fprintf(&b, " Budget philosophy: %s", notes)
	}
	if len(req.Interests) > 0 {
		fmt.Fprintf(&b, " Interests: %s.", strings.Join(req.Interests, ", "))
	}

	var options []model.HotelOption
	if err := a.LLM.CompleteJSON(ctx, hotelFallbackPrompt, b.String(), 0, &options); err != nil {
		return nil, fmt.Errorf("hotel agent: %w", err)
	}
	return options, nil
}
