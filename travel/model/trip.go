package model

import (
	"errors"
	"fmt"
)

// Trip types.
const (
	TripTypeRoundTrip = "round_trip"
	TripTypeOneWay    = "one_way"
)

// CityStay is one leg of a multi-city trip: either an overnight stay or a
// same-day side trip from an overnight base.
type CityStay struct {
	City      string `json:"city"`
	CityCode  string `json:"city_code"` // nearest IATA airport/station code
	CheckIn   Date   `json:"check_in"`
	CheckOut  Date   `json:"check_out"`
	Nights    int    `json:"nights"` // 0 for day trips
	IsDayTrip bool   `json:"is_day_trip"`
}

// PreBookedFlight is a flight the traveler already purchased. It bypasses
// search and enters the plan as a fixed cost.
type PreBookedFlight struct {
	Airline             string  `json:"airline"`
	DepartureAirport    string  `json:"departure_airport"`
	ArrivalAirport      string  `json:"arrival_airport"`
	DepartureDate       Date    `json:"departure_date"`
	DepartureTime       string  `json:"departure_time,omitempty"` // "14:30" or empty
	ReturnDate          Date    `json:"return_date,omitempty"`
	ReturnDepartureTime string  `json:"return_departure_time,omitempty"`
	PricePaidUSD        float64 `json:"price_paid_usd,omitempty"`
	Notes               string  `json:"notes,omitempty"`
}

// PreBookedHotel is a hotel the traveler already purchased.
type PreBookedHotel struct {
	Name             string  `json:"name"`
	City             string  `json:"city,omitempty"`
	CheckIn          Date    `json:"check_in"`
	CheckOut         Date    `json:"check_out"`
	PricePerNightUSD float64 `json:"price_per_night_usd,omitempty"`
	TotalPriceUSD    float64 `json:"total_price_usd,omitempty"`
	Notes            string  `json:"notes,omitempty"`
}

// BudgetAllocation captures how the traveler wants total spend distributed.
// Category caps are independently optional; zero means "no cap given".
type BudgetAllocation struct {
	TotalUSD         float64  `json:"total_usd"`
	FlightsMaxUSD    *float64 `json:"flights_max_usd,omitempty"`
	HotelsMaxUSD     *float64 `json:"hotels_max_usd,omitempty"`
	ActivitiesMaxUSD *float64 `json:"activities_max_usd,omitempty"`
	FoodMaxUSD       *float64 `json:"food_max_usd,omitempty"`
	PriorityNotes    string   `json:"priority_notes,omitempty"` // e.g. "splurge on food, save on hotels"
}

// TripRequest is the validated structured trip request produced once per
// planning session by the parser and immutable thereafter.
type TripRequest struct {
	Origin               string            `json:"origin"`
	OriginCode           string            `json:"origin_code"` // IATA code
	Destination          string            `json:"destination"`
	DestinationCode      string            `json:"destination_code"`
	DepartureDate        Date              `json:"departure_date"`
	ReturnDate           Date              `json:"return_date,omitempty"`
	Travelers            int               `json:"travelers"`
	BudgetUSD            float64           `json:"budget_usd,omitempty"`
	BudgetAllocation     *BudgetAllocation `json:"budget_allocation,omitempty"`
	Interests            []string          `json:"interests,omitempty"`
	Preferences          string            `json:"preferences,omitempty"`
	PreferredAirlines    []string          `json:"preferred_airlines,omitempty"`
	TripType             string            `json:"trip_type"`
	LodgingType          string            `json:"lodging_type,omitempty"`
	PreferredHotelBrands []string          `json:"preferred_hotel_brands,omitempty"`
	TransitPreferences   string            `json:"transit_preferences,omitempty"`
	CityStays            []CityStay        `json:"city_stays,omitempty"`
	PreBookedFlights     []PreBookedFlight `json:"prebooked_flights,omitempty"`
	PreBookedHotels      []PreBookedHotel  `json:"prebooked_hotels,omitempty"`
}

// Nights returns the total trip nights, or 0 for one-way/undated trips.
func (r *TripRequest) Nights() int {
	if r.ReturnDate.IsZero() {
		return 0
	}
	return r.DepartureDate.DaysUntil(r.ReturnDate)
}

// OvernightStays returns the city stays that involve a hotel night.
func (r *TripRequest) OvernightStays() []CityStay {
	var out []CityStay
	for _, cs := range r.CityStays {
		if !cs.IsDayTrip {
			out = append(out, cs)
		}
	}
	return out
}

// IsMultiCity reports whether the trip spans more than one overnight city.
func (r *TripRequest) IsMultiCity() bool {
	return len(r.OvernightStays()) > 0
}

// HotelBudget returns the hotel category cap, or 0 when none is set.
func (r *TripRequest) HotelBudget() float64 {
	if r.BudgetAllocation != nil && r.BudgetAllocation.HotelsMaxUSD != nil {
		return *r.BudgetAllocation.HotelsMaxUSD
	}
	return 0
}

// Validate enforces the structural invariants the orchestrator relies on.
// It does not second-guess parser content, only shape.
func (r *TripRequest) Validate() error {
	if r.Origin == "" || r.Destination == "" {
		return errors.New("trip request missing origin or destination")
	}
	if r.OriginCode == "" || r.DestinationCode == "" {
		return errors.New("trip request missing origin or destination code")
	}
	if r.DepartureDate.IsZero() {
		return errors.New("trip request missing departure date")
	}
	if r.Travelers < 1 {
		return errors.New("trip request must have at least one traveler")
	}
	if r.TripType != TripTypeRoundTrip && r.TripType != TripTypeOneWay {
		return fmt.Errorf("invalid trip type %q", r.TripType)
	}
	if r.TripType == TripTypeRoundTrip && r.ReturnDate.IsZero() {
		return errors.New("round-trip request missing return date")
	}
	if !r.ReturnDate.IsZero() && r.ReturnDate.Before(r.DepartureDate) {
		return errors.New("return date precedes departure date")
	}
	return r.validateCityStays()
}

// validateCityStays checks that overnight nights sum to the total trip nights
// and that sequential stays are contiguous (one's check-out is the next's
// check-in). Day-trip segments are excluded from both checks.
func (r *TripRequest) validateCityStays() error {
	overnight := r.OvernightStays()
	if len(overnight) == 0 {
		return nil
	}

	totalNights := 0
	for _, cs := range overnight {
		if cs.CheckIn.IsZero() || cs.CheckOut.IsZero() {
			return fmt.Errorf("city stay %q missing check-in/check-out dates", cs.City)
		}
		if cs.Nights != cs.CheckIn.DaysUntil(cs.CheckOut) {
			return fmt.Errorf("city stay %q nights (%d) does not match its date range", cs.City, cs.Nights)
		}
		totalNights += cs.Nights
	}
	if tripNights := r.Nights(); tripNights > 0 && totalNights != tripNights {
		return fmt.Errorf("city stay nights (%d) do not sum to trip nights (%d)", totalNights, tripNights)
	}
	for i := 1; i < len(overnight); i++ {
		if !overnight[i-1].CheckOut.Equal(overnight[i].CheckIn) {
			return fmt.Errorf("city stays %q and %q are not contiguous", overnight[i-1].City, overnight[i].City)
		}
	}
	return nil
}
