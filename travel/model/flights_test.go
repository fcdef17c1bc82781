package model

import "testing"

func roundTripOption() FlightOption {
	return FlightOption{
		Legs: []FlightLeg{
			{DepartureAirport: "SFO", ArrivalAirport: "NRT", Airline: "United Airlines"},
			{DepartureAirport: "NRT", ArrivalAirport: "SFO", Airline: "ANA"},
		},
		TotalPriceUSD:    1700,
		OutboundLegCount: 1,
		Travelers:        2,
	}
}

func TestFlightRoutes(t *testing.T) {
	f := roundTripOption()
	if got := f.Route(); got != "SFO -> NRT -> SFO" {
		t.Errorf("Route() = %q", got)
	}
	if got := f.OutboundRoute(); got != "SFO -> NRT" {
		t.Errorf("OutboundRoute() = %q", got)
	}
	if got := f.ReturnRoute(); got != "NRT -> SFO" {
		t.Errorf("ReturnRoute() = %q", got)
	}
}

func TestFlightRoutes_OneWay(t *testing.T) {
	f := FlightOption{
		Legs: []FlightLeg{
			{DepartureAirport: "SFO", ArrivalAirport: "DEN", Airline: "United"},
			{DepartureAirport: "DEN", ArrivalAirport: "JFK", Airline: "United"},
		},
		OutboundLegCount: 2,
	}
	if got := f.OutboundRoute(); got != "SFO -> DEN -> JFK" {
		t.Errorf("OutboundRoute() = %q", got)
	}
	if got := f.ReturnRoute(); got != "" {
		t.Errorf("ReturnRoute() = %q, want empty for one-way", got)
	}
}

func TestPricePerPersonUSD(t *testing.T) {
	f := roundTripOption()
	if got := f.PricePerPersonUSD(); got != 850 {
		t.Errorf("PricePerPersonUSD() = %v, want 850", got)
	}

	f.Travelers = 0
	if got := f.PricePerPersonUSD(); got != 1700 {
		t.Errorf("PricePerPersonUSD() with zero travelers = %v, want total", got)
	}
}

func TestAirlines(t *testing.T) {
	f := roundTripOption()
	if got := f.OutboundAirlines(); got != "United Airlines" {
		t.Errorf("OutboundAirlines() = %q", got)
	}
	if got := f.ReturnAirlines(); got != "ANA" {
		t.Errorf("ReturnAirlines() = %q", got)
	}
}

func TestDisplayHelpers(t *testing.T) {
	if got := DurationDisplay(690); got != "11h 30m" {
		t.Errorf("DurationDisplay(690) = %q", got)
	}
	if got := PriceDisplay(1700); got != "$1,700" {
		t.Errorf("PriceDisplay(1700) = %q", got)
	}
	if got := PriceDisplay(950); got != "$950" {
		t.Errorf("PriceDisplay(950) = %q", got)
	}
	if got := PriceDisplay(1234567); got != "$1,234,567" {
		t.Errorf("PriceDisplay(1234567) = %q", got)
	}
}

func TestSuggestionChoose(t *testing.T) {
	set := SuggestionSet{Suggestions: []Suggestion{
		{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 3, Name: "c"},
	}}
	if got := set.Choose(2); got == nil || got.Name != "b" {
		t.Errorf("Choose(2) = %+v", got)
	}
	if got := set.Choose(4); got != nil {
		t.Errorf("Choose(4) = %+v, want nil", got)
	}
}
