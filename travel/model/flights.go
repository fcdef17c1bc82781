package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// FlightLeg is a single flight segment.
type FlightLeg struct {
	DepartureAirport string    `json:"departure_airport"`
	ArrivalAirport   string    `json:"arrival_airport"`
	DepartureTime    time.Time `json:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time"`
	Airline          string    `json:"airline"`
	FlightNumber     string    `json:"flight_number"`
	DurationMinutes  int       `json:"duration_minutes"`
}

// FlightOption is one priced flight offer, possibly multi-leg. Outbound legs
// come first; OutboundLegCount marks where the return legs start. For one-way
// trips the return fields are nil.
type FlightOption struct {
	Legs                    []FlightLeg `json:"legs"`
	TotalPriceUSD           float64     `json:"total_price_usd"`
	Currency                string      `json:"currency"`
	Stops                   int         `json:"stops"`
	TotalDurationMinutes    int         `json:"total_duration_minutes"`
	OutboundDurationMinutes *int        `json:"outbound_duration_minutes,omitempty"`
	ReturnDurationMinutes   *int        `json:"return_duration_minutes,omitempty"`
	OutboundStops           *int        `json:"outbound_stops,omitempty"`
	ReturnStops             *int        `json:"return_stops,omitempty"`
	OutboundLegCount        int         `json:"outbound_leg_count,omitempty"`
	Travelers               int         `json:"travelers"`
	BookingURL              string      `json:"booking_url,omitempty"`
}

// PricePerPersonUSD divides the total price across travelers.
func (f *FlightOption) PricePerPersonUSD() float64 {
	if f.Travelers > 0 {
		return f.TotalPriceUSD / float64(f.Travelers)
	}
	return f.TotalPriceUSD
}

// Route renders the full airport chain, e.g. "SFO -> NRT -> SFO".
func (f *FlightOption) Route() string {
	return legsRoute(f.Legs)
}

// OutboundRoute renders the outbound airport chain.
func (f *FlightOption) OutboundRoute() string {
	if f.OutboundLegCount <= 0 || f.OutboundLegCount > len(f.Legs) {
		return f.Route()
	}
	return legsRoute(f.Legs[:f.OutboundLegCount])
}

// ReturnRoute renders the return airport chain, or "" for one-way options.
func (f *FlightOption) ReturnRoute() string {
	if f.OutboundLegCount <= 0 || f.OutboundLegCount >= len(f.Legs) {
		return ""
	}
	return legsRoute(f.Legs[f.OutboundLegCount:])
}

// OutboundAirlines lists the distinct carriers on the outbound legs.
func (f *FlightOption) OutboundAirlines() string {
	legs := f.Legs
	if f.OutboundLegCount > 0 && f.OutboundLegCount <= len(f.Legs) {
		legs = f.Legs[:f.OutboundLegCount]
	}
	return distinctAirlines(legs)
}

// ReturnAirlines lists the distinct carriers on the return legs.
func (f *FlightOption) ReturnAirlines() string {
	if f.OutboundLegCount <= 0 || f.OutboundLegCount >= len(f.Legs) {
		return ""
	}
	return distinctAirlines(f.Legs[f.OutboundLegCount:])
}

// DurationDisplay renders minutes as "11h 30m".
func DurationDisplay(minutes int) string {
	hours, mins := minutes/60, minutes%60
	return fmt.Sprintf("%dh %dm", hours, mins)
}

// PriceDisplay renders a USD amount as "$1,700".
func PriceDisplay(amount float64) string {
	s := fmt.Sprintf("%.0f", amount)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return "$" + s
}

func legsRoute(legs []FlightLeg) string {
	if len(legs) == 0 {
		return ""
	}
	codes := make([]string, 0, len(legs)+1)
	for _, leg := range legs {
		codes = append(codes, leg.DepartureAirport)
	}
	codes = append(codes, legs[len(legs)-1].ArrivalAirport)
	return strings.Join(codes, " -> ")
}

func distinctAirlines(legs []FlightLeg) string {
	seen := make(map[string]struct{}, len(legs))
	var airlines []string
	for _, leg := range legs {
		if _, ok := seen[leg.Airline]; !ok {
			seen[leg.Airline] = struct{}{}
			airlines = append(airlines, leg.Airline)
		}
	}
	sort.Strings(airlines)
	return strings.Join(airlines, ", ")
}
