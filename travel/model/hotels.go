package model

// HotelOption is one priced lodging result. City/date/night tagging is filled
// in by the orchestrator when the search was scoped to a multi-city segment.
type HotelOption struct {
	Name               string   `json:"name"`
	Address            string   `json:"address"`
	City               string   `json:"city,omitempty"`
	CheckIn            string   `json:"check_in,omitempty"`
	CheckOut           string   `json:"check_out,omitempty"`
	Nights             int      `json:"nights,omitempty"`
	Rating             float64  `json:"rating,omitempty"`
	PricePerNightUSD   float64  `json:"price_per_night_usd"`
	TotalPriceUSD      float64  `json:"total_price_usd"`
	Amenities          []string `json:"amenities,omitempty"`
	BookingURL         string   `json:"booking_url,omitempty"`
	DistanceToCenterKm float64  `json:"distance_to_center_km,omitempty"`
}

// CityHotels groups hotel options for one city of a multi-city trip.
type CityHotels struct {
	City     string        `json:"city"`
	CityCode string        `json:"city_code"`
	CheckIn  Date          `json:"check_in"`
	CheckOut Date          `json:"check_out"`
	Nights   int           `json:"nights"`
	Options  []HotelOption `json:"options"`
}
