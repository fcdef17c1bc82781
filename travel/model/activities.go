package model

// Activity is one suggested attraction, restaurant, or experience.
type Activity struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"` // "temple", "restaurant", "museum", ...
	Description   string  `json:"description"`
	Rating        float64 `json:"rating,omitempty"`
	PriceLevel    string  `json:"price_level,omitempty"` // "$", "$$", "$$$", "$$$$"
	DurationHours float64 `json:"duration_hours,omitempty"`
	Address       string  `json:"address,omitempty"`
	URL           string  `json:"url,omitempty"`
}
