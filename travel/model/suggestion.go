package model

// Suggestion is one candidate replacement offered during a suggest flow.
type Suggestion struct {
	ID               int     `json:"id"` // 1-3, regenerated per set
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	EstimatedCostUSD float64 `json:"estimated_cost_usd,omitempty"`
}

// SuggestionSet is the ephemeral state held between a "suggest" classification
// and the user's choice. OriginalRequest is retained so "more" can regenerate
// alternatives without losing the original intent.
type SuggestionSet struct {
	TargetDescription string       `json:"target_description"`
	DayNumber         int          `json:"day_number"`
	TimeSlot          string       `json:"time_slot"` // "morning", "afternoon", "evening"
	Suggestions       []Suggestion `json:"suggestions"`
	OriginalRequest   string       `json:"-"`
}

// Choose returns the candidate with the given 1-based id, or nil.
func (s *SuggestionSet) Choose(id int) *Suggestion {
	for i := range s.Suggestions {
		if s.Suggestions[i].ID == id {
			return &s.Suggestions[i]
		}
	}
	if id >= 1 && id <= len(s.Suggestions) {
		return &s.Suggestions[id-1]
	}
	return nil
}
