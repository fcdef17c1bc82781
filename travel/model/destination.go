package model

// DestinationInfo holds practical facts about the destination. The factual
// fields (currency/language/timezone) may come from a country lookup; the
// advisory fields (visa/tips/emergency) are LLM-supplied.
type DestinationInfo struct {
	Country         string   `json:"country"`
	City            string   `json:"city"`
	Currency        string   `json:"currency"`
	CurrencySymbol  string   `json:"currency_symbol"`
	Language        string   `json:"language"`
	Timezone        string   `json:"timezone"`
	VisaInfo        string   `json:"visa_info"`
	UsefulTips      []string `json:"useful_tips,omitempty"`
	EmergencyNumber string   `json:"emergency_number,omitempty"`
}
