package agents

import (
	"context"
	"fmt"

	"github.com/voyagerhq/voyager/travel/core/llm"
	"github.com/voyagerhq/voyager/travel/model"
)

const destinationEnrichPrompt = `You are a travel destination expert. Given partial destination info and a traveler's origin,
fill in the missing fields. Return a JSON object with this structure:
{
  "country": "Japan",
  "city": "Tokyo",
  "currency": "Japanese Yen (JPY)",
  "currency_symbol": "¥",
  "language": "Japanese",
  "timezone": "JST (UTC+9)",
  "visa_info": "US citizens can enter Japan visa-free for up to 90 days for tourism.",
  "useful_tips": ["Tip 1", "Tip 2", "Tip 3", "Tip 4"],
  "emergency_number": "110 (police), 119 (fire/ambulance)"
}
Provide 4-6 useful tips covering etiquette, transportation, money, and safety.
Visa info should be specific to the traveler's origin country.`

const destinationFullPrompt = `You are a travel destination expert. Given a destination and traveler's origin,
provide comprehensive practical destination information.
Return a JSON object with this structure:
{
  "country": "Japan",
  "city": "Tokyo",
  "currency": "Japanese Yen (JPY)",
  "currency_symbol": "¥",
  "language": "Japanese",
  "timezone": "JST (UTC+9)",
  "visa_info": "US citizens can enter Japan visa-free for up to 90 days for tourism.",
  "useful_tips": ["Tip 1", "Tip 2", "Tip 3", "Tip 4"],
  "emergency_number": "110 (police), 119 (fire/ambulance)"
}
Provide 4-6 useful tips covering etiquette, transportation, money, and safety.
Visa info should be specific to the traveler's origin country.`

// DestinationAgent gathers practical destination facts. The country lookup
// supplies currency/language/timezone when it resolves; the LLM adds the
// advisory fields, or supplies everything when the lookup misses.
type DestinationAgent struct {
	LLM llm.Provider
	API CountryLookup
}

// Run returns destination info for the request.
func (a *DestinationAgent) Run(ctx context.Context, req *model.TripRequest) (*model.DestinationInfo, error) {
	var base *model.DestinationInfo
	if a.API != nil {
		// The destination name doubles as the country query; city-level
		// names miss and fall through to the full LLM path.
		info, err := a.API.Lookup(ctx, req.Destination, req.Destination)
		if err == nil && info != nil {
			base = info
		}
	}

	if base != nil {
		return a.enrich(ctx, base, req)
	}
	return a.fetchLLM(ctx, req)
}

func (a *DestinationAgent) enrich(ctx context.Context, base *model.DestinationInfo, req *model.TripRequest) (*model.DestinationInfo, error) {
	userMsg := fmt.Sprintf(
		"Destination: %s. Traveler coming from: %s. Existing info: country=%s, currency=%s, language=%s, timezone=%s. "+
			"Please provide visa_info, useful_tips, and emergency_number. Keep the existing fields but fix them if they seem wrong.",
		req.Destination, req.Origin, base.Country, base.Currency, base.Language, base.Timezone,
	)

	var info model.DestinationInfo
	if err := a.LLM.CompleteJSON(ctx, destinationEnrichPrompt, userMsg, 0, &info); err != nil {
		return nil, fmt.Errorf("destination agent: %w", err)
	}
	return &info, nil
}

func (a *DestinationAgent) fetchLLM(ctx context.Context, req *model.TripRequest) (*model.DestinationInfo, error) {
	userMsg := fmt.Sprintf("Destination info for %s. Traveler is coming from %s.", req.Destination, req.Origin)

	var info model.DestinationInfo
	if err := a.LLM.CompleteJSON(ctx, destinationFullPrompt, userMsg, 0, &info); err != nil {
		return nil, fmt.Errorf("destination agent: %w", err)
	}
	return &info, nil
}
