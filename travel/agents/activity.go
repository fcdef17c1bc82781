package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/voyagerhq/voyager/travel/core/llm"
	"github.com/voyagerhq/voyager/travel/model"
)

const activityFallbackPrompt = `You are a travel activities expert. Given trip details and budget constraints, suggest activities and attractions.
Return a JSON array of 8-12 activities. Each activity has this structure:
{
  "name": "Activity Name",
  "category": "temple",
  "description": "Brief description of the activity",
  "rating": 4.7,
  "price_level": "$$",
  "duration_hours": 2.0,
  "address": "Address if known",
  "url": null
}
Categories include: temple, museum, restaurant, park, market, tour, nightlife, beach, etc.
Tailor suggestions to the traveler's interests and budget priorities.
If an activities budget is specified, suggest a mix that fits within that budget.
Include free/cheap options alongside paid ones. Price levels: "$" (under $20), "$$" ($20-50), "$$$" ($50-100), "$$$$" ($100+).`

// ActivityAgent finds activities and attractions for the destination.
type ActivityAgent struct {
	LLM llm.Provider
	API ActivitySearcher
}

// Run returns activity suggestions for the request.
func (a *ActivityAgent) Run(ctx context.Context, req *model.TripRequest) ([]model.Activity, error) {
	if a.API != nil {
		results, err := a.API.SearchActivities(ctx, req.Destination, 10)
		if err == nil && len(results) > 0 {
			return results, nil
		}
	}
	return a.searchLLM(ctx, req)
}

func (a *ActivityAgent) searchLLM(ctx context.Context, req *model.TripRequest) ([]model.Activity, error) {
	duration := req.Nights()
	if duration <= 0 {
		duration = 5
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Suggest activities in %s for a %d-day trip. ", req.Destination, duration)
	if budget := activityBudget(req); budget > 0 {
		fmt.Fprintf(&b, "Activities budget: $%.0f total. ", budget)
	}
	if notes := priorityNotes(req); notes != "" {
		fmt.Fprintf(&b, "Budget philosophy: %s. ", notes)
	}
	if len(req.Interests) > 0 {
		fmt.Fprintf(&b, "Interests: %s. ", strings.Join(req.Interests, ", "))
	}
	if req.Preferences != "" {
		fmt.Fprintf(&b, "Preferences: %s.", req.Preferences)
	}

	var items []model.Activity
	if err := a.LLM.CompleteJSON(ctx, activityFallbackPrompt, b.String(), 0, &items); err != nil {
		return nil, fmt.Errorf("activity agent: %w", err)
	}
	return items, nil
}
