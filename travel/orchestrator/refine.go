package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/voyagerhq/voyager/travel/core/llm"
	"github.com/voyagerhq/voyager/travel/model"
)

// Refinement modes.
const (
	ModeDirect  = "direct"
	ModeSuggest = "suggest"
)

// maxSuggestions is the candidate count per suggestion set; ids are always
// 1..maxSuggestions.
const maxSuggestions = 3

// suggestPatterns are substrings that clearly signal suggestion intent.
// Matching any of them skips the LLM classifier.
var suggestPatterns = []string{
	"what else", "alternatives", "options", "suggest", "not sure what",
	"don't want to do", "don't like", "not feeling", "what are my",
	"other ideas", "something else", "any other", "recommendations",
}

// ClassifyRefinement returns ModeDirect or ModeSuggest for a free-text
// modification request. Classification never blocks refinement: classifier
// failures fall back to ModeDirect.
func (o *Orchestrator) ClassifyRefinement(ctx context.Context, userRequest string) string {
	lower := strings.ToLower(userRequest)
	for _, pattern := range suggestPatterns {
		if strings.Contains(lower, pattern) {
			return ModeSuggest
		}
	}

	provider, err := o.router.Provider(llm.TaskPlanning)
	if err != nil {
		return ModeDirect
	}
	var result struct {
		Mode string `json:"mode"`
	}
	if err := provider.CompleteJSON(ctx, classifyRefinementPrompt, "User message: "+userRequest, 0, &result); err != nil {
		slog.Debug("orchestrator: classify failed, defaulting to direct", "error", err)
		return ModeDirect
	}
	if result.Mode == ModeSuggest {
		return ModeSuggest
	}
	return ModeDirect
}

// refinedPlan is the decode target for refinement responses. Fields the
// model omits fall back to the current itinerary's values.
type refinedPlan struct {
	Title              string             `json:"title"`
	Destination        string             `json:"destination"`
	DateRange          string             `json:"date_range"`
	DestinationSummary string             `json:"destination_summary"`
	Days               []model.DayPlan    `json:"days"`
	BudgetBreakdown    map[string]float64 `json:"budget_breakdown"`
	PracticalTips      []string           `json:"practical_tips"`
}

// RefineItinerary applies a modification request to an itinerary, returning
// a new itinerary. Search results and forecasts are carried over untouched;
// only the narrative plan is regenerated.
func (o *Orchestrator) RefineItinerary(ctx context.Context, current *model.Itinerary, userRequest string) (*model.Itinerary, error) {
	writer, err := o.router.Provider(llm.TaskWriting)
	if err != nil {
		return nil, err
	}

	userMsg, err := refinementMessage(current, userRequest)
	if err != nil {
		return nil, err
	}

	var plan refinedPlan
	if err := writer.CompleteJSON(ctx, refineSystemPrompt, userMsg, assembleMaxTokens, &plan); err != nil {
		return nil, errors.Wrap(err, "refine itinerary")
	}

	next := *current
	if plan.Title != "" {
		next.Title = plan.Title
	}
	if plan.Destination != "" {
		next.Destination = plan.Destination
	}
	if plan.DateRange != "" {
		next.DateRange = plan.DateRange
	}
	if plan.DestinationSummary != "" {
		next.DestinationSummary = plan.DestinationSummary
	}
	if len(plan.Days) > 0 {
		next.Days = plan.Days
	}
	if len(plan.BudgetBreakdown) > 0 {
		next.BudgetBreakdown = plan.BudgetBreakdown
	}
	if len(plan.PracticalTips) > 0 {
		next.PracticalTips = plan.PracticalTips
	}
	return &next, nil
}

// SuggestAlternatives returns candidate replacements for the part of the
// itinerary the request targets: at most maxSuggestions, ids renumbered
// positionally from 1.
func (o *Orchestrator) SuggestAlternatives(ctx context.Context, current *model.Itinerary, userRequest string) (*model.SuggestionSet, error) {
	writer, err := o.router.Provider(llm.TaskWriting)
	if err != nil {
		return nil, err
	}

	userMsg, err := refinementMessage(current, userRequest)
	if err != nil {
		return nil, err
	}

	var set model.SuggestionSet
	if err := writer.CompleteJSON(ctx, suggestSystemPrompt, userMsg, 0, &set); err != nil {
		return nil, errors.Wrap(err, "suggest alternatives")
	}
	if len(set.Suggestions) == 0 {
		return nil, errors.New("suggest alternatives: no candidates returned")
	}
	// The model does not always number candidates the way the session
	// expects. Ids are positional per set, so trim and renumber here rather
	// than trusting whatever arrived.
	if len(set.Suggestions) > maxSuggestions {
		set.Suggestions = set.Suggestions[:maxSuggestions]
	}
	for i := range set.Suggestions {
		set.Suggestions[i].ID = i + 1
	}
	set.OriginalRequest = userRequest
	return &set, nil
}

// ApplySuggestion folds a chosen candidate into the itinerary by synthesizing
// a direct refinement directive.
func (o *Orchestrator) ApplySuggestion(ctx context.Context, current *model.Itinerary, suggestion model.Suggestion, dayNumber int, timeSlot string) (*model.Itinerary, error) {
	directive := fmt.Sprintf(
		"Replace the %s activity on Day %d with: %s - %s. Estimated cost: $%.0f.",
		timeSlot, dayNumber, suggestion.Name, suggestion.Description, suggestion.EstimatedCostUSD,
	)
	return o.RefineItinerary(ctx, current, directive)
}

// refinementMessage serializes the editable view of the itinerary plus the
// user's request. Weather and raw activity lists are omitted; they are not
// subject to refinement.
func refinementMessage(current *model.Itinerary, userRequest string) (string, error) {
	byCity := make([]map[string]any, 0, len(current.HotelsByCity))
	for _, ch := range current.HotelsByCity {
		byCity = append(byCity, map[string]any{
			"city":    ch.City,
			"nights":  ch.Nights,
			"options": ch.Options,
		})
	}

	view := map[string]any{
		"title":               current.Title,
		"destination":         current.Destination,
		"date_range":          current.DateRange,
		"destination_summary": current.DestinationSummary,
		"flights":             current.Flights,
		"hotels":              current.Hotels,
		"hotels_by_city":      byCity,
		"days":                current.Days,
		"budget_breakdown":    current.BudgetBreakdown,
		"practical_tips":      current.PracticalTips,
	}
	payload, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "marshal itinerary")
	}
	return fmt.Sprintf("Current itinerary:\n%s\n\nUser request: %s", payload, userRequest), nil
}
