package orchestrator

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagerhq/voyager/travel/model"
)

func baseItinerary() *model.Itinerary {
	return &model.Itinerary{
		Title:       "5 Days in Tokyo",
		Destination: "Tokyo",
		Days: []model.DayPlan{{
			Number:    2,
			Title:     "Museums",
			Afternoon: "Tokyo National Museum",
		}},
		BudgetBreakdown: map[string]float64{"activities": 300},
	}
}

const suggestionSetJSON = `{
	"target_description": "Day 2 afternoon",
	"day_number": 2,
	"time_slot": "afternoon",
	"suggestions": [
		{"id": 1, "name": "teamLab Planets", "description": "Digital art museum", "estimated_cost_usd": 30},
		{"id": 2, "name": "Sumo practice viewing", "description": "Morning stable visit", "estimated_cost_usd": 0},
		{"id": 3, "name": "Kappabashi Street", "description": "Kitchen town browsing", "estimated_cost_usd": 0}
	]
}`

func TestClassifyRefinement_KeywordFastPath(t *testing.T) {
	// No classifier script registered: a provider call would error out and
	// default to direct, so suggest here proves the keyword path short-circuits.
	orch := testOrchestrator(newScriptedLLM())

	mode := orch.ClassifyRefinement(context.Background(), "What else could we do on day 2?")
	assert.Equal(t, ModeSuggest, mode)
}

func TestClassifyRefinement_LLMPath(t *testing.T) {
	provider := newScriptedLLM().on(classifyRefinementPrompt, `{"mode": "suggest"}`)
	orch := testOrchestrator(provider)

	mode := orch.ClassifyRefinement(context.Background(), "day 2 feels off somehow")
	assert.Equal(t, ModeSuggest, mode)
	require.Len(t, provider.requests(classifyRefinementPrompt), 1)
}

func TestClassifyRefinement_FailureDefaultsToDirect(t *testing.T) {
	provider := newScriptedLLM().failOn(classifyRefinementPrompt, fmt.Errorf("down"))
	orch := testOrchestrator(provider)

	mode := orch.ClassifyRefinement(context.Background(), "day 2 feels off somehow")
	assert.Equal(t, ModeDirect, mode)
}

func TestRefineItinerary_KeepsOmittedFields(t *testing.T) {
	provider := newScriptedLLM().on(refineSystemPrompt, `{
		"days": [{"number": 2, "title": "Art day", "afternoon": "teamLab Planets"}]
	}`)
	orch := testOrchestrator(provider)

	current := baseItinerary()
	next, err := orch.RefineItinerary(context.Background(), current, "swap the museum for something interactive")
	require.NoError(t, err)
	assert.Equal(t, "Art day", next.Days[0].Title)
	assert.Equal(t, "5 Days in Tokyo", next.Title, "omitted fields carry over")
	assert.Equal(t, "Museums", current.Days[0].Title, "input itinerary is not mutated")

	msgs := provider.requests(refineSystemPrompt)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "Tokyo National Museum")
	assert.Contains(t, msgs[0], "User request: swap the museum")
}

func TestSuggestAlternatives_NormalizesCandidates(t *testing.T) {
	provider := newScriptedLLM().on(suggestSystemPrompt, `{
		"target_description": "Day 2 afternoon",
		"day_number": 2,
		"time_slot": "afternoon",
		"suggestions": [
			{"id": 7, "name": "First"},
			{"id": 8, "name": "Second"},
			{"id": 9, "name": "Third"},
			{"id": 10, "name": "Fourth"}
		]
	}`)
	orch := testOrchestrator(provider)

	set, err := orch.SuggestAlternatives(context.Background(), baseItinerary(), "what else is there")
	require.NoError(t, err)
	require.Len(t, set.Suggestions, 3, "oversized sets trim to three")
	for i, s := range set.Suggestions {
		assert.Equal(t, i+1, s.ID, "ids are positional per set")
	}
	assert.Equal(t, "First", set.Suggestions[0].Name)

	chosen := set.Choose(2)
	require.NotNil(t, chosen)
	assert.Equal(t, "Second", chosen.Name, "choices resolve against the renumbered ids")
}

func TestSuggestAlternatives_EmptySetIsAnError(t *testing.T) {
	provider := newScriptedLLM().on(suggestSystemPrompt, `{"suggestions": []}`)
	orch := testOrchestrator(provider)

	_, err := orch.SuggestAlternatives(context.Background(), baseItinerary(), "what else is there")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestSession_SuggestThenChoose(t *testing.T) {
	provider := newScriptedLLM().
		on(suggestSystemPrompt, suggestionSetJSON).
		on(refineSystemPrompt, `{"days": [{"number": 2, "title": "Art day", "afternoon": "teamLab Planets"}]}`)
	session := NewRefinementSession(testOrchestrator(provider), baseItinerary())

	reply, err := session.Handle(context.Background(), "what else could we do that afternoon")
	require.NoError(t, err)
	require.NotNil(t, reply.Suggestions)
	assert.Len(t, reply.Suggestions.Suggestions, 3)
	assert.Equal(t, StateAwaitingChoice, session.State())
	assert.False(t, reply.Updated)

	reply, err = session.Handle(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, reply.Updated)
	assert.Equal(t, "Swapped in teamLab Planets.", reply.Message)
	assert.Equal(t, StateIdle, session.State())
	assert.Equal(t, "Art day", session.Itinerary().Days[0].Title)

	// The applied directive names the chosen candidate and its slot.
	msgs := provider.requests(refineSystemPrompt)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "Replace the afternoon activity on Day 2 with: teamLab Planets")
}

func TestSession_MoreRegeneratesFromOriginalRequest(t *testing.T) {
	provider := newScriptedLLM().on(suggestSystemPrompt, suggestionSetJSON)
	session := NewRefinementSession(testOrchestrator(provider), baseItinerary())

	_, err := session.Handle(context.Background(), "suggest something for day 2")
	require.NoError(t, err)

	reply, err := session.Handle(context.Background(), "more")
	require.NoError(t, err)
	require.NotNil(t, reply.Suggestions)
	assert.Equal(t, StateAwaitingChoice, session.State())

	msgs := provider.requests(suggestSystemPrompt)
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1], "User request: suggest something for day 2",
		"regeneration reuses the original request, not the word \"more\"")
}

func TestSession_Skip(t *testing.T) {
	provider := newScriptedLLM().on(suggestSystemPrompt, suggestionSetJSON)
	session := NewRefinementSession(testOrchestrator(provider), baseItinerary())

	_, err := session.Handle(context.Background(), "any other ideas for day 2?")
	require.NoError(t, err)

	reply, err := session.Handle(context.Background(), "skip")
	require.NoError(t, err)
	assert.False(t, reply.Updated)
	assert.Equal(t, StateIdle, session.State())
	assert.Equal(t, "Museums", session.Itinerary().Days[0].Title)
}

func TestSession_OutOfRangeNumberDiscardsPending(t *testing.T) {
	provider := newScriptedLLM().
		on(suggestSystemPrompt, suggestionSetJSON).
		on(refineSystemPrompt, `{"title": "Tokyo, Take Two"}`)
	session := NewRefinementSession(testOrchestrator(provider), baseItinerary())

	_, err := session.Handle(context.Background(), "what are my options for day 2")
	require.NoError(t, err)

	// "7" is not a valid pick, so it is treated like any other fresh input:
	// the pending set is dropped and the text is classified from scratch.
	reply, err := session.Handle(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, StateIdle, session.State(), "a bad pick discards the set")
	assert.True(t, reply.Updated)

	msgs := provider.requests(refineSystemPrompt)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "User request: 7")
}

func TestSession_OtherInputAbandonsPending(t *testing.T) {
	provider := newScriptedLLM().
		on(suggestSystemPrompt, suggestionSetJSON).
		on(refineSystemPrompt, `{"title": "Cheaper Tokyo"}`)
	session := NewRefinementSession(testOrchestrator(provider), baseItinerary())

	_, err := session.Handle(context.Background(), "recommendations for day 2?")
	require.NoError(t, err)

	reply, err := session.Handle(context.Background(), "actually just make day 3 cheaper")
	require.NoError(t, err)
	assert.True(t, reply.Updated)
	assert.Equal(t, StateIdle, session.State())
	assert.Equal(t, "Cheaper Tokyo", session.Itinerary().Title)
}

func TestSession_EmptyInput(t *testing.T) {
	session := NewRefinementSession(testOrchestrator(newScriptedLLM()), baseItinerary())
	reply, err := session.Handle(context.Background(), "   ")
	require.NoError(t, err)
	assert.False(t, reply.Updated)
	assert.Equal(t, StateIdle, session.State())
}
