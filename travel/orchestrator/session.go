package orchestrator

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/voyagerhq/voyager/travel/model"
)

// Session states.
const (
	StateIdle           = "idle"
	StateAwaitingChoice = "awaiting_choice"
)

// RefinementSession drives the interactive refinement loop over one
// itinerary. It is a two-state machine: Idle accepts free-text modification
// requests; AwaitingChoice holds a pending suggestion set until the user
// picks, asks for more, or skips. Not safe for concurrent use.
type RefinementSession struct {
	orch      *Orchestrator
	itinerary *model.Itinerary
	pending   *model.SuggestionSet
}

// NewRefinementSession starts a session over an assembled itinerary.
func NewRefinementSession(orch *Orchestrator, itinerary *model.Itinerary) *RefinementSession {
	return &RefinementSession{orch: orch, itinerary: itinerary}
}

// Itinerary returns the current itinerary.
func (s *RefinementSession) Itinerary() *model.Itinerary { return s.itinerary }

// State reports the current machine state.
func (s *RefinementSession) State() string {
	if s.pending != nil {
		return StateAwaitingChoice
	}
	return StateIdle
}

// Reply is the session's response to one user input.
type Reply struct {
	Message     string
	Suggestions *model.SuggestionSet // non-nil while a choice is pending
	Updated     bool                 // the itinerary changed this turn
}

// Handle processes one user input and advances the machine.
//
// Idle: classify as direct (refine immediately) or suggest (produce 3
// candidates and await a choice). AwaitingChoice: "skip" discards, "more"
// regenerates candidates from the original request, "1".."3" applies that
// candidate, anything else discards the pending set and re-enters
// classification with the new input.
func (s *RefinementSession) Handle(ctx context.Context, input string) (*Reply, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return &Reply{Message: "Tell me what you'd like to change."}, nil
	}

	if s.pending != nil {
		return s.handleChoice(ctx, input)
	}
	return s.handleRequest(ctx, input)
}

func (s *RefinementSession) handleRequest(ctx context.Context, input string) (*Reply, error) {
	if s.orch.ClassifyRefinement(ctx, input) == ModeSuggest {
		set, err := s.orch.SuggestAlternatives(ctx, s.itinerary, input)
		if err != nil {
			return nil, err
		}
		s.pending = set
		return &Reply{
			Message:     fmt.Sprintf("Here are some alternatives for %s. Pick 1-3, say \"more\" for others, or \"skip\" to keep the current plan.", set.TargetDescription),
			Suggestions: set,
		}, nil
	}

	updated, err := s.orch.RefineItinerary(ctx, s.itinerary, input)
	if err != nil {
		return nil, err
	}
	s.itinerary = updated
	return &Reply{Message: "Updated your itinerary.", Updated: true}, nil
}

func (s *RefinementSession) handleChoice(ctx context.Context, input string) (*Reply, error) {
	switch lower := strings.ToLower(input); lower {
	case "skip":
		s.pending = nil
		return &Reply{Message: "Keeping the current plan."}, nil

	case "more":
		set, err := s.orch.SuggestAlternatives(ctx, s.itinerary, s.pending.OriginalRequest)
		if err != nil {
			return nil, err
		}
		s.pending = set
		return &Reply{
			Message:     "Here are some other options. Pick 1-3, \"more\", or \"skip\".",
			Suggestions: set,
		}, nil
	}

	if id, err := strconv.Atoi(input); err == nil {
		if chosen := s.pending.Choose(id); chosen != nil {
			updated, err := s.orch.ApplySuggestion(ctx, s.itinerary, *chosen, s.pending.DayNumber, s.pending.TimeSlot)
			if err != nil {
				return nil, err
			}
			s.itinerary = updated
			s.pending = nil
			return &Reply{Message: fmt.Sprintf("Swapped in %s.", chosen.Name), Updated: true}, nil
		}
	}

	// Anything else, out-of-range numbers included, abandons the pending
	// set; the new input is a fresh request, never merged with the old
	// intent.
	s.pending = nil
	return s.handleRequest(ctx, input)
}
