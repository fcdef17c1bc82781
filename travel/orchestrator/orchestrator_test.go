package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagerhq/voyager/travel/core/llm"
	"github.com/voyagerhq/voyager/travel/model"
)

// scriptedLLM answers by matching the system prompt against registered
// scripts. Unmatched prompts fail, which keeps tests honest about which
// calls a flow actually makes.
type scriptedLLM struct {
	mu      sync.Mutex
	scripts []script
	seen    map[string][]string // script key -> user messages received
}

type script struct {
	key     string // substring of the system prompt
	content string
	err     error
}

func newScriptedLLM() *scriptedLLM {
	return &scriptedLLM{seen: make(map[string][]string)}
}

func (s *scriptedLLM) on(key, content string) *scriptedLLM {
	s.scripts = append(s.scripts, script{key: key, content: content})
	return s
}

func (s *scriptedLLM) failOn(key string, err error) *scriptedLLM {
	s.scripts = append(s.scripts, script{key: key, err: err})
	return s
}

func (s *scriptedLLM) Name() string { return "scripted" }

func (s *scriptedLLM) Complete(_ context.Context, system, user string, _ int) (*llm.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sc := range s.scripts {
		if strings.Contains(system, sc.key) {
			s.seen[sc.key] = append(s.seen[sc.key], user)
			if sc.err != nil {
				return nil, sc.err
			}
			return &llm.Response{Content: sc.content}, nil
		}
	}
	return nil, fmt.Errorf("no script for system prompt %.60q", system)
}

func (s *scriptedLLM) CompleteJSON(ctx context.Context, system, user string, maxTokens int, out any) error {
	resp, err := s.Complete(ctx, system, user, maxTokens)
	if err != nil {
		return err
	}
	return llm.DecodeJSON(resp.Content, out)
}

func (s *scriptedLLM) requests(key string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.seen[key]...)
}

func testOrchestrator(provider llm.Provider, opts ...Option) *Orchestrator {
	router := llm.NewStaticRouter(map[string]llm.Provider{"anthropic": provider}, nil)
	opts = append(opts, WithClock(func() time.Time {
		return time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)
	}))
	return New(router, opts...)
}

// Distinctive openings of the research agents' fallback prompts.
const (
	flightPromptKey      = "flight search assistant"
	hotelPromptKey       = "lodging search assistant"
	activityPromptKey    = "travel activities expert"
	destinationPromptKey = "travel destination expert"
)

const parsedRequestJSON = `{
	"origin": "San Francisco",
	"origin_code": "SFO",
	"destination": "Tokyo",
	"destination_code": "NRT",
	"departure_date": "2026-03-15",
	"return_date": "2026-03-20",
	"travelers": 2,
	"trip_type": "round_trip"
}`

func planningConversation() model.Conversation {
	return model.Conversation{}.
		Append(model.RoleUser, "Two of us, SF to Tokyo, March 15-20, $5000 budget.")
}

func TestGatherDetails(t *testing.T) {
	provider := newScriptedLLM().on(gatherSystemPrompt,
		`{"ready": false, "message": "What's your budget?", "collected": {"destination": "Tokyo"}}`)
	orch := testOrchestrator(provider)

	result, err := orch.GatherDetails(context.Background(), planningConversation())
	require.NoError(t, err)
	assert.False(t, result.Ready)
	assert.Equal(t, "What's your budget?", result.Message)
	assert.Equal(t, "Tokyo", result.Collected["destination"])

	msgs := provider.requests(gatherSystemPrompt)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "Today's date: 2026-02-01")
	assert.Contains(t, msgs[0], "User: Two of us")
}

func TestParseTripRequest_Defaults(t *testing.T) {
	provider := newScriptedLLM().on(parseSystemPrompt, `{
		"origin": "San Francisco",
		"origin_code": "SFO",
		"destination": "Tokyo",
		"destination_code": "NRT",
		"departure_date": "2026-03-15",
		"return_date": "2026-03-20"
	}`)
	orch := testOrchestrator(provider)

	req, err := orch.ParseTripRequest(context.Background(), planningConversation())
	require.NoError(t, err)
	assert.Equal(t, 1, req.Travelers, "travelers defaults to 1")
	assert.Equal(t, model.TripTypeRoundTrip, req.TripType, "trip type defaults to round trip")
}

func TestParseTripRequest_Invalid(t *testing.T) {
	provider := newScriptedLLM().on(parseSystemPrompt, `{"origin": "San Francisco"}`)
	orch := testOrchestrator(provider)

	_, err := orch.ParseTripRequest(context.Background(), planningConversation())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid trip request")
}

func TestPlanTrip(t *testing.T) {
	provider := newScriptedLLM().
		on(parseSystemPrompt, parsedRequestJSON).
		on(flightPromptKey, `[{"legs": [{"departure_airport": "SFO", "arrival_airport": "NRT", "airline": "United"}], "total_price_usd": 1700, "outbound_leg_count": 1}]`).
		on(hotelPromptKey, `[{"name": "Park Hyatt", "total_price_usd": 900}]`).
		on(activityPromptKey, `[{"name": "Senso-ji", "category": "attraction"}]`).
		on(destinationPromptKey, `{"country": "Japan", "city": "Tokyo", "visa_info": "Visa-free."}`).
		on(itinerarySystemPrompt, `{
			"title": "5 Days in Tokyo",
			"date_range": "March 15-20, 2026",
			"destination_summary": "Temples and ramen.",
			"days": [{"number": 1, "date": "2026-03-15", "title": "Arrival", "morning": "Fly", "afternoon": "Check in", "evening": "Ramen"}],
			"budget_breakdown": {"flights": 1700, "hotels": 900},
			"practical_tips": ["Carry cash."]
		}`)

	var events []string
	var mu sync.Mutex
	orch := testOrchestrator(provider, WithProgress(func(agent, status string) {
		mu.Lock()
		events = append(events, agent+": "+status)
		mu.Unlock()
	}))

	it, err := orch.PlanTrip(context.Background(), planningConversation())
	require.NoError(t, err)
	assert.Equal(t, "5 Days in Tokyo", it.Title)
	assert.Equal(t, "Tokyo", it.Destination)
	require.Len(t, it.Flights, 1)
	assert.Equal(t, 1700.0, it.Flights[0].TotalPriceUSD)
	require.Len(t, it.Hotels, 1)
	require.Len(t, it.Days, 1)
	assert.Equal(t, "Arrival", it.Days[0].Title)
	assert.Equal(t, 900.0, it.BudgetBreakdown["hotels"])
	require.NotNil(t, it.DestinationInfo)
	assert.Equal(t, "Japan", it.DestinationInfo.Country)

	// The assembly prompt must carry everything the agents gathered.
	writerMsgs := provider.requests(itinerarySystemPrompt)
	require.Len(t, writerMsgs, 1)
	assert.Contains(t, writerMsgs[0], "Park Hyatt")
	assert.Contains(t, writerMsgs[0], "Senso-ji")

	assert.Contains(t, events, "Writer: Done!")
}

func TestPlanTrip_AgentFailuresAreIsolated(t *testing.T) {
	provider := newScriptedLLM().
		on(parseSystemPrompt, parsedRequestJSON).
		failOn(flightPromptKey, fmt.Errorf("rate limited")).
		failOn(hotelPromptKey, fmt.Errorf("rate limited")).
		on(activityPromptKey, `[{"name": "Senso-ji", "category": "attraction"}]`).
		on(destinationPromptKey, `{"country": "Japan", "city": "Tokyo"}`).
		on(itinerarySystemPrompt, `{"title": "Tokyo Anyway", "days": []}`)

	var events []string
	var mu sync.Mutex
	orch := testOrchestrator(provider, WithProgress(func(agent, status string) {
		mu.Lock()
		events = append(events, agent+": "+status)
		mu.Unlock()
	}))

	it, err := orch.PlanTrip(context.Background(), planningConversation())
	require.NoError(t, err, "one failing agent must not sink the plan")
	assert.Empty(t, it.Flights)
	assert.Empty(t, it.Hotels)
	assert.Len(t, it.Activities, 1)
	assert.Contains(t, events, "Flights: Failed (error), skipping")
}

func TestPlanTrip_AssemblyDefaults(t *testing.T) {
	provider := newScriptedLLM().
		on(parseSystemPrompt, parsedRequestJSON).
		on(flightPromptKey, `[]`).
		on(hotelPromptKey, `[]`).
		on(activityPromptKey, `[]`).
		on(destinationPromptKey, `{"country": "Japan"}`).
		on(itinerarySystemPrompt, `{"days": []}`)

	it, err := testOrchestrator(provider).PlanTrip(context.Background(), planningConversation())
	require.NoError(t, err)
	assert.Equal(t, "Trip to Tokyo", it.Title, "missing title falls back to a default")
	assert.NotNil(t, it.BudgetBreakdown)
}

func TestPrebookedFlightOptions_RoundTrip(t *testing.T) {
	req := &model.TripRequest{
		Travelers: 2,
		PreBookedFlights: []model.PreBookedFlight{{
			Airline:          "United",
			DepartureAirport: "SFO",
			ArrivalAirport:   "NRT",
			DepartureDate:    model.NewDate(2026, time.March, 15),
			DepartureTime:    "14:30",
			ReturnDate:       model.NewDate(2026, time.March, 20),
			PricePaidUSD:     1850,
		}},
	}

	options := prebookedFlightOptions(req)
	require.Len(t, options, 1)
	opt := options[0]
	require.Len(t, opt.Legs, 2)
	assert.Equal(t, "SFO", opt.Legs[0].DepartureAirport)
	assert.Equal(t, "NRT", opt.Legs[1].DepartureAirport, "return leg reverses the route")
	assert.Equal(t, 1850.0, opt.TotalPriceUSD)
	assert.Equal(t, 2, opt.Travelers)
	assert.Equal(t, 1, opt.OutboundLegCount)
	require.NotNil(t, opt.ReturnStops)
	assert.Equal(t, 0, *opt.ReturnStops)
	assert.Equal(t, "14:30", opt.Legs[0].DepartureTime.Format("15:04"))
}

func TestPrebookedFlightOptions_OneWay(t *testing.T) {
	req := &model.TripRequest{
		Travelers: 1,
		PreBookedFlights: []model.PreBookedFlight{{
			Airline:          "ANA",
			DepartureAirport: "SFO",
			ArrivalAirport:   "HND",
			DepartureDate:    model.NewDate(2026, time.March, 15),
		}},
	}

	options := prebookedFlightOptions(req)
	require.Len(t, options, 1)
	assert.Len(t, options[0].Legs, 1)
	assert.Nil(t, options[0].ReturnDurationMinutes)
	assert.Nil(t, options[0].ReturnStops)
}

func TestPrebookedHotelOptions(t *testing.T) {
	req := &model.TripRequest{
		PreBookedHotels: []model.PreBookedHotel{{
			Name:             "Park Hyatt",
			City:             "Tokyo",
			CheckIn:          model.NewDate(2026, time.March, 15),
			CheckOut:         model.NewDate(2026, time.March, 20),
			PricePerNightUSD: 200,
		}},
	}

	options := prebookedHotelOptions(req)
	require.Len(t, options, 1)
	assert.Equal(t, 5, options[0].Nights)
	assert.Equal(t, 1000.0, options[0].TotalPriceUSD, "total derives from per-night price")
	assert.Equal(t, 200.0, options[0].PricePerNightUSD)
}

func TestCityScopedRequest(t *testing.T) {
	cap := 1000.0
	req := &model.TripRequest{
		Destination:      "Japan",
		BudgetAllocation: &model.BudgetAllocation{TotalUSD: 5000, HotelsMaxUSD: &cap},
	}
	stay := model.CityStay{
		City:     "Kyoto",
		CityCode: "KIX",
		CheckIn:  model.NewDate(2026, time.April, 4),
		CheckOut: model.NewDate(2026, time.April, 6),
		Nights:   2,
	}

	scoped := cityScopedRequest(req, stay, 5)
	assert.Equal(t, "Kyoto", scoped.Destination)
	assert.Equal(t, "KIX", scoped.DestinationCode)
	assert.Equal(t, 400.0, *scoped.BudgetAllocation.HotelsMaxUSD)
	assert.Equal(t, 1000.0, *req.BudgetAllocation.HotelsMaxUSD, "original request untouched")
}

func TestCityScopedRequest_RoundsToCents(t *testing.T) {
	cap := 100.0
	req := &model.TripRequest{BudgetAllocation: &model.BudgetAllocation{HotelsMaxUSD: &cap}}
	stay := model.CityStay{City: "Nara", Nights: 1}

	scoped := cityScopedRequest(req, stay, 3)
	assert.Equal(t, 33.33, *scoped.BudgetAllocation.HotelsMaxUSD)
}

func TestGroupHotelsByCity(t *testing.T) {
	req := &model.TripRequest{
		CityStays: []model.CityStay{
			{City: "Tokyo", Nights: 3, CheckIn: model.NewDate(2026, time.April, 1), CheckOut: model.NewDate(2026, time.April, 4)},
			{City: "Kyoto", Nights: 2, CheckIn: model.NewDate(2026, time.April, 4), CheckOut: model.NewDate(2026, time.April, 6)},
		},
	}
	hotels := []model.HotelOption{
		{Name: "A", City: "Kyoto"},
		{Name: "B", City: "Tokyo"},
		{Name: "C", City: "Tokyo"},
	}

	groups := groupHotelsByCity(req, hotels)
	require.Len(t, groups, 2)
	assert.Equal(t, "Tokyo", groups[0].City)
	assert.Len(t, groups[0].Options, 2)
	assert.Equal(t, "Kyoto", groups[1].City)
	assert.Len(t, groups[1].Options, 1)
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "bad response", errorKind(&llm.DecodeError{Raw: "hm"}))
	assert.Equal(t, "no provider", errorKind(fmt.Errorf("wrapped: %w", llm.ErrNoProvider)))
	assert.Equal(t, "timeout", errorKind(context.DeadlineExceeded))
	assert.Equal(t, "error", errorKind(fmt.Errorf("boom")))
}
