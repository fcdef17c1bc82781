// Package orchestrator coordinates the planning pipeline: conversational
// intake, concurrent research agent dispatch with failure isolation, and
// LLM-driven itinerary assembly and refinement.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/voyagerhq/voyager/travel/agents"
	"github.com/voyagerhq/voyager/travel/core/llm"
	"github.com/voyagerhq/voyager/travel/metrics"
	"github.com/voyagerhq/voyager/travel/model"
)

const assembleMaxTokens = 16384

// ProgressFunc receives agent progress events for display. It must not
// block; the pipeline calls it from multiple goroutines.
type ProgressFunc func(agent, status string)

// DataSources groups the optional research clients. A nil field means the
// corresponding agent relies on its LLM fallback.
type DataSources struct {
	Flights     agents.FlightSearcher
	Hotels      agents.HotelSearcher
	Activities  agents.ActivitySearcher
	Forecasts   agents.ForecastProvider
	Countries   agents.CountryLookup
}

// Orchestrator drives the planning pipeline. It is stateless across calls;
// refinement session state lives in RefinementSession.
type Orchestrator struct {
	router     *llm.Router
	sources    DataSources
	onProgress ProgressFunc
	now        func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithProgress installs a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(o *Orchestrator) { o.onProgress = fn }
}

// WithDataSources installs the research clients.
func WithDataSources(ds DataSources) Option {
	return func(o *Orchestrator) { o.sources = ds }
}

// WithClock overrides the reference clock. Date inference in prompts uses it.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New creates an Orchestrator over the given provider router.
func New(router *llm.Router, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		router:     router,
		onProgress: func(string, string) {},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) report(agent, status string) {
	o.onProgress(agent, status)
}

// GatherResult is the outcome of one conversational intake round.
type GatherResult struct {
	Ready     bool           `json:"ready"`
	Message   string         `json:"message"`
	Collected map[string]any `json:"collected"`
}

// GatherDetails analyzes the conversation so far and returns either a
// follow-up question or a readiness signal with a confirmation message.
func (o *Orchestrator) GatherDetails(ctx context.Context, conversation model.Conversation) (*GatherResult, error) {
	provider, err := o.router.Provider(llm.TaskPlanning)
	if err != nil {
		return nil, err
	}

	var result GatherResult
	if err := provider.CompleteJSON(ctx, gatherSystemPrompt, o.conversationText(conversation), 0, &result); err != nil {
		return nil, errors.Wrap(err, "gather details")
	}
	return &result, nil
}

// PlanTrip runs the full pipeline: parse the conversation into a structured
// request, dispatch research agents concurrently, and assemble an itinerary.
func (o *Orchestrator) PlanTrip(ctx context.Context, conversation model.Conversation) (*model.Itinerary, error) {
	traceID := shortuuid.New()
	logger := slog.With("trace_id", traceID)
	logger.Info("orchestrator: planning started")

	o.report("Planner", "Parsing your trip request...")
	req, err := o.ParseTripRequest(ctx, conversation)
	if err != nil {
		return nil, err
	}
	dateRange := fmt.Sprintf("%s (one-way)", req.DepartureDate)
	if !req.ReturnDate.IsZero() {
		dateRange = fmt.Sprintf("%s to %s", req.DepartureDate, req.ReturnDate)
	}
	o.report("Planner", fmt.Sprintf("Got it - %s, %s", req.Destination, dateRange))

	research, err := o.router.Provider(llm.TaskResearch)
	if err != nil {
		return nil, err
	}

	o.report("Agents", "Researching...")
	results := o.runAgents(ctx, research, req)

	flights := results.flights
	if len(req.PreBookedFlights) > 0 {
		flights = prebookedFlightOptions(req)
	}
	hotels := results.hotels
	if len(req.PreBookedHotels) > 0 {
		hotels = prebookedHotelOptions(req)
	}

	o.report("Writer", "Assembling your itinerary...")
	writer, err := o.router.Provider(llm.TaskWriting)
	if err != nil {
		return nil, err
	}
	itinerary, err := o.assembleItinerary(ctx, writer, req, flights, hotels, results.activities, results.weather, results.destination)
	if err != nil {
		return nil, err
	}
	o.report("Writer", "Done!")
	logger.Info("orchestrator: planning finished", "destination", req.Destination, "days", len(itinerary.Days))
	return itinerary, nil
}

// ParseTripRequest extracts a validated structured request from the
// conversation.
func (o *Orchestrator) ParseTripRequest(ctx context.Context, conversation model.Conversation) (*model.TripRequest, error) {
	provider, err := o.router.Provider(llm.TaskPlanning)
	if err != nil {
		return nil, err
	}

	var req model.TripRequest
	if err := provider.CompleteJSON(ctx, parseSystemPrompt, o.conversationText(conversation), 0, &req); err != nil {
		return nil, errors.Wrap(err, "parse trip request")
	}
	if req.Travelers == 0 {
		req.Travelers = 1
	}
	if req.TripType == "" {
		req.TripType = model.TripTypeRoundTrip
	}
	if err := req.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid trip request")
	}
	return &req, nil
}

func (o *Orchestrator) conversationText(conversation model.Conversation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Today's date: %s\n\nConversation so far:\n", model.DateOf(o.now()))
	for _, turn := range conversation {
		role := "Assistant"
		if turn.Role == model.RoleUser {
			role = "User"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, turn.Content)
	}
	return b.String()
}

// agentResults holds the typed outcome of the research fan-out. Failed agents
// leave their zero value; the assembly treats empty as "no data".
type agentResults struct {
	flights     []model.FlightOption
	hotels      []model.HotelOption
	activities  []model.Activity
	weather     []model.DayWeather
	destination *model.DestinationInfo
}

// runAgents dispatches the research agents concurrently. Failures are
// isolated: a failing agent logs, reports, and contributes its safe default
// without affecting the others. Flight and hotel agents are skipped entirely
// when the traveler pre-booked those.
func (o *Orchestrator) runAgents(ctx context.Context, research llm.Provider, req *model.TripRequest) *agentResults {
	results := &agentResults{}
	var wg sync.WaitGroup

	run := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				metrics.AgentRuns.WithLabelValues(name, "failed").Inc()
				slog.Warn("orchestrator: agent failed", "agent", name, "error", err)
				o.report(name, fmt.Sprintf("Failed (%s), skipping", errorKind(err)))
				return
			}
			metrics.AgentRuns.WithLabelValues(name, "ok").Inc()
			o.report(name, "Done")
		}()
	}

	if len(req.PreBookedFlights) > 0 {
		metrics.AgentRuns.WithLabelValues("Flights", "skipped").Inc()
		o.report("Flights", "Using your pre-booked flight")
	} else {
		run("Flights", func() error {
			agent := &agents.FlightAgent{LLM: research, API: o.sources.Flights}
			flights, err := agent.Run(ctx, req)
			if err != nil {
				return err
			}
			results.flights = flights
			return nil
		})
	}

	if len(req.PreBookedHotels) > 0 {
		metrics.AgentRuns.WithLabelValues("Hotels", "skipped").Inc()
		o.report("Hotels", "Using your pre-booked hotel(s)")
	} else {
		run("Hotels", func() error {
			hotels, err := o.dispatchHotels(ctx, research, req)
			if err != nil {
				return err
			}
			results.hotels = hotels
			return nil
		})
	}

	run("Activities", func() error {
		agent := &agents.ActivityAgent{LLM: research, API: o.sources.Activities}
		activities, err := agent.Run(ctx, req)
		if err != nil {
			return err
		}
		results.activities = activities
		return nil
	})

	run("Weather", func() error {
		agent := &agents.WeatherAgent{API: o.sources.Forecasts}
		weather, err := agent.Run(ctx, req)
		if err != nil {
			return err
		}
		results.weather = weather
		return nil
	})

	run("Destination", func() error {
		agent := &agents.DestinationAgent{LLM: research, API: o.sources.Countries}
		info, err := agent.Run(ctx, req)
		if err != nil {
			return err
		}
		results.destination = info
		return nil
	})

	wg.Wait()
	return results
}

// dispatchHotels searches lodging: once for single-destination trips, or one
// concurrent search per overnight city with the hotel budget split
// proportionally by nights.
func (o *Orchestrator) dispatchHotels(ctx context.Context, research llm.Provider, req *model.TripRequest) ([]model.HotelOption, error) {
	agent := &agents.HotelAgent{LLM: research, API: o.sources.Hotels}

	overnight := req.OvernightStays()
	if len(overnight) == 0 {
		return agent.Run(ctx, req)
	}

	totalNights := 0
	for _, stay := range overnight {
		totalNights += stay.Nights
	}

	type cityResult struct {
		index  int
		hotels []model.HotelOption
		err    error
	}
	resultCh := make(chan cityResult, len(overnight))
	for i, stay := range overnight {
		i, stay := i, stay
		o.report("Hotels", fmt.Sprintf("Searching %s...", stay.City))
		go func() {
			hotels, err := agent.Run(ctx, cityScopedRequest(req, stay, totalNights))
			for j := range hotels {
				hotels[j].City = stay.City
				hotels[j].CheckIn = stay.CheckIn.String()
				hotels[j].CheckOut = stay.CheckOut.String()
				hotels[j].Nights = stay.Nights
			}
			resultCh <- cityResult{index: i, hotels: hotels, err: err}
		}()
	}

	perCity := make([][]model.HotelOption, len(overnight))
	var firstErr error
	for range overnight {
		res := <-resultCh
		if res.err != nil && firstErr == nil {
			firstErr = res.err
		}
		perCity[res.index] = res.hotels
	}
	if firstErr != nil {
		return nil, firstErr
	}

	var combined []model.HotelOption
	for _, hotels := range perCity {
		combined = append(combined, hotels...)
	}
	return combined, nil
}

// cityScopedRequest clones the request narrowed to one overnight stay. The
// hotel cap becomes cap * nights / totalNights, rounded to cents.
func cityScopedRequest(req *model.TripRequest, stay model.CityStay, totalNights int) *model.TripRequest {
	scoped := *req
	scoped.Destination = stay.City
	scoped.DestinationCode = stay.CityCode
	scoped.DepartureDate = stay.CheckIn
	scoped.ReturnDate = stay.CheckOut

	if req.BudgetAllocation != nil && req.BudgetAllocation.HotelsMaxUSD != nil && totalNights > 0 {
		alloc := *req.BudgetAllocation
		split := math.Round(*req.BudgetAllocation.HotelsMaxUSD*float64(stay.Nights)/float64(totalNights)*100) / 100
		alloc.HotelsMaxUSD = &split
		scoped.BudgetAllocation = &alloc
	}
	return &scoped
}

// prebookedFlightOptions converts pre-booked flights into option records
// deterministically; no search or LLM call is involved. Unknown arrival
// times and durations stay zero.
func prebookedFlightOptions(req *model.TripRequest) []model.FlightOption {
	options := make([]model.FlightOption, 0, len(req.PreBookedFlights))
	for _, pb := range req.PreBookedFlights {
		depTime := pb.DepartureTime
		if depTime == "" {
			depTime = "00:00"
		}
		dep, _ := time.Parse("2006-01-02 15:04", pb.DepartureDate.String()+" "+depTime)

		legs := []model.FlightLeg{{
			DepartureAirport: pb.DepartureAirport,
			ArrivalAirport:   pb.ArrivalAirport,
			DepartureTime:    dep,
			ArrivalTime:      dep,
			Airline:          pb.Airline,
		}}

		zero := 0
		opt := model.FlightOption{
			TotalPriceUSD:           pb.PricePaidUSD,
			Currency:                "USD",
			OutboundDurationMinutes: &zero,
			OutboundStops:           &zero,
			OutboundLegCount:        1,
			Travelers:               req.Travelers,
		}

		if !pb.ReturnDate.IsZero() {
			retTime := pb.ReturnDepartureTime
			if retTime == "" {
				retTime = "00:00"
			}
			ret, _ := time.Parse("2006-01-02 15:04", pb.ReturnDate.String()+" "+retTime)
			legs = append(legs, model.FlightLeg{
				DepartureAirport: pb.ArrivalAirport,
				ArrivalAirport:   pb.DepartureAirport,
				DepartureTime:    ret,
				ArrivalTime:      ret,
				Airline:          pb.Airline,
			})
			opt.ReturnDurationMinutes = &zero
			opt.ReturnStops = &zero
		}

		opt.Legs = legs
		options = append(options, opt)
	}
	return options
}

// prebookedHotelOptions converts pre-booked hotels into option records.
func prebookedHotelOptions(req *model.TripRequest) []model.HotelOption {
	options := make([]model.HotelOption, 0, len(req.PreBookedHotels))
	for _, pb := range req.PreBookedHotels {
		nights := pb.CheckIn.DaysUntil(pb.CheckOut)
		total := pb.TotalPriceUSD
		if total == 0 {
			total = pb.PricePerNightUSD * float64(nights)
		}
		perNight := pb.PricePerNightUSD
		if perNight == 0 && nights > 0 {
			perNight = total / float64(nights)
		}
		options = append(options, model.HotelOption{
			Name:             pb.Name,
			Address:          pb.City,
			City:             pb.City,
			CheckIn:          pb.CheckIn.String(),
			CheckOut:         pb.CheckOut.String(),
			Nights:           nights,
			PricePerNightUSD: perNight,
			TotalPriceUSD:    total,
		})
	}
	return options
}

// assembledPlan is the decode target for the assembly prompt; everything the
// model omits gets a safe default.
type assembledPlan struct {
	Title              string             `json:"title"`
	DateRange          string             `json:"date_range"`
	DestinationSummary string             `json:"destination_summary"`
	Days               []model.DayPlan    `json:"days"`
	BudgetBreakdown    map[string]float64 `json:"budget_breakdown"`
	PracticalTips      []string           `json:"practical_tips"`
}

func (o *Orchestrator) assembleItinerary(
	ctx context.Context,
	writer llm.Provider,
	req *model.TripRequest,
	flights []model.FlightOption,
	hotels []model.HotelOption,
	activities []model.Activity,
	weather []model.DayWeather,
	destInfo *model.DestinationInfo,
) (*model.Itinerary, error) {
	hotelsByCity := groupHotelsByCity(req, hotels)

	gathered := map[string]any{
		"trip_request":     req,
		"flight_options":   flights,
		"hotel_options":    hotels,
		"activities":       activities,
		"weather_forecast": weather,
		"destination_info": destInfo,
	}
	if len(hotelsByCity) > 0 {
		gathered["hotels_by_city"] = hotelsByCity
	}
	if len(req.PreBookedFlights) > 0 {
		gathered["prebooked_flights"] = true
	}
	if len(req.PreBookedHotels) > 0 {
		gathered["prebooked_hotels"] = true
	}

	payload, err := json.MarshalIndent(gathered, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal gathered data")
	}
	userMsg := "Here is all the gathered travel data. Create a cohesive day-by-day itinerary.\n\n" + string(payload)

	var plan assembledPlan
	if err := writer.CompleteJSON(ctx, itinerarySystemPrompt, userMsg, assembleMaxTokens, &plan); err != nil {
		return nil, errors.Wrap(err, "assemble itinerary")
	}

	title := plan.Title
	if title == "" {
		title = "Trip to " + req.Destination
	}
	breakdown := plan.BudgetBreakdown
	if breakdown == nil {
		breakdown = map[string]float64{}
	}

	return &model.Itinerary{
		Title:              title,
		Destination:        req.Destination,
		DateRange:          plan.DateRange,
		DestinationSummary: plan.DestinationSummary,
		Flights:            flights,
		Hotels:             hotels,
		HotelsByCity:       hotelsByCity,
		Activities:         activities,
		WeatherForecast:    weather,
		DestinationInfo:    destInfo,
		Days:               plan.Days,
		BudgetBreakdown:    breakdown,
		PracticalTips:      plan.PracticalTips,
	}, nil
}

// groupHotelsByCity builds the per-city grouping for multi-city trips.
func groupHotelsByCity(req *model.TripRequest, hotels []model.HotelOption) []model.CityHotels {
	var groups []model.CityHotels
	for _, stay := range req.OvernightStays() {
		var cityHotels []model.HotelOption
		for _, h := range hotels {
			if h.City == stay.City {
				cityHotels = append(cityHotels, h)
			}
		}
		groups = append(groups, model.CityHotels{
			City:     stay.City,
			CityCode: stay.CityCode,
			CheckIn:  stay.CheckIn,
			CheckOut: stay.CheckOut,
			Nights:   stay.Nights,
			Options:  cityHotels,
		})
	}
	return groups
}

func errorKind(err error) string {
	var decodeErr *llm.DecodeError
	if errors.As(err, &decodeErr) {
		return "bad response"
	}
	if errors.Is(err, llm.ErrNoProvider) {
		return "no provider"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "error"
}
