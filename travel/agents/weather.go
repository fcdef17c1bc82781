package agents

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/voyagerhq/voyager/travel/model"
)

// WeatherAgent fetches per-city forecasts for the trip window. Only real
// forecast data is returned; when no forecast client is configured or the
// window is outside the provider's range, the result is simply empty. The
// itinerary treats missing weather as unknown rather than estimated.
type WeatherAgent struct {
	API ForecastProvider
}

type weatherSegment struct {
	city  string
	start model.Date
	end   model.Date
}

// Run returns forecasts for every overnight city of the trip, sorted by date
// then city. Day-trip segments are covered by their base city's forecast.
func (a *WeatherAgent) Run(ctx context.Context, req *model.TripRequest) ([]model.DayWeather, error) {
	if a.API == nil {
		return nil, nil
	}

	segments := buildWeatherSegments(req)
	if len(segments) == 0 {
		return nil, nil
	}

	var mu sync.Mutex
	var combined []model.DayWeather

	g, gctx := errgroup.WithContext(ctx)
	for _, seg := range segments {
		seg := seg
		g.Go(func() error {
			days, err := a.API.Forecast(gctx, seg.city, "", seg.start, seg.end)
			if err != nil {
				return err
			}
			for i := range days {
				days[i].City = seg.city
				days[i].Source = model.WeatherSourceAPI
			}
			mu.Lock()
			combined = append(combined, days...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(combined, func(i, j int) bool {
		if !combined[i].Date.Equal(combined[j].Date) {
			return combined[i].Date.Before(combined[j].Date)
		}
		return combined[i].City < combined[j].City
	})
	return combined, nil
}

// buildWeatherSegments derives (city, start, end) fetch windows. Overnight
// city stays each get their own window; otherwise the whole trip is a single
// window at the main destination.
func buildWeatherSegments(req *model.TripRequest) []weatherSegment {
	var segments []weatherSegment
	for _, cs := range req.OvernightStays() {
		if cs.City == "" || cs.CheckIn.IsZero() {
			continue
		}
		end := cs.CheckOut
		if end.IsZero() {
			end = cs.CheckIn
		}
		segments = append(segments, weatherSegment{city: cs.City, start: cs.CheckIn, end: end})
	}
	if len(segments) > 0 {
		return segments
	}

	if req.DepartureDate.IsZero() {
		return nil
	}
	end := req.ReturnDate
	if end.IsZero() {
		end = req.DepartureDate
	}
	return []weatherSegment{{city: req.Destination, start: req.DepartureDate, end: end}}
}
