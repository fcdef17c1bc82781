package apis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/voyagerhq/voyager/travel/model"
)

const openWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

// OpenWeatherClient fetches 5-day forecasts from OpenWeatherMap. The free
// tier returns 3-hour buckets; Forecast aggregates them into daily summaries.
type OpenWeatherClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewOpenWeatherClient creates a client with the given API key.
func NewOpenWeatherClient(apiKey string) *OpenWeatherClient {
	return &OpenWeatherClient{
		apiKey:     apiKey,
		baseURL:    openWeatherBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Forecast returns daily forecasts for a city, filtered to [start, end] when
// those are non-zero. Only days inside the provider's 5-day window appear;
// upstream rejection yields an empty result, not an error.
func (c *OpenWeatherClient) Forecast(ctx context.Context, city, countryCode string, start, end model.Date) ([]model.DayWeather, error) {
	location := city
	if countryCode != "" {
		location = city + "," + countryCode
	}
	params := url.Values{
		"q":     {location},
		"units": {"metric"},
		"appid": {c.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/forecast?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openweathermap: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		slog.Debug("openweathermap: non-OK response", "city", city, "status", resp.StatusCode, "body", string(body))
		return nil, nil
	}

	var payload struct {
		List []forecastBucket `json:"list"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("openweathermap: decode: %w", err)
	}

	days := aggregateDaily(payload.List)
	if !start.IsZero() || !end.IsZero() {
		filtered := days[:0]
		for _, d := range days {
			if !start.IsZero() && d.Date.Before(start) {
				continue
			}
			if !end.IsZero() && d.Date.After(end) {
				continue
			}
			filtered = append(filtered, d)
		}
		days = filtered
	}
	return days, nil
}

type forecastBucket struct {
	Dt   int64 `json:"dt"`
	Main struct {
		TempMin  float64 `json:"temp_min"`
		TempMax  float64 `json:"temp_max"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
	Rain map[string]float64 `json:"rain"`
}

// conditionNames normalizes OpenWeatherMap's condition groups into the
// vocabulary the itinerary uses.
var conditionNames = map[string]string{
	"clear":        "sunny",
	"clouds":       "cloudy",
	"rain":         "rain",
	"drizzle":      "rain",
	"thunderstorm": "thunderstorm",
	"snow":         "snow",
	"mist":         "fog",
	"fog":          "fog",
	"haze":         "fog",
}

func aggregateDaily(buckets []forecastBucket) []model.DayWeather {
	type dayAccum struct {
		tempLow, tempHigh float64
		humiditySum       int
		rainHits          int
		count             int
		conditions        map[string]int
	}

	byDay := make(map[string]*dayAccum)
	for _, b := range buckets {
		day := time.Unix(b.Dt, 0).UTC().Format("2006-01-02")
		acc, ok := byDay[day]
		if !ok {
			acc = &dayAccum{tempLow: b.Main.TempMin, tempHigh: b.Main.TempMax, conditions: make(map[string]int)}
			byDay[day] = acc
		}
		if b.Main.TempMin < acc.tempLow {
			acc.tempLow = b.Main.TempMin
		}
		if b.Main.TempMax > acc.tempHigh {
			acc.tempHigh = b.Main.TempMax
		}
		acc.humiditySum += b.Main.Humidity
		if b.Rain["3h"] > 0 {
			acc.rainHits++
		}
		acc.count++
		if len(b.Weather) > 0 {
			acc.conditions[strings.ToLower(b.Weather[0].Main)]++
		}
	}

	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	results := make([]model.DayWeather, 0, len(keys))
	for _, key := range keys {
		acc := byDay[key]
		condition := mostCommon(acc.conditions)
		if mapped, ok := conditionNames[condition]; ok {
			condition = mapped
		}
		rainPct := 0
		if acc.count > 0 {
			rainPct = acc.rainHits * 100 / acc.count
		}
		date, err := model.ParseDate(key)
		if err != nil {
			continue
		}
		results = append(results, model.DayWeather{
			Date:               date,
			Condition:          condition,
			TempHighC:          round1(acc.tempHigh),
			TempLowC:           round1(acc.tempLow),
			HumidityPct:        acc.humiditySum / acc.count,
			RainProbabilityPct: rainPct,
			Summary:            weatherSummary(condition, acc.tempHigh, rainPct),
			Source:             model.WeatherSourceAPI,
		})
	}
	return results
}

func mostCommon(counts map[string]int) string {
	best, bestCount := "", -1
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}

func weatherSummary(condition string, tempHigh float64, rainPct int) string {
	tempDesc := "hot"
	switch {
	case tempHigh < 10:
		tempDesc = "cold"
	case tempHigh < 20:
		tempDesc = "cool"
	case tempHigh < 30:
		tempDesc = "warm"
	}

	switch {
	case condition == "rain" || rainPct > 50:
		return "Rainy and " + tempDesc + " - bring an umbrella, consider indoor activities"
	case condition == "sunny":
		return "Clear and " + tempDesc + " - great day for outdoor sightseeing"
	case condition == "cloudy":
		return "Overcast and " + tempDesc + " - comfortable for walking around"
	case condition == "snow":
		return "Snowy and cold - dress warmly, enjoy winter scenery"
	default:
		return titleCase(condition) + " and " + tempDesc
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func round1(v float64) float64 {
	f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return f
}
