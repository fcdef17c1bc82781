package apis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagerhq/voyager/travel/model"
)

func bucket(ts time.Time, tempMin, tempMax float64, humidity int, condition string, rain float64) forecastBucket {
	var b forecastBucket
	b.Dt = ts.Unix()
	b.Main.TempMin = tempMin
	b.Main.TempMax = tempMax
	b.Main.Humidity = humidity
	b.Weather = []struct {
		Main string `json:"main"`
	}{{Main: condition}}
	if rain > 0 {
		b.Rain = map[string]float64{"3h": rain}
	}
	return b
}

func TestAggregateDaily(t *testing.T) {
	day1 := time.Date(2026, time.March, 15, 6, 0, 0, 0, time.UTC)
	buckets := []forecastBucket{
		bucket(day1, 8, 12, 60, "Clear", 0),
		bucket(day1.Add(6*time.Hour), 10, 18, 70, "Clear", 0),
		bucket(day1.Add(12*time.Hour), 9, 15, 80, "Clouds", 0),
		bucket(day1.Add(27*time.Hour), 11, 21, 65, "Rain", 1.2),
		bucket(day1.Add(33*time.Hour), 12, 22, 75, "Rain", 0.4),
	}

	days := aggregateDaily(buckets)
	require.Len(t, days, 2)

	first := days[0]
	assert.Equal(t, "2026-03-15", first.Date.String())
	assert.Equal(t, "sunny", first.Condition, "the most common group wins, mapped to display vocabulary")
	assert.Equal(t, 18.0, first.TempHighC)
	assert.Equal(t, 8.0, first.TempLowC)
	assert.Equal(t, 70, first.HumidityPct)
	assert.Equal(t, 0, first.RainProbabilityPct)
	assert.Equal(t, model.WeatherSourceAPI, first.Source)

	second := days[1]
	assert.Equal(t, "rain", second.Condition)
	assert.Equal(t, 100, second.RainProbabilityPct)
}

func TestWeatherSummary(t *testing.T) {
	assert.Equal(t, "Rainy and warm - bring an umbrella, consider indoor activities", weatherSummary("rain", 22, 100))
	assert.Equal(t, "Clear and cool - great day for outdoor sightseeing", weatherSummary("sunny", 15, 0))
	assert.Equal(t, "Overcast and hot - comfortable for walking around", weatherSummary("cloudy", 33, 10))
	assert.Equal(t, "Snowy and cold - dress warmly, enjoy winter scenery", weatherSummary("snow", -2, 0))
	assert.Equal(t, "Fog and cold", weatherSummary("fog", 5, 0))
	// High rain probability trumps the nominal condition.
	assert.Equal(t, "Rainy and warm - bring an umbrella, consider indoor activities", weatherSummary("cloudy", 25, 60))
}

func TestForecast_FiltersToWindow(t *testing.T) {
	day := time.Date(2026, time.March, 15, 9, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Tokyo,JP", r.URL.Query().Get("q"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		payload := map[string]any{"list": []forecastBucket{
			bucket(day.AddDate(0, 0, -1), 8, 14, 60, "Clear", 0),
			bucket(day, 9, 16, 60, "Clear", 0),
			bucket(day.AddDate(0, 0, 1), 10, 17, 60, "Clouds", 0),
			bucket(day.AddDate(0, 0, 3), 11, 18, 60, "Clear", 0),
		}}
		require.NoError(t, json.NewEncoder(w).Encode(payload))
	}))
	defer srv.Close()

	client := &OpenWeatherClient{apiKey: "k", baseURL: srv.URL, httpClient: srv.Client()}
	got, err := client.Forecast(context.Background(), "Tokyo", "JP",
		model.NewDate(2026, time.March, 15), model.NewDate(2026, time.March, 16))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2026-03-15", got[0].Date.String())
	assert.Equal(t, "2026-03-16", got[1].Date.String())
}

func TestForecast_UpstreamRejectionIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"cod": "404", "message": "city not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := &OpenWeatherClient{apiKey: "k", baseURL: srv.URL, httpClient: srv.Client()}
	got, err := client.Forecast(context.Background(), "Nowhereville", "", model.Date{}, model.Date{})
	assert.NoError(t, err)
	assert.Empty(t, got)
}
