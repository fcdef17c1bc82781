package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagerhq/voyager/travel/model"
)

func sampleItinerary() *model.Itinerary {
	outDur := 690
	return &model.Itinerary{
		Title:              "5 Days in Tokyo",
		Destination:        "Tokyo",
		DateRange:          "March 15-20, 2026",
		DestinationSummary: "Temples, neon, and the world's best convenience stores.",
		Flights: []model.FlightOption{{
			Legs: []model.FlightLeg{
				{DepartureAirport: "SFO", ArrivalAirport: "NRT", Airline: "United Airlines"},
				{DepartureAirport: "NRT", ArrivalAirport: "SFO", Airline: "ANA"},
			},
			TotalPriceUSD:           1700,
			OutboundLegCount:        1,
			OutboundDurationMinutes: &outDur,
			Travelers:               2,
		}},
		Hotels: []model.HotelOption{{
			Name:             "Park Hyatt Tokyo",
			Rating:           4.8,
			PricePerNightUSD: 180,
			TotalPriceUSD:    900,
			Amenities:        []string{"wifi", "pool"},
		}},
		Days: []model.DayPlan{{
			Number:         1,
			Date:           model.NewDate(2026, time.March, 15),
			Title:          "Arrival",
			Morning:        "Fly SFO to NRT",
			Afternoon:      "Check in, walk Shinjuku",
			Evening:        "Ramen at Omoide Yokocho",
			AltWeatherNote: "If it rains:",
			AltAfternoon:   "Tokyo Metropolitan Museum",
		}},
		WeatherForecast: []model.DayWeather{{
			Date:               model.NewDate(2026, time.March, 15),
			City:               "Tokyo",
			Condition:          "rain",
			TempLowC:           8,
			TempHighC:          14,
			RainProbabilityPct: 80,
		}},
		BudgetBreakdown: map[string]float64{
			"souvenirs": 100,
			"flights":   1700,
			"hotels":    900,
		},
		DestinationInfo: &model.DestinationInfo{
			Country:  "Japan",
			Currency: "Japanese Yen (JPY)",
			Language: "Japanese",
			Timezone: "UTC+09:00",
			VisaInfo: "Visa-free for 90 days.",
		},
		PracticalTips: []string{"Get a Suica card on arrival."},
	}
}

func TestRenderMarkdown(t *testing.T) {
	md := RenderMarkdown(sampleItinerary())

	assert.Contains(t, md, "# 5 Days in Tokyo")
	assert.Contains(t, md, "**Tokyo** | March 15-20, 2026")
	assert.Contains(t, md, "**Option 1** - SFO -> NRT - $1,700 total ($850/person)")
	assert.Contains(t, md, "- Outbound: United Airlines, 11h 30m")
	assert.Contains(t, md, "- Return: NRT -> SFO")
	assert.Contains(t, md, "**Park Hyatt Tokyo** (4.8) - $180/night, $900 total - wifi, pool")
	assert.Contains(t, md, "### Day 1: Arrival (Sun, Mar 15)")
	assert.Contains(t, md, "**If it rains:**")
	assert.Contains(t, md, "- Afternoon: Tokyo Metropolitan Museum")
	assert.Contains(t, md, "- **2026-03-15** (Tokyo): rain, 8-14°C, 80% rain")
	assert.Contains(t, md, "- **Visa:** Visa-free for 90 days.")
	assert.Contains(t, md, "- Get a Suica card on arrival.")
}

func TestRenderMarkdown_BudgetOrdering(t *testing.T) {
	md := RenderMarkdown(sampleItinerary())

	flightsIdx := indexOf(t, md, "| Flights | $1,700 |")
	hotelsIdx := indexOf(t, md, "| Hotels | $900 |")
	souvenirsIdx := indexOf(t, md, "| Souvenirs | $100 |")
	totalIdx := indexOf(t, md, "| **Total** | **$2,700** |")

	assert.Less(t, flightsIdx, hotelsIdx, "known categories in canonical order")
	assert.Less(t, hotelsIdx, souvenirsIdx, "unknown categories come last")
	assert.Less(t, souvenirsIdx, totalIdx)
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	idx := strings.Index(haystack, needle)
	require.GreaterOrEqual(t, idx, 0, "%q not found in rendered markdown", needle)
	return idx
}

func TestRenderMarkdown_MultiCityHotels(t *testing.T) {
	it := sampleItinerary()
	it.HotelsByCity = []model.CityHotels{{
		City:     "Kyoto",
		CheckIn:  model.NewDate(2026, time.April, 4),
		CheckOut: model.NewDate(2026, time.April, 6),
		Nights:   2,
		Options:  []model.HotelOption{{Name: "Ryokan Sakura", PricePerNightUSD: 140}},
	}}

	md := RenderMarkdown(it)
	assert.Contains(t, md, "### Kyoto (2 nights, 2026-04-04 to 2026-04-06)")
	assert.Contains(t, md, "**Ryokan Sakura**")
	assert.NotContains(t, md, "Park Hyatt Tokyo", "the grouped view replaces the flat list")
}

func TestMarkdownWritesFile(t *testing.T) {
	dir := t.TempDir()
	it := sampleItinerary()

	path, err := Markdown(it, filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.Equal(t, "trip_tokyo_2026-03-15.md", filepath.Base(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# 5 Days in Tokyo")
}

func TestHTML(t *testing.T) {
	it := sampleItinerary()
	it.Title = `Tokyo <& Friends>`

	path, err := HTML(it, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "trip_tokyo_2026-03-15.html", filepath.Base(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	doc := string(content)
	assert.Contains(t, doc, "<title>Tokyo &lt;&amp; Friends&gt;</title>", "title is escaped in the shell")
	assert.Contains(t, doc, "<h1")
	assert.Contains(t, doc, "<table>", "the budget table renders through the GFM extension")
}
