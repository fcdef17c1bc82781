// Package export renders assembled itineraries to markdown and HTML files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/voyagerhq/voyager/travel/model"
)

// Markdown renders the itinerary and writes it to dir, returning the file
// path.
func Markdown(itinerary *model.Itinerary, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create output dir")
	}
	path := filepath.Join(dir, itinerary.Slug()+".md")
	if err := os.WriteFile(path, []byte(RenderMarkdown(itinerary)), 0o644); err != nil {
		return "", errors.Wrap(err, "write markdown")
	}
	return path, nil
}

// RenderMarkdown renders the itinerary as a markdown document.
func RenderMarkdown(it *model.Itinerary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", it.Title)
	if it.DateRange != "" {
		fmt.Fprintf(&b, "**%s** | %s\n\n", it.Destination, it.DateRange)
	}
	if it.DestinationSummary != "" {
		fmt.Fprintf(&b, "%s\n\n", it.DestinationSummary)
	}

	writeFlights(&b, it.Flights)
	writeHotels(&b, it)
	writeDays(&b, it.Days)
	writeWeather(&b, it.WeatherForecast)
	writeBudget(&b, it.BudgetBreakdown)
	writeDestinationInfo(&b, it.DestinationInfo)

	if len(it.PracticalTips) > 0 {
		b.WriteString("## Practical Tips\n\n")
		for _, tip := range it.PracticalTips {
			fmt.Fprintf(&b, "- %s\n", tip)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeFlights(b *strings.Builder, flights []model.FlightOption) {
	if len(flights) == 0 {
		return
	}
	b.WriteString("## Flights\n\n")
	for i, f := range flights {
		fmt.Fprintf(b, "**Option %d** - %s - %s", i+1, f.OutboundRoute(), model.PriceDisplay(f.TotalPriceUSD))
		if f.Travelers > 1 {
			fmt.Fprintf(b, " total (%s/person)", model.PriceDisplay(f.PricePerPersonUSD()))
		}
		b.WriteString("\n")
		if airlines := f.OutboundAirlines(); airlines != "" {
			fmt.Fprintf(b, "- Outbound: %s", airlines)
			if f.OutboundDurationMinutes != nil && *f.OutboundDurationMinutes > 0 {
				fmt.Fprintf(b, ", %s", model.DurationDisplay(*f.OutboundDurationMinutes))
			}
			b.WriteString("\n")
		}
		if ret := f.ReturnRoute(); ret != "" {
			fmt.Fprintf(b, "- Return: %s", ret)
			if f.ReturnDurationMinutes != nil && *f.ReturnDurationMinutes > 0 {
				fmt.Fprintf(b, ", %s", model.DurationDisplay(*f.ReturnDurationMinutes))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
}

func writeHotels(b *strings.Builder, it *model.Itinerary) {
	if len(it.HotelsByCity) > 0 {
		b.WriteString("## Hotels\n\n")
		for _, ch := range it.HotelsByCity {
			fmt.Fprintf(b, "### %s (%d nights, %s to %s)\n\n", ch.City, ch.Nights, ch.CheckIn, ch.CheckOut)
			writeHotelList(b, ch.Options)
		}
		return
	}
	if len(it.Hotels) == 0 {
		return
	}
	b.WriteString("## Hotels\n\n")
	writeHotelList(b, it.Hotels)
}

func writeHotelList(b *strings.Builder, hotels []model.HotelOption) {
	for _, h := range hotels {
		fmt.Fprintf(b, "- **%s**", h.Name)
		if h.Rating > 0 {
			fmt.Fprintf(b, " (%.1f)", h.Rating)
		}
		fmt.Fprintf(b, " - $%.0f/night", h.PricePerNightUSD)
		if h.TotalPriceUSD > 0 {
			fmt.Fprintf(b, ", $%.0f total", h.TotalPriceUSD)
		}
		if len(h.Amenities) > 0 {
			fmt.Fprintf(b, " - %s", strings.Join(h.Amenities, ", "))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeDays(b *strings.Builder, days []model.DayPlan) {
	if len(days) == 0 {
		return
	}
	b.WriteString("## Day-by-Day Itinerary\n\n")
	for _, d := range days {
		fmt.Fprintf(b, "### Day %d: %s", d.Number, d.Title)
		if !d.Date.IsZero() {
			fmt.Fprintf(b, " (%s)", d.Date.Format("Mon, Jan 2"))
		}
		b.WriteString("\n\n")
		if d.Weather != "" {
			fmt.Fprintf(b, "*%s*\n\n", d.Weather)
		}
		fmt.Fprintf(b, "- **Morning:** %s\n", d.Morning)
		fmt.Fprintf(b, "- **Afternoon:** %s\n", d.Afternoon)
		fmt.Fprintf(b, "- **Evening:** %s\n", d.Evening)
		if d.EstimatedCostUSD > 0 {
			fmt.Fprintf(b, "- **Estimated cost:** $%.0f\n", d.EstimatedCostUSD)
		}
		if d.AltWeatherNote != "" {
			fmt.Fprintf(b, "\n**%s**\n", d.AltWeatherNote)
			if d.AltMorning != "" {
				fmt.Fprintf(b, "- Morning: %s\n", d.AltMorning)
			}
			if d.AltAfternoon != "" {
				fmt.Fprintf(b, "- Afternoon: %s\n", d.AltAfternoon)
			}
			if d.AltEvening != "" {
				fmt.Fprintf(b, "- Evening: %s\n", d.AltEvening)
			}
		}
		b.WriteString("\n")
	}
}

func writeWeather(b *strings.Builder, forecast []model.DayWeather) {
	if len(forecast) == 0 {
		return
	}
	b.WriteString("## Weather Forecast\n\n")
	for _, w := range forecast {
		fmt.Fprintf(b, "- **%s**", w.Date)
		if w.City != "" {
			fmt.Fprintf(b, " (%s)", w.City)
		}
		fmt.Fprintf(b, ": %s, %.0f-%.0f°C", w.Condition, w.TempLowC, w.TempHighC)
		if w.RainProbabilityPct > 0 {
			fmt.Fprintf(b, ", %d%% rain", w.RainProbabilityPct)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeBudget(b *strings.Builder, breakdown map[string]float64) {
	if len(breakdown) == 0 {
		return
	}
	b.WriteString("## Budget Breakdown\n\n")
	b.WriteString("| Category | Estimated Cost |\n|---|---|\n")
	total := 0.0
	for _, category := range budgetOrder(breakdown) {
		amount := breakdown[category]
		fmt.Fprintf(b, "| %s | %s |\n", titleWord(category), model.PriceDisplay(amount))
		total += amount
	}
	fmt.Fprintf(b, "| **Total** | **%s** |\n\n", model.PriceDisplay(total))
}

// budgetOrder lists well-known categories first, then the rest
// alphabetically.
func budgetOrder(breakdown map[string]float64) []string {
	known := []string{"flights", "hotels", "activities", "food", "transportation", "miscellaneous"}
	var out []string
	seen := make(map[string]bool)
	for _, k := range known {
		if _, ok := breakdown[k]; ok {
			out = append(out, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range breakdown {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func writeDestinationInfo(b *strings.Builder, info *model.DestinationInfo) {
	if info == nil {
		return
	}
	b.WriteString("## Destination Info\n\n")
	fmt.Fprintf(b, "- **Country:** %s\n", info.Country)
	fmt.Fprintf(b, "- **Currency:** %s\n", info.Currency)
	fmt.Fprintf(b, "- **Language:** %s\n", info.Language)
	fmt.Fprintf(b, "- **Timezone:** %s\n", info.Timezone)
	if info.VisaInfo != "" {
		fmt.Fprintf(b, "- **Visa:** %s\n", info.VisaInfo)
	}
	if info.EmergencyNumber != "" {
		fmt.Fprintf(b, "- **Emergency:** %s\n", info.EmergencyNumber)
	}
	b.WriteString("\n")
	if len(info.UsefulTips) > 0 {
		for _, tip := range info.UsefulTips {
			fmt.Fprintf(b, "- %s\n", tip)
		}
		b.WriteString("\n")
	}
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
