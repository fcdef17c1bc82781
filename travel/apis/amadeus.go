// Package apis contains thin clients for the external travel data sources.
// Agents consume them through narrow interfaces; absence of credentials means
// the agent falls back to LLM-estimated data instead of calling these.
package apis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/voyagerhq/voyager/travel/model"
)

const (
	amadeusBaseURL   = "https://test.api.amadeus.com"
	amadeusTokenPath = "/v1/security/oauth2/token"
	maxOfferResults  = 5
)

// AmadeusClient talks to the Amadeus self-service flight and hotel APIs.
// Requests are rate limited client-side; the test environment throttles hard.
type AmadeusClient struct {
	clientID     string
	clientSecret string
	baseURL      string
	httpClient   *http.Client
	limiter      *rate.Limiter

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewAmadeusClient creates a client with the given credentials.
func NewAmadeusClient(clientID, clientSecret string) *AmadeusClient {
	return &AmadeusClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      amadeusBaseURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		limiter:      rate.NewLimiter(rate.Every(200*time.Millisecond), 2),
	}
}

// FlightQuery describes a flight search.
type FlightQuery struct {
	Origin        string // IATA code
	Destination   string
	DepartureDate model.Date
	ReturnDate    model.Date // zero for one-way
	Adults        int
}

// HotelQuery describes a lodging search.
type HotelQuery struct {
	CityCode string // IATA city code
	CheckIn  model.Date
	CheckOut model.Date
	Adults   int
}

func (c *AmadeusClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+amadeusTokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("amadeus token: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("amadeus token: status %d: %s", resp.StatusCode, body)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("amadeus token: %w", err)
	}
	c.accessToken = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn-60) * time.Second)
	return c.accessToken, nil
}

func (c *AmadeusClient) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("amadeus %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		// Upstream rejections (bad route, no availability) are treated as
		// empty results by the callers, matching the agents' fallback flow.
		slog.Debug("amadeus: non-OK response", "path", path, "status", resp.StatusCode)
		return errStatus(resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type statusError int

func (e statusError) Error() string { return "amadeus: status " + strconv.Itoa(int(e)) }

func errStatus(code int) error { return statusError(code) }

func isRejection(err error) bool {
	var s statusError
	return errors.As(err, &s)
}

// SearchFlights returns up to 5 priced flight offers for the query.
func (c *AmadeusClient) SearchFlights(ctx context.Context, q FlightQuery) ([]model.FlightOption, error) {
	params := url.Values{
		"originLocationCode":      {q.Origin},
		"destinationLocationCode": {q.Destination},
		"departureDate":           {q.DepartureDate.String()},
		"adults":                  {strconv.Itoa(q.Adults)},
		"max":                     {strconv.Itoa(maxOfferResults)},
		"currencyCode":            {"USD"},
	}
	if !q.ReturnDate.IsZero() {
		params.Set("returnDate", q.ReturnDate.String())
	}

	var payload struct {
		Data []flightOffer `json:"data"`
	}
	if err := c.get(ctx, "/v2/shopping/flight-offers", params, &payload); err != nil {
		if isRejection(err) {
			return nil, nil
		}
		return nil, err
	}

	options := make([]model.FlightOption, 0, len(payload.Data))
	for _, offer := range payload.Data {
		options = append(options, offer.toOption(q.Adults))
	}
	return options, nil
}

// SearchHotels returns priced lodging offers for the query, cheapest first,
// trimmed to 5. Sandbox data with implausible nightly prices is dropped.
func (c *AmadeusClient) SearchHotels(ctx context.Context, q HotelQuery) ([]model.HotelOption, error) {
	listParams := url.Values{"cityCode": {q.CityCode}}
	var hotelList struct {
		Data []struct {
			HotelID string `json:"hotelId"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/v1/reference-data/locations/hotels/by-city", listParams, &hotelList); err != nil {
		if isRejection(err) {
			return nil, nil
		}
		return nil, err
	}

	// Request more IDs than needed; many won't have offers.
	ids := make([]string, 0, 20)
	for _, h := range hotelList.Data {
		if h.HotelID == "" {
			continue
		}
		ids = append(ids, h.HotelID)
		if len(ids) == 20 {
			break
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	offerParams := url.Values{
		"hotelIds":     {strings.Join(ids, ",")},
		"adults":       {strconv.Itoa(q.Adults)},
		"checkInDate":  {q.CheckIn.String()},
		"checkOutDate": {q.CheckOut.String()},
	}
	var offers struct {
		Data []hotelOffer `json:"data"`
	}
	if err := c.get(ctx, "/v3/shopping/hotel-offers", offerParams, &offers); err != nil {
		if isRejection(err) {
			return nil, nil
		}
		return nil, err
	}

	nights := q.CheckIn.DaysUntil(q.CheckOut)
	results := make([]model.HotelOption, 0, len(offers.Data))
	for _, offer := range offers.Data {
		if len(offer.Offers) == 0 {
			continue
		}
		parsed := offer.toOption(nights)
		if parsed.PricePerNightUSD > 5000 || parsed.PricePerNightUSD < 1 {
			continue
		}
		parsed.CheckIn = q.CheckIn.String()
		parsed.CheckOut = q.CheckOut.String()
		parsed.Nights = nights
		results = append(results, parsed)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].TotalPriceUSD < results[j].TotalPriceUSD
	})
	if len(results) > maxOfferResults {
		results = results[:maxOfferResults]
	}
	return results, nil
}

type flightOffer struct {
	Itineraries []struct {
		Duration string `json:"duration"`
		Segments []struct {
			Departure struct {
				IataCode string    `json:"iataCode"`
				At       time.Time `json:"at"`
			} `json:"departure"`
			Arrival struct {
				IataCode string    `json:"iataCode"`
				At       time.Time `json:"at"`
			} `json:"arrival"`
			CarrierCode string `json:"carrierCode"`
			Number      string `json:"number"`
			Duration    string `json:"duration"`
		} `json:"segments"`
	} `json:"itineraries"`
	Price struct {
		GrandTotal string `json:"grandTotal"`
		Total      string `json:"total"`
		Currency   string `json:"currency"`
	} `json:"price"`
}

func (o flightOffer) toOption(travelers int) model.FlightOption {
	var legs []model.FlightLeg
	outboundLegCount := 0
	totalSegments := 0
	totalDuration := 0

	var outboundDuration, returnDuration, outboundStops, returnStops *int

	for idx, itin := range o.Itineraries {
		for _, seg := range itin.Segments {
			legs = append(legs, model.FlightLeg{
				DepartureAirport: seg.Departure.IataCode,
				ArrivalAirport:   seg.Arrival.IataCode,
				DepartureTime:    seg.Departure.At,
				ArrivalTime:      seg.Arrival.At,
				Airline:          seg.CarrierCode,
				FlightNumber:     seg.CarrierCode + seg.Number,
				DurationMinutes:  parseISODuration(seg.Duration),
			})
		}
		totalSegments += len(itin.Segments)
		dur := parseISODuration(itin.Duration)
		totalDuration += dur
		stops := len(itin.Segments) - 1
		if stops < 0 {
			stops = 0
		}
		switch idx {
		case 0:
			outboundLegCount = len(legs)
			outboundDuration = intPtr(dur)
			outboundStops = intPtr(stops)
		case 1:
			returnDuration = intPtr(dur)
			returnStops = intPtr(stops)
		}
	}

	price, _ := strconv.ParseFloat(firstNonEmpty(o.Price.GrandTotal, o.Price.Total), 64)
	stops := totalSegments - len(o.Itineraries)
	if stops < 0 {
		stops = 0
	}

	return model.FlightOption{
		Legs:                    legs,
		TotalPriceUSD:           price,
		Currency:                firstNonEmpty(o.Price.Currency, "USD"),
		Stops:                   stops,
		TotalDurationMinutes:    totalDuration,
		OutboundDurationMinutes: outboundDuration,
		ReturnDurationMinutes:   returnDuration,
		OutboundStops:           outboundStops,
		ReturnStops:             returnStops,
		OutboundLegCount:        outboundLegCount,
		Travelers:               travelers,
	}
}

type hotelOffer struct {
	Hotel struct {
		Name      string   `json:"name"`
		Rating    string   `json:"rating"`
		Amenities []string `json:"amenities"`
		Address   struct {
			Lines    []string `json:"lines"`
			CityName string   `json:"cityName"`
		} `json:"address"`
		HotelDistance struct {
			Distance float64 `json:"distance"`
		} `json:"hotelDistance"`
	} `json:"hotel"`
	Offers []struct {
		Price struct {
			Total    string `json:"total"`
			Currency string `json:"currency"`
		} `json:"price"`
	} `json:"offers"`
}

func (o hotelOffer) toOption(nights int) model.HotelOption {
	total, _ := strconv.ParseFloat(o.Offers[0].Price.Total, 64)
	if cur := o.Offers[0].Price.Currency; cur != "" && cur != "USD" {
		total = approximateUSD(total, cur)
	}
	perNight := total
	if nights > 0 {
		perNight = total / float64(nights)
	}

	rating, _ := strconv.ParseFloat(o.Hotel.Rating, 64)
	amenities := o.Hotel.Amenities
	if len(amenities) > 6 {
		amenities = amenities[:6]
	}

	address := strings.Join(o.Hotel.Address.Lines, ", ")
	if o.Hotel.Address.CityName != "" {
		if address != "" {
			address += ", "
		}
		address += o.Hotel.Address.CityName
	}

	return model.HotelOption{
		Name:               firstNonEmpty(o.Hotel.Name, "Unknown Hotel"),
		Address:            address,
		Rating:             rating,
		PricePerNightUSD:   round2(perNight),
		TotalPriceUSD:      round2(total),
		Amenities:          amenities,
		DistanceToCenterKm: o.Hotel.HotelDistance.Distance,
	}
}

// approximateUSD applies rough display-purpose conversion rates; the sandbox
// sometimes prices in local currency.
func approximateUSD(amount float64, currency string) float64 {
	rates := map[string]float64{
		"EUR": 1.08, "GBP": 1.27, "JPY": 0.0067, "CHF": 1.13,
		"CAD": 0.74, "AUD": 0.65, "KRW": 0.00075, "CNY": 0.14,
		"THB": 0.028, "MXN": 0.058, "INR": 0.012,
	}
	rate, ok := rates[currency]
	if !ok {
		rate = 1.0
	}
	return amount * rate
}

// parseISODuration parses an ISO 8601 duration like "PT11H30M" into minutes.
func parseISODuration(iso string) int {
	minutes := 0
	s := strings.TrimPrefix(iso, "PT")
	if i := strings.Index(s, "H"); i >= 0 {
		if h, err := strconv.Atoi(s[:i]); err == nil {
			minutes += h * 60
		}
		s = s[i+1:]
	}
	if i := strings.Index(s, "M"); i >= 0 {
		if m, err := strconv.Atoi(s[:i]); err == nil {
			minutes += m
		}
	}
	return minutes
}

func intPtr(v int) *int { return &v }

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
