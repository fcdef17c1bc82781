package apis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/voyagerhq/voyager/travel/model"
)

const tripAdvisorBaseURL = "https://api.content.tripadvisor.com/api/v1"

// TripAdvisorClient searches the TripAdvisor Content API for attractions and
// restaurants. Detail lookups are rate limited; the content API quota is
// per-call, not per-search.
type TripAdvisorClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewTripAdvisorClient creates a client with the given API key.
func NewTripAdvisorClient(apiKey string) *TripAdvisorClient {
	return &TripAdvisorClient{
		apiKey:     apiKey,
		baseURL:    tripAdvisorBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
	}
}

// SearchActivities returns up to maxResults activities for a destination,
// drawn from the attraction and restaurant categories. Individual detail
// lookup failures are skipped silently.
func (c *TripAdvisorClient) SearchActivities(ctx context.Context, destination string, maxResults int) ([]model.Activity, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	var activities []model.Activity
	for _, category := range []string{"attractions", "restaurants"} {
		ids, err := c.locationSearch(ctx, destination, category, maxResults)
		if err != nil {
			slog.Debug("tripadvisor: search failed", "category", category, "error", err)
			continue
		}
		for _, id := range ids {
			act, err := c.locationDetails(ctx, id)
			if err != nil || act == nil {
				continue
			}
			activities = append(activities, *act)
		}
	}

	if len(activities) > maxResults {
		activities = activities[:maxResults]
	}
	return activities, nil
}

func (c *TripAdvisorClient) locationSearch(ctx context.Context, query, category string, limit int) ([]string, error) {
	params := url.Values{
		"key":         {c.apiKey},
		"searchQuery": {query},
		"category":    {category},
	}
	var payload struct {
		Data []struct {
			LocationID string `json:"location_id"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/location/search", params, &payload); err != nil {
		return nil, err
	}

	ids := make([]string, 0, limit)
	for _, loc := range payload.Data {
		if loc.LocationID == "" {
			continue
		}
		ids = append(ids, loc.LocationID)
		if len(ids) == limit {
			break
		}
	}
	return ids, nil
}

func (c *TripAdvisorClient) locationDetails(ctx context.Context, locationID string) (*model.Activity, error) {
	params := url.Values{"key": {c.apiKey}}
	var detail struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Rating      string `json:"rating"`
		PriceLevel  string `json:"price_level"`
		WebURL      string `json:"web_url"`
		Category    struct {
			Name string `json:"name"`
		} `json:"category"`
		AddressObj struct {
			AddressString string `json:"address_string"`
		} `json:"address_obj"`
	}
	if err := c.get(ctx, "/location/"+locationID+"/details", params, &detail); err != nil {
		return nil, err
	}

	name := detail.Name
	if name == "" {
		name = "Unknown"
	}
	description := detail.Description
	if description == "" {
		description = name
	}
	rating, _ := strconv.ParseFloat(detail.Rating, 64)

	return &model.Activity{
		Name:        name,
		Category:    normalizeCategory(detail.Category.Name),
		Description: description,
		Rating:      rating,
		PriceLevel:  detail.PriceLevel,
		Address:     detail.AddressObj.AddressString,
		URL:         detail.WebURL,
	}, nil
}

func (c *TripAdvisorClient) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tripadvisor %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tripadvisor %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func normalizeCategory(raw string) string {
	lower := strings.ToLower(raw)
	for key, mapped := range map[string]string{
		"restaurant": "restaurant",
		"hotel":      "hotel",
		"attraction": "attraction",
		"geographic": "area",
	} {
		if strings.Contains(lower, key) {
			return mapped
		}
	}
	if lower == "" {
		return "other"
	}
	return lower
}
