package apis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/voyagerhq/voyager/travel/model"
)

const restCountriesBaseURL = "https://restcountries.com/v3.1"

// CountriesClient looks up country facts from the REST Countries API.
// No credentials are needed.
type CountriesClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewCountriesClient creates a client with default settings.
func NewCountriesClient() *CountriesClient {
	return &CountriesClient{
		baseURL:    restCountriesBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Lookup returns the factual part of a DestinationInfo for the given city and
// country. Advisory fields (visa, tips, emergency number) are left empty for
// the caller to fill. A miss returns (nil, nil).
func (c *CountriesClient) Lookup(ctx context.Context, city, country string) (*model.DestinationInfo, error) {
	endpoint := c.baseURL + "/name/" + url.PathEscape(country) + "?fullText=false"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("restcountries: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		slog.Debug("restcountries: non-OK response", "country", country, "status", resp.StatusCode)
		return nil, nil
	}

	var data []countryRecord
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("restcountries: decode: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	rec := data[0]

	currencyCode, currencyName, currencySymbol := rec.primaryCurrency()
	currency := currencyName
	if currencyCode != "" {
		if currency == "" {
			currency = currencyCode
		}
		currency = fmt.Sprintf("%s (%s)", currency, currencyCode)
	}

	name := rec.Name.Common
	if name == "" {
		name = country
	}

	return &model.DestinationInfo{
		Country:        name,
		City:           city,
		Currency:       currency,
		CurrencySymbol: currencySymbol,
		Language:       rec.primaryLanguage(),
		Timezone:       rec.primaryTimezone(),
	}, nil
}

type countryRecord struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	Currencies map[string]struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"currencies"`
	Languages map[string]string `json:"languages"`
	Timezones []string          `json:"timezones"`
}

func (r countryRecord) primaryCurrency() (code, name, symbol string) {
	codes := make([]string, 0, len(r.Currencies))
	for c := range r.Currencies {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	if len(codes) == 0 {
		return "", "", ""
	}
	cur := r.Currencies[codes[0]]
	return codes[0], cur.Name, cur.Symbol
}

func (r countryRecord) primaryLanguage() string {
	codes := make([]string, 0, len(r.Languages))
	for c := range r.Languages {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	if len(codes) == 0 {
		return "Unknown"
	}
	return r.Languages[codes[0]]
}

func (r countryRecord) primaryTimezone() string {
	if len(r.Timezones) == 0 {
		return "Unknown"
	}
	return r.Timezones[0]
}
