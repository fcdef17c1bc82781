// Package travel wires the planning stack together from a profile: LLM
// provider router, research data sources, and the orchestrator.
package travel

import (
	"github.com/voyagerhq/voyager/internal/profile"
	"github.com/voyagerhq/voyager/travel/agents"
	"github.com/voyagerhq/voyager/travel/apis"
	"github.com/voyagerhq/voyager/travel/core/llm"
	"github.com/voyagerhq/voyager/travel/orchestrator"
)

// NewRouter builds the LLM provider router from profile credentials.
// Providers without credentials are skipped.
func NewRouter(p *profile.Profile) (*llm.Router, error) {
	cfg := &llm.Config{
		Providers: []llm.ProviderConfig{
			{Name: "anthropic", APIKey: p.AnthropicAPIKey, BaseURL: p.AnthropicBaseURL, Model: p.AnthropicModel, Timeout: p.LLMTimeout},
			{Name: "openai", APIKey: p.OpenAIAPIKey, BaseURL: p.OpenAIBaseURL, Model: p.OpenAIModel, Timeout: p.LLMTimeout},
			{Name: "deepseek", APIKey: p.DeepSeekAPIKey, BaseURL: p.DeepSeekBaseURL, Model: p.DeepSeekModel, Timeout: p.LLMTimeout},
		},
	}
	if p.OllamaBaseURL != "" {
		cfg.Providers = append(cfg.Providers, llm.ProviderConfig{
			Name: "ollama", BaseURL: p.OllamaBaseURL, Model: p.OllamaModel, Timeout: p.LLMTimeout,
		})
	}
	return llm.NewRouter(cfg)
}

// NewDataSources builds the research clients for whichever credentials the
// profile carries. The country lookup needs no key and is always present.
func NewDataSources(p *profile.Profile) orchestrator.DataSources {
	ds := orchestrator.DataSources{
		Countries: apis.NewCountriesClient(),
	}
	if p.HasAmadeus() {
		amadeus := apis.NewAmadeusClient(p.AmadeusClientID, p.AmadeusClientSecret)
		ds.Flights = amadeus
		ds.Hotels = amadeus
	}
	if p.TripAdvisorAPIKey != "" {
		ds.Activities = apis.NewTripAdvisorClient(p.TripAdvisorAPIKey)
	}
	if p.OpenWeatherMapKey != "" {
		ds.Forecasts = apis.NewOpenWeatherClient(p.OpenWeatherMapKey)
	}
	return ds
}

var _ agents.FlightSearcher = (*apis.AmadeusClient)(nil)
var _ agents.HotelSearcher = (*apis.AmadeusClient)(nil)
var _ agents.ActivitySearcher = (*apis.TripAdvisorClient)(nil)
var _ agents.ForecastProvider = (*apis.OpenWeatherClient)(nil)
var _ agents.CountryLookup = (*apis.CountriesClient)(nil)
