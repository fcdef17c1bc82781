package profile

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the process configuration, built once at startup and passed by
// reference into the orchestrator and provider factories. There is no ambient
// global configuration anywhere else in the codebase.
type Profile struct {
	// LLM provider credentials. A provider is considered configured when its
	// API key is non-empty (ollama needs only a base URL).
	AnthropicAPIKey  string
	AnthropicBaseURL string
	AnthropicModel   string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAIModel      string
	DeepSeekAPIKey   string
	DeepSeekBaseURL  string
	DeepSeekModel    string
	OllamaBaseURL    string
	OllamaModel      string

	// LLMTimeout is the per-request timeout in seconds (default: 120).
	LLMTimeout int

	// Travel data source credentials. Absence triggers the LLM-estimate
	// fallback inside the corresponding research agent.
	AmadeusClientID     string
	AmadeusClientSecret string
	TripAdvisorAPIKey   string
	OpenWeatherMapKey   string

	Mode      string // "prod" or "dev"
	Data      string // data directory for the saved-trip store
	OutputDir string // directory for exported itineraries
	Version   string
}

// Default base URLs and models per provider, applied when not explicitly set.
var llmProviderDefaults = map[string]struct {
	BaseURL string
	Model   string
}{
	"anthropic": {
		BaseURL: "https://api.anthropic.com/v1",
		Model:   "claude-sonnet-4-20250514",
	},
	"openai": {
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o",
	},
	"deepseek": {
		BaseURL: "https://api.deepseek.com",
		Model:   "deepseek-chat",
	},
	"ollama": {
		BaseURL: "http://localhost:11434/v1",
		Model:   "llama3.1",
	},
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// HasLLMProvider returns true if at least one LLM provider is configured.
func (p *Profile) HasLLMProvider() bool {
	return p.AnthropicAPIKey != "" || p.OpenAIAPIKey != "" || p.DeepSeekAPIKey != "" || p.OllamaBaseURL != ""
}

// HasAmadeus returns true if Amadeus flight/hotel search credentials are set.
func (p *Profile) HasAmadeus() bool {
	return p.AmadeusClientID != "" && p.AmadeusClientSecret != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
func (p *Profile) FromEnv() {
	p.AnthropicAPIKey = getEnvOrDefault("VOYAGER_ANTHROPIC_API_KEY", os.Getenv("ANTHROPIC_API_KEY"))
	p.AnthropicBaseURL = getEnvOrDefault("VOYAGER_ANTHROPIC_BASE_URL", "")
	p.AnthropicModel = getEnvOrDefault("VOYAGER_ANTHROPIC_MODEL", "")
	p.OpenAIAPIKey = getEnvOrDefault("VOYAGER_OPENAI_API_KEY", os.Getenv("OPENAI_API_KEY"))
	p.OpenAIBaseURL = getEnvOrDefault("VOYAGER_OPENAI_BASE_URL", "")
	p.OpenAIModel = getEnvOrDefault("VOYAGER_OPENAI_MODEL", "")
	p.DeepSeekAPIKey = getEnvOrDefault("VOYAGER_DEEPSEEK_API_KEY", "")
	p.DeepSeekBaseURL = getEnvOrDefault("VOYAGER_DEEPSEEK_BASE_URL", "")
	p.DeepSeekModel = getEnvOrDefault("VOYAGER_DEEPSEEK_MODEL", "")
	p.OllamaBaseURL = getEnvOrDefault("VOYAGER_OLLAMA_BASE_URL", "")
	p.OllamaModel = getEnvOrDefault("VOYAGER_OLLAMA_MODEL", "")
	p.LLMTimeout = getEnvOrDefaultInt("VOYAGER_LLM_TIMEOUT_SECONDS", 120)

	p.AmadeusClientID = getEnvOrDefault("VOYAGER_AMADEUS_CLIENT_ID", os.Getenv("AMADEUS_CLIENT_ID"))
	p.AmadeusClientSecret = getEnvOrDefault("VOYAGER_AMADEUS_CLIENT_SECRET", os.Getenv("AMADEUS_CLIENT_SECRET"))
	p.TripAdvisorAPIKey = getEnvOrDefault("VOYAGER_TRIPADVISOR_API_KEY", os.Getenv("TRIPADVISOR_API_KEY"))
	p.OpenWeatherMapKey = getEnvOrDefault("VOYAGER_OPENWEATHERMAP_API_KEY", os.Getenv("OPENWEATHERMAP_API_KEY"))

	applyDefaults := func(baseURL, model *string, provider string) {
		defaults := llmProviderDefaults[provider]
		if *baseURL == "" {
			*baseURL = defaults.BaseURL
		}
		if *model == "" {
			*model = defaults.Model
		}
	}
	applyDefaults(&p.AnthropicBaseURL, &p.AnthropicModel, "anthropic")
	applyDefaults(&p.OpenAIBaseURL, &p.OpenAIModel, "openai")
	applyDefaults(&p.DeepSeekBaseURL, &p.DeepSeekModel, "deepseek")
	if p.OllamaBaseURL != "" && p.OllamaModel == "" {
		p.OllamaModel = llmProviderDefaults["ollama"].Model
	}

	if !p.HasLLMProvider() {
		slog.Warn("no LLM provider configured; set VOYAGER_ANTHROPIC_API_KEY or VOYAGER_OPENAI_API_KEY")
	}
}

// Validate checks the profile and normalizes directory paths.
func (p *Profile) Validate() error {
	if p.Mode != "prod" && p.Mode != "dev" {
		p.Mode = "dev"
	}

	if !p.HasLLMProvider() {
		return errors.New("no LLM provider configured: set VOYAGER_ANTHROPIC_API_KEY, VOYAGER_OPENAI_API_KEY, VOYAGER_DEEPSEEK_API_KEY, or VOYAGER_OLLAMA_BASE_URL")
	}

	if p.Data == "" {
		p.Data = "."
	}
	dataDir, err := checkDir(p.Data, true)
	if err != nil {
		return err
	}
	p.Data = dataDir

	if p.OutputDir == "" {
		p.OutputDir = "output"
	}
	outDir, err := checkDir(p.OutputDir, true)
	if err != nil {
		return err
	}
	p.OutputDir = outDir

	return nil
}

func checkDir(dir string, create bool) (string, error) {
	if !filepath.IsAbs(dir) {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return "", err
		}
		dir = absDir
	}
	dir = strings.TrimRight(dir, "\\/")
	if _, err := os.Stat(dir); err != nil {
		if !create {
			return "", errors.Wrapf(err, "unable to access folder %s", dir)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", errors.Wrapf(err, "unable to create folder %s", dir)
		}
	}
	return dir, nil
}
