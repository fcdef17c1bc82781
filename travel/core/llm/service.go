// Package llm provides a uniform completion capability over one or more
// OpenAI-compatible text-generation services, with schema-validated JSON
// decoding and ordered per-task fallback.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Response is a single completion result.
type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Provider is the uniform completion interface consumed by agents and the
// orchestrator. Implementations must be safe for concurrent use.
type Provider interface {
	// Name identifies the backing provider, e.g. "anthropic" or "openai".
	Name() string

	// Complete performs a synchronous completion.
	Complete(ctx context.Context, systemPrompt, userMessage string, maxTokens int) (*Response, error)

	// CompleteJSON performs a completion and strictly decodes the response
	// body into out. Malformed model output surfaces as a *DecodeError.
	CompleteJSON(ctx context.Context, systemPrompt, userMessage string, maxTokens int, out any) error
}

// ProviderConfig configures a single backing provider. All providers speak
// the OpenAI chat-completion protocol; Anthropic, DeepSeek, and Ollama are
// reached through their OpenAI-compatible endpoints.
type ProviderConfig struct {
	Name        string // anthropic, openai, deepseek, ollama
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32 // default: 0.7
	Timeout     int     // request timeout in seconds (default: 120)
}

type service struct {
	client      *openai.Client
	name        string
	model       string
	temperature float32
	timeout     int
}

// NewProvider creates a Provider from the given configuration.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm: provider %q requires a model", cfg.Name)
	}
	if cfg.APIKey == "" && cfg.Name != "ollama" {
		return nil, fmt.Errorf("llm: provider %q requires an API key", cfg.Name)
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = newHTTPClient()

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.7
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120
	}

	return &service{
		client:      openai.NewClientWithConfig(clientConfig),
		name:        cfg.Name,
		model:       cfg.Model,
		temperature: temperature,
		timeout:     timeout,
	}, nil
}

func (s *service) Name() string { return s.name }

func (s *service) Complete(ctx context.Context, systemPrompt, userMessage string, maxTokens int) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.timeout)*time.Second)
	defer cancel()

	if maxTokens <= 0 {
		maxTokens = 4096
	}

	slog.Debug("llm: completion request",
		"provider", s.name,
		"model", s.model,
		"max_tokens", maxTokens,
	)

	startTime := time.Now()

	req := openai.ChatCompletionRequest{
		Model:       s.model,
		MaxTokens:   maxTokens,
		Temperature: s.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		slog.Error("llm: completion failed", "provider", s.name, "error", err)
		return nil, fmt.Errorf("llm completion (%s): %w", s.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("llm completion (%s): empty response", s.name)
	}

	slog.Debug("llm: completion received",
		"provider", s.name,
		"content_length", len(resp.Choices[0].Message.Content),
		"total_tokens", resp.Usage.TotalTokens,
		"duration_ms", time.Since(startTime).Milliseconds(),
	)

	return &Response{
		Content:          resp.Choices[0].Message.Content,
		Model:            resp.Model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}

func (s *service) CompleteJSON(ctx context.Context, systemPrompt, userMessage string, maxTokens int, out any) error {
	resp, err := s.Complete(ctx, systemPrompt, userMessage, maxTokens)
	if err != nil {
		return err
	}
	return DecodeJSON(resp.Content, out)
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}
