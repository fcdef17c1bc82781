package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/voyagerhq/voyager/travel/metrics"
)

// ErrNoProvider is returned when no provider is configured for a task, or
// when every provider in a task's fallback chain has failed. It is
// distinguishable from an individual provider failure via errors.Is.
var ErrNoProvider = errors.New("no llm provider available")

// TaskKind selects the provider preference order for a call.
type TaskKind string

const (
	TaskPlanning TaskKind = "planning"
	TaskResearch TaskKind = "research"
	TaskWriting  TaskKind = "writing"
	TaskDefault  TaskKind = "default"
)

// DefaultTaskOrder maps task kinds to provider names in priority order.
// This is configuration, not logic; callers may override it in Config.
var DefaultTaskOrder = map[TaskKind][]string{
	TaskPlanning: {"anthropic", "openai", "deepseek", "ollama"},
	TaskResearch: {"openai", "anthropic", "deepseek", "ollama"},
	TaskWriting:  {"anthropic", "openai", "deepseek", "ollama"},
	TaskDefault:  {"anthropic", "openai", "deepseek", "ollama"},
}

// Config configures the Router: the set of backing providers and the
// task-to-provider-order mapping.
type Config struct {
	Providers []ProviderConfig
	TaskOrder map[TaskKind][]string // nil: DefaultTaskOrder
}

// Router hands out providers per task kind with ordered fallback.
type Router struct {
	providers map[string]Provider
	taskOrder map[TaskKind][]string
}

// NewRouter builds providers from cfg. Provider configs without credentials
// are skipped; at least one provider must remain.
func NewRouter(cfg *Config) (*Router, error) {
	providers := make(map[string]Provider)
	for _, pc := range cfg.Providers {
		if pc.APIKey == "" && pc.Name != "ollama" {
			continue
		}
		p, err := NewProvider(pc)
		if err != nil {
			return nil, fmt.Errorf("llm: build provider %q: %w", pc.Name, err)
		}
		providers[pc.Name] = p
	}
	if len(providers) == 0 {
		return nil, ErrNoProvider
	}

	taskOrder := cfg.TaskOrder
	if taskOrder == nil {
		taskOrder = DefaultTaskOrder
	}

	slog.Info("llm: router ready", "providers", len(providers))
	return &Router{providers: providers, taskOrder: taskOrder}, nil
}

// NewStaticRouter wraps already-built providers. It lets callers route to
// custom Provider implementations.
func NewStaticRouter(providers map[string]Provider, taskOrder map[TaskKind][]string) *Router {
	if taskOrder == nil {
		taskOrder = DefaultTaskOrder
	}
	return &Router{providers: providers, taskOrder: taskOrder}
}

// Provider returns the provider chain for the given task kind. With one
// configured provider it is returned directly; with several, a fallback
// wrapper tries each in the task's priority order.
func (r *Router) Provider(kind TaskKind) (Provider, error) {
	order, ok := r.taskOrder[kind]
	if !ok {
		order = r.taskOrder[TaskDefault]
	}

	var chain []Provider
	for _, name := range order {
		if p, ok := r.providers[name]; ok {
			chain = append(chain, p)
		}
	}
	if len(chain) == 0 {
		return nil, fmt.Errorf("%w for task %q", ErrNoProvider, kind)
	}
	if len(chain) == 1 {
		return chain[0], nil
	}
	return &fallbackProvider{task: kind, chain: chain}, nil
}

// fallbackProvider tries each provider in order and fails only when the
// whole chain is exhausted.
type fallbackProvider struct {
	task  TaskKind
	chain []Provider
}

func (f *fallbackProvider) Name() string { return "fallback(" + string(f.task) + ")" }

func (f *fallbackProvider) Complete(ctx context.Context, systemPrompt, userMessage string, maxTokens int) (*Response, error) {
	var lastErr error
	for i, p := range f.chain {
		resp, err := p.Complete(ctx, systemPrompt, userMessage, maxTokens)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if i < len(f.chain)-1 {
			metrics.LLMFallbacks.WithLabelValues(string(f.task)).Inc()
			slog.Warn("llm: provider failed, falling back",
				"task", f.task,
				"provider", p.Name(),
				"next", f.chain[i+1].Name(),
				"error", err,
			)
		}
	}
	return nil, fmt.Errorf("%w: last error: %v", ErrNoProvider, lastErr)
}

func (f *fallbackProvider) CompleteJSON(ctx context.Context, systemPrompt, userMessage string, maxTokens int, out any) error {
	var lastErr error
	for i, p := range f.chain {
		err := p.CompleteJSON(ctx, systemPrompt, userMessage, maxTokens, out)
		if err == nil {
			return nil
		}
		// A decode error means the provider answered; retrying the next
		// provider on malformed output is still worthwhile.
		lastErr = err
		if i < len(f.chain)-1 {
			metrics.LLMFallbacks.WithLabelValues(string(f.task)).Inc()
			slog.Warn("llm: provider failed, falling back",
				"task", f.task,
				"provider", p.Name(),
				"next", f.chain[i+1].Name(),
				"error", err,
			)
		}
	}
	var decodeErr *DecodeError
	if errors.As(lastErr, &decodeErr) {
		return lastErr
	}
	return fmt.Errorf("%w: last error: %v", ErrNoProvider, lastErr)
}
