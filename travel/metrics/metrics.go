// Package metrics exposes prometheus counters for orchestration outcomes.
// Incrementing them is side-effect-only and never affects control flow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all voyager collectors. Callers may expose it over HTTP or
// ignore it entirely.
var Registry = prometheus.NewRegistry()

var (
	// AgentRuns counts research agent dispatches by terminal status
	// ("ok", "failed", "skipped").
	AgentRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "voyager",
			Name:      "agent_runs_total",
			Help:      "Research agent dispatches by agent name and status.",
		},
		[]string{"agent", "status"},
	)

	// LLMFallbacks counts provider fallbacks per task kind.
	LLMFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "voyager",
			Name:      "llm_fallbacks_total",
			Help:      "LLM provider fallbacks by task kind.",
		},
		[]string{"task"},
	)
)

func init() {
	Registry.MustRegister(AgentRuns, LLMFallbacks)
}
