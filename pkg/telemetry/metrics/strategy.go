package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"gremlin-hq/polyglot/pkg/config"
)

// StrategyMetrics tracks strategy construction.
//
// Metrics:
//   - polyglot_strategy_constructions_total: constructions by strategy, kind
//     and outcome
type StrategyMetrics struct {
	constructionsTotal *prometheus.CounterVec
}

// NewStrategyMetrics creates and registers strategy metrics with the
// provided registry.
func NewStrategyMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *StrategyMetrics {
	sm := &StrategyMetrics{
		constructionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "strategy_constructions_total",
				Help:      "Total number of strategy constructions by strategy, kind and outcome",
			},
			[]string{"strategy", "kind", "outcome"},
		),
	}

	registry.MustRegister(sm.constructionsTotal)
	return sm
}

// RecordConstruction records one construction attempt.
func (sm *StrategyMetrics) RecordConstruction(name, kind, outcome string) {
	sm.constructionsTotal.WithLabelValues(name, kind, outcome).Inc()
}
