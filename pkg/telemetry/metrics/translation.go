package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"gremlin-hq/polyglot/pkg/config"
)

// TranslationMetrics tracks translation outcomes.
//
// Metrics:
//   - polyglot_translations_total: translations by target and outcome
//   - polyglot_translation_duration_seconds: translation duration by target
//   - polyglot_translation_parameters: parameters per successful translation
//   - polyglot_anonymized_placeholders_total: placeholders issued by family
type TranslationMetrics struct {
	translationsTotal *prometheus.CounterVec
	duration          *prometheus.HistogramVec
	parameters        *prometheus.HistogramVec
	placeholdersTotal *prometheus.CounterVec
}

// NewTranslationMetrics creates and registers translation metrics with the
// provided registry.
func NewTranslationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *TranslationMetrics {
	tm := &TranslationMetrics{
		translationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "translations_total",
				Help:      "Total number of translations by target and outcome",
			},
			[]string{"target", "outcome"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "translation_duration_seconds",
				Help:      "Duration of translations in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"target"},
		),

		parameters: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "translation_parameters",
				Help:      "Number of variable parameters per successful translation",
				Buckets:   []float64{0, 1, 2, 4, 8, 16, 32},
			},
			[]string{"target"},
		),

		placeholdersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "anonymized_placeholders_total",
				Help:      "Total number of anonymized placeholders issued by family",
			},
			[]string{"family"},
		),
	}

	registry.MustRegister(
		tm.translationsTotal,
		tm.duration,
		tm.parameters,
		tm.placeholdersTotal,
	)

	return tm
}

// RecordTranslation records one translation. Parameters are observed for
// successful translations only.
func (tm *TranslationMetrics) RecordTranslation(target, outcome string, d time.Duration, parameters int) {
	tm.translationsTotal.WithLabelValues(target, outcome).Inc()
	tm.duration.WithLabelValues(target).Observe(d.Seconds())
	if outcome == OutcomeSuccess {
		tm.parameters.WithLabelValues(target).Observe(float64(parameters))
	}
}

// RecordPlaceholders adds n placeholders to family.
func (tm *TranslationMetrics) RecordPlaceholders(family string, n int) {
	if n > 0 {
		tm.placeholdersTotal.WithLabelValues(family).Add(float64(n))
	}
}
