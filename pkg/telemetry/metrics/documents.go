package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"gremlin-hq/polyglot/pkg/config"
)

// DocumentMetrics tracks tree documents processed by batch and watch mode.
//
// Metrics:
//   - polyglot_documents_total: documents by mode and outcome
//   - polyglot_document_duration_seconds: time to translate a document to
//     every target
//   - polyglot_last_run_timestamp_seconds: completion time of the last run
type DocumentMetrics struct {
	documentsTotal *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	lastRun        *prometheus.GaugeVec
}

// NewDocumentMetrics creates and registers document metrics with the
// provided registry.
func NewDocumentMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *DocumentMetrics {
	dm := &DocumentMetrics{
		documentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "documents_total",
				Help:      "Total number of documents processed by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "document_duration_seconds",
				Help:      "Duration of translating one document to every target",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"mode"},
		),

		lastRun: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time the last run completed",
			},
			[]string{"mode"},
		),
	}

	registry.MustRegister(dm.documentsTotal, dm.duration, dm.lastRun)
	return dm
}

// RecordDocument records one processed document.
func (dm *DocumentMetrics) RecordDocument(mode, outcome string, d time.Duration) {
	dm.documentsTotal.WithLabelValues(mode, outcome).Inc()
	dm.duration.WithLabelValues(mode).Observe(d.Seconds())
}
