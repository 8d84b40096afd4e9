package metrics

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"gremlin-hq/polyglot/pkg/config"
	"gremlin-hq/polyglot/pkg/strategy"
	"gremlin-hq/polyglot/pkg/translator"
)

// Outcome label values.
const (
	OutcomeSuccess              = "success"
	OutcomeUnsupportedLiteral   = "unsupported_literal"
	OutcomeInvalidLiteral       = "invalid_literal"
	OutcomeUnregisteredStrategy = "unregistered_strategy"
	OutcomeConstructionFailed   = "construction_failed"
	OutcomeError                = "error"
)

// otherStrategy replaces strategy names once the cardinality limit is hit.
const otherStrategy = "other"

// Collector owns the Prometheus metrics of polyglot. It implements
// translator.Observer and strategy.Observer, so it can be handed to the
// translation driver and the strategy resolver directly.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	translation *TranslationMetrics
	strategy    *StrategyMetrics
	documents   *DocumentMetrics

	// Strategy names come from user documents; unregistered names are
	// capped so that typos cannot grow the label space without bound.
	strategyNames *CardinalityLimiter
}

var (
	_ translator.Observer = (*Collector)(nil)
	_ strategy.Observer   = (*Collector)(nil)
)

// NewCollector creates a collector and registers its metrics with registry.
// If registry is nil a fresh registry is created. Missing namespace and
// buckets take the configuration defaults.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := *cfg
	if c.Namespace == "" {
		c.Namespace = config.DefaultMetricsNamespace
	}
	if len(c.DurationBuckets) == 0 {
		c.DurationBuckets = config.DefaultDurationBuckets
	}

	return &Collector{
		config:        &c,
		registry:      registry,
		translation:   NewTranslationMetrics(&c, registry),
		strategy:      NewStrategyMetrics(&c, registry),
		documents:     NewDocumentMetrics(&c, registry),
		strategyNames: NewCardinalityLimiter(256),
	}
}

// ObserveTranslation records one translation attempt.
func (c *Collector) ObserveTranslation(target string, d time.Duration, parameters int, err error) {
	if !c.config.Enabled {
		return
	}
	c.translation.RecordTranslation(target, TranslationOutcome(err), d, parameters)
}

// ObservePlaceholders records n anonymized placeholders issued for family.
func (c *Collector) ObservePlaceholders(family string, n int) {
	if !c.config.Enabled {
		return
	}
	c.translation.RecordPlaceholders(family, n)
}

// ObserveConstruction records one strategy construction attempt.
func (c *Collector) ObserveConstruction(name string, kind strategy.Kind, err error) {
	if !c.config.Enabled {
		return
	}
	if !c.strategyNames.Allow(name) {
		name = otherStrategy
	}
	c.strategy.RecordConstruction(name, kind.String(), ConstructionOutcome(err))
}

// ObserveDocument records a document processed in the given mode ("batch"
// or "watch").
func (c *Collector) ObserveDocument(mode string, d time.Duration, err error) {
	if !c.config.Enabled {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	c.documents.RecordDocument(mode, outcome, d)
}

// ObserveRun records the completion time of a batch run.
func (c *Collector) ObserveRun(mode string, at time.Time) {
	if !c.config.Enabled {
		return
	}
	c.documents.lastRun.WithLabelValues(mode).Set(float64(at.Unix()))
}

// Registry returns the registry the collector's metrics are registered with.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// TranslationOutcome maps a translation error to its outcome label.
func TranslationOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, translator.ErrUnsupportedLiteral):
		return OutcomeUnsupportedLiteral
	case errors.Is(err, translator.ErrInvalidLiteral):
		return OutcomeInvalidLiteral
	case errors.Is(err, strategy.ErrUnregisteredStrategy):
		return OutcomeUnregisteredStrategy
	default:
		return OutcomeError
	}
}

// ConstructionOutcome maps a strategy construction error to its outcome
// label.
func ConstructionOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, strategy.ErrUnregisteredStrategy):
		return OutcomeUnregisteredStrategy
	case errors.Is(err, strategy.ErrStrategyConstruction):
		return OutcomeConstructionFailed
	default:
		return OutcomeError
	}
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether value may be used as a label. Values seen before
// are always allowed; new values are allowed until the limit is reached.
func (cl *CardinalityLimiter) Allow(value string) bool {
	cl.mu.RLock()
	_, exists := cl.current[value]
	cl.mu.RUnlock()
	if exists {
		return true
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[value]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}
	cl.current[value] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}

