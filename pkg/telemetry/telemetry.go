package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"gremlin-hq/polyglot/pkg/config"
	"gremlin-hq/polyglot/pkg/telemetry/health"
	"gremlin-hq/polyglot/pkg/telemetry/logging"
	"gremlin-hq/polyglot/pkg/telemetry/metrics"
	"gremlin-hq/polyglot/pkg/telemetry/tracing"
)

// Telemetry holds the logger, metrics collector, tracer and health checker
// of one process.
type Telemetry struct {
	config  *config.TelemetryConfig
	logger  *slog.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
	health  *health.Checker
	version health.VersionInfo
}

// New builds the telemetry stack from cfg. Logs are written to w.
func New(cfg *config.TelemetryConfig, w io.Writer, version health.VersionInfo, opts ...tracing.Option) (*Telemetry, error) {
	logger, err := logging.New(logging.FromConfig(cfg.Logging, w))
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	opts = append([]tracing.Option{tracing.WithServiceVersion(version.Version)}, opts...)
	tracer, err := tracing.New(&cfg.Tracing, opts...)
	if err != nil {
		return nil, fmt.Errorf("tracing: %w", err)
	}

	return &Telemetry{
		config:  cfg,
		logger:  logger,
		metrics: metrics.NewCollector(&cfg.Metrics, prometheus.NewRegistry()),
		tracer:  tracer,
		health:  health.New(2 * time.Second),
		version: version,
	}, nil
}

// Logger returns the root logger.
func (t *Telemetry) Logger() *slog.Logger { return t.logger }

// Metrics returns the metrics collector.
func (t *Telemetry) Metrics() *metrics.Collector { return t.metrics }

// Tracer returns the tracer.
func (t *Telemetry) Tracer() *tracing.Tracer { return t.tracer }

// Health returns the readiness checker.
func (t *Telemetry) Health() *health.Checker { return t.health }

// Handler returns the status endpoint mux: metrics at the configured path
// plus /health, /ready and /version.
func (t *Telemetry) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(t.config.Metrics.Path, t.metrics.Handler())
	health.Mount(mux, t.health, t.version)
	return mux
}

// WriteTextfile writes the metrics textfile when one is configured.
func (t *Telemetry) WriteTextfile() error {
	if !t.config.Metrics.Enabled || t.config.Metrics.TextfilePath == "" {
		return nil
	}
	return t.metrics.WriteTextfile(t.config.Metrics.TextfilePath)
}

// Shutdown flushes the metrics textfile and pending spans.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return errors.Join(t.WriteTextfile(), t.tracer.Shutdown(ctx))
}
