package config

import "time"

// Default values for configuration fields.
const (
	// Translator defaults
	DefaultTarget = "language"

	// Batch defaults
	DefaultBatchConcurrency = 4

	// Watch defaults
	DefaultWatchDebounce = 200 * time.Millisecond

	// Archive defaults
	DefaultArchiveDriver      = "sqlite"
	DefaultArchivePath        = "data/translations.db"
	DefaultArchiveBusyTimeout = 5 * time.Second
	DefaultRetentionDays      = 30
	DefaultRetentionSchedule  = "0 3 * * *"

	// Telemetry defaults
	DefaultLoggingLevel        = "info"
	DefaultLoggingFormat       = "text"
	DefaultMetricsNamespace    = "polyglot"
	DefaultMetricsPath         = "/metrics"
	DefaultTracingServiceName  = "polyglot"
	DefaultTracingSamplingRate = 1.0
	DefaultTracingTimeout      = 10 * time.Second
)

// DefaultExtensions are the document extensions batch and watch mode pick up.
var DefaultExtensions = []string{".yaml", ".yml", ".json"}

// DefaultDurationBuckets are the translation duration histogram buckets in
// seconds. Translations of typical queries finish well under a millisecond.
var DefaultDurationBuckets = []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05}

// ApplyDefaults fills in default values for any unset configuration fields.
// This function modifies the config in place.
func ApplyDefaults(cfg *Config) {
	// Translator defaults
	if len(cfg.Translator.Targets) == 0 {
		cfg.Translator.Targets = []string{DefaultTarget}
	}

	// Batch defaults
	if cfg.Batch.Concurrency == 0 {
		cfg.Batch.Concurrency = DefaultBatchConcurrency
	}
	if len(cfg.Batch.Extensions) == 0 {
		cfg.Batch.Extensions = append([]string(nil), DefaultExtensions...)
	}

	// Watch defaults
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
	if len(cfg.Watch.Extensions) == 0 {
		cfg.Watch.Extensions = append([]string(nil), DefaultExtensions...)
	}

	// Archive defaults
	if cfg.Archive.Driver == "" {
		cfg.Archive.Driver = DefaultArchiveDriver
	}
	if cfg.Archive.Path == "" {
		cfg.Archive.Path = DefaultArchivePath
	}
	if cfg.Archive.BusyTimeout == 0 {
		cfg.Archive.BusyTimeout = DefaultArchiveBusyTimeout
	}
	if cfg.Archive.Retention.Days == 0 {
		cfg.Archive.Retention.Days = DefaultRetentionDays
	}
	if cfg.Archive.Retention.PruneSchedule == "" {
		cfg.Archive.Retention.PruneSchedule = DefaultRetentionSchedule
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		cfg.Telemetry.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSamplingRate
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
