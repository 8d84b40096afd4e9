package config

import "time"

// Config is the root configuration structure for polyglot.
// It is loaded from YAML and can be overridden with environment variables.
type Config struct {
	// Translator contains the translation defaults.
	Translator TranslatorConfig `yaml:"translator"`

	// Strategies contains strategy registry settings.
	Strategies StrategiesConfig `yaml:"strategies"`

	// Batch contains settings for translating directories of documents.
	Batch BatchConfig `yaml:"batch"`

	// Watch contains settings for watch mode.
	Watch WatchConfig `yaml:"watch"`

	// Archive contains settings for the translation archive.
	Archive ArchiveConfig `yaml:"archive"`

	// Telemetry contains observability settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// TranslatorConfig contains translation defaults.
type TranslatorConfig struct {
	// Targets are the target names used when a command names none.
	// Default: ["language"]
	Targets []string `yaml:"targets"`

	// SourceName overrides the traversal source identifier of every
	// translated query. Empty keeps the name found in the document.
	SourceName string `yaml:"source_name"`

	// LogAnonymized logs the anonymized rendering of each translated query
	// at debug level.
	// Default: false
	LogAnonymized bool `yaml:"log_anonymized"`

	// Families overrides the anonymizer placeholder family per literal
	// class, for example {"Integer": "number", "Long": "number"}.
	Families map[string]string `yaml:"families"`
}

// StrategiesConfig contains strategy registry settings.
type StrategiesConfig struct {
	// Disabled lists built-in strategies removed from the registry before
	// it is sealed.
	Disabled []string `yaml:"disabled"`
}

// BatchConfig contains settings for batch translation.
type BatchConfig struct {
	// Concurrency is the maximum number of documents translated at once.
	// Default: 4
	Concurrency int `yaml:"concurrency"`

	// Extensions are the file extensions collected from a directory.
	// Default: [".yaml", ".yml", ".json"]
	Extensions []string `yaml:"extensions"`

	// FailFast stops the batch at the first failed document.
	// Default: false
	FailFast bool `yaml:"fail_fast"`
}

// WatchConfig contains settings for watch mode.
type WatchConfig struct {
	// Paths are the files and directories to watch.
	Paths []string `yaml:"paths"`

	// Debounce is the quiet period after the last change to a file before
	// it is translated.
	// Default: 200ms
	Debounce time.Duration `yaml:"debounce"`

	// Extensions are the file extensions that trigger translation.
	// Default: [".yaml", ".yml", ".json"]
	Extensions []string `yaml:"extensions"`

	// OutputDir receives the translated files. Empty writes next to the
	// source document.
	OutputDir string `yaml:"output_dir"`

	// IncludeHidden also translates dot-files.
	// Default: false
	IncludeHidden bool `yaml:"include_hidden"`

	// Initial translates every existing document when watching starts.
	// Default: false
	Initial bool `yaml:"initial"`
}

// ArchiveConfig contains settings for the translation archive.
type ArchiveConfig struct {
	// Enabled controls whether translations are recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Driver selects the storage backend.
	// Options: "sqlite" (pure Go), "sqlite3" (cgo), "memory"
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the SQLite database file.
	// Default: "data/translations.db"
	Path string `yaml:"path"`

	// WALMode enables write-ahead logging. Nil means enabled.
	WALMode *bool `yaml:"wal_mode"`

	// BusyTimeout is how long SQLite waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// Retention controls how long records are kept.
	Retention RetentionConfig `yaml:"retention"`
}

// WAL reports whether write-ahead logging is enabled.
func (c *ArchiveConfig) WAL() bool {
	return c.WALMode == nil || *c.WALMode
}

// RetentionConfig contains archive retention settings.
type RetentionConfig struct {
	// Days is how long records are kept. 0 keeps records forever.
	// Default: 30
	Days int `yaml:"days"`

	// PruneSchedule is a cron expression for automatic pruning.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`

	// MaxRecords caps the number of records. 0 means unlimited.
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	AddSource bool `yaml:"add_source"`

	// ShowLiterals disables redaction of quoted literal text in log
	// attributes.
	// Default: false
	ShowLiterals bool `yaml:"show_literals"`

	// RedactPatterns contains additional redaction patterns.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern defines a custom redaction pattern.
type RedactPattern struct {
	// Name is a descriptive name for the pattern.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`

	// Replacement is the string to replace matches with.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and exposed.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "polyglot"
	Namespace string `yaml:"namespace"`

	// ListenAddress serves the Prometheus endpoint in watch mode. Empty
	// disables the endpoint.
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path of the Prometheus endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// TextfilePath receives metrics in the Prometheus text format after
	// batch runs, for the node exporter textfile collector.
	TextfilePath string `yaml:"textfile_path"`

	// DurationBuckets are the translation duration histogram buckets in
	// seconds.
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "polyglot"
	ServiceName string `yaml:"service_name"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Insecure disables TLS for the OTLP connection.
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}
