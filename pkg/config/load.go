package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// An empty path yields the defaults. The configuration is not modified by
// environment variables; use LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention POLYGLOT_SECTION_FIELD (e.g., POLYGLOT_ARCHIVE_DRIVER).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg, os.Getenv)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Malformed numbers, booleans and durations are ignored. List values are
// comma separated.
func applyEnvOverrides(cfg *Config, getenv func(string) string) {
	env := envReader{getenv: getenv}

	// Translator overrides
	env.setList("POLYGLOT_TRANSLATOR_TARGETS", &cfg.Translator.Targets)
	env.setString("POLYGLOT_TRANSLATOR_SOURCE_NAME", &cfg.Translator.SourceName)
	env.setBool("POLYGLOT_TRANSLATOR_LOG_ANONYMIZED", &cfg.Translator.LogAnonymized)

	// Strategy overrides
	env.setList("POLYGLOT_STRATEGIES_DISABLED", &cfg.Strategies.Disabled)

	// Batch overrides
	env.setInt("POLYGLOT_BATCH_CONCURRENCY", &cfg.Batch.Concurrency)
	env.setList("POLYGLOT_BATCH_EXTENSIONS", &cfg.Batch.Extensions)
	env.setBool("POLYGLOT_BATCH_FAIL_FAST", &cfg.Batch.FailFast)

	// Watch overrides
	env.setList("POLYGLOT_WATCH_PATHS", &cfg.Watch.Paths)
	env.setDuration("POLYGLOT_WATCH_DEBOUNCE", &cfg.Watch.Debounce)
	env.setList("POLYGLOT_WATCH_EXTENSIONS", &cfg.Watch.Extensions)
	env.setString("POLYGLOT_WATCH_OUTPUT_DIR", &cfg.Watch.OutputDir)
	env.setBool("POLYGLOT_WATCH_INCLUDE_HIDDEN", &cfg.Watch.IncludeHidden)
	env.setBool("POLYGLOT_WATCH_INITIAL", &cfg.Watch.Initial)

	// Archive overrides
	env.setBool("POLYGLOT_ARCHIVE_ENABLED", &cfg.Archive.Enabled)
	env.setString("POLYGLOT_ARCHIVE_DRIVER", &cfg.Archive.Driver)
	env.setString("POLYGLOT_ARCHIVE_PATH", &cfg.Archive.Path)
	if val := getenv("POLYGLOT_ARCHIVE_WAL_MODE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Archive.WALMode = &b
		}
	}
	env.setDuration("POLYGLOT_ARCHIVE_BUSY_TIMEOUT", &cfg.Archive.BusyTimeout)
	env.setInt("POLYGLOT_ARCHIVE_RETENTION_DAYS", &cfg.Archive.Retention.Days)
	env.setString("POLYGLOT_ARCHIVE_RETENTION_PRUNE_SCHEDULE", &cfg.Archive.Retention.PruneSchedule)
	if val := getenv("POLYGLOT_ARCHIVE_RETENTION_MAX_RECORDS"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Archive.Retention.MaxRecords = i
		}
	}

	// Telemetry overrides
	env.setString("POLYGLOT_TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	env.setString("POLYGLOT_TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	env.setBool("POLYGLOT_TELEMETRY_LOGGING_SHOW_LITERALS", &cfg.Telemetry.Logging.ShowLiterals)
	env.setBool("POLYGLOT_TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	env.setString("POLYGLOT_TELEMETRY_METRICS_LISTEN_ADDRESS", &cfg.Telemetry.Metrics.ListenAddress)
	env.setString("POLYGLOT_TELEMETRY_METRICS_TEXTFILE_PATH", &cfg.Telemetry.Metrics.TextfilePath)
	env.setBool("POLYGLOT_TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	env.setString("POLYGLOT_TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	env.setBool("POLYGLOT_TELEMETRY_TRACING_INSECURE", &cfg.Telemetry.Tracing.Insecure)
	if val := getenv("POLYGLOT_TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}

type envReader struct {
	getenv func(string) string
}

func (e envReader) setString(key string, dst *string) {
	if val := e.getenv(key); val != "" {
		*dst = val
	}
}

func (e envReader) setBool(key string, dst *bool) {
	if val := e.getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func (e envReader) setInt(key string, dst *int) {
	if val := e.getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func (e envReader) setDuration(key string, dst *time.Duration) {
	if val := e.getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

func (e envReader) setList(key string, dst *[]string) {
	val := e.getenv(key)
	if val == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}
