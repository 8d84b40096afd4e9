// Package config provides configuration management for polyglot.
//
// Configuration is read from YAML, completed with defaults, optionally
// overridden from the environment and validated before use:
//
//	cfg, err := config.LoadConfig("polyglot.yaml")
//	cfg, err := config.LoadConfigWithEnvOverrides("polyglot.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention POLYGLOT_SECTION_FIELD:
//
//   - POLYGLOT_TRANSLATOR_TARGETS overrides translator.targets (comma separated)
//   - POLYGLOT_ARCHIVE_DRIVER overrides archive.driver
//   - POLYGLOT_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Values are applied in this order, later sources winning:
//
//  1. Default values (defined in defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//
// Validation runs last and reports every invalid field at once as a
// ValidationError.
//
// # Example Configuration
//
//	translator:
//	  targets: [python, javascript]
//	  log_anonymized: true
//	  families:
//	    Integer: number
//	    Long: number
//	strategies:
//	  disabled: [SeedStrategy]
//	batch:
//	  concurrency: 8
//	watch:
//	  paths: [queries]
//	  debounce: 250ms
//	  output_dir: out
//	archive:
//	  enabled: true
//	  driver: sqlite
//	  path: data/translations.db
//	  retention:
//	    days: 14
//	    prune_schedule: "0 3 * * *"
//	telemetry:
//	  logging:
//	    level: debug
//	    format: json
//
// # Singleton Access
//
// Commands install the loaded configuration with Initialize or SetConfig and
// read it back with GetConfig. Library packages take explicit values instead.
package config
