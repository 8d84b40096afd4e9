package cli

import (
	"errors"
	"fmt"

	"gremlin-hq/polyglot/pkg/config"
	"gremlin-hq/polyglot/pkg/gremlin/treedoc"
	"gremlin-hq/polyglot/pkg/strategy"
	"gremlin-hq/polyglot/pkg/translator"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitConfig      = 2
	ExitInput       = 3
	ExitTranslation = 4
)

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// PartialFailure reports that some documents of a run failed to translate.
type PartialFailure struct {
	Failed int
	Total  int
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("%d of %d documents failed", e.Failed, e.Total)
}

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		cfgErr     *ConfigError
		validation config.ValidationError
		docErr     *treedoc.Error
		partial    *PartialFailure
	)
	switch {
	case errors.As(err, &cfgErr), errors.As(err, &validation):
		return ExitConfig
	case errors.As(err, &docErr):
		return ExitInput
	case errors.As(err, &partial),
		errors.Is(err, translator.ErrTranslation),
		errors.Is(err, translator.ErrUnsupportedLiteral),
		errors.Is(err, translator.ErrInvalidLiteral),
		errors.Is(err, strategy.ErrUnregisteredStrategy),
		errors.Is(err, strategy.ErrStrategyConstruction):
		return ExitTranslation
	default:
		return ExitFailure
	}
}
