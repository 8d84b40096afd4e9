package strategy

import (
	"errors"
	"fmt"
	"strings"
)

// Common strategy errors that can be checked with errors.Is().
var (
	// ErrUnregisteredStrategy is returned when a strategy name is not in the registry.
	ErrUnregisteredStrategy = errors.New("unregistered strategy")

	// ErrStrategyConstruction is returned when no construction path produced a strategy.
	ErrStrategyConstruction = errors.New("strategy construction failed")

	// ErrRegistrySealed is returned when registering after the registry was sealed.
	ErrRegistrySealed = errors.New("strategy registry is sealed")

	// ErrDuplicateStrategy is returned when a name is registered twice.
	ErrDuplicateStrategy = errors.New("strategy already registered")

	// ErrInvalidEntry is returned for registry entries whose declared kind
	// has no entrypoint.
	ErrInvalidEntry = errors.New("invalid strategy entry")

	// ErrNoEntrypoint marks a construction attempt for which the entry
	// provides no function.
	ErrNoEntrypoint = errors.New("no entrypoint")
)

// UnregisteredStrategyError is returned when a strategy specification names
// a strategy that is not registered.
type UnregisteredStrategyError struct {
	// Name is the name as written in the specification.
	Name string

	// Suggestion is the closest registered name, if any is close enough.
	Suggestion string
}

// Error implements the error interface.
func (e *UnregisteredStrategyError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("strategy %q is not registered (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("strategy %q is not registered", e.Name)
}

// Is implements error matching for errors.Is().
func (e *UnregisteredStrategyError) Is(target error) bool {
	return target == ErrUnregisteredStrategy
}

// Attempt is one construction path tried for a strategy.
type Attempt struct {
	Kind Kind
	Err  error
}

// StrategyConstructionError is returned when every applicable construction
// path failed. Attempts lists each path in the order it was tried.
type StrategyConstructionError struct {
	Name     string
	Attempts []Attempt
}

// Error implements the error interface.
func (e *StrategyConstructionError) Error() string {
	causes := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		causes = append(causes, fmt.Sprintf("%s: %v", a.Kind, a.Err))
	}
	return fmt.Sprintf("cannot construct strategy %q (%s)", e.Name, strings.Join(causes, "; "))
}

// Is implements error matching for errors.Is().
func (e *StrategyConstructionError) Is(target error) bool {
	return target == ErrStrategyConstruction
}

// Unwrap returns the cause of every attempt.
func (e *StrategyConstructionError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		errs = append(errs, a.Err)
	}
	return errs
}

// ConfigError is returned by factories for a missing or ill-typed
// configuration key.
type ConfigError struct {
	Strategy string
	Key      string
	Message  string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %s", e.Strategy, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Strategy, e.Key, e.Message)
}
