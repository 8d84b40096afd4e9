package translator

import (
	"errors"
	"fmt"

	"gremlin-hq/polyglot/pkg/gremlin/ast"
)

// Common translation errors that can be checked with errors.Is().
var (
	// ErrUnsupportedLiteral is returned when a target has no syntax for a literal.
	ErrUnsupportedLiteral = errors.New("unsupported literal")

	// ErrInvalidLiteral is returned for literal text that cannot be interpreted.
	ErrInvalidLiteral = errors.New("invalid literal")

	// ErrTranslation matches every error returned by Translate.
	ErrTranslation = errors.New("translation failed")

	// ErrUnknownTarget is returned for a target outside the dialect table.
	ErrUnknownTarget = errors.New("unknown target")

	// ErrUnsupportedNode is returned for a node kind the walker does not know.
	ErrUnsupportedNode = errors.New("unsupported node")
)

// UnsupportedLiteralError is returned when the target language has no
// syntax for a literal form, such as range literals outside Groovy.
type UnsupportedLiteralError struct {
	Target Target

	// Form names the literal form, for example "range".
	Form string

	Location ast.Location
}

// Error implements the error interface.
func (e *UnsupportedLiteralError) Error() string {
	return fmt.Sprintf("%s does not support %s literals", e.Target.DisplayName(), e.Form)
}

// Is implements error matching for errors.Is().
func (e *UnsupportedLiteralError) Is(target error) bool {
	return target == ErrUnsupportedLiteral
}

// InvalidLiteralError is returned when literal text cannot be converted,
// for example an unparseable datetime argument.
type InvalidLiteralError struct {
	Text string
	Err  error
}

// Error implements the error interface.
func (e *InvalidLiteralError) Error() string {
	return fmt.Sprintf("invalid literal %s: %v", e.Text, e.Err)
}

// Is implements error matching for errors.Is().
func (e *InvalidLiteralError) Is(target error) bool {
	return target == ErrInvalidLiteral
}

// Unwrap returns the underlying error.
func (e *InvalidLiteralError) Unwrap() error { return e.Err }

// TranslationError is the single error returned by Translate. Its message
// starts with the message of the error that stopped the translation.
type TranslationError struct {
	Target Target
	Err    error

	// Location is the position of the innermost node that failed, when the
	// tree carries positions.
	Location ast.Location
}

// Error implements the error interface.
func (e *TranslationError) Error() string {
	if e.Location.IsValid() {
		return fmt.Sprintf("%v (at %s)", e.Err, e.Location)
	}
	return e.Err.Error()
}

// Is implements error matching for errors.Is().
func (e *TranslationError) Is(target error) bool {
	return target == ErrTranslation
}

// Unwrap returns the underlying error.
func (e *TranslationError) Unwrap() error { return e.Err }
