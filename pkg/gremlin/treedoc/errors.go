package treedoc

import (
	"fmt"
	"strings"

	"gremlin-hq/polyglot/pkg/gremlin/ast"
)

// ErrorType categorizes decode errors.
type ErrorType string

const (
	ErrorTypeSyntax     ErrorType = "syntax"     // YAML syntax error
	ErrorTypeStructural ErrorType = "structural" // Unknown node kind, missing or malformed field
	ErrorTypeIO         ErrorType = "io"         // File I/O error
)

// Error is a decode error with the position of the offending YAML node.
type Error struct {
	Type       ErrorType
	Message    string
	Location   ast.Location
	Suggestion string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", e.Type, e.Message)
	if e.Location.IsValid() || e.Location.File != "" {
		fmt.Fprintf(&sb, " at %s", e.locationString())
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&sb, " (suggestion: %s)", e.Suggestion)
	}
	return sb.String()
}

func (e *Error) locationString() string {
	if !e.Location.IsValid() {
		return e.Location.File
	}
	return e.Location.String()
}
