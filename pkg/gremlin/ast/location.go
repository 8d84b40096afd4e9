package ast

import "fmt"

// Location is the source position of a node in the original query text, as
// reported by the front end. The zero value means the position is unknown.
type Location struct {
	File   string // Tree document the node was decoded from, if any
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

// String returns "file:line:column", "line:column" without a file, or
// "<unknown>".
func (l Location) String() string {
	if !l.IsValid() {
		return "<unknown>"
	}
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsValid returns true if the location has line information.
func (l Location) IsValid() bool {
	return l.Line > 0
}
