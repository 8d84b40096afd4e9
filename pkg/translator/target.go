package translator

import (
	"fmt"
	"strings"
)

// Target is an output language or normal form.
type Target int

const (
	// Canonical is the normalized Gremlin language form.
	Canonical Target = iota
	// Anonymized is Canonical with literal values replaced by placeholders.
	Anonymized
	Groovy
	Java
	JavaScript
	Python
	Go
)

var targetNames = [...]string{
	Canonical:  "language",
	Anonymized: "anonymized",
	Groovy:     "groovy",
	Java:       "java",
	JavaScript: "javascript",
	Python:     "python",
	Go:         "go",
}

// displayNames are used in user-facing error messages.
var displayNames = [...]string{
	Canonical:  "Language",
	Anonymized: "Anonymized",
	Groovy:     "Groovy",
	Java:       "Java",
	JavaScript: "Javascript",
	Python:     "Python",
	Go:         "Go",
}

var targetAliases = map[string]Target{
	"language":   Canonical,
	"canonical":  Canonical,
	"anonymized": Anonymized,
	"anonymised": Anonymized,
	"groovy":     Groovy,
	"java":       Java,
	"javascript": JavaScript,
	"js":         JavaScript,
	"python":     Python,
	"py":         Python,
	"go":         Go,
	"golang":     Go,
}

func (t Target) String() string {
	if t < 0 || int(t) >= len(targetNames) {
		return fmt.Sprintf("target(%d)", int(t))
	}
	return targetNames[t]
}

// DisplayName returns the capitalized target name used in error messages.
func (t Target) DisplayName() string {
	if t < 0 || int(t) >= len(displayNames) {
		return t.String()
	}
	return displayNames[t]
}

// Valid reports whether t is a known target.
func (t Target) Valid() bool {
	return t >= 0 && int(t) < len(targetNames)
}

// ParseTarget maps a target name or alias to a Target. Matching ignores case.
func ParseTarget(name string) (Target, error) {
	if t, ok := targetAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("unknown target %q (valid: %s)", name, strings.Join(TargetNames(), ", "))
}

// Targets returns every target in declaration order.
func Targets() []Target {
	out := make([]Target, 0, len(targetNames))
	for i := range targetNames {
		out = append(out, Target(i))
	}
	return out
}

// TargetNames returns the primary name of every target.
func TargetNames() []string {
	return append([]string(nil), targetNames[:]...)
}

// MarshalText implements encoding.TextMarshaler.
func (t Target) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid target %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Target) UnmarshalText(text []byte) error {
	parsed, err := ParseTarget(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
