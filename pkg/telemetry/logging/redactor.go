package logging

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"gremlin-hq/polyglot/pkg/config"
)

// Redactor masks literal values in log attributes. Translated queries carry
// user data in their string and date literals; the anonymized rendering is
// the form meant for logs.
type Redactor struct {
	patterns []redactPattern
}

// redactPattern contains a compiled regex and either a replacement string
// or a replacement function.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
	replace     func(string) string
}

func (p redactPattern) apply(s string) string {
	if p.replace != nil {
		return p.regex.ReplaceAllStringFunc(s, p.replace)
	}
	return p.regex.ReplaceAllString(s, p.replacement)
}

// PatternLiterals is the name of the built-in quoted literal pattern.
const PatternLiterals = "literals"

// literalRegex matches quoted literal text as written by every target.
// Alternatives are tried in order, so triple quotes are masked as a whole.
var literalRegex = regexp.MustCompile(`'''(?s:.*?)'''|"""(?s:.*?)"""|'(?:[^'\\]|\\.)*'|"(?:[^"\\]|\\.)*"`)

func maskLiteral(m string) string {
	switch {
	case strings.HasPrefix(m, "'''"):
		return "'''***'''"
	case strings.HasPrefix(m, `"""`):
		return `"""***"""`
	case m[0] == '\'':
		return "'***'"
	default:
		return `"***"`
	}
}

// sensitiveKeys are attribute keys whose values are replaced entirely.
var sensitiveKeys = []string{"literal", "password", "secret", "token"}

// NewRedactor creates a Redactor. With literals set the built-in quoted
// literal patterns apply; custom patterns always apply, after them.
func NewRedactor(literals bool, custom []config.RedactPattern) (*Redactor, error) {
	r := &Redactor{}
	if literals {
		r.patterns = append(r.patterns, redactPattern{
			name:    PatternLiterals,
			regex:   literalRegex,
			replace: maskLiteral,
		})
	}
	for _, p := range custom {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("redact pattern %q: %w", p.Name, err)
		}
		r.patterns = append(r.patterns, redactPattern{
			name:        p.Name,
			regex:       regex,
			replacement: p.Replacement,
		})
	}
	return r, nil
}

// RedactString applies every pattern to value.
func (r *Redactor) RedactString(value string) string {
	if r == nil || value == "" {
		return value
	}
	for _, p := range r.patterns {
		value = p.apply(value)
	}
	return value
}

// RedactAttr returns a with string values redacted. Groups are redacted
// recursively and values under sensitive keys are replaced by "***".
// A nil Redactor returns a unchanged.
func (r *Redactor) RedactAttr(a slog.Attr) slog.Attr {
	if r == nil {
		return a
	}
	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, "***")
	}

	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, r.RedactString(v.String()))
	case slog.KindGroup:
		group := v.Group()
		out := make([]any, len(group))
		for i, ga := range group {
			out[i] = r.RedactAttr(ga)
		}
		return slog.Group(a.Key, out...)
	case slog.KindAny:
		switch x := v.Any().(type) {
		case error:
			return slog.String(a.Key, r.RedactString(x.Error()))
		case fmt.Stringer:
			return slog.String(a.Key, r.RedactString(x.String()))
		}
	}
	return slog.Attr{Key: a.Key, Value: v}
}

// isSensitiveKey checks if a key name indicates a value that must not be
// logged at all.
func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
