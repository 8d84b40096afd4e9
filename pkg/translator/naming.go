package translator

import (
	"strings"
	"unicode"
)

// pythonReserved are names that collide with Python keywords or builtins
// and take a trailing underscore.
var pythonReserved = map[string]bool{
	"and":    true,
	"as":     true,
	"filter": true,
	"from":   true,
	"global": true,
	"id":     true,
	"in":     true,
	"is":     true,
	"list":   true,
	"max":    true,
	"min":    true,
	"not":    true,
	"or":     true,
	"range":  true,
	"set":    true,
	"sum":    true,
	"with":   true,
}

var jsReserved = map[string]bool{
	"with": true,
	"in":   true,
	"from": true,
}

func identity(s string) string { return s }

// snakeCase converts camelCase to snake_case. Names without lower-case
// letters (V, E, OUT) are returned unchanged.
func snakeCase(s string) string {
	if !hasLower(s) {
		return s
	}
	var sb strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func pythonName(s string) string {
	s = snakeCase(s)
	if pythonReserved[s] {
		return s + "_"
	}
	return s
}

func jsStepName(s string) string {
	if jsReserved[s] {
		return s + "_"
	}
	return s
}

// goName exports a name: hasLabel becomes HasLabel and OUT becomes Out.
func goName(s string) string {
	if s == "" {
		return s
	}
	if !hasLower(s) && len(s) > 1 {
		return s[:1] + strings.ToLower(s[1:])
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func goClass(s string) string { return "gremlingo." + s }

func hasLower(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

func simpleName(s string) string {
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}
	return s
}
