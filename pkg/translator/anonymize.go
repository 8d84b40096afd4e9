package translator

import (
	"fmt"
	"sort"
	"strings"

	"gremlin-hq/polyglot/pkg/gremlin/ast"
)

// Literal classes recognised by the anonymizer. Each class is mapped to a
// family; the family name prefixes the placeholder and owns its counter.
const (
	ClassString     = "string"
	ClassNumber     = "number"
	ClassBoolean    = "boolean"
	ClassObject     = "object"
	ClassMap        = "map"
	ClassList       = "list"
	ClassDate       = "date"
	ClassByte       = "byte"
	ClassShort      = "short"
	ClassInteger    = "integer"
	ClassLong       = "long"
	ClassBigInteger = "biginteger"
	ClassFloat      = "float"
	ClassDouble     = "double"
	ClassBigDecimal = "bigdecimal"
)

var literalClasses = []string{
	ClassString, ClassNumber, ClassBoolean, ClassObject, ClassMap, ClassList, ClassDate,
	ClassByte, ClassShort, ClassInteger, ClassLong, ClassBigInteger,
	ClassFloat, ClassDouble, ClassBigDecimal,
}

// Families maps literal classes to placeholder families. Classes mapped to
// the same family share one counter.
type Families map[string]string

// DefaultFamilies gives every class its own family named after it.
func DefaultFamilies() Families {
	f := make(Families, len(literalClasses))
	for _, c := range literalClasses {
		f[c] = c
	}
	return f
}

// Classes returns the recognised literal class names.
func Classes() []string {
	return append([]string(nil), literalClasses...)
}

// Merge returns a copy of f with overrides applied. Class names match
// case-insensitively and are stored lower-case.
func (f Families) Merge(overrides map[string]string) Families {
	out := make(Families, len(f)+len(overrides))
	for k, v := range f {
		out[strings.ToLower(k)] = v
	}
	for k, v := range overrides {
		out[strings.ToLower(k)] = v
	}
	return out
}

// Validate reports unknown classes and invalid family names.
func (f Families) Validate() error {
	known := make(map[string]bool, len(literalClasses))
	for _, c := range literalClasses {
		known[c] = true
	}
	var bad []string
	for class, family := range f {
		if !known[strings.ToLower(class)] {
			bad = append(bad, fmt.Sprintf("unknown class %q", class))
			continue
		}
		if !isIdentifier(family) {
			bad = append(bad, fmt.Sprintf("family %q for class %q is not an identifier", family, class))
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return fmt.Errorf("invalid anonymizer families: %s", strings.Join(bad, "; "))
	}
	return nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

type anonKey struct {
	family string
	value  string
}

// anonymizer hands out placeholders for one translation. The same value in
// the same family always receives the same placeholder.
type anonymizer struct {
	families Families
	counters map[string]int
	cache    map[anonKey]string
}

func newAnonymizer(families Families) *anonymizer {
	if families == nil {
		families = DefaultFamilies()
	}
	return &anonymizer{
		families: Families{}.Merge(families),
		counters: make(map[string]int),
		cache:    make(map[anonKey]string),
	}
}

func (a *anonymizer) family(class string) string {
	if f, ok := a.families[class]; ok && f != "" {
		return f
	}
	return class
}

// placeholder returns the placeholder for value in class.
func (a *anonymizer) placeholder(class, value string) string {
	key := anonKey{family: a.family(class), value: value}
	if p, ok := a.cache[key]; ok {
		return p
	}
	n := a.counters[key.family]
	a.counters[key.family] = n + 1
	p := fmt.Sprintf("%s%d", key.family, n)
	a.cache[key] = p
	return p
}

// counts returns the number of distinct placeholders issued per family.
func (a *anonymizer) counts() map[string]int {
	out := make(map[string]int, len(a.counters))
	for f, n := range a.counters {
		out[f] = n
	}
	return out
}

// literalClass returns the anonymizer class and normalized value of l.
func literalClass(l *ast.Literal) (class, value string) {
	switch l.Type {
	case ast.LiteralNull:
		return ClassObject, "null"
	case ast.LiteralBool:
		return ClassBoolean, l.Text
	case ast.LiteralString:
		if l.IsNullString() {
			// Distinct from the string 'null'.
			return ClassString, "\x00null"
		}
		return ClassString, l.Unquoted()
	case ast.LiteralDate:
		return ClassDate, l.Unquoted()
	case ast.LiteralNaN, ast.LiteralInfinity:
		return ClassNumber, l.Text
	}

	numeral := strings.ToLower(l.Numeral())
	switch l.Width() {
	case ast.WidthByte:
		return ClassByte, numeral
	case ast.WidthShort:
		return ClassShort, numeral
	case ast.WidthInt:
		return ClassInteger, numeral
	case ast.WidthLong:
		return ClassLong, numeral
	case ast.WidthBigInteger:
		return ClassBigInteger, numeral
	case ast.WidthFloat:
		return ClassFloat, numeral
	case ast.WidthDouble:
		return ClassDouble, numeral
	case ast.WidthBigDecimal:
		return ClassBigDecimal, numeral
	}
	return ClassNumber, numeral
}
