package translator

import (
	"fmt"
	"strings"

	"gremlin-hq/polyglot/pkg/gremlin/ast"
	"gremlin-hq/polyglot/pkg/gremlin/value"
	"gremlin-hq/polyglot/pkg/strategy"
)

// Dialect is the per-target table of rendering rules consulted by the walker.
type Dialect struct {
	Target Target

	// Anonymize replaces literal values with family placeholders.
	Anonymize bool

	Null  string
	True  string
	False string

	NaN    string
	PosInf string
	NegInf string

	// String re-emits a string literal from its raw quoted text.
	String  func(raw string) string
	Numeral func(l *ast.Literal) string
	Date    func(l *ast.Literal) (string, error)

	List func(elems []string) string
	Map  func(entries []entry) string

	// QuoteBareKeys renders bare identifier map keys as string literals.
	QuoteBareKeys bool

	// ParenKeys wraps non-literal map keys in parentheses.
	ParenKeys bool

	// Range renders lo..hi. Nil means the target has no range syntax.
	Range func(lo, hi string) string

	Vertex func(id, label string) string

	// CardinalityValue is the class spelling of property value wrappers.
	CardinalityValue string

	Strategy     strategy.SourceStyle
	StrategyName func(string) string

	// Anonymous is the anonymous traversal spawn prefix.
	Anonymous string

	Class    func(string) string
	Step     func(string) string
	Enum     func(string) string
	Operator func(string) string
}

// entry is a rendered map entry.
type entry struct {
	Key   string
	Value string
}

// DialectFor returns the rendering rules of target t.
func DialectFor(t Target) (*Dialect, error) {
	build, ok := dialects[t]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownTarget, t)
	}
	return build(), nil
}

var dialects = map[Target]func() *Dialect{
	Canonical:  canonicalDialect,
	Anonymized: anonymizedDialect,
	Groovy:     groovyDialect,
	Java:       javaDialect,
	JavaScript: javascriptDialect,
	Python:     pythonDialect,
	Go:         goDialect,
}

func canonicalDialect() *Dialect {
	return &Dialect{
		Target:  Canonical,
		Null:    "null",
		True:    "true",
		False:   "false",
		NaN:     "NaN",
		PosInf:  "Infinity",
		NegInf:  "-Infinity",
		String:  identity,
		Numeral: func(l *ast.Literal) string { return l.Numeral() },
		Date: func(l *ast.Literal) (string, error) {
			return "datetime(" + l.Text + ")", nil
		},
		List: bracketList,
		Map: func(entries []entry) string {
			if len(entries) == 0 {
				return "[:]"
			}
			return "[" + joinEntries(entries, "%s:%s", ", ") + "]"
		},
		ParenKeys: true,
		Range: func(lo, hi string) string {
			return lo + ".." + hi
		},
		Vertex:           vertexCall("new Vertex"),
		CardinalityValue: "Cardinality",
		Strategy: strategy.SourceStyle{
			ZeroArg:  "{name}",
			Open:     "new {name}(",
			Close:    ")",
			KeyValue: ":",
		},
		StrategyName: identity,
		Anonymous:    "__",
		Class:        identity,
		Step:         identity,
		Enum:         identity,
		Operator:     identity,
	}
}

func anonymizedDialect() *Dialect {
	d := canonicalDialect()
	d.Target = Anonymized
	d.Anonymize = true
	return d
}

func groovyDialect() *Dialect {
	d := canonicalDialect()
	d.Target = Groovy
	d.Numeral = groovyNumeral
	d.Vertex = vertexCall("new DetachedVertex")
	return d
}

func javaDialect() *Dialect {
	return &Dialect{
		Target:  Java,
		Null:    "null",
		True:    "true",
		False:   "false",
		NaN:     "Double.NaN",
		PosInf:  "Double.POSITIVE_INFINITY",
		NegInf:  "Double.NEGATIVE_INFINITY",
		String:  requoter('"'),
		Numeral: javaNumeral,
		Date:    epochDate("new Date(%d)"),
		List: func(elems []string) string {
			parts := make([]string, len(elems))
			for i, e := range elems {
				parts[i] = "add(" + e + ");"
			}
			return "new ArrayList<Object>() {{ " + strings.Join(parts, " ") + " }}"
		},
		Map: func(entries []entry) string {
			return "new LinkedHashMap<Object, Object>() {{ " + joinEntries(entries, "put(%s, %s);", " ") + " }}"
		},
		QuoteBareKeys:    true,
		Vertex:           vertexCall("new DetachedVertex"),
		CardinalityValue: "Cardinality",
		Strategy: strategy.SourceStyle{
			ZeroArg: "{name}.instance()",
			Builder: true,
		},
		StrategyName: identity,
		Anonymous:    "__",
		Class:        identity,
		Step:         identity,
		Enum:         identity,
		Operator:     identity,
	}
}

func javascriptDialect() *Dialect {
	return &Dialect{
		Target:  JavaScript,
		Null:    "null",
		True:    "true",
		False:   "false",
		NaN:     "Number.NaN",
		PosInf:  "Number.POSITIVE_INFINITY",
		NegInf:  "Number.NEGATIVE_INFINITY",
		String:  requoter('"'),
		Numeral: func(l *ast.Literal) string { return l.Text },
		Date:    epochDate("new Date(%d)"),
		List:    bracketList,
		Map: func(entries []entry) string {
			return "new Map([" + joinEntries(entries, "[%s, %s]", ", ") + "])"
		},
		QuoteBareKeys:    true,
		Vertex:           vertexCall("new Vertex"),
		CardinalityValue: "CardinalityValue",
		Strategy: strategy.SourceStyle{
			ZeroArg:  "new {name}()",
			Open:     "new {name}({",
			Close:    "})",
			KeyValue: ": ",
		},
		StrategyName: simpleName,
		Anonymous:    "__",
		Class:        identity,
		Step:         jsStepName,
		Enum:         identity,
		Operator:     identity,
	}
}

func pythonDialect() *Dialect {
	return &Dialect{
		Target:  Python,
		Null:    "None",
		True:    "True",
		False:   "False",
		NaN:     "float('nan')",
		PosInf:  "float('inf')",
		NegInf:  "float('-inf')",
		String:  requoter('\''),
		Numeral: pythonNumeral,
		Date:    epochDate("datetime.datetime.utcfromtimestamp(%d / 1000.0)"),
		List:    bracketList,
		Map: func(entries []entry) string {
			if len(entries) == 0 {
				return "{}"
			}
			return "{ " + joinEntries(entries, "%s: %s", ", ") + " }"
		},
		QuoteBareKeys:    true,
		Vertex:           vertexCall("Vertex"),
		CardinalityValue: "CardinalityValue",
		Strategy: strategy.SourceStyle{
			ZeroArg:  "{name}()",
			Open:     "{name}(",
			Close:    ")",
			KeyValue: "=",
			KeyName:  pythonName,
		},
		StrategyName: simpleName,
		Anonymous:    "__",
		Class:        identity,
		Step:         pythonName,
		Enum:         pythonName,
		Operator:     pythonName,
	}
}

func goDialect() *Dialect {
	return &Dialect{
		Target:  Go,
		Null:    "nil",
		True:    "true",
		False:   "false",
		NaN:     "math.NaN()",
		PosInf:  "math.Inf(1)",
		NegInf:  "math.Inf(-1)",
		String:  goString,
		Numeral: goNumeral,
		Date:    epochDate("time.UnixMilli(%d)"),
		List: func(elems []string) string {
			return "[]interface{}{" + strings.Join(elems, ", ") + "}"
		},
		Map: func(entries []entry) string {
			return "map[interface{}]interface{}{" + joinEntries(entries, "%s: %s", ", ") + "}"
		},
		QuoteBareKeys: true,
		Vertex: func(id, label string) string {
			return "&gremlingo.Vertex{Element: gremlingo.Element{Id: " + id + ", Label: " + label + "}}"
		},
		CardinalityValue: "gremlingo.CardinalityValue",
		Strategy: strategy.SourceStyle{
			ZeroArg:  "gremlingo.{name}()",
			Open:     "gremlingo.{name}(gremlingo.{name}Config{",
			Close:    "})",
			KeyValue: ": ",
			KeyName:  goName,
		},
		StrategyName: simpleName,
		Anonymous:    "gremlingo.T__",
		Class:        goClass,
		Step:         goName,
		Enum:         goName,
		Operator:     goName,
	}
}

func bracketList(elems []string) string {
	return "[" + strings.Join(elems, ", ") + "]"
}

func joinEntries(entries []entry, format, sep string) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf(format, e.Key, e.Value)
	}
	return strings.Join(parts, sep)
}

func vertexCall(ctor string) func(id, label string) string {
	return func(id, label string) string {
		return ctor + "(" + id + ", " + label + ")"
	}
}

func epochDate(format string) func(l *ast.Literal) (string, error) {
	return func(l *ast.Literal) (string, error) {
		ms, err := value.EpochMillis(l.Unquoted())
		if err != nil {
			return "", &InvalidLiteralError{Text: l.Text, Err: err}
		}
		return fmt.Sprintf(format, ms), nil
	}
}
