// Package value evaluates parse tree literals into Go runtime values.
//
// It backs the execution path of strategy resolution, where strategy
// arguments become configuration properties, and the date handling shared
// with the translator.
package value

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"gremlin-hq/polyglot/pkg/gremlin/ast"
)

// ErrUnboundVariable is returned when a variable has no binding.
var ErrUnboundVariable = errors.New("unbound variable")

// ErrNotAValue is returned for nodes that have no runtime value.
var ErrNotAValue = errors.New("node has no runtime value")

// EvalError describes a node that could not be evaluated.
type EvalError struct {
	Node ast.Node
	Err  error
}

func (e *EvalError) Error() string {
	if loc := e.Node.Pos(); loc.IsValid() {
		return fmt.Sprintf("cannot evaluate %s at %s: %v", e.Node.Kind(), loc, e.Err)
	}
	return fmt.Sprintf("cannot evaluate %s: %v", e.Node.Kind(), e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

// OrderedMap is a map value that keeps source insertion order. Keys may be
// any value, including ones Go cannot use as map keys.
type OrderedMap struct {
	Keys   []any
	Values []any
}

// Get returns the value for key using equality of comparable keys.
func (m *OrderedMap) Get(key any) (any, bool) {
	for i, k := range m.Keys {
		if sameKey(k, key) {
			return m.Values[i], true
		}
	}
	return nil, false
}

// Len returns the number of entries.
func (m *OrderedMap) Len() int { return len(m.Keys) }

func sameKey(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

// Range is the value of a lo..hi literal.
type Range struct {
	Low  any
	High any
}

// EnumValue is the value of an enum keyword constant.
type EnumValue struct {
	Type string
	Name string
}

func (e EnumValue) String() string { return e.Type + "." + e.Name }

// Vertex is the value of a vertex structure literal.
type Vertex struct {
	ID    any
	Label any
}

// CardinalityValue is a property value paired with its cardinality.
type CardinalityValue struct {
	Cardinality string
	Value       any
}

// Evaluator turns nodes into values. Bindings supply variable values.
type Evaluator struct {
	Bindings map[string]any
}

// Of evaluates n without variable bindings.
func Of(n ast.Node) (any, error) {
	return (&Evaluator{}).Eval(n)
}

// Eval evaluates n. Traversal and predicate nodes evaluate to themselves so
// that strategies can hold them as filters.
func (e *Evaluator) Eval(n ast.Node) (any, error) {
	switch n := n.(type) {
	case *ast.Literal:
		v, err := Literal(n)
		if err != nil {
			return nil, &EvalError{Node: n, Err: err}
		}
		return v, nil
	case *ast.List:
		out := make([]any, 0, len(n.Elements))
		for _, el := range n.Elements {
			v, err := e.Eval(el)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case *ast.Map:
		m := &OrderedMap{}
		for _, entry := range n.Entries {
			var key any = entry.BareKey
			if entry.Key != nil {
				k, err := e.Eval(entry.Key)
				if err != nil {
					return nil, err
				}
				key = k
			}
			v, err := e.Eval(entry.Value)
			if err != nil {
				return nil, err
			}
			m.Keys = append(m.Keys, key)
			m.Values = append(m.Values, v)
		}
		return m, nil
	case *ast.Range:
		lo, err := e.Eval(n.Low)
		if err != nil {
			return nil, err
		}
		hi, err := e.Eval(n.High)
		if err != nil {
			return nil, err
		}
		return Range{Low: lo, High: hi}, nil
	case *ast.Enum:
		return EnumValue{Type: n.Qualifier(), Name: n.Name}, nil
	case *ast.CardinalityValue:
		v, err := e.Eval(n.Value)
		if err != nil {
			return nil, err
		}
		return CardinalityValue{Cardinality: n.Cardinality, Value: v}, nil
	case *ast.Vertex:
		id, err := e.Eval(n.ID)
		if err != nil {
			return nil, err
		}
		label, err := e.Eval(n.Label)
		if err != nil {
			return nil, err
		}
		return Vertex{ID: id, Label: label}, nil
	case *ast.Variable:
		v, ok := e.Bindings[n.Name]
		if !ok {
			return nil, &EvalError{Node: n, Err: fmt.Errorf("%w %q", ErrUnboundVariable, n.Name)}
		}
		return v, nil
	case *ast.Traversal:
		return n, nil
	case *ast.Predicate:
		return n, nil
	case *ast.StrategySpec, *ast.Step:
		return nil, &EvalError{Node: n, Err: ErrNotAValue}
	}
	return nil, fmt.Errorf("%w: unhandled node %T", ErrNotAValue, n)
}

// Literal evaluates a scalar literal.
func Literal(l *ast.Literal) (any, error) {
	switch l.Type {
	case ast.LiteralNull:
		return nil, nil
	case ast.LiteralBool:
		return l.Text == "true", nil
	case ast.LiteralInteger, ast.LiteralBigInteger:
		return integer(l)
	case ast.LiteralFloat, ast.LiteralBigDecimal:
		return float(l)
	case ast.LiteralString:
		if l.IsNullString() {
			return nil, nil
		}
		return Unescape(l.Unquoted())
	case ast.LiteralDate:
		return ParseDate(l.Unquoted())
	case ast.LiteralNaN:
		return math.NaN(), nil
	case ast.LiteralInfinity:
		if l.Negative {
			return math.Inf(-1), nil
		}
		return math.Inf(1), nil
	}
	return nil, fmt.Errorf("unknown literal type %v", l.Type)
}

func integer(l *ast.Literal) (any, error) {
	switch l.Width() {
	case ast.WidthByte:
		v, err := strconv.ParseInt(l.Text, 0, 8)
		return int8(v), err
	case ast.WidthShort:
		v, err := strconv.ParseInt(l.Text, 0, 16)
		return int16(v), err
	case ast.WidthInt:
		v, err := strconv.ParseInt(l.Text, 0, 32)
		return int32(v), err
	case ast.WidthLong:
		return strconv.ParseInt(l.Text, 0, 64)
	case ast.WidthBigInteger:
		return BigInt(l.Text)
	}

	v, err := strconv.ParseInt(l.Text, 0, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return BigInt(l.Text)
		}
		return nil, err
	}
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		return int32(v), nil
	}
	return v, nil
}

func float(l *ast.Literal) (any, error) {
	switch l.Width() {
	case ast.WidthFloat:
		v, err := strconv.ParseFloat(l.Text, 32)
		return float32(v), err
	case ast.WidthBigDecimal:
		f, _, err := big.ParseFloat(l.Text, 10, 256, big.ToNearestEven)
		return f, err
	}
	return strconv.ParseFloat(l.Text, 64)
}

// BigInt parses an arbitrary precision integer in decimal, hex or octal
// notation.
func BigInt(text string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(text, 0)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", text)
	}
	return n, nil
}

// FitsInt32 reports whether an unsuffixed integer numeral fits in 32 bits.
func FitsInt32(text string) bool {
	n, err := BigInt(text)
	if err != nil {
		return true
	}
	return n.IsInt64() && n.Int64() >= math.MinInt32 && n.Int64() <= math.MaxInt32
}

// Unescape decodes backslash escapes in a string literal body.
func Unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", fmt.Errorf("dangling escape in %q", s)
		}
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case '\\', '\'', '"':
			sb.WriteByte(s[i])
		case 'u':
			if i+4 >= len(s) {
				return "", fmt.Errorf("short unicode escape in %q", s)
			}
			r, err := strconv.ParseUint(s[i+1:i+5], 16, 32)
			if err != nil {
				return "", fmt.Errorf("invalid unicode escape in %q: %w", s, err)
			}
			sb.WriteRune(rune(r))
			i += 4
		default:
			return "", fmt.Errorf("unknown escape \\%c in %q", s[i], s)
		}
	}
	return sb.String(), nil
}
