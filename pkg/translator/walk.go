package translator

import (
	"fmt"
	"sort"
	"strings"

	"gremlin-hq/polyglot/pkg/gremlin/ast"
	"gremlin-hq/polyglot/pkg/strategy"
)

// state is the per-call translation state. It is never shared between
// calls.
type state struct {
	d          *Dialect
	sourceName string
	registry   *strategy.Registry
	anon       *anonymizer
	params     map[string]struct{}

	// failedAt is the location of the innermost node that returned an error.
	failedAt ast.Location
	failed   bool
}

func newState(d *Dialect, sourceName string, registry *strategy.Registry, families Families) *state {
	return &state{
		d:          d,
		sourceName: sourceName,
		registry:   registry,
		anon:       newAnonymizer(families),
		params:     make(map[string]struct{}),
	}
}

// plain returns a state rendering canonical text that shares parameters
// with s. The anonymizer uses it to key collections by canonical text.
func (s *state) plain() *state {
	return &state{
		d:          canonicalDialect(),
		sourceName: s.sourceName,
		registry:   s.registry,
		anon:       s.anon,
		params:     s.params,
	}
}

func (s *state) parameters() []string {
	out := make([]string, 0, len(s.params))
	for name := range s.params {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// render returns the target text for n.
func (s *state) render(n ast.Node) (string, error) {
	out, err := s.renderNode(n)
	if err != nil && !s.failed {
		s.failed = true
		if n != nil {
			s.failedAt = n.Pos()
		}
	}
	return out, err
}

func (s *state) renderNode(n ast.Node) (string, error) {
	switch n := n.(type) {
	case *ast.Literal:
		return s.literal(n)
	case *ast.List:
		return s.list(n)
	case *ast.Map:
		return s.mapLiteral(n)
	case *ast.Range:
		return s.rangeLiteral(n)
	case *ast.StrategySpec:
		return s.strategySpec(n)
	case *ast.Traversal:
		return s.traversal(n)
	case *ast.Step:
		return s.step(n)
	case *ast.Predicate:
		return s.predicate(n)
	case *ast.Enum:
		return s.enum(n), nil
	case *ast.CardinalityValue:
		v, err := s.render(n.Value)
		if err != nil {
			return "", err
		}
		return s.d.CardinalityValue + "." + s.d.Enum(n.Cardinality) + "(" + v + ")", nil
	case *ast.Vertex:
		id, err := s.render(n.ID)
		if err != nil {
			return "", err
		}
		label, err := s.render(n.Label)
		if err != nil {
			return "", err
		}
		return s.d.Vertex(id, label), nil
	case *ast.Variable:
		s.params[n.Name] = struct{}{}
		if s.d.Anonymize && n.Placeholder != "" {
			return s.anon.placeholder(n.Placeholder, "$"+n.Name), nil
		}
		return n.Name, nil
	case nil:
		return "", fmt.Errorf("%w: nil node", ErrUnsupportedNode)
	}
	return "", fmt.Errorf("%w: %T", ErrUnsupportedNode, n)
}

func (s *state) renderAll(nodes []ast.Node) ([]string, error) {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		text, err := s.render(n)
		if err != nil {
			return nil, err
		}
		out = append(out, text)
	}
	return out, nil
}

func (s *state) list(n *ast.List) (string, error) {
	if s.d.Anonymize {
		text, err := s.plain().list(n)
		if err != nil {
			return "", err
		}
		return s.anon.placeholder(ClassList, text), nil
	}
	elems, err := s.renderAll(n.Elements)
	if err != nil {
		return "", err
	}
	return s.d.List(elems), nil
}

func (s *state) mapLiteral(n *ast.Map) (string, error) {
	if s.d.Anonymize {
		text, err := s.plain().mapLiteral(n)
		if err != nil {
			return "", err
		}
		return s.anon.placeholder(ClassMap, text), nil
	}

	entries := make([]entry, 0, len(n.Entries))
	for _, e := range n.Entries {
		key, err := s.mapKey(e)
		if err != nil {
			return "", err
		}
		v, err := s.render(e.Value)
		if err != nil {
			return "", err
		}
		entries = append(entries, entry{Key: key, Value: v})
	}
	return s.d.Map(entries), nil
}

func (s *state) mapKey(e ast.MapEntry) (string, error) {
	if e.Key == nil {
		if s.d.QuoteBareKeys {
			return s.d.String("'" + e.BareKey + "'"), nil
		}
		return e.BareKey, nil
	}
	key, err := s.render(e.Key)
	if err != nil {
		return "", err
	}
	if _, isLiteral := e.Key.(*ast.Literal); !isLiteral && s.d.ParenKeys {
		return "(" + key + ")", nil
	}
	return key, nil
}

func (s *state) rangeLiteral(n *ast.Range) (string, error) {
	if s.d.Range == nil {
		return "", &UnsupportedLiteralError{Target: s.d.Target, Form: "range", Location: n.Location}
	}
	var lo, hi string
	if s.d.Anonymize {
		lo = s.anon.placeholder(ClassNumber, strings.ToLower(n.Low.Numeral()))
		hi = s.anon.placeholder(ClassNumber, strings.ToLower(n.High.Numeral()))
	} else {
		var err error
		if lo, err = s.render(n.Low); err != nil {
			return "", err
		}
		if hi, err = s.render(n.High); err != nil {
			return "", err
		}
	}
	return s.d.Range(lo, hi), nil
}

func (s *state) strategySpec(n *ast.StrategySpec) (string, error) {
	if s.registry != nil {
		if err := s.registry.Check(n.Name); err != nil {
			return "", err
		}
	}
	args := make([]strategy.RenderedArg, 0, len(n.Args))
	for _, a := range n.Args {
		v, err := s.render(a.Value)
		if err != nil {
			return "", err
		}
		args = append(args, strategy.RenderedArg{Key: a.Key, Value: v})
	}
	return s.d.Strategy.Render(s.d.StrategyName(n.Name), args), nil
}

func (s *state) traversal(n *ast.Traversal) (string, error) {
	var sb strings.Builder
	switch n.Start {
	case ast.StartSource:
		switch {
		case s.sourceName != "":
			sb.WriteString(s.sourceName)
		case n.Source != "":
			sb.WriteString(n.Source)
		default:
			sb.WriteString(DefaultSourceName)
		}
	default:
		sb.WriteString(s.d.Anonymous)
	}
	for _, st := range n.Steps {
		text, err := s.render(st)
		if err != nil {
			return "", err
		}
		sb.WriteByte('.')
		sb.WriteString(text)
	}
	return sb.String(), nil
}

func (s *state) step(n *ast.Step) (string, error) {
	args, err := s.renderAll(n.Args)
	if err != nil {
		return "", err
	}
	return s.d.Step(n.Name) + "(" + strings.Join(args, ", ") + ")", nil
}

func (s *state) predicate(n *ast.Predicate) (string, error) {
	args, err := s.renderAll(n.Args)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(s.d.Class(n.Qualifier()))
	sb.WriteByte('.')
	sb.WriteString(s.d.Operator(n.Op))
	sb.WriteByte('(')
	sb.WriteString(strings.Join(args, ", "))
	sb.WriteByte(')')

	for _, link := range n.Chain {
		sb.WriteByte('.')
		sb.WriteString(s.d.Operator(link.Op))
		sb.WriteByte('(')
		if link.Arg != nil {
			text, err := s.render(link.Arg)
			if err != nil {
				return "", err
			}
			sb.WriteString(text)
		}
		sb.WriteByte(')')
	}
	return sb.String(), nil
}

func (s *state) enum(n *ast.Enum) string {
	q := n.Qualifier()
	if q == "" {
		return s.d.Enum(n.Name)
	}
	return s.d.Class(q) + "." + s.d.Enum(n.Name)
}
