package treedoc

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"gremlin-hq/polyglot/pkg/gremlin/ast"
)

// nodeKinds are the keys that select a node kind.
var nodeKinds = []string{
	"null", "bool", "integer", "float", "number", "nan", "infinity",
	"string", "nullable_string", "date",
	"list", "map", "range",
	"strategy", "traversal", "predicate", "enum", "cardinality_value",
	"vertex", "variable",
}

// builder converts YAML nodes into parse tree nodes, keeping positions.
type builder struct {
	file     string
	maxDepth int
	depth    int
}

func (b *builder) loc(n *yaml.Node) ast.Location {
	return ast.Location{File: b.file, Line: n.Line, Column: n.Column}
}

func (b *builder) errorf(n *yaml.Node, suggestion, format string, args ...any) *Error {
	return &Error{
		Type:       ErrorTypeStructural,
		Message:    fmt.Sprintf(format, args...),
		Location:   b.loc(n),
		Suggestion: suggestion,
	}
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func (b *builder) document(root *yaml.Node) (*Document, error) {
	n := root
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	fields, err := b.fields(n, "source", "query")
	if err != nil {
		return nil, err
	}

	doc := &Document{Location: b.loc(n)}
	if s, ok := fields["source"]; ok {
		if doc.Source, err = b.scalar(s); err != nil {
			return nil, err
		}
	}

	q, ok := fields["query"]
	if !ok {
		return nil, b.errorf(n, "add a query: field holding the root node", "document has no query")
	}
	if doc.Query, err = b.node(q); err != nil {
		return nil, err
	}

	if t, ok := doc.Query.(*ast.Traversal); ok && t.Start == ast.StartSource && t.Source == "" {
		t.Source = doc.Source
	}
	return doc, nil
}

// fields returns the entries of a mapping node, rejecting unknown keys.
func (b *builder) fields(n *yaml.Node, allowed ...string) (map[string]*yaml.Node, error) {
	n = resolve(n)
	if n.Kind != yaml.MappingNode {
		return nil, b.errorf(n, "expected fields: "+strings.Join(allowed, ", "), "expected a mapping, got %s", kindName(n))
	}
	out := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		if !contains(allowed, k.Value) {
			return nil, b.errorf(k, "expected fields: "+strings.Join(allowed, ", "), "unknown field %q", k.Value)
		}
		if _, dup := out[k.Value]; dup {
			return nil, b.errorf(k, "", "duplicate field %q", k.Value)
		}
		out[k.Value] = resolve(n.Content[i+1])
	}
	return out, nil
}

func (b *builder) scalar(n *yaml.Node) (string, error) {
	n = resolve(n)
	if n.Kind != yaml.ScalarNode {
		return "", b.errorf(n, "", "expected a scalar, got %s", kindName(n))
	}
	return n.Value, nil
}

func (b *builder) nonEmpty(n *yaml.Node, what string) (string, error) {
	s, err := b.scalar(n)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(s) == "" {
		return "", b.errorf(n, "", "%s must not be empty", what)
	}
	return s, nil
}

func (b *builder) sequence(n *yaml.Node) ([]*yaml.Node, error) {
	n = resolve(n)
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, b.errorf(n, "", "expected a sequence, got %s", kindName(n))
	}
	out := make([]*yaml.Node, len(n.Content))
	for i, c := range n.Content {
		out[i] = resolve(c)
	}
	return out, nil
}

func (b *builder) nodes(n *yaml.Node) ([]ast.Node, error) {
	items, err := b.sequence(n)
	if err != nil {
		return nil, err
	}
	out := make([]ast.Node, 0, len(items))
	for _, item := range items {
		node, err := b.node(item)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
	return out, nil
}

// node decodes a single-key mapping whose key selects the node kind.
func (b *builder) node(n *yaml.Node) (ast.Node, error) {
	n = resolve(n)
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return nil, b.errorf(n, "use one of: "+strings.Join(nodeKinds, ", "),
			"a node must be a mapping with exactly one kind key")
	}

	b.depth++
	defer func() { b.depth-- }()
	if b.maxDepth > 0 && b.depth > b.maxDepth {
		return nil, b.errorf(n, "", "nesting depth exceeds %d", b.maxDepth)
	}

	key, val := n.Content[0], resolve(n.Content[1])
	loc := b.loc(key)

	switch key.Value {
	case "null":
		l := ast.Null()
		l.Location = loc
		return l, nil

	case "bool":
		s, err := b.scalar(val)
		if err != nil {
			return nil, err
		}
		switch s {
		case "true":
			l := ast.Bool(true)
			l.Location = loc
			return l, nil
		case "false":
			l := ast.Bool(false)
			l.Location = loc
			return l, nil
		}
		return nil, b.errorf(val, "use true or false", "invalid bool %q", s)

	case "integer", "float", "number":
		s, err := b.nonEmpty(val, key.Value)
		if err != nil {
			return nil, err
		}
		var l *ast.Literal
		switch key.Value {
		case "integer":
			l = ast.Int(s)
		case "float":
			l = ast.Float(s)
		default:
			l = ast.Number(s)
		}
		l.Location = loc
		return l, nil

	case "nan":
		l := ast.NaN()
		l.Location = loc
		return l, nil

	case "infinity":
		s, err := b.scalar(val)
		if err != nil {
			return nil, err
		}
		var l *ast.Literal
		switch s {
		case "", "+", "Infinity", "+Infinity", "~", "null":
			l = ast.Inf(false)
		case "-", "-Infinity":
			l = ast.Inf(true)
		default:
			return nil, b.errorf(val, "use + or -", "invalid infinity sign %q", s)
		}
		l.Location = loc
		return l, nil

	case "string", "date":
		s, err := b.scalar(val)
		if err != nil {
			return nil, err
		}
		var l *ast.Literal
		if key.Value == "date" {
			l = ast.Date(s)
		} else {
			l = ast.Str(s)
		}
		l.Location = loc
		return l, nil

	case "nullable_string":
		s, err := b.scalar(val)
		if err != nil {
			return nil, err
		}
		if val.Tag == "!!null" {
			s = "null"
		}
		l := ast.NullableStr(s)
		l.Location = loc
		return l, nil

	case "list":
		elems, err := b.nodes(val)
		if err != nil {
			return nil, err
		}
		return &ast.List{Elements: elems, Location: loc}, nil

	case "map":
		return b.mapNode(val, loc)

	case "range":
		return b.rangeNode(val, loc)

	case "strategy":
		return b.strategy(val, loc)

	case "traversal":
		return b.traversal(val, loc)

	case "predicate":
		return b.predicate(val, loc)

	case "enum":
		s, err := b.nonEmpty(val, "enum")
		if err != nil {
			return nil, err
		}
		e := ast.BareEnum(s)
		if i := strings.LastIndexByte(s, '.'); i > 0 {
			e = ast.EnumOf(s[:i], s[i+1:])
		}
		e.Location = loc
		return e, nil

	case "cardinality_value":
		f, err := b.fields(val, "cardinality", "value")
		if err != nil {
			return nil, err
		}
		card, err := b.required(val, f, "cardinality")
		if err != nil {
			return nil, err
		}
		name, err := b.nonEmpty(card, "cardinality")
		if err != nil {
			return nil, err
		}
		v, err := b.required(val, f, "value")
		if err != nil {
			return nil, err
		}
		value, err := b.node(v)
		if err != nil {
			return nil, err
		}
		return &ast.CardinalityValue{Cardinality: name, Value: value, Location: loc}, nil

	case "vertex":
		f, err := b.fields(val, "id", "label")
		if err != nil {
			return nil, err
		}
		idNode, err := b.required(val, f, "id")
		if err != nil {
			return nil, err
		}
		labelNode, err := b.required(val, f, "label")
		if err != nil {
			return nil, err
		}
		id, err := b.node(idNode)
		if err != nil {
			return nil, err
		}
		label, err := b.node(labelNode)
		if err != nil {
			return nil, err
		}
		return &ast.Vertex{ID: id, Label: label, Location: loc}, nil

	case "variable":
		return b.variable(val, loc)
	}

	return nil, b.errorf(key, "use one of: "+strings.Join(nodeKinds, ", "), "unknown node kind %q", key.Value)
}

func (b *builder) required(parent *yaml.Node, f map[string]*yaml.Node, name string) (*yaml.Node, error) {
	n, ok := f[name]
	if !ok {
		return nil, b.errorf(parent, "", "missing required field %q", name)
	}
	return n, nil
}

func (b *builder) mapNode(n *yaml.Node, loc ast.Location) (ast.Node, error) {
	items, err := b.sequence(n)
	if err != nil {
		return nil, err
	}
	m := &ast.Map{Location: loc}
	for _, item := range items {
		f, err := b.fields(item, "key", "key_node", "value")
		if err != nil {
			return nil, err
		}
		v, err := b.required(item, f, "value")
		if err != nil {
			return nil, err
		}
		value, err := b.node(v)
		if err != nil {
			return nil, err
		}

		bare, hasBare := f["key"]
		keyNode, hasNode := f["key_node"]
		switch {
		case hasBare && hasNode:
			return nil, b.errorf(item, "use key for bare identifiers and key_node otherwise", "entry has both key and key_node")
		case hasBare:
			k, err := b.nonEmpty(bare, "key")
			if err != nil {
				return nil, err
			}
			m.Entries = append(m.Entries, ast.MapEntry{BareKey: k, Value: value})
		case hasNode:
			k, err := b.node(keyNode)
			if err != nil {
				return nil, err
			}
			m.Entries = append(m.Entries, ast.MapEntry{Key: k, Value: value})
		default:
			return nil, b.errorf(item, "", "entry has no key")
		}
	}
	return m, nil
}

func (b *builder) rangeNode(n *yaml.Node, loc ast.Location) (ast.Node, error) {
	items, err := b.sequence(n)
	if err != nil {
		return nil, err
	}
	if len(items) != 2 {
		return nil, b.errorf(n, "write the range as [low, high]", "range needs 2 ends, got %d", len(items))
	}
	ends := make([]*ast.Literal, 2)
	for i, item := range items {
		s, err := b.nonEmpty(item, "range end")
		if err != nil {
			return nil, err
		}
		ends[i] = ast.Int(s)
		ends[i].Location = b.loc(item)
	}
	return &ast.Range{Low: ends[0], High: ends[1], Location: loc}, nil
}

func (b *builder) strategy(n *yaml.Node, loc ast.Location) (ast.Node, error) {
	f, err := b.fields(n, "name", "new", "args")
	if err != nil {
		return nil, err
	}
	nameNode, err := b.required(n, f, "name")
	if err != nil {
		return nil, err
	}
	name, err := b.nonEmpty(nameNode, "strategy name")
	if err != nil {
		return nil, err
	}
	s := &ast.StrategySpec{Name: name, Location: loc}

	if v, ok := f["new"]; ok {
		var isNew bool
		if err := v.Decode(&isNew); err != nil {
			return nil, b.errorf(v, "use true or false", "invalid new flag: %v", err)
		}
		s.New = isNew
	}

	if a, ok := f["args"]; ok {
		items, err := b.sequence(a)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			af, err := b.fields(item, "key", "value")
			if err != nil {
				return nil, err
			}
			k, err := b.required(item, af, "key")
			if err != nil {
				return nil, err
			}
			key, err := b.nonEmpty(k, "argument key")
			if err != nil {
				return nil, err
			}
			v, err := b.required(item, af, "value")
			if err != nil {
				return nil, err
			}
			value, err := b.node(v)
			if err != nil {
				return nil, err
			}
			s.Args = append(s.Args, ast.StrategyArg{Key: key, Value: value})
		}
	}
	if len(s.Args) > 0 {
		s.New = true
	}
	return s, nil
}

var starts = map[string]ast.Start{
	"source":    ast.StartSource,
	"anonymous": ast.StartAnonymous,
	"implicit":  ast.StartImplicit,
}

func (b *builder) traversal(n *yaml.Node, loc ast.Location) (ast.Node, error) {
	f, err := b.fields(n, "start", "source", "steps")
	if err != nil {
		return nil, err
	}
	t := &ast.Traversal{Start: ast.StartSource, Location: loc}

	if s, ok := f["start"]; ok {
		v, err := b.scalar(s)
		if err != nil {
			return nil, err
		}
		start, ok := starts[v]
		if !ok {
			return nil, b.errorf(s, "use source, anonymous or implicit", "invalid traversal start %q", v)
		}
		t.Start = start
	}
	if s, ok := f["source"]; ok {
		if t.Source, err = b.scalar(s); err != nil {
			return nil, err
		}
	}

	if s, ok := f["steps"]; ok {
		items, err := b.sequence(s)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			sf, err := b.fields(item, "step", "args")
			if err != nil {
				return nil, err
			}
			nameNode, err := b.required(item, sf, "step")
			if err != nil {
				return nil, err
			}
			name, err := b.nonEmpty(nameNode, "step name")
			if err != nil {
				return nil, err
			}
			st := &ast.Step{Name: name, Location: b.loc(item)}
			if a, ok := sf["args"]; ok {
				if st.Args, err = b.nodes(a); err != nil {
					return nil, err
				}
			}
			t.Steps = append(t.Steps, st)
		}
	}
	if t.Start != ast.StartSource && len(t.Steps) == 0 {
		return nil, b.errorf(n, "", "anonymous traversal has no steps")
	}
	return t, nil
}

var linkOps = map[string]bool{
	ast.LinkAnd:    true,
	ast.LinkOr:     true,
	ast.LinkNegate: true,
}

func (b *builder) predicate(n *yaml.Node, loc ast.Location) (*ast.Predicate, error) {
	f, err := b.fields(n, "class", "op", "args", "chain")
	if err != nil {
		return nil, err
	}
	opNode, err := b.required(n, f, "op")
	if err != nil {
		return nil, err
	}
	op, err := b.nonEmpty(opNode, "predicate operator")
	if err != nil {
		return nil, err
	}
	p := &ast.Predicate{Op: op, Location: loc}

	if c, ok := f["class"]; ok {
		if p.Class, err = b.scalar(c); err != nil {
			return nil, err
		}
		if p.Class != "" && p.Class != ast.ClassP && p.Class != ast.ClassTextP {
			return nil, b.errorf(c, "use P or TextP", "invalid predicate class %q", p.Class)
		}
	}
	if a, ok := f["args"]; ok {
		if p.Args, err = b.nodes(a); err != nil {
			return nil, err
		}
	}

	if c, ok := f["chain"]; ok {
		items, err := b.sequence(c)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			lf, err := b.fields(item, "op", "arg")
			if err != nil {
				return nil, err
			}
			lo, err := b.required(item, lf, "op")
			if err != nil {
				return nil, err
			}
			linkOp, err := b.scalar(lo)
			if err != nil {
				return nil, err
			}
			if !linkOps[linkOp] {
				return nil, b.errorf(lo, "use and, or or negate", "invalid predicate link %q", linkOp)
			}
			link := ast.PredicateLink{Op: linkOp}
			argNode, hasArg := lf["arg"]
			switch {
			case linkOp == ast.LinkNegate && hasArg:
				return nil, b.errorf(argNode, "", "negate takes no argument")
			case linkOp != ast.LinkNegate && !hasArg:
				return nil, b.errorf(item, "", "%s needs a predicate argument", linkOp)
			case hasArg:
				if link.Arg, err = b.predicate(argNode, b.loc(argNode)); err != nil {
					return nil, err
				}
			}
			p.Chain = append(p.Chain, link)
		}
	}
	return p, nil
}

func (b *builder) variable(n *yaml.Node, loc ast.Location) (ast.Node, error) {
	if n.Kind == yaml.ScalarNode {
		name, err := b.nonEmpty(n, "variable name")
		if err != nil {
			return nil, err
		}
		return &ast.Variable{Name: name, Location: loc}, nil
	}
	f, err := b.fields(n, "name", "placeholder")
	if err != nil {
		return nil, err
	}
	nameNode, err := b.required(n, f, "name")
	if err != nil {
		return nil, err
	}
	name, err := b.nonEmpty(nameNode, "variable name")
	if err != nil {
		return nil, err
	}
	v := &ast.Variable{Name: name, Location: loc}
	if p, ok := f["placeholder"]; ok {
		if v.Placeholder, err = b.scalar(p); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "nothing"
}
