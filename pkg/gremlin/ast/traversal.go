package ast

// Start identifies what a traversal's first step is applied to.
type Start int

const (
	// StartSource is the root traversal source (g).
	StartSource Start = iota

	// StartAnonymous is the explicit anonymous traversal marker (__).
	StartAnonymous

	// StartImplicit is a bare step sequence in a slot that expects an
	// anonymous traversal, such as out().count() inside map(...).
	StartImplicit
)

func (s Start) String() string {
	switch s {
	case StartSource:
		return "source"
	case StartAnonymous:
		return "anonymous"
	case StartImplicit:
		return "implicit"
	}
	return "unknown"
}

// Traversal is a chain of step calls.
type Traversal struct {
	Start Start

	// Source is the source identifier as written (g) when Start is
	// StartSource.
	Source string

	Steps    []*Step
	Location Location
}

// Anonymous reports whether the traversal is usable as a nested argument.
func (t *Traversal) Anonymous() bool {
	return t.Start != StartSource
}

// Step is a single step call: name(args...).
type Step struct {
	Name     string
	Args     []Node
	Location Location
}

// Source builds a traversal rooted at the named traversal source.
func Source(name string, steps ...*Step) *Traversal {
	return &Traversal{Start: StartSource, Source: name, Steps: steps}
}

// Anon builds an explicit anonymous traversal (__.step()...).
func Anon(steps ...*Step) *Traversal {
	return &Traversal{Start: StartAnonymous, Steps: steps}
}

// Implicit builds a bare step sequence used as an anonymous traversal.
func Implicit(steps ...*Step) *Traversal {
	return &Traversal{Start: StartImplicit, Steps: steps}
}

// Call builds a step call.
func Call(name string, args ...Node) *Step {
	return &Step{Name: name, Args: args}
}

// Var builds a free variable reference.
func Var(name string) *Variable {
	return &Variable{Name: name}
}

// ListOf builds a list literal.
func ListOf(elems ...Node) *List {
	return &List{Elements: elems}
}

// MapOf builds a map literal from entries.
func MapOf(entries ...MapEntry) *Map {
	return &Map{Entries: entries}
}

// Bare builds a map entry with a bare identifier key.
func Bare(key string, value Node) MapEntry {
	return MapEntry{BareKey: key, Value: value}
}

// Entry builds a map entry with a key node.
func Entry(key, value Node) MapEntry {
	return MapEntry{Key: key, Value: value}
}

// RangeOf builds a range literal.
func RangeOf(low, high *Literal) *Range {
	return &Range{Low: low, High: high}
}

// Strategy builds a zero-arg strategy reference (withStrategies(Name)).
func Strategy(name string) *StrategySpec {
	return &StrategySpec{Name: name}
}

// NewStrategy builds a strategy constructed with arguments (new Name(k:v)).
func NewStrategy(name string, args ...StrategyArg) *StrategySpec {
	return &StrategySpec{Name: name, New: true, Args: args}
}

// Arg builds a strategy argument.
func Arg(key string, value Node) StrategyArg {
	return StrategyArg{Key: key, Value: value}
}

// NewVertex builds a vertex structure literal.
func NewVertex(id, label Node) *Vertex {
	return &Vertex{ID: id, Label: label}
}
