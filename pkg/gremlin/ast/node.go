package ast

// NodeKind identifies the concrete type of a Node.
type NodeKind int

const (
	KindLiteral NodeKind = iota
	KindList
	KindMap
	KindRange
	KindStrategy
	KindTraversal
	KindStep
	KindPredicate
	KindEnum
	KindCardinalityValue
	KindVertex
	KindVariable
)

var kindNames = [...]string{
	KindLiteral:          "literal",
	KindList:             "list",
	KindMap:              "map",
	KindRange:            "range",
	KindStrategy:         "strategy",
	KindTraversal:        "traversal",
	KindStep:             "step",
	KindPredicate:        "predicate",
	KindEnum:             "enum",
	KindCardinalityValue: "cardinality_value",
	KindVertex:           "vertex",
	KindVariable:         "variable",
}

func (k NodeKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Node is a parse tree node. The set of implementations is closed.
type Node interface {
	// Kind reports the concrete node type.
	Kind() NodeKind

	// Pos returns the node's source location.
	Pos() Location

	node()
}

func (*Literal) Kind() NodeKind          { return KindLiteral }
func (*List) Kind() NodeKind             { return KindList }
func (*Map) Kind() NodeKind              { return KindMap }
func (*Range) Kind() NodeKind            { return KindRange }
func (*StrategySpec) Kind() NodeKind     { return KindStrategy }
func (*Traversal) Kind() NodeKind        { return KindTraversal }
func (*Step) Kind() NodeKind             { return KindStep }
func (*Predicate) Kind() NodeKind        { return KindPredicate }
func (*Enum) Kind() NodeKind             { return KindEnum }
func (*CardinalityValue) Kind() NodeKind { return KindCardinalityValue }
func (*Vertex) Kind() NodeKind           { return KindVertex }
func (*Variable) Kind() NodeKind         { return KindVariable }

func (n *Literal) Pos() Location          { return n.Location }
func (n *List) Pos() Location             { return n.Location }
func (n *Map) Pos() Location              { return n.Location }
func (n *Range) Pos() Location            { return n.Location }
func (n *StrategySpec) Pos() Location     { return n.Location }
func (n *Traversal) Pos() Location        { return n.Location }
func (n *Step) Pos() Location             { return n.Location }
func (n *Predicate) Pos() Location        { return n.Location }
func (n *Enum) Pos() Location             { return n.Location }
func (n *CardinalityValue) Pos() Location { return n.Location }
func (n *Vertex) Pos() Location           { return n.Location }
func (n *Variable) Pos() Location         { return n.Location }

func (*Literal) node()          {}
func (*List) node()             {}
func (*Map) node()              {}
func (*Range) node()            {}
func (*StrategySpec) node()     {}
func (*Traversal) node()        {}
func (*Step) node()             {}
func (*Predicate) node()        {}
func (*Enum) node()             {}
func (*CardinalityValue) node() {}
func (*Vertex) node()           {}
func (*Variable) node()         {}

// List is an ordered list literal: [a, b, c].
type List struct {
	Elements []Node
	Location Location
}

// MapEntry is one key/value pair of a map literal. A key written as a bare
// identifier ([x:1]) is held in BareKey; any other key is held in Key.
type MapEntry struct {
	BareKey string
	Key     Node
	Value   Node
}

// Map is an ordered map literal: [k:v, ...]. Entry order is source order.
type Map struct {
	Entries  []MapEntry
	Location Location
}

// Range is a range literal: lo..hi.
type Range struct {
	Low      *Literal
	High     *Literal
	Location Location
}

// StrategyArg is one key:value argument of a strategy specification.
type StrategyArg struct {
	Key   string
	Value Node
}

// StrategySpec names a traversal strategy with optional configuration, as
// in withStrategies(ReadOnlyStrategy) or new SeedStrategy(seed:1).
type StrategySpec struct {
	Name string

	// New records that the source used constructor syntax.
	New bool

	// Args in source order. Empty means the zero-arg form.
	Args []StrategyArg

	Location Location
}

// Vertex is a vertex structure literal: new Vertex(id, label).
type Vertex struct {
	ID       Node
	Label    Node
	Location Location
}

// Variable is a reference to a free variable that the caller binds later.
type Variable struct {
	Name string

	// Placeholder is the anonymization family used when the variable sits in
	// a typed argument slot (for example map-typed mergeE arguments). Empty
	// means the variable is rendered by name on every target.
	Placeholder string

	Location Location
}
