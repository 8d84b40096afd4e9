package ast

// Predicate classes.
const (
	ClassP     = "P"
	ClassTextP = "TextP"
)

// Predicate link operators.
const (
	LinkAnd    = "and"
	LinkOr     = "or"
	LinkNegate = "negate"
)

// Predicate is a P or TextP predicate: P.within('a', 'b').or(P.eq('c')).
// Class is empty when the source used the bare short form (within(...)).
type Predicate struct {
	Class    string
	Op       string
	Args     []Node
	Chain    []PredicateLink
	Location Location
}

// PredicateLink is a call chained onto a predicate: .and(p), .or(p) or
// .negate(). Arg is nil for negate.
type PredicateLink struct {
	Op  string
	Arg *Predicate
}

// Qualifier returns the predicate class, resolving the bare short form.
func (p *Predicate) Qualifier() string {
	if p.Class != "" {
		return p.Class
	}
	return PredicateClass(p.Op)
}

// And chains .and(q) onto p and returns p.
func (p *Predicate) And(q *Predicate) *Predicate {
	p.Chain = append(p.Chain, PredicateLink{Op: LinkAnd, Arg: q})
	return p
}

// Or chains .or(q) onto p and returns p.
func (p *Predicate) Or(q *Predicate) *Predicate {
	p.Chain = append(p.Chain, PredicateLink{Op: LinkOr, Arg: q})
	return p
}

// Negate chains .negate() onto p and returns p.
func (p *Predicate) Negate() *Predicate {
	p.Chain = append(p.Chain, PredicateLink{Op: LinkNegate})
	return p
}

// P builds a qualified P predicate.
func P(op string, args ...Node) *Predicate {
	return &Predicate{Class: ClassP, Op: op, Args: args}
}

// TextP builds a qualified TextP predicate.
func TextP(op string, args ...Node) *Predicate {
	return &Predicate{Class: ClassTextP, Op: op, Args: args}
}

// BarePredicate builds a predicate written without its class.
func BarePredicate(op string, args ...Node) *Predicate {
	return &Predicate{Op: op, Args: args}
}

var textPredicates = map[string]bool{
	"containing":      true,
	"notContaining":   true,
	"startingWith":    true,
	"notStartingWith": true,
	"endingWith":      true,
	"notEndingWith":   true,
	"regex":           true,
	"notRegex":        true,
}

// PredicateClass returns the class a bare predicate operator belongs to.
func PredicateClass(op string) string {
	if textPredicates[op] {
		return ClassTextP
	}
	return ClassP
}

// Enum is an enum-like keyword constant such as T.id or Cardinality.set.
// Type is empty when the source used the bare short form (id, set).
type Enum struct {
	Type     string
	Name     string
	Location Location
}

// Qualifier returns the enum type, resolving the bare short form. It returns
// "" when the bare name is not a known keyword.
func (e *Enum) Qualifier() string {
	if e.Type != "" {
		return e.Type
	}
	return bareEnums[e.Name]
}

// EnumOf builds a qualified enum constant.
func EnumOf(typ, name string) *Enum {
	return &Enum{Type: typ, Name: name}
}

// BareEnum builds an enum constant written in short form.
func BareEnum(name string) *Enum {
	return &Enum{Name: name}
}

// EnumType returns the type owning a bare keyword and whether it is known.
func EnumType(name string) (string, bool) {
	t, ok := bareEnums[name]
	return t, ok
}

// bareEnums maps short keyword forms to their owning type. Names shared by
// several types resolve to the one the grammar picks for bare usage.
var bareEnums = map[string]string{
	"id":    "T",
	"label": "T",
	"key":   "T",
	"value": "T",

	"single": "Cardinality",
	"list":   "Cardinality",
	"set":    "Cardinality",

	"local":  "Scope",
	"global": "Scope",

	"onCreate": "Merge",
	"onMatch":  "Merge",
	"outV":     "Merge",
	"inV":      "Merge",

	"asc":     "Order",
	"desc":    "Order",
	"shuffle": "Order",

	"first": "Pop",
	"last":  "Pop",
	"all":   "Pop",
	"mixed": "Pop",

	"keys":   "Column",
	"values": "Column",

	"OUT":  "Direction",
	"IN":   "Direction",
	"BOTH": "Direction",
	"from": "Direction",
	"to":   "Direction",

	"sum":     "Operator",
	"minus":   "Operator",
	"mult":    "Operator",
	"div":     "Operator",
	"min":     "Operator",
	"max":     "Operator",
	"assign":  "Operator",
	"addAll":  "Operator",
	"sumLong": "Operator",

	"normSack": "Barrier",

	"any":  "Pick",
	"none": "Pick",

	"second": "DT",
	"minute": "DT",
	"hour":   "DT",
	"day":    "DT",

	"propertyName": "ConnectedComponent",
}

// CardinalityValue wraps a property value with a cardinality in a property
// map: Cardinality.set("bar").
type CardinalityValue struct {
	Cardinality string
	Value       Node
	Location    Location
}

// CardValue builds a cardinality value wrapper.
func CardValue(cardinality string, value Node) *CardinalityValue {
	return &CardinalityValue{Cardinality: cardinality, Value: value}
}
