package ast

import (
	"errors"
	"sort"
)

// Visitor is called for every node during Walk.
type Visitor interface {
	Visit(Node) error
}

// VisitorFunc adapts a function to the Visitor interface.
type VisitorFunc func(Node) error

// Visit calls f(n).
func (f VisitorFunc) Visit(n Node) error { return f(n) }

// SkipChildren may be returned by a visitor to skip the current node's
// children without stopping the walk.
var SkipChildren = errors.New("skip children")

// Walk traverses the tree rooted at n depth-first in pre-order and calls the
// visitor for each node. It returns the first error encountered, or nil if
// traversal completes.
func Walk(n Node, v Visitor) error {
	if n == nil {
		return nil
	}
	if err := v.Visit(n); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}
	for _, child := range Children(n) {
		if err := Walk(child, v); err != nil {
			return err
		}
	}
	return nil
}

// Children returns the direct children of n in source order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Literal, *Enum, *Variable:
		return nil
	case *List:
		return n.Elements
	case *Map:
		out := make([]Node, 0, 2*len(n.Entries))
		for _, e := range n.Entries {
			if e.Key != nil {
				out = append(out, e.Key)
			}
			out = append(out, e.Value)
		}
		return out
	case *Range:
		return []Node{n.Low, n.High}
	case *StrategySpec:
		out := make([]Node, 0, len(n.Args))
		for _, a := range n.Args {
			out = append(out, a.Value)
		}
		return out
	case *Traversal:
		out := make([]Node, 0, len(n.Steps))
		for _, s := range n.Steps {
			out = append(out, s)
		}
		return out
	case *Step:
		return n.Args
	case *Predicate:
		out := append([]Node(nil), n.Args...)
		for _, link := range n.Chain {
			if link.Arg != nil {
				out = append(out, link.Arg)
			}
		}
		return out
	case *CardinalityValue:
		return []Node{n.Value}
	case *Vertex:
		return []Node{n.ID, n.Label}
	}
	return nil
}

// Variables returns the sorted set of free variable names referenced in the
// tree rooted at n.
func Variables(n Node) []string {
	seen := make(map[string]struct{})
	_ = Walk(n, VisitorFunc(func(n Node) error {
		if v, ok := n.(*Variable); ok {
			seen[v.Name] = struct{}{}
		}
		return nil
	}))
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
