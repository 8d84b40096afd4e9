// Package ast defines the parse tree consumed by the Gremlin translator.
//
// The tree is produced by an external grammar front end and is assumed to be
// syntactically valid. It is a closed union: every node implements Node, and
// the set of implementations is fixed by this package (Node carries an
// unexported method). Consumers dispatch with a single type switch.
//
// # Node Kinds
//
// Literal: scalar literal (integer, float, string, null, boolean, NaN,
// Infinity, date)
//
// List, Map, Range: collection literals
//
// StrategySpec: strategy name plus ordered (key, value) arguments
//
// Traversal, Step: a chain of step calls on a source, on the anonymous
// traversal marker, or on nothing (an implicit anonymous traversal)
//
// Predicate, Enum, CardinalityValue, Vertex: keyword and structure literals
//
// Variable: free variable reference, reported as a translation parameter
//
// # Building Trees
//
// Trees are normally decoded from tree documents (see package treedoc). Tests
// and embedders build them directly:
//
//	q := ast.Source("g",
//	    ast.Call("V"),
//	    ast.Call("has", ast.Str("'name'"), ast.Within(ast.Str("'josh'"))),
//	)
//
// # Walking
//
// Walk visits a tree depth-first in pre-order (receiver before the call
// applied to it). Variables collects the free variable set.
package ast
