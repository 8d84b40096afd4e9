package strategy

import (
	"fmt"
	"strings"
)

// SourceStyle describes how a target language spells strategy construction.
// Patterns may reference the strategy name as {name}.
type SourceStyle struct {
	// ZeroArg is the instance-access pattern for strategies without
	// arguments, for example "{name}.instance()".
	ZeroArg string

	// Builder selects Name.build().k(v)....create() for strategies with
	// arguments. Open, Close and KeyValue are ignored when set.
	Builder bool

	// Open and Close surround keyword arguments, for example "new {name}(" and ")".
	Open  string
	Close string

	// KeyValue separates a key from its value inside Open/Close.
	KeyValue string

	// KeyName maps configuration keys to the target's spelling. Nil keeps
	// keys unchanged.
	KeyName func(string) string
}

// RenderedArg is a strategy argument whose value is already target text.
type RenderedArg struct {
	Key   string
	Value string
}

// Render returns the construction source text for name with args.
func (s SourceStyle) Render(name string, args []RenderedArg) string {
	if len(args) == 0 {
		return expand(s.ZeroArg, name)
	}

	var sb strings.Builder
	if s.Builder {
		sb.WriteString(name)
		sb.WriteString(".build()")
		for _, a := range args {
			fmt.Fprintf(&sb, ".%s(%s)", s.key(a.Key), a.Value)
		}
		sb.WriteString(".create()")
		return sb.String()
	}

	sb.WriteString(expand(s.Open, name))
	for i, a := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(s.key(a.Key))
		sb.WriteString(s.KeyValue)
		sb.WriteString(a.Value)
	}
	sb.WriteString(expand(s.Close, name))
	return sb.String()
}

func (s SourceStyle) key(k string) string {
	if s.KeyName == nil {
		return k
	}
	return s.KeyName(k)
}

func expand(pattern, name string) string {
	return strings.ReplaceAll(pattern, "{name}", name)
}
