package strategy

import (
	"fmt"
	"math/big"
	"strings"

	"gremlin-hq/polyglot/pkg/gremlin/ast"
	"gremlin-hq/polyglot/pkg/gremlin/value"
)

// Configuration is an ordered property map handed to strategy factories.
// Setting an existing key replaces its value but keeps its position.
type Configuration struct {
	keys   []string
	values map[string]any
}

// NewConfiguration returns an empty configuration.
func NewConfiguration() *Configuration {
	return &Configuration{values: make(map[string]any)}
}

// Set stores v under key.
func (c *Configuration) Set(key string, v any) {
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = v
}

// Get returns the value stored under key.
func (c *Configuration) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Has reports whether key is set.
func (c *Configuration) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Keys returns the keys in first-insertion order.
func (c *Configuration) Keys() []string {
	return append([]string(nil), c.keys...)
}

// Len returns the number of properties.
func (c *Configuration) Len() int { return len(c.keys) }

// String returns the value of key as a string.
func (c *Configuration) String(key string) (string, bool, error) {
	v, ok := c.values[key]
	if !ok {
		return "", false, nil
	}
	s, isString := v.(string)
	if !isString {
		return "", true, fmt.Errorf("%s: expected string, got %T", key, v)
	}
	return s, true, nil
}

// Bool returns the value of key as a boolean.
func (c *Configuration) Bool(key string) (bool, bool, error) {
	v, ok := c.values[key]
	if !ok {
		return false, false, nil
	}
	b, isBool := v.(bool)
	if !isBool {
		return false, true, fmt.Errorf("%s: expected boolean, got %T", key, v)
	}
	return b, true, nil
}

// Int64 returns the value of key as a 64-bit integer. Any integral width is
// accepted.
func (c *Configuration) Int64(key string) (int64, bool, error) {
	v, ok := c.values[key]
	if !ok {
		return 0, false, nil
	}
	switch n := v.(type) {
	case int8:
		return int64(n), true, nil
	case int16:
		return int64(n), true, nil
	case int32:
		return int64(n), true, nil
	case int64:
		return n, true, nil
	case int:
		return int64(n), true, nil
	case *big.Int:
		if n.IsInt64() {
			return n.Int64(), true, nil
		}
		return 0, true, fmt.Errorf("%s: integer %s overflows int64", key, n)
	}
	return 0, true, fmt.Errorf("%s: expected integer, got %T", key, v)
}

// Strings returns the value of key as a list of strings. A single string is
// accepted as a one-element list.
func (c *Configuration) Strings(key string) ([]string, bool, error) {
	v, ok := c.values[key]
	if !ok {
		return nil, false, nil
	}
	switch l := v.(type) {
	case string:
		return []string{l}, true, nil
	case []string:
		return l, true, nil
	case []any:
		out := make([]string, 0, len(l))
		for i, el := range l {
			s, isString := el.(string)
			if !isString {
				return nil, true, fmt.Errorf("%s[%d]: expected string, got %T", key, i, el)
			}
			out = append(out, s)
		}
		return out, true, nil
	}
	return nil, true, fmt.Errorf("%s: expected list of strings, got %T", key, v)
}

// Format renders the configuration as k=v pairs in insertion order.
func (c *Configuration) Format() string {
	parts := make([]string, 0, len(c.keys))
	for _, k := range c.keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, formatValue(c.values[k])))
	}
	return strings.Join(parts, ", ")
}

func formatValue(v any) string {
	switch v := v.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case *value.OrderedMap:
		parts := make([]string, 0, v.Len())
		for i, k := range v.Keys {
			parts = append(parts, fmt.Sprintf("%s:%s", formatValue(k), formatValue(v.Values[i])))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []any:
		parts := make([]string, 0, len(v))
		for _, el := range v {
			parts = append(parts, formatValue(el))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ast.Node:
		return "<" + v.Kind().String() + ">"
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%v", v)
}
