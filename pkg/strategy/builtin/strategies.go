package builtin

import (
	"fmt"

	"gremlin-hq/polyglot/pkg/gremlin/ast"
	"gremlin-hq/polyglot/pkg/strategy"
)

// ReadOnlyStrategy rejects traversals that mutate the graph.
type ReadOnlyStrategy struct{}

var readOnly = &ReadOnlyStrategy{}

func (*ReadOnlyStrategy) Name() string { return "ReadOnlyStrategy" }

func (*ReadOnlyStrategy) Configuration() *strategy.Configuration {
	return strategy.NewConfiguration()
}

// LazyBarrierStrategy inserts barriers to bulk traversers.
type LazyBarrierStrategy struct{}

var lazyBarrier = &LazyBarrierStrategy{}

func (*LazyBarrierStrategy) Name() string { return "LazyBarrierStrategy" }

func (*LazyBarrierStrategy) Configuration() *strategy.Configuration {
	return strategy.NewConfiguration()
}

// ProductiveByStrategy makes by() modulators produce null for missing keys.
type ProductiveByStrategy struct {
	ProductiveKeys []string
}

var productiveBy = &ProductiveByStrategy{}

func (*ProductiveByStrategy) Name() string { return "ProductiveByStrategy" }

func (s *ProductiveByStrategy) Configuration() *strategy.Configuration {
	c := strategy.NewConfiguration()
	if len(s.ProductiveKeys) > 0 {
		c.Set("productiveKeys", stringsToAny(s.ProductiveKeys))
	}
	return c
}

func newProductiveBy(c *strategy.Configuration) (strategy.Strategy, error) {
	const name = "ProductiveByStrategy"
	if err := checkKeys(name, c, "productiveKeys"); err != nil {
		return nil, err
	}
	keys, _, err := c.Strings("productiveKeys")
	if err != nil {
		return nil, configError(name, err)
	}
	return &ProductiveByStrategy{ProductiveKeys: keys}, nil
}

// SeedStrategy fixes the random seed used by sampling steps.
type SeedStrategy struct {
	Seed int64
}

func (*SeedStrategy) Name() string { return "SeedStrategy" }

func (s *SeedStrategy) Configuration() *strategy.Configuration {
	c := strategy.NewConfiguration()
	c.Set("seed", s.Seed)
	return c
}

func newSeed(c *strategy.Configuration) (strategy.Strategy, error) {
	const name = "SeedStrategy"
	if err := checkKeys(name, c, "seed"); err != nil {
		return nil, err
	}
	seed, ok, err := c.Int64("seed")
	if err != nil {
		return nil, configError(name, err)
	}
	if !ok {
		return nil, &strategy.ConfigError{Strategy: name, Key: "seed", Message: "is required"}
	}
	return &SeedStrategy{Seed: seed}, nil
}

// PartitionStrategy confines reads and writes to graph partitions.
type PartitionStrategy struct {
	PartitionKey          string
	WritePartition        string
	ReadPartitions        []string
	IncludeMetaProperties bool
}

func (*PartitionStrategy) Name() string { return "PartitionStrategy" }

func (s *PartitionStrategy) Configuration() *strategy.Configuration {
	c := strategy.NewConfiguration()
	c.Set("partitionKey", s.PartitionKey)
	if s.WritePartition != "" {
		c.Set("writePartition", s.WritePartition)
	}
	if len(s.ReadPartitions) > 0 {
		c.Set("readPartitions", stringsToAny(s.ReadPartitions))
	}
	c.Set("includeMetaProperties", s.IncludeMetaProperties)
	return c
}

func newPartition(c *strategy.Configuration) (strategy.Strategy, error) {
	const name = "PartitionStrategy"
	if err := checkKeys(name, c, "partitionKey", "writePartition", "readPartitions", "includeMetaProperties"); err != nil {
		return nil, err
	}

	s := &PartitionStrategy{}
	key, ok, err := c.String("partitionKey")
	if err != nil {
		return nil, configError(name, err)
	}
	if !ok || key == "" {
		return nil, &strategy.ConfigError{Strategy: name, Key: "partitionKey", Message: "is required"}
	}
	s.PartitionKey = key

	if s.WritePartition, _, err = c.String("writePartition"); err != nil {
		return nil, configError(name, err)
	}
	if s.ReadPartitions, _, err = c.Strings("readPartitions"); err != nil {
		return nil, configError(name, err)
	}
	if s.IncludeMetaProperties, _, err = c.Bool("includeMetaProperties"); err != nil {
		return nil, configError(name, err)
	}
	return s, nil
}

// SubgraphStrategy restricts traversals to the elements matching filter
// traversals.
type SubgraphStrategy struct {
	Vertices              *ast.Traversal
	Edges                 *ast.Traversal
	VertexProperties      *ast.Traversal
	CheckAdjacentVertices bool
}

func (*SubgraphStrategy) Name() string { return "SubgraphStrategy" }

func (s *SubgraphStrategy) Configuration() *strategy.Configuration {
	c := strategy.NewConfiguration()
	if s.Vertices != nil {
		c.Set("vertices", s.Vertices)
	}
	if s.Edges != nil {
		c.Set("edges", s.Edges)
	}
	if s.VertexProperties != nil {
		c.Set("vertexProperties", s.VertexProperties)
	}
	c.Set("checkAdjacentVertices", s.CheckAdjacentVertices)
	return c
}

func newSubgraph(c *strategy.Configuration) (strategy.Strategy, error) {
	const name = "SubgraphStrategy"
	if err := checkKeys(name, c, "vertices", "edges", "vertexProperties", "checkAdjacentVertices"); err != nil {
		return nil, err
	}

	s := &SubgraphStrategy{CheckAdjacentVertices: true}
	var err error
	if s.Vertices, err = traversalArg(name, c, "vertices"); err != nil {
		return nil, err
	}
	if s.Edges, err = traversalArg(name, c, "edges"); err != nil {
		return nil, err
	}
	if s.VertexProperties, err = traversalArg(name, c, "vertexProperties"); err != nil {
		return nil, err
	}
	if b, ok, err := c.Bool("checkAdjacentVertices"); err != nil {
		return nil, configError(name, err)
	} else if ok {
		s.CheckAdjacentVertices = b
	}

	if s.Vertices == nil && s.Edges == nil && s.VertexProperties == nil {
		return nil, &strategy.ConfigError{Strategy: name, Message: "requires at least one of vertices, edges or vertexProperties"}
	}
	return s, nil
}

// VerificationStrategy is the shape shared by the verification strategies:
// they either log a warning or fail the traversal.
type VerificationStrategy struct {
	name           string
	LogWarning     bool
	ThrowException bool

	// Keys is only used by ReservedKeysVerificationStrategy.
	Keys []string
}

func (s *VerificationStrategy) Name() string { return s.name }

func (s *VerificationStrategy) Configuration() *strategy.Configuration {
	c := strategy.NewConfiguration()
	c.Set("logWarning", s.LogWarning)
	c.Set("throwException", s.ThrowException)
	if s.name == reservedKeysName {
		c.Set("keys", stringsToAny(s.Keys))
	}
	return c
}

const (
	edgeLabelName    = "EdgeLabelVerificationStrategy"
	reservedKeysName = "ReservedKeysVerificationStrategy"
)

var defaultReservedKeys = []string{"id", "label"}

func newVerification(name string) func() (strategy.Strategy, error) {
	return func() (strategy.Strategy, error) {
		s := &VerificationStrategy{name: name}
		if name == reservedKeysName {
			s.Keys = append([]string(nil), defaultReservedKeys...)
		}
		return s, nil
	}
}

func createVerification(name string) func(*strategy.Configuration) (strategy.Strategy, error) {
	allowed := []string{"logWarning", "throwException"}
	if name == reservedKeysName {
		allowed = append(allowed, "keys")
	}
	return func(c *strategy.Configuration) (strategy.Strategy, error) {
		if err := checkKeys(name, c, allowed...); err != nil {
			return nil, err
		}
		base, _ := newVerification(name)()
		s := base.(*VerificationStrategy)

		if b, ok, err := c.Bool("logWarning"); err != nil {
			return nil, configError(name, err)
		} else if ok {
			s.LogWarning = b
		}
		if b, ok, err := c.Bool("throwException"); err != nil {
			return nil, configError(name, err)
		} else if ok {
			s.ThrowException = b
		}
		if name == reservedKeysName {
			if keys, ok, err := c.Strings("keys"); err != nil {
				return nil, configError(name, err)
			} else if ok {
				s.Keys = keys
			}
		}
		return s, nil
	}
}

// OptionsStrategy carries arbitrary key/value options to the traversal.
type OptionsStrategy struct {
	Options *strategy.Configuration
}

func (*OptionsStrategy) Name() string { return "OptionsStrategy" }

func (s *OptionsStrategy) Configuration() *strategy.Configuration { return s.Options }

func checkKeys(name string, c *strategy.Configuration, allowed ...string) error {
	for _, k := range c.Keys() {
		known := false
		for _, a := range allowed {
			if k == a {
				known = true
				break
			}
		}
		if !known {
			return &strategy.ConfigError{Strategy: name, Key: k, Message: "unknown configuration key"}
		}
	}
	return nil
}

func traversalArg(name string, c *strategy.Configuration, key string) (*ast.Traversal, error) {
	v, ok := c.Get(key)
	if !ok || v == nil {
		return nil, nil
	}
	t, isTraversal := v.(*ast.Traversal)
	if !isTraversal {
		return nil, &strategy.ConfigError{Strategy: name, Key: key, Message: fmt.Sprintf("expected traversal, got %T", v)}
	}
	return t, nil
}

// configError wraps a typed accessor failure, whose message already names
// the key.
func configError(name string, err error) error {
	return &strategy.ConfigError{Strategy: name, Message: err.Error()}
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
