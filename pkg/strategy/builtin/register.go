// Package builtin provides the built-in traversal strategies and the
// process-wide registry holding them.
package builtin

import (
	"fmt"
	"sync"

	"gremlin-hq/polyglot/pkg/strategy"
)

var (
	defaultOnce     sync.Once
	defaultRegistry *strategy.Registry
)

// Entries returns the registry entries of every built-in strategy.
func Entries() []strategy.Entry {
	return []strategy.Entry{
		{
			Name:        "ReadOnlyStrategy",
			Kind:        strategy.Singleton,
			Instance:    func() (strategy.Strategy, error) { return readOnly, nil },
			Description: "rejects traversals that mutate the graph",
		},
		{
			Name:        "LazyBarrierStrategy",
			Kind:        strategy.Singleton,
			Instance:    func() (strategy.Strategy, error) { return lazyBarrier, nil },
			Description: "inserts barriers to bulk traversers",
		},
		{
			Name:        "ProductiveByStrategy",
			Kind:        strategy.Singleton,
			Instance:    func() (strategy.Strategy, error) { return productiveBy, nil },
			Create:      newProductiveBy,
			Description: "makes by() produce null for missing keys",
			Keys:        []string{"productiveKeys"},
		},
		{
			Name:        "SeedStrategy",
			Kind:        strategy.ConfigFactory,
			Create:      newSeed,
			Description: "fixes the random seed of sampling steps",
			Keys:        []string{"seed"},
		},
		{
			Name:        "PartitionStrategy",
			Kind:        strategy.ConfigFactory,
			Create:      newPartition,
			Description: "confines reads and writes to graph partitions",
			Keys:        []string{"partitionKey", "writePartition", "readPartitions", "includeMetaProperties"},
		},
		{
			Name:        "SubgraphStrategy",
			Kind:        strategy.ConfigFactory,
			Create:      newSubgraph,
			Description: "restricts traversals to a filtered subgraph",
			Keys:        []string{"vertices", "edges", "vertexProperties", "checkAdjacentVertices"},
		},
		{
			Name:        edgeLabelName,
			Kind:        strategy.BareConstructor,
			New:         newVerification(edgeLabelName),
			Create:      createVerification(edgeLabelName),
			Description: "requires edge labels on edge steps",
			Keys:        []string{"logWarning", "throwException"},
		},
		{
			Name:        reservedKeysName,
			Kind:        strategy.BareConstructor,
			New:         newVerification(reservedKeysName),
			Create:      createVerification(reservedKeysName),
			Description: "rejects property keys that are reserved",
			Keys:        []string{"logWarning", "throwException", "keys"},
		},
		{
			Name: "OptionsStrategy",
			Kind: strategy.BareConstructor,
			New: func() (strategy.Strategy, error) {
				return &OptionsStrategy{Options: strategy.NewConfiguration()}, nil
			},
			Create: func(c *strategy.Configuration) (strategy.Strategy, error) {
				return &OptionsStrategy{Options: c}, nil
			},
			Description: "passes arbitrary options to the traversal",
		},
	}
}

// Register adds every built-in strategy to r, skipping disabled names.
func Register(r *strategy.Registry, disabled ...string) error {
	skip := make(map[string]bool, len(disabled))
	for _, name := range disabled {
		skip[name] = true
	}
	for _, e := range Entries() {
		if skip[e.Name] {
			continue
		}
		if err := r.Register(e); err != nil {
			return fmt.Errorf("failed to register %s: %w", e.Name, err)
		}
	}
	return nil
}

// New returns a sealed registry holding the built-in strategies minus the
// disabled names.
func New(disabled ...string) (*strategy.Registry, error) {
	r := strategy.NewRegistry()
	if err := Register(r, disabled...); err != nil {
		return nil, err
	}
	r.Seal()
	return r, nil
}

// Default returns the process-wide sealed registry of all built-ins.
func Default() *strategy.Registry {
	defaultOnce.Do(func() {
		r, err := New()
		if err != nil {
			panic(err)
		}
		defaultRegistry = r
	})
	return defaultRegistry
}
