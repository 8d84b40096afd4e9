package builtin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gremlin-hq/polyglot/pkg/gremlin/ast"
	"gremlin-hq/polyglot/pkg/strategy"
)

func construct(t *testing.T, s *ast.StrategySpec) (*strategy.Resolution, error) {
	t.Helper()
	return strategy.NewResolver(Default()).Construct(context.Background(), strategy.SpecFrom(s))
}

func TestDefault_SealedAndComplete(t *testing.T) {
	r := Default()
	assert.True(t, r.Sealed())
	assert.Same(t, r, Default())
	assert.Equal(t, []string{
		"EdgeLabelVerificationStrategy",
		"LazyBarrierStrategy",
		"OptionsStrategy",
		"PartitionStrategy",
		"ProductiveByStrategy",
		"ReadOnlyStrategy",
		"ReservedKeysVerificationStrategy",
		"SeedStrategy",
		"SubgraphStrategy",
	}, r.Names())

	err := r.Register(strategy.Entry{Name: "Late", Kind: strategy.Singleton,
		Instance: func() (strategy.Strategy, error) { return readOnly, nil }})
	assert.True(t, errors.Is(err, strategy.ErrRegistrySealed))
}

func TestNew_Disabled(t *testing.T) {
	r, err := New("OptionsStrategy", "SeedStrategy")
	require.NoError(t, err)
	_, ok := r.Lookup("SeedStrategy")
	assert.False(t, ok)
	assert.Equal(t, len(Entries())-2, r.Len())
}

func TestConstruct_ZeroArg(t *testing.T) {
	tests := []struct {
		name string
		kind strategy.Kind
	}{
		{"ReadOnlyStrategy", strategy.Singleton},
		{"LazyBarrierStrategy", strategy.Singleton},
		{"ProductiveByStrategy", strategy.Singleton},
		{"EdgeLabelVerificationStrategy", strategy.BareConstructor},
		{"ReservedKeysVerificationStrategy", strategy.BareConstructor},
		{"OptionsStrategy", strategy.BareConstructor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := construct(t, ast.Strategy(tt.name))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, res.Kind)
			assert.Equal(t, tt.name, res.Strategy.Name())
		})
	}
}

func TestConstruct_SingletonIsShared(t *testing.T) {
	a, err := construct(t, ast.Strategy("ReadOnlyStrategy"))
	require.NoError(t, err)
	b, err := construct(t, ast.Strategy("ReadOnlyStrategy"))
	require.NoError(t, err)
	assert.Same(t, a.Strategy, b.Strategy)
}

func TestConstruct_SeedRequiresConfiguration(t *testing.T) {
	_, err := construct(t, ast.Strategy("SeedStrategy"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, strategy.ErrStrategyConstruction))
	assert.Contains(t, err.Error(), "seed: is required")

	res, err := construct(t, ast.NewStrategy("SeedStrategy", ast.Arg("seed", ast.Int("10000"))))
	require.NoError(t, err)
	assert.Equal(t, int64(10000), res.Strategy.(*SeedStrategy).Seed)
}

func TestConstruct_Partition(t *testing.T) {
	res, err := construct(t, ast.NewStrategy("PartitionStrategy",
		ast.Arg("includeMetaProperties", ast.Bool(true)),
		ast.Arg("partitionKey", ast.Str("'x'")),
		ast.Arg("readPartitions", ast.ListOf(ast.Str("'a'"), ast.Str("'b'"))),
	))
	require.NoError(t, err)
	p := res.Strategy.(*PartitionStrategy)
	assert.Equal(t, "x", p.PartitionKey)
	assert.True(t, p.IncludeMetaProperties)
	assert.Equal(t, []string{"a", "b"}, p.ReadPartitions)

	_, err = construct(t, ast.NewStrategy("PartitionStrategy", ast.Arg("writePartition", ast.Str("'w'"))))
	assert.ErrorContains(t, err, "partitionKey: is required")

	_, err = construct(t, ast.NewStrategy("PartitionStrategy",
		ast.Arg("partitionKey", ast.Str("'x'")),
		ast.Arg("bogus", ast.Int("1")),
	))
	assert.ErrorContains(t, err, "bogus: unknown configuration key")
}

func TestConstruct_Subgraph(t *testing.T) {
	vertices := ast.Anon(ast.Call("has", ast.Str("'name'"), ast.Str("'vadas'")))
	edges := ast.Implicit(ast.Call("has", ast.Str("'weight'"), ast.BarePredicate("gt", ast.Float("0.5"))))

	res, err := construct(t, ast.NewStrategy("SubgraphStrategy",
		ast.Arg("vertices", vertices),
		ast.Arg("edges", edges),
	))
	require.NoError(t, err)
	s := res.Strategy.(*SubgraphStrategy)
	assert.Same(t, vertices, s.Vertices)
	assert.Same(t, edges, s.Edges)
	assert.True(t, s.CheckAdjacentVertices)

	_, err = construct(t, ast.NewStrategy("SubgraphStrategy", ast.Arg("checkAdjacentVertices", ast.Bool(false))))
	assert.ErrorContains(t, err, "requires at least one of")

	_, err = construct(t, ast.NewStrategy("SubgraphStrategy", ast.Arg("vertices", ast.Str("'nope'"))))
	assert.ErrorContains(t, err, "expected traversal")
}

func TestConstruct_Verification(t *testing.T) {
	res, err := construct(t, ast.NewStrategy("ReservedKeysVerificationStrategy",
		ast.Arg("throwException", ast.Bool(true)),
		ast.Arg("keys", ast.ListOf(ast.Str("'age'"))),
	))
	require.NoError(t, err)
	v := res.Strategy.(*VerificationStrategy)
	assert.True(t, v.ThrowException)
	assert.False(t, v.LogWarning)
	assert.Equal(t, []string{"age"}, v.Keys)

	res, err = construct(t, ast.Strategy("ReservedKeysVerificationStrategy"))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "label"}, res.Strategy.(*VerificationStrategy).Keys)

	_, err = construct(t, ast.NewStrategy("EdgeLabelVerificationStrategy", ast.Arg("keys", ast.ListOf())))
	assert.ErrorContains(t, err, "unknown configuration key")
}

func TestConstruct_Options(t *testing.T) {
	res, err := construct(t, ast.NewStrategy("OptionsStrategy",
		ast.Arg("evaluationTimeout", ast.Int("500L")),
		ast.Arg("anything", ast.Str("'goes'")),
	))
	require.NoError(t, err)
	conf := res.Strategy.Configuration()
	assert.Equal(t, []string{"evaluationTimeout", "anything"}, conf.Keys())
	assert.Equal(t, `evaluationTimeout=500, anything="goes"`, conf.Format())
}
