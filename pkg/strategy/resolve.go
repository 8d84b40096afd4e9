package strategy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"gremlin-hq/polyglot/pkg/gremlin/ast"
	"gremlin-hq/polyglot/pkg/gremlin/value"
)

// Spec is a strategy reference with its ordered arguments, shared by the
// execution and translation paths.
type Spec struct {
	Name     string
	Args     []Arg
	Location ast.Location
}

// Arg is one key:value strategy argument.
type Arg struct {
	Key   string
	Value ast.Node
}

// SpecFrom converts a parse tree strategy specification.
func SpecFrom(s *ast.StrategySpec) Spec {
	spec := Spec{Name: s.Name, Location: s.Location}
	for _, a := range s.Args {
		spec.Args = append(spec.Args, Arg{Key: a.Key, Value: a.Value})
	}
	return spec
}

// Resolution is the outcome of runtime construction.
type Resolution struct {
	Strategy Strategy

	// Kind is the construction path that succeeded.
	Kind Kind

	Entry Entry
}

// Observer receives construction outcomes. metrics.Collector implements it.
type Observer interface {
	ObserveConstruction(strategy string, kind Kind, err error)
}

// Resolver constructs strategies from specifications using a registry.
type Resolver struct {
	registry *Registry
	bindings map[string]any
	logger   *slog.Logger
	observer Observer
	tracer   trace.Tracer
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithBindings supplies values for variables used as strategy arguments.
func WithBindings(bindings map[string]any) ResolverOption {
	return func(r *Resolver) { r.bindings = bindings }
}

// WithLogger sets the resolver logger.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = logger }
}

// WithObserver sets the construction observer.
func WithObserver(o Observer) ResolverOption {
	return func(r *Resolver) { r.observer = o }
}

// WithTracer sets the tracer used for construction spans.
func WithTracer(t trace.Tracer) ResolverOption {
	return func(r *Resolver) { r.tracer = t }
}

// NewResolver creates a resolver over registry.
func NewResolver(registry *Registry, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		registry: registry,
		logger:   slog.Default().With("component", "strategy.resolver"),
		tracer:   noop.NewTracerProvider().Tracer("polyglot/strategy"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Construct builds the runtime strategy for spec.
//
// With no arguments the entrypoints are tried in the fixed order Singleton,
// BareConstructor, ConfigFactory (with an empty configuration), whatever
// kind the entry declares. With arguments only the factory is used.
func (r *Resolver) Construct(ctx context.Context, spec Spec) (*Resolution, error) {
	ctx, span := r.tracer.Start(ctx, "strategy.construct",
		trace.WithAttributes(
			attribute.String("strategy.name", spec.Name),
			attribute.Int("strategy.args", len(spec.Args)),
		),
	)
	defer span.End()

	entry, ok := r.registry.Lookup(spec.Name)
	if !ok {
		err := r.registry.unregistered(spec.Name)
		span.RecordError(err)
		span.SetStatus(codes.Error, "unregistered")
		r.observe(spec.Name, 0, err)
		return nil, err
	}

	var (
		res *Resolution
		err error
	)
	if len(spec.Args) == 0 {
		res, err = r.constructZeroArg(entry)
	} else {
		res, err = r.constructConfigured(entry, spec)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "construction failed")
		r.logger.WarnContext(ctx, "strategy construction failed",
			"strategy", entry.Name,
			"error", err,
		)
		r.observe(entry.Name, 0, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("strategy.kind", res.Kind.String()))
	r.logger.DebugContext(ctx, "strategy constructed",
		"strategy", entry.Name,
		"kind", res.Kind.String(),
	)
	r.observe(entry.Name, res.Kind, nil)
	return res, nil
}

func (r *Resolver) constructZeroArg(entry Entry) (*Resolution, error) {
	var attempts []Attempt
	for _, kind := range fallbackOrder {
		s, err := invoke(entry, kind, NewConfiguration())
		if err == nil {
			return &Resolution{Strategy: s, Kind: kind, Entry: entry}, nil
		}
		attempts = append(attempts, Attempt{Kind: kind, Err: err})
	}
	return nil, &StrategyConstructionError{Name: entry.Name, Attempts: attempts}
}

func (r *Resolver) constructConfigured(entry Entry, spec Spec) (*Resolution, error) {
	conf, err := r.Configure(spec)
	if err != nil {
		return nil, &StrategyConstructionError{
			Name:     entry.Name,
			Attempts: []Attempt{{Kind: ConfigFactory, Err: err}},
		}
	}

	s, err := invoke(entry, ConfigFactory, conf)
	if err != nil {
		return nil, &StrategyConstructionError{
			Name:     entry.Name,
			Attempts: []Attempt{{Kind: ConfigFactory, Err: err}},
		}
	}
	return &Resolution{Strategy: s, Kind: ConfigFactory, Entry: entry}, nil
}

// Configure evaluates the spec's arguments into a Configuration in source
// order. A repeated key keeps its first position and takes the last value.
func (r *Resolver) Configure(spec Spec) (*Configuration, error) {
	eval := &value.Evaluator{Bindings: r.bindings}
	conf := NewConfiguration()
	for _, a := range spec.Args {
		v, err := eval.Eval(a.Value)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", a.Key, err)
		}
		conf.Set(a.Key, v)
	}
	return conf, nil
}

// invoke calls the entrypoint for kind, converting panics and nil results
// into errors.
func invoke(entry Entry, kind Kind, conf *Configuration) (s Strategy, err error) {
	defer func() {
		if p := recover(); p != nil {
			s, err = nil, fmt.Errorf("panic: %v", p)
		}
	}()

	switch kind {
	case Singleton:
		if entry.Instance == nil {
			return nil, ErrNoEntrypoint
		}
		s, err = entry.Instance()
	case BareConstructor:
		if entry.New == nil {
			return nil, ErrNoEntrypoint
		}
		s, err = entry.New()
	case ConfigFactory:
		if entry.Create == nil {
			return nil, ErrNoEntrypoint
		}
		s, err = entry.Create(conf)
	default:
		return nil, fmt.Errorf("unknown construction kind %d", kind)
	}

	if err == nil && s == nil {
		err = errors.New("entrypoint returned no strategy")
	}
	return s, err
}

func (r *Resolver) observe(name string, kind Kind, err error) {
	if r.observer != nil {
		r.observer.ObserveConstruction(name, kind, err)
	}
}
