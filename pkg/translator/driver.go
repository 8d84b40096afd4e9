package translator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"gremlin-hq/polyglot/pkg/gremlin/ast"
	"gremlin-hq/polyglot/pkg/strategy"
	"gremlin-hq/polyglot/pkg/strategy/builtin"
)

// DefaultSourceName is the traversal source identifier used when neither the
// caller nor the tree names one.
const DefaultSourceName = "g"

// Translation is the result of a successful translation.
type Translation struct {
	Target     Target   `json:"target"`
	Translated string   `json:"translated"`
	Parameters []string `json:"parameters"`
}

// Observer receives translation outcomes. metrics.Collector implements it.
type Observer interface {
	ObserveTranslation(target string, d time.Duration, parameters int, err error)
	ObservePlaceholders(family string, n int)
}

type options struct {
	sourceName    string
	registry      *strategy.Registry
	families      Families
	logger        *slog.Logger
	observer      Observer
	tracer        trace.Tracer
	logAnonymized bool
}

// Option configures a translation.
type Option func(*options)

// WithSourceName overrides the root traversal source identifier.
func WithSourceName(name string) Option {
	return func(o *options) { o.sourceName = name }
}

// WithRegistry sets the registry strategy names are checked against.
func WithRegistry(r *strategy.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithFamilies sets the anonymizer family table.
func WithFamilies(f Families) Option {
	return func(o *options) { o.families = f }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithObserver sets the outcome observer.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithTracer sets the tracer used for translation spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// WithAnonymizedLogging logs the anonymized form of each translated query at
// debug level. Literal values never appear in logs otherwise.
func WithAnonymizedLogging(on bool) Option {
	return func(o *options) { o.logAnonymized = on }
}

func buildOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.registry == nil {
		o.registry = builtin.Default()
	}
	if o.logger == nil {
		o.logger = slog.Default().With("component", "translator")
	}
	if o.tracer == nil {
		o.tracer = noop.NewTracerProvider().Tracer("polyglot/translator")
	}
	return o
}

// Translate renders root as source text for target.
//
// Translation is all-or-nothing: on failure no partial text is returned and
// the error is a *TranslationError whose message starts with the message of
// the error that stopped the walk.
func Translate(ctx context.Context, root ast.Node, target Target, opts ...Option) (*Translation, error) {
	o := buildOptions(opts)

	ctx, span := o.tracer.Start(ctx, "translator.translate",
		trace.WithAttributes(attribute.String("translator.target", target.String())),
	)
	defer span.End()

	start := time.Now()
	res, st, err := translate(root, target, o)
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "translation failed")
		o.logger.WarnContext(ctx, "translation failed",
			"target", target.String(),
			"error", err,
		)
		if o.observer != nil {
			o.observer.ObserveTranslation(target.String(), elapsed, 0, err)
		}
		return nil, err
	}

	span.SetAttributes(attribute.Int("translator.parameters", len(res.Parameters)))
	if o.observer != nil {
		o.observer.ObserveTranslation(target.String(), elapsed, len(res.Parameters), nil)
		for family, n := range st.anon.counts() {
			o.observer.ObservePlaceholders(family, n)
		}
	}

	attrs := []any{
		"target", target.String(),
		"parameters", len(res.Parameters),
		"duration", elapsed,
	}
	if o.logAnonymized {
		if anon, aerr := anonymize(root, o); aerr == nil {
			attrs = append(attrs, "query", anon)
		}
	}
	o.logger.DebugContext(ctx, "translated", attrs...)
	return res, nil
}

func translate(root ast.Node, target Target, o *options) (*Translation, *state, error) {
	d, err := DialectFor(target)
	if err != nil {
		return nil, nil, &TranslationError{Target: target, Err: err}
	}
	st := newState(d, o.sourceName, o.registry, o.families)
	text, err := st.render(root)
	if err != nil {
		return nil, st, &TranslationError{Target: target, Err: err, Location: st.failedAt}
	}
	return &Translation{
		Target:     target,
		Translated: text,
		Parameters: st.parameters(),
	}, st, nil
}

func anonymize(root ast.Node, o *options) (string, error) {
	st := newState(anonymizedDialect(), o.sourceName, o.registry, o.families)
	return st.render(root)
}

// Render renders a single node for target without strategy name checks.
// Errors are returned unwrapped.
func Render(n ast.Node, target Target) (string, error) {
	d, err := DialectFor(target)
	if err != nil {
		return "", err
	}
	return newState(d, "", nil, nil).render(n)
}

// TranslateAll translates root once per target, stopping at the first
// failure.
func TranslateAll(ctx context.Context, root ast.Node, targets []Target, opts ...Option) ([]*Translation, error) {
	out := make([]*Translation, 0, len(targets))
	for _, t := range targets {
		res, err := Translate(ctx, root, t, opts...)
		if err != nil {
			return out, err
		}
		out = append(out, res)
	}
	return out, nil
}

// Cause returns the error wrapped by a TranslationError, or err itself.
func Cause(err error) error {
	var te *TranslationError
	if errors.As(err, &te) {
		return te.Err
	}
	return err
}
