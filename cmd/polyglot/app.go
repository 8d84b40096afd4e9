package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gremlin-hq/polyglot/pkg/archive"
	"gremlin-hq/polyglot/pkg/cli"
	"gremlin-hq/polyglot/pkg/config"
	"gremlin-hq/polyglot/pkg/gremlin/treedoc"
	"gremlin-hq/polyglot/pkg/strategy"
	"gremlin-hq/polyglot/pkg/strategy/builtin"
	"gremlin-hq/polyglot/pkg/telemetry"
	"gremlin-hq/polyglot/pkg/telemetry/health"
	"gremlin-hq/polyglot/pkg/telemetry/logging"
	"gremlin-hq/polyglot/pkg/telemetry/tracing"
	"gremlin-hq/polyglot/pkg/translator"
)

// env is the state shared by the commands of one invocation.
var env *app

type app struct {
	cfg      *config.Config
	tel      *telemetry.Telemetry
	logger   *slog.Logger
	registry *strategy.Registry
	span     trace.Span
	store    archive.Store
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("config", err.Error())
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	config.SetConfig(cfg)

	tel, err := telemetry.New(&cfg.Telemetry, cmd.ErrOrStderr(), versionInfo(), tracing.WithGlobal())
	if err != nil {
		return nil, cli.NewConfigError("telemetry", err.Error())
	}
	logger := tel.Logger()
	slog.SetDefault(logger)

	registry, err := builtin.New(cfg.Strategies.Disabled...)
	if err != nil {
		return nil, cli.NewConfigError("strategies.disabled", err.Error())
	}

	ctx := tracing.ExtractFromEnv(cmd.Context())
	ctx = logging.WithRequestID(ctx, uuid.NewString())
	ctx, span := tel.Tracer().Start(ctx, "polyglot "+cmd.Name(),
		trace.WithAttributes(attribute.String("polyglot.command", cmd.CommandPath())))
	cmd.SetContext(ctx)

	logger.DebugContext(ctx, "configuration loaded",
		"config", cfgFile,
		"targets", cfg.Translator.Targets,
		"strategies", registry.Len(),
		"archive", cfg.Archive.Enabled,
	)

	return &app{
		cfg:      cfg,
		tel:      tel,
		logger:   logger,
		registry: registry,
		span:     span,
	}, nil
}

func (a *app) close() error {
	a.span.End()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	errs = append(errs, a.tel.Shutdown(ctx))
	return errors.Join(errs...)
}

// targets parses the target flags, falling back to the configured targets.
func (a *app) targets(names []string) ([]translator.Target, error) {
	if len(names) == 0 {
		names = a.cfg.Translator.Targets
	}
	out := make([]translator.Target, 0, len(names))
	for _, name := range names {
		t, err := translator.ParseTarget(name)
		if err != nil {
			return nil, cli.NewConfigError("target", err.Error())
		}
		out = append(out, t)
	}
	return out, nil
}

// translateOptions returns the options shared by every translation. An
// empty source keeps the configured source name.
func (a *app) translateOptions(source string) []translator.Option {
	opts := []translator.Option{
		translator.WithRegistry(a.registry),
		translator.WithFamilies(translator.DefaultFamilies().Merge(a.cfg.Translator.Families)),
		translator.WithLogger(logging.Component(a.logger, "translator")),
		translator.WithObserver(a.tel.Metrics()),
		translator.WithTracer(a.tel.Tracer().Tracer()),
		translator.WithAnonymizedLogging(a.cfg.Translator.LogAnonymized),
	}
	if source == "" {
		source = a.cfg.Translator.SourceName
	}
	if source != "" {
		opts = append(opts, translator.WithSourceName(source))
	}
	return opts
}

func (a *app) resolver() *strategy.Resolver {
	return strategy.NewResolver(a.registry,
		strategy.WithLogger(logging.Component(a.logger, "strategy")),
		strategy.WithObserver(a.tel.Metrics()),
		strategy.WithTracer(a.tel.Tracer().Tracer()),
	)
}

func (a *app) decoder() *treedoc.Decoder {
	return treedoc.NewDecoder()
}

// openArchive opens the configured store once. It returns nil when archiving is
// disabled and force is false.
func (a *app) openArchive(force bool) (archive.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	if !a.cfg.Archive.Enabled && !force {
		return nil, nil
	}
	store, err := archive.Open(archive.Options{
		Driver:      a.cfg.Archive.Driver,
		Path:        a.cfg.Archive.Path,
		WALMode:     a.cfg.Archive.WAL(),
		BusyTimeout: a.cfg.Archive.BusyTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	a.store = store
	return store, nil
}

func (a *app) retention() *archive.RetentionConfig {
	r := a.cfg.Archive.Retention
	return &archive.RetentionConfig{
		RetentionDays: r.Days,
		PruneSchedule: r.PruneSchedule,
		MaxRecords:    r.MaxRecords,
	}
}

// record archives one document outcome when archiving is enabled. Archive
// failures are logged and do not fail the command.
func (a *app) record(ctx context.Context, o archive.Outcome) {
	store, err := a.openArchive(false)
	if err != nil {
		a.logger.WarnContext(ctx, "archive unavailable", "error", err)
		return
	}
	if store == nil {
		return
	}
	var terr *translator.TranslationError
	if errors.As(o.Err, &terr) {
		o.FailedTarget = terr.Target
	}
	if _, err := archive.NewRecorder(store).Record(ctx, o); err != nil {
		a.logger.WarnContext(ctx, "failed to archive translation", "document", o.Document, "error", err)
	}
}

func versionInfo() health.VersionInfo {
	return health.NewVersionInfo(Version, GitCommit, BuildDate)
}
