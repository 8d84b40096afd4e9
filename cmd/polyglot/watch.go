package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"gremlin-hq/polyglot/pkg/archive"
	"gremlin-hq/polyglot/pkg/cli"
	"gremlin-hq/polyglot/pkg/gremlin/treedoc"
	"gremlin-hq/polyglot/pkg/telemetry/logging"
	"gremlin-hq/polyglot/pkg/watch"
)

var watchFlags struct {
	targets  []string
	source   string
	outDir   string
	debounce time.Duration
	listen   string
	initial  bool
}

var watchCmd = &cobra.Command{
	Use:   "watch PATH...",
	Short: "Re-translate documents as they change",
	Long: `Watch files or directories and translate each changed document to the
requested targets. Translations are written as <document>.<target>.txt next to
the source file, or under --out-dir.

When a listen address is set (flag or telemetry.metrics.listen_address),
Prometheus metrics and the /health, /ready and /version endpoints are served
on it. With archiving enabled, retention pruning runs on its cron schedule.

Examples:
  # Watch a directory, translating existing files first
  polyglot watch queries/ -t python --initial

  # Serve metrics and health while watching
  polyglot watch queries/ --listen :9464`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringSliceVarP(&watchFlags.targets, "target", "t", nil, "target language (repeatable; defaults to translator.targets)")
	_ = watchCmd.RegisterFlagCompletionFunc("target", completeTargets)
	watchCmd.Flags().StringVar(&watchFlags.source, "source", "", "traversal source name")
	watchCmd.Flags().StringVar(&watchFlags.outDir, "out-dir", "", "directory for translations (defaults to watch.output_dir)")
	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", 0, "quiet period before a changed file is translated")
	watchCmd.Flags().StringVar(&watchFlags.listen, "listen", "", "address for the metrics and health endpoints")
	watchCmd.Flags().BoolVar(&watchFlags.initial, "initial", false, "translate every matching file on startup")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := env.cfg
	logger := logging.Component(env.logger, "watch")

	targets, err := env.targets(watchFlags.targets)
	if err != nil {
		return err
	}

	wcfg := &watch.Config{
		Paths:      args,
		Targets:    targets,
		Debounce:   cfg.Watch.Debounce,
		Extensions: cfg.Watch.Extensions,
		OutputDir:  cfg.Watch.OutputDir,
		SkipHidden: !cfg.Watch.IncludeHidden,
		Initial:    cfg.Watch.Initial || watchFlags.initial,
	}
	if watchFlags.debounce > 0 {
		wcfg.Debounce = watchFlags.debounce
	}
	if watchFlags.outDir != "" {
		wcfg.OutputDir = watchFlags.outDir
	}

	var processed atomic.Int64
	w, err := watch.New(wcfg,
		watch.WithTranslateOptions(env.translateOptions(watchFlags.source)...),
		watch.WithDecoder(env.decoder()),
		watch.WithLogger(logger),
		watch.WithHandler(func(ctx context.Context, res watch.Result, docs []*treedoc.Document, outcomes []watch.DocumentOutcome) {
			processed.Add(1)
			observeWatchResult(ctx, res, docs, outcomes)
		}),
	)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	checker := env.tel.Health()
	checker.RegisterCheck("watcher", func(context.Context) error { return nil })

	store, err := env.openArchive(false)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	if store != nil {
		checker.RegisterCheck("archive", func(ctx context.Context) error {
			_, err := store.Count(ctx, &archive.Query{Limit: 1})
			return err
		})
		scheduler := archive.NewScheduler(archive.NewPruner(store, env.retention()))
		if err := scheduler.Start(ctx); err != nil {
			logger.WarnContext(ctx, "failed to start retention scheduler", "error", err)
		} else {
			defer scheduler.Stop()
			if next := scheduler.NextRun(); next != nil {
				logger.DebugContext(ctx, "retention scheduler started", "next_run", next)
			}
		}
	}

	listen := cfg.Telemetry.Metrics.ListenAddress
	if watchFlags.listen != "" {
		listen = watchFlags.listen
	}
	var srv *http.Server
	if listen != "" {
		srv = &http.Server{
			Addr:              listen,
			Handler:           env.tel.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("status server failed", "address", listen, "error", err)
			}
		}()
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Status endpoints on %s\n", listen)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "✓ Watching %d path(s) for %d target(s). Press Ctrl+C to stop\n", len(args), len(targets))
	err = w.Watch(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if serr := srv.Shutdown(shutdownCtx); serr != nil {
			logger.Warn("status server shutdown failed", "error", serr)
		}
	}
	if err := env.tel.WriteTextfile(); err != nil {
		logger.Warn("failed to write metrics textfile", "error", err)
	}
	logger.Info("watch stopped", "files_processed", processed.Load())

	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}

func observeWatchResult(ctx context.Context, res watch.Result, docs []*treedoc.Document, outcomes []watch.DocumentOutcome) {
	metrics := env.tel.Metrics()
	defer metrics.ObserveRun("watch", time.Now())

	if docs == nil {
		metrics.ObserveDocument("watch", 0, res.Err)
		return
	}
	for i, o := range outcomes {
		if o.Err == nil && o.Translations == nil {
			continue
		}
		doc := docs[i]
		metrics.ObserveDocument("watch", o.Duration, o.Err)
		env.record(ctx, archive.Outcome{
			Document:     doc.Name(),
			File:         doc.File,
			Query:        doc.Query,
			Translations: o.Translations,
			Err:          o.Err,
			Duration:     o.Duration,
		})
	}
}
