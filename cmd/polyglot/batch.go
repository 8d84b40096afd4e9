package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"gremlin-hq/polyglot/pkg/archive"
	"gremlin-hq/polyglot/pkg/batch"
	"gremlin-hq/polyglot/pkg/cli"
	"gremlin-hq/polyglot/pkg/gremlin/ast"
	"gremlin-hq/polyglot/pkg/telemetry/logging"
	"gremlin-hq/polyglot/pkg/watch"
)

var batchFlags struct {
	targets     []string
	source      string
	concurrency int
	failFast    bool
	outDir      string
	output      string
	progress    bool
}

var batchCmd = &cobra.Command{
	Use:   "batch DIR",
	Short: "Translate every document under a directory",
	Long: `Translate every tree document under DIR concurrently.

Files are picked up by extension (batch.extensions in the config). Each
document is translated for every target; a failing document is reported and
the others keep going unless --fail-fast is set.

Examples:
  # Translate to the configured targets and print a report
  polyglot batch queries/

  # Write <document>.<target>.txt files with 8 workers
  polyglot batch queries/ -t python -t java --out-dir build/ --concurrency 8

  # Stop at the first failure
  polyglot batch queries/ --fail-fast`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringSliceVarP(&batchFlags.targets, "target", "t", nil, "target language (repeatable; defaults to translator.targets)")
	_ = batchCmd.RegisterFlagCompletionFunc("target", completeTargets)
	batchCmd.Flags().StringVar(&batchFlags.source, "source", "", "traversal source name")
	batchCmd.Flags().IntVar(&batchFlags.concurrency, "concurrency", 0, "documents translated at once (defaults to batch.concurrency)")
	batchCmd.Flags().BoolVar(&batchFlags.failFast, "fail-fast", false, "stop after the first failing document")
	batchCmd.Flags().StringVar(&batchFlags.outDir, "out-dir", "", "write each translation to a file in this directory")
	batchCmd.Flags().StringVarP(&batchFlags.output, "output", "o", "text", "report format (text, json, yaml, csv)")
	batchCmd.Flags().BoolVar(&batchFlags.progress, "progress", false, "show a progress bar on stderr")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := logging.WithSource(cmd.Context(), args[0])
	cfg := env.cfg

	format, err := cli.ParseOutputFormat(batchFlags.output)
	if err != nil {
		return cli.NewConfigError("output", err.Error())
	}
	targets, err := env.targets(batchFlags.targets)
	if err != nil {
		return err
	}

	jobs, err := batch.Collect(args[0], cfg.Batch.Extensions, env.decoder())
	if err != nil {
		return cli.NewCommandError("batch", err)
	}
	queries := make(map[string]ast.Node, len(jobs))
	for _, j := range jobs {
		queries[j.Name] = j.Query
	}

	concurrency := cfg.Batch.Concurrency
	if batchFlags.concurrency > 0 {
		concurrency = batchFlags.concurrency
	}

	// Open the archive before the workers record into it.
	if _, err := env.openArchive(false); err != nil {
		return cli.NewCommandError("batch", err)
	}

	var progress *cli.SimpleProgress
	if batchFlags.progress {
		progress = cli.NewProgressReporter(cmd.ErrOrStderr())
		progress.Start(int64(len(jobs)))
	}

	metrics := env.tel.Metrics()
	results, runErr := batch.Run(ctx, jobs, batch.Options{
		Targets:     targets,
		Concurrency: concurrency,
		FailFast:    cfg.Batch.FailFast || batchFlags.failFast,
		Translate:   env.translateOptions(batchFlags.source),
		Logger:      logging.Component(env.logger, "batch"),
		OnResult: func(res batch.Result) {
			metrics.ObserveDocument("batch", res.Duration, res.Err)
			env.record(ctx, archive.Outcome{
				Document:     res.Job,
				Query:        queries[res.Job],
				Translations: res.Translations,
				Err:          res.Err,
				Duration:     res.Duration,
			})
			if progress != nil {
				progress.Increment(res.Failed())
			}
		},
	})
	metrics.ObserveRun("batch", time.Now())
	if progress != nil {
		if runErr != nil {
			progress.Error(runErr)
		} else {
			progress.Finish()
		}
	}

	if batchFlags.outDir != "" {
		if err := writeBatchOutputs(batchFlags.outDir, results); err != nil {
			return cli.NewCommandError("batch", err)
		}
	}

	report := batchReport(results)
	if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), report); err != nil {
		return cli.NewCommandError("batch", err)
	}
	if runErr != nil {
		return cli.NewCommandError("batch", runErr)
	}
	if failed := report.failed(); failed > 0 {
		return cli.NewCommandError("batch", &cli.PartialFailure{Failed: failed, Total: len(results)})
	}
	return nil
}

func writeBatchOutputs(dir string, results []batch.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, res := range results {
		for _, t := range res.Translations {
			path := filepath.Join(dir, watch.OutputName(res.Job, t.Target))
			if err := os.WriteFile(path, []byte(t.Translated+"\n"), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
		}
	}
	return nil
}

// batchReport lists every job with its targets, or its error.
type batchReport []batch.Result

func (r batchReport) failed() int {
	n := 0
	for i := range r {
		if r[i].Failed() {
			n++
		}
	}
	return n
}

func (r batchReport) String() string {
	var rows translationReport
	for _, res := range r {
		if res.Failed() {
			rows = append(rows, translationRow{Document: res.Job, Target: "-", Error: res.Error})
			continue
		}
		for _, t := range res.Translations {
			rows = append(rows, translationRow{Document: res.Job, Target: t.Target.String(), Translated: t.Translated, Parameters: t.Parameters})
		}
	}
	return fmt.Sprintf("%s\n\n%d documents, %d failed", rows, len(r), r.failed())
}

func (r batchReport) Header() []string {
	return []string{"job", "targets", "duration_ms", "error"}
}

func (r batchReport) Rows() [][]string {
	rows := make([][]string, len(r))
	for i, res := range r {
		rows[i] = []string{
			res.Job,
			fmt.Sprint(len(res.Translations)),
			fmt.Sprintf("%.3f", float64(res.Duration)/float64(time.Millisecond)),
			res.Error,
		}
	}
	return rows
}
