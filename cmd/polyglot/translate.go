package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"gremlin-hq/polyglot/pkg/archive"
	"gremlin-hq/polyglot/pkg/cli"
	"gremlin-hq/polyglot/pkg/gremlin/treedoc"
	"gremlin-hq/polyglot/pkg/telemetry/logging"
	"gremlin-hq/polyglot/pkg/translator"
)

var translateFlags struct {
	targets  []string
	source   string
	output   string
	dumpTree bool
}

var translateCmd = &cobra.Command{
	Use:   "translate FILE",
	Short: "Translate the documents of one file",
	Long: `Translate every query document in FILE to the requested targets.
FILE may be "-" to read from standard input.

Targets: ` + strings.Join(translator.TargetNames(), ", ") + `

Examples:
  # Translate to Python
  polyglot translate query.yaml -t python

  # Translate to several targets as JSON
  polyglot translate query.yaml -t java -t js --output json

  # Use a different traversal source name
  polyglot translate query.yaml -t groovy --source g2

  # Print the decoded parse tree before translating
  polyglot translate query.yaml --dump-tree`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringSliceVarP(&translateFlags.targets, "target", "t", nil, "target language (repeatable; defaults to translator.targets)")
	_ = translateCmd.RegisterFlagCompletionFunc("target", completeTargets)
	translateCmd.Flags().StringVar(&translateFlags.source, "source", "", "traversal source name (overrides the document and config)")
	translateCmd.Flags().StringVarP(&translateFlags.output, "output", "o", "text", "output format (text, json, yaml, csv)")
	translateCmd.Flags().BoolVar(&translateFlags.dumpTree, "dump-tree", false, "print the decoded parse tree of each document")
}

// translationRow is one document translated for one target.
type translationRow struct {
	Document   string   `json:"document" yaml:"document"`
	Target     string   `json:"target" yaml:"target"`
	Translated string   `json:"translated,omitempty" yaml:"translated,omitempty"`
	Parameters []string `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Error      string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// translationReport renders as plain translations for a single row and with
// a header per row otherwise.
type translationReport []translationRow

func (r translationReport) String() string {
	if len(r) == 1 && r[0].Error == "" {
		return r[0].Translated
	}
	var sb strings.Builder
	for i, row := range r {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "-- %s [%s]\n", row.Document, row.Target)
		if row.Error != "" {
			fmt.Fprintf(&sb, "error: %s\n", row.Error)
			continue
		}
		sb.WriteString(row.Translated)
		sb.WriteByte('\n')
		if len(row.Parameters) > 0 {
			fmt.Fprintf(&sb, "parameters: %s\n", strings.Join(row.Parameters, ", "))
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func (r translationReport) Header() []string {
	return []string{"document", "target", "translated", "parameters", "error"}
}

func (r translationReport) Rows() [][]string {
	rows := make([][]string, len(r))
	for i, row := range r {
		rows[i] = []string{row.Document, row.Target, row.Translated, strings.Join(row.Parameters, ";"), row.Error}
	}
	return rows
}

func (r translationReport) failedDocuments() int {
	failed := map[string]bool{}
	for _, row := range r {
		if row.Error != "" {
			failed[row.Document] = true
		}
	}
	return len(failed)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	format, err := cli.ParseOutputFormat(translateFlags.output)
	if err != nil {
		return cli.NewConfigError("output", err.Error())
	}
	targets, err := env.targets(translateFlags.targets)
	if err != nil {
		return err
	}

	docs, err := readDocuments(cmd.InOrStdin(), args[0])
	if err != nil {
		return cli.NewCommandError("translate", err)
	}

	out := cmd.OutOrStdout()
	var report translationReport
	for _, doc := range docs {
		if translateFlags.dumpTree {
			fmt.Fprintf(out, "-- %s parse tree\n", doc.Name())
			spew.Fdump(out, doc.Query)
		}
		report = append(report, translateDocument(ctx, doc, targets)...)
	}
	env.tel.Metrics().ObserveRun("translate", time.Now())

	if err := cli.NewFormatter(format).FormatTo(out, report); err != nil {
		return cli.NewCommandError("translate", err)
	}
	if failed := report.failedDocuments(); failed > 0 {
		return cli.NewCommandError("translate", &cli.PartialFailure{Failed: failed, Total: len(docs)})
	}
	return nil
}

// translateDocument renders doc for every target. Unlike TranslateAll it
// keeps going after a failing target so every target gets a row.
func translateDocument(ctx context.Context, doc *treedoc.Document, targets []translator.Target) []translationRow {
	opts := env.translateOptions(translateFlags.source)
	ctx = logging.WithSource(ctx, doc.Name())

	start := time.Now()
	var (
		rows         []translationRow
		translations []*translator.Translation
		firstErr     error
	)
	for _, target := range targets {
		tctx := logging.WithTarget(ctx, target.String())
		row := translationRow{Document: doc.Name(), Target: target.String()}
		tr, err := translator.Translate(tctx, doc.Query, target, opts...)
		if err != nil {
			row.Error = err.Error()
			if firstErr == nil {
				firstErr = err
			}
		} else {
			row.Translated = tr.Translated
			row.Parameters = tr.Parameters
			translations = append(translations, tr)
		}
		rows = append(rows, row)
	}
	elapsed := time.Since(start)

	env.tel.Metrics().ObserveDocument("translate", elapsed, firstErr)
	env.record(ctx, archive.Outcome{
		Document:     doc.Name(),
		File:         doc.File,
		Query:        doc.Query,
		Translations: translations,
		Err:          firstErr,
		Duration:     elapsed,
	})
	return rows
}

func readDocuments(stdin io.Reader, path string) ([]*treedoc.Document, error) {
	dec := env.decoder()
	if path != "-" {
		return dec.DecodeFile(path)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read standard input: %w", err)
	}
	return dec.Decode(data, "stdin")
}


func completeTargets(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return translator.TargetNames(), cobra.ShellCompDirectiveNoFileComp
}
