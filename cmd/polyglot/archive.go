package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gremlin-hq/polyglot/pkg/archive"
	"gremlin-hq/polyglot/pkg/cli"
)

var archiveFlags struct {
	target   string
	document string
	since    time.Duration
	failed   bool
	limit    int
	offset   int
	format   string
}

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Query and prune archived translations",
	Long: `Access the translation archive configured under archive in the config.

Subcommands:
  query  - list archived translations with filters
  prune  - apply the retention policy once

Examples:
  # Failed Python translations of the last day
  polyglot archive query --target python --failed --since 24h

  # Export everything as CSV
  polyglot archive query --limit 10000 --format csv > archive.csv

  # Apply retention now
  polyglot archive prune`,
}

var archiveQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "List archived translations",
	Args:  cobra.NoArgs,
	RunE:  runArchiveQuery,
}

var archivePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete records outside the retention policy",
	Args:  cobra.NoArgs,
	RunE:  runArchivePrune,
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archiveQueryCmd, archivePruneCmd)

	f := archiveQueryCmd.Flags()
	f.StringVar(&archiveFlags.target, "target", "", "filter by target name")
	f.StringVar(&archiveFlags.document, "document", "", "filter by document name")
	f.DurationVar(&archiveFlags.since, "since", 0, "only records newer than this age")
	f.BoolVar(&archiveFlags.failed, "failed", false, "only failed translations")
	f.IntVar(&archiveFlags.limit, "limit", archive.DefaultLimit, "maximum number of records")
	f.IntVar(&archiveFlags.offset, "offset", 0, "records to skip")
	f.StringVar(&archiveFlags.format, "format", "text", "output format (text, json, csv)")
}

// recordList prints one line per record.
type recordList []*archive.Record

func (l recordList) String() string {
	if len(l) == 0 {
		return "no records"
	}
	var sb strings.Builder
	for _, r := range l {
		status := r.Translated
		if r.Failed() {
			status = "error: " + r.Error
		}
		fmt.Fprintf(&sb, "%s  %-10s %-20s %s\n", r.CreatedAt.Format(time.RFC3339), r.Target, r.Document, status)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func runArchiveQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := env.openArchive(true)
	if err != nil {
		return cli.NewCommandError("archive query", err)
	}

	q := &archive.Query{
		Target:     archiveFlags.target,
		Document:   archiveFlags.document,
		FailedOnly: archiveFlags.failed,
		Limit:      archiveFlags.limit,
		Offset:     archiveFlags.offset,
	}
	if archiveFlags.since > 0 {
		since := time.Now().Add(-archiveFlags.since)
		q.Since = &since
	}

	records, err := store.Query(ctx, q)
	if err != nil {
		return cli.NewCommandError("archive query", err)
	}
	total, err := store.Count(ctx, q)
	if err != nil {
		return cli.NewCommandError("archive query", err)
	}

	out := cmd.OutOrStdout()
	switch archiveFlags.format {
	case "json":
		err = archive.Export(out, records, archive.FormatJSON)
	case "csv":
		err = archive.Export(out, records, archive.FormatCSV)
	case "text", "":
		err = cli.NewFormatter(cli.FormatText).FormatTo(out, recordList(records))
		if err == nil && int64(len(records)) < total {
			fmt.Fprintf(cmd.ErrOrStderr(), "showing %d of %d records\n", len(records), total)
		}
	default:
		return cli.NewConfigError("format", fmt.Sprintf("unknown format %q (want text, json or csv)", archiveFlags.format))
	}
	if err != nil {
		return cli.NewCommandError("archive query", err)
	}
	return nil
}

func runArchivePrune(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := env.openArchive(true)
	if err != nil {
		return cli.NewCommandError("archive prune", err)
	}

	pruned, err := archive.NewPruner(store, env.retention()).Prune(ctx)
	if err != nil {
		return cli.NewCommandError("archive prune", err)
	}
	left, err := store.Count(ctx, nil)
	if err != nil {
		return cli.NewCommandError("archive prune", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Pruned %d records, %d remaining\n", pruned, left)
	return nil
}
