/*
Package cli provides command-line helpers for the polyglot command.

Output formatting:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, translations); err != nil {
		return err
	}

Values that implement Table can also be written as CSV.

Progress reporting for batch runs:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(int64(len(jobs)))
	// progress.Increment(failed) as each job finishes
	progress.Finish()

Signal handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

ExitCode maps command errors to process exit codes.
*/
package cli
