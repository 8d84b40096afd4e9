package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gremlin-hq/polyglot/pkg/archive"
	"gremlin-hq/polyglot/pkg/cli"
)

const (
	personQuery = "query: {traversal: {steps: [{step: V}, {step: hasLabel, args: [{string: \"'person'\"}]}]}}\n"
	rangeQuery  = "query: {traversal: {steps: [{step: inject, args: [{range: [0, 5]}]}]}}\n"
	seedQuery   = `query:
  traversal:
    steps:
      - step: withStrategies
        args:
          - strategy: {name: ReadOnlyStrategy}
          - strategy:
              name: SeedStrategy
              args:
                - key: seed
                  value: {integer: "7"}
          - strategy: {name: NoSuchStrategy}
      - step: V
`
)

// resetFlags restores every flag to its default so commands can run more
// than once in one process.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func run(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(""))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	})

	code = execute(context.Background(), args)
	return out.String(), errOut.String(), code
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func archiveConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	return writeFile(t, dir, "polyglot.yaml", `
archive:
  enabled: true
  driver: sqlite
  path: `+filepath.Join(dir, "archive.db")+`
telemetry:
  logging:
    level: error
`)
}

func TestVersion(t *testing.T) {
	out, _, code := run(t, "version")
	assert.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out, "polyglot "+Version)
	assert.Contains(t, out, "Go Version:")
}

func TestCompletion(t *testing.T) {
	out, _, code := run(t, "completion", "bash")
	assert.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out, "polyglot")

	_, _, code = run(t, "completion", "tcsh")
	assert.Equal(t, cli.ExitFailure, code)
}

func TestTranslate(t *testing.T) {
	file := writeFile(t, t.TempDir(), "people.yaml", personQuery)

	out, _, code := run(t, "translate", file, "-t", "python")
	assert.Equal(t, cli.ExitOK, code)
	assert.Equal(t, "g.V().has_label('person')\n", out)

	out, _, code = run(t, "translate", file, "-t", "groovy", "--source", "h")
	assert.Equal(t, cli.ExitOK, code)
	assert.Equal(t, "h.V().hasLabel('person')\n", out)
}

func TestTranslate_JSON(t *testing.T) {
	file := writeFile(t, t.TempDir(), "people.yaml", personQuery)

	out, _, code := run(t, "translate", file, "-t", "java,js", "--output", "json")
	require.Equal(t, cli.ExitOK, code)

	var rows []translationRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "java", rows[0].Target)
	assert.Equal(t, `g.V().hasLabel("person")`, rows[0].Translated)
	assert.Equal(t, "javascript", rows[1].Target)
}

func TestTranslate_Stdin(t *testing.T) {
	resetFlags(rootCmd)
	rootCmd.SetIn(strings.NewReader(personQuery))
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	defer func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	code := execute(context.Background(), []string{"translate", "-", "-t", "groovy"})
	assert.Equal(t, cli.ExitOK, code)
	assert.Equal(t, "g.V().hasLabel('person')\n", out.String())
}

func TestTranslate_DumpTree(t *testing.T) {
	file := writeFile(t, t.TempDir(), "people.yaml", personQuery)

	out, _, code := run(t, "translate", file, "-t", "groovy", "--dump-tree")
	assert.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out, "-- people parse tree")
	assert.Contains(t, out, "hasLabel")
}

func TestTranslate_Failures(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "mixed.yaml", personQuery+"---\n"+rangeQuery)

	out, stderr, code := run(t, "translate", file, "-t", "groovy,python")
	assert.Equal(t, cli.ExitTranslation, code)
	assert.Contains(t, out, "-- mixed-1 [python]\nerror:")
	assert.Contains(t, out, "g.inject(0..5)")
	assert.Contains(t, stderr, "1 of 2 documents failed")

	_, _, code = run(t, "translate", writeFile(t, dir, "bad.yaml", "query: {widget: 1}\n"))
	assert.Equal(t, cli.ExitInput, code)

	_, _, code = run(t, "translate", file, "-t", "cobol")
	assert.Equal(t, cli.ExitConfig, code)

	_, _, code = run(t, "translate", file, "--output", "junit")
	assert.Equal(t, cli.ExitConfig, code)
}

func TestConfigErrors(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.yaml", "archive: {driver: postgres}\n")

	_, stderr, code := run(t, "--config", bad, "strategies")
	assert.Equal(t, cli.ExitConfig, code)
	assert.Contains(t, stderr, "archive.driver")

	_, _, code = run(t, "--config", filepath.Join(dir, "missing.yaml"), "strategies")
	assert.Equal(t, cli.ExitConfig, code)
}

func TestBatch(t *testing.T) {
	src := t.TempDir()
	writeFile(t, src, "people.yaml", personQuery)
	writeFile(t, src, "ranges.yml", rangeQuery)
	writeFile(t, src, "notes.txt", "ignored")
	outDir := filepath.Join(t.TempDir(), "out")

	out, stderr, code := run(t, "batch", src, "-t", "groovy", "--out-dir", outDir, "--progress")
	assert.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out, "2 documents, 0 failed")
	assert.Contains(t, stderr, "(2/2, 0 failed)")

	b, err := os.ReadFile(filepath.Join(outDir, "people.groovy.txt"))
	require.NoError(t, err)
	assert.Equal(t, "g.V().hasLabel('person')\n", string(b))
	assert.FileExists(t, filepath.Join(outDir, "ranges.groovy.txt"))

	out, _, code = run(t, "batch", src, "-t", "go", "--output", "csv")
	assert.Equal(t, cli.ExitTranslation, code)
	assert.True(t, strings.HasPrefix(out, "job,targets,duration_ms,error\n"))
	assert.Contains(t, out, "ranges,0,")
}

func TestStrategies(t *testing.T) {
	out, _, code := run(t, "strategies")
	assert.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out, "ReadOnlyStrategy")
	assert.Contains(t, out, "keys: seed")

	cfg := writeFile(t, t.TempDir(), "polyglot.yaml", "strategies: {disabled: [ReadOnlyStrategy]}\n")
	out, _, code = run(t, "--config", cfg, "strategies", "--output", "json")
	require.Equal(t, cli.ExitOK, code)
	var list []strategyRow
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	for _, s := range list {
		assert.NotEqual(t, "ReadOnlyStrategy", s.Name)
	}
}

func TestStrategiesResolve(t *testing.T) {
	file := writeFile(t, t.TempDir(), "seed.yaml", seedQuery)

	out, _, code := run(t, "strategies", "resolve", file)
	assert.Equal(t, cli.ExitTranslation, code)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "ReadOnlyStrategy: ✓ singleton")
	assert.Contains(t, lines[1], "SeedStrategy: ✓ config_factory")
	assert.Contains(t, lines[1], "seed")
	assert.Contains(t, lines[2], "NoSuchStrategy: ✗")
}

func TestArchive(t *testing.T) {
	cfg := archiveConfig(t)
	file := writeFile(t, t.TempDir(), "mixed.yaml", personQuery+"---\n"+rangeQuery)

	_, _, code := run(t, "--config", cfg, "translate", file, "-t", "groovy,python")
	require.Equal(t, cli.ExitTranslation, code)

	out, _, code := run(t, "--config", cfg, "archive", "query", "--format", "json")
	require.Equal(t, cli.ExitOK, code)
	var records []archive.Record
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	// mixed: groovy and python; mixed-1: groovy plus the python failure.
	assert.Len(t, records, 4)

	out, _, code = run(t, "--config", cfg, "archive", "query", "--failed", "--format", "json")
	require.Equal(t, cli.ExitOK, code)
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "python", records[0].Target)
	assert.Equal(t, "mixed-1", records[0].Document)

	out, _, code = run(t, "--config", cfg, "archive", "query", "--target", "groovy")
	require.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out, "g.inject(0..5)")

	out, _, code = run(t, "--config", cfg, "archive", "prune")
	require.Equal(t, cli.ExitOK, code)
	assert.Equal(t, "✓ Pruned 0 records, 4 remaining\n", out)
}

func TestWatch(t *testing.T) {
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	dir := t.TempDir()
	writeFile(t, dir, "people.yaml", personQuery)
	outDir := filepath.Join(t.TempDir(), "out")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan int, 1)
	go func() {
		done <- execute(ctx, []string{"watch", dir, "-t", "python", "--initial", "--out-dir", outDir, "--debounce", "10ms"})
	}()

	want := filepath.Join(outDir, "people.python.txt")
	assert.Eventually(t, func() bool {
		_, err := os.Stat(want)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case code := <-done:
		assert.Equal(t, cli.ExitOK, code)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}

	b, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, "g.V().has_label('person')\n", string(b))
	assert.Contains(t, errOut.String(), "Watching 1 path(s)")
}

func TestBatchReport_String(t *testing.T) {
	var r batchReport
	assert.Equal(t, "\n\n0 documents, 0 failed", r.String())
}
