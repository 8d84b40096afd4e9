package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gremlin-hq/polyglot/pkg/cli"
	"gremlin-hq/polyglot/pkg/gremlin/ast"
	"gremlin-hq/polyglot/pkg/strategy"
)

var strategiesFlags struct {
	output string
}

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List the registered traversal strategies",
	Long: `List the strategies in the registry with their construction kinds and
configuration keys. Strategies named in strategies.disabled are left out.

Examples:
  polyglot strategies
  polyglot strategies --output json
  polyglot strategies resolve query.yaml`,
	Args: cobra.NoArgs,
	RunE: runStrategies,
}

var strategiesResolveCmd = &cobra.Command{
	Use:   "resolve FILE",
	Short: "Construct every strategy specification found in FILE",
	Long: `Decode FILE and construct each strategy specification found in its
traversals, reporting the construction path taken or the failure.`,
	Args: cobra.ExactArgs(1),
	RunE: runStrategiesResolve,
}

func init() {
	rootCmd.AddCommand(strategiesCmd)
	strategiesCmd.AddCommand(strategiesResolveCmd)

	strategiesCmd.PersistentFlags().StringVarP(&strategiesFlags.output, "output", "o", "text", "output format (text, json, yaml, csv)")
}

type strategyRow struct {
	Name        string   `json:"name" yaml:"name"`
	Kind        string   `json:"kind" yaml:"kind"`
	Kinds       []string `json:"kinds" yaml:"kinds"`
	Keys        []string `json:"keys,omitempty" yaml:"keys,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

type strategyList []strategyRow

func (l strategyList) String() string {
	var sb strings.Builder
	for _, r := range l {
		fmt.Fprintf(&sb, "%-36s %-16s %s\n", r.Name, r.Kind, r.Description)
		if len(r.Keys) > 0 {
			fmt.Fprintf(&sb, "%-36s keys: %s\n", "", strings.Join(r.Keys, ", "))
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func (l strategyList) Header() []string {
	return []string{"name", "kind", "kinds", "keys", "description"}
}

func (l strategyList) Rows() [][]string {
	rows := make([][]string, len(l))
	for i, r := range l {
		rows[i] = []string{r.Name, r.Kind, strings.Join(r.Kinds, ";"), strings.Join(r.Keys, ";"), r.Description}
	}
	return rows
}

func runStrategies(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(strategiesFlags.output)
	if err != nil {
		return cli.NewConfigError("output", err.Error())
	}

	var list strategyList
	for _, name := range env.registry.Names() {
		e, _ := env.registry.Lookup(name)
		row := strategyRow{Name: e.Name, Kind: e.Kind.String(), Keys: e.Keys, Description: e.Description}
		for _, k := range e.Kinds() {
			row.Kinds = append(row.Kinds, k.String())
		}
		list = append(list, row)
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), list)
}

type resolutionRow struct {
	Document      string `json:"document" yaml:"document"`
	Location      string `json:"location,omitempty" yaml:"location,omitempty"`
	Strategy      string `json:"strategy" yaml:"strategy"`
	Kind          string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Configuration string `json:"configuration,omitempty" yaml:"configuration,omitempty"`
	Error         string `json:"error,omitempty" yaml:"error,omitempty"`
}

type resolutionReport []resolutionRow

func (r resolutionReport) String() string {
	if len(r) == 0 {
		return "no strategy specifications found"
	}
	var sb strings.Builder
	for _, row := range r {
		status := "✓ " + row.Kind
		if row.Error != "" {
			status = "✗ " + row.Error
		}
		fmt.Fprintf(&sb, "%s %s: %s", row.Document, row.Strategy, status)
		if row.Configuration != "" {
			fmt.Fprintf(&sb, " %s", row.Configuration)
		}
		sb.WriteByte('\n')
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func (r resolutionReport) Header() []string {
	return []string{"document", "location", "strategy", "kind", "configuration", "error"}
}

func (r resolutionReport) Rows() [][]string {
	rows := make([][]string, len(r))
	for i, row := range r {
		rows[i] = []string{row.Document, row.Location, row.Strategy, row.Kind, row.Configuration, row.Error}
	}
	return rows
}

func runStrategiesResolve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	format, err := cli.ParseOutputFormat(strategiesFlags.output)
	if err != nil {
		return cli.NewConfigError("output", err.Error())
	}

	docs, err := readDocuments(cmd.InOrStdin(), args[0])
	if err != nil {
		return cli.NewCommandError("strategies resolve", err)
	}

	resolver := env.resolver()
	var (
		report resolutionReport
		failed int
	)
	for _, doc := range docs {
		err := ast.Walk(doc.Query, ast.VisitorFunc(func(n ast.Node) error {
			spec, ok := n.(*ast.StrategySpec)
			if !ok {
				return nil
			}
			row := resolutionRow{Document: doc.Name(), Strategy: spec.Name}
			if spec.Location.IsValid() {
				row.Location = spec.Location.String()
			}
			res, err := resolver.Construct(ctx, strategy.SpecFrom(spec))
			if err != nil {
				row.Error = err.Error()
				failed++
			} else {
				row.Kind = res.Kind.String()
				if conf := res.Strategy.Configuration(); conf != nil && conf.Len() > 0 {
					row.Configuration = conf.Format()
				}
			}
			report = append(report, row)
			return nil
		}))
		if err != nil {
			return cli.NewCommandError("strategies resolve", err)
		}
	}

	if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), report); err != nil {
		return cli.NewCommandError("strategies resolve", err)
	}
	if failed > 0 {
		return cli.NewCommandError("strategies resolve", fmt.Errorf("%d of %d strategies could not be constructed: %w",
			failed, len(report), strategy.ErrStrategyConstruction))
	}
	return nil
}
