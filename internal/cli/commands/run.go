package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	cliconfig "github.com/backcast-labs/backcast/internal/cli/config"
	"github.com/backcast-labs/backcast/internal/config"
	"github.com/backcast-labs/backcast/internal/diagnostics"
	"github.com/backcast-labs/backcast/internal/runner"
)

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	var sel config.Selectors

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compose, validate, and execute a backtest data run",
		Long: `Compose the run configuration from its four layered sources, validate it,
fetch financial-statement records, validate them against the schema, and
write the run's artifacts.

The diagnostics report is always written, even when strict validation
fails; tabular statement files are written only on success or degraded
runs.`,
		Example: `  # Smoke run against the dummy provider
  backcast run --universe US_Smoke --content fundamentals --execution dev

  # Production-shaped run
  backcast run --universe US_Large --content fundamentals --execution prod`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd, sel)
		},
	}

	addSelectorFlags(cmd, &sel)
	return cmd
}

func runRun(cmd *cobra.Command, sel config.Selectors) error {
	ctx := cmd.Context()
	settings := cliconfig.GetSettings(ctx)
	out := cmd.OutOrStdout()
	startTime := time.Now()

	result, err := runner.Run(ctx, runner.Options{
		ConfigsDir: settings.ConfigsDir,
		OutputsDir: settings.OutputsDir,
		Selectors:  sel,
		Logger:     cliconfig.GetLogger(ctx),
		LogLevel:   cliconfig.GetLogLevel(ctx),
	})

	// A failed sweep still carries a report worth showing.
	if result != nil && result.Report != nil {
		renderSummary(out, result.Report)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Run %s: %s\n", result.Run.ID, result.Report.Summary.Status)
	fmt.Fprintf(out, "Outputs written to %s\n", result.Run.OutputDir)
	fmt.Fprintf(out, "Completed in %s\n", time.Since(startTime).Round(time.Millisecond))
	return nil
}

// renderSummary prints the per-statement findings table and the
// aggregate counts.
func renderSummary(w io.Writer, report *diagnostics.Report) {
	statements := make([]string, 0, len(report.Details))
	for name := range report.Details {
		statements = append(statements, name)
	}
	sort.Strings(statements)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Statement", "Findings", "Missing Fields"})
	for _, name := range statements {
		findings := report.Details[name]
		missing := 0
		for _, f := range findings {
			missing += len(f.MissingFields)
		}
		t.AppendRow(table.Row{name, len(findings), missing})
	}
	t.Render()

	fmt.Fprintf(w, "Checked %d records under profile %q: %d errors, %d warnings (%s)\n",
		report.Summary.RecordsChecked, report.Profile,
		report.Summary.Errors, report.Summary.Warnings, report.Summary.Status)
}
