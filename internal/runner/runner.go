// Package runner orchestrates one backtest data run: configuration
// composition and validation, record fetching, the diagnostics sweep,
// and artifact writing.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/backcast-labs/backcast/internal/config"
	"github.com/backcast-labs/backcast/internal/diagnostics"
	"github.com/backcast-labs/backcast/internal/export"
	"github.com/backcast-labs/backcast/internal/provider"
	"github.com/backcast-labs/backcast/internal/run"
	"github.com/backcast-labs/backcast/internal/schema"
)

// ErrRunFailed signals that the diagnostics sweep found error-level
// findings: the diagnostics report was written, tabular artifacts were
// suppressed, and the run must not be treated as usable.
var ErrRunFailed = errors.New("record validation failed")

// DefaultProfile is the requirements profile used when the content
// configuration does not name one.
const DefaultProfile = "default"

// Options configures a run.
type Options struct {
	ConfigsDir string
	OutputsDir string
	Selectors  config.Selectors

	// Provider overrides data_mode resolution; used by tests.
	Provider provider.Provider

	Logger *slog.Logger

	// LogLevel, when set, is raised to Debug for execution.logging
	// "maximal" once the composed configuration is known.
	LogLevel *slog.LevelVar
}

// Result carries everything a caller may want to report about a run.
// On ErrRunFailed the result is still populated so the caller can show
// the diagnostics summary.
type Result struct {
	Run      *run.Context
	Config   *config.Tree
	Report   *diagnostics.Report
	CSVPaths []string
}

// Run executes a full backtest data run. Load and configuration errors
// abort before any output exists; once the sweep has produced a report,
// the diagnostics artifact is written unconditionally, even when the
// decision is to abort.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tree, err := config.Compose(opts.ConfigsDir, opts.Selectors)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(tree); err != nil {
		return nil, err
	}

	exec, err := tree.Execution()
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != nil && exec.Logging == "maximal" {
		opts.LogLevel.Set(slog.LevelDebug)
	}
	universe, err := tree.Universe()
	if err != nil {
		return nil, err
	}
	content, err := tree.Content()
	if err != nil {
		return nil, err
	}

	registry, err := schema.Load(filepath.Join(opts.ConfigsDir, schema.FileName))
	if err != nil {
		return nil, err
	}

	rc, err := run.New(opts.OutputsDir)
	if err != nil {
		return nil, err
	}
	logger.Info("run started",
		"run_id", rc.ID,
		"universe", opts.Selectors.Universe,
		"content", opts.Selectors.Content,
		"execution", opts.Selectors.Execution,
		"symbols", len(universe.Symbols))

	if _, err := export.WriteConfigCopy(rc.OutputDir, tree); err != nil {
		return nil, err
	}

	prov := opts.Provider
	if prov == nil {
		prov, err = provider.ForMode(exec.DataMode)
		if err != nil {
			return nil, err
		}
	}

	batch, err := prov.Fetch(ctx, universe.Symbols)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}

	profile := content.ValidationProfile
	if profile == "" {
		profile = DefaultProfile
	}

	engine := diagnostics.NewEngine(registry, profile, logger)
	report, err := engine.Sweep(batch)
	if err != nil {
		return nil, err
	}

	// Diagnostics persistence is unconditional: the report lands on
	// disk before the go/no-go decision takes effect.
	if _, err := export.WriteDiagnostics(rc.OutputDir, report); err != nil {
		return nil, err
	}

	result := &Result{Run: rc, Config: tree, Report: report}

	if !report.Proceed() {
		logger.Error("strict validation failed",
			"run_id", rc.ID,
			"profile", profile,
			"errors", report.Summary.Errors,
			"missing_fields", report.Summary.MissingFields)
		return result, fmt.Errorf("%d error-level findings under profile %q: %w",
			report.Summary.Errors, profile, ErrRunFailed)
	}

	statements := make([]string, 0, len(batch))
	for name := range batch {
		statements = append(statements, name)
	}
	sort.Strings(statements)
	for _, statement := range statements {
		path, err := export.WriteStatementCSV(rc.OutputDir, statement, batch[statement])
		if err != nil {
			return result, err
		}
		result.CSVPaths = append(result.CSVPaths, path)
	}

	if report.Summary.Status == diagnostics.StatusDegraded {
		logger.Warn("run degraded",
			"run_id", rc.ID,
			"warnings", report.Summary.Warnings,
			"missing_fields", report.Summary.MissingFields)
	}
	logger.Info("run complete",
		"run_id", rc.ID,
		"status", report.Summary.Status,
		"records_checked", report.Summary.RecordsChecked,
		"output_dir", rc.OutputDir)

	return result, nil
}
