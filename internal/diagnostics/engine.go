// Package diagnostics sweeps fetched record batches against the schema
// registry and aggregates findings into a run-level report.
package diagnostics

import (
	"log/slog"
	"sort"

	"github.com/backcast-labs/backcast/internal/provider"
	"github.com/backcast-labs/backcast/internal/schema"
)

// Severity of a single finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Policy is the run-wide strictness, resolved once from the active
// profile rather than re-tested per record.
type Policy int

const (
	PolicyLenient Policy = iota
	PolicyStrict
)

// strictProfiles lists the profiles under which every missing field is
// fatal for the run.
var strictProfiles = map[string]struct{}{
	"debug_strict": {},
}

// PolicyFor resolves the strictness policy for a profile name.
func PolicyFor(profile string) Policy {
	if _, ok := strictProfiles[profile]; ok {
		return PolicyStrict
	}
	return PolicyLenient
}

func (p Policy) severity() Severity {
	if p == PolicyStrict {
		return SeverityError
	}
	return SeverityWarning
}

// Status of a run after the sweep. Derived from the counts, never set
// independently.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusDegraded Status = "degraded"
	StatusFailed   Status = "failed"
)

// Finding records the missing required fields of one record.
type Finding struct {
	Symbol        string   `json:"symbol"`
	PeriodEnd     string   `json:"period_end"`
	MissingFields []string `json:"missing_fields"`
	Severity      Severity `json:"severity"`
}

// Summary aggregates the sweep.
type Summary struct {
	RecordsChecked int    `json:"records_checked"`
	MissingFields  int    `json:"missing_fields"`
	Errors         int    `json:"errors"`
	Warnings       int    `json:"warnings"`
	Status         Status `json:"status"`
}

// Report is the per-run diagnostics artifact: the summary plus ordered
// per-record findings for every swept statement. Statements with zero
// findings keep an empty, present detail list. Never mutated once the
// sweep completes.
type Report struct {
	Profile string               `json:"profile"`
	Summary Summary              `json:"summary"`
	Details map[string][]Finding `json:"details"`
}

// Proceed reports whether downstream artifact writing may go ahead.
// The diagnostics artifact itself is written regardless.
func (r *Report) Proceed() bool {
	return r.Summary.Status != StatusFailed
}

// Engine runs the validation sweep for one run.
type Engine struct {
	registry *schema.Registry
	profile  string
	policy   Policy
	logger   *slog.Logger
}

// NewEngine creates an engine for the active profile. A nil logger
// falls back to slog.Default().
func NewEngine(registry *schema.Registry, profile string, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		registry: registry,
		profile:  profile,
		policy:   PolicyFor(profile),
		logger:   logger,
	}
}

// Sweep validates every record of every statement in the batch and
// aggregates the findings. Findings are data, not errors; only a broken
// schema aborts the sweep.
func (e *Engine) Sweep(batch provider.Batch) (*Report, error) {
	report := &Report{
		Profile: e.profile,
		Details: make(map[string][]Finding, len(batch)),
	}

	statements := make([]string, 0, len(batch))
	for name := range batch {
		statements = append(statements, name)
	}
	sort.Strings(statements)

	for _, statement := range statements {
		findings := []Finding{}
		for _, record := range batch[statement] {
			report.Summary.RecordsChecked++

			missing, err := e.registry.ValidateRecord(e.profile, statement, record)
			if err != nil {
				return nil, err
			}
			if len(missing) == 0 {
				continue
			}

			severity := e.policy.severity()
			report.Summary.MissingFields += len(missing)
			if severity == SeverityError {
				report.Summary.Errors++
			} else {
				report.Summary.Warnings++
			}

			finding := Finding{
				Symbol:        stringField(record, "symbol"),
				PeriodEnd:     stringField(record, "period_end"),
				MissingFields: missing,
				Severity:      severity,
			}
			findings = append(findings, finding)

			e.logger.Debug("missing required fields",
				"statement", statement,
				"symbol", finding.Symbol,
				"period_end", finding.PeriodEnd,
				"fields", missing,
				"severity", severity)
		}
		report.Details[statement] = findings
	}

	report.Summary.Status = statusFor(report.Summary)
	return report, nil
}

func statusFor(s Summary) Status {
	switch {
	case s.Errors > 0:
		return StatusFailed
	case s.Warnings > 0:
		return StatusDegraded
	default:
		return StatusSuccess
	}
}

func stringField(record provider.Record, key string) string {
	if s, ok := record[key].(string); ok {
		return s
	}
	return ""
}
