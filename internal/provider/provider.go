// Package provider defines the record-fetching contract and the
// deterministic dummy provider used for smoke runs.
package provider

import (
	"context"
	"fmt"
)

// Statement names every fundamentals provider must cover.
const (
	StatementBalanceSheet = "balance_sheet"
	StatementIncome       = "income_statement"
	StatementCashFlow     = "cash_flow_statement"
)

// Record is one flat statement row for a symbol and reporting period.
type Record map[string]any

// Batch groups fetched records by statement name, in fetch order.
type Batch map[string][]Record

// Provider fetches financial-statement records for a set of symbols.
type Provider interface {
	// Source identifies where records come from; it is stamped onto
	// every record's "source" field.
	Source() string

	Fetch(ctx context.Context, symbols []string) (Batch, error)
}

// ForMode resolves a provider from execution.data_mode. Production data
// requires an external provider; only the dummy fixture ships here.
func ForMode(mode string) (Provider, error) {
	switch mode {
	case "dummy":
		return NewDummyFundamentals(), nil
	case "production":
		return nil, fmt.Errorf("data_mode %q: no production provider is wired into this build", mode)
	default:
		return nil, fmt.Errorf("unknown data_mode %q", mode)
	}
}
