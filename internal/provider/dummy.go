package provider

import "context"

// dummyPeriods are the reporting periods every dummy record covers.
var dummyPeriods = []string{"2025-12-31", "2024-12-31", "2023-12-31"}

// DummyFundamentals emits canonical balance-sheet, income-statement, and
// cash-flow records for a small number of annual periods. Deterministic,
// for smoke runs and tests.
type DummyFundamentals struct {
	source string
}

// NewDummyFundamentals returns the dummy fixture provider.
func NewDummyFundamentals() *DummyFundamentals {
	return &DummyFundamentals{source: "dummy"}
}

// Source implements Provider.
func (p *DummyFundamentals) Source() string { return p.source }

// Fetch implements Provider. Every symbol gets one record per statement
// per period, with fixed figures.
func (p *DummyFundamentals) Fetch(_ context.Context, symbols []string) (Batch, error) {
	batch := Batch{
		StatementBalanceSheet: {},
		StatementIncome:       {},
		StatementCashFlow:     {},
	}

	for _, symbol := range symbols {
		for _, period := range dummyPeriods {
			common := Record{
				"symbol":      symbol,
				"period_end":  period,
				"period_type": "annual",
				"currency":    "USD",
				"source":      p.source,
			}

			batch[StatementBalanceSheet] = append(batch[StatementBalanceSheet], merge(common, Record{
				"cash_and_equivalents": 1000.0,
				"total_assets":         5000.0,
				"total_liabilities":    3000.0,
				"total_equity":         2000.0,
				"total_debt":           1500.0,
			}))

			batch[StatementIncome] = append(batch[StatementIncome], merge(common, Record{
				"revenue":            2000.0,
				"operating_income":   500.0,
				"net_income":         300.0,
				"cost_of_goods_sold": 1200.0,
				"gross_profit":       800.0,
				"operating_expenses": 300.0,
			}))

			cfo := 1100.0
			capex := -400.0
			batch[StatementCashFlow] = append(batch[StatementCashFlow], merge(common, Record{
				"cfo":            cfo,
				"capex":          capex,
				"free_cash_flow": cfo + capex,
			}))
		}
	}

	return batch, nil
}

func merge(common, specific Record) Record {
	out := make(Record, len(common)+len(specific))
	for k, v := range common {
		out[k] = v
	}
	for k, v := range specific {
		out[k] = v
	}
	return out
}
