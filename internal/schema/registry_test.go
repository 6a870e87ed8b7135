package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
statements:
  balance_sheet:
    fields:
      symbol: {type: string}
      period_end: {type: date}
      total_assets: {type: float}
      total_equity: {type: float}
  income_statement:
    fields:
      symbol: {type: string}
      period_end: {type: date}
      revenue: {type: float}
      net_income: {type: float}
requirements:
  default:
    common: [symbol, period_end]
    balance_sheet: [total_assets]
  debug_strict:
    common: [symbol, period_end]
    balance_sheet: [total_assets, total_equity]
    income_statement: [revenue, net_income]
  broken:
    common: [symbol]
    balance_sheet: [goodwill]
`

func loadTestRegistry(t *testing.T, content string) *Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema_main.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	reg, err := Load(path)
	require.NoError(t, err)
	return reg
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantIn  string
	}{
		{
			name:    "missing requirements",
			content: "statements: {balance_sheet: {fields: {symbol: {}}}}\n",
			wantIn:  "'statements' and 'requirements'",
		},
		{
			name:    "missing statements",
			content: "requirements: {default: {common: []}}\n",
			wantIn:  "'statements' and 'requirements'",
		},
		{
			name:    "statement without fields mapping",
			content: "statements: {balance_sheet: {fields: [a, b]}}\nrequirements: {default: {common: []}}\n",
			wantIn:  "must contain a 'fields' mapping",
		},
		{
			name:    "requirements not lists",
			content: "statements: {balance_sheet: {fields: {symbol: {}}}}\nrequirements: {default: {common: not_a_list}}\n",
			wantIn:  "must be lists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "schema_main.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := Load(path)
			require.Error(t, err)

			var schemaErr *Error
			require.ErrorAs(t, err, &schemaErr)
			assert.Contains(t, err.Error(), tt.wantIn)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema file not found")
}

func TestStatementsAndProfilesSorted(t *testing.T) {
	reg := loadTestRegistry(t, testSchema)

	assert.Equal(t, []string{"balance_sheet", "income_statement"}, reg.Statements())
	assert.Equal(t, []string{"broken", "debug_strict", "default"}, reg.Profiles())
}

func TestFieldsForStatement(t *testing.T) {
	reg := loadTestRegistry(t, testSchema)

	fields, err := reg.FieldsForStatement("balance_sheet")
	require.NoError(t, err)
	assert.Contains(t, fields, "total_assets")
	assert.Equal(t, "float", fields["total_assets"].Type)

	_, err = reg.FieldsForStatement("cash_flow_statement")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown statement")
}

func TestRequiredFields(t *testing.T) {
	reg := loadTestRegistry(t, testSchema)

	required, err := reg.RequiredFields("default", "balance_sheet")
	require.NoError(t, err)
	assert.Equal(t, []string{"period_end", "symbol", "total_assets"}, required)

	// Common-only for statements without a specific list.
	required, err = reg.RequiredFields("default", "income_statement")
	require.NoError(t, err)
	assert.Equal(t, []string{"period_end", "symbol"}, required)

	_, err = reg.RequiredFields("nonexistent", "balance_sheet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown requirement profile")
}

func TestRequiredFieldsIntegrityViolation(t *testing.T) {
	reg := loadTestRegistry(t, testSchema)

	// "goodwill" is required by the broken profile but not declared
	// on balance_sheet.
	_, err := reg.RequiredFields("broken", "balance_sheet")
	require.Error(t, err)

	var schemaErr *Error
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, err.Error(), "unknown fields")
	assert.Contains(t, err.Error(), "goodwill")
}

func TestRequiredFieldsCached(t *testing.T) {
	reg := loadTestRegistry(t, testSchema)

	first, err := reg.RequiredFields("debug_strict", "balance_sheet")
	require.NoError(t, err)
	second, err := reg.RequiredFields("debug_strict", "balance_sheet")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestValidateRecord(t *testing.T) {
	reg := loadTestRegistry(t, testSchema)

	tests := []struct {
		name        string
		record      map[string]any
		wantMissing []string
	}{
		{
			name: "complete record",
			record: map[string]any{
				"symbol": "AAPL", "period_end": "2025-12-31",
				"total_assets": 5000.0, "total_equity": 2000.0,
			},
			wantMissing: nil,
		},
		{
			name: "one missing field",
			record: map[string]any{
				"symbol": "AAPL", "period_end": "2025-12-31", "total_equity": 2000.0,
			},
			wantMissing: []string{"total_assets"},
		},
		{
			name:        "multiple missing fields alphabetical",
			record:      map[string]any{"symbol": "AAPL"},
			wantMissing: []string{"period_end", "total_assets", "total_equity"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			missing, err := reg.ValidateRecord("debug_strict", "balance_sheet", tt.record)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMissing, missing)
		})
	}
}

func TestValidateRecordNilRecord(t *testing.T) {
	reg := loadTestRegistry(t, testSchema)

	_, err := reg.ValidateRecord("default", "balance_sheet", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record must be a mapping")
}
