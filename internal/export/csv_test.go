package export

import (
	"encoding/csv"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backcast-labs/backcast/internal/provider"
)

func TestWriteStatementCSV(t *testing.T) {
	dir := t.TempDir()
	records := []provider.Record{
		{
			"symbol": "AAPL", "period_end": "2025-12-31", "period_type": "annual",
			"currency": "USD", "source": "dummy",
			"total_assets": 5000.0, "cash_and_equivalents": 1000.0,
		},
		{
			"symbol": "MSFT", "period_end": "2025-12-31", "period_type": "annual",
			"currency": "USD", "source": "dummy",
			"total_assets": 7500.5, "cash_and_equivalents": 2000.0,
		},
	}

	path, err := WriteStatementCSV(dir, "balance_sheet", records)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "balance_sheet.csv"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Fixed leading columns, then remaining fields alphabetically.
	assert.Equal(t, []string{
		"symbol", "period_end", "period_type", "currency", "source",
		"cash_and_equivalents", "total_assets",
	}, rows[0])
	assert.Equal(t, []string{"AAPL", "2025-12-31", "annual", "USD", "dummy", "1000", "5000"}, rows[1])
	assert.Equal(t, []string{"MSFT", "2025-12-31", "annual", "USD", "dummy", "2000", "7500.5"}, rows[2])
}

func TestWriteStatementCSVEmptyRecords(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteStatementCSV(dir, "cash_flow_statement", nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"text", "text"},
		{1000.0, "1000"},
		{-400.25, "-400.25"},
		{42, "42"},
		{true, "true"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatValue(tt.in))
	}
}
