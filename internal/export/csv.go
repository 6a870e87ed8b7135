// Package export writes per-run artifacts: statement CSVs, the composed
// configuration copy, and the diagnostics report.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/backcast-labs/backcast/internal/provider"
)

// leadingColumns is the fixed CSV column prefix shared by every
// statement; remaining columns follow in alphabetical order.
var leadingColumns = []string{"symbol", "period_end", "period_type", "currency", "source"}

// WriteStatementCSV writes one statement's records as rows. The column
// set beyond the fixed prefix comes from the first record. An empty
// record list still produces an (empty) artifact.
func WriteStatementCSV(dir, statement string, records []provider.Record) (string, error) {
	path := filepath.Join(dir, statement+".csv")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	if len(records) == 0 {
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close %s: %w", path, err)
		}
		return path, nil
	}

	columns := statementColumns(records[0])

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		f.Close()
		return "", fmt.Errorf("write header to %s: %w", path, err)
	}
	for _, record := range records {
		row := make([]string, len(columns))
		for i, column := range columns {
			row[i] = formatValue(record[column])
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return "", fmt.Errorf("write row to %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return "", fmt.Errorf("flush %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

func statementColumns(first provider.Record) []string {
	leading := make(map[string]struct{}, len(leadingColumns))
	for _, column := range leadingColumns {
		leading[column] = struct{}{}
	}

	var extra []string
	for key := range first {
		if _, ok := leading[key]; !ok {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)

	return append(append([]string{}, leadingColumns...), extra...)
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
