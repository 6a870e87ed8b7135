package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/backcast-labs/backcast/internal/config"
	"github.com/backcast-labs/backcast/internal/diagnostics"
)

func composeTestTree(t *testing.T) *config.Tree {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"execution/Default.yaml":    "execution: {logging: minimal, data_mode: dummy, run_scale: smoke, error_policy: fail_fast}\n",
		"execution/dev.yaml":        "execution: {logging: maximal}\n",
		"content/fundamentals.yaml": "content: {protocol: fundamentals}\n",
		"universes/US_Smoke.yaml":   "universe: {symbols: [AAPL]}\n",
	}
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	tree, err := config.Compose(dir, config.Selectors{
		Universe: "US_Smoke", Content: "fundamentals", Execution: "dev",
	})
	require.NoError(t, err)
	return tree
}

func TestWriteConfigCopy(t *testing.T) {
	dir := t.TempDir()
	tree := composeTestTree(t)

	path, err := WriteConfigCopy(dir, tree)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))

	meta, ok := decoded["_meta"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "US_Smoke", meta["universe"])
	assert.Equal(t, "maximal", decoded["execution"].(map[string]any)["logging"])
}

func TestWriteDiagnostics(t *testing.T) {
	dir := t.TempDir()
	report := &diagnostics.Report{
		Profile: "default",
		Summary: diagnostics.Summary{
			RecordsChecked: 2,
			MissingFields:  1,
			Warnings:       1,
			Status:         diagnostics.StatusDegraded,
		},
		Details: map[string][]diagnostics.Finding{
			"balance_sheet": {{
				Symbol:        "AAPL",
				PeriodEnd:     "2025-12-31",
				MissingFields: []string{"total_assets"},
				Severity:      diagnostics.SeverityWarning,
			}},
			"income_statement": {},
		},
	}

	path, err := WriteDiagnostics(dir, report)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded diagnostics.Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.Summary, decoded.Summary)
	assert.Equal(t, report.Details["balance_sheet"], decoded.Details["balance_sheet"])

	// Empty detail lists survive serialization as empty, not null.
	assert.Contains(t, string(data), `"income_statement": []`)
}
