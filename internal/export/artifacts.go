package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/backcast-labs/backcast/internal/config"
	"github.com/backcast-labs/backcast/internal/diagnostics"
)

// Artifact file names within a run directory.
const (
	ConfigCopyName  = "config.yaml"
	DiagnosticsName = "diagnostics.json"
)

// WriteConfigCopy persists the fully composed configuration into the run
// directory for reproducibility.
func WriteConfigCopy(dir string, tree *config.Tree) (string, error) {
	path := filepath.Join(dir, ConfigCopyName)

	data, err := yaml.Marshal(tree.Raw())
	if err != nil {
		return "", fmt.Errorf("marshal configuration copy: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// WriteDiagnostics persists the diagnostics report. Callers invoke this
// on every exit path, including the abort path, so a post-mortem
// artifact always exists.
func WriteDiagnostics(dir string, report *diagnostics.Report) (string, error) {
	path := filepath.Join(dir, DiagnosticsName)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal diagnostics report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
