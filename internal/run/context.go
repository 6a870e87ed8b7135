// Package run manages the per-run identity and output location.
package run

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// runsSubdir is the directory under the outputs root holding run output.
const runsSubdir = "Runs"

// idTimeLayout keeps run directories lexically sortable by start time.
const idTimeLayout = "2006-01-02T15-04-05Z"

// Context pins one run's identity and its freshly created output
// directory. Every artifact of the run is written beneath OutputDir.
type Context struct {
	ID        string
	StartedAt time.Time
	OutputDir string
}

// New allocates a run ID and creates its output directory under
// outputsRoot/Runs. The directory must not already exist; the uuid
// suffix makes collisions between same-second runs impossible.
func New(outputsRoot string) (*Context, error) {
	started := time.Now().UTC()
	id := fmt.Sprintf("%s_%s", started.Format(idTimeLayout), uuid.NewString()[:8])
	dir := filepath.Join(outputsRoot, runsSubdir, id)

	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return nil, fmt.Errorf("create runs directory: %w", err)
	}
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create run directory: %w", err)
	}

	return &Context{ID: id, StartedAt: started, OutputDir: dir}, nil
}
