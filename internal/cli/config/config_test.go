package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test.
// It mirrors testing.T.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	s, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultConfigsDir, s.ConfigsDir)
	assert.Equal(t, DefaultOutputsDir, s.OutputsDir)
	assert.False(t, s.Verbose)
}

func TestLoadSettingsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("configs_dir: /etc/backcast/configs\nverbose: true\n"), 0o644))

	s, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "/etc/backcast/configs", s.ConfigsDir)
	assert.Equal(t, DefaultOutputsDir, s.OutputsDir)
	assert.True(t, s.Verbose)
}

func TestLoadDiscoversLocalSettingsFile(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile(SettingsFileName, []byte("outputs_dir: results\n"), 0o644))

	s, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "results", s.OutputsDir)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("outputs_dir: from_file\n"), 0o644))
	t.Setenv("BACKCAST_OUTPUTS_DIR", "from_env")

	s, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "from_env", s.OutputsDir)
}

func TestLoadFlagsOverrideEverything(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("BACKCAST_OUTPUTS_DIR", "from_env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("outputs-dir", "", "")
	flags.String("configs-dir", "", "")
	require.NoError(t, flags.Parse([]string{"--outputs-dir", "from_flag"}))

	s, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, "from_flag", s.OutputsDir)
	// Unchanged flags do not clobber other layers.
	assert.Equal(t, DefaultConfigsDir, s.ConfigsDir)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading settings file")
}
