package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*Invocation, bool, error) {
	t.Helper()
	var out bytes.Buffer
	return Parse(args, &out)
}

func TestParse_TargetsAndFlags(t *testing.T) {
	inv, exit, err := parse(t, "-f", "build/tasks.hcl", "-no-deps", "-workers", "3", "clean", "build")
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, []string{"clean", "build"}, inv.Targets)
	assert.Equal(t, "build/tasks.hcl", inv.Config.TasksPath)
	assert.True(t, inv.Config.NoDeps)
	assert.Equal(t, 3, inv.Config.Workers)
	assert.False(t, inv.List)
}

func TestParse_NoTargetsShowsUsage(t *testing.T) {
	var out bytes.Buffer
	_, exit, err := Parse(nil, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_List(t *testing.T) {
	inv, exit, err := parse(t, "-l")
	require.NoError(t, err)
	require.False(t, exit)
	assert.True(t, inv.List)
	assert.Empty(t, inv.Targets)
}

func TestParse_Help(t *testing.T) {
	_, exit, err := parse(t, "-h")
	require.NoError(t, err)
	assert.True(t, exit)
}

func TestParse_UnknownFlag(t *testing.T) {
	_, _, err := parse(t, "-bogus")
	require.Error(t, err)
	exitErr, ok := err.(*ExitError)
	require.True(t, ok)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_ConfigFileMerge(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "invoke.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
workers: 8
echo: true
log_level: warn
`), 0o644))

	t.Run("file values apply", func(t *testing.T) {
		inv, _, err := parse(t, "-config", cfgPath, "build")
		require.NoError(t, err)
		assert.Equal(t, 8, inv.Config.Workers)
		assert.True(t, inv.Config.Echo)
		assert.Equal(t, "warn", inv.Config.LogLevel)
	})

	t.Run("flags override file values", func(t *testing.T) {
		inv, _, err := parse(t, "-config", cfgPath, "-workers", "2", "-log-level", "debug", "build")
		require.NoError(t, err)
		assert.Equal(t, 2, inv.Config.Workers)
		assert.Equal(t, "debug", inv.Config.LogLevel)
		assert.True(t, inv.Config.Echo, "unset flags keep file values")
	})

	t.Run("explicitly named missing config file is an error", func(t *testing.T) {
		_, _, err := parse(t, "-config", filepath.Join(dir, "absent.yaml"), "build")
		require.Error(t, err)
	})
}

func TestParse_InvalidMergedConfig(t *testing.T) {
	_, _, err := parse(t, "-log-format", "xml", "build")
	require.Error(t, err)
	exitErr, ok := err.(*ExitError)
	require.True(t, ok)
	assert.Equal(t, 2, exitErr.Code)
}
