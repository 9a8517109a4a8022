package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	m := Default()
	assert.Equal(t, "tasks.hcl", m.TasksPath)
	assert.Equal(t, 1, m.Workers)
	assert.Equal(t, "info", m.LogLevel)
	assert.Equal(t, "text", m.LogFormat)
	assert.False(t, m.NoDeps)
	assert.False(t, m.FailFast)
}

func TestLoadFile(t *testing.T) {
	t.Run("values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "invoke.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
tasks_path: build/tasks.hcl
no_deps: true
workers: 4
log_level: debug
`), 0o644))

		m, err := LoadFile(path, false)
		require.NoError(t, err)
		assert.Equal(t, "build/tasks.hcl", m.TasksPath)
		assert.True(t, m.NoDeps)
		assert.Equal(t, 4, m.Workers)
		assert.Equal(t, "debug", m.LogLevel)
		// Untouched keys keep their defaults.
		assert.Equal(t, "text", m.LogFormat)
	})

	t.Run("missing optional file yields defaults", func(t *testing.T) {
		m, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), true)
		require.NoError(t, err)
		assert.Equal(t, Default(), m)
	})

	t.Run("missing required file is an error", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), false)
		require.Error(t, err)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "invoke.yaml")
		require.NoError(t, os.WriteFile(path, []byte("workers: [not a number"), 0o644))
		_, err := LoadFile(path, false)
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	m := Default()
	require.NoError(t, m.Validate())

	m.Workers = -1
	assert.Error(t, m.Validate())

	m = Default()
	m.LogFormat = "xml"
	assert.Error(t, m.Validate())

	m = Default()
	m.LogLevel = "loud"
	assert.Error(t, m.Validate())
}
