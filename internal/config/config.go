// Package config defines the run configuration model and its optional YAML
// file source. Flags override file values; the file overrides defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Model holds every knob a run can be configured with.
type Model struct {
	// TasksPath is the taskfile or directory of taskfiles.
	TasksPath string `yaml:"tasks_path"`
	// NoDeps disables recursive dependency and followup expansion; only
	// explicitly requested tasks run, in their requested order.
	NoDeps bool `yaml:"no_deps"`
	// FailFast aborts remaining independent work after the first failure.
	FailFast bool `yaml:"fail_fast"`
	// Workers greater than one opts in to concurrent execution of
	// independent tasks.
	Workers int `yaml:"workers"`
	// Echo prints each shell command before it runs.
	Echo bool `yaml:"echo"`
	// NoLock skips the taskfile-adjacent run lock.
	NoLock bool `yaml:"no_lock"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the standard configuration.
func Default() *Model {
	return &Model{
		TasksPath: "tasks.hcl",
		Workers:   1,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// LoadFile reads a YAML configuration file over the defaults. A missing file
// is not an error when optional is true, so the conventional "invoke.yaml if
// present" lookup stays quiet.
func LoadFile(path string, optional bool) (*Model, error) {
	m := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return m, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return m, nil
}

// Validate rejects values the engine cannot honor.
func (m *Model) Validate() error {
	if m.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", m.Workers)
	}
	switch m.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("log_format must be 'text' or 'json', got %q", m.LogFormat)
	}
	switch m.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error; got %q", m.LogLevel)
	}
	return nil
}
