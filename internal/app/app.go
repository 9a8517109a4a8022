// Package app wires the loader, registry, graph builder and executor into
// one application lifecycle and renders the resulting records.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jogjacamp/invoke/internal/config"
	"github.com/jogjacamp/invoke/internal/ctxlog"
	"github.com/jogjacamp/invoke/internal/registry"
)

// Loader supplies task definitions from an external source. The app never
// parses task source itself.
type Loader interface {
	Load(ctx context.Context, path string) (*registry.Registry, error)
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	cfg      *config.Model
	registry *registry.Registry
}

// New constructs an App with its own isolated logger and a registry
// populated through the loader.
func New(outW io.Writer, cfg *config.Model, loader Loader) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	reg, err := loader.Load(ctx, cfg.TasksPath)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	logger.Debug("Tasks loaded.", "count", reg.Len())

	return &App{
		outW:     outW,
		logger:   logger,
		cfg:      cfg,
		registry: reg,
	}, nil
}

// Registry returns the populated task registry. Primarily for testing.
func (a *App) Registry() *registry.Registry { return a.registry }

// newLogger creates a slog.Logger without touching the global default, so
// concurrent app instances (tests, embedding) stay isolated.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}
	return slog.New(handler)
}
