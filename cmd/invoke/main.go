package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jogjacamp/invoke/internal/app"
	"github.com/jogjacamp/invoke/internal/cli"
	"github.com/jogjacamp/invoke/internal/hcl"
	"github.com/jogjacamp/invoke/internal/shell"
)

// main is the entrypoint for the invoke binary.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) error {
	inv, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	runner := &shell.Runner{Echo: inv.Config.Echo, Stdout: outW, Stderr: os.Stderr}
	loader := hcl.NewLoader(runner)
	invokeApp, err := app.New(outW, inv.Config, loader)
	if err != nil {
		return err
	}

	if inv.List {
		invokeApp.List()
		return nil
	}
	return invokeApp.Run(context.Background(), inv.Targets)
}
