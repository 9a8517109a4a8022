package app

import (
	"fmt"
	"time"

	"github.com/jogjacamp/invoke/internal/executor"
)

// durationPrecision keeps rendered durations readable.
const durationPrecision = time.Millisecond

// renderRecords prints one summary line per record, in execution order.
func (a *App) renderRecords(records []executor.Record) {
	for _, rec := range records {
		switch rec.Status {
		case executor.StatusRan:
			fmt.Fprintf(a.outW, "✅ %s (%s)\n", rec.NodeID, rec.Duration.Round(durationPrecision))
		case executor.StatusSkipped:
			fmt.Fprintf(a.outW, "⏭️ %s (skipped, check satisfied)\n", rec.NodeID)
		case executor.StatusFailed:
			fmt.Fprintf(a.outW, "❌ %s: %v\n", rec.NodeID, rec.Err)
		case executor.StatusBlocked:
			fmt.Fprintf(a.outW, "🚫 %s: %v\n", rec.NodeID, rec.Err)
		}
	}
}

// List prints the registered tasks with their descriptions, in registration
// order.
func (a *App) List() {
	fmt.Fprintln(a.outW, "Available tasks:")
	for _, name := range a.registry.Names() {
		def, _ := a.registry.Lookup(name)
		if desc := def.Description(); desc != "" {
			fmt.Fprintf(a.outW, "  %-20s %s\n", name, desc)
		} else {
			fmt.Fprintf(a.outW, "  %s\n", name)
		}
	}
}
