// Package registry holds the set of task definitions available to a session.
//
// The registry is populated before a session starts, either programmatically
// or by a taskfile loader, and is treated as read-only for the duration of a
// run. It replaces any notion of load-time global registration: everything
// the graph builder can reach arrives through an explicit Registry value.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jogjacamp/invoke/internal/task"
)

// Registry maps task names to their definitions, preserving insertion order
// for listings.
type Registry struct {
	byName map[string]*task.Definition
	order  []string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{byName: make(map[string]*task.Definition)}
}

// Add registers a definition under its name. Registering the same name twice
// is an error.
func (r *Registry) Add(def *task.Definition) error {
	name := def.Name()
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("task %q is already registered", name)
	}
	r.byName[name] = def
	r.order = append(r.order, name)
	return nil
}

// Lookup returns the definition registered under name, if any.
func (r *Registry) Lookup(name string) (*task.Definition, bool) {
	def, ok := r.byName[name]
	return def, ok
}

// Names returns the registered task names in insertion order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of registered tasks.
func (r *Registry) Len() int { return len(r.order) }

// Resolve maps an ordered list of requested task names to argument-less
// calls. An unknown name is an error naming the known tasks, so a typo on
// the command line fails before any body runs.
func (r *Registry) Resolve(targets []string) ([]*task.Call, error) {
	calls := make([]*task.Call, 0, len(targets))
	for _, target := range targets {
		def, ok := r.byName[target]
		if !ok {
			known := r.Names()
			sort.Strings(known)
			return nil, fmt.Errorf("no task named %q (known tasks: %s)", target, strings.Join(known, ", "))
		}
		calls = append(calls, task.Called(def, nil))
	}
	return calls, nil
}
