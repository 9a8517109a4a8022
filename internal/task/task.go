package task

import (
	"context"
	"fmt"
)

// Body is the invokable unit of work bound to a Definition. It receives the
// resolved arguments of the Call it runs under.
type Body func(ctx context.Context, args Arguments) error

// Definition is an immutable description of a unit of work. Its dependency,
// followup and check lists are fixed at construction time.
type Definition struct {
	name        string
	description string
	body        Body
	dependsOn   []*Call
	afterwards  []*Call
	checks      []Check
}

// Option configures a Definition at construction time.
type Option func(*Definition)

// DependsOn declares calls that must complete (or be check-skipped) before
// this task.
func DependsOn(calls ...*Call) Option {
	return func(d *Definition) {
		d.dependsOn = append(d.dependsOn, calls...)
	}
}

// Afterwards declares calls requested to run after this task.
func Afterwards(calls ...*Call) Option {
	return func(d *Definition) {
		d.afterwards = append(d.afterwards, calls...)
	}
}

// WithChecks declares predicates deciding whether the task's effects are
// already achieved. A single satisfied check is sufficient to skip the body.
func WithChecks(checks ...Check) Option {
	return func(d *Definition) {
		d.checks = append(d.checks, checks...)
	}
}

// WithDescription sets a human-readable summary, shown by task listings.
func WithDescription(desc string) Option {
	return func(d *Definition) {
		d.description = desc
	}
}

// New constructs a Definition. The body may be nil for pure grouping tasks
// whose only purpose is to pull in dependencies.
func New(name string, body Body, opts ...Option) *Definition {
	d := &Definition{name: name, body: body}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns the unique identity of the task.
func (d *Definition) Name() string { return d.name }

// Description returns the human-readable summary, possibly empty.
func (d *Definition) Description() string { return d.description }

// Body returns the invokable unit, possibly nil.
func (d *Definition) Body() Body { return d.body }

// DependsOn returns the declared pre-task calls. The returned slice is a
// copy; callers cannot mutate the definition through it.
func (d *Definition) DependsOn() []*Call {
	return append([]*Call(nil), d.dependsOn...)
}

// Afterwards returns the declared followup calls as a copy.
func (d *Definition) Afterwards() []*Call {
	return append([]*Call(nil), d.afterwards...)
}

// Checks returns the declared check predicates as a copy.
func (d *Definition) Checks() []Check {
	return append([]Check(nil), d.checks...)
}

// Satisfied reports whether any configured check considers the task's desired
// end state already achieved. No checks means "always run". Checks are
// evaluated in declaration order and the first satisfied one wins; a check
// error is surfaced as an evaluation failure, never treated as "run".
func (d *Definition) Satisfied(ctx context.Context) (bool, error) {
	for i, c := range d.checks {
		ok, err := c.Satisfied(ctx)
		if err != nil {
			return false, fmt.Errorf("check %d of task %q: %w", i, d.name, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
