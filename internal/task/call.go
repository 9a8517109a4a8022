package task

import (
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Arguments is a resolved argument binding for one invocation of a task.
type Arguments map[string]cty.Value

// Call binds a Definition to a specific invocation context. Distinct Calls
// may wrap the same Definition; two Calls are duplicates iff they reference
// the same Definition with equal resolved arguments.
type Call struct {
	def  *Definition
	args Arguments
}

// Called binds def to the given arguments. A nil or empty args map produces
// an argument-less call, which is how dependencies and followups referenced
// by bare name are invoked.
func Called(def *Definition, args Arguments) *Call {
	return &Call{def: def, args: args}
}

// Definition returns the task this call invokes.
func (c *Call) Definition() *Definition { return c.def }

// Arguments returns the resolved argument binding, possibly nil.
func (c *Call) Arguments() Arguments { return c.args }

// Key returns the deduplication key for this call: the task identity alone
// for argument-less calls, otherwise the identity plus a canonical rendering
// of the argument values in sorted name order.
func (c *Call) Key() string {
	if len(c.args) == 0 {
		return c.def.name
	}
	names := make([]string, 0, len(c.args))
	for name := range c.args {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString(c.def.name)
	sb.WriteByte('(')
	for i, name := range names {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(c.args[name].GoString())
	}
	sb.WriteByte(')')
	return sb.String()
}
