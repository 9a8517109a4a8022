package shell

import (
	"fmt"
	"os"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/jogjacamp/invoke/internal/task"
)

// environWith extends the process environment with one INVOKE_ARG_<NAME>
// variable per bound argument, rendered as a plain string where the value
// type allows it.
func environWith(args task.Arguments) []string {
	env := os.Environ()
	for name, val := range args {
		rendered, ok := renderValue(val)
		if !ok {
			continue
		}
		env = append(env, fmt.Sprintf("INVOKE_ARG_%s=%s", strings.ToUpper(name), rendered))
	}
	return env
}

func renderValue(val cty.Value) (string, bool) {
	if val.IsNull() || !val.IsKnown() {
		return "", false
	}
	switch val.Type() {
	case cty.String:
		return val.AsString(), true
	case cty.Number:
		return val.AsBigFloat().Text('f', -1), true
	case cty.Bool:
		if val.True() {
			return "true", true
		}
		return "false", true
	default:
		return "", false
	}
}
