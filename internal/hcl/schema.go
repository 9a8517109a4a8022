package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// File represents the top-level structure of a taskfile.
type File struct {
	Tasks []*TaskBlock `hcl:"task,block"`
	Body  hcl.Body     `hcl:",remain"`
}

// TaskBlock represents a `task "name" { ... }` block.
type TaskBlock struct {
	Name        string        `hcl:"name,label"`
	Description string        `hcl:"description,optional"`
	Command     string        `hcl:"command,optional"`
	DependsOn   []string      `hcl:"depends_on,optional"`
	Afterwards  []string      `hcl:"afterwards,optional"`
	Checks      []*CheckBlock `hcl:"check,block"`
}

// CheckBlock represents a `check "kind" { ... }` block. The kind-specific
// attributes stay undecoded until translation.
type CheckBlock struct {
	Kind string   `hcl:"kind,label"`
	Body hcl.Body `hcl:",remain"`
}

// fileExistsCheck is the body of a `check "file_exists"` block.
type fileExistsCheck struct {
	Path string `hcl:"path"`
}

// commandCheck is the body of a `check "command"` block.
type commandCheck struct {
	Run string `hcl:"run"`
}

// envSetCheck is the body of a `check "env_set"` block.
type envSetCheck struct {
	Name string `hcl:"name"`
}
